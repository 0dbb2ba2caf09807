package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/csv-analyst/backend/internal/api"
	"github.com/csv-analyst/backend/internal/config"
	"github.com/csv-analyst/backend/internal/insights"
	"github.com/csv-analyst/backend/internal/llm"
	"github.com/csv-analyst/backend/internal/plot"
	"github.com/csv-analyst/backend/internal/session"
	"github.com/csv-analyst/backend/internal/storage"
	"github.com/csv-analyst/backend/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Provider API keys live in .env during development.
	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	plotStore, err := storage.NewPlotStore(cfg.Storage.PlotsDirectory)
	if err != nil {
		fmt.Printf("Failed to initialize plot storage: %v\n", err)
		os.Exit(1)
	}

	var llmClient llm.Client
	if client, err := llm.NewClient(cfg.LLM); err != nil {
		fmt.Printf("Warning: LLM provider unavailable, insights disabled: %v\n", err)
	} else {
		llmClient = client
	}
	insightSvc := insights.NewService(llmClient, time.Duration(cfg.LLM.TimeoutSeconds)*time.Second)

	sessionMgr := session.NewManager()

	// Release the on-disk row store of an idle dataset.
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Storage.CleanupIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			sessionMgr.ReleaseIdleRows(time.Duration(cfg.Storage.IdleReleaseMinutes) * time.Minute)
		}
	}()

	generator := plot.NewGenerator(plot.Policy{
		MaxHistograms:  cfg.Analysis.MaxHistograms,
		MaxCountCharts: cfg.Analysis.MaxCountCharts,
	})

	h := api.NewHandler(cfg, sessionMgr, plotStore, insightSvc, generator)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			// Uploads and AI calls run longer than the request timeout.
			return path == "/upload" || path == "/ask" ||
				strings.HasPrefix(path, "/api/ws/")
		},
		ErrorMessage: "Request timeout",
	}))

	e.Use(middleware.Gzip())
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, h, plotStore.BaseDir())

	if web.HasEmbeddedFiles() {
		if err := web.RegisterStaticRoutes(e); err != nil {
			fmt.Printf("Warning: failed to register static routes: %v\n", err)
		}
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("AI Data Analyst server %s (built %s)\n", Version, BuildTime)
	fmt.Printf("  Provider: %s\n", insightSvc.Provider())
	fmt.Printf("  Plots:    %s\n", cfg.PlotsDir())
	fmt.Printf("  Listen:   http://%s\n", cfg.GetServerAddr())

	e.Logger.Fatal(e.StartServer(s))
}
