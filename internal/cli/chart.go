package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var chartCmd = &cobra.Command{
	Use:   "chart <type> <column>...",
	Short: "Generate a chart for the uploaded dataset",
	Long: `Generate a chart on the server and print its URL.

Supported types: histogram, kde, scatter, line, bar, countplot, pie,
regplot, heatmap.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		url, err := c.GenerateChart(context.Background(), args[0], args[1:])
		if err != nil {
			return err
		}
		fmt.Println(c.PlotURL(url))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
}
