package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.csv>",
	Short: "Upload a CSV file and print the analysis summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()

		c := newClient()
		result, err := c.Upload(context.Background(), filepath.Base(path), f)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n\n", result.Message)
		if result.EDA != nil {
			fmt.Printf("Dataset: %s\n", result.Dataset)
			fmt.Printf("Shape:   %d rows x %d columns\n", result.EDA.Shape[0], result.EDA.Shape[1])
			fmt.Printf("Columns: %v\n\n", result.EDA.Columns)
		}
		if result.Insights != "" {
			fmt.Println("Insights:")
			fmt.Println(result.Insights)
			fmt.Println()
		}
		if len(result.Plots) > 0 {
			fmt.Println("Plots:")
			for _, p := range result.Plots {
				fmt.Println("  " + c.PlotURL(p))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
