package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the analyst server is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := newClient().Health(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("status:   %v\n", report["status"])
		fmt.Printf("version:  %v\n", report["version"])
		fmt.Printf("provider: %v\n", report["provider"])
		fmt.Printf("loaded:   %v\n", report["loaded"])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
