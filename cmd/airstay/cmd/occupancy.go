package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var occupancyMonths int

func init() {
	occupancyCmd.Flags().IntVar(&occupancyMonths, "months", 3, "number of months to analyze")
	rootCmd.AddCommand(occupancyCmd)
}

var occupancyCmd = &cobra.Command{
	Use:   "occupancy <listing-id>",
	Short: "Estimates how booked a listing is from its availability calendar.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		estimate, err := client.GetOccupancyEstimate(cmd.Context(), args[0], occupancyMonths)
		if err != nil {
			fatal(err)
		}
		if printJSON(estimate) {
			return
		}
		fmt.Print(estimate)
	},
}
