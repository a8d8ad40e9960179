package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"airstay-backend/lib/stays"
)

var statsParams stays.SearchParams

func init() {
	flags := statsCmd.Flags()
	flags.StringVar(&statsParams.Checkin, "checkin", "", "check-in date (YYYY-MM-DD)")
	flags.StringVar(&statsParams.Checkout, "checkout", "", "check-out date (YYYY-MM-DD)")
	flags.StringVar(&statsParams.PropertyType, "type", "", "property type filter")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <location>",
	Short: "Aggregates price and rating statistics over a location's listings.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		statsParams.Location = args[0]
		statistics, err := client.GetNeighborhoodStats(cmd.Context(), statsParams)
		if err != nil {
			fatal(err)
		}
		if printJSON(statistics) {
			return
		}
		fmt.Print(statistics)
	},
}
