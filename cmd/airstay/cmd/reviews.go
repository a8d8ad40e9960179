package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reviewsCursor string

func init() {
	reviewsCmd.Flags().StringVar(&reviewsCursor, "cursor", "", "pagination cursor from a previous page")
	rootCmd.AddCommand(reviewsCmd)
}

var reviewsCmd = &cobra.Command{
	Use:   "reviews <listing-id>",
	Short: "Prints reviews and category ratings for a listing.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		page, err := client.GetReviews(cmd.Context(), args[0], reviewsCursor)
		if err != nil {
			fatal(err)
		}
		if printJSON(page) {
			return
		}

		fmt.Print(page)
		if page.NextCursor != "" {
			fmt.Printf("next page: --cursor %s\n", page.NextCursor)
		}
	},
}
