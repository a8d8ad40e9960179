package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"airstay-backend/lib/stays"
)

var searchParams stays.SearchParams

func init() {
	flags := searchCmd.Flags()
	flags.StringVar(&searchParams.Checkin, "checkin", "", "check-in date (YYYY-MM-DD)")
	flags.StringVar(&searchParams.Checkout, "checkout", "", "check-out date (YYYY-MM-DD)")
	flags.IntVar(&searchParams.Adults, "adults", 0, "number of adults")
	flags.IntVar(&searchParams.Children, "children", 0, "number of children")
	flags.IntVar(&searchParams.Infants, "infants", 0, "number of infants")
	flags.IntVar(&searchParams.Pets, "pets", 0, "number of pets")
	flags.IntVar(&searchParams.MinPrice, "min-price", 0, "minimum nightly price")
	flags.IntVar(&searchParams.MaxPrice, "max-price", 0, "maximum nightly price")
	flags.StringVar(&searchParams.PropertyType, "type", "", "property type filter")
	flags.StringVar(&searchParams.Cursor, "cursor", "", "pagination cursor from a previous page")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <location>",
	Short: "Searches listings in a location.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		searchParams.Location = args[0]
		result, err := client.Search(cmd.Context(), searchParams)
		if err != nil {
			fatal(err)
		}
		if printJSON(result) {
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Name", "Location", "Price/Night", "Rating", "Reviews"})
		for _, listing := range result.Listings {
			price := ""
			if listing.PricePerNight > 0 {
				price = fmt.Sprintf("%s%.0f", listing.Currency, listing.PricePerNight)
			}
			rating := ""
			if listing.Rating != nil {
				rating = fmt.Sprintf("%.2f", *listing.Rating)
			}
			t.AppendRow(table.Row{
				listing.ID, listing.Name, listing.Location,
				price, rating, listing.ReviewCount,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()

		if result.TotalCount != nil {
			fmt.Printf("%d listings total\n", *result.TotalCount)
		}
		if result.NextCursor != "" {
			fmt.Printf("next page: --cursor %s\n", result.NextCursor)
		}
	},
}
