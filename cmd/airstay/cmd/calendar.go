package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var calendarMonths int

func init() {
	calendarCmd.Flags().IntVar(&calendarMonths, "months", 3, "number of months to fetch")
	rootCmd.AddCommand(calendarCmd)
}

var calendarCmd = &cobra.Command{
	Use:   "calendar <listing-id>",
	Short: "Prints the availability and pricing calendar of a listing.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		calendar, err := client.GetPriceCalendar(cmd.Context(), args[0], calendarMonths)
		if err != nil {
			fatal(err)
		}
		if printJSON(calendar) {
			return
		}

		if calendar.AveragePrice != nil {
			fmt.Printf("average price: %s%.0f/night\n", calendar.Currency, *calendar.AveragePrice)
		}
		if calendar.MinPrice != nil && calendar.MaxPrice != nil {
			fmt.Printf("price range: %s%.0f - %s%.0f\n",
				calendar.Currency, *calendar.MinPrice, calendar.Currency, *calendar.MaxPrice)
		}
		if calendar.OccupancyRate != nil {
			fmt.Printf("occupancy: %.1f%%\n", *calendar.OccupancyRate)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Date", "Price", "Available", "Min Nights"})
		for _, day := range calendar.Days {
			price := ""
			if day.Price != nil {
				price = fmt.Sprintf("%s%.0f", calendar.Currency, *day.Price)
			}
			available := "yes"
			if !day.Available {
				available = "no"
				if day.Reason != nil {
					available = fmt.Sprintf("no (%s)", *day.Reason)
				}
			}
			minNights := ""
			if day.MinNights != nil {
				minNights = fmt.Sprintf("%d", *day.MinNights)
			}
			t.AppendRow(table.Row{day.Date, price, available, minNights})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
