package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(detailCmd)
}

var detailCmd = &cobra.Command{
	Use:   "detail <listing-id>",
	Short: "Prints the full detail of a listing.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		detail, err := client.GetListingDetail(cmd.Context(), args[0])
		if err != nil {
			fatal(err)
		}
		if printJSON(detail) {
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		row := func(name string, value any) {
			t.AppendRow(table.Row{name, value})
		}

		row("Name", detail.Name)
		row("Location", detail.Location)
		if detail.PropertyType != "" {
			row("Property type", detail.PropertyType)
		}
		if detail.PricePerNight > 0 {
			row("Price/night", fmt.Sprintf("%s%.2f", detail.Currency, detail.PricePerNight))
		}
		if detail.Rating != nil {
			row("Rating", fmt.Sprintf("%.2f (%d reviews)", *detail.Rating, detail.ReviewCount))
		}
		if detail.Bedrooms != nil {
			row("Bedrooms", *detail.Bedrooms)
		}
		if detail.Beds != nil {
			row("Beds", *detail.Beds)
		}
		if detail.Bathrooms != nil {
			row("Bathrooms", *detail.Bathrooms)
		}
		if detail.MaxGuests != nil {
			row("Max guests", *detail.MaxGuests)
		}
		if detail.HostName != "" {
			host := detail.HostName
			if detail.HostIsSuperhost != nil && *detail.HostIsSuperhost {
				host += " (superhost)"
			}
			row("Host", host)
		}
		if len(detail.Amenities) > 0 {
			row("Amenities", strings.Join(detail.Amenities, ", "))
		}
		if len(detail.HouseRules) > 0 {
			row("House rules", strings.Join(detail.HouseRules, "; "))
		}
		if detail.CancellationPolicy != "" {
			row("Cancellation", detail.CancellationPolicy)
		}
		if detail.CheckInTime != "" {
			row("Check-in", detail.CheckInTime)
		}
		if detail.CheckOutTime != "" {
			row("Check-out", detail.CheckOutTime)
		}
		if detail.CleaningFee != nil {
			row("Cleaning fee", fmt.Sprintf("%s%.2f", detail.Currency, *detail.CleaningFee))
		}
		if detail.ServiceFee != nil {
			row("Service fee", fmt.Sprintf("%s%.2f", detail.Currency, *detail.ServiceFee))
		}
		row("URL", detail.URL)

		t.SetStyle(table.StyleRounded)
		t.Render()

		if detail.Description != "" {
			fmt.Println()
			fmt.Println(detail.Description)
		}
	},
}
