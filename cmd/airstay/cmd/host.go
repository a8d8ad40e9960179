package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(hostCmd)
}

var hostCmd = &cobra.Command{
	Use:   "host <listing-id>",
	Short: "Prints the profile of the host behind a listing.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		profile, err := client.GetHostProfile(cmd.Context(), args[0])
		if err != nil {
			fatal(err)
		}
		if printJSON(profile) {
			return
		}
		fmt.Print(profile)
	},
}
