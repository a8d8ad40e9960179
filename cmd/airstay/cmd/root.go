// Package cmd implements the airstay CLI commands.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"airstay-backend/lib/configutil"
	"airstay-backend/lib/stays"
	"airstay-backend/lib/telemetry"
	staysservice "airstay-backend/services/stays"
)

var (
	client  stays.Client
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "airstay",
	Short: "airstay queries marketplace listings, reviews, availability calendars, and host profiles.",
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print raw JSON instead of formatted output")
}

// Execute loads airstay.json5 from the working directory or any parent;
// absence is fine, the defaults cover everything.
func Execute() {
	ctx := context.Background()
	t, err := telemetry.SetupFromEnv(ctx, "airstay")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		fatal(err)
	}
	defer t.Shutdown(ctx)
	telemetry.InstrumentPerfStats(ctx)

	config, err := configutil.ReadRecursively[staysservice.Config]("airstay.json5")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		fatal(err)
	}

	client, err = staysservice.NewClient(config)
	if err != nil {
		fatal(err)
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

// printJSON renders v when --json is set and reports whether it did.
func printJSON(v any) bool {
	if !jsonOut {
		return false
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(out))
	return true
}
