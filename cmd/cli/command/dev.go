package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// devCmd manages the override that skips the distance check.
var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Developer mode (skip the distance check)",
}

var devToggleCmd = &cobra.Command{
	Use:         "toggle",
	Short:       "Turn developer mode on or off",
	Annotations: map[string]string{skipReconcile: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := app.devMode.Toggle()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Developer mode: %s\n", onOff(on))
		return nil
	},
}

var devStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show developer mode and the pending vote",
	Annotations: map[string]string{skipReconcile: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "Developer mode: %s\n", onOff(app.devMode.Enabled()))
		return printPending(cmd.Context(), cmd)
	},
}

func printPending(ctx context.Context, cmd *cobra.Command) error {
	pv, err := app.pending.Load(ctx)
	if err != nil {
		return err
	}
	if pv == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Pending vote: none")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pending vote: %s at %s, %d★\n", pv.TapaName, pv.VenueName, pv.Stars)
	return nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func init() {
	rootCmd.AddCommand(devCmd)
	devCmd.AddCommand(devToggleCmd, devStatusCmd)
}
