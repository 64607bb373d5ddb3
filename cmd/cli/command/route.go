package command

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tapea/cmd/cli/command/client"
	pkgmodels "tapea/pkg/models"
)

// route.go holds the read-only views of the route: events, venues, ranking, passport.

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the tapas routes, running ones first",
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := app.api.Events(cmd.Context())
		if err != nil {
			return err
		}
		return printEvents(cmd.OutOrStdout(), events)
	},
}

func printEvents(out io.Writer, events []pkgmodels.Event) error {
	if len(events) == 0 {
		fmt.Fprintln(out, "No routes yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	section := ""
	for _, e := range events {
		heading := "OTHER ROUTES"
		if e.IsActive {
			heading = "RUNNING NOW"
		}
		if heading != section {
			if section != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s\t\t\t\n", heading)
			section = heading
		}
		dates := "-"
		if e.ActiveDates != nil {
			dates = e.ActiveDates.Start + " → " + e.ActiveDates.End
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Slug, e.Name, dates)
	}
	return w.Flush()
}

var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "List the venues on the route",
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, _ := cmd.Flags().GetString("event")
		venues, err := app.api.Venues(cmd.Context(), eventID)
		if err != nil {
			return err
		}
		if len(venues) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No venues yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tVENUE\tTAPAS\tADDRESS")
		for _, v := range venues {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", v.ID, v.Name, len(v.Tapas), v.Address)
		}
		return w.Flush()
	},
}

var qrCmd = &cobra.Command{
	Use:   "qr <venue-id>",
	Short: "Print the voting link encoded in a venue's QR code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qr, err := app.api.VenueQR(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), qr.URL)
		return nil
	},
}

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Show the top rated tapas",
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, _ := cmd.Flags().GetString("event")
		limit, _ := cmd.Flags().GetInt("limit")
		watch, _ := cmd.Flags().GetBool("watch")

		if watch {
			fmt.Fprintln(cmd.ErrOrStderr(), "Following the live ranking, Ctrl+C to stop.")
			return app.api.WatchRanking(cmd.Context(), eventID, func(m client.FeedMessage) {
				if m.Type == "ranking.error" {
					failColor.Fprintf(cmd.ErrOrStderr(), "✗ %s\n", m.Error)
					return
				}
				noteColor.Fprintf(cmd.OutOrStdout(), "\n── %s ──\n", m.Timestamp.Local().Format("15:04:05"))
				_ = printRanking(cmd.OutOrStdout(), m.Entries)
			})
		}

		resp, err := app.api.Ranking(cmd.Context(), eventID, limit)
		if err != nil {
			return err
		}
		return printRanking(cmd.OutOrStdout(), resp.Entries)
	},
}

func printRanking(out io.Writer, entries []pkgmodels.RankingEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No votes yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTAPA\tVENUE\tAVG\tVOTES")
	for i, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%d\n", i+1, e.TapaName, e.VenueName, e.AvgStars, e.VoteCount)
	}
	return w.Flush()
}

var passportCmd = &cobra.Command{
	Use:   "passport",
	Short: "Show the tapas you have voted and your raffle progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requireUser(cmd.Context()); err != nil {
			return err
		}
		eventID, _ := cmd.Flags().GetString("event")

		p, err := app.api.Passport(cmd.Context(), eventID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, e := range p.Votes {
			fmt.Fprintf(w, "%s\t%s\t%d★\n", e.TapaName, e.VenueName, e.Stars)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\n%d/%d tapas (%.0f%%)\n", p.VoteCount, p.Threshold, p.Progress)
		if p.Eligible {
			okColor.Fprintln(out, "✓ You are in the raffle.")
		} else {
			fmt.Fprintf(out, "%d more to enter the raffle.\n", p.Remaining)
		}
		return nil
	},
}

var raffleCmd = &cobra.Command{
	Use:   "raffle",
	Short: "List raffle participants (admins only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requireUser(cmd.Context()); err != nil {
			return err
		}
		minVotes, _ := cmd.Flags().GetInt("min-votes")

		resp, err := app.api.Raffle(cmd.Context(), minVotes)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "EMAIL\tNAME\tVOTES")
		for _, p := range resp.Participants {
			fmt.Fprintf(w, "%s\t%s\t%d\n", p.Email, p.DisplayName, p.VoteCount)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d participants with at least %d votes\n", len(resp.Participants), resp.MinVotes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd, venuesCmd, qrCmd, rankingCmd, passportCmd, raffleCmd)

	venuesCmd.Flags().String("event", "", "event id (defaults to all venues)")
	rankingCmd.Flags().String("event", "", "event id (defaults to the active event)")
	rankingCmd.Flags().IntP("limit", "n", 0, "number of tapas to show (1-50)")
	rankingCmd.Flags().BoolP("watch", "w", false, "keep the ranking open and update it live")
	passportCmd.Flags().String("event", "", "only count votes from this event")
	raffleCmd.Flags().Int("min-votes", 0, "minimum distinct votes (defaults to 3)")
}
