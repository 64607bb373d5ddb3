package command

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tapea/internal/geo"
	"tapea/internal/geolocation"
	"tapea/internal/voting"
	pkgmodels "tapea/pkg/models"
)

// voteCmd rates one tapa at a venue. The location comes from --lat/--lng or
// from TAPEA_LAT/TAPEA_LNG.
var voteCmd = &cobra.Command{
	Use:   "vote <venue-id>",
	Short: "Rate a tapa at the venue you are standing in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		stars, _ := cmd.Flags().GetInt("stars")
		tapaID, _ := cmd.Flags().GetString("tapa")

		// loads the bearer token if a session exists
		if _, err := app.identity.CurrentIdentity(ctx); err != nil {
			return err
		}

		venue, err := app.api.Venue(ctx, args[0])
		if err != nil {
			return fmt.Errorf("load venue: %w", err)
		}
		tapa, err := pickTapa(venue, tapaID)
		if err != nil {
			return err
		}

		geoOpts := geolocation.DefaultOptions()
		geoOpts.Timeout, _ = cmd.Flags().GetDuration("geo-timeout")
		provider := geolocation.NewProvider(positioner(cmd), geoOpts)
		app.store.Fix = func() (float64, float64, bool) {
			snap := provider.Snapshot()
			return snap.Position.Latitude, snap.Position.Longitude, snap.HasLocation()
		}

		cfg := voting.DefaultSubmitterConfig()
		cfg.StoreTimeout = storeTimeout
		submitter := voting.NewSubmitter(app.store, voting.Session{
			Identity:       app.identity,
			Pending:        app.pending,
			DevMode:        app.devMode,
			SignInProvider: "google",
			RedirectTarget: "/votar/" + venue.ID,
		}, cfg)

		intent := voting.Intent{
			TapaID:    tapa.ID,
			TapaName:  tapa.Name,
			VenueID:   venue.ID,
			VenueName: venue.Name,
			VenueLat:  venue.Latitude,
			VenueLng:  venue.Longitude,
			Stars:     stars,
		}

		out, err := submitter.Submit(ctx, intent, provider)
		if err == nil && out.Kind == voting.NeedsLocation {
			// the first attempt started positioning; resubmit once it settles
			if _, err := provider.Await(ctx); err != nil {
				return err
			}
			out, err = submitter.Submit(ctx, intent, provider)
		}
		if err != nil {
			return voteError(err)
		}

		printOutcome(cmd.OutOrStdout(), tapa, venue, out)
		return nil
	},
}

func positioner(cmd *cobra.Command) geolocation.Positioner {
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
		lat, _ := cmd.Flags().GetFloat64("lat")
		lng, _ := cmd.Flags().GetFloat64("lng")
		acc, _ := cmd.Flags().GetFloat64("accuracy")
		return geolocation.StaticPositioner{Latitude: lat, Longitude: lng, Accuracy: acc}
	}
	return geolocation.EnvPositioner{}
}

// pickTapa resolves --tapa, falling back to the venue's only tapa.
func pickTapa(venue *pkgmodels.Venue, tapaID string) (pkgmodels.Tapa, error) {
	if tapaID == "" {
		tapaID = venue.PreselectedTapa()
	}
	if tapaID == "" {
		names := make([]string, 0, len(venue.Tapas))
		for _, t := range venue.Tapas {
			names = append(names, fmt.Sprintf("  %s  %s", t.ID, t.Name))
		}
		return pkgmodels.Tapa{}, fmt.Errorf("%s serves several tapas, pick one with --tapa:\n%s", venue.Name, strings.Join(names, "\n"))
	}

	for _, t := range venue.Tapas {
		if t.ID == tapaID {
			return t, nil
		}
	}
	return pkgmodels.Tapa{}, fmt.Errorf("tapa %s is not served at %s", tapaID, venue.Name)
}

func voteError(err error) error {
	switch {
	case errors.Is(err, voting.ErrInvalidStars):
		return errors.New("stars must be between 1 and 5")
	case errors.Is(err, voting.ErrStoreTimeout):
		return errors.New("the server did not answer in time, your vote may not have been saved; check \"tapea passport\" before retrying")
	}
	return err
}

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	noteColor = color.New(color.FgYellow)
)

func printOutcome(w io.Writer, tapa pkgmodels.Tapa, venue *pkgmodels.Venue, out voting.Outcome) {
	switch out.Kind {
	case voting.Committed:
		okColor.Fprintf(w, "✓ Voted %s at %s: %d★\n", tapa.Name, venue.Name, out.Vote.Stars)
		fmt.Fprintf(w, "You have voted %d tapas.\n", out.VoteCount)
		if out.Celebrate {
			noteColor.Fprintln(w, "🎉 You are in the raffle!")
		}
	case voting.AlreadyVoted:
		if out.Vote != nil {
			fmt.Fprintf(w, "You already voted %s (%d★).\n", tapa.Name, out.Vote.Stars)
		} else {
			fmt.Fprintf(w, "You already voted %s.\n", tapa.Name)
		}
	case voting.Staged:
		noteColor.Fprintln(w, "Your vote is saved on this device. Sign in to submit it:")
		fmt.Fprintln(w, out.SignIn.URL)
		fmt.Fprintln(w, "Then run \"tapea login --access-token ... --refresh-token ...\".")
	case voting.TooFar:
		failColor.Fprintf(w, "✗ You are %s from %s. Get closer to vote.\n", geo.FormatDistance(out.Distance), venue.Name)
	case voting.LocationError:
		failColor.Fprintf(w, "✗ %s\n", out.Reason.Message())
		fmt.Fprintln(w, "Pass --lat/--lng or set TAPEA_LAT/TAPEA_LNG and try again.")
	case voting.NeedsLocation:
		fmt.Fprintln(w, "Still waiting for your location, try again.")
	}
}

func init() {
	rootCmd.AddCommand(voteCmd)

	voteCmd.Flags().IntP("stars", "s", 0, "rating from 1 to 5")
	voteCmd.Flags().StringP("tapa", "t", "", "tapa id (required when the venue serves more than one)")
	voteCmd.Flags().Float64("lat", 0, "your latitude")
	voteCmd.Flags().Float64("lng", 0, "your longitude")
	voteCmd.Flags().Float64("accuracy", 0, "position accuracy in meters")
	voteCmd.Flags().Duration("geo-timeout", envDuration("GEO_TIMEOUT", 10*time.Second), "how long to wait for a position fix")
	_ = voteCmd.MarkFlagRequired("stars")
}
