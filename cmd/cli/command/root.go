package command

// root.go defines the root command for the tapea CLI and the state every
// subcommand shares.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"tapea/cmd/cli/authentication"
	"tapea/cmd/cli/command/client"
	"tapea/internal/pending"
	"tapea/internal/voting"
)

// skipReconcile marks commands that must not drain the pending slot on start.
const skipReconcile = "skip-reconcile"

var (
	apiURL   string // Global flag for API server URL
	stateDir string // where the pending slot and dev flag live
	verbose  bool

	storeTimeout time.Duration // deadline for each vote store call

	app *session
)

// session is built once per invocation in PersistentPreRunE.
type session struct {
	api      *client.HTTPClient
	store    *client.VoteStore
	identity *authentication.KeyringIdentity
	pending  *pending.FileCache
	devMode  *voting.FileDevMode
}

func (s *session) reconciler() *voting.Reconciler {
	return voting.NewReconciler(voting.WithTimeout(s.store, storeTimeout), s.identity, s.pending)
}

// requireUser loads the bearer token and fails when nobody is signed in.
func (s *session) requireUser(ctx context.Context) (string, error) {
	userID, err := s.identity.CurrentIdentity(ctx)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", fmt.Errorf("not signed in, run \"tapea login\" first")
	}
	return userID, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tapea",
	Short: "tapea - vote tapas on the route from your terminal",
	Long: `tapea talks to a tapea API server. With it you can:
- Rate a tapa while standing at the venue
- Check the live ranking and your passport
- Sign in with Google and have a pending vote committed automatically

Use "tapea command --help" to see all available commands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		s, err := newSession()
		if err != nil {
			return err
		}
		app = s

		if _, skip := cmd.Annotations[skipReconcile]; skip {
			return nil
		}
		reconcile(cmd)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("TAPEA_API", "http://localhost:8080"), "API server URL")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "directory for the pending vote and dev flag (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log protocol events to stderr")
	rootCmd.PersistentFlags().DurationVar(&storeTimeout, "store-timeout", envDuration("STORE_TIMEOUT", 10*time.Second), "deadline for each vote store call")
}

func newSession() (*session, error) {
	dir, err := resolveStateDir()
	if err != nil {
		return nil, err
	}

	api := client.NewHTTPClient(apiURL)
	identity := authentication.NewKeyringIdentity(api)
	identity.OnToken = api.SetToken

	return &session{
		api:      api,
		store:    client.NewVoteStore(api),
		identity: identity,
		pending:  pending.NewFileCache(dir),
		devMode:  voting.NewFileDevMode(dir),
	}, nil
}

func resolveStateDir() (string, error) {
	if stateDir != "" {
		return stateDir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "tapea"), nil
}

func setupLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// reconcile drains a vote staged before sign-in. Failures never block the
// command the user actually asked for.
func reconcile(cmd *cobra.Command) {
	res, err := app.reconciler().Reconcile(cmd.Context())
	if err != nil {
		slog.Warn("pending_reconcile_failed", "error", err)
		return
	}
	printReconcile(cmd, res)
}

func printReconcile(cmd *cobra.Command, res voting.ReconcileResult) {
	if res.Pending == nil {
		return
	}
	out := cmd.ErrOrStderr()
	switch res.Status {
	case voting.PendingCommitted:
		fmt.Fprintf(out, "✓ Your pending vote for %s (%d★) was saved.\n", res.Pending.TapaName, res.Pending.Stars)
	case voting.PendingAlreadyVoted:
		fmt.Fprintf(out, "You had already voted %s, the pending vote was discarded.\n", res.Pending.TapaName)
	case voting.PendingDropped:
		fmt.Fprintf(out, "✗ Your pending vote for %s could not be saved. Please vote again.\n", res.Pending.TapaName)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envDuration falls back on a missing, malformed or non-positive value.
func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
