package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tapea/internal/geo"
	"tapea/internal/geolocation"
	"tapea/internal/pending"
	"tapea/internal/raffle"
)

// OutcomeKind is the user-visible result of a submission attempt.
type OutcomeKind int

const (
	Committed OutcomeKind = iota + 1
	AlreadyVoted
	// Staged: the intent was written to the pending slot and sign-in started.
	Staged
	// NeedsLocation: no fix yet; a request was started or is in flight.
	NeedsLocation
	TooFar
	// LocationError: positioning failed; the caller may retry.
	LocationError
)

func (k OutcomeKind) String() string {
	switch k {
	case Committed:
		return "committed"
	case AlreadyVoted:
		return "already_voted"
	case Staged:
		return "staged"
	case NeedsLocation:
		return "needs_location"
	case TooFar:
		return "too_far"
	case LocationError:
		return "location_error"
	default:
		return "unknown"
	}
}

// Intent is a rating gesture on one tapa at one venue.
type Intent struct {
	TapaID    string
	TapaName  string
	VenueID   string
	VenueName string
	VenueLat  float64
	VenueLng  float64
	Stars     int
}

// LocationState is the geolocation source consulted by the eligibility gate.
// *geolocation.Provider satisfies it.
type LocationState interface {
	Snapshot() geolocation.Snapshot
	Request(ctx context.Context) <-chan struct{}
}

// Outcome is returned for every non-error path.
type Outcome struct {
	Kind OutcomeKind

	// Vote is the committed vote (Committed) or the existing one (AlreadyVoted)
	// when known.
	Vote *Vote
	// Distance to the venue in meters, when a fix was available.
	Distance int
	// Reason is set for LocationError.
	Reason geolocation.Reason
	// SignIn is set for Staged.
	SignIn SignInResult
	// VoteCount is the user's distinct vote count after a commit.
	VoteCount int
	// Celebrate is set once the user reaches the raffle threshold.
	Celebrate bool
}

// SubmitterConfig tunes the gate and the store deadline.
type SubmitterConfig struct {
	RadiusMeters float64
	StoreTimeout time.Duration
}

// DefaultSubmitterConfig uses a 100 m radius and a 10 s store deadline.
func DefaultSubmitterConfig() SubmitterConfig {
	return SubmitterConfig{
		RadiusMeters: geo.DefaultMaxDistance,
		StoreTimeout: 10 * time.Second,
	}
}

// Submitter runs one submission through duplicate check, eligibility,
// auth check and commit-or-stage.
type Submitter struct {
	store      Store
	session    Session
	reconciler *Reconciler
	cfg        SubmitterConfig
	logger     *slog.Logger
}

func NewSubmitter(store Store, session Session, cfg SubmitterConfig) *Submitter {
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = geo.DefaultMaxDistance
	}
	guarded := WithTimeout(store, cfg.StoreTimeout)
	return &Submitter{
		store:      guarded,
		session:    session,
		reconciler: NewReconciler(guarded, session.Identity, session.Pending),
		cfg:        cfg,
		logger:     slog.Default(),
	}
}

// Reconciler returns the reconciler sharing this submitter's store and session.
func (s *Submitter) Reconciler() *Reconciler { return s.reconciler }

// Submit walks one attempt. Blocking conditions come back as an Outcome; an
// error means the attempt failed and can be re-triggered by the user.
func (s *Submitter) Submit(ctx context.Context, intent Intent, loc LocationState) (Outcome, error) {
	if !ValidStars(intent.Stars) {
		return Outcome{}, ErrInvalidStars
	}
	if intent.TapaID == "" {
		return Outcome{}, errors.New("tapa id is required")
	}

	userID, err := s.session.Identity.CurrentIdentity(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve identity: %w", err)
	}

	// advisory: the store's unique constraint is what actually holds
	if userID != "" {
		votes, err := s.store.ListVotesByUser(ctx, userID)
		if err != nil {
			return Outcome{}, fmt.Errorf("check existing vote: %w", err)
		}
		if v := FindByTapa(votes, intent.TapaID); v != nil {
			return Outcome{Kind: AlreadyVoted, Vote: v}, nil
		}
	}

	out, validated, ok := s.checkEligibility(ctx, intent, loc)
	if !ok {
		return out, nil
	}

	if userID == "" {
		return s.stage(ctx, intent, validated, out.Distance)
	}
	return s.commit(ctx, userID, intent, validated, out.Distance)
}

// checkEligibility returns ok=false with a blocking outcome, or ok=true with
// the true geofence result.
func (s *Submitter) checkEligibility(ctx context.Context, intent Intent, loc LocationState) (Outcome, bool, bool) {
	dev := s.session.devOverride()

	var snap geolocation.Snapshot
	if loc != nil {
		snap = loc.Snapshot()
	} else {
		snap = geolocation.Snapshot{State: geolocation.Failed, Reason: geolocation.Unsupported}
	}

	if snap.State == geolocation.Ready {
		res := geo.Validate(snap.Position.Latitude, snap.Position.Longitude,
			intent.VenueLat, intent.VenueLng, s.cfg.RadiusMeters)
		if res.IsValid || dev {
			return Outcome{Distance: res.Distance}, res.IsValid, true
		}
		return Outcome{Kind: TooFar, Distance: res.Distance}, false, false
	}

	if dev {
		return Outcome{}, false, true
	}

	switch snap.State {
	case geolocation.Failed:
		return Outcome{Kind: LocationError, Reason: snap.Reason}, false, false
	case geolocation.Idle:
		loc.Request(ctx)
	}
	return Outcome{Kind: NeedsLocation}, false, false
}

func (s *Submitter) stage(ctx context.Context, intent Intent, validated bool, distance int) (Outcome, error) {
	pv := pending.Vote{
		TapaID:            intent.TapaID,
		TapaName:          intent.TapaName,
		VenueID:           intent.VenueID,
		VenueName:         intent.VenueName,
		Stars:             intent.Stars,
		ValidatedLocation: validated,
	}
	if err := s.session.Pending.Save(ctx, pv); err != nil {
		return Outcome{}, fmt.Errorf("stage pending vote: %w", err)
	}
	s.logger.Info("vote_staged", "tapa_id", intent.TapaID, "stars", intent.Stars)

	res, err := s.session.Identity.SignIn(ctx, s.session.SignInProvider, s.session.RedirectTarget)
	if err != nil {
		// the intent stays staged for the next sign-in
		return Outcome{Kind: Staged, Distance: distance}, fmt.Errorf("sign in: %w", err)
	}
	if res.Redirected {
		return Outcome{Kind: Staged, Distance: distance, SignIn: res}, nil
	}

	// sign-in completed inline; drain the slot now
	rr, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		return Outcome{Kind: Staged, Distance: distance, SignIn: res}, err
	}
	switch rr.Status {
	case PendingCommitted:
		out := Outcome{Kind: Committed, Vote: rr.Vote, Distance: distance}
		s.celebrate(ctx, rr.Vote.UserID, &out)
		return out, nil
	case PendingAlreadyVoted:
		return Outcome{Kind: AlreadyVoted, Vote: rr.Vote, Distance: distance}, nil
	case PendingDropped:
		return Outcome{}, errors.New("vote could not be recorded after sign in")
	default:
		return Outcome{Kind: Staged, Distance: distance, SignIn: res}, nil
	}
}

func (s *Submitter) commit(ctx context.Context, userID string, intent Intent, validated bool, distance int) (Outcome, error) {
	vote, err := s.store.CreateVote(ctx, userID, intent.TapaID, intent.Stars, validated)
	switch {
	case errors.Is(err, ErrAlreadyVoted):
		return Outcome{Kind: AlreadyVoted, Distance: distance}, nil
	case errors.Is(err, ErrStoreTimeout):
		// unknown outcome: ask once whether it landed
		landed, cerr := s.confirm(ctx, userID, intent.TapaID)
		if cerr != nil || landed == nil {
			s.logger.Warn("vote_commit_unconfirmed", "user_id", userID, "tapa_id", intent.TapaID, "error", err)
			return Outcome{}, err
		}
		vote = *landed
	case err != nil:
		s.logger.Warn("vote_commit_failed", "user_id", userID, "tapa_id", intent.TapaID, "error", err)
		return Outcome{}, fmt.Errorf("submit vote: %w", err)
	}

	s.logger.Info("vote_committed",
		"user_id", userID,
		"tapa_id", intent.TapaID,
		"stars", intent.Stars,
		"validated_location", validated,
	)

	out := Outcome{Kind: Committed, Vote: &vote, Distance: distance}
	s.celebrate(ctx, userID, &out)
	return out, nil
}

func (s *Submitter) confirm(ctx context.Context, userID, tapaID string) (*Vote, error) {
	votes, err := s.store.ListVotesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FindByTapa(votes, tapaID), nil
}

// celebrate refreshes the vote count. A failed refresh only skips the
// acknowledgment; the vote itself is already recorded.
func (s *Submitter) celebrate(ctx context.Context, userID string, out *Outcome) {
	votes, err := s.store.ListVotesByUser(ctx, userID)
	if err != nil {
		s.logger.Debug("vote_count_refresh_failed", "user_id", userID, "error", err)
		return
	}
	out.VoteCount = DistinctTapas(votes)
	out.Celebrate = raffle.IsEligible(out.VoteCount, raffle.Threshold)
}
