package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"tapea/internal/pending"
)

// ReconcileStatus says what a reconciliation pass did with the pending slot.
type ReconcileStatus int

const (
	// NothingPending: no identity or an empty slot. No side effects.
	NothingPending ReconcileStatus = iota
	// PendingCommitted: the staged vote became a real vote.
	PendingCommitted
	// PendingAlreadyVoted: the user had voted that tapa already.
	PendingAlreadyVoted
	// PendingDropped: the commit failed and the intent was discarded.
	PendingDropped
)

func (s ReconcileStatus) String() string {
	switch s {
	case NothingPending:
		return "nothing_pending"
	case PendingCommitted:
		return "committed"
	case PendingAlreadyVoted:
		return "already_voted"
	case PendingDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// ReconcileResult describes one pass.
type ReconcileResult struct {
	Status  ReconcileStatus
	Pending *pending.Vote
	Vote    *Vote
}

// Reconciler drains the pending slot once an identity is present. It is
// at-most-once: the slot is cleared after every attempt, successful or not.
type Reconciler struct {
	store    Store
	identity Identity
	cache    pending.Cache
	logger   *slog.Logger

	mu sync.Mutex
}

func NewReconciler(store Store, identity Identity, cache pending.Cache) *Reconciler {
	return &Reconciler{
		store:    store,
		identity: identity,
		cache:    cache,
		logger:   slog.Default(),
	}
}

// WithLogger replaces the default logger.
func (r *Reconciler) WithLogger(logger *slog.Logger) *Reconciler {
	r.logger = logger
	return r
}

// Reconcile reads the current identity and the current slot, then commits
// the staged vote if the user has none for that tapa. Store failures are
// logged and swallowed; only reading or clearing the slot can return an error.
// Safe to call repeatedly and concurrently.
func (r *Reconciler) Reconcile(ctx context.Context) (ReconcileResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, err := r.identity.CurrentIdentity(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("resolve identity: %w", err)
	}
	if userID == "" {
		return ReconcileResult{Status: NothingPending}, nil
	}

	pv, err := r.cache.Load(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("load pending vote: %w", err)
	}
	if pv == nil {
		return ReconcileResult{Status: NothingPending}, nil
	}

	result := r.commitPending(ctx, userID, *pv)
	result.Pending = pv

	if err := r.cache.Clear(ctx); err != nil {
		return result, fmt.Errorf("clear pending vote: %w", err)
	}
	return result, nil
}

func (r *Reconciler) commitPending(ctx context.Context, userID string, pv pending.Vote) ReconcileResult {
	existing, err := r.store.ListVotesByUser(ctx, userID)
	if err != nil {
		r.logger.Warn("pending_vote_dropped",
			"user_id", userID,
			"tapa_id", pv.TapaID,
			"stage", "duplicate_check",
			"error", err,
		)
		return ReconcileResult{Status: PendingDropped}
	}
	if v := FindByTapa(existing, pv.TapaID); v != nil {
		r.logger.Info("pending_vote_already_voted", "user_id", userID, "tapa_id", pv.TapaID)
		return ReconcileResult{Status: PendingAlreadyVoted, Vote: v}
	}

	vote, err := r.store.CreateVote(ctx, userID, pv.TapaID, pv.Stars, pv.ValidatedLocation)
	switch {
	case errors.Is(err, ErrAlreadyVoted):
		r.logger.Info("pending_vote_already_voted", "user_id", userID, "tapa_id", pv.TapaID)
		return ReconcileResult{Status: PendingAlreadyVoted}
	case err != nil:
		r.logger.Warn("pending_vote_dropped",
			"user_id", userID,
			"tapa_id", pv.TapaID,
			"stage", "commit",
			"error", err,
		)
		return ReconcileResult{Status: PendingDropped}
	}

	r.logger.Info("pending_vote_committed",
		"user_id", userID,
		"tapa_id", pv.TapaID,
		"stars", pv.Stars,
	)
	return ReconcileResult{Status: PendingCommitted, Vote: &vote}
}
