package voting

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tapea/internal/pending"
)

func stagedCache(t *testing.T, v pending.Vote) *pending.FileCache {
	t.Helper()
	cache := pending.NewFileCache(t.TempDir())
	require.NoError(t, cache.Save(context.Background(), v))
	return cache
}

func TestReconcile_NoIdentityLeavesSlot(t *testing.T) {
	ctx := context.Background()
	cache := stagedCache(t, pending.Vote{TapaID: "X", Stars: 4})
	r := NewReconciler(&memStore{}, &fakeIdentity{}, cache)

	res, err := r.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, NothingPending, res.Status)

	slot, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, slot)
}

func TestReconcile_EmptySlotIsNoop(t *testing.T) {
	store := new(MockStore)
	r := NewReconciler(store, &fakeIdentity{userID: "u1"}, pending.NewFileCache(t.TempDir()))

	res, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NothingPending, res.Status)
	store.AssertNotCalled(t, "ListVotesByUser", mock.Anything, mock.Anything)
}

func TestReconcile_ExistingVoteClearsWithoutWrite(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("ListVotesByUser", mock.Anything, "u1").
		Return([]Vote{{ID: "v1", UserID: "u1", TapaID: "X", Stars: 2}}, nil)

	cache := stagedCache(t, pending.Vote{TapaID: "X", Stars: 5})
	r := NewReconciler(store, &fakeIdentity{userID: "u1"}, cache)

	res, err := r.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, PendingAlreadyVoted, res.Status)
	store.AssertNotCalled(t, "CreateVote", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	slot, _ := cache.Load(ctx)
	assert.Nil(t, slot)
}

func TestReconcile_StoreDuplicateIsAlreadyVoted(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("ListVotesByUser", mock.Anything, "u1").Return([]Vote{}, nil)
	store.On("CreateVote", mock.Anything, "u1", "X", 5, false).Return(Vote{}, ErrAlreadyVoted)

	cache := stagedCache(t, pending.Vote{TapaID: "X", Stars: 5})
	res, err := NewReconciler(store, &fakeIdentity{userID: "u1"}, cache).Reconcile(ctx)

	require.NoError(t, err)
	assert.Equal(t, PendingAlreadyVoted, res.Status)
	slot, _ := cache.Load(ctx)
	assert.Nil(t, slot)
}

func TestReconcile_FailureIsSwallowedAndSlotCleared(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("ListVotesByUser", mock.Anything, "u1").Return([]Vote{}, nil)
	store.On("CreateVote", mock.Anything, "u1", "X", 5, true).Return(Vote{}, errors.New("boom"))

	cache := stagedCache(t, pending.Vote{TapaID: "X", Stars: 5, ValidatedLocation: true})
	res, err := NewReconciler(store, &fakeIdentity{userID: "u1"}, cache).Reconcile(ctx)

	require.NoError(t, err)
	assert.Equal(t, PendingDropped, res.Status)
	slot, _ := cache.Load(ctx)
	assert.Nil(t, slot)
	store.AssertExpectations(t)
}

func TestReconcile_PrecheckFailureDrops(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("ListVotesByUser", mock.Anything, "u1").Return(nil, errors.New("unreachable"))

	cache := stagedCache(t, pending.Vote{TapaID: "X", Stars: 1})
	res, err := NewReconciler(store, &fakeIdentity{userID: "u1"}, cache).Reconcile(ctx)

	require.NoError(t, err)
	assert.Equal(t, PendingDropped, res.Status)
	slot, _ := cache.Load(ctx)
	assert.Nil(t, slot)
}

func TestReconcile_ConcurrentCallsCommitOnce(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	cache := stagedCache(t, pending.Vote{TapaID: "X", Stars: 4})
	r := NewReconciler(store, &fakeIdentity{userID: "u1"}, cache)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Reconcile(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.count("u1", "X"))
}

func TestReconcileStatus_String(t *testing.T) {
	assert.Equal(t, "committed", PendingCommitted.String())
	assert.Equal(t, "dropped", PendingDropped.String())
}
