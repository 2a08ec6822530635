package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemp-commons/internal/database"
	"hemp-commons/internal/models"
	"hemp-commons/internal/store"
	"hemp-commons/internal/utils"
)

func newTestEngine(t *testing.T, timeout time.Duration) (*Engine, *utils.MetricsCollector) {
	t.Helper()
	metrics := utils.NewMetricsCollector()
	s := store.New(database.NewMemoryKV(), store.WithLatency(0), store.WithRevenuePolicy(store.NoRevenuePolicy{}))
	e := NewEngine(actor.NewActorSystem(), s, metrics, timeout)
	t.Cleanup(e.Stop)
	return e, metrics
}

func TestExecuteReturnsTypedResult(t *testing.T) {
	e, metrics := newTestEngine(t, time.Second)
	ctx := context.Background()

	user, err := Execute(ctx, e, "create_user", func(ctx context.Context, s *store.Store) (*models.User, error) {
		return s.CreateUser(ctx, models.NewUserInput{Username: "sherpa", Email: "sherpa@example.com", Password: "pw"})
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, store.PointsRegistration, user.HempPoints)

	counts, err := e.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, counts.Users)
	assert.Equal(t, 3, counts.Posts)

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.Requests)
	assert.Equal(t, 1, snap.Operations["create_user"].Count)
}

func TestExecutePropagatesStoreErrors(t *testing.T) {
	e, metrics := newTestEngine(t, time.Second)

	_, err := Execute(context.Background(), e, "cast_vote", func(ctx context.Context, s *store.Store) (*models.CommunityVote, error) {
		return s.CastVote(ctx, "missing", "o1", "u1")
	})
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
	assert.Equal(t, uint64(1), metrics.Snapshot().Errors)
}

func TestExecuteNilPointerResult(t *testing.T) {
	e, _ := newTestEngine(t, time.Second)

	wallet, err := Execute(context.Background(), e, "get_wallet", func(ctx context.Context, s *store.Store) (*models.WalletAddress, error) {
		return s.GetWalletAddress(ctx, "u1")
	})
	require.NoError(t, err)
	assert.Nil(t, wallet)
}

func TestExecuteSerializesOperations(t *testing.T) {
	e, _ := newTestEngine(t, 5*time.Second)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Execute(ctx, e, "toggle_like", func(ctx context.Context, s *store.Store) (bool, error) {
				return s.ToggleLike(ctx, "p1", "u1")
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	post, err := Execute(ctx, e, "get_post", func(ctx context.Context, s *store.Store) (*models.Post, error) {
		return s.GetPostByID(ctx, "p1")
	})
	require.NoError(t, err)
	assert.Zero(t, post.Likes, "an even number of toggles cancels out")
	assert.Empty(t, post.LikedBy)
}

func TestExecuteTimesOut(t *testing.T) {
	e, _ := newTestEngine(t, 50*time.Millisecond)

	_, err := Execute(context.Background(), e, "slow", func(ctx context.Context, s *store.Store) (int, error) {
		time.Sleep(300 * time.Millisecond)
		return 1, nil
	})
	assert.True(t, utils.IsErrorCode(err, utils.ErrActorTimeout))
}

func TestExecuteCancelledContext(t *testing.T) {
	e, _ := newTestEngine(t, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := Execute(ctx, e, "noop", func(ctx context.Context, s *store.Store) (int, error) {
		called = true
		return 0, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
