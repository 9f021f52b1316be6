package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisadapter "github.com/wellping/wellping-sub000/pkg/adapters/redis"
	"github.com/wellping/wellping-sub000/pkg/domain"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	store := redisadapter.NewStore(client)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	state := domain.NewSessionState("ping-1", "demoStream", "people", now)
	current := "about[__INDEX__]"
	state.Current = domain.CurrentQuestionData{
		QuestionID: &current,
		ExtraData:  map[string]string{"NAME": "Alice", "INDEX": "1"},
	}
	state.Stack = []domain.QuestionData{{QuestionID: "wrap"}}
	require.NoError(t, store.Save(ctx, state.PingID, state))

	loaded, err := store.Load(ctx, "ping-1")
	require.NoError(t, err)
	assert.Equal(t, state.Current, loaded.Current)
	assert.Equal(t, state.Stack, loaded.Stack)
	assert.True(t, loaded.StartedAt.Equal(now), "timestamps survive re-parsing")

	require.NoError(t, store.Delete(ctx, "ping-1"))
	_, err = store.Load(ctx, "ping-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_TTL(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)
	store := redisadapter.NewStore(client, redisadapter.WithTTL(time.Minute), redisadapter.WithPrefix("custom:"))

	state := domain.NewSessionState("ping-1", "s", "a", time.Now())
	require.NoError(t, store.Save(ctx, "ping-1", state))
	assert.True(t, mr.Exists("custom:ping-1"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, "ping-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLedger(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	ledger := redisadapter.NewLedger(client)

	record := func(id string, value any) {
		t.Helper()
		require.NoError(t, ledger.Record(ctx, "ping-1", &domain.Answer{
			QuestionID: id,
			Type:       domain.QuestionSlider,
			Data:       &domain.AnswerData{Value: value},
		}))
	}
	record("b", 10)
	record("a", 20)

	got, err := ledger.Lookup(ctx, "ping-1", "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	v, ok := got.NumericValue()
	assert.True(t, ok)
	assert.Equal(t, 20.0, v)

	missing, err := ledger.Lookup(ctx, "ping-1", "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	record("a", 30)
	all, err := ledger.List(ctx, "ping-1")
	require.NoError(t, err)
	require.Len(t, all, 2, "overwrites replace, never append")
	assert.Equal(t, "a", all[0].QuestionID)
	assert.Equal(t, "b", all[1].QuestionID)
}

func TestQueue(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	queue := redisadapter.NewQueue(client, "participant-1")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, queue.Enqueue(ctx, domain.FollowupEntry{StreamName: "late", DeliverAfter: now.Add(168 * time.Hour)}))
	require.NoError(t, queue.Enqueue(ctx, domain.FollowupEntry{StreamName: "soon", DeliverAfter: now.Add(72 * time.Hour)}))

	entries, err := queue.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "soon", entries[0].StreamName, "scored by delivery time")

	due, err := queue.DequeueDue(ctx, now)
	require.NoError(t, err)
	assert.Nil(t, due)

	due, err = queue.DequeueDue(ctx, now.Add(72*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, due)
	assert.Equal(t, "soon", due.StreamName)

	entries, err = queue.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestLocker(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	locker := redisadapter.NewLocker(client, "wellping:")

	unlock, err := locker.Lock(ctx, "ping-1", time.Minute)
	require.NoError(t, err)

	// A second acquisition blocks until the context gives up.
	shortCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(shortCtx, "ping-1", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Unrelated keys are independent.
	other, err := locker.Lock(ctx, "ping-2", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, unlock(ctx))
	reacquired, err := locker.Lock(ctx, "ping-1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, reacquired(ctx))
}
