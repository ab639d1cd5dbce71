package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-refiner/internal/types"
)

type evictRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *evictRecorder) record(s types.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, s.ID)
}

func (r *evictRecorder) evicted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.ids...)
}

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(Config{})
	data := types.EmptyCvData()
	data.FullName = "Jane Doe"

	created := store.Create("Jane Doe\njane@x.com", data)
	require.NotEmpty(t, created.ID)
	assert.Len(t, created.ID, 26)
	assert.Equal(t, types.StateCreated, created.State())

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\njane@x.com", got.OriginalText)
	assert.Equal(t, "Jane Doe", got.Data.FullName)
	assert.Equal(t, created.CreatedAt, got.LastActivityAt)
}

func TestStore_IDsAreUnique(t *testing.T) {
	store := NewStore(Config{})
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := store.Create("text", types.EmptyCvData())
		require.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestStore_UnknownID(t *testing.T) {
	store := NewStore(Config{})

	_, err := store.Get("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = store.AppendMessage("missing", types.ChatMessage{Role: types.RoleUser, Content: "hi"})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = store.ReplaceData("missing", types.EmptyCvData())
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = store.Touch("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	store := NewStore(Config{})
	data := types.EmptyCvData()
	data.Skills = []string{"Go"}
	created := store.Create("text", data)

	data.Skills[0] = "mutated after create"
	created.Data.Skills[0] = "mutated snapshot"

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, got.Data.Skills)
}

func TestStore_AppendAndReplace(t *testing.T) {
	store := NewStore(Config{})
	created := store.Create("text", types.EmptyCvData())
	time.Sleep(5 * time.Millisecond)

	after, err := store.AppendMessage(created.ID, types.ChatMessage{Role: types.RoleUser, Content: "Make it shorter"})
	require.NoError(t, err)
	assert.Equal(t, types.StateRefining, after.State())
	assert.True(t, after.LastActivityAt.After(created.LastActivityAt))

	replacement := types.EmptyCvData()
	replacement.FullName = "Jane"
	after, err = store.ReplaceData(created.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, "Jane", after.Data.FullName)
	assert.Len(t, after.Transcript, 1)
	assert.Equal(t, "text", after.OriginalText)
}

func TestStore_ConcurrentAppendsAreNotLost(t *testing.T) {
	store := NewStore(Config{})
	created := store.Create("text", types.EmptyCvData())

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.AppendMessage(created.ID, types.ChatMessage{Role: types.RoleUser, Content: fmt.Sprintf("msg-%d", i)})
			assert.NoError(t, err)
			_, err = store.Get(created.ID)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	require.Len(t, got.Transcript, writers)

	contents := make(map[string]bool)
	for _, m := range got.Transcript {
		contents[m.Content] = true
	}
	assert.Len(t, contents, writers)
}

func TestStore_EvictsLeastRecentlyActive(t *testing.T) {
	recorder := &evictRecorder{}
	store := NewStore(Config{MaxSessions: 2, OnEvict: recorder.record})

	first := store.Create("first", types.EmptyCvData())
	second := store.Create("second", types.EmptyCvData())

	_, err := store.Touch(first.ID)
	require.NoError(t, err)

	third := store.Create("third", types.EmptyCvData())

	assert.Equal(t, []string{second.ID}, recorder.evicted())
	assert.Equal(t, 2, store.Len())

	_, err = store.Get(second.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = store.Get(first.ID)
	assert.NoError(t, err)
	_, err = store.Get(third.ID)
	assert.NoError(t, err)
}

func TestStore_ReadsDoNotCountAsActivity(t *testing.T) {
	recorder := &evictRecorder{}
	store := NewStore(Config{MaxSessions: 2, OnEvict: recorder.record})

	first := store.Create("first", types.EmptyCvData())
	store.Create("second", types.EmptyCvData())

	_, err := store.Get(first.ID)
	require.NoError(t, err)

	store.Create("third", types.EmptyCvData())
	assert.Equal(t, []string{first.ID}, recorder.evicted())
}

func TestStore_ExpiresIdleSessions(t *testing.T) {
	recorder := &evictRecorder{}
	store := NewStore(Config{TTL: 50 * time.Millisecond, OnEvict: recorder.record})

	created := store.Create("text", types.EmptyCvData())

	assert.Eventually(t, func() bool {
		_, err := store.Get(created.ID)
		return errors.Is(err, ErrNotFound)
	}, 2*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return len(recorder.evicted()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStore_UpdateDoesNotResurrectEvictedSession(t *testing.T) {
	recorder := &evictRecorder{}
	store := NewStore(Config{MaxSessions: 1, OnEvict: recorder.record})

	first := store.Create("first", types.EmptyCvData())
	stale, ok := store.lru.Peek(first.ID)
	require.True(t, ok)

	second := store.Create("second", types.EmptyCvData())
	require.Equal(t, []string{first.ID}, recorder.evicted())

	_, err := store.update(first.ID, stale, func(sess *types.Session) {
		sess.Transcript = append(sess.Transcript, types.ChatMessage{Role: types.RoleUser, Content: "late"})
	})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = store.Get(first.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = store.Get(second.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, []string{first.ID}, recorder.evicted())
}
