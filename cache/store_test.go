package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ZaguanLabs/bilingo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote is an in-memory Remote for store tests.
type fakeRemote struct {
	mu      sync.Mutex
	data    map[string][]byte
	loadErr error
	upserts int
	closed  bool
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{data: make(map[string][]byte)}
}

func (f *fakeRemote) LoadAll(ctx context.Context) (map[string][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make(map[string][]byte, len(f.data))
	for k, v := range f.data {
		out[k] = v
	}
	return out, nil
}

func (f *fakeRemote) Upsert(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("remote closed")
	}
	f.data[key] = value
	f.upserts++
	return nil
}

func (f *fakeRemote) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// hungRemote never answers until the caller's context ends.
type hungRemote struct {
	fakeRemote
}

func (h *hungRemote) LoadAll(ctx context.Context) (map[string][]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (h *hungRemote) Upsert(ctx context.Context, key string, value []byte) error {
	<-ctx.Done()
	return ctx.Err()
}

func sampleRecord(n int) bilingo.Record {
	return bilingo.Record{
		Hash:            fmt.Sprintf("hash-%d", n),
		Model:           "m",
		OriginalTitle:   fmt.Sprintf("标题%d", n),
		TranslatedTitle: fmt.Sprintf("Title %d", n),
		WrappedContent:  fmt.Sprintf("<div>%d</div>", n),
	}
}

func TestStore_MissingFileStartsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope", "cache.json"))
	assert.Equal(t, 0, s.Len())

	recs, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestStore_SaveWritesPrettyJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cache.json")
	s := NewStore(path)

	require.NoError(t, s.Save(context.Background(), "a.md", sampleRecord(1)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n  \"a.md\": {"), "expected two-space indentation, got:\n%s", data)

	var raw map[string]bilingo.Record
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, sampleRecord(1), raw["a.md"])
}

func TestStore_ReopenSeesSavedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	s := NewStore(path)
	require.NoError(t, s.Save(context.Background(), "a.md", sampleRecord(1)))
	require.NoError(t, s.Save(context.Background(), "b.md", sampleRecord(2)))

	reopened := NewStore(path)
	assert.Equal(t, 2, reopened.Len())
	rec, ok := reopened.Get("b.md")
	require.True(t, ok)
	assert.Equal(t, sampleRecord(2), rec)
}

func TestStore_InvalidLocalRecordsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	content := `{
  "good.md": {"hash": "h", "model": "m", "translatedTitle": "T", "wrappedContent": "<div></div>"},
  "bad.md": {"hash": "h"},
  "worse.md": "not an object"
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := NewStore(path)
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("good.md")
	assert.True(t, ok)
}

func TestStore_CorruptLocalFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewStore(path)
	assert.Equal(t, 0, s.Len())
}

func TestStore_LoadRemoteWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, writeLocal(path, map[string]bilingo.Record{
		"a.md": sampleRecord(1),
		"b.md": sampleRecord(2),
	}))

	remote := newFakeRemote()
	newer := sampleRecord(9)
	raw, _ := json.Marshal(newer)
	remote.data["a.md"] = raw
	remote.data["c.md"] = raw
	remote.data["junk.md"] = []byte(`{"hash": 1}`)

	s := NewStore(path, WithRemote(remote))
	recs, err := s.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, recs, 3)
	assert.Equal(t, newer, recs["a.md"])
	assert.Equal(t, sampleRecord(2), recs["b.md"])
	assert.Equal(t, newer, recs["c.md"])
}

func TestStore_LoadRemoteFailureKeepsLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, writeLocal(path, map[string]bilingo.Record{"a.md": sampleRecord(1)}))

	remote := newFakeRemote()
	remote.loadErr = errors.New("connection refused")

	s := NewStore(path, WithRemote(remote))
	recs, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestStore_SaveUpsertsRemote(t *testing.T) {
	remote := newFakeRemote()
	s := NewStore(filepath.Join(t.TempDir(), "cache.json"), WithRemote(remote))

	require.NoError(t, s.Save(context.Background(), "a.md", sampleRecord(1)))

	rec, err := DecodeRecord(remote.data["a.md"])
	require.NoError(t, err)
	assert.Equal(t, sampleRecord(1), rec)
}

func TestStore_ClosedStoreSkipsRemote(t *testing.T) {
	remote := newFakeRemote()
	path := filepath.Join(t.TempDir(), "cache.json")
	s := NewStore(path, WithRemote(remote))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, remote.closed)

	require.NoError(t, s.Save(context.Background(), "a.md", sampleRecord(1)))
	assert.Equal(t, 0, remote.upserts)

	// Local tier still written.
	assert.Equal(t, 1, NewStore(path).Len())
}

func TestStore_SaveLocalFailureReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	s := NewStore(filepath.Join(blocker, "cache.json"))
	err := s.Save(context.Background(), "a.md", sampleRecord(1))
	require.Error(t, err)

	var cacheErr *bilingo.CacheError
	assert.True(t, errors.As(err, &cacheErr))

	// Memory still updated.
	_, ok := s.Get("a.md")
	assert.True(t, ok)
}

func TestStore_ConcurrentSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	remote := newFakeRemote()
	s := NewStore(path, WithRemote(remote))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Save(context.Background(), fmt.Sprintf("post-%d.md", i), sampleRecord(i)))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, s.Len())
	assert.Equal(t, n, NewStore(path).Len())
	assert.Equal(t, n, remote.upserts)
}

func TestStore_RecordsIsCopy(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, s.Save(context.Background(), "a.md", sampleRecord(1)))

	recs := s.Records()
	delete(recs, "a.md")
	assert.Equal(t, 1, s.Len())
}

func TestStore_DefaultPath(t *testing.T) {
	s := NewStore("")
	assert.Equal(t, DefaultPath, s.Path())
}

func TestStore_HungRemoteTimesOut(t *testing.T) {
	remote := &hungRemote{}
	s := NewStore(filepath.Join(t.TempDir(), "cache.json"),
		WithRemote(remote), WithRemoteTimeout(20*time.Millisecond))

	err := s.Save(context.Background(), "a.md", sampleRecord(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, ok := s.Get("a.md")
	assert.True(t, ok, "memory tier should keep the record")

	records, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)

	done := make(chan error, 1)
	go func() { done <- s.Close() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close blocked on a hung remote")
	}
}

func TestWithRemoteTimeout_IgnoresNonPositive(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "cache.json"), WithRemoteTimeout(0))
	assert.Equal(t, DefaultRemoteTimeout, s.remoteTimeout)
}
