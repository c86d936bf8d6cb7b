package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nstehr/burrow/burrow-core/model"
)

// exerciseStore checks the lifecycle contract every backend must honor.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "gatherer-1")
	require.NoError(t, err)
	assert.False(t, ok, "empty store should not report a record")

	rec := Creep{Role: "gatherer", State: model.StateWorking, TargetID: "spawn1"}
	require.NoError(t, s.Put(ctx, "gatherer-1", rec))
	require.NoError(t, s.Put(ctx, "builder-7", Creep{Role: "builder"}))

	got, ok, err := s.Get(ctx, "gatherer-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)

	rec.TargetID = ""
	rec.SourceID = "src-a"
	require.NoError(t, s.Put(ctx, "gatherer-1", rec))
	got, _, err = s.Get(ctx, "gatherer-1")
	require.NoError(t, err)
	assert.Equal(t, "src-a", got.SourceID)
	assert.Empty(t, got.TargetID)

	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"builder-7", "gatherer-1"}, names)

	require.NoError(t, s.Delete(ctx, "gatherer-1"))
	// Deleting a missing record is not an error.
	require.NoError(t, s.Delete(ctx, "gatherer-1"))

	_, ok, err = s.Get(ctx, "gatherer-1")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err = s.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"builder-7"}, names)
}

func TestMapStore(t *testing.T) {
	exerciseStore(t, NewMapStore())
}

func TestScopedStore(t *testing.T) {
	exerciseStore(t, Scope(NewMapStore(), "W1N1"))
}

func TestScopesDoNotSeeEachOther(t *testing.T) {
	ctx := context.Background()
	shared := NewMapStore()
	a := Scope(shared, "W1N1")
	b := Scope(shared, "W2N2")

	require.NoError(t, a.Put(ctx, "gatherer-1", Creep{Role: "gatherer"}))
	require.NoError(t, b.Put(ctx, "gatherer-1", Creep{Role: "builder"}))

	names, err := b.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gatherer-1"}, names)

	require.NoError(t, b.Delete(ctx, "gatherer-1"))
	got, ok, err := a.Get(ctx, "gatherer-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "gatherer", got.Role)

	all, err := shared.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"W1N1/gatherer-1"}, all)

	require.NoError(t, a.Close())
	_, _, err = shared.Get(ctx, "W1N1/gatherer-1")
	assert.NoError(t, err, "closing a scope must not close the shared store")
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem", "creeps.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creeps.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "upgrader-3", Creep{Role: "upgrader", State: model.StateWorking}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, ok, err := s.Get(ctx, "upgrader-3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.StateWorking, got.State)
}

func TestOpenSQLiteRejectsEmptyPath(t *testing.T) {
	_, err := OpenSQLite("")
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(mr.Addr(), "burrow-test")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Ping(context.Background()))

	exerciseStore(t, s)
	assert.True(t, mr.Exists("burrow-test:creeps"))
}

func TestRedisStoreScoped(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(mr.Addr(), "")
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, Scope(s, "W7N3"))
	assert.Equal(t, "", mr.HGet("burrow:creeps", "W7N3/gatherer-1"), "deleted record must be gone")
	assert.NotEmpty(t, mr.HGet("burrow:creeps", "W7N3/builder-7"))
}

func TestRedisStoreCorruptRecord(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(mr.Addr(), "burrow")
	require.NoError(t, err)
	defer s.Close()

	mr.HSet("burrow:creeps", "gatherer-1", "{not json")
	_, _, err = s.Get(context.Background(), "gatherer-1")
	assert.Error(t, err)
}

func TestRedisStoreLiveServer(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	s, err := NewRedisStore(addr, "burrow-test-"+t.Name())
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Ping(context.Background()))

	exerciseStore(t, s)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("etcd", "", "", "")
	assert.Error(t, err)
}

func TestClearTargetsIdempotent(t *testing.T) {
	rec := Creep{Role: "builder", SourceID: "a", TargetID: "b", WorkTargetID: "c"}
	rec.ClearTargets()
	rec.ClearTargets()
	assert.Equal(t, Creep{Role: "builder"}, rec)
}
