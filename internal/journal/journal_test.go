package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "quill.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quill.db")

	j1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j1.Close())

	j2, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, j2.Close())
}

func TestAppendAndReadSession(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	id, err := j.BeginSession(ctx, "roundtrip")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	recs := []Record{
		{Step: 1, Op: "alloc_array", Args: `{"name":"A","size":3}`},
		{Step: 2, Op: "save", Args: `{"name":"t"}`},
		{Step: 3, Op: "put", Args: `{"object":"A","index":0}`, Result: "RANGECHECK"},
	}
	for _, r := range recs {
		require.NoError(t, j.Append(ctx, id, r))
	}

	got, err := j.ReadSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, recs, got)
}

func TestAppend_DuplicateStepIgnored(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	id, err := j.BeginSession(ctx, "")
	require.NoError(t, err)

	require.NoError(t, j.Append(ctx, id, Record{Step: 1, Op: "save", Args: "{}"}))
	// A resumed recorder re-appends the same step; the first write wins.
	require.NoError(t, j.Append(ctx, id, Record{Step: 1, Op: "restore", Args: "{}"}))

	got, err := j.ReadSession(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "save", got[0].Op)
}

func TestReadSession_EmptyIsNotNil(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	id, err := j.BeginSession(ctx, "")
	require.NoError(t, err)

	got, err := j.ReadSession(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSessions_ListsNewestFirst(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	first, err := j.BeginSession(ctx, "first")
	require.NoError(t, err)
	second, err := j.BeginSession(ctx, "second")
	require.NoError(t, err)
	require.NoError(t, j.Append(ctx, second, Record{Step: 1, Op: "save", Args: "{}"}))

	sessions, err := j.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second, sessions[0].ID)
	assert.Equal(t, 1, sessions[0].Records)
	assert.Equal(t, first, sessions[1].ID)
	assert.Equal(t, 0, sessions[1].Records)
}

func TestAppend_UnknownSessionFails(t *testing.T) {
	j := openTestJournal(t)
	err := j.Append(context.Background(), "no-such-session", Record{Step: 1, Op: "save", Args: "{}"})
	assert.Error(t, err, "foreign key enforcement must reject orphan records")
}
