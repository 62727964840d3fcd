package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/2beens/pushupstats/internal/pushups"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

const testHistory = "10/16: 30, 25w, 20\nOct 17\n40 35d\nnot a set\n"

type fakeStore struct {
	records []pushups.LogRecord
	err     error
}

func (s *fakeStore) AddBatch(_ context.Context, records []pushups.LogRecord) ([]pushups.LogRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.records = append(s.records, records...)
	return records, nil
}

func testOptions(store *fakeStore, commit bool) (options, *bool) {
	closed := false
	return options{
		commit: commit,
		now:    testNow,
		openDB: func(context.Context) (batchStore, func(), error) {
			return store, func() { closed = true }, nil
		},
	}, &closed
}

func TestRun_Preview(t *testing.T) {
	store := &fakeStore{}
	opts, closed := testOptions(store, false)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, strings.NewReader(testHistory), &out))

	assert.Equal(t,
		"2026-10-16    75 reps  3 sets\n"+
			"2026-10-17    75 reps  2 sets\n"+
			"total: 2 entries, 5 sets, 150 reps, 1 warnings\n",
		out.String(),
	)
	assert.Empty(t, store.records)
	assert.False(t, *closed)
}

func TestRun_PreviewJSON(t *testing.T) {
	opts, _ := testOptions(&fakeStore{}, false)
	opts.asJSON = true

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, strings.NewReader(testHistory), &out))
	assert.Contains(t, out.String(), `"totalReps": 150`)
}

func TestRun_Commit(t *testing.T) {
	store := &fakeStore{}
	opts, closed := testOptions(store, true)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, strings.NewReader(testHistory), &out))

	require.Len(t, store.records, 5)
	assert.True(t, *closed)
	assert.Equal(t, 30, store.records[0].Reps)
	assert.Equal(t, pushups.VariationWeighted, store.records[1].Variation)
	// sets of one day are a minute apart
	assert.Equal(t, time.Minute, store.records[1].LoggedAt.Sub(store.records[0].LoggedAt))
}

func TestRun_CommitErrors(t *testing.T) {
	opts, _ := testOptions(&fakeStore{}, true)
	err := run(context.Background(), opts, strings.NewReader("nothing useful"), &bytes.Buffer{})
	require.EqualError(t, err, "nothing to import")

	opts, closed := testOptions(&fakeStore{err: errors.New("db down")}, true)
	err = run(context.Background(), opts, strings.NewReader(testHistory), &bytes.Buffer{})
	require.EqualError(t, err, "store sets: db down")
	assert.True(t, *closed)
}
