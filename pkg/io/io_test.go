package io

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lanegraph/pkg/dag"
	lgerrors "github.com/matzehuels/lanegraph/pkg/errors"
)

const sample = `{
  "commits": [
    {"hash": "s1", "parents": ["c2"], "kind": "stash", "subject": "WIP on main"},
    {"hash": "c2", "parents": ["c1"], "subject": "second",
     "committer": {"name": "Ann", "email": "ann@example.com", "date": "2024-05-02T10:00:00+02:00"}},
    {"hash": "c1", "key": 7, "subject": "first", "body": "details"}
  ]
}`

func TestReadJSON(t *testing.T) {
	commits, err := ReadJSON(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, commits, 3)

	assert.Equal(t, dag.KindStash, commits[0].Kind)
	assert.Equal(t, []string{"c2"}, commits[0].Parents)

	want := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	assert.True(t, commits[1].Committer.When.Equal(want))
	assert.Equal(t, want.Unix(), commits[1].Key, "key defaults to the committer date")
	assert.Equal(t, "Ann", commits[1].Committer.Name)

	assert.Equal(t, int64(7), commits[2].Key)
	assert.Empty(t, commits[2].Parents)
	assert.Equal(t, "details", commits[2].Body)
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"malformed", `{"commits": [`, func(err error) bool { return lgerrors.Is(err, lgerrors.ErrCodeInvalidInput) }},
		{"empty hash", `{"commits": [{"hash": ""}]}`, func(err error) bool { return lgerrors.Is(err, lgerrors.ErrCodeInvalidInput) }},
		{"bad parent", `{"commits": [{"hash": "a", "parents": ["x y"]}]}`, func(err error) bool { return lgerrors.Is(err, lgerrors.ErrCodeInvalidInput) }},
		{"duplicate", `{"commits": [{"hash": "a"}, {"hash": "a"}]}`, func(err error) bool { return errors.Is(err, dag.ErrDuplicateHash) }},
		{"unknown kind", `{"commits": [{"hash": "a", "kind": "tag"}]}`, func(err error) bool { return lgerrors.Is(err, lgerrors.ErrCodeInvalidInput) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error %v", err)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	commits, err := ReadJSON(strings.NewReader(sample))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, ExportJSON(commits, path))

	again, err := ImportJSON(path)
	require.NoError(t, err)
	require.Len(t, again, len(commits))
	for i := range commits {
		assert.Equal(t, commits[i].Hash, again[i].Hash)
		assert.Equal(t, commits[i].Parents, again[i].Parents)
		assert.Equal(t, commits[i].Kind, again[i].Kind)
		assert.Equal(t, commits[i].Key, again[i].Key)
		assert.Equal(t, commits[i].Subject, again[i].Subject)
		assert.True(t, commits[i].Committer.When.Equal(again[i].Committer.When))
	}
}

func TestWriteJSONOmitsEmptySignatures(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON([]*dag.Commit{{Hash: "a"}}, &buf))
	assert.NotContains(t, buf.String(), "author")
	assert.NotContains(t, buf.String(), "kind")
	assert.Contains(t, buf.String(), `"key": 0`)
}

func TestImportJSONMissingFile(t *testing.T) {
	_, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, lgerrors.Is(err, lgerrors.ErrCodeFileNotFound))
}
