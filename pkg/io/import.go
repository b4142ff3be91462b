package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/lanegraph/pkg/dag"
	"github.com/matzehuels/lanegraph/pkg/errors"
)

var kindFromString = map[string]dag.Kind{
	"":       dag.KindCommit,
	"commit": dag.KindCommit,
	"stash":  dag.KindStash,
}

// ReadJSON decodes commit records from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed or invalid
//   - A hash is empty, too long or contains spaces or control characters
//   - Two records share a hash
//   - A kind is neither "commit" nor "stash"
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]*dag.Commit, error) {
	var data history
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode commit records")
	}

	seen := make(map[string]bool, len(data.Commits))
	commits := make([]*dag.Commit, 0, len(data.Commits))
	for i, rec := range data.Commits {
		if err := errors.ValidateHash(rec.Hash); err != nil {
			return nil, fmt.Errorf("commit %d: %w", i, err)
		}
		if seen[rec.Hash] {
			return nil, fmt.Errorf("commit %s: %w", rec.Hash, dag.ErrDuplicateHash)
		}
		seen[rec.Hash] = true

		kind, ok := kindFromString[rec.Kind]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "commit %s: unknown kind %q", rec.Hash, rec.Kind)
		}
		for _, p := range rec.Parents {
			if err := errors.ValidateHash(p); err != nil {
				return nil, fmt.Errorf("commit %s parent: %w", rec.Hash, err)
			}
		}

		c := &dag.Commit{
			Hash:    rec.Hash,
			Parents: rec.Parents,
			Kind:    kind,
			Subject: rec.Subject,
			Body:    rec.Body,
		}
		if rec.Author != nil {
			c.Author = *rec.Author
		}
		if rec.Committer != nil {
			c.Committer = *rec.Committer
		}
		switch {
		case rec.Key != nil:
			c.Key = *rec.Key
		case !c.Committer.When.IsZero():
			c.Key = c.Committer.When.Unix()
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// ImportJSON reads the JSON file at path and returns its commit records.
// A missing file is reported with [errors.ErrCodeFileNotFound].
func ImportJSON(path string) ([]*dag.Commit, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "commit records %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
