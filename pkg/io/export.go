package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/lanegraph/pkg/dag"
)

type history struct {
	Commits []record `json:"commits"`
}

type record struct {
	Hash      string         `json:"hash"`
	Parents   []string       `json:"parents,omitempty"`
	Kind      string         `json:"kind,omitempty"`
	Key       *int64         `json:"key,omitempty"`
	Author    *dag.Signature `json:"author,omitempty"`
	Committer *dag.Signature `json:"committer,omitempty"`
	Subject   string         `json:"subject,omitempty"`
	Body      string         `json:"body,omitempty"`
}

func signature(s dag.Signature) *dag.Signature {
	if s.Name == "" && s.Email == "" && s.When.IsZero() {
		return nil
	}
	return &s
}

// WriteJSON encodes commits as JSON records and writes them to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(commits []*dag.Commit, w io.Writer) error {
	out := history{Commits: make([]record, len(commits))}
	for i, c := range commits {
		key := c.Key
		rec := record{
			Hash:      c.Hash,
			Parents:   c.Parents,
			Key:       &key,
			Author:    signature(c.Author),
			Committer: signature(c.Committer),
			Subject:   c.Subject,
			Body:      c.Body,
		}
		if c.IsStash() {
			rec.Kind = c.Kind.String()
		}
		out.Commits[i] = rec
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes commits as JSON records to the file at path.
func ExportJSON(commits []*dag.Commit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(commits, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
