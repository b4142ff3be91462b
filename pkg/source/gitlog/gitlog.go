// Package gitlog reads commit history from a git repository by running
// the git command line tool.
//
// Commits come from `git log` over all branches, remote branches, tags and
// HEAD; stash entries come from `git stash list` and are merged in directly
// above the commit they were created from.
package gitlog

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/lanegraph/pkg/dag"
	"github.com/matzehuels/lanegraph/pkg/errors"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x00"
	numFields = 10
)

// prettyFormat selects hash, author, committer, subject, body and parents,
// separated by the ASCII unit separator.
var prettyFormat = strings.Join([]string{
	"%H", "%an", "%ae", "%ad", "%cn", "%ce", "%cd", "%s", "%b", "%P",
}, "%x1f")

// Options configures [Load].
type Options struct {
	// Order is passed to git as --date-order or --topo-order.
	Order dag.Order

	// Revisions limits the history to what they reach. Empty means all
	// branches, remote branches, tags and HEAD.
	Revisions []string

	// NoStashes skips `git stash list`.
	NoStashes bool

	// Git is the git executable; defaults to "git".
	Git string
}

// Load returns the commits of the repository at dir in display order.
func Load(ctx context.Context, dir string, opts Options) ([]*dag.Commit, error) {
	if opts.Git == "" {
		opts.Git = "git"
	}
	for _, rev := range opts.Revisions {
		if err := errors.ValidateRevision(rev); err != nil {
			return nil, err
		}
	}
	if _, err := exec.LookPath(opts.Git); err != nil {
		return nil, errors.Wrap(errors.ErrCodeGitFailed, err, "git executable %q not found", opts.Git)
	}
	if err := CheckRepository(ctx, opts.Git, dir); err != nil {
		return nil, err
	}

	var stashes []*dag.Commit
	if !opts.NoStashes {
		out, err := run(ctx, opts.Git, dir, "stash", "list", "--pretty="+prettyFormat, "--date=iso-strict", "-z")
		if err != nil {
			return nil, err
		}
		if stashes, err = ParseRecords(out, dag.KindStash); err != nil {
			return nil, err
		}
	}

	args := []string{"log", orderFlag(opts.Order), "--pretty=" + prettyFormat, "--date=iso-strict", "-z"}
	if len(opts.Revisions) > 0 {
		args = append(args, opts.Revisions...)
	} else {
		args = append(args, "--branches", "--remotes", "--tags")
		for _, s := range stashes {
			if p, ok := s.FirstParent(); ok {
				args = append(args, p)
			}
		}
		if hasHead(ctx, opts.Git, dir) {
			args = append(args, "HEAD")
		}
	}
	args = append(args, "--")

	out, err := run(ctx, opts.Git, dir, args...)
	if err != nil {
		return nil, err
	}
	commits, err := ParseRecords(out, dag.KindCommit)
	if err != nil {
		return nil, err
	}
	return dag.MergeStashes(commits, stashes), nil
}

// CheckRepository returns an error unless dir is inside a work tree or is
// a bare repository.
func CheckRepository(ctx context.Context, git, dir string) error {
	for _, flag := range []string{"--is-inside-work-tree", "--is-bare-repository"} {
		out, err := run(ctx, git, dir, "rev-parse", flag)
		if err == nil && strings.TrimSpace(string(out)) == "true" {
			return nil
		}
	}
	return errors.New(errors.ErrCodeRepoNotFound, "%s is not a git repository (or any of the parent directories)", dir)
}

// GitDir returns the absolute path of the repository's git directory,
// which holds the refs, logs and HEAD that change with the history.
func GitDir(ctx context.Context, git, dir string) (string, error) {
	if git == "" {
		git = "git"
	}
	out, err := run(ctx, git, dir, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// hasHead reports whether HEAD points at a commit; it does not in a fresh
// repository.
func hasHead(ctx context.Context, git, dir string) bool {
	_, err := run(ctx, git, dir, "rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

func orderFlag(o dag.Order) string {
	if o == dag.OrderTopological {
		return "--topo-order"
	}
	return "--date-order"
}

// run executes git in dir and returns its standard output.
func run(ctx context.Context, git, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, git, args...)
	cmd.Dir = dir

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeGitFailed, err, "git %s: %s", args[0], strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}

// ParseRecords parses NUL-terminated records written with prettyFormat.
func ParseRecords(data []byte, kind dag.Kind) ([]*dag.Commit, error) {
	var commits []*dag.Commit
	for i, rec := range strings.Split(string(data), recordSep) {
		rec = strings.TrimPrefix(rec, "\n")
		if rec == "" {
			continue
		}
		c, err := parseRecord(rec, kind)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		commits = append(commits, c)
	}
	return commits, nil
}

func parseRecord(rec string, kind dag.Kind) (*dag.Commit, error) {
	f := strings.Split(rec, fieldSep)
	if len(f) != numFields {
		return nil, errors.New(errors.ErrCodeGitFailed, "unexpected number of fields: %d", len(f))
	}
	authored, err := time.Parse(time.RFC3339, f[3])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGitFailed, err, "author date of %s", f[0])
	}
	committed, err := time.Parse(time.RFC3339, f[6])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGitFailed, err, "committer date of %s", f[0])
	}
	return &dag.Commit{
		Hash:      f[0],
		Parents:   strings.Fields(f[9]),
		Key:       committed.Unix(),
		Kind:      kind,
		Author:    dag.Signature{Name: f[1], Email: f[2], When: authored},
		Committer: dag.Signature{Name: f[4], Email: f[5], When: committed},
		Subject:   f[7],
		Body:      strings.TrimRight(f[8], "\n"),
	}, nil
}
