package gitlog

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lanegraph/pkg/dag"
	"github.com/matzehuels/lanegraph/pkg/errors"
)

func record(fields ...string) string {
	return strings.Join(fields, fieldSep) + recordSep
}

func TestParseRecords(t *testing.T) {
	data := record("bbb", "Ann", "ann@example.com", "2024-05-01T10:00:00+02:00",
		"Bob", "bob@example.com", "2024-05-02T09:30:00Z", "Merge topic", "Long body\n\nwith lines\n", "aaa ccc") +
		"\n" + record("aaa", "Ann", "ann@example.com", "2024-04-01T10:00:00Z",
		"Ann", "ann@example.com", "2024-04-01T10:00:00Z", "Initial", "", "")

	commits, err := ParseRecords([]byte(data), dag.KindCommit)
	require.NoError(t, err)
	require.Len(t, commits, 2)

	m := commits[0]
	assert.Equal(t, "bbb", m.Hash)
	assert.Equal(t, []string{"aaa", "ccc"}, m.Parents)
	assert.Equal(t, "Merge topic", m.Subject)
	assert.Equal(t, "Long body\n\nwith lines", m.Body)
	assert.Equal(t, "Ann", m.Author.Name)
	assert.Equal(t, "bob@example.com", m.Committer.Email)
	assert.Equal(t, m.Committer.When.Unix(), m.Key)
	assert.Equal(t, dag.KindCommit, m.Kind)

	assert.Empty(t, commits[1].Parents)
}

func TestParseRecordsErrors(t *testing.T) {
	_, err := ParseRecords([]byte(record("a", "b")), dag.KindCommit)
	assert.True(t, errors.Is(err, errors.ErrCodeGitFailed))

	bad := record("a", "n", "e", "yesterday", "n", "e", "2024-01-01T00:00:00Z", "s", "", "")
	_, err = ParseRecords([]byte(bad), dag.KindCommit)
	assert.Error(t, err)

	commits, err := ParseRecords(nil, dag.KindStash)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

// gitRepo creates a repository with a fixed identity and clock.
func gitRepo(t *testing.T) (dir string, git func(args ...string) string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir = t.TempDir()
	date := 0
	git = func(args ...string) string {
		t.Helper()
		date++
		stamp := "2024-01-01T00:00:" + twoDigits(date) + "Z"
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_CONFIG_GLOBAL=/dev/null", "GIT_CONFIG_NOSYSTEM=1",
			"GIT_AUTHOR_NAME=Tester", "GIT_AUTHOR_EMAIL=t@example.com",
			"GIT_COMMITTER_NAME=Tester", "GIT_COMMITTER_EMAIL=t@example.com",
			"GIT_AUTHOR_DATE="+stamp, "GIT_COMMITTER_DATE="+stamp,
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
		return strings.TrimSpace(string(out))
	}
	git("init", "-q", "-b", "main")
	return dir, git
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10%10), byte('0' + n%10)})
}

func TestLoadRepository(t *testing.T) {
	dir, git := gitRepo(t)
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	write("a.txt", "a")
	git("add", ".")
	git("commit", "-q", "-m", "first")
	git("checkout", "-q", "-b", "topic")
	write("b.txt", "b")
	git("add", ".")
	git("commit", "-q", "-m", "on topic")
	git("checkout", "-q", "main")
	write("c.txt", "c")
	git("add", ".")
	git("commit", "-q", "-m", "on main")
	git("merge", "-q", "--no-ff", "-m", "merge topic", "topic")
	write("c.txt", "dirty")
	git("stash", "push", "-q", "-m", "wip")

	commits, err := Load(context.Background(), dir, Options{})
	require.NoError(t, err)
	require.Len(t, commits, 5)

	assert.Equal(t, dag.KindStash, commits[0].Kind)
	assert.Contains(t, commits[0].Subject, "wip")
	assert.Equal(t, "merge topic", commits[1].Subject)
	assert.Len(t, commits[1].Parents, 2)
	assert.Equal(t, commits[1].Hash, commits[0].Parents[0])
	assert.Equal(t, "first", commits[4].Subject)

	d, err := dag.New(commits)
	require.NoError(t, err)
	assert.Equal(t, 5, d.Len())

	noStash, err := Load(context.Background(), dir, Options{NoStashes: true, Order: dag.OrderTopological})
	require.NoError(t, err)
	assert.Len(t, noStash, 4)

	topic, err := Load(context.Background(), dir, Options{Revisions: []string{"topic"}, NoStashes: true})
	require.NoError(t, err)
	assert.Len(t, topic, 2)
}

func TestGitDir(t *testing.T) {
	dir, _ := gitRepo(t)
	got, err := GitDir(context.Background(), "", dir)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(filepath.Join(dir, ".git"))
	require.NoError(t, err)
	gotReal, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, gotReal)
}

func TestLoadEmptyRepository(t *testing.T) {
	dir, _ := gitRepo(t)
	commits, err := Load(context.Background(), dir, Options{})
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestLoadNotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	_, err := Load(context.Background(), dir, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeRepoNotFound), "got %v", err)
}

func TestLoadRejectsOptionRevisions(t *testing.T) {
	_, err := Load(context.Background(), t.TempDir(), Options{Revisions: []string{"--output=x"}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}
