package dag

import "time"

// Kind distinguishes regular commits from stash entries.
type Kind int

const (
	// KindCommit is a regular commit reachable from a branch, tag or HEAD.
	KindCommit Kind = iota
	// KindStash is a stash entry. Its first parent is the commit the stash
	// was created from; the remaining parents are usually not listed.
	KindStash
)

// String returns "commit" or "stash".
func (k Kind) String() string {
	if k == KindStash {
		return "stash"
	}
	return "commit"
}

// Signature identifies the author or committer of a commit.
type Signature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	When  time.Time `json:"date"`
}

// Commit is a single node of the history.
//
// Hash is opaque to the layout; it only needs to be unique and comparable.
// Parents are ordered and Parents[0] is the first parent. Key is the ordering
// key used by [Sort], normally the committer time in unix seconds.
type Commit struct {
	Hash      string
	Parents   []string
	Key       int64
	Kind      Kind
	Author    Signature
	Committer Signature
	Subject   string
	Body      string
}

// FirstParent returns the first parent hash, if any.
func (c *Commit) FirstParent() (string, bool) {
	if len(c.Parents) == 0 {
		return "", false
	}
	return c.Parents[0], true
}

// IsStash reports whether the commit is a stash entry.
func (c *Commit) IsStash() bool { return c.Kind == KindStash }

// IsMerge reports whether the commit has more than one parent.
func (c *Commit) IsMerge() bool { return len(c.Parents) > 1 }

// ShortHash returns the first seven characters of the hash.
func (c *Commit) ShortHash() string {
	if len(c.Hash) <= 7 {
		return c.Hash
	}
	return c.Hash[:7]
}
