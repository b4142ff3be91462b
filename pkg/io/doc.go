// Package io provides JSON import and export of commit records.
//
// # Overview
//
// Commit records let lanegraph draw histories that do not come from a
// local git repository: exports of other version control systems, fixtures
// for tests, or a history captured once and rendered many times.
//
// # JSON Format
//
// The format has one required top-level array:
//
//	{
//	  "commits": [
//	    {"hash": "c3", "parents": ["c2", "f1"], "subject": "Merge feature"},
//	    {"hash": "f1", "parents": ["c1"]},
//	    {"hash": "c2", "parents": ["c1"]},
//	    {"hash": "c1"}
//	  ]
//	}
//
// # Commit Fields
//
// Required:
//   - hash: Unique identifier of the commit
//
// Optional:
//   - parents: Parent hashes, first parent first
//   - kind: "commit" (default) or "stash"
//   - key: Ordering key; defaults to the committer date in unix seconds
//   - author, committer: Objects with name, email and an RFC 3339 date
//   - subject, body: The commit message
//
// # Import
//
// Use [ImportJSON] to read records from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	commits, err := io.ImportJSON("history.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Records are returned in file order. Hashes are validated and must be
// unique; parents may refer to commits that are not in the file.
//
// # Export
//
// Use [ExportJSON] to write records to a file, or [WriteJSON] to write to
// any io.Writer. Exported records re-import identically.
package io
