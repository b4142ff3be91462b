package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Layout - Serialization Format
// =============================================================================

// Layout is the JSON form of a computed [Graph].
//
//	{
//	  "max_lane": 1,
//	  "rows": [
//	    {"hash": "9f2c...", "kind": "commit", "lane": 0, "edges": [
//	      {"kind": "down", "lane": 0, "associated_lane": 0}
//	    ]}
//	  ]
//	}
type Layout struct {
	MaxLane int         `json:"max_lane"`
	Rows    []LayoutRow `json:"rows"`
}

// LayoutRow is one row of a [Layout].
type LayoutRow struct {
	Hash    string `json:"hash"`
	Kind    string `json:"kind"`
	Lane    int    `json:"lane"`
	Subject string `json:"subject,omitempty"`
	Edges   []Edge `json:"edges,omitempty"`
}

// Export converts a Graph to its serialization form.
func Export(g *Graph) Layout {
	l := Layout{MaxLane: g.MaxLane, Rows: make([]LayoutRow, len(g.Commits))}
	for i, c := range g.Commits {
		l.Rows[i] = LayoutRow{
			Hash:    c.Hash,
			Kind:    c.Kind.String(),
			Lane:    g.Positions[c.Hash].Lane,
			Subject: c.Subject,
			Edges:   g.Edges[i],
		}
	}
	return l
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout converts a Graph to indented JSON bytes.
func MarshalLayout(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLayout(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteLayout writes a Graph as JSON to an io.Writer.
func WriteLayout(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Export(g))
}

// WriteLayoutFile writes a Graph as JSON to a file.
// The file is created with 0644 permissions.
func WriteLayoutFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayout(g, f)
}

// UnmarshalLayout decodes layout JSON.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	return l, nil
}
