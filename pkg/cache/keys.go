package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/matzehuels/lanegraph/pkg/graph"
	"github.com/matzehuels/lanegraph/pkg/render"
)

// keyVersion changes whenever the rasterizer changes output for an
// unchanged key.
const keyVersion = 1

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// CanonicalJSON encodes v as compact JSON with object keys sorted at every
// level, so that equal values always produce equal bytes.
func CanonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}

// hashCanonical hashes the canonical encoding of v.
func hashCanonical(v any) string {
	data, err := CanonicalJSON(v)
	if err != nil {
		// Keys are built from plain ints and strings.
		panic(fmt.Sprintf("cache: encode key: %v", err))
	}
	return Hash(data)
}

// DirKey identifies everything that affects every row image.
type DirKey struct {
	Version     int        `json:"version"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	LineWidth   int        `json:"line_width"`
	InnerRadius int        `json:"inner_radius"`
	OuterRadius int        `json:"outer_radius"`
	Palette     [][4]uint8 `json:"palette"`
	Outline     [4]uint8   `json:"outline"`
	Background  [4]uint8   `json:"background"`
	Style       string     `json:"style"`
}

// NewDirKey builds the directory key of a geometry and style.
func NewDirKey(p render.Params, style render.Style) DirKey {
	k := DirKey{
		Version:     keyVersion,
		Width:       p.Width,
		Height:      p.Height,
		LineWidth:   p.LineWidth,
		InnerRadius: p.InnerRadius,
		OuterRadius: p.OuterRadius,
		Palette:     make([][4]uint8, len(p.Palette)),
		Outline:     rgba(p.Outline),
		Background:  rgba(p.Background),
		Style:       style.String(),
	}
	for i, c := range p.Palette {
		k.Palette[i] = rgba(c)
	}
	return k
}

func rgba(c color.NRGBA) [4]uint8 { return [4]uint8{c.R, c.G, c.B, c.A} }

// Hash returns the hex digest naming the directory.
func (k DirKey) Hash() string { return hashCanonical(k) }

// FileKey identifies one row image within a directory.
type FileKey struct {
	Lane      int      `json:"pos_x"`
	CellCount int      `json:"cell_count"`
	Edges     [][3]int `json:"edges"` // kind, lane, associated lane
}

// NewFileKey builds the file key of a row signature.
func NewFileKey(sig graph.RowSignature, cellCount int) FileKey {
	k := FileKey{Lane: sig.Lane, CellCount: cellCount, Edges: make([][3]int, len(sig.Edges))}
	for i, e := range sig.Edges {
		k.Edges[i] = [3]int{int(e.Kind), e.Lane, e.AssociatedLane}
	}
	return k
}

// Hash returns the hex digest naming the file.
func (k FileKey) Hash() string { return hashCanonical(k) }

// Key joins a directory and a file key into a backend key.
func Key(dir DirKey, file FileKey) string {
	return dir.Hash() + "/" + file.Hash()
}
