package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal converts a Graph to JSON bytes.
// Vertices and edges are sorted for deterministic output.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes a Graph to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(g, f)
}

// Write writes a Graph as JSON to an io.Writer.
func Write(g *Graph, w io.Writer) error {
	return writeTo(g, w)
}

// ReadFile reads a JSON file and returns the decoded Graph.
// Returns a validation error for malformed or non-DAG inputs.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

// Read decodes a JSON graph from an io.Reader.
func Read(r io.Reader) (*Graph, error) {
	return readFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(g *Graph, w io.Writer) error {
	out := normalized(g)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// normalized returns a sorted copy of g for deterministic serialization.
// Name sets are sorted too so identical graphs always encode identically.
func normalized(g *Graph) Graph {
	out := Graph{
		Vertices:      slices.Clone(g.Vertices),
		Edges:         slices.Clone(g.Edges),
		NamesByCommit: g.NamesByCommit,
		Clustered:     g.Clustered,
	}

	slices.SortFunc(out.Vertices, func(a, b Vertex) int {
		if a.Label < b.Label {
			return -1
		}
		if a.Label > b.Label {
			return 1
		}
		return 0
	})
	for i := range out.Vertices {
		out.Vertices[i].Names = slices.Clone(out.Vertices[i].Names)
		slices.Sort(out.Vertices[i].Names)
	}

	slices.SortFunc(out.Edges, func(a, b Edge) int {
		if a.From != b.From {
			if a.From < b.From {
				return -1
			}
			return 1
		}
		if a.To < b.To {
			return -1
		}
		if a.To > b.To {
			return 1
		}
		return 0
	})

	return out
}
