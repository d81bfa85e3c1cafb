package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// File implements a fact source reading a YAML document from disk.
//
// JSON is valid YAML, so JSON fact files are read as well, including the
// output of json.Marshal on a types.Input. Keys are camelCase and unknown
// keys are rejected; the timestamp is an RFC 3339 string.
//
// Example document:
//
//	timestamp: "2024-03-15T09:30:00Z"
//	candidates:
//	  - {systemId: 1, productId: 10, subscriptionId: 100, cents: 100, groupId: 1}
//	subscriptions:
//	  - {id: 100, partNumber: "SUB-100", capacityCents: 1000}
type File struct {
	path string
}

var _ types.FactSource = (*File)(nil)

// fileDocument is the on-disk layout of a fact file.
type fileDocument struct {
	Timestamp   string `yaml:"timestamp"`
	types.Input `yaml:",inline"`
}

// NewFile creates a fact source reading path on every load.
//
// Parameters:
//   - path: Path to the fact file
//
// Returns:
//   - *File: Initialized file source
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads and decodes the fact file.
//
// Returns:
//   - *types.Input: Decoded facts
//   - error: Read, decode or timestamp parse error
func (f *File) Load(ctx context.Context) (*types.Input, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fact file %s: %w", f.path, err)
	}

	return Decode(data)
}

// Decode decodes a fact document.
//
// Parameters:
//   - data: YAML or JSON document
//
// Returns:
//   - *types.Input: Decoded facts
//   - error: Decode, unknown key or timestamp parse error
func Decode(data []byte) (*types.Input, error) {
	var doc fileDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode facts: %w", err)
	}

	in := doc.Input
	if doc.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, doc.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp %q: %w", doc.Timestamp, err)
		}
		in.Timestamp = ts
	}

	return &in, nil
}
