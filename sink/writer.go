package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// Writer writes every result as an indented JSON document.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

var _ types.ResultSink = (*Writer)(nil)

// NewWriter creates a sink writing to w.
//
// Parameters:
//   - w: Destination of the JSON documents
//
// Returns:
//   - *Writer: Initialized writer sink
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Publish writes res followed by a newline.
func (s *Writer) Publish(_ context.Context, res *types.Result) error {
	data, err := Marshal(res)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	return nil
}

// Marshal encodes a result as indented JSON. Equal results encode to
// identical bytes.
func Marshal(res *types.Result) ([]byte, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return data, nil
}
