package flow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// State Serialization API
// =============================================================================

// MarshalState converts a state to indented JSON bytes.
func MarshalState(s State) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeStateTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteState writes a state as JSON to an io.Writer.
func WriteState(s State, w io.Writer) error {
	return writeStateTo(s, w)
}

// ReadStateFile reads a JSON diagram file.
// Returns an error wrapping [ErrMissingNodes] or [ErrMissingEdges] when a
// list is absent.
func ReadStateFile(path string) (State, error) {
	f, err := os.Open(path)
	if err != nil {
		return State{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readStateFrom(f)
}

// ReadState decodes a JSON diagram from an io.Reader.
func ReadState(r io.Reader) (State, error) {
	return readStateFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeStateTo(s State, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readStateFrom(r io.Reader) (State, error) {
	var s State
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return State{}, fmt.Errorf("decode: %w", err)
	}
	if err := s.Valid(); err != nil {
		return State{}, fmt.Errorf("decode: %w", err)
	}
	return s, nil
}
