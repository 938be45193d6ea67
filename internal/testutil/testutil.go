// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"bytes"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// PadPage right-pads data with 0xFF up to size, failing the test if data is
// already longer than size. Mirrors how .lid pages are padded on disk.
func PadPage(t *testing.T, data []byte, size int) []byte {
	t.Helper()
	if len(data) > size {
		t.Fatalf("fixture data (%d bytes) exceeds page size %d", len(data), size)
	}
	buf := bytes.NewBuffer(make([]byte, 0, size))
	buf.Write(data)
	for buf.Len() < size {
		buf.WriteByte(0xFF)
	}
	return buf.Bytes()
}
