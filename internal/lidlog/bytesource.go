package lidlog

import (
	"io"
	"os"
)

// ByteSource abstracts a seekable byte source so the decoder doesn't depend
// directly on *os.File. Production code uses OpenFile; tests use
// NewMemoryByteSource, the same production/in-memory split the reference
// codebase uses for its filesystem abstraction.
type ByteSource interface {
	// ReadExact reads exactly n bytes from the current position and
	// advances it by n. A short read is reported as ErrShortRead.
	ReadExact(n int) ([]byte, error)
	// Seek moves the read position to an absolute byte offset.
	Seek(offset int64) error
	// Size returns the total size of the source in bytes.
	Size() (int64, error)
}

// FileByteSource is the production ByteSource, backed by an *os.File.
type FileByteSource struct {
	f *os.File
}

// OpenFile opens path for reading and wraps it as a ByteSource. The caller
// owns the returned handle and must Close it.
func OpenFile(path string) (*FileByteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapf(ErrIO, err, "open %q", path)
	}
	return &FileByteSource{f: f}, nil
}

// ReadExact reads exactly n bytes, or returns ErrShortRead with whatever
// partial data was available.
func (s *FileByteSource) ReadExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := io.ReadFull(s.f, buf)
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return buf[:got], wrapf(ErrShortRead, nil, "wanted %d bytes, got %d", n, got)
		}
		return nil, wrapf(ErrIO, err, "read")
	}
	return buf, nil
}

// Seek moves the read position to an absolute offset from the start.
func (s *FileByteSource) Seek(offset int64) error {
	if _, err := s.f.Seek(offset, io.SeekStart); err != nil {
		return wrapf(ErrIO, err, "seek to %d", offset)
	}
	return nil
}

// Size returns the file's size in bytes.
func (s *FileByteSource) Size() (int64, error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, wrapf(ErrIO, err, "stat")
	}
	return info.Size(), nil
}

// Close releases the underlying file handle.
func (s *FileByteSource) Close() error {
	return s.f.Close()
}

// MemoryByteSource is an in-memory ByteSource, used by tests to build
// synthetic .lid fixtures without touching disk.
type MemoryByteSource struct {
	data []byte
	pos  int64
}

// NewMemoryByteSource wraps data as a ByteSource starting at position 0.
func NewMemoryByteSource(data []byte) *MemoryByteSource {
	return &MemoryByteSource{data: data}
}

// ReadExact reads exactly n bytes, or returns ErrShortRead with whatever
// partial data was available.
func (s *MemoryByteSource) ReadExact(n int) ([]byte, error) {
	avail := int64(len(s.data)) - s.pos
	if avail < 0 {
		avail = 0
	}
	if avail < int64(n) {
		got := append([]byte(nil), s.data[s.pos:]...)
		s.pos = int64(len(s.data))
		return got, wrapf(ErrShortRead, nil, "wanted %d bytes, got %d", n, len(got))
	}
	buf := make([]byte, n)
	copy(buf, s.data[s.pos:s.pos+int64(n)])
	s.pos += int64(n)
	return buf, nil
}

// Seek moves the read position to an absolute offset from the start.
func (s *MemoryByteSource) Seek(offset int64) error {
	if offset < 0 || offset > int64(len(s.data)) {
		return wrapf(ErrIO, nil, "seek to %d out of range [0,%d]", offset, len(s.data))
	}
	s.pos = offset
	return nil
}

// Size returns the length of the wrapped byte slice.
func (s *MemoryByteSource) Size() (int64, error) {
	return int64(len(s.data)), nil
}
