//go:build linux

package fastqio

import (
	"os"

	"golang.org/x/sys/unix"
)

// openMapped memory-maps path read-only for the lifetime of the run. The
// mapping is shared read-only across every worker that reads chunks
// derived from it (spec.md §5's "shared read-only across the workers via
// reference counting").
func openMapped(path string) (*MappedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return &MappedSource{data: nil}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return &MappedSource{data: data}, nil
}

func (m *MappedSource) close() error {
	if len(m.data) == 0 {
		return nil
	}
	return unix.Munmap(m.data)
}
