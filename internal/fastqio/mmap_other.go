//go:build !linux

package fastqio

import "os"

// openMapped falls back to a plain read on non-Linux platforms, where the
// mmap syscall shape differs; the returned MappedSource still satisfies the
// same read-only sharing contract, just backed by heap memory.
func openMapped(path string) (*MappedSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &MappedSource{data: data}, nil
}

func (m *MappedSource) close() error {
	return nil
}
