//go:build !linux

package memmap

import "os"

// Self returns the memory map of the running process.
func Self() ([]Entry, error) {
	return nil, ErrUnsupported
}

// PageSize returns the page size of the system.
func PageSize() int {
	return os.Getpagesize()
}
