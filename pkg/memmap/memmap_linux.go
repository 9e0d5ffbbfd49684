package memmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/go-delve/memlayout/pkg/logflags"
)

// Self returns the memory map of the running process.
func Self() ([]Entry, error) {
	pid := unix.Getpid()
	buf, err := os.ReadFile(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, err
	}
	entries, err := Parse(buf)
	if err != nil {
		return nil, err
	}
	if logflags.MemMap() {
		logger := logflags.MemMapLogger().WithField("pid", pid)
		for i := range entries {
			e := &entries[i]
			logger.Debugf("%#x-%#x %s %s", e.Addr, e.Addr+e.Size, e.Perms(), e.Region())
		}
	}
	return entries, nil
}

// PageSize returns the page size of the system.
func PageSize() int {
	return unix.Getpagesize()
}
