// Package memmap reads the memory mappings of the running process.
package memmap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupported is returned by Self on systems without /proc/<pid>/maps.
var ErrUnsupported = errors.New("memory map not available on this system")

// Entry represents a memory mapping of the process.
type Entry struct {
	Addr uint64
	Size uint64

	Read, Write, Exec bool

	Filename string
	Offset   uint64
}

// Contains returns true if addr falls inside the mapping.
func (e *Entry) Contains(addr uint64) bool {
	return addr >= e.Addr && addr < e.Addr+e.Size
}

// Perms returns the permissions of the mapping in rwx form.
func (e *Entry) Perms() string {
	b := []byte("---")
	if e.Read {
		b[0] = 'r'
	}
	if e.Write {
		b[1] = 'w'
	}
	if e.Exec {
		b[2] = 'x'
	}
	return string(b)
}

// Region returns a short description of what the mapping holds: a kernel
// pseudo-path such as [stack] or [heap], the mapped file, or "anon".
func (e *Entry) Region() string {
	if e.Filename == "" {
		return "anon"
	}
	return e.Filename
}

// Parse parses the contents of a /proc/<pid>/maps file.
func Parse(buf []byte) ([]Entry, error) {
	lines := strings.Split(string(buf), "\n")
	r := make([]Entry, 0, len(lines))
	for i, line := range lines {
		if line == "" {
			continue
		}
		start, end, perm, offset, dev, filename, err := parseHeaderLine(i+1, line)
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(dev, "00:") && !strings.HasPrefix(filename, "[") {
			filename = ""
			offset = 0
		}
		r = append(r, Entry{
			Addr: start,
			Size: end - start,

			Read:  perm[0] == 'r',
			Write: perm[1] == 'w',
			Exec:  perm[2] == 'x',

			Filename: filename,
			Offset:   offset,
		})
	}
	return r, nil
}

// Find returns the mapping of entries that contains addr.
func Find(entries []Entry, addr uint64) (Entry, bool) {
	for i := range entries {
		if entries[i].Contains(addr) {
			return entries[i], true
		}
	}
	return Entry{}, false
}

func parseHeaderLine(lineno int, in string) (start, end uint64, perm string, offset uint64, dev, filename string, err error) {
	fields := strings.Fields(in)
	if len(fields) < 5 {
		err = fmt.Errorf("malformed /proc/pid/maps on line %d: %q (wrong number of fields)", lineno, in)
		return
	}

	v := strings.Split(fields[0], "-")
	if len(v) != 2 {
		err = fmt.Errorf("malformed /proc/pid/maps on line %d: %q (bad first field)", lineno, in)
		return
	}
	start, err = strconv.ParseUint(v[0], 16, 64)
	if err != nil {
		err = fmt.Errorf("malformed /proc/pid/maps on line %d: %q (%v)", lineno, in, err)
		return
	}
	end, err = strconv.ParseUint(v[1], 16, 64)
	if err != nil {
		err = fmt.Errorf("malformed /proc/pid/maps on line %d: %q (%v)", lineno, in, err)
		return
	}
	if end < start {
		err = fmt.Errorf("malformed /proc/pid/maps on line %d: %q (end before start)", lineno, in)
		return
	}

	perm = fields[1]
	if len(perm) < 4 {
		err = fmt.Errorf("malformed /proc/pid/maps on line %d: %q (permissions column too short)", lineno, in)
		return
	}

	offset, err = strconv.ParseUint(fields[2], 16, 64)
	if err != nil {
		err = fmt.Errorf("malformed /proc/pid/maps on line %d: %q (%v)", lineno, in, err)
		return
	}

	dev = fields[3]

	// fields[4] -> inode

	if len(fields) > 5 {
		filename = strings.Join(fields[5:], " ")
	}
	return
}
