// Package layout prints where the entry function, a global variable and the
// locals of successive stack frames live in memory.
package layout

import (
	"fmt"
	"io"

	"github.com/go-delve/memlayout/pkg/logflags"
	"github.com/go-delve/memlayout/pkg/memmap"
)

// MaxDepth is the depth at which the recursion stops. Depths 0 through
// MaxDepth-1 are reported.
const MaxDepth = 5

// a is the global variable whose address is reported.
var a int

// Reporter writes the address report to an output stream.
type Reporter struct {
	out   io.Writer
	entry interface{}
	log   logflags.Logger

	maps     []memmap.Entry
	pageSize int
}

// New returns a Reporter writing to out. The first reported address is the
// one of entry, which must be a function.
func New(out io.Writer, entry interface{}) *Reporter {
	r := &Reporter{out: out, entry: entry, log: logflags.LayoutLogger()}
	if logflags.Layout() {
		maps, err := memmap.Self()
		if err != nil {
			r.log.WithError(err).Warn("memory map unavailable")
		}
		r.maps = maps
		r.pageSize = memmap.PageSize()
	}
	return r
}

// Run writes the report. It is the entry context: its local b is the one
// reported on the third line, before the recursion starts at depth 0.
func (r *Reporter) Run() error {
	var b int
	entry, err := funcAddress(r.entry)
	if err != nil {
		return err
	}
	if err := r.report("main", entry); err != nil {
		return err
	}
	if err := r.report("a", addressOf(&a)); err != nil {
		return err
	}
	if err := r.report("b", addressOf(&b)); err != nil {
		return err
	}
	return r.recurse(0)
}

//go:noinline
func (r *Reporter) recurse(depth int) error {
	var c int
	if depth == MaxDepth {
		return nil
	}
	addr := addressOf(&c)
	if _, err := fmt.Fprintf(r.out, "[%d] c is at: %s\n", depth, addr); err != nil {
		return fmt.Errorf("writing depth %d: %w", depth, err)
	}
	r.describe(fmt.Sprintf("c[%d]", depth), addr)
	return r.recurse(depth + 1)
}

func (r *Reporter) report(name string, addr Address) error {
	if _, err := fmt.Fprintf(r.out, "%s is at: %s\n", name, addr); err != nil {
		return fmt.Errorf("writing address of %s: %w", name, err)
	}
	r.describe(name, addr)
	return nil
}

// describe logs the mapping that holds addr.
func (r *Reporter) describe(name string, addr Address) {
	if !logflags.Layout() {
		return
	}
	logger := r.log.WithFields(logflags.Fields{"name": name, "addr": addr, "page": addr.PageBase(r.pageSize)})
	if e, ok := memmap.Find(r.maps, uint64(addr)); ok {
		logger.WithFields(logflags.Fields{"region": e.Region(), "perms": e.Perms()}).Debug("address reported")
		return
	}
	logger.Debug("address reported, no mapping")
}
