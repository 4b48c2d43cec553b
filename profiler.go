package battletok

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Profiler accumulates wall time per named update phase. Phases are
// reported in the order they were first seen.
type Profiler struct {
	last   map[string]time.Duration
	total  map[string]time.Duration
	calls  map[string]int
	starts map[string]time.Time
	order  []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		last:   make(map[string]time.Duration),
		total:  make(map[string]time.Duration),
		calls:  make(map[string]int),
		starts: make(map[string]time.Time),
	}
}

func (p *Profiler) Begin(name string) {
	if p == nil {
		return
	}
	p.starts[name] = time.Now()
	if !slices.Contains(p.order, name) {
		p.order = append(p.order, name)
	}
}

func (p *Profiler) End(name string) {
	if p == nil {
		return
	}
	start, ok := p.starts[name]
	if !ok {
		return
	}
	d := time.Since(start)
	delete(p.starts, name)
	p.last[name] = d
	p.total[name] += d
	p.calls[name]++
}

// Last is the duration of the most recent run of name.
func (p *Profiler) Last(name string) time.Duration { return p.last[name] }

// Average is the mean duration of name over every run.
func (p *Profiler) Average(name string) time.Duration {
	if p.calls[name] == 0 {
		return 0
	}
	return p.total[name] / time.Duration(p.calls[name])
}

func (p *Profiler) Calls(name string) int { return p.calls[name] }

func (p *Profiler) Phases() []string { return slices.Clone(p.order) }

func (p *Profiler) Reset() {
	clear(p.last)
	clear(p.total)
	clear(p.calls)
}

func (p *Profiler) String() string {
	var sb strings.Builder
	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.order {
		fmt.Fprintf(&sb, "  %-12s: last %.3f ms, avg %.3f ms over %d\n", name,
			float64(p.last[name].Microseconds())/1000,
			float64(p.Average(name).Microseconds())/1000,
			p.calls[name])
	}
	return sb.String()
}
