// Package wave records 1-bit signals of a clocked model and dumps them as
// Value Change Dump files.
package wave

import "sort"

// Edge is a change of level at a cycle. The first edge of a recording holds
// the initial level.
type Edge struct {
	Cycle uint64
	Level bool
}

// Recorder records the changes of a single signal. It implements
// uart.Probe.
type Recorder struct {
	Name string

	signal func() bool
	edges  []Edge
	end    uint64
}

// NewRecorder creates a Recorder sampling signal.
func NewRecorder(name string, signal func() bool) *Recorder {
	return &Recorder{Name: name, signal: signal}
}

// Probe implements uart.Probe.
func (r *Recorder) Probe(cycle uint64) {
	level := r.signal()
	if n := len(r.edges); n == 0 || r.edges[n-1].Level != level {
		r.edges = append(r.edges, Edge{Cycle: cycle, Level: level})
	}
	r.end = cycle
}

// Edges gets the recorded edges.
func (r *Recorder) Edges() []Edge {
	return r.edges
}

// Empty indicates nothing was recorded.
func (r *Recorder) Empty() bool {
	return len(r.edges) == 0
}

// End gets the last recorded cycle.
func (r *Recorder) End() uint64 {
	return r.end
}

// Reset discards the recording.
func (r *Recorder) Reset() {
	r.edges, r.end = nil, 0
}

// Level gets the level at cycle. Before the first recorded cycle it is the
// initial level, after the last one it is the last level.
func (r *Recorder) Level(cycle uint64) bool {
	if len(r.edges) == 0 {
		return false
	}
	n := sort.Search(len(r.edges), func(i int) bool {
		return r.edges[i].Cycle > cycle
	})
	if n == 0 {
		return r.edges[0].Level
	}
	return r.edges[n-1].Level
}

// Sample gets n levels taken period cycles apart, starting at start.
func (r *Recorder) Sample(start, period uint64, n int) []bool {
	levels := make([]bool, n)
	for i := range levels {
		levels[i] = r.Level(start + uint64(i)*period)
	}
	return levels
}

// FirstFall finds the first falling edge at or after cycle.
func (r *Recorder) FirstFall(cycle uint64) (uint64, bool) {
	for n, e := range r.edges {
		if n > 0 && !e.Level && e.Cycle >= cycle {
			return e.Cycle, true
		}
	}
	return 0, false
}
