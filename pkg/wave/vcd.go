package wave

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// Timebase maps cycles to VCD time: one cycle lasts Scale units of Unit.
// Unit is a legal VCD timescale, 1, 10 or 100 of s, ms, us, ns or ps.
type Timebase struct {
	Unit  string
	Scale uint64
}

// WriteVCD writes the recordings as a Value Change Dump.
func WriteVCD(w io.Writer, tb Timebase, recorders ...*Recorder) error {
	scale := tb.Scale
	if scale == 0 {
		scale = 1
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "$timescale %s $end\n", tb.Unit)
	fmt.Fprintln(bw, "$scope module top $end")
	for n, r := range recorders {
		fmt.Fprintf(bw, "$var wire 1 %s %s $end\n", vcdID(n), r.Name)
	}
	fmt.Fprintln(bw, "$upscope $end")
	fmt.Fprintln(bw, "$enddefinitions $end")

	type change struct {
		Edge
		id string
	}
	var changes []change
	for n, r := range recorders {
		for _, e := range r.edges {
			changes = append(changes, change{Edge: e, id: vcdID(n)})
		}
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Cycle < changes[j].Cycle
	})
	for n, c := range changes {
		if n == 0 || changes[n-1].Cycle != c.Cycle {
			fmt.Fprintf(bw, "#%d\n", c.Cycle*scale)
		}
		level := '0'
		if c.Level {
			level = '1'
		}
		fmt.Fprintf(bw, "%c%s\n", level, c.id)
	}
	return bw.Flush()
}

var vcdUnits = []struct {
	name string
	ps   uint64
}{
	{"1 s", 1e12}, {"100 ms", 1e11}, {"10 ms", 1e10},
	{"1 ms", 1e9}, {"100 us", 1e8}, {"10 us", 1e7},
	{"1 us", 1e6}, {"100 ns", 1e5}, {"10 ns", 1e4},
	{"1 ns", 1e3}, {"100 ps", 100}, {"10 ps", 10},
	{"1 ps", 1},
}

// ClockTimebase gets the Timebase of a clock at clockFrequency Hz, with the
// period rounded to picoseconds and the largest unit dividing it.
func ClockTimebase(clockFrequency uint32) Timebase {
	if clockFrequency == 0 {
		return Timebase{Unit: "1 s", Scale: 1}
	}
	ps := (uint64(1e12) + uint64(clockFrequency)/2) / uint64(clockFrequency)
	for _, u := range vcdUnits {
		if ps%u.ps == 0 {
			return Timebase{Unit: u.name, Scale: ps / u.ps}
		}
	}
	return Timebase{Unit: "1 ps", Scale: ps}
}

// vcdID maps an index to a printable identifier code.
func vcdID(n int) string {
	const first, count = '!', '~' - '!' + 1
	id := []byte{byte(first + n%count)}
	for n /= count; n > 0; n /= count {
		id = append(id, byte(first+n%count))
	}
	return string(id)
}
