package uart

// Heartbeat toggles LED every quarter of the clock frequency in ticks.
type Heartbeat struct {
	LED bool

	max uint32
	cnt uint32
	on  bool
}

// NewHeartbeat creates a Heartbeat for the clock frequency.
func NewHeartbeat(clockFrequency uint32) *Heartbeat {
	h := &Heartbeat{}
	if period := clockFrequency / 4; period > 0 {
		h.max = period - 1
	}
	return h
}

// Period gets the number of ticks between toggles.
func (h *Heartbeat) Period() uint64 {
	return uint64(h.max) + 1
}

// Drive implements Module.
func (h *Heartbeat) Drive() {
	h.LED = h.on
}

// Update implements Module.
func (h *Heartbeat) Update() {
	if h.cnt == h.max {
		h.cnt, h.on = 0, !h.on
	} else {
		h.cnt++
	}
}
