package uart

// Rx samples RxD and assembles bytes onto Out.
//
// The line passes through a two register synchronizer before use. After a
// falling edge the first data bit is sampled StartCnt+1 ticks later, near
// its middle, and the following bits one bit period apart. There is no
// framing or parity check: a noise pulse that looks like a start edge
// produces whatever byte is sampled.
//
// Out.Data is the shift register itself. While Out.Valid waits for a
// stalled consumer, a following frame keeps shifting into it, so Data is
// stable only if the consumer takes the byte before the next start edge.
type Rx struct {
	RxD bool
	Out Channel

	bitCnt   uint32
	startCnt uint32
	sync     [2]bool
	shift    uint8
	cnt      uint32
	bits     uint8
	valid    bool
}

// NewRx creates an Rx waiting for a start edge on an idle line.
func NewRx(t Timing) *Rx {
	return &Rx{
		RxD:      true,
		bitCnt:   t.BitCnt,
		startCnt: t.StartCnt,
		sync:     [2]bool{true, true},
	}
}

// Bits gets the number of data bits left to sample.
func (r *Rx) Bits() int {
	return int(r.bits)
}

// Idle indicates Rx is waiting for a start edge.
func (r *Rx) Idle() bool {
	return r.cnt == 0 && r.bits == 0
}

// Drive implements Module.
func (r *Rx) Drive() {
	r.Out.Data = r.shift
	r.Out.Valid = r.valid
}

// Update implements Module.
func (r *Rx) Update() {
	consumed := r.valid && r.Out.Ready
	line := r.sync[1]
	switch {
	case r.cnt != 0:
		r.cnt--
	case r.bits != 0:
		r.cnt = r.bitCnt
		r.shift >>= 1
		if line {
			r.shift |= 0x80
		}
		if r.bits == 1 {
			r.valid = true
		}
		r.bits--
	case !line:
		r.cnt = r.startCnt
		r.bits = 8
	}
	// a byte taken on this tick clears the latch even if the next one just completed.
	if consumed {
		r.valid = false
	}
	r.sync[1], r.sync[0] = r.sync[0], r.RxD
}
