package uart

const (
	// FrameBits is the number of bits in a frame: start, 8 data, 2 stop.
	FrameBits = 11

	idleFrame uint16 = 1<<FrameBits - 1
	stopBits  uint16 = 3 << 9
)

// Frame returns the bits of b as they appear on the line, start bit first.
func Frame(b uint8) []bool {
	bits := make([]bool, FrameBits)
	f := stopBits | uint16(b)<<1
	for n := range bits {
		bits[n] = f&(1<<uint(n)) != 0
	}
	return bits
}

// Tx serializes bytes accepted from In onto TxD.
type Tx struct {
	In  Channel
	TxD bool

	bitCnt uint32
	frame  uint16
	cnt    uint32
	bits   uint8
}

// NewTx creates a Tx with an idle line.
func NewTx(t Timing) *Tx {
	return &Tx{bitCnt: t.BitCnt, frame: idleFrame, TxD: true}
}

// Bits gets the number of frame bits left to shift out.
func (t *Tx) Bits() int {
	return int(t.bits)
}

// Idle indicates no frame is in progress.
func (t *Tx) Idle() bool {
	return t.bits == 0
}

// Drive implements Module.
func (t *Tx) Drive() {
	t.In.Ready = t.cnt == 0 && t.bits == 0
	t.TxD = t.frame&1 != 0
}

// Update implements Module.
func (t *Tx) Update() {
	if t.cnt != 0 {
		t.cnt--
		return
	}
	t.cnt = t.bitCnt
	switch {
	case t.bits != 0:
		t.frame = t.frame>>1 | 1<<(FrameBits-1)
		t.bits--
	case t.In.Valid:
		t.frame = stopBits | uint16(t.In.Data)<<1
		t.bits = FrameBits
	default:
		t.frame = idleFrame
	}
}
