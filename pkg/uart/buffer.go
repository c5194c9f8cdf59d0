package uart

// BufferState is the occupancy of a Buffer.
type BufferState int

// Buffer states.
const (
	BufferEmpty BufferState = iota
	BufferFull
)

// String implements fmt.Stringer.
func (s BufferState) String() string {
	if s == BufferFull {
		return "full"
	}
	return "empty"
}

// Buffer is a one slot elastic store between two channels.
// In.Ready is asserted iff the slot is empty, Out.Valid iff it is full.
type Buffer struct {
	In  Channel
	Out Channel

	state BufferState
	data  uint8
}

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// State gets the occupancy.
func (b *Buffer) State() BufferState {
	return b.state
}

// Full indicates the slot holds a byte.
func (b *Buffer) Full() bool {
	return b.state == BufferFull
}

// Drive implements Module.
func (b *Buffer) Drive() {
	b.In.Ready = b.state == BufferEmpty
	b.Out.Valid = b.state == BufferFull
	b.Out.Data = b.data
}

// Update implements Module.
func (b *Buffer) Update() {
	switch b.state {
	case BufferEmpty:
		if b.In.Valid {
			b.data, b.state = b.In.Data, BufferFull
		}
	case BufferFull:
		if b.Out.Ready {
			b.state = BufferEmpty
		}
	}
}
