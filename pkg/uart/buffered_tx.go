package uart

// BufferedTx is a Tx behind a one slot Buffer, so a producer can hand off a
// byte while the previous frame is still on the line.
type BufferedTx struct {
	In  Channel
	TxD bool

	buf *Buffer
	tx  *Tx
}

// NewBufferedTx creates a BufferedTx.
func NewBufferedTx(t Timing) *BufferedTx {
	return &BufferedTx{buf: NewBuffer(), tx: NewTx(t), TxD: true}
}

// Buffer gets the internal buffer.
func (b *BufferedTx) Buffer() *Buffer {
	return b.buf
}

// Tx gets the internal transmitter.
func (b *BufferedTx) Tx() *Tx {
	return b.tx
}

// Idle indicates nothing is buffered or on the line.
func (b *BufferedTx) Idle() bool {
	return b.buf.State() == BufferEmpty && b.tx.Idle()
}

// Drive implements Module.
func (b *BufferedTx) Drive() {
	b.buf.Drive()
	b.tx.Drive()
	Connect(&b.buf.Out, &b.tx.In)
	b.In.Ready = b.buf.In.Ready
	b.TxD = b.tx.TxD
}

// Update implements Module.
func (b *BufferedTx) Update() {
	b.buf.In.Data, b.buf.In.Valid = b.In.Data, b.In.Valid
	b.buf.Update()
	b.tx.Update()
}
