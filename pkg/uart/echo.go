package uart

// Echo retransmits every byte received on RxD onto TxD.
type Echo struct {
	RxD bool
	TxD bool

	rx *Rx
	tx *BufferedTx
}

// NewEcho creates an Echo.
func NewEcho(t Timing) *Echo {
	return &Echo{RxD: true, TxD: true, rx: NewRx(t), tx: NewBufferedTx(t)}
}

// Rx gets the receiver.
func (e *Echo) Rx() *Rx {
	return e.rx
}

// Tx gets the buffered transmitter.
func (e *Echo) Tx() *BufferedTx {
	return e.tx
}

// Drive implements Module.
func (e *Echo) Drive() {
	e.rx.Drive()
	e.tx.Drive()
	Connect(&e.rx.Out, &e.tx.In)
	e.TxD = e.tx.TxD
}

// Update implements Module.
func (e *Echo) Update() {
	e.rx.RxD = e.RxD
	e.rx.Update()
	e.tx.Update()
}
