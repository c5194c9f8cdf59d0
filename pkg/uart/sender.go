package uart

// Sender streams a fixed byte sequence through a BufferedTx forever.
type Sender struct {
	TxD bool

	text   []byte
	cursor int
	tx     *BufferedTx
}

// NewSender creates a Sender repeating text.
func NewSender(t Timing, text []byte) *Sender {
	return &Sender{
		TxD:  true,
		text: append([]byte(nil), text...),
		tx:   NewBufferedTx(t),
	}
}

// Cursor gets the index of the next byte to send. It equals the text
// length for one handshake between repetitions.
func (s *Sender) Cursor() int {
	return s.cursor
}

// Text gets the repeated text.
func (s *Sender) Text() []byte {
	return s.text
}

// Drive implements Module.
func (s *Sender) Drive() {
	in := &s.tx.In
	if in.Valid = s.cursor != len(s.text); in.Valid {
		in.Data = s.text[s.cursor]
	} else {
		in.Data = 0
	}
	s.tx.Drive()
	s.TxD = s.tx.TxD
}

// Update implements Module.
func (s *Sender) Update() {
	if s.tx.In.Ready {
		if s.cursor != len(s.text) {
			s.cursor++
		} else {
			s.cursor = 0
		}
	}
	s.tx.Update()
}
