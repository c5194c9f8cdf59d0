package uart

// fastConfig gives a 10 tick bit period.
var fastConfig = Config{ClockFrequency: 1000, BaudRate: 100}

// boardConfig is a 50 MHz board talking at 115200 baud.
var boardConfig = Config{ClockFrequency: 50000000, BaudRate: 115200}

// lineMonitor decodes a line, always ready to take the next byte.
type lineMonitor struct {
	*Rx
	Bytes []byte
}

func newLineMonitor(t Timing) *lineMonitor {
	return &lineMonitor{Rx: NewRx(t)}
}

func (m *lineMonitor) Drive() {
	m.Rx.Drive()
	m.Out.Ready = true
	if m.Out.Fire() {
		m.Bytes = append(m.Bytes, m.Out.Data)
	}
}

// byteSource produces data on a consumer port, one byte per handshake.
type byteSource struct {
	ch   *Channel
	data []byte
	sent int
}

func newByteSource(ch *Channel, data ...byte) *byteSource {
	return &byteSource{ch: ch, data: data}
}

func (s *byteSource) Drive() {
	if s.ch.Valid = s.sent < len(s.data); s.ch.Valid {
		s.ch.Data = s.data[s.sent]
	}
}

func (s *byteSource) Update() {
	if s.ch.Fire() {
		s.sent++
	}
}

func (s *byteSource) done() bool {
	return s.sent >= len(s.data)
}

func allBytes() []byte {
	b := make([]byte, 256)
	for n := range b {
		b[n] = byte(n)
	}
	return b
}

func levels(bits ...int) []bool {
	l := make([]bool, len(bits))
	for n, b := range bits {
		l[n] = b != 0
	}
	return l
}
