package uart

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
)

// Greeting is the text repeated by a Top in ModeSender.
const Greeting = "0123456789"

// Mode selects what a Top puts on its TxD.
type Mode int

// Modes.
const (
	// ModeSender repeats Greeting.
	ModeSender Mode = iota
	// ModeEcho retransmits bytes received on RxD.
	ModeEcho
)

var modeNames = map[Mode]string{
	ModeSender: "sender",
	ModeEcho:   "echo",
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses the name of a Mode.
func ParseMode(s string) (Mode, error) {
	for mode, name := range modeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Top is a complete transceiver: a Sender or an Echo, plus a heartbeat.
type Top struct {
	RxD bool
	TxD bool
	LED bool

	mode      Mode
	timing    Timing
	serial    Module
	sender    *Sender
	echo      *Echo
	heartbeat *Heartbeat
}

// NewTop creates a Top. The config is validated here and nowhere else.
func NewTop(conf Config, mode Mode) (*Top, error) {
	timing, err := conf.Timing()
	if err != nil {
		return nil, err
	}
	t := &Top{
		RxD:       true,
		TxD:       true,
		mode:      mode,
		timing:    timing,
		heartbeat: NewHeartbeat(conf.ClockFrequency),
	}
	switch mode {
	case ModeSender:
		t.sender = NewSender(timing, []byte(Greeting))
		t.serial = t.sender
	case ModeEcho:
		t.echo = NewEcho(timing)
		t.serial = t.echo
	default:
		return nil, fmt.Errorf("unknown mode %v", mode)
	}
	glog.V(2).Infof("uart: %v mode, clock %d Hz, baud %d, bit %d ticks, start %d ticks",
		mode, conf.ClockFrequency, conf.BaudRate, timing.BitPeriod(), uint64(timing.StartCnt)+1)
	return t, nil
}

// Mode gets the mode.
func (t *Top) Mode() Mode {
	return t.mode
}

// Timing gets the derived timing.
func (t *Top) Timing() Timing {
	return t.timing
}

// Sender gets the sender, nil in ModeEcho.
func (t *Top) Sender() *Sender {
	return t.sender
}

// Echo gets the echo, nil in ModeSender.
func (t *Top) Echo() *Echo {
	return t.echo
}

// Heartbeat gets the heartbeat.
func (t *Top) Heartbeat() *Heartbeat {
	return t.heartbeat
}

// Drive implements Module.
func (t *Top) Drive() {
	t.serial.Drive()
	t.heartbeat.Drive()
	if t.sender != nil {
		t.TxD = t.sender.TxD
	} else {
		t.TxD = t.echo.TxD
	}
	t.LED = t.heartbeat.LED
}

// Update implements Module.
func (t *Top) Update() {
	if t.echo != nil {
		t.echo.RxD = t.RxD
	}
	t.serial.Update()
	t.heartbeat.Update()
}
