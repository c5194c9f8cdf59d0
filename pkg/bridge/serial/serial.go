// Package serial bridges a simulated device to a host serial port.
package serial

import (
	"fmt"
	"io"

	bugst "go.bug.st/serial"

	"github.com/robotalks/uart.go/pkg/bridge"
)

// Mode gets the port mode matching the frame a device puts on TxD: 8 data
// bits, no parity, two stop bits.
func Mode(baudRate int) *bugst.Mode {
	return &bugst.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.TwoStopBits,
	}
}

// Ports lists the serial ports of the host.
func Ports() ([]string, error) {
	return bugst.GetPortsList()
}

// Open opens a host serial port as a Bridge.
func Open(name string, baudRate int) (*bridge.Bridge, error) {
	port, err := bugst.Open(name, Mode(baudRate))
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	return bridge.New("serial:"+name, &Port{Port: port}), nil
}

// Port reports a zero length read, which the port returns once closed, as
// io.EOF.
type Port struct {
	bugst.Port
}

// Read implements io.Reader.
func (p *Port) Read(b []byte) (int, error) {
	n, err := p.Port.Read(b)
	if n == 0 && err == nil && len(b) > 0 {
		return 0, io.EOF
	}
	return n, err
}
