package sh

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/uart.go/pkg/device"
	"github.com/robotalks/uart.go/pkg/uart"
	"github.com/robotalks/uart.go/pkg/wave"
)

// Shell provides ishell backed interactive shell over a Device stepped
// by commands.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *device.Config
	Device *device.Device

	tracing bool
	traces  []*wave.Recorder
}

// Status is printed by the status command.
type Status struct {
	Mode     string `json:"mode"`
	BitTicks uint64 `json:"bit_ticks"`
	LED      bool   `json:"led"`
	Tracing  bool   `json:"tracing"`
	device.Stats
}

// Received is printed by the recv command in JSON.
type Received struct {
	Text string `json:"text"`
	Hex  string `json:"hex"`
}

const shellKey = "$shell"

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&SendCmd,
		&SendHexCmd,
		&RunCmd,
		&RunBitsCmd,
		&RecvCmd,
		&StatusCmd,
		&TraceCmd,
		&VCDCmd,
		&ResetCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *device.Config) (*Shell, error) {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Reset creates a new Device from Config. Recorded traces are discarded.
func (s *Shell) Reset() error {
	d, err := s.Config.NewDevice()
	if err != nil {
		return err
	}
	top := d.Top()
	s.traces = []*wave.Recorder{
		wave.NewRecorder("rxd", func() bool { return top.RxD }),
		wave.NewRecorder("txd", func() bool { return top.TxD }),
		wave.NewRecorder("led", func() bool { return top.LED }),
	}
	d.Clock().AddProbe(uart.ProbeFunc(func(cycle uint64) {
		if s.tracing {
			for _, r := range s.traces {
				r.Probe(cycle)
			}
		}
	}))
	s.Device = d
	if s.Shell != nil {
		s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", top.Mode()))
	}
	return nil
}

// Send puts data on the device RxD and runs until it is on the line and
// two more frames have passed.
func (s *Shell) Send(data []byte) error {
	s.Device.Write(data)
	bits := uint64(s.Device.Pending()+1) * uart.FrameBits * 2
	if !s.Device.WaitSent(bits * s.Device.Top().Timing().BitPeriod()) {
		return fmt.Errorf("line busy, %d bytes pending", s.Device.Pending())
	}
	s.Device.RunBits(uart.FrameBits * 2)
	return nil
}

// Recv takes all decoded bytes.
func (s *Shell) Recv() []byte {
	data := make([]byte, s.Device.Buffered())
	n, _ := s.Device.Read(data)
	return data[:n]
}

// Status gets the status of the device.
func (s *Shell) Status() Status {
	top := s.Device.Top()
	return Status{
		Mode:     top.Mode().String(),
		BitTicks: top.Timing().BitPeriod(),
		LED:      top.LED,
		Tracing:  s.tracing,
		Stats:    s.Device.Stats(),
	}
}

// SetTrace starts or stops recording the device pins. Starting discards
// the previous recording.
func (s *Shell) SetTrace(on bool) {
	if on && !s.tracing {
		for _, r := range s.traces {
			r.Reset()
		}
	}
	s.tracing = on
}

// WriteVCD dumps the recorded pins to a file.
func (s *Shell) WriteVCD(fn string) (err error) {
	if s.traces[0].Empty() {
		return fmt.Errorf("nothing traced")
	}
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); err == nil {
			err = e
		}
	}()
	return wave.WriteVCD(f, wave.ClockTimebase(s.Device.Config().ClockFrequency), s.traces...)
}

// Print prints v as JSON with -json, or text otherwise.
func (s *Shell) Print(c *ishell.Context, v interface{}, text string) {
	if !s.OutputJSON {
		c.Println(text)
		return
	}
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}

// ParseHex parses bytes written in hex, separated or not, with optional
// 0x prefixes.
func ParseHex(args []string) ([]byte, error) {
	var w strings.Builder
	for _, arg := range args {
		for _, tok := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ':' }) {
			tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
			if len(tok)%2 != 0 {
				tok = "0" + tok
			}
			w.WriteString(tok)
		}
	}
	return hex.DecodeString(w.String())
}

// ParseCount parses a positive count.
func ParseCount(args []string, what string) (uint64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", what, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%s must be positive", what)
	}
	return n, nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Exit(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Exit("command expected")
}

var (
	// SendCmd sends text to the device.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "TEXT",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("TEXT required"))
				return
			}
			if err := ShellFrom(c).Send([]byte(strings.Join(c.Args, " "))); err != nil {
				c.Err(err)
			}
		},
	}

	// SendHexCmd sends bytes in hex to the device.
	SendHexCmd = ishell.Cmd{
		Name:    "sendhex",
		Aliases: []string{"sx"},
		Help:    "HEX...",
		Func: func(c *ishell.Context) {
			data, err := ParseHex(c.Args)
			if err == nil && len(data) == 0 {
				err = fmt.Errorf("HEX required")
			}
			if err != nil {
				c.Err(err)
				return
			}
			if err := ShellFrom(c).Send(data); err != nil {
				c.Err(err)
			}
		},
	}

	// RunCmd advances ticks.
	RunCmd = ishell.Cmd{
		Name:    "run",
		Aliases: []string{"r"},
		Help:    "TICKS",
		Func: func(c *ishell.Context) {
			n, err := ParseCount(c.Args, "TICKS")
			if err != nil {
				c.Err(err)
				return
			}
			s := ShellFrom(c)
			s.Device.Step(n)
			s.Print(c, s.Status(), fmt.Sprintf("cycle %d", s.Device.Clock().Cycle()))
		},
	}

	// RunBitsCmd advances bit periods.
	RunBitsCmd = ishell.Cmd{
		Name:    "runbits",
		Aliases: []string{"rb"},
		Help:    "BITS",
		Func: func(c *ishell.Context) {
			n, err := ParseCount(c.Args, "BITS")
			if err != nil {
				c.Err(err)
				return
			}
			s := ShellFrom(c)
			s.Device.RunBits(n)
			s.Print(c, s.Status(), fmt.Sprintf("cycle %d", s.Device.Clock().Cycle()))
		},
	}

	// RecvCmd prints decoded bytes.
	RecvCmd = ishell.Cmd{
		Name:    "recv",
		Aliases: []string{"rx"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			data := s.Recv()
			s.Print(c, Received{Text: string(data), Hex: hex.EncodeToString(data)}, strconv.Quote(string(data)))
		},
	}

	// StatusCmd prints device status.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			st := s.Status()
			s.Print(c, st, fmt.Sprintf("%s cycle=%d bit=%d led=%v in=%d out=%d heartbeats=%d pending=%d buffered=%d tracing=%v",
				st.Mode, st.Cycles, st.BitTicks, st.LED, st.BytesIn, st.BytesOut,
				st.Heartbeats, st.Pending, st.Buffered, st.Tracing))
		},
	}

	// TraceCmd turns recording of pins on or off.
	TraceCmd = ishell.Cmd{
		Name: "trace",
		Help: "on|off",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("on or off required"))
				return
			}
			switch strings.ToLower(c.Args[0]) {
			case "on":
				ShellFrom(c).SetTrace(true)
			case "off":
				ShellFrom(c).SetTrace(false)
			default:
				c.Err(fmt.Errorf("invalid %q, on or off expected", c.Args[0]))
			}
		},
	}

	// VCDCmd dumps traced pins.
	VCDCmd = ishell.Cmd{
		Name: "vcd",
		Help: "FILE",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("FILE required"))
				return
			}
			if err := ShellFrom(c).WriteVCD(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// ResetCmd recreates the device, optionally in another mode.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "[MODE]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				if _, err := uart.ParseMode(c.Args[0]); err != nil {
					c.Err(err)
					return
				}
				s.Config.Mode = c.Args[0]
			}
			if err := s.Reset(); err != nil {
				c.Err(err)
			}
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	s, err := New(device.NewConfig())
	if err != nil {
		glog.Exit(err)
	}
	s.Run(flag.Args()...)
}
