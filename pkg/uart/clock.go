package uart

// Module is a synchronous component advanced one tick at a time.
type Module interface {
	// Drive sets the output ports from the current registers.
	Drive()
	// Update latches the next registers from the current registers and
	// the input ports.
	Update()
}

// Probe observes the root module once per tick, after outputs are driven
// and before registers are updated.
type Probe interface {
	Probe(cycle uint64)
}

// ProbeFunc is the func form of Probe.
type ProbeFunc func(cycle uint64)

// Probe implements Probe.
func (f ProbeFunc) Probe(cycle uint64) {
	f(cycle)
}

// Clock advances a root Module. Between steps the ports of every module
// reflect the current registers, so callers may read outputs and set inputs
// before the next Step.
type Clock struct {
	root   Module
	cycle  uint64
	probes []Probe
}

// NewClock creates a Clock and drives the initial outputs of root.
func NewClock(root Module) *Clock {
	root.Drive()
	return &Clock{root: root}
}

// AddProbe registers probes.
func (c *Clock) AddProbe(probes ...Probe) *Clock {
	c.probes = append(c.probes, probes...)
	return c
}

// Cycle gets the number of the current tick.
func (c *Clock) Cycle() uint64 {
	return c.cycle
}

// Step completes the current tick.
func (c *Clock) Step() {
	for _, p := range c.probes {
		p.Probe(c.cycle)
	}
	c.root.Update()
	c.cycle++
	c.root.Drive()
}

// Run steps n ticks.
func (c *Clock) Run(n uint64) {
	for ; n > 0; n-- {
		c.Step()
	}
}

// RunUntil steps until cond holds, checking it before each step, or until
// limit ticks have passed. It returns the number of ticks stepped and
// whether cond was met.
func (c *Clock) RunUntil(cond func() bool, limit uint64) (uint64, bool) {
	for n := uint64(0); n < limit; n++ {
		if cond() {
			return n, true
		}
		c.Step()
	}
	return limit, cond()
}

// Group advances modules side by side. Wire runs after every member has
// driven its outputs, and is where members' inputs get connected.
type Group struct {
	Modules []Module
	Wire    func()
}

// NewGroup creates a Group.
func NewGroup(wire func(), modules ...Module) *Group {
	return &Group{Modules: modules, Wire: wire}
}

// Drive implements Module.
func (g *Group) Drive() {
	for _, m := range g.Modules {
		m.Drive()
	}
	if w := g.Wire; w != nil {
		w()
	}
}

// Update implements Module.
func (g *Group) Update() {
	for _, m := range g.Modules {
		m.Update()
	}
}
