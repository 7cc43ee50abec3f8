// Package plc is the HMI control panel shared by the automation demos: a
// run/stop state, operator parameters, a ladder diagram and the simulated
// process behind it.
package plc

import (
	"math"
	"time"

	"github.com/reyesjorge76/jr-portfolio/internal/plc/conveyor"
	"github.com/reyesjorge76/jr-portfolio/internal/plc/mixing"
	"github.com/reyesjorge76/jr-portfolio/internal/plc/robot"
	"github.com/reyesjorge76/jr-portfolio/internal/sim"
)

// MaxSpeed is the top of the HMI speed slider.
const MaxSpeed = 25

// Parameters are the operator inputs on the panel.
type Parameters struct {
	Speed          float64 `json:"speed" mapstructure:"speed"`
	Temperature    float64 `json:"temperature" mapstructure:"temperature"`
	Pressure       float64 `json:"pressure" mapstructure:"pressure"`
	Recipe         string  `json:"recipe" mapstructure:"recipe"`
	PartsPerSecond int     `json:"parts_per_second" mapstructure:"parts_per_second"`
}

// DefaultParameters are the panel values when a demo opens.
func DefaultParameters() Parameters {
	return Parameters{
		Speed:          25,
		Temperature:    25,
		Pressure:       2.5,
		Recipe:         "6",
		PartsPerSecond: 1,
	}
}

func (p Parameters) normalize() Parameters {
	p.Speed = sim.Clamp(p.Speed, 0, MaxSpeed)
	p.Temperature = math.Max(0, p.Temperature)
	p.Pressure = math.Max(0, p.Pressure)
	p.PartsPerSecond = max(1, min(conveyor.MaxPartsPerSecond, p.PartsPerSecond))
	return p
}

// System is a simulated process the panel controls.
type System interface {
	sim.Stepper
	Start() error
	Stop()
	Reset()
	Configure(Parameters)
	View() any
}

// Panel is one open automation demo. It is not safe for concurrent use.
type Panel struct {
	running bool
	params  Parameters
	ladder  *Ladder
	system  System
}

// NewPanel wraps sys with default parameters.
func NewPanel(sys System) *Panel {
	p := &Panel{ladder: NewLadder(), system: sys}
	p.SetParameters(DefaultParameters())
	return p
}

// System exposes the controlled process.
func (p *Panel) System() System { return p.system }

// Running reports whether the program is running.
func (p *Panel) Running() bool { return p.running }

// Parameters returns the current operator inputs.
func (p *Panel) Parameters() Parameters { return p.params }

// Start runs the program. If the process refuses to start the panel keeps its
// previous state.
func (p *Panel) Start() error {
	if err := p.system.Start(); err != nil {
		return err
	}
	if !p.running {
		p.running = true
		p.ladder.Energize()
	}
	return nil
}

// Stop halts the program.
func (p *Panel) Stop() {
	p.running = false
	p.ladder.Deenergize()
	p.system.Stop()
}

// Reset stops the program and resets the process.
func (p *Panel) Reset() {
	p.Stop()
	p.system.Reset()
}

// SetParameters applies normalized operator inputs and returns them.
func (p *Panel) SetParameters(params Parameters) Parameters {
	p.params = params.normalize()
	p.system.Configure(p.params)
	return p.params
}

// finisher is a System whose program ends on its own.
type finisher interface {
	Finished() bool
}

// Step advances ladder and process. A process that finishes its program
// stops the panel.
func (p *Panel) Step(dt time.Duration) {
	if p.running {
		p.ladder.Step(dt)
	}
	p.system.Step(dt)
	if f, ok := p.system.(finisher); ok && p.running && f.Finished() {
		p.running = false
		p.ladder.Deenergize()
	}
}

// Snapshot is the full panel view.
type Snapshot struct {
	Running    bool       `json:"running"`
	Parameters Parameters `json:"parameters"`
	Ladder     []Rung     `json:"ladder"`
	System     any        `json:"system"`
}

// Snapshot captures the panel and its process.
func (p *Panel) Snapshot() Snapshot {
	return Snapshot{
		Running:    p.running,
		Parameters: p.params,
		Ladder:     p.ladder.Rungs(),
		System:     p.system.View(),
	}
}

// Mixing adapts the batch line to the panel.
type Mixing struct{ *mixing.Machine }

func (m Mixing) Configure(p Parameters) {
	r := m.Recipe()
	r.Temperature = p.Temperature
	r.Pressure = p.Pressure
	m.SetRecipe(r)
}

func (m Mixing) View() any { return m.Machine.Snapshot() }

// Finished reports a completed batch.
func (m Mixing) Finished() bool { return m.Phase() == mixing.Done }

// Conveyor adapts the sorting line to the panel.
type Conveyor struct {
	*conveyor.Sorter
	Layout conveyor.Layout
}

func (c Conveyor) Configure(p Parameters) {
	c.SetSpeed(p.Speed)
	c.SetPartsPerSecond(p.PartsPerSecond)
}

func (c Conveyor) View() any { return c.Sorter.Snapshot(c.Layout) }

// Robot adapts the pick-and-place cell to the panel.
type Robot struct{ *robot.Cell }

func (r Robot) Configure(p Parameters) {
	r.SetSpeed(p.Speed)
	if n := robot.ParsePalletSize(p.Recipe); n != r.PalletSize() {
		r.SetPalletSize(n)
	}
}

func (r Robot) View() any { return r.Cell.Snapshot() }
