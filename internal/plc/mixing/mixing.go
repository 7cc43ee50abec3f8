// Package mixing simulates the battery slurry batch line: four supply tanks
// dosed into a mixer, a timed mix with temperature and pressure control, and
// a transfer into the quality-check tank.
package mixing

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/reyesjorge76/jr-portfolio/internal/sim"
)

// Phase is the batch process step.
type Phase string

const (
	Idle     Phase = "idle"
	Loading  Phase = "loading"
	Mixing   Phase = "mixing"
	Transfer Phase = "transfer"
	Done     Phase = "done"
)

// Label is the HMI status text for the phase.
func (p Phase) Label() string {
	switch p {
	case Loading:
		return "Loading"
	case Mixing:
		return "Mixing"
	case Transfer:
		return "Transferring to QC"
	case Done:
		return "Done"
	default:
		return "Idle"
	}
}

// Active reports whether a batch is in progress.
func (p Phase) Active() bool {
	return p == Loading || p == Mixing || p == Transfer
}

const (
	loadingSteps     = 40
	loadingInterval  = 2 * time.Second / loadingSteps
	transferSteps    = 80
	transferInterval = 4 * time.Second / transferSteps
	sensorInterval   = 200 * time.Millisecond
	mixInterval      = time.Second

	AmbientTemperature = 22.0
	AmbientPressure    = 1.0

	// QualityPassLevel is the quality tank level above which the QC lamp is green.
	QualityPassLevel = 60.0
)

var (
	ErrInsufficientMaterial = errors.New("not enough material in one or more tanks")
	ErrBusy                 = errors.New("batch already in progress")
)

// TankNames labels the four supply tanks in order.
var TankNames = [4]string{"Raw Mat A", "Raw Mat B", "Raw Mat C", "Powder D"}

// DefaultSources are the supply levels restored by Reset.
var DefaultSources = [4]float64{85, 75, 65, 55}

const defaultQuality = 20.0

// Recipe is the operator-entered batch definition.
type Recipe struct {
	Weights     [4]float64 `json:"weights" mapstructure:"weights"`
	MixTime     int        `json:"mix_time" mapstructure:"mix_time"`
	Temperature float64    `json:"temperature" mapstructure:"temperature"`
	Pressure    float64    `json:"pressure" mapstructure:"pressure"`
}

// DefaultRecipe is the recipe shown when the HMI opens.
func DefaultRecipe() Recipe {
	return Recipe{
		Weights:     [4]float64{20, 20, 10, 10},
		MixTime:     45,
		Temperature: 25,
		Pressure:    2.5,
	}
}

func (r Recipe) normalize() Recipe {
	for i, w := range r.Weights {
		r.Weights[i] = math.Max(0, w)
	}
	r.MixTime = max(1, min(120, r.MixTime))
	r.Temperature = math.Max(0, r.Temperature)
	r.Pressure = math.Max(0, r.Pressure)
	return r
}

// Levels are tank fill percentages in [0,100].
type Levels struct {
	Sources [4]float64 `json:"sources"`
	Mixer   float64    `json:"mixer"`
	Quality float64    `json:"quality"`
}

func defaultLevels() Levels {
	return Levels{Sources: DefaultSources, Quality: defaultQuality}
}

// Machine is one mixing line. It is not safe for concurrent use.
type Machine struct {
	phase  Phase
	recipe Recipe
	levels Levels

	batch   [4]float64
	mixLeft int

	temperature float64
	pressure    float64

	stepTimer   sim.Timer
	sensorTimer sim.Timer
	mixTimer    sim.Timer
	steps       int

	start    Levels
	dispense [4]float64

	rng *rand.Rand
}

// New returns an idle line with default levels and recipe.
func New(rng *rand.Rand) *Machine {
	m := &Machine{
		recipe:      DefaultRecipe(),
		rng:         rng,
		sensorTimer: sim.NewTimer(sensorInterval),
		mixTimer:    sim.NewTimer(mixInterval),
	}
	m.Reset()
	return m
}

// Phase returns the current process step.
func (m *Machine) Phase() Phase { return m.phase }

// Levels returns the current tank levels.
func (m *Machine) Levels() Levels { return m.levels }

// Recipe returns the active recipe.
func (m *Machine) Recipe() Recipe { return m.recipe }

// SetRecipe stores a normalized copy of r and returns it. A running batch
// keeps the amounts it already dispensed; the mix time and targets apply to
// the next Start.
func (m *Machine) SetRecipe(r Recipe) Recipe {
	m.recipe = r.normalize()
	return m.recipe
}

// Start begins a batch from idle or done.
func (m *Machine) Start() error {
	if m.phase.Active() {
		return ErrBusy
	}
	for i, w := range m.recipe.Weights {
		if m.levels.Sources[i] < w {
			return ErrInsufficientMaterial
		}
	}
	m.enterLoading()
	return nil
}

// Stop aborts an active batch, leaving levels where they are.
func (m *Machine) Stop() {
	if m.phase.Active() {
		m.phase = Idle
		m.settle()
	}
}

// Reset returns the line to idle with refilled supply tanks and an empty mixer.
func (m *Machine) Reset() {
	m.phase = Idle
	m.mixLeft = 0
	m.batch = [4]float64{}
	m.levels = defaultLevels()
	m.settle()
}

// Step advances the line by dt.
func (m *Machine) Step(dt time.Duration) {
	switch m.phase {
	case Loading:
		for n := m.stepTimer.Advance(dt); n > 0 && m.phase == Loading; n-- {
			m.loadStep()
		}
	case Mixing:
		for n := m.sensorTimer.Advance(dt); n > 0; n-- {
			m.temperature = ramp(m.temperature, m.recipe.Temperature, AmbientTemperature, 0.05, 0.02, 0.03, 0.08, m.jitter)
			m.pressure = math.Max(0, ramp(m.pressure, m.recipe.Pressure, AmbientPressure, 0.01, 0.01, 0.01, 0.04, m.jitter))
		}
		for n := m.mixTimer.Advance(dt); n > 0 && m.phase == Mixing; n-- {
			if m.mixLeft <= 1 {
				m.mixLeft = 0
				m.enterTransfer()
				break
			}
			m.mixLeft--
		}
	case Transfer:
		for n := m.stepTimer.Advance(dt); n > 0 && m.phase == Transfer; n-- {
			m.transferStep()
		}
	}
}

func (m *Machine) enterLoading() {
	m.phase = Loading
	m.start = m.levels
	for i, w := range m.recipe.Weights {
		m.dispense[i] = math.Min(w, m.start.Sources[i])
	}
	m.steps = 0
	m.stepTimer = sim.NewTimer(loadingInterval)
}

func (m *Machine) loadStep() {
	m.steps++
	p := math.Min(float64(m.steps)/loadingSteps, 1)

	var total float64
	for i, d := range m.dispense {
		m.levels.Sources[i] = math.Max(0, m.start.Sources[i]-d*p)
		total += d
	}
	m.levels.Mixer = math.Min(100, m.start.Mixer+total*p)

	if m.steps >= loadingSteps {
		m.batch = m.dispense
		m.mixLeft = m.recipe.MixTime
		m.phase = Mixing
		m.sensorTimer.Reset()
		m.mixTimer.Reset()
	}
}

func (m *Machine) enterTransfer() {
	m.phase = Transfer
	m.settle()
	m.start = m.levels
	m.steps = 0
	m.stepTimer = sim.NewTimer(transferInterval)
}

func (m *Machine) transferStep() {
	m.steps++
	p := math.Min(float64(m.steps)/transferSteps, 1)
	m.levels.Mixer = math.Max(0, m.start.Mixer*(1-p))
	m.levels.Quality = math.Min(100, m.start.Quality+m.start.Mixer*p)
	if m.steps >= transferSteps {
		m.phase = Done
	}
}

// settle puts the process values back at ambient; they only move while mixing.
func (m *Machine) settle() {
	m.temperature = AmbientTemperature
	m.pressure = AmbientPressure
	m.sensorTimer.Reset()
	m.mixTimer.Reset()
}

func (m *Machine) jitter(width float64) float64 {
	if m.rng == nil {
		return 0
	}
	return (m.rng.Float64() - 0.5) * width
}

// ramp moves v toward target so it arrives in about 40 samples, then holds it
// in a jitter band around the target. Values only ramp upward: a target at or
// below v is reached on the first sample.
func ramp(v, target, ambient, eps, minStep, rampJitter, holdJitter float64, jitter func(float64) float64) float64 {
	if v >= target-eps {
		return sim.Round2(target + jitter(holdJitter))
	}
	step := math.Max(minStep, (target-ambient)/40)
	next := math.Min(target, v+step+jitter(rampJitter))
	return sim.Round2(next)
}

// Snapshot is the HMI view of the line.
type Snapshot struct {
	Phase       Phase      `json:"phase"`
	Status      string     `json:"status"`
	Levels      Levels     `json:"levels"`
	Recipe      Recipe     `json:"recipe"`
	Batch       [4]float64 `json:"batch"`
	MixTimeLeft int        `json:"mix_time_left"`
	Temperature float64    `json:"temperature"`
	Pressure    float64    `json:"pressure"`
	SourcePumps bool       `json:"source_pumps"`
	QualityPump bool       `json:"quality_pump"`
	QualityPass bool       `json:"quality_pass"`
}

// Snapshot captures the current state.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Phase:       m.phase,
		Status:      m.phase.Label(),
		Levels:      m.levels,
		Recipe:      m.recipe,
		Batch:       m.batch,
		MixTimeLeft: m.mixLeft,
		Temperature: m.temperature,
		Pressure:    m.pressure,
		SourcePumps: m.phase == Loading,
		QualityPump: m.phase == Transfer,
		QualityPass: m.levels.Quality > QualityPassLevel,
	}
}
