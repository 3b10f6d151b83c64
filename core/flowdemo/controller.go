package flowdemo

import (
	"sync"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
)

const (
	DefaultAutoplayInterval = 3 * time.Second
	DefaultPulseDuration    = 2 * time.Second
)

var (
	ErrInvalidStep = errors.New("step must be between 1 and 5")
	ErrClosed      = errors.New("flow demo is closed")
)

type (
	// View receives a Snapshot after every transition.
	// Render is called while the controller is locked: it must not call back into the controller.
	View interface {
		Render(s Snapshot)
	}

	// ViewFunc adapts a function to View.
	ViewFunc func(s Snapshot)

	Options struct {
		AutoplayInterval time.Duration
		PulseDuration    time.Duration
		Scheduler        Scheduler
	}

	// State is the mutable part of a flow demo.
	State struct {
		Persona     Persona `json:"persona"`
		Step        int     `json:"step"`
		Autoplaying bool    `json:"autoplaying"`
	}

	// Snapshot is everything a view needs to draw the flow demo.
	Snapshot struct {
		Persona     Persona          `json:"persona"`
		Step        int              `json:"step"`
		TotalSteps  int              `json:"total_steps"`
		Progress    int              `json:"progress"` // percent
		Reached     [TotalSteps]bool `json:"reached"`  // Reached[i] is step i+1
		Autoplaying bool             `json:"autoplaying"`
		Pulse       int              `json:"pulse"`     // pulsing step, 0 when none
		ScrollTo    int              `json:"scroll_to"` // step to bring into view, 0 when none
		Steps       []StepContent    `json:"steps"`
	}

	// Controller is the flow demo state machine for one page instance.
	Controller struct {
		mu    sync.Mutex
		repo  ContentRepository
		view  View
		sched Scheduler
		opts  Options

		state    State
		steps    []StepContent
		pulse    int
		scrollTo int

		autoplay    Task
		autoplayGen int
		pulseTask   Task
		pulseGen    int
		closed      bool
	}
)

func (f ViewFunc) Render(s Snapshot) { f(s) }

func (o Options) withDefaults() Options {
	if o.AutoplayInterval <= 0 {
		o.AutoplayInterval = DefaultAutoplayInterval
	}
	if o.PulseDuration <= 0 {
		o.PulseDuration = DefaultPulseDuration
	}
	if o.Scheduler == nil {
		o.Scheduler = NewScheduler()
	}
	return o
}

// NewController renders the default persona at step 1 and returns the controller.
func NewController(repo ContentRepository, view View, opts Options) (*Controller, error) {
	if err := vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(view, "view"),
	).Check(); err != nil {
		return nil, err
	}

	opts = opts.withDefaults()
	c := &Controller{
		repo:  repo,
		view:  view,
		sched: opts.Scheduler,
		opts:  opts,
		state: State{Persona: DefaultPersona, Step: 1},
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps, _ = repo.Steps(DefaultPersona)
	c.activateStep(1, false)
	return c, nil
}

// SelectPersona switches the rendered content. Step and autoplay are untouched.
// Unknown personas and personas without content are ignored.
func (c *Controller) SelectPersona(p Persona) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !p.Valid() {
		return
	}
	steps, ok := c.repo.Steps(p)
	if !ok || len(steps) != TotalSteps {
		return
	}
	c.state.Persona = p
	c.steps = steps
	c.render()
}

// ActivateStep moves the demo to step n. It returns ErrInvalidStep, without any change, for n outside [1, 5].
func (c *Controller) ActivateStep(n int) error {
	if !ValidStep(n) {
		return ErrInvalidStep
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.activateStep(n, false)
	return nil
}

// HandleStepClick activates step n unless autoplay is running, in which case the click is ignored.
func (c *Controller) HandleStepClick(n int) error {
	if !ValidStep(n) {
		return ErrInvalidStep
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.state.Autoplaying {
		return nil
	}
	c.activateStep(n, false)
	return nil
}

// StartAutoplay restarts the walk-through at step 1 and advances one step per interval, wrapping after 5.
// Calling it while autoplaying does nothing.
func (c *Controller) StartAutoplay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state.Autoplaying {
		return
	}
	c.startAutoplay()
}

// StopAutoplay cancels the walk-through, leaving the current step in place.
// Calling it while stopped does nothing.
func (c *Controller) StopAutoplay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.state.Autoplaying {
		return
	}
	c.stopAutoplay()
	c.render()
}

func (c *Controller) ToggleAutoplay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.state.Autoplaying {
		c.stopAutoplay()
		c.render()
	} else {
		c.startAutoplay()
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Close stops autoplay and pending pulses. Later transitions are rejected with ErrClosed or ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.state.Autoplaying {
		c.stopAutoplay()
	}
	c.cancelPulse()
	c.closed = true
}

func (c *Controller) tick(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.state.Autoplaying || gen != c.autoplayGen {
		return // canceled while the tick was in flight
	}
	next := c.state.Step + 1
	if next > TotalSteps {
		next = 1
	}
	c.activateStep(next, true)
}

// activateStep requires c.mu and a valid step.
func (c *Controller) activateStep(n int, scroll bool) {
	c.state.Step = n
	c.scrollTo = 0
	if scroll {
		c.scrollTo = n
	}

	c.cancelPulse()
	c.pulseGen++
	gen := c.pulseGen
	c.pulse = n
	c.pulseTask = c.sched.After(c.opts.PulseDuration, func() { c.clearPulse(gen) })

	c.render()
}

func (c *Controller) clearPulse(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.pulseGen || c.pulse == 0 {
		return
	}
	c.pulse = 0
	c.pulseTask = nil
	c.scrollTo = 0
	c.render()
}

func (c *Controller) cancelPulse() {
	if c.pulseTask != nil {
		c.pulseTask.Cancel()
		c.pulseTask = nil
	}
}

func (c *Controller) startAutoplay() {
	c.state.Autoplaying = true
	c.autoplayGen++
	gen := c.autoplayGen
	c.activateStep(1, true)
	c.autoplay = c.sched.Every(c.opts.AutoplayInterval, func() { c.tick(gen) })
}

func (c *Controller) stopAutoplay() {
	if c.autoplay != nil {
		c.autoplay.Cancel()
		c.autoplay = nil
	}
	c.autoplayGen++
	c.state.Autoplaying = false
	c.scrollTo = 0
}

func (c *Controller) render() {
	c.view.Render(c.snapshot())
}

func (c *Controller) snapshot() Snapshot {
	s := Snapshot{
		Persona:     c.state.Persona,
		Step:        c.state.Step,
		TotalSteps:  TotalSteps,
		Progress:    c.state.Step * 100 / TotalSteps,
		Autoplaying: c.state.Autoplaying,
		Pulse:       c.pulse,
		ScrollTo:    c.scrollTo,
		Steps:       make([]StepContent, len(c.steps)),
	}
	copy(s.Steps, c.steps)
	for i := range s.Reached {
		s.Reached[i] = i+1 <= c.state.Step
	}
	return s
}
