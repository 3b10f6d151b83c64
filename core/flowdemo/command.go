package flowdemo

import (
	"fmt"

	"github.com/pkg/errors"
)

// Command wire names
const (
	CmdSelectPersona  = "select_persona"
	CmdClickStep      = "click_step"
	CmdToggleAutoplay = "toggle_autoplay"
	CmdStartAutoplay  = "start_autoplay"
	CmdStopAutoplay   = "stop_autoplay"
)

var ErrUnknownCommand = errors.New("unknown command")

type (
	// Command is a discrete user intent applied with Controller.Dispatch.
	Command interface {
		Name() string
	}

	SelectPersona  struct{ Persona Persona }
	ClickStep      struct{ Step int }
	ToggleAutoplay struct{}
	StartAutoplay  struct{}
	StopAutoplay   struct{}
)

func (SelectPersona) Name() string  { return CmdSelectPersona }
func (ClickStep) Name() string      { return CmdClickStep }
func (ToggleAutoplay) Name() string { return CmdToggleAutoplay }
func (StartAutoplay) Name() string  { return CmdStartAutoplay }
func (StopAutoplay) Name() string   { return CmdStopAutoplay }

// ParseCommand builds a Command from its wire name and arguments.
// Arguments a command does not use are ignored.
func ParseCommand(name, persona string, step int) (Command, error) {
	switch name {
	case CmdSelectPersona:
		p, _ := ParsePersona(persona)
		return SelectPersona{Persona: p}, nil
	case CmdClickStep:
		return ClickStep{Step: step}, nil
	case CmdToggleAutoplay:
		return ToggleAutoplay{}, nil
	case CmdStartAutoplay:
		return StartAutoplay{}, nil
	case CmdStopAutoplay:
		return StopAutoplay{}, nil
	default:
		return nil, errors.Wrap(ErrUnknownCommand, fmt.Sprintf("%q", name))
	}
}

// Dispatch applies cmd to the controller.
func (c *Controller) Dispatch(cmd Command) error {
	switch cmd := cmd.(type) {
	case SelectPersona:
		c.SelectPersona(cmd.Persona)
	case ClickStep:
		return c.HandleStepClick(cmd.Step)
	case ToggleAutoplay:
		c.ToggleAutoplay()
	case StartAutoplay:
		c.StartAutoplay()
	case StopAutoplay:
		c.StopAutoplay()
	default:
		return ErrUnknownCommand
	}
	return nil
}
