package demo

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/reyesjorge76/jr-portfolio/internal/assistant"
	"github.com/reyesjorge76/jr-portfolio/internal/games/memory"
	"github.com/reyesjorge76/jr-portfolio/internal/games/snake"
	"github.com/reyesjorge76/jr-portfolio/internal/games/tictactoe"
	"github.com/reyesjorge76/jr-portfolio/internal/plc"
	"github.com/reyesjorge76/jr-portfolio/internal/plc/conveyor"
	"github.com/reyesjorge76/jr-portfolio/internal/plc/mixing"
	"github.com/reyesjorge76/jr-portfolio/internal/plc/robot"
)

var errJogRunning = errors.New("stop the program before jogging the arm")

// New builds a fresh demo of the given kind.
func New(kind Kind, rng *rand.Rand) (Demo, error) {
	switch kind {
	case Battery:
		return newBatteryDemo(mixing.New(rng)), nil
	case Conveyor:
		return newPanelDemo(plc.Conveyor{Sorter: conveyor.New(rng), Layout: conveyor.DefaultLayout()}), nil
	case Robot:
		return newRobotDemo(robot.New(robot.DefaultLayout())), nil
	case TicTacToe:
		return &ticTacToeDemo{game: tictactoe.New()}, nil
	case Memory:
		return &memoryDemo{game: memory.New(rng)}, nil
	case Snake:
		return &snakeDemo{game: snake.New(rng)}, nil
	case Chatbot:
		return newChatDemo(assistant.NewChatbot(rng)), nil
	case Trivia:
		return newChatDemo(assistant.NewTrivia(rng)), nil
	case Analyzer:
		return newChatDemo(assistant.Analyzer{}), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// panelDemo drives a plc.Panel. Kind-specific actions go in extra.
type panelDemo struct {
	panel *plc.Panel
	extra map[string]func(Args) error
}

func newPanelDemo(sys plc.System) *panelDemo {
	return &panelDemo{panel: plc.NewPanel(sys), extra: map[string]func(Args) error{}}
}

func (d *panelDemo) Step(dt time.Duration) { d.panel.Step(dt) }

func (d *panelDemo) Snapshot() any { return d.panel.Snapshot() }

func (d *panelDemo) Handle(action string, args Args) error {
	switch action {
	case "start":
		return reject(d.panel.Start())
	case "stop":
		d.panel.Stop()
	case "reset":
		d.panel.Reset()
	case "parameters":
		p := d.panel.Parameters()
		if err := decode(args, &p); err != nil {
			return err
		}
		d.panel.SetParameters(p)
	default:
		fn, ok := d.extra[action]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAction, action)
		}
		return fn(args)
	}
	return nil
}

func newBatteryDemo(m *mixing.Machine) *panelDemo {
	d := newPanelDemo(plc.Mixing{Machine: m})
	// recipe edits the batch; its temperature and pressure are also panel inputs
	d.extra["recipe"] = func(args Args) error {
		r := m.Recipe()
		if err := decode(args, &r); err != nil {
			return err
		}
		r = m.SetRecipe(r)
		p := d.panel.Parameters()
		p.Temperature, p.Pressure = r.Temperature, r.Pressure
		d.panel.SetParameters(p)
		return nil
	}
	return d
}

func newRobotDemo(c *robot.Cell) *panelDemo {
	d := newPanelDemo(plc.Robot{Cell: c})
	jog := func(move func() bool) func(Args) error {
		return func(Args) error {
			if !move() {
				return reject(errJogRunning)
			}
			return nil
		}
	}
	d.extra["left"] = jog(c.MoveLeft)
	d.extra["right"] = jog(c.MoveRight)
	return d
}

type ticTacToeDemo struct {
	game *tictactoe.Game
}

func (d *ticTacToeDemo) Step(time.Duration) {}

func (d *ticTacToeDemo) Snapshot() any { return d.game.Snapshot() }

func (d *ticTacToeDemo) Handle(action string, args Args) error {
	switch action {
	case "play":
		var in struct {
			Cell *int `mapstructure:"cell"`
			AI   bool `mapstructure:"ai"`
		}
		if err := decode(args, &in); err != nil {
			return err
		}
		if in.Cell == nil {
			return fmt.Errorf("%w: cell is required", ErrInvalidArgs)
		}
		if err := d.game.Play(*in.Cell); err != nil {
			if errors.Is(err, tictactoe.ErrOutOfBounds) {
				return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
			}
			return reject(err)
		}
		if in.AI && d.game.Winner() == "" {
			_, err := d.game.PlayBest()
			return reject(err)
		}
	case "ai":
		_, err := d.game.PlayBest()
		return reject(err)
	case "reset":
		d.game.Reset()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

type memoryDemo struct {
	game *memory.Game
}

func (d *memoryDemo) Step(dt time.Duration) { d.game.Step(dt) }

func (d *memoryDemo) Snapshot() any { return d.game.Snapshot() }

func (d *memoryDemo) Handle(action string, args Args) error {
	switch action {
	case "flip":
		var in struct {
			ID *int `mapstructure:"id"`
		}
		if err := decode(args, &in); err != nil {
			return err
		}
		if in.ID == nil {
			return fmt.Errorf("%w: id is required", ErrInvalidArgs)
		}
		if err := d.game.Flip(*in.ID); err != nil {
			if errors.Is(err, memory.ErrNoSuchCard) {
				return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
			}
			return reject(err)
		}
	case "reset":
		d.game.Reset()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

type snakeDemo struct {
	game *snake.Game
}

func (d *snakeDemo) Step(dt time.Duration) { d.game.Step(dt) }

func (d *snakeDemo) Snapshot() any { return d.game.Snapshot() }

func (d *snakeDemo) Handle(action string, args Args) error {
	switch action {
	case "turn":
		var in struct {
			Direction string `mapstructure:"direction"`
		}
		if err := decode(args, &in); err != nil {
			return err
		}
		dir, err := snake.ParseDirection(in.Direction)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
		}
		d.game.Turn(dir)
	case "reset":
		d.game.Reset()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

type chatDemo struct {
	conv *assistant.Conversation
}

func newChatDemo(r assistant.Responder) *chatDemo {
	return &chatDemo{conv: assistant.NewConversation(r)}
}

func (d *chatDemo) Step(time.Duration) {}

type chatSnapshot struct {
	Messages []assistant.Message `json:"messages"`
}

func (d *chatDemo) Snapshot() any { return chatSnapshot{Messages: d.conv.Messages()} }

func (d *chatDemo) Handle(action string, args Args) error {
	switch action {
	case "send":
		var in struct {
			Message string `mapstructure:"message"`
		}
		if err := decode(args, &in); err != nil {
			return err
		}
		_, err := d.conv.Send(in.Message)
		if errors.Is(err, assistant.ErrMessageTooLong) {
			return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
		}
		return reject(err)
	case "reset":
		d.conv.Reset()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}
