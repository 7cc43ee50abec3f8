// Package demo runs the interactive modal demos as server-side sessions.
// Every session owns one simulation, advanced by its own tick loop and
// driven by named actions with loosely typed arguments.
package demo

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/reyesjorge76/jr-portfolio/internal/sim"
)

// Kind names a demo type.
type Kind string

const (
	Battery   Kind = "battery"
	Conveyor  Kind = "conveyor"
	Robot     Kind = "robot"
	TicTacToe Kind = "tictactoe"
	Memory    Kind = "memory"
	Snake     Kind = "snake"
	Chatbot   Kind = "chatbot"
	Trivia    Kind = "trivia"
	Analyzer  Kind = "analyzer"
)

// Kinds lists every demo in catalog order.
var Kinds = []Kind{Battery, Conveyor, Robot, TicTacToe, Memory, Snake, Chatbot, Trivia, Analyzer}

var (
	ErrUnknownKind     = errors.New("unknown demo kind")
	ErrUnknownAction   = errors.New("unknown action")
	ErrInvalidArgs     = errors.New("invalid action arguments")
	ErrSessionNotFound = errors.New("demo session not found")
	ErrTooManySessions = errors.New("too many open demo sessions")
)

// Args are the decoded JSON arguments of an action.
type Args map[string]any

// Demo is one running simulation.
type Demo interface {
	sim.Stepper
	Handle(action string, args Args) error
	Snapshot() any
}

// Rejection is a refused action whose message is meant for the visitor,
// such as starting a batch without enough material.
type Rejection struct {
	Err error
}

func (r *Rejection) Error() string { return r.Err.Error() }
func (r *Rejection) Unwrap() error { return r.Err }

func reject(err error) error {
	if err == nil {
		return nil
	}
	return &Rejection{Err: err}
}

// IsRejection reports whether err is a visitor-facing refusal.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// decode fills out from args. Numbers may arrive as strings from form posts.
func decode(args Args, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(args)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return nil
}
