package capture

import (
	"errors"
	"fmt"
)

// State is the position of a Session in the drawing/editing state machine.
type State int

const (
	// Idle waits for a pointer-down to start a new area.
	Idle State = iota
	// Drawing accumulates pointer positions into the draft polygon.
	Drawing
	// ModalOpen holds a closed polygon (or an existing shape) while its
	// questionnaire is filled in.
	ModalOpen
	// EditModeIdle lists committed shapes with none selected.
	EditModeIdle
	// EditModeSelected has exactly one committed shape selected.
	EditModeSelected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case ModalOpen:
		return "modal_open"
	case EditModeIdle:
		return "edit_idle"
	case EditModeSelected:
		return "edit_selected"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the session's current state. The session is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrCapacityReached blocks starting a new area once the store is full.
	// Editing and deleting remain available.
	ErrCapacityReached = errors.New("maximum number of areas reached")

	// ErrNoShapes is returned when entering edit mode with nothing to edit.
	ErrNoShapes = errors.New("no areas to edit")
)

func transitionError(op string, s State) error {
	return fmt.Errorf("%s in state %s: %w", op, s, ErrInvalidTransition)
}
