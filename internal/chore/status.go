package chore

import (
	"errors"
	"fmt"

	"github.com/dukerupert/starcoin/internal/model"
)

// Status is the lifecycle state of a task for one child on one day. StatusTodo
// is virtual: no entry row exists yet, or the last one was rejected.
type Status string

const (
	StatusTodo     Status = "todo"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

var ErrInvalidTransition = errors.New("invalid entry transition")

// Transition returns the state reached by applying action in state from.
//
//	todo     --submit-->  pending
//	rejected --submit-->  pending   (same entry row)
//	pending  --approve--> approved
//	pending  --reject-->  rejected
//
// Any other pair is an error.
func Transition(from Status, action Action) (Status, error) {
	switch from {
	case StatusTodo, StatusRejected:
		if action == ActionSubmit {
			return StatusPending, nil
		}
	case StatusPending:
		switch action {
		case ActionApprove:
			return StatusApproved, nil
		case ActionReject:
			return StatusRejected, nil
		}
	case StatusApproved:
	default:
		return "", fmt.Errorf("%w: unknown state %q", ErrInvalidTransition, from)
	}
	return "", fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, from)
}

// FromEntry maps a stored entry onto its lifecycle state. A nil entry is todo.
func FromEntry(e *model.TaskEntry) Status {
	if e == nil {
		return StatusTodo
	}
	return Status(e.Status)
}

// Terminal reports whether no further transition is possible without a resubmission.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}
