package automation

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound       = errors.New("automation not found")
	ErrUnknownTrigger = errors.New("unknown trigger type")
	ErrUnknownAction  = errors.New("unknown action type")
	ErrInvalidTrigger = errors.New("invalid trigger")
	ErrInvalidAction  = errors.New("invalid action")
)

// InvalidRuleError is a configuration error on one automation. The rule is skipped.
type InvalidRuleError struct {
	AutomationID primitive.ObjectID
	Name         string
	Err          error
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("automation %s (%s) skipped: %v", e.AutomationID.Hex(), e.Name, e.Err)
}

func (e *InvalidRuleError) Unwrap() error {
	return e.Err
}

// MissingContextError means an action needed a lead or client the trigger did not supply.
type MissingContextError struct {
	AutomationID primitive.ObjectID
	Action       ActionType
	Trigger      TriggerType
	Needs        string
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("automation %s: action %s needs a %s but trigger %s provides none",
		e.AutomationID.Hex(), e.Action, e.Needs, e.Trigger)
}

// CommandError reports one emitted command the host failed to apply.
type CommandError struct {
	Command Command
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("apply %s from automation %s: %v", e.Command.Kind(), e.Command.Source().AutomationID.Hex(), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
