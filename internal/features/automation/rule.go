package automation

import (
	"fmt"
	"strings"

	"firm-crm/internal/features/client"
	"firm-crm/internal/features/lead"
	"firm-crm/internal/features/notification"
)

// Trigger is the closed set of conditions that make a rule eligible to fire.
type Trigger interface {
	TriggerType() TriggerType
	isTrigger()
}

type LeadInactivity struct {
	Days int
}

type NewLeadCreated struct{}

type ClientStatusChanged struct {
	Status client.OnboardingStatus
}

func (LeadInactivity) TriggerType() TriggerType      { return TriggerLeadInactivity }
func (NewLeadCreated) TriggerType() TriggerType      { return TriggerNewLeadCreated }
func (ClientStatusChanged) TriggerType() TriggerType { return TriggerClientStatusChanged }

func (LeadInactivity) isTrigger()      {}
func (NewLeadCreated) isTrigger()      {}
func (ClientStatusChanged) isTrigger() {}

// Action is the closed set of effects a fired rule produces.
type Action interface {
	ActionType() ActionType
	isAction()
}

type MoveLeadStage struct {
	Stage lead.Stage
}

type CreateTask struct {
	Title        string
	DaysUntilDue int
}

type SendEmail struct {
	Subject string
	Body    string
}

type SendAlert struct {
	Message  string
	Channels []notification.Channel
}

func (MoveLeadStage) ActionType() ActionType { return ActionMoveLeadStage }
func (CreateTask) ActionType() ActionType    { return ActionCreateTask }
func (SendEmail) ActionType() ActionType     { return ActionSendEmail }
func (SendAlert) ActionType() ActionType     { return ActionSendAlert }

func (MoveLeadStage) isAction() {}
func (CreateTask) isAction()    {}
func (SendEmail) isAction()     {}
func (SendAlert) isAction()     {}

// Decode turns the stored trigger into its variant.
func (t TriggerSpec) Decode() (Trigger, error) {
	switch t.Type {
	case TriggerLeadInactivity:
		if t.Days <= 0 {
			return nil, fmt.Errorf("%w: days must be greater than 0, got %d", ErrInvalidTrigger, t.Days)
		}
		return LeadInactivity{Days: t.Days}, nil
	case TriggerNewLeadCreated:
		return NewLeadCreated{}, nil
	case TriggerClientStatusChanged:
		if !t.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown onboarding status %q", ErrInvalidTrigger, t.Status)
		}
		return ClientStatusChanged{Status: t.Status}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrigger, t.Type)
	}
}

// Decode turns the stored action into its variant. Alert channels are kept verbatim.
func (a ActionSpec) Decode() (Action, error) {
	switch a.Type {
	case ActionMoveLeadStage:
		if !a.Stage.Valid() {
			return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidAction, a.Stage)
		}
		return MoveLeadStage{Stage: a.Stage}, nil
	case ActionCreateTask:
		if strings.TrimSpace(a.Title) == "" {
			return nil, fmt.Errorf("%w: task title is required", ErrInvalidAction)
		}
		return CreateTask{Title: a.Title, DaysUntilDue: a.DaysUntilDue}, nil
	case ActionSendEmail:
		return SendEmail{Subject: a.Subject, Body: a.Body}, nil
	case ActionSendAlert:
		channels := make([]notification.Channel, len(a.Channels))
		for i, ch := range a.Channels {
			channels[i] = notification.Channel(ch)
		}
		return SendAlert{Message: a.Message, Channels: channels}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
}

// Rule is an enabled automation with its trigger and action decoded.
type Rule struct {
	Automation Automation
	Trigger    Trigger
	Action     Action
}

// Compile decodes the automation. Malformed rules return an *InvalidRuleError.
func Compile(a Automation) (Rule, error) {
	trigger, err := a.Trigger.Decode()
	if err != nil {
		return Rule{}, &InvalidRuleError{AutomationID: a.ID, Name: a.Name, Err: err}
	}
	action, err := a.Action.Decode()
	if err != nil {
		return Rule{}, &InvalidRuleError{AutomationID: a.ID, Name: a.Name, Err: err}
	}
	return Rule{Automation: a, Trigger: trigger, Action: action}, nil
}
