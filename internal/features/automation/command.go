package automation

import (
	"time"

	"firm-crm/internal/features/lead"
	"firm-crm/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Command is an effect emitted by the engine for the host to apply.
type Command interface {
	Kind() ActionType
	Source() CommandSource
}

// CommandSource identifies the automation that emitted a command.
type CommandSource struct {
	AutomationID   primitive.ObjectID `json:"automation_id"`
	AutomationName string             `json:"automation_name"`
}

func (s CommandSource) Source() CommandSource { return s }

type MoveLeadStageCommand struct {
	CommandSource
	LeadID primitive.ObjectID `json:"lead_id"`
	Stage  lead.Stage         `json:"stage"`
	// RearmAt is set on the inactivity path; the host writes it as last_contacted.
	RearmAt *time.Time `json:"rearm_at,omitempty"`
}

type CreateTaskCommand struct {
	CommandSource
	Title    string              `json:"title"`
	DueDate  time.Time           `json:"due_date"`
	LeadID   *primitive.ObjectID `json:"lead_id,omitempty"`
	ClientID *primitive.ObjectID `json:"client_id,omitempty"`
}

type SendEmailCommand struct {
	CommandSource
	Subject  string              `json:"subject"`
	Body     string              `json:"body"`
	LeadID   *primitive.ObjectID `json:"lead_id,omitempty"`
	ClientID *primitive.ObjectID `json:"client_id,omitempty"`
}

type SendAlertCommand struct {
	CommandSource
	Message  string                 `json:"message"`
	Channels []notification.Channel `json:"channels"`
	LeadID   *primitive.ObjectID    `json:"lead_id,omitempty"`
	ClientID *primitive.ObjectID    `json:"client_id,omitempty"`
}

func (MoveLeadStageCommand) Kind() ActionType { return ActionMoveLeadStage }
func (CreateTaskCommand) Kind() ActionType    { return ActionCreateTask }
func (SendEmailCommand) Kind() ActionType     { return ActionSendEmail }
func (SendAlertCommand) Kind() ActionType     { return ActionSendAlert }
