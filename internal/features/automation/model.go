package automation

import (
	"time"

	"firm-crm/internal/features/client"
	"firm-crm/internal/features/lead"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TriggerType string

const (
	TriggerLeadInactivity      TriggerType = "lead_inactivity"
	TriggerNewLeadCreated      TriggerType = "new_lead_created"
	TriggerClientStatusChanged TriggerType = "client_status_changed"
)

type ActionType string

const (
	ActionMoveLeadStage ActionType = "move_lead_stage"
	ActionCreateTask    ActionType = "create_task"
	ActionSendEmail     ActionType = "send_email"
	ActionSendAlert     ActionType = "send_alert"
)

// TriggerSpec is the stored shape of a trigger. Only the fields of its Type are meaningful.
type TriggerSpec struct {
	Type   TriggerType             `json:"type" bson:"type"`
	Days   int                     `json:"days,omitempty" bson:"days,omitempty"`
	Status client.OnboardingStatus `json:"status,omitempty" bson:"status,omitempty"`
}

// ActionSpec is the stored shape of an action. Only the fields of its Type are meaningful.
type ActionSpec struct {
	Type         ActionType `json:"type" bson:"type"`
	Stage        lead.Stage `json:"stage,omitempty" bson:"stage,omitempty"`
	Title        string     `json:"title,omitempty" bson:"title,omitempty"`
	DaysUntilDue int        `json:"days_until_due,omitempty" bson:"days_until_due,omitempty"`
	Subject      string     `json:"subject,omitempty" bson:"subject,omitempty"`
	Body         string     `json:"body,omitempty" bson:"body,omitempty"`
	Message      string     `json:"message,omitempty" bson:"message,omitempty"`
	Channels     []string   `json:"channels,omitempty" bson:"channels,omitempty"`
}

type Automation struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Enabled   bool               `json:"enabled" bson:"enabled"`
	Trigger   TriggerSpec        `json:"trigger" bson:"trigger"`
	Action    ActionSpec         `json:"action" bson:"action"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

type RunSource string

const (
	RunSourceManual    RunSource = "manual"
	RunSourceScheduler RunSource = "scheduler"
	RunSourceEvent     RunSource = "event"
)

// AutomationRun is the persisted outcome of one engine evaluation.
type AutomationRun struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RunID           string             `json:"run_id" bson:"run_id"`
	Trigger         TriggerType        `json:"trigger" bson:"trigger"`
	Source          RunSource          `json:"source" bson:"source"`
	StartedAt       time.Time          `json:"started_at" bson:"started_at"`
	FinishedAt      time.Time          `json:"finished_at" bson:"finished_at"`
	LeadsUpdated    int                `json:"leads_updated" bson:"leads_updated"`
	RulesFired      int                `json:"rules_fired" bson:"rules_fired"`
	RulesSkipped    int                `json:"rules_skipped" bson:"rules_skipped"`
	CommandsApplied int                `json:"commands_applied" bson:"commands_applied"`
	CommandsFailed  int                `json:"commands_failed" bson:"commands_failed"`
	Errors          []string           `json:"errors,omitempty" bson:"errors,omitempty"`
}
