package automation

import (
	"firm-crm/internal/features/client"
	"firm-crm/internal/features/lead"
)

type TriggerRequest struct {
	Type   TriggerType             `json:"type" validate:"required,oneof=lead_inactivity new_lead_created client_status_changed"`
	Days   int                     `json:"days" validate:"gte=0"`
	Status client.OnboardingStatus `json:"status"`
}

type ActionRequest struct {
	Type         ActionType `json:"type" validate:"required,oneof=move_lead_stage create_task send_email send_alert"`
	Stage        lead.Stage `json:"stage"`
	Title        string     `json:"title" validate:"max=200"`
	DaysUntilDue int        `json:"days_until_due" validate:"gte=0"`
	Subject      string     `json:"subject" validate:"max=200"`
	Body         string     `json:"body"`
	Message      string     `json:"message" validate:"max=500"`
	Channels     []string   `json:"channels"`
}

// AutomationRequest is the create/update body. Enabled defaults to true.
type AutomationRequest struct {
	Name    string         `json:"name" validate:"required,max=120"`
	Enabled *bool          `json:"enabled"`
	Trigger TriggerRequest `json:"trigger"`
	Action  ActionRequest  `json:"action"`
}

type EnabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func (r AutomationRequest) toAutomation() Automation {
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	return Automation{
		Name:    r.Name,
		Enabled: enabled,
		Trigger: TriggerSpec{
			Type:   r.Trigger.Type,
			Days:   r.Trigger.Days,
			Status: r.Trigger.Status,
		},
		Action: ActionSpec{
			Type:         r.Action.Type,
			Stage:        r.Action.Stage,
			Title:        r.Action.Title,
			DaysUntilDue: r.Action.DaysUntilDue,
			Subject:      r.Action.Subject,
			Body:         r.Action.Body,
			Message:      r.Action.Message,
			Channels:     r.Action.Channels,
		},
	}
}
