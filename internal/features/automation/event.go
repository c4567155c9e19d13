package automation

import (
	"time"

	"firm-crm/internal/features/client"
	"firm-crm/internal/features/lead"
)

// Event is what a caller hands to Engine.Evaluate.
type Event interface {
	Trigger() TriggerType
	isEvent()
}

// InactivityCheckEvent is a batch pass over open leads at Now.
type InactivityCheckEvent struct {
	Leads []lead.Lead
	Now   time.Time
}

// LeadCreatedEvent fires once per lead, at creation time.
type LeadCreatedEvent struct {
	Lead lead.Lead
	Now  time.Time
}

// ClientStatusChangedEvent fires when a client's onboarding status is written.
type ClientStatusChangedEvent struct {
	Client    client.Client
	NewStatus client.OnboardingStatus
	Now       time.Time
}

func (InactivityCheckEvent) Trigger() TriggerType     { return TriggerLeadInactivity }
func (LeadCreatedEvent) Trigger() TriggerType         { return TriggerNewLeadCreated }
func (ClientStatusChangedEvent) Trigger() TriggerType { return TriggerClientStatusChanged }

func (InactivityCheckEvent) isEvent()     {}
func (LeadCreatedEvent) isEvent()         {}
func (ClientStatusChangedEvent) isEvent() {}
