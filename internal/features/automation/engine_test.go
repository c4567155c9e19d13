package automation

import (
	"errors"
	"testing"
	"time"

	"firm-crm/internal/features/client"
	"firm-crm/internal/features/lead"
	"firm-crm/internal/features/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func inactivityRule(name string, days int, action ActionSpec) Automation {
	return Automation{
		ID:      primitive.NewObjectID(),
		Name:    name,
		Enabled: true,
		Trigger: TriggerSpec{Type: TriggerLeadInactivity, Days: days},
		Action:  action,
	}
}

func moveTo(stage lead.Stage) ActionSpec {
	return ActionSpec{Type: ActionMoveLeadStage, Stage: stage}
}

func openLead(name string, lastContacted time.Time) lead.Lead {
	return lead.Lead{
		ID:            primitive.NewObjectID(),
		Name:          name,
		Company:       name + " Ltda",
		Stage:         lead.StageQualified,
		Status:        lead.StatusOpen,
		LastContacted: lastContacted,
	}
}

func TestEvaluateInactivityMovesStaleLead(t *testing.T) {
	rule := inactivityRule("Stale to nurturing", 7, moveTo(lead.StageNurturing))
	l := openLead("Acme", now.Add(-10*day))

	res := NewEngine().EvaluateInactivity([]Automation{rule}, []lead.Lead{l}, now)

	assert.Equal(t, 1, res.LeadsUpdated)
	require.Len(t, res.Leads, 1)
	assert.Equal(t, lead.StageNurturing, res.Leads[0].Stage)
	assert.Equal(t, now, res.Leads[0].LastContacted)

	require.Len(t, res.Commands, 1)
	cmd, ok := res.Commands[0].(MoveLeadStageCommand)
	require.True(t, ok)
	assert.Equal(t, l.ID, cmd.LeadID)
	assert.Equal(t, lead.StageNurturing, cmd.Stage)
	require.NotNil(t, cmd.RearmAt)
	assert.Equal(t, now, *cmd.RearmAt)
	assert.Equal(t, rule.ID, cmd.Source().AutomationID)
	assert.Equal(t, rule.Name, cmd.Source().AutomationName)

	// the input snapshot is untouched
	assert.Equal(t, lead.StageQualified, l.Stage)
}

func TestEvaluateInactivityThreshold(t *testing.T) {
	rule := inactivityRule("Seven days", 7, moveTo(lead.StageNurturing))

	tests := []struct {
		name          string
		lastContacted time.Time
		fires         bool
	}{
		{"six days twenty three hours", now.Add(-(6*day + 23*time.Hour)), false},
		{"exactly seven days", now.Add(-7 * day), true},
		{"seven days one minute", now.Add(-(7*day + time.Minute)), true},
		{"contacted in the future", now.Add(3 * day), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewEngine().EvaluateInactivity([]Automation{rule}, []lead.Lead{openLead("Lead", tt.lastContacted)}, now)
			if tt.fires {
				assert.Equal(t, 1, res.LeadsUpdated)
				assert.Len(t, res.Commands, 1)
			} else {
				assert.Zero(t, res.LeadsUpdated)
				assert.Empty(t, res.Commands)
				assert.Empty(t, res.Errors)
			}
		})
	}
}

func TestEvaluateInactivityIgnoresClosedLeads(t *testing.T) {
	rule := inactivityRule("Stale", 1, moveTo(lead.StageNurturing))
	won := openLead("Won", now.Add(-400*day))
	won.Status = lead.StatusWon
	lost := openLead("Lost", now.Add(-400*day))
	lost.Status = lead.StatusLost

	res := NewEngine().EvaluateInactivity([]Automation{rule}, []lead.Lead{won, lost}, now)

	assert.Zero(t, res.LeadsUpdated)
	assert.Empty(t, res.Commands)
	assert.Equal(t, lead.StageQualified, res.Leads[0].Stage)
	assert.Equal(t, lead.StageQualified, res.Leads[1].Stage)
}

func TestEvaluateInactivityDisabledRulesAreInert(t *testing.T) {
	rules := []Automation{
		inactivityRule("a", 1, moveTo(lead.StageNurturing)),
		inactivityRule("b", 1, ActionSpec{Type: ActionCreateTask, Title: "Follow up", DaysUntilDue: 1}),
	}
	for i := range rules {
		rules[i].Enabled = false
	}
	leads := []lead.Lead{openLead("a", now.Add(-30*day)), openLead("b", now.Add(-90*day))}

	res := NewEngine().EvaluateInactivity(rules, leads, now)

	assert.Zero(t, res.LeadsUpdated)
	assert.Empty(t, res.Commands)
	assert.Zero(t, res.Fired)
}

func TestEvaluateInactivityRearmPreventsRefire(t *testing.T) {
	rule := inactivityRule("Stale", 7, moveTo(lead.StageNurturing))
	engine := NewEngine()

	first := engine.EvaluateInactivity([]Automation{rule}, []lead.Lead{openLead("Acme", now.Add(-10*day))}, now)
	require.Equal(t, 1, first.LeadsUpdated)

	second := engine.EvaluateInactivity([]Automation{rule}, first.Leads, now)
	assert.Zero(t, second.LeadsUpdated)
	assert.Empty(t, second.Commands)
}

func TestEvaluateInactivityAllMatchingRulesFire(t *testing.T) {
	move := inactivityRule("Move", 7, moveTo(lead.StageNurturing))
	task := inactivityRule("Task", 5, ActionSpec{Type: ActionCreateTask, Title: "Call {{name}}", DaysUntilDue: 3})
	l := openLead("Acme", now.Add(-10*day))

	res := NewEngine().EvaluateInactivity([]Automation{move, task}, []lead.Lead{l}, now)

	assert.Equal(t, 1, res.LeadsUpdated)
	assert.Equal(t, 2, res.Fired)
	require.Len(t, res.Commands, 2)

	var moves, tasks int
	for _, c := range res.Commands {
		switch cmd := c.(type) {
		case MoveLeadStageCommand:
			moves++
		case CreateTaskCommand:
			tasks++
			assert.Equal(t, "Call Acme", cmd.Title)
			assert.Equal(t, now.AddDate(0, 0, 3), cmd.DueDate)
			require.NotNil(t, cmd.LeadID)
			assert.Equal(t, l.ID, *cmd.LeadID)
			assert.Nil(t, cmd.ClientID)
		}
	}
	assert.Equal(t, 1, moves)
	assert.Equal(t, 1, tasks)
	assert.Equal(t, lead.StageNurturing, res.Leads[0].Stage)
}

func TestEvaluateInactivityLastStageMoveWins(t *testing.T) {
	first := inactivityRule("First", 3, moveTo(lead.StageNurturing))
	second := inactivityRule("Second", 3, moveTo(lead.StageContacted))

	res := NewEngine().EvaluateInactivity([]Automation{first, second}, []lead.Lead{openLead("Acme", now.Add(-5*day))}, now)

	require.Len(t, res.Commands, 2)
	assert.Equal(t, first.ID, res.Commands[0].Source().AutomationID)
	assert.Equal(t, second.ID, res.Commands[1].Source().AutomationID)
	assert.Equal(t, lead.StageContacted, res.Leads[0].Stage)
	assert.Equal(t, 1, res.LeadsUpdated)
}

func TestEvaluateInactivityCountsDistinctLeads(t *testing.T) {
	rule := inactivityRule("Stale", 7, moveTo(lead.StageNurturing))
	leads := []lead.Lead{
		openLead("a", now.Add(-8*day)),
		openLead("b", now.Add(-2*day)),
		openLead("c", now.Add(-20*day)),
	}

	res := NewEngine().EvaluateInactivity([]Automation{rule}, leads, now)

	assert.Equal(t, 2, res.LeadsUpdated)
	assert.Equal(t, lead.StageNurturing, res.Leads[0].Stage)
	assert.Equal(t, lead.StageQualified, res.Leads[1].Stage)
	assert.Equal(t, lead.StageNurturing, res.Leads[2].Stage)
}

func TestEvaluateInactivitySkipsMalformedRules(t *testing.T) {
	good := inactivityRule("Good", 7, moveTo(lead.StageNurturing))
	badDays := inactivityRule("Zero days", 0, moveTo(lead.StageNurturing))
	badAction := inactivityRule("Bad action", 7, ActionSpec{Type: "post_to_slack"})
	unknownTrigger := Automation{ID: primitive.NewObjectID(), Name: "Unknown", Enabled: true,
		Trigger: TriggerSpec{Type: "lead_birthday"}, Action: moveTo(lead.StageNurturing)}
	otherPath := Automation{ID: primitive.NewObjectID(), Name: "Other path", Enabled: true,
		Trigger: TriggerSpec{Type: TriggerNewLeadCreated}, Action: ActionSpec{Type: "post_to_slack"}}

	res := NewEngine().EvaluateInactivity(
		[]Automation{badDays, badAction, unknownTrigger, otherPath, good},
		[]lead.Lead{openLead("Acme", now.Add(-10*day))},
		now,
	)

	assert.Equal(t, 3, res.Skipped)
	require.Len(t, res.Errors, 3)
	var invalid *InvalidRuleError
	require.True(t, errors.As(res.Errors[0], &invalid))
	assert.Equal(t, badDays.ID, invalid.AutomationID)
	assert.ErrorIs(t, res.Errors[0], ErrInvalidTrigger)
	assert.ErrorIs(t, res.Errors[1], ErrUnknownAction)
	assert.ErrorIs(t, res.Errors[2], ErrUnknownTrigger)

	assert.Equal(t, 1, res.LeadsUpdated)
	require.Len(t, res.Commands, 1)
	assert.Equal(t, good.ID, res.Commands[0].Source().AutomationID)
}

func TestOnNewLeadCreatedFiresEveryEnabledRule(t *testing.T) {
	welcome := Automation{ID: primitive.NewObjectID(), Name: "Welcome", Enabled: true,
		Trigger: TriggerSpec{Type: TriggerNewLeadCreated},
		Action:  ActionSpec{Type: ActionSendEmail, Subject: "Hello {{name}}", Body: "Thanks, {{company}}"}}
	alert := Automation{ID: primitive.NewObjectID(), Name: "Alert", Enabled: true,
		Trigger: TriggerSpec{Type: TriggerNewLeadCreated},
		Action:  ActionSpec{Type: ActionSendAlert, Message: "New lead {{name}}", Channels: []string{"system", "pager"}}}
	disabled := welcome
	disabled.ID = primitive.NewObjectID()
	disabled.Enabled = false
	inactivity := inactivityRule("Stale", 1, moveTo(lead.StageNurturing))

	l := openLead("Acme", now)
	res := NewEngine().OnNewLeadCreated([]Automation{welcome, disabled, inactivity, alert}, l, now)

	require.Len(t, res.Commands, 2)
	mail, ok := res.Commands[0].(SendEmailCommand)
	require.True(t, ok)
	assert.Equal(t, "Hello Acme", mail.Subject)
	assert.Equal(t, "Thanks, Acme Ltda", mail.Body)
	require.NotNil(t, mail.LeadID)
	assert.Equal(t, l.ID, *mail.LeadID)

	sent, ok := res.Commands[1].(SendAlertCommand)
	require.True(t, ok)
	assert.Equal(t, "New lead Acme", sent.Message)
	assert.Equal(t, []notification.Channel{notification.ChannelSystem, "pager"}, sent.Channels)
	assert.Equal(t, 1, res.LeadsUpdated)
}

func TestOnNewLeadCreatedStageMoveDoesNotRearm(t *testing.T) {
	rule := Automation{ID: primitive.NewObjectID(), Name: "Qualify", Enabled: true,
		Trigger: TriggerSpec{Type: TriggerNewLeadCreated}, Action: moveTo(lead.StageContacted)}
	l := openLead("Acme", now.Add(-time.Hour))

	res := NewEngine().OnNewLeadCreated([]Automation{rule}, l, now)

	require.Len(t, res.Commands, 1)
	cmd := res.Commands[0].(MoveLeadStageCommand)
	assert.Nil(t, cmd.RearmAt)
	assert.Equal(t, lead.StageContacted, res.Leads[0].Stage)
	assert.Equal(t, l.LastContacted, res.Leads[0].LastContacted)
}

func TestOnClientStatusChangedCreatesWelcomeTask(t *testing.T) {
	rule := Automation{ID: primitive.NewObjectID(), Name: "Boas-vindas", Enabled: true,
		Trigger: TriggerSpec{Type: TriggerClientStatusChanged, Status: client.StatusOnboarding},
		Action:  ActionSpec{Type: ActionCreateTask, Title: "Ligar para dar boas-vindas", DaysUntilDue: 2}}
	other := Automation{ID: primitive.NewObjectID(), Name: "Churn", Enabled: true,
		Trigger: TriggerSpec{Type: TriggerClientStatusChanged, Status: client.StatusChurned},
		Action:  ActionSpec{Type: ActionCreateTask, Title: "Exit interview", DaysUntilDue: 1}}
	c := client.Client{ID: primitive.NewObjectID(), Name: "Maria", Company: "Padaria", OnboardingStatus: client.StatusProspect}

	res := NewEngine().OnClientStatusChanged([]Automation{rule, other}, c, client.StatusOnboarding, now)

	require.Len(t, res.Commands, 1)
	cmd, ok := res.Commands[0].(CreateTaskCommand)
	require.True(t, ok)
	assert.Equal(t, "Ligar para dar boas-vindas", cmd.Title)
	assert.Equal(t, now.Add(48*time.Hour), cmd.DueDate)
	require.NotNil(t, cmd.ClientID)
	assert.Equal(t, c.ID, *cmd.ClientID)
	assert.Nil(t, cmd.LeadID)
	assert.Zero(t, res.LeadsUpdated)
}

func TestOnClientStatusChangedStageMoveNeedsLead(t *testing.T) {
	broken := Automation{ID: primitive.NewObjectID(), Name: "Move", Enabled: true,
		Trigger: TriggerSpec{Type: TriggerClientStatusChanged, Status: client.StatusActive},
		Action:  moveTo(lead.StageNegotiation)}
	alert := Automation{ID: primitive.NewObjectID(), Name: "Alert", Enabled: true,
		Trigger: TriggerSpec{Type: TriggerClientStatusChanged, Status: client.StatusActive},
		Action:  ActionSpec{Type: ActionSendAlert, Message: "{{company}} is active", Channels: []string{"email"}}}
	c := client.Client{ID: primitive.NewObjectID(), Name: "Joao", Company: "Oficina"}

	res := NewEngine().OnClientStatusChanged([]Automation{broken, alert}, c, client.StatusActive, now)

	require.Len(t, res.Errors, 1)
	var missing *MissingContextError
	require.True(t, errors.As(res.Errors[0], &missing))
	assert.Equal(t, broken.ID, missing.AutomationID)
	assert.Equal(t, ActionMoveLeadStage, missing.Action)
	assert.Zero(t, res.Skipped)

	require.Len(t, res.Commands, 1)
	assert.Equal(t, "Oficina is active", res.Commands[0].(SendAlertCommand).Message)
	assert.Equal(t, 1, res.Fired)
}

func TestEvaluateDispatchesOnEvent(t *testing.T) {
	stale := inactivityRule("Stale", 7, moveTo(lead.StageNurturing))
	created := Automation{ID: primitive.NewObjectID(), Name: "Created", Enabled: true,
		Trigger: TriggerSpec{Type: TriggerNewLeadCreated},
		Action:  ActionSpec{Type: ActionSendAlert, Message: "new", Channels: []string{"system"}}}
	onboarding := Automation{ID: primitive.NewObjectID(), Name: "Onboarding", Enabled: true,
		Trigger: TriggerSpec{Type: TriggerClientStatusChanged, Status: client.StatusOnboarding},
		Action:  ActionSpec{Type: ActionSendEmail, Subject: "Welcome"}}
	rules := []Automation{stale, created, onboarding}
	engine := NewEngine()
	l := openLead("Acme", now.Add(-10*day))

	res := engine.Evaluate(rules, InactivityCheckEvent{Leads: []lead.Lead{l}, Now: now})
	require.Len(t, res.Commands, 1)
	assert.Equal(t, ActionMoveLeadStage, res.Commands[0].Kind())

	res = engine.Evaluate(rules, LeadCreatedEvent{Lead: l, Now: now})
	require.Len(t, res.Commands, 1)
	assert.Equal(t, ActionSendAlert, res.Commands[0].Kind())

	res = engine.Evaluate(rules, ClientStatusChangedEvent{
		Client:    client.Client{ID: primitive.NewObjectID()},
		NewStatus: client.StatusOnboarding,
		Now:       now,
	})
	require.Len(t, res.Commands, 1)
	assert.Equal(t, ActionSendEmail, res.Commands[0].Kind())
}
