package automation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	common_models "firm-crm/internal/common/models"
	"firm-crm/internal/features/client"
	"firm-crm/internal/features/lead"
	"firm-crm/internal/features/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRunInactivityPassAppliesCommands(t *testing.T) {
	env := newTestEnv(now)
	ctx := context.Background()
	require.NoError(t, env.svc.CreateRule(ctx, ptr(inactivityRule("Stale", 7, moveTo(lead.StageNurturing)))))
	require.NoError(t, env.svc.CreateRule(ctx, ptr(inactivityRule("Follow up", 7,
		ActionSpec{Type: ActionCreateTask, Title: "Call {{name}}", DaysUntilDue: 2}))))

	stale := openLead("Acme", now.Add(-10*day))
	fresh := openLead("Beta", now.Add(-1*day))
	won := openLead("Gamma", now.Add(-30*day))
	won.Status = lead.StatusWon
	env.leads.leads = []lead.Lead{stale, fresh, won}

	run, err := env.svc.RunInactivityPass(ctx, RunSourceManual)
	require.NoError(t, err)

	assert.Equal(t, 1, run.LeadsUpdated)
	assert.Equal(t, 2, run.RulesFired)
	assert.Equal(t, 2, run.CommandsApplied)
	assert.Zero(t, run.CommandsFailed)
	assert.Equal(t, RunSourceManual, run.Source)
	assert.Equal(t, TriggerLeadInactivity, run.Trigger)
	assert.NotEmpty(t, run.RunID)

	updated := env.leads.get(stale.ID)
	assert.Equal(t, lead.StageNurturing, updated.Stage)
	assert.Equal(t, now, updated.LastContacted)
	assert.Equal(t, lead.StageQualified, env.leads.get(won.ID).Stage)

	require.Len(t, env.tasks.tasks, 1)
	created := env.tasks.tasks[0]
	assert.Equal(t, "Call Acme", created.Title)
	assert.Equal(t, task.StatusToDo, created.Status)
	assert.Equal(t, now.AddDate(0, 0, 2), created.DueDate)
	require.NotNil(t, created.LeadID)
	assert.Equal(t, stale.ID, *created.LeadID)

	require.Len(t, env.runs.all(), 1)
	assert.Contains(t, env.audit.actions, common_models.AuditActionRun)
}

func TestRunInactivityPassSecondRunDoesNotRefire(t *testing.T) {
	env := newTestEnv(now)
	ctx := context.Background()
	require.NoError(t, env.svc.CreateRule(ctx, ptr(inactivityRule("Stale", 7, moveTo(lead.StageNurturing)))))
	env.leads.leads = []lead.Lead{openLead("Acme", now.Add(-10*day))}

	first, err := env.svc.RunInactivityPass(ctx, RunSourceManual)
	require.NoError(t, err)
	second, err := env.svc.RunInactivityPass(ctx, RunSourceScheduler)
	require.NoError(t, err)

	assert.Equal(t, 1, first.LeadsUpdated)
	assert.Zero(t, second.LeadsUpdated)
	assert.Equal(t, 1, env.leads.updates)
}

func TestRunInactivityPassSerializesConcurrentCallers(t *testing.T) {
	env := newTestEnv(now)
	ctx := context.Background()
	require.NoError(t, env.svc.CreateRule(ctx, ptr(inactivityRule("Stale", 7, moveTo(lead.StageNurturing)))))
	env.leads.leads = []lead.Lead{openLead("Acme", now.Add(-10*day)), openLead("Beta", now.Add(-12*day))}

	const callers = 6
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			run, err := env.svc.RunInactivityPass(ctx, RunSourceManual)
			if assert.NoError(t, err) {
				results[i] = run.LeadsUpdated
			}
		}(i)
	}
	wg.Wait()

	total := 0
	for _, n := range results {
		total += n
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, env.leads.updates)
	assert.Len(t, env.runs.all(), callers)
}

func TestRunInactivityPassFailedCommandDoesNotAbortOthers(t *testing.T) {
	env := newTestEnv(now)
	ctx := context.Background()
	env.tasks.err = errors.New("tasks collection unavailable")
	require.NoError(t, env.svc.CreateRule(ctx, ptr(inactivityRule("Task", 3,
		ActionSpec{Type: ActionCreateTask, Title: "Call", DaysUntilDue: 1}))))
	require.NoError(t, env.svc.CreateRule(ctx, ptr(inactivityRule("Mail", 3,
		ActionSpec{Type: ActionSendEmail, Subject: "Still interested, {{name}}?", Body: "..."}))))
	env.leads.leads = []lead.Lead{openLead("Acme", now.Add(-5*day))}

	run, err := env.svc.RunInactivityPass(ctx, RunSourceManual)
	require.NoError(t, err)

	assert.Equal(t, 1, run.CommandsFailed)
	assert.Equal(t, 1, run.CommandsApplied)
	require.Len(t, run.Errors, 1)
	assert.Contains(t, run.Errors[0], "tasks collection unavailable")

	require.Len(t, env.emails.emails, 1)
	assert.Equal(t, "Still interested, Acme?", env.emails.emails[0].Subject)
}

func TestRunInactivityPassRecordsSkippedRules(t *testing.T) {
	env := newTestEnv(now)
	env.automations.items = []Automation{
		inactivityRule("Broken", 7, ActionSpec{Type: "webhook"}),
		inactivityRule("Stale", 7, moveTo(lead.StageNurturing)),
	}
	env.leads.leads = []lead.Lead{openLead("Acme", now.Add(-10*day))}

	run, err := env.svc.RunInactivityPass(context.Background(), RunSourceManual)
	require.NoError(t, err)

	assert.Equal(t, 1, run.RulesSkipped)
	assert.Equal(t, 1, run.LeadsUpdated)
	require.Len(t, run.Errors, 1)
	assert.Contains(t, run.Errors[0], "Broken")
}

func TestRunInactivityPassHonoursContextWhileLocked(t *testing.T) {
	env := newTestEnv(now)
	release, err := env.svc.Locker.Acquire(context.Background(), InactivityLockKey)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = env.svc.RunInactivityPass(ctx, RunSourceScheduler)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, env.runs.all())
}

type stalledLister struct{}

func (stalledLister) ListOpen(ctx context.Context) ([]lead.Lead, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type stalledExecutor struct{}

func (stalledExecutor) ExecuteCommands(ctx context.Context, commands []Command) []error {
	<-ctx.Done()
	errs := make([]error, len(commands))
	for i, cmd := range commands {
		errs[i] = &CommandError{Command: cmd, Err: ctx.Err()}
	}
	return errs
}

func (stalledExecutor) ExecuteCommand(ctx context.Context, _ Command) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunInactivityPassIsBoundedByPassTimeout(t *testing.T) {
	env := newTestEnv(now)
	env.svc.Leads = stalledLister{}
	env.svc.PassTimeout = 30 * time.Millisecond

	// no caller deadline, as for a manual run from the API
	_, err := env.svc.RunInactivityPass(context.Background(), RunSourceManual)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	release, err := env.svc.Locker.Acquire(ctx, InactivityLockKey)
	require.NoError(t, err, "lock must be released after a timed out pass")
	release()
}

func TestRunInactivityPassRecordsRunAfterDeadline(t *testing.T) {
	env := newTestEnv(now)
	ctx := context.Background()
	require.NoError(t, env.svc.CreateRule(ctx, ptr(inactivityRule("Stale", 7, moveTo(lead.StageNurturing)))))
	env.leads.leads = []lead.Lead{openLead("Acme", now.Add(-10*day))}
	env.svc.Executor = stalledExecutor{}
	env.svc.PassTimeout = 30 * time.Millisecond

	run, err := env.svc.RunInactivityPass(ctx, RunSourceManual)
	require.NoError(t, err)
	assert.Equal(t, 1, run.CommandsFailed)

	require.Len(t, env.runs.all(), 1)
	env.audit.mu.Lock()
	defer env.audit.mu.Unlock()
	last := len(env.audit.actions) - 1
	assert.Equal(t, common_models.AuditActionRun, env.audit.actions[last])
	assert.NoError(t, env.audit.ctxErrs[last])
}

func TestOnClientStatusChangedCreatesTask(t *testing.T) {
	env := newTestEnv(now)
	ctx := context.Background()
	require.NoError(t, env.svc.CreateRule(ctx, &Automation{
		Name:    "Boas-vindas",
		Enabled: true,
		Trigger: TriggerSpec{Type: TriggerClientStatusChanged, Status: client.StatusOnboarding},
		Action:  ActionSpec{Type: ActionCreateTask, Title: "Ligar para dar boas-vindas", DaysUntilDue: 2},
	}))
	c := &client.Client{ID: primitive.NewObjectID(), Name: "Maria"}

	require.NoError(t, env.svc.OnClientStatusChanged(ctx, c, client.StatusOnboarding))

	require.Len(t, env.tasks.tasks, 1)
	assert.Equal(t, now.Add(48*time.Hour), env.tasks.tasks[0].DueDate)
	require.NotNil(t, env.tasks.tasks[0].ClientID)
	assert.Equal(t, c.ID, *env.tasks.tasks[0].ClientID)

	runs := env.runs.all()
	require.Len(t, runs, 1)
	assert.Equal(t, RunSourceEvent, runs[0].Source)
	assert.Equal(t, TriggerClientStatusChanged, runs[0].Trigger)
}

func TestOnLeadCreatedWithoutRulesRecordsNothing(t *testing.T) {
	env := newTestEnv(now)
	env.automations.items = []Automation{inactivityRule("Stale", 7, moveTo(lead.StageNurturing))}
	l := openLead("Acme", now)

	require.NoError(t, env.svc.OnLeadCreated(context.Background(), &l))

	assert.Empty(t, env.runs.all())
	assert.Zero(t, env.leads.updates)
}

func TestOnLeadCreatedReportsFailedCommands(t *testing.T) {
	env := newTestEnv(now)
	env.tasks.err = errors.New("boom")
	env.automations.items = []Automation{{
		ID: primitive.NewObjectID(), Name: "Intro call", Enabled: true,
		Trigger: TriggerSpec{Type: TriggerNewLeadCreated},
		Action:  ActionSpec{Type: ActionCreateTask, Title: "Intro call with {{name}}", DaysUntilDue: 1},
	}}
	l := openLead("Acme", now)

	err := env.svc.OnLeadCreated(context.Background(), &l)

	assert.Error(t, err)
	require.Len(t, env.runs.all(), 1)
	assert.Equal(t, 1, env.runs.all()[0].CommandsFailed)
}

func TestCreateRuleRejectsMalformedRule(t *testing.T) {
	env := newTestEnv(now)

	err := env.svc.CreateRule(context.Background(), ptr(inactivityRule("Zero", 0, moveTo(lead.StageNurturing))))

	var invalid *InvalidRuleError
	assert.True(t, errors.As(err, &invalid))
	assert.ErrorIs(t, err, ErrInvalidTrigger)
	assert.Empty(t, env.automations.items)
	assert.Empty(t, env.audit.actions)
}

func TestRuleLifecycleIsAudited(t *testing.T) {
	env := newTestEnv(now)
	ctx := context.Background()
	rule := inactivityRule("Stale", 7, moveTo(lead.StageNurturing))
	require.NoError(t, env.svc.CreateRule(ctx, &rule))

	rule.Name = "Stale leads"
	require.NoError(t, env.svc.UpdateRule(ctx, &rule))
	require.NoError(t, env.svc.SetEnabled(ctx, rule.ID.Hex(), false))

	got, err := env.svc.GetRule(ctx, rule.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Stale leads", got.Name)
	assert.False(t, got.Enabled)

	require.NoError(t, env.svc.DeleteRule(ctx, rule.ID.Hex()))
	_, err = env.svc.GetRule(ctx, rule.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.svc.DeleteRule(ctx, rule.ID.Hex()), ErrNotFound)

	assert.Len(t, env.audit.actions, 4)
}

func TestExportRunsProducesWorkbook(t *testing.T) {
	env := newTestEnv(now)
	env.runs.runs = []AutomationRun{{RunID: "r1", Trigger: TriggerLeadInactivity, Source: RunSourceManual,
		StartedAt: now, FinishedAt: now, LeadsUpdated: 2, Errors: []string{"a", "b"}}}

	data, err := env.svc.ExportRuns(context.Background(), 10)
	require.NoError(t, err)
	// xlsx is a zip archive
	require.Greater(t, len(data), 4)
	assert.Equal(t, []byte("PK"), data[:2])
}

func ptr(a Automation) *Automation {
	return &a
}
