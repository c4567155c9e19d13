package automation

import (
	"context"
	"sync"
	"time"

	common_models "firm-crm/internal/common/models"
	"firm-crm/internal/features/email"
	"firm-crm/internal/features/lead"
	"firm-crm/internal/features/notification"
	"firm-crm/internal/features/task"
	"firm-crm/pkg/lock"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memAutomations struct {
	mu    sync.Mutex
	items []Automation
}

func (m *memAutomations) Create(_ context.Context, a *Automation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = primitive.NewObjectID()
	m.items = append(m.items, *a)
	return nil
}

func (m *memAutomations) GetByID(_ context.Context, id string) (*Automation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID.Hex() == id {
			a := m.items[i]
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memAutomations) List(_ context.Context) ([]Automation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Automation(nil), m.items...), nil
}

func (m *memAutomations) Update(_ context.Context, a *Automation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == a.ID {
			m.items[i] = *a
			return nil
		}
	}
	return ErrNotFound
}

func (m *memAutomations) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID.Hex() == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memAutomations) Enable(_ context.Context, id string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID.Hex() == id {
			m.items[i].Enabled = enabled
			return nil
		}
	}
	return ErrNotFound
}

func (m *memAutomations) EnsureIndexes(context.Context) error { return nil }

type memRuns struct {
	mu   sync.Mutex
	runs []AutomationRun
}

func (m *memRuns) Create(_ context.Context, run *AutomationRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run.ID = primitive.NewObjectID()
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memRuns) List(_ context.Context, limit int64) ([]AutomationRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := append([]AutomationRun(nil), m.runs...)
	if int64(len(runs)) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *memRuns) EnsureIndexes(context.Context) error { return nil }

func (m *memRuns) all() []AutomationRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]AutomationRun(nil), m.runs...)
}

type memLeads struct {
	mu      sync.Mutex
	leads   []lead.Lead
	updates int
}

func (m *memLeads) ListOpen(context.Context) ([]lead.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var open []lead.Lead
	for _, l := range m.leads {
		if l.IsOpen() {
			open = append(open, l)
		}
	}
	return open, nil
}

func (m *memLeads) UpdateOpen(_ context.Context, id primitive.ObjectID, patch lead.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.leads {
		if m.leads[i].ID == id {
			if !m.leads[i].IsOpen() {
				return lead.ErrNotOpen
			}
			patch.Apply(&m.leads[i])
			m.updates++
			return nil
		}
	}
	return lead.ErrNotFound
}

func (m *memLeads) get(id primitive.ObjectID) lead.Lead {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.leads {
		if l.ID == id {
			return l
		}
	}
	return lead.Lead{}
}

type memTasks struct {
	mu    sync.Mutex
	tasks []task.Task
	err   error
}

func (m *memTasks) Create(_ context.Context, t *task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	t.ID = primitive.NewObjectID()
	m.tasks = append(m.tasks, *t)
	return nil
}

type memEmails struct {
	mu     sync.Mutex
	emails []email.Email
}

func (m *memEmails) Record(_ context.Context, e *email.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = primitive.NewObjectID()
	e.Status = email.EmailSimulated
	m.emails = append(m.emails, *e)
	return nil
}

type memAlerts struct {
	mu     sync.Mutex
	alerts []notification.Alert
}

func (m *memAlerts) CreateAlert(_ context.Context, a *notification.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = primitive.NewObjectID()
	m.alerts = append(m.alerts, *a)
	return nil
}

type fakeAudit struct {
	mu      sync.Mutex
	actions []common_models.AuditAction
	// ctxErrs holds ctx.Err() as seen by each LogChange call
	ctxErrs []error
}

func (f *fakeAudit) LogChange(ctx context.Context, action common_models.AuditAction, _ string, _ string, _ map[string]common_models.Change) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return ctx.Err()
}

func (f *fakeAudit) ListLogs(context.Context, map[string]interface{}, int64, int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

type testEnv struct {
	svc         *AutomationServiceImpl
	automations *memAutomations
	runs        *memRuns
	leads       *memLeads
	tasks       *memTasks
	emails      *memEmails
	alerts      *memAlerts
	audit       *fakeAudit
}

func newTestEnv(clock time.Time) *testEnv {
	env := &testEnv{
		automations: &memAutomations{},
		runs:        &memRuns{},
		leads:       &memLeads{},
		tasks:       &memTasks{},
		emails:      &memEmails{},
		alerts:      &memAlerts{},
		audit:       &fakeAudit{},
	}
	clockFn := func() time.Time { return clock }
	executor := &ActionExecutorImpl{
		Leads:  env.leads,
		Tasks:  env.tasks,
		Emails: env.emails,
		Alerts: env.alerts,
		Logger: zap.NewNop(),
		Now:    clockFn,
	}
	env.svc = &AutomationServiceImpl{
		Repo:         env.automations,
		Runs:         env.runs,
		Leads:        env.leads,
		Engine:       NewEngine(),
		Executor:     executor,
		Locker:       lock.NewLocalLocker(),
		AuditService: env.audit,
		Logger:       zap.NewNop(),
		Now:          clockFn,
	}
	return env
}
