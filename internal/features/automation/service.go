package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	common_models "firm-crm/internal/common/models"
	"firm-crm/internal/config"
	"firm-crm/internal/features/audit"
	"firm-crm/internal/features/client"
	"firm-crm/internal/features/lead"
	"firm-crm/pkg/lock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InactivityLockKey serializes batch passes across callers and replicas.
const InactivityLockKey = "automation:inactivity"

const auditModule = "automation"

// bookkeepingTimeout bounds the run record and audit writes after a pass.
const bookkeepingTimeout = 10 * time.Second

type AutomationService interface {
	CreateRule(ctx context.Context, automation *Automation) error
	GetRule(ctx context.Context, id string) (*Automation, error)
	ListRules(ctx context.Context) ([]Automation, error)
	UpdateRule(ctx context.Context, automation *Automation) error
	DeleteRule(ctx context.Context, id string) error
	SetEnabled(ctx context.Context, id string, enabled bool) error

	// RunInactivityPass evaluates every inactivity rule against the open leads
	// and applies the resulting commands. Passes never overlap.
	RunInactivityPass(ctx context.Context, source RunSource) (*AutomationRun, error)
	OnLeadCreated(ctx context.Context, l *lead.Lead) error
	OnClientStatusChanged(ctx context.Context, c *client.Client, newStatus client.OnboardingStatus) error

	ListRuns(ctx context.Context, limit int64) ([]AutomationRun, error)
	ExportRuns(ctx context.Context, limit int64) ([]byte, error)
}

// OpenLeadLister is the slice of the lead store the batch pass reads.
type OpenLeadLister interface {
	ListOpen(ctx context.Context) ([]lead.Lead, error)
}

type AutomationServiceImpl struct {
	Repo         AutomationRepository
	Runs         RunRepository
	Leads        OpenLeadLister
	Engine       *Engine
	Executor     ActionExecutor
	Locker       lock.Locker
	AuditService audit.AuditService
	Logger       *zap.Logger
	Now          func() time.Time
	// PassTimeout caps a batch pass once the lock is held. It matches the lock
	// TTL so the lock cannot expire under a running pass.
	PassTimeout time.Duration
}

func NewAutomationService(
	cfg *config.Config,
	repo AutomationRepository,
	runs RunRepository,
	leadRepo lead.LeadRepository,
	executor ActionExecutor,
	locker lock.Locker,
	auditService audit.AuditService,
	logger *zap.Logger,
) AutomationService {
	return &AutomationServiceImpl{
		Repo:         repo,
		Runs:         runs,
		Leads:        leadRepo,
		Engine:       NewEngine(),
		Executor:     executor,
		Locker:       locker,
		AuditService: auditService,
		Logger:       logger.Named("automation"),
		Now:          time.Now,
		PassTimeout:  cfg.RunLockTTL,
	}
}

func (s *AutomationServiceImpl) CreateRule(ctx context.Context, automation *Automation) error {
	if _, err := Compile(*automation); err != nil {
		return err
	}
	if err := s.Repo.Create(ctx, automation); err != nil {
		return err
	}
	s.audit(ctx, automation.ID.Hex(), map[string]common_models.Change{
		"rule": {New: automation},
	})
	return nil
}

func (s *AutomationServiceImpl) GetRule(ctx context.Context, id string) (*Automation, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *AutomationServiceImpl) ListRules(ctx context.Context) ([]Automation, error) {
	return s.Repo.List(ctx)
}

func (s *AutomationServiceImpl) UpdateRule(ctx context.Context, automation *Automation) error {
	if _, err := Compile(*automation); err != nil {
		return err
	}
	oldRule, err := s.Repo.GetByID(ctx, automation.ID.Hex())
	if err != nil {
		return err
	}
	if err := s.Repo.Update(ctx, automation); err != nil {
		return err
	}
	automation.CreatedAt = oldRule.CreatedAt
	s.audit(ctx, automation.ID.Hex(), map[string]common_models.Change{
		"rule": {Old: oldRule, New: automation},
	})
	return nil
}

func (s *AutomationServiceImpl) DeleteRule(ctx context.Context, id string) error {
	oldRule, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, id, map[string]common_models.Change{
		"rule": {Old: oldRule, New: "DELETED"},
	})
	return nil
}

func (s *AutomationServiceImpl) SetEnabled(ctx context.Context, id string, enabled bool) error {
	if err := s.Repo.Enable(ctx, id, enabled); err != nil {
		return err
	}
	s.audit(ctx, id, map[string]common_models.Change{
		"enabled": {Old: !enabled, New: enabled},
	})
	return nil
}

func (s *AutomationServiceImpl) audit(ctx context.Context, recordID string, changes map[string]common_models.Change) {
	if err := s.AuditService.LogChange(ctx, common_models.AuditActionAutomation, auditModule, recordID, changes); err != nil {
		s.Logger.Warn("failed to audit rule change", zap.String("automation_id", recordID), zap.Error(err))
	}
}

func (s *AutomationServiceImpl) RunInactivityPass(ctx context.Context, source RunSource) (*AutomationRun, error) {
	release, err := s.Locker.Acquire(ctx, InactivityLockKey)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	defer release()

	passCtx := ctx
	if s.PassTimeout > 0 {
		var cancel context.CancelFunc
		passCtx, cancel = context.WithTimeout(ctx, s.PassTimeout)
		defer cancel()
	}

	run := s.newRun(TriggerLeadInactivity, source)
	logger := s.Logger.With(zap.String("run_id", run.RunID), zap.String("source", string(source)))

	automations, err := s.Repo.List(passCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to load automations: %w", err)
	}
	leads, err := s.Leads.ListOpen(passCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to load open leads: %w", err)
	}

	res := s.Engine.Evaluate(automations, InactivityCheckEvent{Leads: leads, Now: s.Now()})
	s.apply(passCtx, logger, run, res)
	if passCtx.Err() != nil {
		logger.Warn("inactivity pass hit its deadline", zap.Duration("timeout", s.PassTimeout))
	}

	// the pass deadline may be spent; bookkeeping gets its own budget
	bookCtx, cancelBook := context.WithTimeout(context.WithoutCancel(ctx), bookkeepingTimeout)
	defer cancelBook()
	s.record(bookCtx, logger, run)

	if err := s.AuditService.LogChange(bookCtx, common_models.AuditActionRun, "automation_run", run.RunID, map[string]common_models.Change{
		"leads_updated": {New: run.LeadsUpdated},
	}); err != nil {
		logger.Warn("failed to audit run", zap.Error(err))
	}

	logger.Info("inactivity pass finished",
		zap.Int("leads", len(leads)),
		zap.Int("leads_updated", run.LeadsUpdated),
		zap.Int("rules_fired", run.RulesFired),
		zap.Int("rules_skipped", run.RulesSkipped),
		zap.Int("commands_failed", run.CommandsFailed))
	return run, nil
}

func (s *AutomationServiceImpl) OnLeadCreated(ctx context.Context, l *lead.Lead) error {
	automations, err := s.Repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load automations: %w", err)
	}

	res := s.Engine.Evaluate(automations, LeadCreatedEvent{Lead: *l, Now: s.Now()})
	return s.handleEvent(ctx, TriggerNewLeadCreated, res, zap.String("lead_id", l.ID.Hex()))
}

func (s *AutomationServiceImpl) OnClientStatusChanged(ctx context.Context, c *client.Client, newStatus client.OnboardingStatus) error {
	automations, err := s.Repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load automations: %w", err)
	}

	res := s.Engine.Evaluate(automations, ClientStatusChangedEvent{Client: *c, NewStatus: newStatus, Now: s.Now()})
	return s.handleEvent(ctx, TriggerClientStatusChanged, res,
		zap.String("client_id", c.ID.Hex()), zap.String("status", string(newStatus)))
}

// handleEvent applies an event result. Events that fired nothing and hit no
// errors leave no run behind.
func (s *AutomationServiceImpl) handleEvent(ctx context.Context, trigger TriggerType, res Result, fields ...zap.Field) error {
	if res.Fired == 0 && len(res.Errors) == 0 {
		return nil
	}

	run := s.newRun(trigger, RunSourceEvent)
	logger := s.Logger.With(append(fields, zap.String("run_id", run.RunID))...)
	s.apply(ctx, logger, run, res)
	s.record(ctx, logger, run)

	if run.CommandsFailed > 0 {
		return fmt.Errorf("%d of %d automation commands failed", run.CommandsFailed, len(res.Commands))
	}
	return nil
}

func (s *AutomationServiceImpl) newRun(trigger TriggerType, source RunSource) *AutomationRun {
	return &AutomationRun{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		Source:    source,
		StartedAt: s.Now().UTC(),
		Errors:    []string{},
	}
}

// apply runs the commands and folds engine and command errors into run.
func (s *AutomationServiceImpl) apply(ctx context.Context, logger *zap.Logger, run *AutomationRun, res Result) {
	for _, err := range res.Errors {
		var invalid *InvalidRuleError
		var missing *MissingContextError
		switch {
		case errors.As(err, &invalid):
			logger.Warn("skipped malformed automation", zap.String("automation_id", invalid.AutomationID.Hex()), zap.Error(err))
		case errors.As(err, &missing):
			logger.Warn("automation fired without required context", zap.String("automation_id", missing.AutomationID.Hex()), zap.Error(err))
		default:
			logger.Warn("automation evaluation error", zap.Error(err))
		}
		run.Errors = append(run.Errors, err.Error())
	}

	cmdErrs := s.Executor.ExecuteCommands(ctx, res.Commands)
	for _, err := range cmdErrs {
		run.Errors = append(run.Errors, err.Error())
	}

	run.LeadsUpdated = res.LeadsUpdated
	run.RulesFired = res.Fired
	run.RulesSkipped = res.Skipped
	run.CommandsFailed = len(cmdErrs)
	run.CommandsApplied = len(res.Commands) - len(cmdErrs)
	run.FinishedAt = s.Now().UTC()
}

func (s *AutomationServiceImpl) record(ctx context.Context, logger *zap.Logger, run *AutomationRun) {
	if err := s.Runs.Create(ctx, run); err != nil {
		logger.Error("failed to store automation run", zap.Error(err))
	}
}

func (s *AutomationServiceImpl) ListRuns(ctx context.Context, limit int64) ([]AutomationRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.Runs.List(ctx, limit)
}

func (s *AutomationServiceImpl) ExportRuns(ctx context.Context, limit int64) ([]byte, error) {
	runs, err := s.ListRuns(ctx, limit)
	if err != nil {
		return nil, err
	}
	return runsToExcel(runs)
}
