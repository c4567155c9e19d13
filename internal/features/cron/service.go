package cron_feature

import (
	"context"
	"fmt"
	"sync"
	"time"

	common_models "firm-crm/internal/common/models"
	"firm-crm/internal/config"
	"firm-crm/internal/features/audit"
	"firm-crm/internal/features/automation"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const auditTimeout = 10 * time.Second

type CronService interface {
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
	// RunOnce runs the inactivity pass as the scheduler would.
	RunOnce(ctx context.Context) error
	Status() JobStatus
}

// InactivityRunner is the automation entry point the scheduler drives.
type InactivityRunner interface {
	RunInactivityPass(ctx context.Context, source automation.RunSource) (*automation.AutomationRun, error)
}

type CronServiceImpl struct {
	runner       InactivityRunner
	auditService audit.AuditService
	logger       *zap.Logger

	schedule string
	enabled  bool
	timeout  time.Duration

	scheduler *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	status    JobStatus
}

func NewCronService(
	cfg *config.Config,
	runner automation.AutomationService,
	auditService audit.AuditService,
	logger *zap.Logger,
) CronService {
	return newCronService(cfg, runner, auditService, logger)
}

func newCronService(cfg *config.Config, runner InactivityRunner, auditService audit.AuditService, logger *zap.Logger) *CronServiceImpl {
	return &CronServiceImpl{
		runner:       runner,
		auditService: auditService,
		logger:       logger.Named("cron"),
		schedule:     cfg.AutomationSchedule,
		enabled:      cfg.SchedulerEnabled,
		timeout:      cfg.RunLockTTL,
		status: JobStatus{
			Name:     InactivityJobName,
			Schedule: cfg.AutomationSchedule,
			Enabled:  cfg.SchedulerEnabled,
		},
	}
}

func (s *CronServiceImpl) InitializeScheduler(ctx context.Context) error {
	if !s.enabled {
		s.logger.Info("automation scheduler disabled")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid automation schedule %q: %w", s.schedule, err)
	}

	cronLogger := zapCronLogger{sugar: s.logger.Sugar()}
	s.mu.Lock()
	s.scheduler = cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	entryID, err := s.scheduler.AddFunc(s.schedule, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.logger.Error("scheduled inactivity pass failed", zap.Error(err))
		}
	})
	if err != nil {
		s.scheduler = nil
		s.mu.Unlock()
		return fmt.Errorf("failed to add cron job to scheduler: %w", err)
	}
	s.entryID = entryID
	s.mu.Unlock()

	s.scheduler.Start()
	s.logger.Info("automation scheduler started", zap.String("schedule", s.schedule))
	return nil
}

func (s *CronServiceImpl) StopScheduler() error {
	s.mu.RLock()
	scheduler := s.scheduler
	s.mu.RUnlock()

	if scheduler != nil {
		ctx := scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

func (s *CronServiceImpl) RunOnce(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now().UTC()
	s.mu.Lock()
	s.status.Running = true
	s.mu.Unlock()

	run, err := s.runner.RunInactivityPass(runCtx, automation.RunSourceScheduler)

	s.mu.Lock()
	s.status.Running = false
	s.status.LastRun = &startTime
	if err != nil {
		s.status.LastError = err.Error()
	} else {
		s.status.LastError = ""
		s.status.LastRunID = run.RunID
		s.status.LastLeadsUpdated = run.LeadsUpdated
	}
	s.mu.Unlock()

	auditStatus := "success"
	if err != nil {
		auditStatus = "failed"
	}
	// the run may have used up runCtx
	auditCtx, cancelAudit := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancelAudit()
	if aerr := s.auditService.LogChange(auditCtx, common_models.AuditActionCron, "cron", InactivityJobName, map[string]common_models.Change{
		"status": {New: auditStatus},
	}); aerr != nil {
		s.logger.Warn("failed to audit scheduled run", zap.Error(aerr))
	}

	return err
}

func (s *CronServiceImpl) Status() JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := s.status
	if s.scheduler != nil {
		if next := s.scheduler.Entry(s.entryID).Next; !next.IsZero() {
			status.NextRun = &next
		}
	}
	return status
}
