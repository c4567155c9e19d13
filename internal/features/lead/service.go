package lead

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// AutomationTrigger is fired inline after a lead is persisted.
type AutomationTrigger interface {
	OnLeadCreated(ctx context.Context, lead *Lead) error
}

type LeadService interface {
	CreateLead(ctx context.Context, lead *Lead) error
	GetLead(ctx context.Context, id string) (*Lead, error)
	ListLeads(ctx context.Context, filter ListFilter) ([]Lead, error)
	UpdateLead(ctx context.Context, id string, patch Patch) (*Lead, error)
	MarkContacted(ctx context.Context, id string) (*Lead, error)
	DeleteLead(ctx context.Context, id string) error
}

type LeadServiceImpl struct {
	Repo       LeadRepository
	Automation AutomationTrigger
	Logger     *zap.Logger
	Now        func() time.Time
}

func NewLeadService(repo LeadRepository, automation AutomationTrigger, logger *zap.Logger) LeadService {
	return &LeadServiceImpl{
		Repo:       repo,
		Automation: automation,
		Logger:     logger.Named("lead"),
		Now:        time.Now,
	}
}

func (s *LeadServiceImpl) CreateLead(ctx context.Context, lead *Lead) error {
	if lead.Stage == "" {
		lead.Stage = StageNew
	}
	if lead.Status == "" {
		lead.Status = StatusOpen
	}
	if err := validate(lead.Stage, lead.Status); err != nil {
		return err
	}
	if lead.LastContacted.IsZero() {
		lead.LastContacted = s.Now()
	}

	if err := s.Repo.Create(ctx, lead); err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	// Automations must never fail the write that caused them
	if s.Automation != nil {
		if err := s.Automation.OnLeadCreated(ctx, lead); err != nil {
			s.Logger.Error("new-lead automations failed", zap.String("lead_id", lead.ID.Hex()), zap.Error(err))
		}
	}
	return nil
}

func (s *LeadServiceImpl) GetLead(ctx context.Context, id string) (*Lead, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *LeadServiceImpl) ListLeads(ctx context.Context, filter ListFilter) ([]Lead, error) {
	return s.Repo.List(ctx, filter)
}

func (s *LeadServiceImpl) UpdateLead(ctx context.Context, id string, patch Patch) (*Lead, error) {
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(existing)
	if err := validate(existing.Stage, existing.Status); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, existing.ID, patch); err != nil {
		return nil, err
	}
	return existing, nil
}

// MarkContacted records a touchpoint, which re-arms inactivity rules for the lead.
func (s *LeadServiceImpl) MarkContacted(ctx context.Context, id string) (*Lead, error) {
	now := s.Now()
	return s.UpdateLead(ctx, id, Patch{LastContacted: &now})
}

func (s *LeadServiceImpl) DeleteLead(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func validate(stage Stage, status Status) error {
	if !stage.Valid() {
		return fmt.Errorf("%w: unknown stage %q", ErrInvalid, stage)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}
	return nil
}
