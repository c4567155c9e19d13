package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// AutomationTrigger is fired inline when a client's onboarding status is written.
type AutomationTrigger interface {
	OnClientStatusChanged(ctx context.Context, client *Client, newStatus OnboardingStatus) error
}

type ClientService interface {
	CreateClient(ctx context.Context, client *Client) error
	GetClient(ctx context.Context, id string) (*Client, error)
	ListClients(ctx context.Context, status OnboardingStatus) ([]Client, error)
	UpdateOnboardingStatus(ctx context.Context, id string, status OnboardingStatus) (*Client, error)
}

type ClientServiceImpl struct {
	Repo       ClientRepository
	Automation AutomationTrigger
	Logger     *zap.Logger
}

func NewClientService(repo ClientRepository, automation AutomationTrigger, logger *zap.Logger) ClientService {
	return &ClientServiceImpl{
		Repo:       repo,
		Automation: automation,
		Logger:     logger.Named("client"),
	}
}

func (s *ClientServiceImpl) CreateClient(ctx context.Context, client *Client) error {
	if client.OnboardingStatus == "" {
		client.OnboardingStatus = StatusProspect
	}
	if !client.OnboardingStatus.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, client.OnboardingStatus)
	}
	return s.Repo.Create(ctx, client)
}

func (s *ClientServiceImpl) GetClient(ctx context.Context, id string) (*Client, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *ClientServiceImpl) ListClients(ctx context.Context, status OnboardingStatus) ([]Client, error) {
	return s.Repo.List(ctx, status)
}

// UpdateOnboardingStatus writes the new status and fires status automations when this call changed it.
// The write is conditional on the stored status differing, so a transition fires at most once.
func (s *ClientServiceImpl) UpdateOnboardingStatus(ctx context.Context, id string, status OnboardingStatus) (*Client, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	client, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client.OnboardingStatus == status {
		return client, nil
	}

	changed, err := s.Repo.UpdateStatus(ctx, client.ID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update onboarding status: %w", err)
	}
	client.OnboardingStatus = status
	if !changed {
		// a concurrent request already applied this transition and fired its automations
		return client, nil
	}

	if s.Automation != nil {
		if err := s.Automation.OnClientStatusChanged(ctx, client, status); err != nil {
			s.Logger.Error("status automations failed",
				zap.String("client_id", client.ID.Hex()),
				zap.String("status", string(status)),
				zap.Error(err))
		}
	}
	return client, nil
}
