package email

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the outbox persistence the service needs; *EmailRepository satisfies it.
type Store interface {
	Create(ctx context.Context, email *Email) error
	List(ctx context.Context, limit int64) ([]Email, error)
}

// EmailService records simulated sends. Nothing here talks to a mail server.
type EmailService interface {
	Record(ctx context.Context, email *Email) error
	ListOutbox(ctx context.Context, limit int64) ([]Email, error)
}

type EmailServiceImpl struct {
	Repo   Store
	Logger *zap.Logger
}

func NewEmailService(repo *EmailRepository, logger *zap.Logger) EmailService {
	return &EmailServiceImpl{
		Repo:   repo,
		Logger: logger.Named("email"),
	}
}

func (s *EmailServiceImpl) Record(ctx context.Context, email *Email) error {
	email.ID = primitive.NewObjectID()
	email.Status = EmailSimulated

	if err := s.Repo.Create(ctx, email); err != nil {
		return fmt.Errorf("failed to record email: %w", err)
	}

	s.Logger.Info("simulated email send",
		zap.String("email_id", email.ID.Hex()),
		zap.String("subject", email.Subject),
		zap.String("automation", email.AutomationName))
	return nil
}

func (s *EmailServiceImpl) ListOutbox(ctx context.Context, limit int64) ([]Email, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.Repo.List(ctx, limit)
}
