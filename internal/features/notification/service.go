package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Broadcaster pushes an alert to live dashboard sessions.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

type NotificationService interface {
	CreateAlert(ctx context.Context, alert *Alert) error
	ListAlerts(ctx context.Context, page, limit int64) ([]Alert, int64, error)
	GetUnreadCount(ctx context.Context) (int64, error)
	MarkAsRead(ctx context.Context, id string) error
}

type NotificationServiceImpl struct {
	repo        NotificationRepository
	broadcaster Broadcaster
	logger      *zap.Logger
}

func NewNotificationService(repo NotificationRepository, broadcaster Broadcaster, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger.Named("notification"),
	}
}

// CreateAlert persists the alert and fans system-channel alerts out to live sessions.
func (s *NotificationServiceImpl) CreateAlert(ctx context.Context, alert *Alert) error {
	if err := s.repo.Create(ctx, alert); err != nil {
		return fmt.Errorf("failed to store alert: %w", err)
	}
	alert.fillLabels()

	for _, ch := range alert.Channels {
		switch ch {
		case ChannelEmail, ChannelMobile, ChannelSystem:
		default:
			s.logger.Warn("alert uses unknown channel", zap.String("alert_id", alert.ID.Hex()), zap.String("channel", string(ch)))
		}
	}

	if alert.HasChannel(ChannelSystem) && s.broadcaster != nil {
		s.broadcaster.Broadcast("alert", alert)
	}
	return nil
}

func (s *NotificationServiceImpl) ListAlerts(ctx context.Context, page, limit int64) ([]Alert, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	alerts, total, err := s.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range alerts {
		alerts[i].fillLabels()
	}
	return alerts, total, nil
}

func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context) (int64, error) {
	return s.repo.CountUnread(ctx)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id string) error {
	return s.repo.MarkAsRead(ctx, id)
}
