package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/styllobarber/styllobarber-api/internal/email"
	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/repository"
	"github.com/styllobarber/styllobarber-api/pkg/logger"
)

// Service records in-app notifications and mirrors them to email. Email
// failures are logged and swallowed; the in-app record is the source of
// truth and a booking must never fail because SMTP is down.
type Service struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
	emailSvc email.Service
	logger   *logger.Logger
}

func NewService(repo repository.NotificationRepository, userRepo repository.UserRepository, emailSvc email.Service, logger *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		emailSvc: emailSvc,
		logger:   logger,
	}
}

func (s *Service) Notify(ctx context.Context, userID uuid.UUID, typ model.NotificationType, subject, body string) error {
	now := time.Now()
	n := &model.Notification{
		Base:    model.Base{ID: uuid.New()},
		UserID:  userID,
		Type:    typ,
		Subject: subject,
		Body:    body,
		SentAt:  &now,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		s.logger.Error(err, "failed to resolve notification recipient", "user_id", userID)
		return nil
	}
	if err := s.emailSvc.SendCustom(ctx, user.Email, subject, body); err != nil {
		s.logger.Error(err, "failed to email notification", "user_id", userID)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*model.Notification, error) {
	notifications, err := s.repo.ListForUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}
