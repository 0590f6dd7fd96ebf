package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"produce-market/internal/domain"
	"produce-market/internal/policy"
)

type ContactService struct {
	repo domain.ContactRepository
	log  *zap.Logger
}

func NewContactService(repo domain.ContactRepository, l *zap.Logger) *ContactService {
	if l == nil {
		l = zap.NewNop()
	}
	return &ContactService{repo: repo, log: l.Named("contact")}
}

type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Submit stores a message from the public contact form. caller is nil for
// anonymous senders, who are recorded as buyers.
func (s *ContactService) Submit(ctx context.Context, caller *domain.User, in ContactInput) (*domain.ContactMessage, error) {
	m := &domain.ContactMessage{
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.TrimSpace(in.Email),
		Subject:    strings.TrimSpace(in.Subject),
		Message:    strings.TrimSpace(in.Message),
		SenderRole: domain.RoleBuyer,
		Status:     domain.ContactNew,
	}
	if m.Name == "" || m.Email == "" || m.Subject == "" || m.Message == "" {
		return nil, domain.Validation("All fields are required.")
	}
	if caller != nil {
		m.SenderRole = caller.Role
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info("contact message received", zap.String("message", m.ID), zap.String("sender_role", string(m.SenderRole)))
	return m, nil
}

func (s *ContactService) List(ctx context.Context, caller *domain.User) ([]domain.ContactMessage, error) {
	if err := policy.Authorize(caller, policy.ListMessages, policy.None); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// UpdateStatus is the only mutation admins may make to a message.
func (s *ContactService) UpdateStatus(ctx context.Context, caller *domain.User, id, status string) (*domain.ContactMessage, error) {
	if err := policy.Authorize(caller, policy.UpdateMessage, policy.None); err != nil {
		return nil, err
	}
	st := domain.ContactStatus(strings.TrimSpace(status))
	if !st.Valid() {
		return nil, domain.Validationf("invalid message status %q", status)
	}
	return s.repo.UpdateStatus(ctx, id, st)
}
