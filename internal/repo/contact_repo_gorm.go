package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"produce-market/internal/domain"
	"produce-market/pkg/utils"
)

type ContactRepo struct{ db *gorm.DB }

func NewContactRepo(db *gorm.DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) Create(ctx context.Context, msg *domain.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = utils.NewID()
	}
	m := ContactModel{
		ID: msg.ID, Name: msg.Name, Email: msg.Email, Subject: msg.Subject,
		Message: msg.Message, SenderRole: string(msg.SenderRole), Status: string(msg.Status),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	msg.CreatedAt = m.CreatedAt
	return nil
}

func (r *ContactRepo) List(ctx context.Context) ([]domain.ContactMessage, error) {
	var ms []ContactModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.ContactMessage, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].toDomain())
	}
	return out, nil
}

func (r *ContactRepo) UpdateStatus(ctx context.Context, id string, st domain.ContactStatus) (*domain.ContactMessage, error) {
	if err := r.db.WithContext(ctx).Model(&ContactModel{}).Where("id = ?", id).Update("status", string(st)).Error; err != nil {
		return nil, err
	}
	var m ContactModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

var _ domain.ContactRepository = (*ContactRepo)(nil)
