package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"produce-market/internal/domain"
	"produce-market/internal/repo/memory"
	"produce-market/internal/service"
)

func TestContactFlow(t *testing.T) {
	svc := service.NewContactService(memory.NewContactRepository(), nil)
	ctx := context.Background()
	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}
	buyer := &domain.User{ID: "b1", Role: domain.RoleBuyer}

	anon, err := svc.Submit(ctx, nil, service.ContactInput{Name: "Ann", Email: "ann@x.io", Subject: "Bulk", Message: "Do you deliver?"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleBuyer, anon.SenderRole)
	assert.Equal(t, domain.ContactNew, anon.Status)

	fromAdmin, err := svc.Submit(ctx, admin, service.ContactInput{Name: "Root", Email: "r@x.io", Subject: "Test", Message: "ping"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, fromAdmin.SenderRole)

	_, err = svc.Submit(ctx, nil, service.ContactInput{Name: "Ann", Email: "ann@x.io"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	msgs, err := svc.List(ctx, admin)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, fromAdmin.ID, msgs[0].ID)

	_, err = svc.List(ctx, buyer)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	upd, err := svc.UpdateStatus(ctx, admin, anon.ID, "read")
	require.NoError(t, err)
	assert.Equal(t, domain.ContactRead, upd.Status)

	_, err = svc.UpdateStatus(ctx, admin, anon.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.UpdateStatus(ctx, admin, "missing", "read")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.UpdateStatus(ctx, buyer, anon.ID, "read")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
