// Package repotest is a behaviour suite every domain.Store backend must pass.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"produce-market/internal/domain"
)

// MissingID is well formed for every backend but never assigned.
const MissingID = "000000000000000000000000"

// Run exercises s. newStore must return an empty store each call.
func Run(t *testing.T, newStore func(t *testing.T) domain.Store) {
	t.Run("users", func(t *testing.T) { users(t, newStore(t)) })
	t.Run("products", func(t *testing.T) { products(t, newStore(t)) })
	t.Run("orders", func(t *testing.T) { orders(t, newStore(t)) })
	t.Run("contacts", func(t *testing.T) { contacts(t, newStore(t)) })
}

// tick keeps createdAt strictly increasing on backends with ms precision.
func tick() { time.Sleep(2 * time.Millisecond) }

func mkUser(t *testing.T, s domain.Store, email string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{FullName: "Test " + email, Email: email, PhoneNumber: "5550100", PasswordHash: "x", Role: role}
	require.NoError(t, s.Users.Create(context.Background(), u))
	tick()
	return u
}

func users(t *testing.T, s domain.Store) {
	ctx := context.Background()
	b1 := mkUser(t, s, "b1@farm.io", domain.RoleBuyer)
	b2 := mkUser(t, s, "b2@farm.io", domain.RoleBuyer)
	a := mkUser(t, s, "a@farm.io", domain.RoleAdmin)

	require.NotEmpty(t, b1.ID)
	assert.False(t, b1.CreatedAt.IsZero())

	err := s.Users.Create(ctx, &domain.User{Email: "b1@farm.io", Role: domain.RoleBuyer})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	got, err := s.Users.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Equal(t, "x", got.PasswordHash)

	got, err = s.Users.FindByEmail(ctx, "b2@farm.io")
	require.NoError(t, err)
	assert.Equal(t, b2.ID, got.ID)

	_, err = s.Users.FindByID(ctx, MissingID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = s.Users.FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	byID, err := s.Users.FindByIDs(ctx, []string{b1.ID, a.ID, MissingID})
	require.NoError(t, err)
	assert.Len(t, byID, 2)
	assert.Equal(t, "b1@farm.io", byID[b1.ID].Email)

	buyers, err := s.Users.ListByRole(ctx, domain.RoleBuyer)
	require.NoError(t, err)
	require.Len(t, buyers, 2)
	assert.Equal(t, b2.ID, buyers[0].ID)
	assert.Equal(t, b1.ID, buyers[1].ID)
}

func products(t *testing.T, s domain.Store) {
	ctx := context.Background()
	a := mkUser(t, s, "admin@farm.io", domain.RoleAdmin)

	carrots := &domain.Product{Name: "Carrots 20kg", Price: 18.5, Image: "carrots.png", Description: "crate", CreatedBy: a.ID}
	require.NoError(t, s.Products.Create(ctx, carrots))
	tick()
	leeks := &domain.Product{Name: "Leeks 10kg", Price: 9, Image: "leeks.png", Description: "bundle", CreatedBy: a.ID}
	require.NoError(t, s.Products.Create(ctx, leeks))

	dup, err := s.Products.FindByNameAndOwner(ctx, "Carrots 20kg", a.ID)
	require.NoError(t, err)
	assert.Equal(t, carrots.ID, dup.ID)
	_, err = s.Products.FindByNameAndOwner(ctx, "Carrots 20kg", MissingID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	list, err := s.Products.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, leeks.ID, list[0].ID)

	upd := *carrots
	upd.Price = 21
	upd.Description = "bigger crate"
	require.NoError(t, s.Products.Update(ctx, &upd))
	got, err := s.Products.FindByID(ctx, carrots.ID)
	require.NoError(t, err)
	assert.Equal(t, 21.0, got.Price)
	assert.Equal(t, "bigger crate", got.Description)
	assert.Equal(t, a.ID, got.CreatedBy)

	missing := domain.Product{ID: MissingID, Name: "x"}
	assert.ErrorIs(t, s.Products.Update(ctx, &missing), domain.ErrProductNotFound)

	deleted, err := s.Products.Delete(ctx, leeks.ID)
	require.NoError(t, err)
	assert.Equal(t, "Leeks 10kg", deleted.Name)
	_, err = s.Products.FindByID(ctx, leeks.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = s.Products.Delete(ctx, leeks.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	found, err := s.Products.FindByIDs(ctx, []string{carrots.ID, leeks.ID})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func orders(t *testing.T, s domain.Store) {
	ctx := context.Background()
	a := mkUser(t, s, "admin@farm.io", domain.RoleAdmin)
	b1 := mkUser(t, s, "b1@farm.io", domain.RoleBuyer)
	b2 := mkUser(t, s, "b2@farm.io", domain.RoleBuyer)
	p1 := &domain.Product{Name: "Apples", Price: 10, CreatedBy: a.ID}
	p2 := &domain.Product{Name: "Pears", Price: 5, CreatedBy: a.ID}
	require.NoError(t, s.Products.Create(ctx, p1))
	require.NoError(t, s.Products.Create(ctx, p2))

	first := &domain.Order{
		BuyerID: b1.ID, Address: "1 Mill Road", Status: domain.StatusPlaced, Price: 35,
		Items: []domain.LineItem{{ProductID: p1.ID, Quantity: 2}, {ProductID: p2.ID, Quantity: 3}},
	}
	require.NoError(t, s.Orders.Create(ctx, first))
	tick()
	second := &domain.Order{
		BuyerID: b1.ID, Address: "1 Mill Road", Status: domain.StatusPlaced, Price: 10,
		Items: []domain.LineItem{{ProductID: p1.ID, Quantity: 1}},
	}
	require.NoError(t, s.Orders.Create(ctx, second))
	tick()
	other := &domain.Order{
		BuyerID: b2.ID, Address: "9 Dock St", Status: domain.StatusPlaced, Price: 5,
		Items: []domain.LineItem{{ProductID: p2.ID, Quantity: 1}},
	}
	require.NoError(t, s.Orders.Create(ctx, other))

	got, err := s.Orders.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, b1.ID, got.BuyerID)
	assert.Equal(t, 35.0, got.Price)
	assert.Equal(t, domain.StatusPlaced, got.Status)
	assert.Equal(t, first.Items, got.Items)

	mine, err := s.Orders.ListByBuyer(ctx, b1.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	all, err := s.Orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, other.ID, all[0].ID)

	upd, err := s.Orders.UpdateStatus(ctx, first.ID, domain.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, upd.Status)
	// setting the same value again is not a miss
	_, err = s.Orders.UpdateStatus(ctx, first.ID, domain.StatusShipped)
	require.NoError(t, err)
	_, err = s.Orders.UpdateStatus(ctx, MissingID, domain.StatusShipped)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	require.NoError(t, s.Orders.Delete(ctx, first.ID))
	_, err = s.Orders.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.ErrorIs(t, s.Orders.Delete(ctx, first.ID), domain.ErrOrderNotFound)

	mine, err = s.Orders.ListByBuyer(ctx, b1.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func contacts(t *testing.T, s domain.Store) {
	ctx := context.Background()
	m1 := &domain.ContactMessage{Name: "Ann", Email: "ann@x.io", Subject: "Bulk", Message: "Do you ship?", Status: domain.ContactNew}
	require.NoError(t, s.Contacts.Create(ctx, m1))
	tick()
	m2 := &domain.ContactMessage{Name: "Bo", Email: "bo@x.io", Subject: "Hi", Message: "Hello", Status: domain.ContactNew}
	require.NoError(t, s.Contacts.Create(ctx, m2))

	list, err := s.Contacts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, m2.ID, list[0].ID)

	upd, err := s.Contacts.UpdateStatus(ctx, m1.ID, domain.ContactRead)
	require.NoError(t, err)
	assert.Equal(t, domain.ContactRead, upd.Status)
	assert.Equal(t, "Do you ship?", upd.Message)

	_, err = s.Contacts.UpdateStatus(ctx, MissingID, domain.ContactRead)
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}
