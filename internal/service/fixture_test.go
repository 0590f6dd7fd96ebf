package service_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"produce-market/internal/domain"
	"produce-market/internal/metrics"
	"produce-market/internal/repo/memory"
	"produce-market/internal/service"
)

type fixture struct {
	store    domain.Store
	metrics  *metrics.StoreMetrics
	orders   *service.OrderService
	products *service.ProductService

	buyer, otherBuyer, admin *domain.User
	apples, pears            *domain.Product
}

// newFixture seeds two buyers, an admin and two products priced 10 and 5.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	m := metrics.NewStoreMetricsWith(prometheus.NewRegistry())
	l := zaptest.NewLogger(t)

	f := &fixture{
		store:    store,
		metrics:  m,
		orders:   service.NewOrderService(store, m, l),
		products: service.NewProductService(store.Products, nil, 0, l),
	}
	f.buyer = seedUser(t, store, "buyer@farm.io", domain.RoleBuyer)
	f.otherBuyer = seedUser(t, store, "other@farm.io", domain.RoleBuyer)
	f.admin = seedUser(t, store, "admin@farm.io", domain.RoleAdmin)

	f.apples = &domain.Product{Name: "Apples 10kg", Price: 10, Image: "apples.png", Description: "crate", CreatedBy: f.admin.ID}
	f.pears = &domain.Product{Name: "Pears 10kg", Price: 5, Image: "pears.png", Description: "crate", CreatedBy: f.admin.ID}
	require.NoError(t, store.Products.Create(ctx, f.apples))
	require.NoError(t, store.Products.Create(ctx, f.pears))
	return f
}

func seedUser(t *testing.T, s domain.Store, email string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{FullName: "User " + email, Email: email, PhoneNumber: "5550100", Role: role}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

// place is a buyer placing 2 apples and 3 pears (total 35).
func (f *fixture) place(t *testing.T, buyer *domain.User) *domain.Order {
	t.Helper()
	o, err := f.orders.Place(context.Background(), buyer, service.PlaceOrderInput{
		Address: "1 Mill Road",
		Items: []domain.LineItem{
			{ProductID: f.apples.ID, Quantity: 2},
			{ProductID: f.pears.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)
	return o
}
