package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"produce-market/internal/domain"
	"produce-market/internal/service"
)

func TestPlace_TotalIsSnapshotOfPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o := f.place(t, f.buyer)
	assert.Equal(t, 35.0, o.Price)
	assert.Equal(t, domain.StatusPlaced, o.Status)
	assert.Equal(t, f.buyer.ID, o.BuyerID)

	// later price changes do not touch the stored total
	price := 99.0
	_, err := f.products.Update(ctx, f.admin, f.apples.ID, service.ProductInput{Price: &price})
	require.NoError(t, err)

	stored, err := f.store.Orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 35.0, stored.Price)
}

func TestPlace_QuantityDefaultsToOne(t *testing.T) {
	f := newFixture(t)
	o, err := f.orders.Place(context.Background(), f.buyer, service.PlaceOrderInput{
		Address: "1 Mill Road",
		Items:   []domain.LineItem{{ProductID: f.apples.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, o.Items[0].Quantity)
	assert.Equal(t, 10.0, o.Price)
}

func TestPlace_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := []domain.LineItem{{ProductID: f.apples.ID, Quantity: 1}}

	tests := []struct {
		name   string
		caller *domain.User
		in     service.PlaceOrderInput
		kind   error
	}{
		{"anonymous", nil, service.PlaceOrderInput{Address: "a", Items: item}, domain.ErrUnauthorized},
		{"admin", f.admin, service.PlaceOrderInput{Address: "a", Items: item}, domain.ErrForbidden},
		{"blank address", f.buyer, service.PlaceOrderInput{Address: "  ", Items: item}, domain.ErrValidation},
		{"no items", f.buyer, service.PlaceOrderInput{Address: "a"}, domain.ErrValidation},
		{"negative quantity", f.buyer, service.PlaceOrderInput{Address: "a", Items: []domain.LineItem{{ProductID: f.apples.ID, Quantity: -1}}}, domain.ErrValidation},
		{"unknown product", f.buyer, service.PlaceOrderInput{Address: "a", Items: []domain.LineItem{{ProductID: f.apples.ID, Quantity: 1}, {ProductID: "gone", Quantity: 1}}}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.Place(ctx, tt.caller, tt.in)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	// nothing was persisted by any failed call
	all, err := f.store.Orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPlace_ForbiddenMessageForAdmin(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.Place(context.Background(), f.admin, service.PlaceOrderInput{
		Address: "a",
		Items:   []domain.LineItem{{ProductID: f.apples.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, "Only buyers can place orders", err.Error())
}

func TestPlace_UnknownProductNamesTheID(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.Place(context.Background(), f.buyer, service.PlaceOrderInput{
		Address: "a",
		Items:   []domain.LineItem{{ProductID: "p-404", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, "product not found: p-404", err.Error())
}

type countingTx struct {
	store domain.Store
	calls atomic.Int32
}

func (c *countingTx) InTx(ctx context.Context, fn func(context.Context, domain.Store) error) error {
	c.calls.Add(1)
	return fn(ctx, c.store)
}

func TestPlace_UsesTxRunnerWhenSet(t *testing.T) {
	f := newFixture(t)
	tx := &countingTx{store: f.store}
	f.orders.WithTx(tx)

	f.place(t, f.buyer)
	assert.Equal(t, int32(1), tx.calls.Load())
}

func TestPlace_TxFailureIsReturned(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("tx aborted")
	f.orders.WithTx(txFunc(func(context.Context, func(context.Context, domain.Store) error) error { return boom }))

	_, err := f.orders.Place(context.Background(), f.buyer, service.PlaceOrderInput{
		Address: "a",
		Items:   []domain.LineItem{{ProductID: f.apples.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, domain.KindOf(err))
}

type txFunc func(context.Context, func(context.Context, domain.Store) error) error

func (f txFunc) InTx(ctx context.Context, fn func(context.Context, domain.Store) error) error {
	return f(ctx, fn)
}

func TestListMine_NewestFirstWithProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.place(t, f.buyer)
	second := f.place(t, f.buyer)
	f.place(t, f.otherBuyer)

	views, err := f.orders.ListMine(ctx, f.buyer)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, second.ID, views[0].ID)
	assert.Equal(t, first.ID, views[1].ID)
	assert.Nil(t, views[0].Buyer)

	require.Len(t, views[0].Products, 2)
	require.NotNil(t, views[0].Products[0].Product)
	assert.Equal(t, "Apples 10kg", views[0].Products[0].Product.Name)
	assert.Equal(t, 2, views[0].Products[0].Quantity)
}

func TestListMine_EmptyIsNotAnError(t *testing.T) {
	f := newFixture(t)
	views, err := f.orders.ListMine(context.Background(), f.buyer)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestListMine_AdminForbidden(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.ListMine(context.Background(), f.admin)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListAll_JoinsBuyerAndSurvivesDeletedProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.place(t, f.buyer)
	f.place(t, f.otherBuyer)

	_, err := f.store.Products.Delete(ctx, f.pears.ID)
	require.NoError(t, err)

	views, err := f.orders.ListAll(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.NotNil(t, views[0].Buyer)
	assert.Equal(t, "other@farm.io", views[0].Buyer.Email)
	assert.Equal(t, f.buyer.ID, views[1].Buyer.ID)

	// the deleted product joins as nil but the line and total remain
	assert.NotNil(t, views[0].Products[0].Product)
	assert.Nil(t, views[0].Products[1].Product)
	assert.Equal(t, f.pears.ID, views[0].Products[1].ProductID)
	assert.Equal(t, 35.0, views[0].Price)

	_, err = f.orders.ListAll(ctx, f.buyer)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateStatus_VisibleOnNextRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, f.buyer)

	updated, err := f.orders.UpdateStatus(ctx, f.admin, o.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)

	views, err := f.orders.ListMine(ctx, f.buyer)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, views[0].Status)
}

func TestUpdateStatus_InvalidLeavesStatusUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, f.buyer)

	for _, bad := range []string{"lost", "", "Shipped"} {
		_, err := f.orders.UpdateStatus(ctx, f.admin, o.ID, bad)
		assert.ErrorIs(t, err, domain.ErrValidation, bad)
	}
	stored, err := f.store.Orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlaced, stored.Status)
}

func TestUpdateStatus_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, f.buyer)

	_, err := f.orders.UpdateStatus(ctx, f.buyer, o.ID, "shipped")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.orders.UpdateStatus(ctx, f.admin, "missing", "shipped")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStatus_BackwardsIsAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, f.buyer)

	_, err := f.orders.UpdateStatus(ctx, f.admin, o.ID, "delivered")
	require.NoError(t, err)
	back, err := f.orders.UpdateStatus(ctx, f.admin, o.ID, "placed")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlaced, back.Status)
}

func TestCancel_ProcessingOrderDisappears(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, f.buyer)
	_, err := f.orders.UpdateStatus(ctx, f.admin, o.ID, "processing")
	require.NoError(t, err)

	require.NoError(t, f.orders.Cancel(ctx, f.buyer, o.ID))

	views, err := f.orders.ListMine(ctx, f.buyer)
	require.NoError(t, err)
	assert.Empty(t, views)
	_, err = f.store.Orders.FindByID(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestCancel_DeliveredOrderStays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, f.buyer)
	_, err := f.orders.UpdateStatus(ctx, f.admin, o.ID, "delivered")
	require.NoError(t, err)

	err = f.orders.Cancel(ctx, f.buyer, o.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Cannot cancel a delivered order", err.Error())

	_, err = f.store.Orders.FindByID(ctx, o.ID)
	assert.NoError(t, err)
}

func TestCancel_LegacyCapitalisedDeliveredIsProtected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := &domain.Order{
		BuyerID: f.buyer.ID, Address: "a", Status: domain.Status("Delivered"), Price: 10,
		Items: []domain.LineItem{{ProductID: f.apples.ID, Quantity: 1}},
	}
	require.NoError(t, f.store.Orders.Create(ctx, o))

	assert.ErrorIs(t, f.orders.Cancel(ctx, f.buyer, o.ID), domain.ErrValidation)
}

func TestCancel_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, f.buyer)

	err := f.orders.Cancel(ctx, f.otherBuyer, o.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "You can only cancel your own orders", err.Error())

	assert.ErrorIs(t, f.orders.Cancel(ctx, f.admin, o.ID), domain.ErrForbidden)
	assert.ErrorIs(t, f.orders.Cancel(ctx, f.buyer, "missing"), domain.ErrNotFound)
	assert.ErrorIs(t, f.orders.Cancel(ctx, nil, o.ID), domain.ErrUnauthorized)

	_, err = f.store.Orders.FindByID(ctx, o.ID)
	assert.NoError(t, err)
}

func TestCancel_OtherBuyerIsForbiddenInEveryStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, st := range []string{"placed", "processing", "shipped", "delivered"} {
		t.Run(st, func(t *testing.T) {
			o := f.place(t, f.buyer)
			_, err := f.orders.UpdateStatus(ctx, f.admin, o.ID, st)
			require.NoError(t, err)

			err = f.orders.Cancel(ctx, f.otherBuyer, o.ID)
			assert.ErrorIs(t, err, domain.ErrForbidden)

			_, err = f.store.Orders.FindByID(ctx, o.ID)
			assert.NoError(t, err)
		})
	}
}

func TestCancel_OrderWithoutBuyerIsForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := &domain.Order{
		Address: "a", Status: domain.StatusPlaced, Price: 10,
		Items: []domain.LineItem{{ProductID: f.apples.ID, Quantity: 1}},
	}
	require.NoError(t, f.store.Orders.Create(ctx, o))

	assert.ErrorIs(t, f.orders.Cancel(ctx, f.buyer, o.ID), domain.ErrForbidden)
	_, err := f.store.Orders.FindByID(ctx, o.ID)
	assert.NoError(t, err)
}
