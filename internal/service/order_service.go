package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"produce-market/internal/domain"
	"produce-market/internal/metrics"
	"produce-market/internal/policy"
)

type OrderService struct {
	store   domain.Store
	tx      domain.TxRunner
	metrics *metrics.StoreMetrics
	log     *zap.Logger
}

// NewOrderService builds the order lifecycle service. m and l may be nil.
func NewOrderService(store domain.Store, m *metrics.StoreMetrics, l *zap.Logger) *OrderService {
	if l == nil {
		l = zap.NewNop()
	}
	return &OrderService{store: store, metrics: m, log: l.Named("orders")}
}

// WithTx makes Place run its product lookup and insert inside tx. Without it
// a product deleted between the two steps is not detected.
func (s *OrderService) WithTx(tx domain.TxRunner) *OrderService {
	s.tx = tx
	return s
}

type PlaceOrderInput struct {
	Address string
	Items   []domain.LineItem
}

// Place creates an order for a buyer. All products must exist; the total is
// priced at the current catalog price and never recomputed.
func (s *OrderService) Place(ctx context.Context, caller *domain.User, in PlaceOrderInput) (*domain.Order, error) {
	if err := policy.Authorize(caller, policy.PlaceOrder, policy.None); err != nil {
		return nil, err
	}
	address := strings.TrimSpace(in.Address)
	if address == "" || len(in.Items) == 0 {
		return nil, domain.Validation("Address and products are required")
	}
	items := make([]domain.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		id := strings.TrimSpace(it.ProductID)
		if id == "" {
			return nil, domain.Validation("productId is required for every item")
		}
		q := it.Quantity
		switch {
		case q < 0:
			return nil, domain.Validationf("invalid quantity %d for product %s", q, id)
		case q == 0:
			q = 1
		}
		items = append(items, domain.LineItem{ProductID: id, Quantity: q})
	}

	var order *domain.Order
	place := func(ctx context.Context, st domain.Store) error {
		found, err := st.Products.FindByIDs(ctx, productIDs(items))
		if err != nil {
			return err
		}
		prices := make(map[string]float64, len(found))
		for _, it := range items {
			p, ok := found[it.ProductID]
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrProductNotFound, it.ProductID)
			}
			prices[it.ProductID] = p.Price
		}
		o := &domain.Order{
			BuyerID: caller.ID,
			Items:   items,
			Address: address,
			Status:  domain.StatusPlaced,
			Price:   domain.ComputeTotal(items, prices),
		}
		if err := st.Orders.Create(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	}

	var err error
	if s.tx != nil {
		err = s.tx.InTx(ctx, place)
	} else {
		err = place(ctx, s.store)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.OrderPlaced(order.Price)
	s.log.Info("order placed",
		zap.String("order", order.ID),
		zap.String("buyer", caller.ID),
		zap.Int("lines", len(order.Items)),
		zap.Float64("price", order.Price),
	)
	return order, nil
}

// ListMine returns the caller's orders, newest first, with products joined.
func (s *OrderService) ListMine(ctx context.Context, caller *domain.User) ([]domain.OrderView, error) {
	if err := policy.Authorize(caller, policy.ListOwnOrders, policy.None); err != nil {
		return nil, err
	}
	orders, err := s.store.Orders.ListByBuyer(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, orders, false)
}

// ListAll returns every order, newest first, with buyers and products joined.
func (s *OrderService) ListAll(ctx context.Context, caller *domain.User) ([]domain.OrderView, error) {
	if err := policy.Authorize(caller, policy.ListAllOrders, policy.None); err != nil {
		return nil, err
	}
	orders, err := s.store.Orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, orders, true)
}

// UpdateStatus sets any of the known statuses. Moving backwards is allowed
// and only counted.
func (s *OrderService) UpdateStatus(ctx context.Context, caller *domain.User, id, status string) (*domain.Order, error) {
	if err := policy.Authorize(caller, policy.UpdateOrderStatus, policy.None); err != nil {
		return nil, err
	}
	st, ok := domain.ParseStatus(status)
	if !ok {
		return nil, domain.Validation("Invalid status value")
	}
	cur, err := s.store.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o, err := s.store.Orders.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}

	regressed := st.Rank() < cur.Status.Rank()
	s.metrics.StatusChanged(string(st), regressed)
	log := s.log.Info
	if regressed {
		log = s.log.Warn
	}
	log("order status updated",
		zap.String("order", id),
		zap.String("from", string(cur.Status)),
		zap.String("to", string(st)),
		zap.String("admin", caller.ID),
	)
	return o, nil
}

// Cancel deletes one of the caller's orders unless it was delivered.
func (s *OrderService) Cancel(ctx context.Context, caller *domain.User, id string) error {
	if err := policy.Authorize(caller, policy.CancelOrder, policy.None); err != nil {
		return err
	}
	o, err := s.store.Orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(caller, policy.CancelOrder, policy.OwnedBy(o.BuyerID)); err != nil {
		return err
	}
	if o.Status.IsDelivered() {
		return domain.Validation("Cannot cancel a delivered order")
	}
	if err := s.store.Orders.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.OrderCancelled()
	s.log.Info("order cancelled",
		zap.String("order", id),
		zap.String("buyer", caller.ID),
		zap.String("status", string(o.Status)),
	)
	return nil
}

func productIDs(items []domain.LineItem) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		out = append(out, it.ProductID)
	}
	return out
}

// views joins product summaries and, if withBuyer, buyer summaries onto
// orders. Records deleted since placement join as nil.
func (s *OrderService) views(ctx context.Context, orders []domain.Order, withBuyer bool) ([]domain.OrderView, error) {
	out := make([]domain.OrderView, 0, len(orders))
	if len(orders) == 0 {
		return out, nil
	}

	var lines []domain.LineItem
	buyerIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		lines = append(lines, o.Items...)
		buyerIDs = append(buyerIDs, o.BuyerID)
	}
	products, err := s.store.Products.FindByIDs(ctx, productIDs(lines))
	if err != nil {
		return nil, err
	}
	var buyers map[string]*domain.User
	if withBuyer {
		if buyers, err = s.store.Users.FindByIDs(ctx, buyerIDs); err != nil {
			return nil, err
		}
	}

	for _, o := range orders {
		v := domain.OrderView{
			ID:        o.ID,
			BuyerID:   o.BuyerID,
			Products:  make([]domain.LineView, 0, len(o.Items)),
			Address:   o.Address,
			Status:    o.Status,
			Price:     o.Price,
			CreatedAt: o.CreatedAt,
			UpdatedAt: o.UpdatedAt,
		}
		for _, it := range o.Items {
			v.Products = append(v.Products, domain.LineView{
				Product:   products[it.ProductID].Summary(),
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
			})
		}
		if u, ok := buyers[o.BuyerID]; ok {
			v.Buyer = &domain.BuyerSummary{ID: u.ID, FullName: u.FullName, Email: u.Email}
		}
		out = append(out, v)
	}
	return out, nil
}
