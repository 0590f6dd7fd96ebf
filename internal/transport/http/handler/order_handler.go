package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"produce-market/internal/domain"
	"produce-market/internal/policy"
	"produce-market/internal/service"
	"produce-market/internal/transport/http/ez"
)

type OrderHandler struct{ svc *service.OrderService }

func NewOrderHandler(svc *service.OrderService) *OrderHandler { return &OrderHandler{svc: svc} }

type lineReq struct {
	ProductID string `json:"productId" binding:"required"`
	// omitted or 0 means 1
	Quantity int `json:"quantity" binding:"min=0"`
}

type placeOrderReq struct {
	Address  string    `json:"address"  binding:"required"`
	Products []lineReq `json:"products" binding:"required,min=1,dive"`
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed)

	ez.Register(e, ez.Action[placeOrderReq, *domain.Order]{
		Method: http.MethodPost,
		Path:   "/orders",
		Binder: ez.BindJSON,
		Auth:   true,
		Policy: policy.PlaceOrder,
		Status: http.StatusCreated,
		Msg:    "Order placed successfully",
		Handler: func(c *gin.Context, caller *domain.User, in *placeOrderReq) (*domain.Order, error) {
			items := make([]domain.LineItem, 0, len(in.Products))
			for _, p := range in.Products {
				items = append(items, domain.LineItem{ProductID: p.ProductID, Quantity: p.Quantity})
			}
			return h.svc.Place(c.Request.Context(), caller, service.PlaceOrderInput{Address: in.Address, Items: items})
		},
	})

	ez.Register(e, ez.Action[struct{}, []domain.OrderView]{
		Method: http.MethodGet,
		Path:   "/orders/my",
		Binder: ez.BindNone,
		Auth:   true,
		Msg:    "Orders fetched successfully",
		Handler: func(c *gin.Context, caller *domain.User, _ *struct{}) ([]domain.OrderView, error) {
			return h.svc.ListMine(c.Request.Context(), caller)
		},
	})

	ez.Register(e, ez.Action[struct{}, []domain.OrderView]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: ez.BindNone,
		Auth:   true,
		Msg:    "All orders fetched successfully",
		Handler: func(c *gin.Context, caller *domain.User, _ *struct{}) ([]domain.OrderView, error) {
			return h.svc.ListAll(c.Request.Context(), caller)
		},
	})

	ez.Register(e, ez.Action[statusReq, *domain.Order]{
		Method: http.MethodPut,
		Path:   "/orders/:id/status",
		Binder: ez.BindJSON,
		Auth:   true,
		Policy: policy.UpdateOrderStatus,
		Msg:    "Order status updated successfully",
		Handler: func(c *gin.Context, caller *domain.User, in *statusReq) (*domain.Order, error) {
			return h.svc.UpdateStatus(c.Request.Context(), caller, c.Param("id"), in.Status)
		},
	})

	ez.Register(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/orders/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Msg:    "Order cancelled successfully",
		Handler: func(c *gin.Context, caller *domain.User, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.svc.Cancel(c.Request.Context(), caller, id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
