package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"produce-market/internal/domain"
	"produce-market/internal/policy"
	"produce-market/internal/service"
	"produce-market/internal/transport/http/ez"
)

type ProductHandler struct{ svc *service.ProductService }

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// Price is a pointer so an explicit 0 differs from "not sent"; the service
// decides whether it is required.
type productReq struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
}

func (r *productReq) input() service.ProductInput {
	return service.ProductInput{Name: r.Name, Price: r.Price, Image: r.Image, Description: r.Description}
}

func (h *ProductHandler) MountAPI(public, authed *gin.RouterGroup) {
	pub, e := ez.New(public), ez.New(authed)

	ez.Register(pub, ez.Action[struct{}, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/allproducts",
		Binder: ez.BindNone,
		Msg:    "Product fetched successfully",
		Handler: func(c *gin.Context, _ *domain.User, _ *struct{}) ([]domain.Product, error) {
			return h.svc.List(c.Request.Context())
		},
	})

	ez.Register(pub, ez.Action[struct{}, *domain.Product]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *domain.User, _ *struct{}) (*domain.Product, error) {
			return h.svc.Get(c.Request.Context(), c.Param("id"))
		},
	})

	ez.Register(e, ez.Action[productReq, *domain.Product]{
		Method: http.MethodPost,
		Path:   "/products",
		Binder: ez.BindJSON,
		Auth:   true,
		Policy: policy.CreateProduct,
		Status: http.StatusCreated,
		Msg:    "Product added successfully",
		Handler: func(c *gin.Context, caller *domain.User, in *productReq) (*domain.Product, error) {
			return h.svc.Create(c.Request.Context(), caller, in.input())
		},
	})

	ez.Register(e, ez.Action[productReq, *domain.Product]{
		Method: http.MethodPut,
		Path:   "/products/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Policy: policy.UpdateProduct,
		Msg:    "product updated successfully",
		Handler: func(c *gin.Context, caller *domain.User, in *productReq) (*domain.Product, error) {
			return h.svc.Update(c.Request.Context(), caller, c.Param("id"), in.input())
		},
	})

	ez.Register(e, ez.Action[struct{}, *domain.Product]{
		Method: http.MethodDelete,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Msg:    "Product deleted successfully",
		Handler: func(c *gin.Context, caller *domain.User, _ *struct{}) (*domain.Product, error) {
			return h.svc.Delete(c.Request.Context(), caller, c.Param("id"))
		},
	})
}
