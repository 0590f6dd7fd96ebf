package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"produce-market/internal/domain"
	"produce-market/internal/policy"
	"produce-market/internal/service"
	"produce-market/internal/transport/http/ez"
)

type ContactHandler struct{ svc *service.ContactService }

func NewContactHandler(svc *service.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

type contactReq struct {
	Name    string `json:"name"    form:"name"    binding:"required"`
	Email   string `json:"email"   form:"email"   binding:"required,email"`
	Subject string `json:"subject" form:"subject" binding:"required"`
	Message string `json:"message" form:"message" binding:"required"`
}

type contactStatusReq struct {
	Status string `json:"status" binding:"required,oneof=new read modified"`
}

func (h *ContactHandler) MountAPI(public, authed *gin.RouterGroup) {
	pub, e := ez.New(public), ez.New(authed)

	ez.Register(pub, ez.Action[contactReq, *domain.ContactMessage]{
		Method: http.MethodPost,
		Path:   "/contact",
		Binder: ez.BindAuto,
		Status: http.StatusCreated,
		Msg:    "Message submitted successfully.",
		Handler: func(c *gin.Context, caller *domain.User, in *contactReq) (*domain.ContactMessage, error) {
			return h.svc.Submit(c.Request.Context(), caller, service.ContactInput{
				Name: in.Name, Email: in.Email, Subject: in.Subject, Message: in.Message,
			})
		},
	})

	ez.Register(e, ez.Action[struct{}, []domain.ContactMessage]{
		Method: http.MethodGet,
		Path:   "/contact/admin/messages",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, caller *domain.User, _ *struct{}) ([]domain.ContactMessage, error) {
			return h.svc.List(c.Request.Context(), caller)
		},
	})

	ez.Register(e, ez.Action[contactStatusReq, *domain.ContactMessage]{
		Method: http.MethodPatch,
		Path:   "/contact/admin/messages/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Policy: policy.UpdateMessage,
		Msg:    "Message updated successfully",
		Handler: func(c *gin.Context, caller *domain.User, in *contactStatusReq) (*domain.ContactMessage, error) {
			return h.svc.UpdateStatus(c.Request.Context(), caller, c.Param("id"), in.Status)
		},
	})
}
