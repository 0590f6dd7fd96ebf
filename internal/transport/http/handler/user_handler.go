package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"produce-market/internal/domain"
	"produce-market/internal/service"
	"produce-market/internal/transport/http/ez"
	mdw "produce-market/internal/transport/http/middleware"
	resp "produce-market/internal/transport/http/response"
)

type UserHandler struct {
	svc *service.UserService
	// cookie lifetime matches the token's
	tokenTTL     time.Duration
	cookieSecure bool
}

func NewUserHandler(svc *service.UserService, tokenTTL time.Duration, cookieSecure bool) *UserHandler {
	return &UserHandler{svc: svc, tokenTTL: tokenTTL, cookieSecure: cookieSecure}
}

// phone accepts the number either as a JSON string or a JSON number.
type phone string

func (p *phone) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*p = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = phone(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*p = phone(n.String())
	}
	return nil
}

type registerReq struct {
	FullName    string `json:"fullname"    form:"fullname"    binding:"required"`
	Email       string `json:"email"       form:"email"       binding:"required,email"`
	PhoneNumber phone  `json:"phonenumber" form:"phonenumber" binding:"required"`
	Password    string `json:"password"    form:"password"    binding:"required"`
	Role        string `json:"role"        form:"role"        binding:"required,oneof=buyer admin"`
}

type loginReq struct {
	Email    string `json:"email"    form:"email"    binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type loginOut struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *UserHandler) MountAPI(public, authed *gin.RouterGroup) {
	pub, e := ez.New(public), ez.New(authed)

	ez.Register(pub, ez.Action[registerReq, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users/register",
		Binder: ez.BindAuto,
		Status: http.StatusCreated,
		Msg:    "Account Created Successfully",
		Handler: func(c *gin.Context, _ *domain.User, in *registerReq) (*domain.User, error) {
			return h.svc.Register(c.Request.Context(), service.RegisterInput{
				FullName:    in.FullName,
				Email:       in.Email,
				PhoneNumber: string(in.PhoneNumber),
				Password:    in.Password,
				Role:        domain.Role(in.Role),
			})
		},
	})

	public.POST("/users/login", h.login)
	public.GET("/users/logout", h.logout)

	ez.Register(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, caller *domain.User, _ *struct{}) (*domain.User, error) {
			return h.svc.Profile(c.Request.Context(), caller)
		},
	})

	ez.Register(e, ez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users/all",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, caller *domain.User, _ *struct{}) ([]domain.User, error) {
			return h.svc.ListBuyers(c.Request.Context(), caller)
		},
	})
}

// login is a plain handler because it sets the token cookie.
func (h *UserHandler) login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBind(&in); err != nil {
		ez.Fail(c, domain.Validation("Something is missing"))
		return
	}
	res, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		ez.Fail(c, err)
		return
	}
	h.setToken(c, res.Token, int(h.tokenTTL.Seconds()))
	c.JSON(http.StatusOK, resp.OKMsg("welcome back "+res.User.FullName, loginOut{Token: res.Token, User: res.User}))
}

func (h *UserHandler) logout(c *gin.Context) {
	h.setToken(c, "", -1)
	c.JSON(http.StatusOK, resp.OKMsg("Logged out successfully", nil))
}

func (h *UserHandler) setToken(c *gin.Context, tok string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(mdw.CookieToken, tok, maxAge, "/", "", h.cookieSecure, true)
}
