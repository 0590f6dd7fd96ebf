// Package ez registers typed JSON actions on a gin group: bind the input,
// resolve the caller, run the handler and map its error to a status code.
package ez

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"produce-market/internal/domain"
	"produce-market/internal/policy"
	mdw "produce-market/internal/transport/http/middleware"
	resp "produce-market/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindAuto  Binder = "auto" // by Content-Type: JSON, form or multipart
	BindNone  Binder = "none" // handler reads c.Param itself
)

// Action describes one endpoint. I is the bound input, O the data payload.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	// Auth requires an authenticated caller.
	Auth bool
	// Policy, when set, is checked against the caller's role before the body
	// is bound, so a wrong role is refused even with a malformed body. The
	// service still makes its own checks, ownership included.
	Policy policy.Action
	// Status is the success status, 200 when zero.
	Status int
	// Msg is the success message, "OK" when empty.
	Msg     string
	Handler func(c *gin.Context, caller *domain.User, in *I) (O, error)
}

func Register[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		caller := mdw.CurrentUser(c)
		if a.Auth && caller == nil {
			resp.Abort(c, resp.CodeUnauthorized, "Unauthorized")
			return
		}
		if a.Policy != "" {
			if err := policy.Authorize(caller, a.Policy, policy.None); err != nil {
				Fail(c, err)
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindAuto:
			bindErr = c.ShouldBind(&in)
		}
		if bindErr != nil {
			resp.Abort(c, resp.CodeBadRequest, bindMessage(bindErr))
			return
		}

		out, err := a.Handler(c, caller, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, resp.OKMsg(a.Msg, out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// StatusOf maps a domain error kind to its HTTP status.
func StatusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.ErrValidation:
		return http.StatusBadRequest
	case domain.ErrUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrForbidden:
		return http.StatusForbidden
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes err. Internal errors are attached to the gin context for the
// access log and answered with a generic message.
func Fail(c *gin.Context, err error) {
	code := StatusOf(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		resp.Abort(c, code, "internal error")
		return
	}
	resp.Abort(c, code, err.Error())
}

func bindMessage(err error) string {
	var (
		mbe *http.MaxBytesError
		ves validator.ValidationErrors
	)
	switch {
	case errors.Is(err, io.EOF):
		return "request body is required"
	case errors.As(err, &mbe):
		return "request body too large"
	case errors.As(err, &ves) && len(ves) > 0:
		return fieldMessage(ves[0])
	}
	return err.Error()
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}
