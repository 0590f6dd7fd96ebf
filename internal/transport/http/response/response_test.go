package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestError_DefaultAndCustomMessage(t *testing.T) {
	assert.Equal(t, "Not Found", Error(CodeNotFound, "").Msg)
	assert.Equal(t, "order not found", Error(CodeNotFound, "order not found").Msg)
	assert.Equal(t, struct{}{}, OK(nil).Data)
}

func TestAbort_SetsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Abort(c, CodeConflict, "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"code":409,"msg":"Conflict","data":{}}`, w.Body.String())
	assert.True(t, c.IsAborted())
}
