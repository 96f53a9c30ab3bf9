package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionRouter() *gin.Engine {
	r := gin.New()
	r.Use(CartSession(3600))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CartSessionKey))
	})
	return r
}

func TestCartSession_IssuesNewSession(t *testing.T) {
	w := httptest.NewRecorder()
	sessionRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(CartSessionHeader))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CartSessionCookie, cookies[0].Name)
	assert.Equal(t, w.Body.String(), cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCartSession_ReusesHeaderThenCookie(t *testing.T) {
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CartSessionHeader, id)
	w := httptest.NewRecorder()
	sessionRouter().ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CartSessionCookie, Value: id})
	w = httptest.NewRecorder()
	sessionRouter().ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())
}

func TestCartSession_RejectsMalformedID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CartSessionHeader, "../../etc/passwd")
	w := httptest.NewRecorder()
	sessionRouter().ServeHTTP(w, req)

	assert.NotEqual(t, "../../etc/passwd", w.Body.String())
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
}

func TestBearerToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	c.Request.Header.Set("Authorization", "Bearer abc.def")
	assert.Equal(t, "abc.def", bearerToken(c))

	c.Request.Header.Set("Authorization", "bearer abc.def")
	assert.Equal(t, "abc.def", bearerToken(c))

	c.Request.Header.Set("Authorization", "abc.def")
	assert.Equal(t, "abc.def", bearerToken(c))

	c.Request.Header.Del("Authorization")
	assert.Empty(t, bearerToken(c))
}
