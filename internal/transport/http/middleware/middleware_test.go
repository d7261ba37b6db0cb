package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"bookstore-admin/internal/core/auth"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthJWT(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s3cret"), Issuer: "bookstore-admin", TTL: time.Hour}
	other := &auth.JWTer{Secret: []byte("other"), Issuer: "bookstore-admin", TTL: time.Hour}

	r := gin.New()
	r.GET("/me", AuthJWT(j, ""), func(c *gin.Context) {
		id, ok := auth.FromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, id)
	})
	r.GET("/admin", AuthJWT(j, "admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	userTok, err := j.Issue(auth.Identity{ID: 7, Email: "ann@example.com", Role: "user"})
	require.NoError(t, err)
	adminTok, err := j.Issue(auth.Identity{ID: 1, Email: "admin@bookstore.com", Role: "admin"})
	require.NoError(t, err)
	forged, err := other.Issue(auth.Identity{ID: 1, Email: "admin@bookstore.com", Role: "admin"})
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		header string
		status int
		msg    string
	}{
		{"missing", "/me", "", 401, "Access token required"},
		{"not bearer", "/me", "Basic abc", 401, "Access token required"},
		{"empty bearer", "/me", "Bearer ", 401, "Access token required"},
		{"garbage", "/me", "Bearer abc.def.ghi", 403, "Invalid or expired token"},
		{"wrong key", "/me", "Bearer " + forged, 403, "Invalid or expired token"},
		{"wrong role", "/admin", "Bearer " + userTok, 403, "Insufficient permissions"},
		{"admin", "/admin", "Bearer " + adminTok, 204, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := serve(r, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.msg != "" {
				assert.Contains(t, w.Body.String(), tc.msg)
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}

	t.Run("identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+userTok)
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":7,"email":"ann@example.com","role":"user"}`, w.Body.String())
	})
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role := c.GetHeader("X-Role"); role != "" {
			auth.SetIdentity(c, auth.Identity{ID: 1, Role: role})
		}
	})
	r.GET("/x", RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for role, want := range map[string]int{"": 401, "user": 403, "admin": 204} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if role != "" {
			req.Header.Set("X-Role", role)
		}
		assert.Equal(t, want, serve(r, req).Code, "role=%q", role)
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(0.001, 2), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, 204, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, 204, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimitPerIP(0.001, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	from := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req).Code
	}
	assert.Equal(t, 204, from("10.0.0.1"))
	assert.Equal(t, 429, from("10.0.0.1"))
	// 其它 IP 不受影响
	assert.Equal(t, 204, from("10.0.0.2"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/", RequestID(), func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	rid := w.Header().Get(KeyRequestID)
	assert.Len(t, rid, 36)
	assert.Equal(t, rid, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(KeyRequestID))
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.POST("/", MaxBodyBytes(8), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("ok")))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/panic", func(*gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "kaboom")
	assert.Equal(t, 1, logs.Len())
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.GET("/slow", Timeout(10*time.Millisecond), func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestAccessLog_MasksSecrets(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/books", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, httptest.NewRequest(http.MethodGet, "/books?search=dune&token=abc", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "/books", fields["path"])
	assert.NotEmpty(t, fields["rid"])
	q, ok := fields["query"].(map[string][]string)
	require.True(t, ok)
	assert.Equal(t, []string{"****"}, q["token"])
	assert.Equal(t, []string{"dune"}, q["search"])
}

func TestRequestID_RejectsUnsafe(t *testing.T) {
	r := gin.New()
	r.GET("/", RequestID(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, bad := range []string{"has space", "line\nbreak", strings.Repeat("a", 129)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(KeyRequestID, bad)
		w := serve(r, req)
		assert.NotEqual(t, bad, w.Header().Get(KeyRequestID))
		assert.Len(t, w.Header().Get(KeyRequestID), 36)
	}
}

func TestConcurrencyLimit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	r := gin.New()
	r.GET("/busy", ConcurrencyLimit(1), func(c *gin.Context) {
		close(entered)
		<-release
		c.Status(http.StatusNoContent)
	})
	r.GET("/quick", Timeout(20*time.Millisecond), ConcurrencyLimit(1), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	done := make(chan int)
	go func() { done <- serve(r, httptest.NewRequest(http.MethodGet, "/busy", nil)).Code }()
	<-entered

	// 不同路由各自一个信号量
	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/quick", nil)).Code)

	close(release)
	assert.Equal(t, http.StatusNoContent, <-done)
}

func TestConcurrencyLimit_Saturated(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	r := gin.New()
	r.Use(Timeout(20*time.Millisecond), ConcurrencyLimit(1))
	r.GET("/", func(c *gin.Context) {
		entered <- struct{}{}
		<-release
		c.Status(http.StatusNoContent)
	})

	done := make(chan int)
	go func() { done <- serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code }()
	<-entered

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	close(release)
	<-done
}

func TestAccessLog_SkipsHealth(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	r.Use(AccessLog(zap.New(core)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/books/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Zero(t, logs.Len())

	serve(r, httptest.NewRequest(http.MethodGet, "/books/9", nil))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, "/books/:id", logs.All()[0].ContextMap()["path"])
}
