package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(jwt *helpers.JWTManager) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	whoami := func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		ctxID, ctxOK := helpers.IdentityFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"ok": ok && ctxOK && id == ctxID, "id": id.ID})
	}
	r.GET("/header", Authenticate(jwt, "token"), whoami)
	r.GET("/query", AuthenticateQuery(jwt, "token"), whoami)
	r.GET("/admin", Authenticate(jwt, "token"), RequireRole(entity.RoleAdmin), whoami)
	return r
}

func issue(t *testing.T, jwt *helpers.JWTManager, role string) string {
	t.Helper()
	tok, _, err := jwt.Issue(helpers.Identity{ID: "u1", Name: "Ann", Email: "ann@x.io", Role: role, Status: true})
	require.NoError(t, err)
	return tok
}

func do(r http.Handler, path, header string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("token", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestAuthenticate(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := newEngine(jwt)
	user := issue(t, jwt, "USER_ROLE")

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"header ok", "/header", user, http.StatusOK},
		{"header missing", "/header", "", http.StatusUnauthorized},
		{"header garbage", "/header", "abc.def.ghi", http.StatusUnauthorized},
		{"wrong secret", "/header", issue(t, helpers.NewJWTManager("other", time.Hour), "USER_ROLE"), http.StatusUnauthorized},
		{"unknown role", "/header", issue(t, jwt, "ROOT"), http.StatusUnauthorized},
		{"query ok", "/query?token=" + user, "", http.StatusOK},
		{"query ignores header", "/query", user, http.StatusUnauthorized},
		{"query missing", "/query", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(r, tt.path, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, true, body["ok"])
				assert.Equal(t, "u1", body["id"])
			} else {
				assert.Equal(t, false, body["ok"])
				assert.NotEmpty(t, body["message"])
				assert.NotNil(t, body["errors"])
			}
		})
	}
}

func TestAuthenticate_Expired(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", -time.Minute)
	tok := issue(t, jwt, "ADMIN_ROLE")

	w, _ := do(newEngine(jwt), "/header", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := newEngine(jwt)

	w, body := do(r, "/admin", issue(t, jwt, "ADMIN_ROLE"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["ok"])

	for _, role := range []string{"USER_ROLE", "WORKER_ROLE"} {
		w, body = do(r, "/admin", issue(t, jwt, role))
		assert.Equal(t, http.StatusForbidden, w.Code, role)
		assert.Equal(t, false, body["ok"])
		assert.NotEmpty(t, body["request_id"])
	}
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	r := gin.New()
	r.GET("/", RequireRole(entity.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w, _ := do(r, "/", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckRole(t *testing.T) {
	assert.ErrorIs(t, CheckRole(helpers.Identity{}, entity.RoleAdmin), ErrUnauthorized)
	assert.ErrorIs(t, CheckRole(helpers.Identity{ID: "1", Role: "USER_ROLE"}, entity.RoleAdmin), ErrForbidden)
	assert.NoError(t, CheckRole(helpers.Identity{ID: "1", Role: "ADMIN_ROLE"}, entity.RoleAdmin))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	inbound := "6f1c5a4e-3b1d-4c55-9e0b-1b2f6a7d8e90"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, inbound)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, inbound, w.Body.String())
}
