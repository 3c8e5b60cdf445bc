package handlers

import (
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/pkg/response"
	"github.com/oksasatya/go-account-service/pkg/validation"
)

type UserHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Login POST /api/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{
		"user":       res.User,
		"token":      res.Token,
		"expires_at": res.ExpiresAt,
	})
}

// List GET /api/users?from=&limit=
func (h *UserHandler) List(c *gin.Context) {
	from, ferr := queryInt(c, "from", application.DefaultFrom)
	limit, lerr := queryInt(c, "limit", application.DefaultLimit)
	if ferr != nil || lerr != nil {
		fields := gin.H{}
		if ferr != nil {
			fields["from"] = "must be a number"
		}
		if lerr != nil {
			fields["limit"] = "must be a number"
		}
		response.Error(c, http.StatusBadRequest, "invalid pagination", fields)
		return
	}

	res, err := h.Svc.List(c.Request.Context(), from, limit)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"users": res.Users, "count": res.Count})
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	size, err := queryInt(c, "size", 0)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid size", gin.H{"size": "must be a number"})
		return
	}
	users, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"users": users})
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"user": u})
}

// Create POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var in application.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, "", gin.H{"user": u})
}

// Update PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var in application.UpdateInput
	if err := c.ShouldBind(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"user": u})
}

// SetStatus DELETE /api/users/:id
// A body status of true enables the account; anything else disables it.
func (h *UserHandler) SetStatus(c *gin.Context) {
	u, err := h.Svc.SetStatus(c.Request.Context(), c.Param("id"), statusFromBody(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"user": u})
}

// Verify GET /api/users/:id/:verifyToken
func (h *UserHandler) Verify(c *gin.Context) {
	u, err := h.Svc.VerifyAccount(c.Request.Context(), c.Param("id"), c.Param("verifyToken"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "account verified", gin.H{"user": u})
}

// ResendVerification POST /api/users/:id/verification
func (h *UserHandler) ResendVerification(c *gin.Context) {
	sent, err := h.Svc.ResendVerification(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusAccepted, "", gin.H{"enqueued": sent})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v, ok := c.GetQuery(key)
	if !ok || v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func statusFromBody(c *gin.Context) bool {
	if c.ContentType() == binding.MIMEJSON {
		var body struct {
			Status any `json:"status"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			return false
		}
		switch v := body.Status.(type) {
		case bool:
			return v
		case string:
			return v == "true"
		}
		return false
	}
	// net/http only parses form bodies for POST, PUT and PATCH
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		return false
	}
	vals, err := url.ParseQuery(string(raw))
	if err != nil {
		return false
	}
	return vals.Get("status") == "true"
}
