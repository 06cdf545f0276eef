// Package mockserver serves the mock store over the TidyUp HTTP API so the
// real transport can be exercised without a backend.
package mockserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tidyup/internal/backend/mock"
	"tidyup/internal/service"
)

const contextKeyUser = "user"

// NewRouter returns a gin engine exposing store.
func NewRouter(store *mock.Store, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	h := &handler{store: store}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/auth/login", h.login)

	protected := r.Group("", requireBearer(store))
	protected.POST("/auth/logout", h.logout)
	protected.GET("/users/me", h.me)
	protected.PUT("/users/me", h.updateMe)
	protected.GET("/users", h.listUsers)
	protected.PATCH("/users/:id", h.updateUser)
	protected.GET("/tasks", h.listTasks)
	protected.POST("/tasks", h.createTask)
	protected.PUT("/tasks/:id", h.updateTask)
	protected.PATCH("/tasks/:id/done", h.toggleDone)
	protected.DELETE("/tasks/:id", h.deleteTask)

	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if logger != nil {
			logger.Debug("mock api",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"status", c.Writer.Status(),
				"request_id", c.GetHeader("X-Request-ID"),
			)
		}
	}
}

// requireBearer verifies the bearer token and stores the account in context.
// Missing or invalid tokens get 401.
func requireBearer(store *mock.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortError(c, &service.Error{Kind: service.ErrAuth, Status: http.StatusUnauthorized, Message: "authorization required"})
			return
		}
		user, err := store.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			abortError(c, err)
			return
		}
		c.Set(contextKeyUser, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) service.User {
	u, _ := c.Get(contextKeyUser)
	user, _ := u.(service.User)
	return user
}

// writeError encodes err in the {"error":{"code","message"}} envelope.
func writeError(c *gin.Context, err error) {
	status, message := statusOf(err)
	c.JSON(status, gin.H{"error": gin.H{"code": status, "message": message}})
}

func abortError(c *gin.Context, err error) {
	writeError(c, err)
	c.Abort()
}

func statusOf(err error) (int, string) {
	var e *service.Error
	if errors.As(err, &e) {
		status := e.Status
		if status == 0 {
			switch {
			case errors.Is(err, service.ErrAuth):
				status = http.StatusUnauthorized
			case errors.Is(err, service.ErrNotFound):
				status = http.StatusNotFound
			case errors.Is(err, service.ErrValidation):
				status = http.StatusBadRequest
			default:
				status = http.StatusInternalServerError
			}
		}
		msg := e.Message
		if msg == "" {
			msg = e.Kind.Error()
		}
		return status, msg
	}
	return http.StatusInternalServerError, "internal error"
}
