package mockserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tidyup/internal/backend/mock"
	"tidyup/internal/service"
)

type handler struct {
	store *mock.Store
}

func (h *handler) login(c *gin.Context) {
	var creds service.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		writeError(c, &service.Error{Kind: service.ErrValidation, Status: http.StatusBadRequest, Message: err.Error()})
		return
	}
	user, token, err := h.store.Authenticate(creds)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.AuthResponse{Token: token, User: &user})
}

// logout has nothing to revoke: tokens are stateless and the client drops
// its copy.
func (h *handler) logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (h *handler) updateMe(c *gin.Context) {
	var in service.UpdateMe
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, &service.Error{Kind: service.ErrValidation, Status: http.StatusBadRequest, Message: err.Error()})
		return
	}
	u, err := h.store.UpdateProfile(currentUser(c).ID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *handler) listUsers(c *gin.Context) {
	users, err := h.store.Users(currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *handler) updateUser(c *gin.Context) {
	var in service.UpdateUser
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, &service.Error{Kind: service.ErrValidation, Status: http.StatusBadRequest, Message: err.Error()})
		return
	}
	u, err := h.store.UpdateUser(currentUser(c).ID, service.ID(c.Param("id")), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *handler) listTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Tasks())
}

func (h *handler) createTask(c *gin.Context) {
	var in service.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, &service.Error{Kind: service.ErrValidation, Status: http.StatusBadRequest, Message: err.Error()})
		return
	}
	task, err := h.store.CreateTask(in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *handler) updateTask(c *gin.Context) {
	var in service.TaskUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, &service.Error{Kind: service.ErrValidation, Status: http.StatusBadRequest, Message: err.Error()})
		return
	}
	task, err := h.store.UpdateTask(service.ID(c.Param("id")), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *handler) toggleDone(c *gin.Context) {
	var body struct {
		Done *bool `json:"done"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Done == nil {
		writeError(c, &service.Error{Kind: service.ErrValidation, Status: http.StatusBadRequest, Message: "done is required"})
		return
	}
	task, err := h.store.SetDone(service.ID(c.Param("id")), *body.Done)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *handler) deleteTask(c *gin.Context) {
	if err := h.store.DeleteTask(service.ID(c.Param("id"))); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
