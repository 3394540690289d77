package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rl1809/pedidos-client/internal/core/service"
	"github.com/rl1809/pedidos-client/internal/logger"
)

type HTTPHandler struct {
	sessions *service.SessionRegistry
	log      *logger.Logger
}

type ActionHTTPRequest struct {
	Type     string `json:"type" binding:"required"`
	Argument string `json:"argument"`
}

type SessionHTTPResponse struct {
	SessionID string        `json:"sessionId"`
	View      *service.View `json:"view,omitempty"`
	Error     string        `json:"error,omitempty"`
}

func NewHTTPHandler(sessions *service.SessionRegistry, log *logger.Logger) *HTTPHandler {
	return &HTTPHandler{sessions: sessions, log: log}
}

// Router builds the gin engine serving the session API.
func (h *HTTPHandler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", h.HealthCheck)

	sessions := r.Group("/sessions")
	sessions.POST("", h.CreateSession)
	sessions.GET("/:id", h.GetSession)
	sessions.DELETE("/:id", h.DeleteSession)
	sessions.POST("/:id/actions", h.Dispatch)

	return r
}

func (h *HTTPHandler) CreateSession(c *gin.Context) {
	nav := h.sessions.Create()
	view := nav.View()
	c.JSON(http.StatusCreated, SessionHTTPResponse{SessionID: nav.SessionID(), View: &view})
}

func (h *HTTPHandler) GetSession(c *gin.Context) {
	id := c.Param("id")
	nav, err := h.sessions.Get(id)
	if err != nil {
		h.writeError(c, id, nil, err)
		return
	}
	view := nav.View()
	c.JSON(http.StatusOK, SessionHTTPResponse{SessionID: id, View: &view})
}

func (h *HTTPHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.sessions.Delete(id); err != nil {
		h.writeError(c, id, nil, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) Dispatch(c *gin.Context) {
	id := c.Param("id")

	var req ActionHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, SessionHTTPResponse{SessionID: id, Error: "invalid request body"})
		return
	}

	view, err := h.sessions.Dispatch(c.Request.Context(), id, service.Action{
		Type:     service.ActionType(req.Type),
		Argument: req.Argument,
	})
	if err != nil {
		h.writeError(c, id, &view, err)
		return
	}
	c.JSON(http.StatusOK, SessionHTTPResponse{SessionID: id, View: &view})
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.sessions.Len()})
}

// writeError reports err, attaching the session view when there is one so
// the caller can render validation messages.
func (h *HTTPHandler) writeError(c *gin.Context, id string, view *service.View, err error) {
	status, _ := classify(err)
	if status == http.StatusInternalServerError {
		h.log.Error("session_action_failed", id, "unexpected session error", err)
	}
	if view != nil && view.Screen == "" {
		view = nil
	}
	c.JSON(status, SessionHTTPResponse{SessionID: id, View: view, Error: err.Error()})
}
