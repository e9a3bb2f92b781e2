package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gabonshop/gabonshop-backend/internal/identity"
	identitydomain "github.com/gabonshop/gabonshop-backend/internal/identity/domain"
	"github.com/gabonshop/gabonshop-backend/internal/moderation/domain"
	"github.com/gabonshop/gabonshop-backend/internal/moderation/service"
)

const msgGeneric = "Une erreur est survenue. Veuillez réessayer."

type Handler struct {
	workflow *service.Workflow
	log      *zap.Logger
}

func New(workflow *service.Workflow, log *zap.Logger) *Handler {
	return &Handler{workflow: workflow, log: log}
}

// Register mounts the admin routes; every one of them requires the admin role.
func (h *Handler) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin", identity.RequireAdmin())
	admin.GET("/users", h.ListUsers)
	admin.GET("/stats", h.Stats)
	admin.GET("/moderation-logs", h.ListLogs)
	admin.DELETE("/products/:id", h.DeleteProduct)
	admin.DELETE("/users/:id", h.DeleteUser)
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.workflow.LoadUsers(c.Request.Context())
	if err != nil {
		h.log.Error("load users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgGeneric})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.workflow.Stats(c.Request.Context())
	if err != nil {
		h.log.Error("load stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgGeneric})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *Handler) ListLogs(c *gin.Context) {
	entries, err := h.workflow.Logs(c.Request.Context())
	if err != nil {
		h.log.Error("load moderation logs failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgGeneric})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	p, err := h.workflow.Product(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable."})
		return
	}
	h.confirm(c, service.ProductTarget(p))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	h.confirm(c, service.UserTarget(c.Param("id")))
}

// confirm drives one moderation dialog: open on target, take the reason
// from the body, confirm.
func (h *Handler) confirm(c *gin.Context, target service.Target) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide."})
		return
	}

	admin, _ := identity.CurrentUser(c)
	dialog := h.workflow.NewDialog(admin.ID)
	dialog.Open(target)
	if err := dialog.SetReason(req.Reason); err != nil {
		h.fail(c, err)
		return
	}

	if !dialog.CanConfirm() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Veuillez indiquer la raison de la suppression."})
		return
	}

	if err := dialog.Confirm(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var step *domain.StepError
	switch {
	case errors.Is(err, domain.ErrCannotBanAdmin):
		c.JSON(http.StatusConflict, gin.H{"error": "Impossible de bannir un administrateur."})
	case errors.Is(err, identitydomain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable."})
	case errors.As(err, &step) && step.Step == domain.StepDelete:
		h.log.Error("moderation delete failed", zap.String("log_id", step.LogID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "La raison a été enregistrée mais la suppression a échoué.",
			"logId": step.LogID,
		})
	default:
		h.log.Error("moderation action failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgGeneric})
	}
}
