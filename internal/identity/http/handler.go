package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
	"github.com/gabonshop/gabonshop-backend/internal/identity"
	"github.com/gabonshop/gabonshop-backend/internal/identity/domain"
	"github.com/gabonshop/gabonshop-backend/internal/identity/service"
)

const msgGeneric = "Une erreur est survenue. Veuillez réessayer."

type Handler struct {
	accounts *service.Accounts
	log      *zap.Logger
}

func New(accounts *service.Accounts, log *zap.Logger) *Handler {
	return &Handler{accounts: accounts, log: log}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/register", h.SignUp)
	rg.POST("/login", h.Login)
	rg.POST("/logout", identity.RequireUser(), h.Logout)
	rg.GET("/me", identity.RequireUser(), h.Me)
}

type sessionResponse struct {
	UID          string `json:"uid"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func toSession(s *gateway.Session) sessionResponse {
	return sessionResponse{UID: s.UID, IDToken: s.IDToken, RefreshToken: s.RefreshToken}
}

// SignUp creates the account and its profile. When only the profile write
// fails the account is usable, so the response is still 201 with a warning.
func (h *Handler) SignUp(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide."})
		return
	}

	sess, err := h.accounts.Register(c.Request.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrProfileWrite) && sess != nil:
		c.JSON(http.StatusCreated, gin.H{
			"session": toSession(sess),
			"user":    h.resolve(c, sess),
			"warning": "Compte créé, mais le profil n'a pas pu être enregistré.",
		})
		return
	default:
		status, msg := registrationError(err)
		if status == http.StatusInternalServerError {
			h.log.Error("registration failed", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session": toSession(sess),
		"user":    h.resolve(c, sess),
	})
}

func registrationError(err error) (int, string) {
	var fe *domain.FieldError
	switch {
	case errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusBadRequest, "Les mots de passe ne correspondent pas."
	case errors.As(err, &fe) && fe.Field == "name":
		return http.StatusBadRequest, "Le nom complet est obligatoire"
	case errors.As(err, &fe) && fe.Field == "password" && fe.Tag == "min":
		return http.StatusBadRequest, "Le mot de passe doit contenir au moins 6 caractères."
	case errors.As(err, &fe) && fe.Field == "email" && fe.Tag == "email":
		return http.StatusBadRequest, "Adresse email invalide."
	case errors.Is(err, domain.ErrInvalidRegistration):
		return http.StatusBadRequest, "Veuillez remplir tous les champs obligatoires."
	case errors.Is(err, gateway.ErrEmailInUse):
		return http.StatusConflict, "Cet email est déjà utilisé."
	default:
		return http.StatusInternalServerError, "Une erreur est survenue lors de l'enregistrement."
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Veuillez remplir tous les champs obligatoires."})
		return
	}

	sess, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect."})
			return
		}
		h.log.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgGeneric})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": toSession(sess),
		"user":    h.resolve(c, sess),
	})
}

// resolve projects the new session; a fetch failure yields a null user.
func (h *Handler) resolve(c *gin.Context, sess *gateway.Session) *domain.CurrentUser {
	u, err := h.accounts.Resolve(c.Request.Context(), sess)
	if err != nil {
		h.log.Warn("profile fetch failed after sign-in", zap.String("uid", sess.UID), zap.Error(err))
		return nil
	}
	return u
}

func (h *Handler) Logout(c *gin.Context) {
	u, _ := identity.CurrentUser(c)
	if err := h.accounts.Logout(c.Request.Context(), u.UID); err != nil {
		h.log.Error("logout failed", zap.String("uid", u.UID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgGeneric})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	u, _ := identity.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": u})
}
