package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gabonshop/gabonshop-backend/internal/catalog/domain"
	"github.com/gabonshop/gabonshop-backend/internal/catalog/service"
	"github.com/gabonshop/gabonshop-backend/internal/identity"
)

// RecentCount is how many listings the home page shows.
const RecentCount = 6

const msgGeneric = "Une erreur est survenue. Veuillez réessayer."

type Handler struct {
	store    *service.Store
	validate *validator.Validate
	log      *zap.Logger
}

func New(store *service.Store, validate *validator.Validate, log *zap.Logger) *Handler {
	return &Handler{store: store, validate: validate, log: log}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/catalog/meta", h.Meta)

	products := rg.Group("/products")
	products.GET("", h.List)
	products.GET("/recent", h.Recent)
	products.GET("/:id", h.Get)
	products.POST("", identity.RequireUser(), h.Create)
	products.PUT("/:id", identity.RequireUser(), h.Update)
	products.DELETE("/:id", identity.RequireUser(), h.Delete)

	rg.GET("/me/products", identity.RequireUser(), h.Mine)
}

// List serves the product list page. The query parameters mirror the
// front-end route: search, category and sort.
func (h *Handler) List(c *gin.Context) {
	q := domain.Query{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     domain.SortKey(c.DefaultQuery("sort", string(domain.SortRecent))),
	}
	products := h.store.FilterAndSort(q)
	c.JSON(http.StatusOK, gin.H{
		"products": toViews(products),
		"count":    len(products),
	})
}

func (h *Handler) Recent(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": toViews(h.store.Recent(RecentCount))})
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": toView(p)})
}

func (h *Handler) Meta(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": domain.Categories,
		"locations":  domain.Locations,
		"sortKeys": []domain.SortKey{
			domain.SortRecent, domain.SortOldest, domain.SortPriceAsc, domain.SortPriceDesc,
		},
		"maxImages": domain.MaxImages,
	})
}

func (h *Handler) Mine(c *gin.Context) {
	u, _ := identity.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"products": toViews(h.store.ByOwner(u.ID))})
}

func (h *Handler) Create(c *gin.Context) {
	u, _ := identity.CurrentUser(c)

	form, ok := h.bindForm(c)
	if !ok {
		return
	}

	owner := domain.Owner{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Whatsapp:    u.Whatsapp,
		PhoneNumber: u.PhoneNumber,
	}
	id, err := h.store.Create(c.Request.Context(), form, owner)
	if err != nil {
		if !domain.IsReloadOnly(err) {
			h.fail(c, "create product", err)
			return
		}
		// Written, but the catalog reload failed; the listing appears on the next refresh.
		h.log.Warn("catalog reload after create failed", zap.String("product_id", id), zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if !h.authorizeOwner(c, id) {
		return
	}

	form, ok := h.bindForm(c)
	if !ok {
		return
	}

	if err := h.store.Update(c.Request.Context(), id, form.Fields()); err != nil {
		if !domain.IsReloadOnly(err) {
			h.fail(c, "update product", err)
			return
		}
		h.log.Warn("catalog reload after update failed", zap.String("product_id", id), zap.Error(err))
	}

	p, err := h.store.Get(id)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"id": id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": toView(p)})
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !h.authorizeOwner(c, id) {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if !domain.IsReloadOnly(err) {
			h.fail(c, "delete product", err)
			return
		}
		h.log.Warn("catalog reload after delete failed", zap.String("product_id", id), zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

// authorizeOwner lets only the product's owner modify it. Administrators go
// through moderation instead.
func (h *Handler) authorizeOwner(c *gin.Context, id string) bool {
	u, _ := identity.CurrentUser(c)

	p, err := h.store.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable."})
		return false
	}
	if p.OwnerID != u.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Vous ne pouvez modifier que vos propres annonces."})
		return false
	}
	return true
}

func (h *Handler) bindForm(c *gin.Context) (domain.ProductForm, bool) {
	var form domain.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide."})
		return form, false
	}
	if err := form.Validate(h.validate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formErrorMessage(err)})
		return form, false
	}
	return form, true
}

func formErrorMessage(err error) string {
	var fe *domain.FieldError
	if errors.As(err, &fe) && fe.Field == "images" {
		if fe.Tag == "max" {
			return "Vous ne pouvez pas ajouter plus de 10 photos."
		}
		return "Veuillez ajouter au moins une photo."
	}
	if errors.As(err, &fe) && fe.Field == "price" {
		return "Le prix doit être un nombre positif."
	}
	return "Veuillez remplir tous les champs obligatoires."
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	if errors.Is(err, domain.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable."})
		return
	}
	h.log.Error(op+" failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgGeneric})
}
