package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Categories and Locations offered by the listing form.
var (
	Categories = []string{"Véhicules", "Immobilier", "Informatique", "Mode", "Maison", "Loisirs", "Autres"}
	Locations  = []string{
		"Libreville", "Port-Gentil", "Franceville", "Oyem", "Moanda", "Mouila",
		"Lambaréné", "Makokou", "Koumamoussou", "Tchibanga", "Autre",
	}
)

// ProductForm is what a seller submits when creating or editing a listing.
type ProductForm struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Category    string   `json:"category" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Images      []string `json:"images" validate:"min=1,max=10,dive,required"`
}

// Normalize trims the free-text fields in place.
func (f *ProductForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Category = strings.TrimSpace(f.Category)
	f.Location = strings.TrimSpace(f.Location)
}

// FieldError names the first form field that failed validation.
type FieldError struct {
	Field string
	Tag   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s failed %q", ErrInvalidProduct, e.Field, e.Tag)
}

func (e *FieldError) Unwrap() error { return ErrInvalidProduct }

// Validate normalizes the form and checks it. Failures wrap ErrInvalidProduct,
// as a *FieldError when a single field is to blame.
func (f *ProductForm) Validate(v *validator.Validate) error {
	f.Normalize()
	if err := v.Struct(f); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return &FieldError{Field: strings.ToLower(verrs[0].Field()), Tag: verrs[0].Tag()}
		}
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	return nil
}

// Fields is the document data a form writes, without owner or timestamps.
// A nil price is stored as null, meaning "price negotiable".
func (f ProductForm) Fields() map[string]interface{} {
	images := make([]string, len(f.Images))
	copy(images, f.Images)

	var price interface{}
	if f.Price != nil {
		price = *f.Price
	}

	return map[string]interface{}{
		"title":       f.Title,
		"description": f.Description,
		"price":       price,
		"category":    f.Category,
		"location":    f.Location,
		"images":      images,
	}
}
