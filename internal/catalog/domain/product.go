package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// MaxImages bounds a product's image list. The gateway does not enforce it.
const MaxImages = 10

// Product is a catalog listing. Owner fields are a snapshot of the creating
// user and are not kept in sync with later profile edits. Timestamps are Unix
// milliseconds set by the writer.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category,omitempty"`
	Location    string   `json:"location,omitempty"`
	Images      []string `json:"images"`
	OwnerID     string   `json:"ownerId"`
	OwnerName   string   `json:"ownerName"`
	OwnerPhone  string   `json:"ownerPhone"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
}

// PriceOrZero treats a missing price as 0, which is how price sorting ranks
// "price negotiable" listings.
func (p Product) PriceOrZero() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

// CoverImage is the display URL of the first image, or "" when a placeholder
// should be rendered.
func (p Product) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return SafeImageURL(p.Images[0])
}

// DisplayImages rewrites every image URL for direct display.
func (p Product) DisplayImages() []string {
	out := make([]string, 0, len(p.Images))
	for _, u := range p.Images {
		out = append(out, SafeImageURL(u))
	}
	return out
}

// Owner is the creating user as seen at creation time.
type Owner struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Whatsapp    string
	PhoneNumber string
}

// SnapshotName is the owner's name, falling back to the email.
func (o Owner) SnapshotName() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Email
}

// SnapshotPhone is the first non-empty of phone, whatsapp and phoneNumber.
func (o Owner) SnapshotPhone() string {
	for _, p := range []string{o.Phone, o.Whatsapp, o.PhoneNumber} {
		if p != "" {
			return p
		}
	}
	return ""
}

// ProductFromData decodes a stored product document. Backends hand back
// numbers, timestamps and arrays in different Go types, and images in several
// historical shapes; all of them are accepted here so the rest of the code
// sees one canonical Product.
func ProductFromData(id string, data map[string]interface{}) Product {
	p := Product{
		ID:          id,
		Title:       stringField(data, "title"),
		Description: stringField(data, "description"),
		Category:    stringField(data, "category"),
		Location:    stringField(data, "location"),
		Images:      ClassifyImages(data).URLs,
		OwnerID:     stringField(data, "ownerId"),
		OwnerName:   stringField(data, "ownerName"),
		OwnerPhone:  stringField(data, "ownerPhone"),
		CreatedAt:   millisField(data, "createdAt"),
		UpdatedAt:   millisField(data, "updatedAt"),
	}
	if price, ok := number(data["price"]); ok {
		p.Price = &price
	}
	return p
}

func stringField(data map[string]interface{}, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		if strings.TrimSpace(n) == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// millisField reads a timestamp stored as epoch millis, a time value or an
// RFC 3339 string.
func millisField(data map[string]interface{}, key string) int64 {
	switch v := data[key].(type) {
	case time.Time:
		return v.UnixMilli()
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t.UnixMilli()
		}
	}
	if f, ok := number(data[key]); ok {
		return int64(f)
	}
	return 0
}
