package http

import "github.com/gabonshop/gabonshop-backend/internal/catalog/domain"

// productView is a product as the front-end renders it: display-ready image
// URLs, a cover (empty means placeholder) and the seller's WhatsApp link.
type productView struct {
	domain.Product
	CoverImage   string `json:"coverImage"`
	WhatsAppLink string `json:"whatsappLink,omitempty"`
}

func toView(p domain.Product) productView {
	display := p
	display.Images = p.DisplayImages()
	return productView{
		Product:      display,
		CoverImage:   p.CoverImage(),
		WhatsAppLink: domain.WhatsAppLink(p.OwnerPhone),
	}
}

func toViews(products []domain.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toView(p))
	}
	return out
}
