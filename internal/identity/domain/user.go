package domain

import (
	"strconv"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile is a document of the users collection, keyed by the account uid.
// Older documents may carry the phone number under whatsapp or phoneNumber
// instead.
type Profile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Whatsapp    string `json:"whatsapp,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        string `json:"role"`
	CreatedAt   int64  `json:"createdAt"`
}

func (p Profile) IsAdmin() bool { return p.Role == RoleAdmin }

// ProfileFromData decodes a users document, tolerating absent fields.
func ProfileFromData(id string, data map[string]interface{}) Profile {
	p := Profile{
		ID:          id,
		Name:        str(data["name"]),
		Email:       str(data["email"]),
		Phone:       str(data["phone"]),
		Whatsapp:    str(data["whatsapp"]),
		PhoneNumber: str(data["phoneNumber"]),
		Role:        str(data["role"]),
	}
	switch v := data["createdAt"].(type) {
	case int64:
		p.CreatedAt = v
	case int:
		p.CreatedAt = int64(v)
	case float64:
		p.CreatedAt = int64(v)
	case time.Time:
		p.CreatedAt = v.UnixMilli()
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			p.CreatedAt = t.UnixMilli()
		} else if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			p.CreatedAt = n
		}
	}
	return p
}

// Fields is the document data written for a new profile.
func (p Profile) Fields() map[string]interface{} {
	return map[string]interface{}{
		"name":      p.Name,
		"email":     p.Email,
		"phone":     p.Phone,
		"role":      p.Role,
		"createdAt": p.CreatedAt,
	}
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

// CurrentUser is the signed-in user as seen by the rest of the application:
// the auth session merged with its profile document.
type CurrentUser struct {
	ID    string `json:"id"`
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`

	// Raw legacy contact fields of the profile, kept for listing snapshots.
	Whatsapp    string `json:"-"`
	PhoneNumber string `json:"-"`
}

func (u CurrentUser) IsAdmin() bool { return u.Role == RoleAdmin }

// Project merges a session identity with its profile. Without a profile
// document the user gets an empty name and phone with the user role; blank
// fields of a present profile fall back to the session's own data.
func Project(uid, email, displayName string, p *Profile) CurrentUser {
	u := CurrentUser{ID: uid, UID: uid, Email: email, Role: RoleUser}
	if p == nil {
		return u
	}

	u.Name = firstNonEmpty(p.Name, displayName, email)
	u.Phone = firstNonEmpty(p.Phone, p.Whatsapp)
	u.Whatsapp = p.Whatsapp
	u.PhoneNumber = p.PhoneNumber
	u.Email = firstNonEmpty(p.Email, email)
	if p.Role != "" {
		u.Role = p.Role
	}
	return u
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
