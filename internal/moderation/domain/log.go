package domain

import "strings"

// Target types.
const (
	TargetProduct = "product"
	TargetUser    = "user"
)

// LogEntry is one record of the append-only moderation log.
type LogEntry struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	TargetID      string `json:"targetId"`
	TargetOwnerID string `json:"targetOwnerId"`
	TargetTitle   string `json:"targetTitle,omitempty"`
	Reason        string `json:"reason"`
	AdminID       string `json:"adminId"`
	CreatedAt     int64  `json:"createdAt"`
}

// Fields is the document data of the entry.
func (e LogEntry) Fields() map[string]interface{} {
	data := map[string]interface{}{
		"type":          e.Type,
		"targetId":      e.TargetID,
		"targetOwnerId": e.TargetOwnerID,
		"reason":        e.Reason,
		"adminId":       e.AdminID,
		"createdAt":     e.CreatedAt,
	}
	if e.Type == TargetProduct {
		data["targetTitle"] = e.TargetTitle
	}
	return data
}

func LogEntryFromData(id string, data map[string]interface{}) LogEntry {
	e := LogEntry{ID: id}
	e.Type, _ = data["type"].(string)
	e.TargetID, _ = data["targetId"].(string)
	e.TargetOwnerID, _ = data["targetOwnerId"].(string)
	e.TargetTitle, _ = data["targetTitle"].(string)
	e.Reason, _ = data["reason"].(string)
	e.AdminID, _ = data["adminId"].(string)
	switch v := data["createdAt"].(type) {
	case int64:
		e.CreatedAt = v
	case int:
		e.CreatedAt = int64(v)
	case float64:
		e.CreatedAt = int64(v)
	}
	return e
}

// ValidReason reports whether reason has any non-whitespace content.
func ValidReason(reason string) bool {
	return strings.TrimSpace(reason) != ""
}
