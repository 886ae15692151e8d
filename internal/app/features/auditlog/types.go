// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/ideahub/internal/app/store/audit"
)

// listItem is a single audit event row with names resolved.
type listItem struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Category   string            `json:"category"`
	EventType  string            `json:"event_type"`
	ActorName  string            `json:"actor_name,omitempty"`
	TargetName string            `json:"target_name,omitempty"`
	IP         string            `json:"ip,omitempty"`
	Success    bool              `json:"success"`
	Details    map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Events     []listItem `json:"events"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// knownCategory reports whether c is a category this app records.
func knownCategory(c string) bool {
	switch c {
	case audit.CategoryAuth, audit.CategoryAdmin, audit.CategoryContent:
		return true
	}
	return false
}
