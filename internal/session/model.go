package session

import (
	"fmt"
	"time"
)

// UserProfile is the authenticated account record, persisted wholesale as the
// userData entry. It is replaced on re-login and destroyed on logout.
type UserProfile struct {
	Email         string    `json:"email"`
	TenantID      int       `json:"tenantId"`
	RecordingType string    `json:"type"`
	FolderPath    string    `json:"folderPath"`
	LoggedInAt    time.Time `json:"loggedInAt"`
}

// AccountScope identifies the state-store scope for this account. The upload
// watermark lives under this scope, so switching accounts never inherits
// another account's upload history.
func (p UserProfile) AccountScope() string {
	return fmt.Sprintf("tenant:%d:%s", p.TenantID, p.Email)
}
