package users

import "time"

// Preferences holds customer notification preferences.
type Preferences struct {
	Newsletter       bool `json:"newsletter"`
	SMSNotifications bool `json:"sms_notifications"`
}

// User represents a storefront account. Accounts are never physically
// deleted; deactivation flips IsActive instead.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         string      `json:"role"`
	ContactNo    string      `json:"contact_no"`
	Barangay     string      `json:"barangay"`
	Sitio        string      `json:"sitio"`
	IsActive     bool        `json:"is_active"`
	Department   string      `json:"department,omitempty"`
	// Permissions is stored on staff accounts but never consulted by
	// permission checks. Kept as-is pending product clarification.
	Permissions []string    `json:"permissions,omitempty"`
	CreatedBy   string      `json:"created_by,omitempty"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
