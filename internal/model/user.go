// Package model defines the data structures used throughout the application.
package model

import (
	"strings"
	"time"
)

// DefaultTotalLessons is the lesson count a freshly synced user starts with.
const DefaultTotalLessons = 10

// Progress is the lesson-completion blob stored as JSON on each user row.
type Progress struct {
	TotalLessons     int `json:"totalLessons"`
	CompletedLessons int `json:"completedLessons"`
}

// DefaultProgress is stored on first sign-in and returned for users that
// have never been synced.
func DefaultProgress() Progress {
	return Progress{TotalLessons: DefaultTotalLessons, CompletedLessons: 0}
}

// User is the local mirror of an identity owned by the auth provider.
//
// SubjectID is the provider's stable user id and the only unique key; there
// is no separate internal id. Profile fields are refreshed on every sign-in,
// Progress and IsCreator are owned locally and never touched by a sync.
type User struct {
	SubjectID   string    `json:"userId"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"imageUrl"`
	IsCreator   bool      `json:"isCreator"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Identity is the sanitized profile attached to an authenticated request.
// Every field except SubjectID may be empty.
type Identity struct {
	SubjectID string `json:"subjectId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"imageUrl"`
}

// DisplayName joins first and last name, falling back to the email address.
func (i Identity) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(i.FirstName) + " " + strings.TrimSpace(i.LastName))
	if name == "" {
		return i.Email
	}
	return name
}
