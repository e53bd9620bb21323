package model

import "time"

// Course statuses. Only active courses are listed publicly.
const (
	CourseStatusActive   = "active"
	CourseStatusDraft    = "draft"
	CourseStatusArchived = "archived"
)

type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	CreatorID    string    `json:"creatorId"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Enrollment links a user (by subject id) to a course.
type Enrollment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	CourseID   string    `json:"courseId"`
	EnrolledAt time.Time `json:"enrolledAt"`
}
