package model

import "time"

// Feedback is a course rating left by a learner. Rating is optional; when
// present it is between 1 and 5.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CourseID  string    `json:"courseId"`
	Rating    *int      `json:"rating,omitempty"`
	Comment   string    `json:"feedback"`
	CreatedAt time.Time `json:"createdAt"`
}
