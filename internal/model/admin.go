package model

import "time"

// Admin is a dashboard operator. Admin accounts are local and unrelated to the
// learner identities synced from the auth provider.
type Admin struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DashboardStats are the counters shown on the admin dashboard.
type DashboardStats struct {
	Users         int `json:"users"`
	ActiveCourses int `json:"activeCourses"`
	Enrollments   int `json:"enrollments"`
	Feedback      int `json:"feedback"`
}
