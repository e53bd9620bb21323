package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/skillverse/internal/model"
)

func TestListActive_EmptyIsNotNil(t *testing.T) {
	db := newTestDB(t)

	courses, err := db.ListActive(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)
}

func TestListActive_OnlyActive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	createTestCourse(t, db, "Go Basics", model.CourseStatusActive)
	createTestCourse(t, db, "Draft Course", model.CourseStatusDraft)
	createTestCourse(t, db, "Old Course", model.CourseStatusArchived)

	courses, err := db.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Go Basics", courses[0].Title)

	n, err := db.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCreate_DefaultsToDraft(t *testing.T) {
	db := newTestDB(t)

	c := createTestCourse(t, db, "Untitled", "")
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, model.CourseStatusDraft, c.Status)
}

func TestEnroll_Idempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	course := createTestCourse(t, db, "Go Basics", model.CourseStatusActive)

	first, err := db.Enroll(ctx, "user_1", course.ID)
	require.NoError(t, err)
	second, err := db.Enroll(ctx, "user_1", course.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	enrollments, err := db.ListEnrollments(ctx)
	require.NoError(t, err)
	assert.Len(t, enrollments, 1)

	n, err := db.CountEnrollments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEnroll_UnknownCourse(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Enroll(context.Background(), "user_1", "no-such-course")
	assert.Error(t, err)
}
