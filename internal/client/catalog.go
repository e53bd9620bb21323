package client

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/skillverse/internal/model"
)

// Catalog keeps the course list and enrollments shown across the app. It
// starts empty and only changes on Refresh.
type Catalog struct {
	transport Transport
	logger    *slog.Logger

	mu          sync.RWMutex
	courses     []model.Course
	enrollments []model.Enrollment
}

func NewCatalog(t Transport, logger *slog.Logger) *Catalog {
	return &Catalog{
		transport:   t,
		logger:      logger,
		courses:     []model.Course{},
		enrollments: []model.Enrollment{},
	}
}

// Refresh fetches both lists in parallel. State is replaced only when both
// succeed; on failure the previous state stays and the error is returned.
func (c *Catalog) Refresh(ctx context.Context) error {
	var (
		courses     []model.Course
		enrollments []model.Enrollment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := c.transport.Do(gctx, http.MethodGet, "/api/courses/active", nil, &courses)
		return err
	})
	g.Go(func() error {
		_, err := c.transport.Do(gctx, http.MethodGet, "/api/courses/enrollment", nil, &enrollments)
		return err
	})
	if err := g.Wait(); err != nil {
		c.logger.Error("refreshing catalog, keeping previous data", slog.String("error", err.Error()))
		return err
	}

	if courses == nil {
		courses = []model.Course{}
	}
	if enrollments == nil {
		enrollments = []model.Enrollment{}
	}

	c.mu.Lock()
	c.courses = courses
	c.enrollments = enrollments
	c.mu.Unlock()
	return nil
}

// Courses returns a copy of the active courses.
func (c *Catalog) Courses() []model.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.courses)
}

// Enrollments returns a copy of the enrollments.
func (c *Catalog) Enrollments() []model.Enrollment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.enrollments)
}
