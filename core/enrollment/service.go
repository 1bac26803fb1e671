package enrollment

import (
	"context"
	"net/url"

	"github.com/darasahq/darasa/core/cache"
	"github.com/darasahq/darasa/gateway"
)

// Service wraps the enrollment endpoints.
type Service struct {
	api   *gateway.Client
	cache *cache.Cache
}

func NewService(api *gateway.Client, c *cache.Cache) *Service {
	return &Service{api: api, cache: c}
}

func statusKey(courseID string) string { return "enrollment:" + courseID }

// Status reports whether the current user is enrolled in the course.
// Results are cached stale-tolerantly; Enroll invalidates the entry.
func (svc *Service) Status(ctx context.Context, courseID string) (EnrollmentStatus, error) {
	if cached, ok := svc.cache.Get(statusKey(courseID)); ok {
		if status, ok := cached.(EnrollmentStatus); ok {
			return status, nil
		}
	}
	var status EnrollmentStatus
	if err := svc.api.Get(ctx, "/enrollments/"+courseID+"/status", nil, &status); err != nil {
		return EnrollmentStatus{}, err
	}
	svc.cache.Set(statusKey(courseID), status)
	return status, nil
}

// Enroll enrolls the current user; the status cache entry is invalidated
// only after the success acknowledgment.
func (svc *Service) Enroll(ctx context.Context, courseID string) (Enrollment, error) {
	var enr Enrollment
	if err := svc.api.Post(ctx, "/enrollments/"+courseID, nil, &enr); err != nil {
		return Enrollment{}, err
	}
	svc.cache.Invalidate(statusKey(courseID))
	return enr, nil
}

type enrollmentList struct {
	Data []Enrollment `json:"data"`
}

// Mine lists the current user's enrollments, optionally filtered by
// in_progress/completed.
func (svc *Service) Mine(ctx context.Context, status string) ([]Enrollment, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	var list enrollmentList
	if err := svc.api.Get(ctx, "/enrollments/my-courses", params, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}
