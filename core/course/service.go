package course

import (
	"context"
	"errors"
	"net/url"

	"github.com/darasahq/darasa/core/cache"
	"github.com/darasahq/darasa/gateway"
)

var ErrNotFound = errors.New("course not found")

// Service wraps the course endpoints. It shapes payloads and keeps the read
// cache honest; the server stays the sole source of truth.
type Service struct {
	api   *gateway.Client
	cache *cache.Cache
}

func NewService(api *gateway.Client, c *cache.Cache) *Service {
	return &Service{api: api, cache: c}
}

func courseKey(id string) string { return "course:" + id }

// Published lists the public catalog, optionally filtered by search.
func (svc *Service) Published(ctx context.Context, search string) ([]Course, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	var courses []Course
	if err := svc.api.Get(ctx, "/courses", params, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Mine lists the courses owned by the current instructor.
func (svc *Service) Mine(ctx context.Context, search string) ([]Course, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	var courses []Course
	if err := svc.api.Get(ctx, "/courses/my-courses", params, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	if err := nc.Validate(); err != nil {
		return Course{}, err
	}
	var crs Course
	if err := svc.api.Post(ctx, "/courses", nc, &crs); err != nil {
		return Course{}, err
	}
	return crs, nil
}

// Get fetches a course by id, serving a cached copy when one exists.
// Cached reads are stale-tolerant; mutations invalidate the entry.
func (svc *Service) Get(ctx context.Context, id string) (Course, error) {
	if cached, ok := svc.cache.Get(courseKey(id)); ok {
		if crs, ok := cached.(Course); ok {
			return crs, nil
		}
	}
	var crs Course
	if err := svc.api.Get(ctx, "/courses/"+id, nil, &crs); err != nil {
		if gateway.IsNotFound(err) {
			return Course{}, ErrNotFound
		}
		return Course{}, err
	}
	svc.cache.Set(courseKey(id), crs)
	return crs, nil
}

// GetRaw fetches the owner's unpublished view, bypassing the cache.
func (svc *Service) GetRaw(ctx context.Context, id string) (Course, error) {
	var crs Course
	if err := svc.api.Get(ctx, "/courses/"+id+"/raw", nil, &crs); err != nil {
		if gateway.IsNotFound(err) {
			return Course{}, ErrNotFound
		}
		return Course{}, err
	}
	return crs, nil
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	if err := uc.Validate(); err != nil {
		return Course{}, err
	}
	var crs Course
	if err := svc.api.Patch(ctx, "/courses/"+id, uc, &crs); err != nil {
		return Course{}, err
	}
	svc.cache.Invalidate(courseKey(id))
	return crs, nil
}

// Delete removes a course; the server cascades to modules, lessons and
// enrollments.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.api.Delete(ctx, "/courses/"+id); err != nil {
		return err
	}
	svc.cache.Invalidate(courseKey(id))
	return nil
}

func (svc *Service) SetStatus(ctx context.Context, id, status string) error {
	body := map[string]string{"status": status}
	if err := svc.api.Patch(ctx, "/courses/"+id+"/status", body, nil); err != nil {
		return err
	}
	svc.cache.Invalidate(courseKey(id))
	return nil
}

// CreateModule adds a module; the new module's id and order index are
// assigned server-side, so the parent course entry is invalidated rather
// than patched locally.
func (svc *Service) CreateModule(ctx context.Context, courseID string, nm NewModule) (Module, error) {
	if err := nm.Validate(); err != nil {
		return Module{}, err
	}
	var mod Module
	if err := svc.api.Post(ctx, "/courses/"+courseID+"/modules", nm, &mod); err != nil {
		return Module{}, err
	}
	svc.cache.Invalidate(courseKey(courseID))
	return mod, nil
}

func (svc *Service) RenameModule(ctx context.Context, courseID, moduleID, title string) (Module, error) {
	nm := NewModule{Title: title}
	if err := nm.Validate(); err != nil {
		return Module{}, err
	}
	var mod Module
	if err := svc.api.Patch(ctx, "/courses/modules/"+moduleID, nm, &mod); err != nil {
		return Module{}, err
	}
	svc.cache.Invalidate(courseKey(courseID))
	return mod, nil
}

func (svc *Service) DeleteModule(ctx context.Context, courseID, moduleID string) error {
	if err := svc.api.Delete(ctx, "/courses/modules/"+moduleID); err != nil {
		return err
	}
	svc.cache.Invalidate(courseKey(courseID))
	return nil
}

func (svc *Service) CreateLesson(ctx context.Context, courseID, moduleID string, nl NewLesson) (Lesson, error) {
	if err := nl.Validate(); err != nil {
		return Lesson{}, err
	}
	var les Lesson
	if err := svc.api.Post(ctx, "/courses/modules/"+moduleID+"/lessons", nl, &les); err != nil {
		return Lesson{}, err
	}
	svc.cache.Invalidate(courseKey(courseID))
	return les, nil
}

func (svc *Service) UpdateLesson(ctx context.Context, courseID, lessonID string, ul UpdateLesson) (Lesson, error) {
	if err := ul.Validate(); err != nil {
		return Lesson{}, err
	}
	var les Lesson
	if err := svc.api.Patch(ctx, "/courses/lessons/"+lessonID, ul, &les); err != nil {
		return Lesson{}, err
	}
	svc.cache.Invalidate(courseKey(courseID))
	return les, nil
}

func (svc *Service) DeleteLesson(ctx context.Context, courseID, lessonID string) error {
	if err := svc.api.Delete(ctx, "/courses/lessons/"+lessonID); err != nil {
		return err
	}
	svc.cache.Invalidate(courseKey(courseID))
	return nil
}
