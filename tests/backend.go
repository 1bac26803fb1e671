// Package testutil hosts an in-memory fake of the Darasa backend for
// client tests. It serves just enough of the REST surface to exercise the
// services and records every request so tests can assert on exactly what
// was (or was not) sent.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/enrollment"
	"github.com/darasahq/darasa/core/session"
	"github.com/darasahq/darasa/core/user"
)

const (
	// Fixture credentials accepted by POST /auth/login.
	Email    = "jane@darasa.test"
	Password = "s3cret"
)

// Backend is the fake server. Mutate its exported fields before issuing
// requests to shape responses.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
	lastAuth string

	Identity session.Identity
	Courses  map[string]*course.Course
	Enrolled map[string]bool
	Users    []user.User

	// FailWith, when set, makes every mutating endpoint reply 500 with this
	// message.
	FailWith string

	nextID int
	token  string
}

// NewBackend starts the fake server with one instructor identity and an
// empty catalog.
func NewBackend() *Backend {
	b := &Backend{
		Identity: session.Identity{
			ID:       "u1",
			Email:    Email,
			FullName: "Jane Instructor",
			Roles:    []string{"instructor"},
		},
		Courses:  make(map[string]*course.Course),
		Enrolled: make(map[string]bool),
		token:    freshToken(),
	}

	e := echo.New()
	e.HideBanner = true

	e.POST("/auth/login", b.login)
	e.GET("/courses", b.listCourses)
	e.GET("/courses/my-courses", b.listCourses)
	e.POST("/courses", b.createCourse)
	e.GET("/courses/:id", b.getCourse)
	e.GET("/courses/:id/raw", b.getCourse)
	e.PATCH("/courses/:id", b.updateCourse)
	e.DELETE("/courses/:id", b.deleteCourse)
	e.PATCH("/courses/:id/status", b.setCourseStatus)
	e.POST("/courses/:id/modules", b.createModule)
	e.PATCH("/courses/modules/:id", b.renameModule)
	e.DELETE("/courses/modules/:id", b.deleteModule)
	e.POST("/courses/modules/:id/lessons", b.createLesson)
	e.PATCH("/courses/lessons/:id", b.updateLesson)
	e.DELETE("/courses/lessons/:id", b.deleteLesson)
	e.GET("/enrollments/:courseId/status", b.enrollmentStatus)
	e.POST("/enrollments/:courseId", b.enroll)
	e.GET("/enrollments/my-courses", b.myEnrollments)
	e.GET("/users", b.listUsers)
	e.PUT("/users/:id", b.updateUser)
	e.DELETE("/users/:id", b.deleteUser)

	e.Use(b.record)

	b.Server = httptest.NewServer(e)
	return b
}

// Token returns the bearer token the fake backend issues at login.
func (b *Backend) Token() string { return b.token }

// Requests returns "METHOD /path" entries in arrival order.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// RequestCount counts recorded requests matching the "METHOD /path" prefix;
// with no argument it counts everything.
func (b *Backend) RequestCount(prefix ...string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(prefix) == 0 {
		return len(b.requests)
	}
	var n int
	for _, r := range b.requests {
		if strings.HasPrefix(r, prefix[0]) {
			n++
		}
	}
	return n
}

// LastAuthHeader returns the Authorization header of the most recent
// request, "" when absent.
func (b *Backend) LastAuthHeader() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAuth
}

// AddCourse seeds a course and returns it.
func (b *Backend) AddCourse(title string, modules ...course.Module) *course.Course {
	b.mu.Lock()
	defer b.mu.Unlock()
	crs := &course.Course{
		ID:      b.newID("c"),
		Title:   title,
		Status:  course.StatusDraft,
		Modules: modules,
	}
	b.Courses[crs.ID] = crs
	return crs
}

func (b *Backend) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		b.mu.Lock()
		b.requests = append(b.requests, ctx.Request().Method+" "+ctx.Request().URL.Path)
		b.lastAuth = ctx.Request().Header.Get("Authorization")
		b.mu.Unlock()
		return next(ctx)
	}
}

func (b *Backend) failing() error {
	if b.FailWith != "" {
		return echo.NewHTTPError(http.StatusInternalServerError, b.FailWith)
	}
	return nil
}

func (b *Backend) newID(prefix string) string {
	b.nextID++
	return fmt.Sprintf("%s%d", prefix, b.nextID)
}

func freshToken() string {
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	return token
}

// ---- handlers ----

func (b *Backend) login(ctx echo.Context) error {
	var creds session.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if creds.Email != Email || creds.Password != Password {
		return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
	}
	return ctx.JSON(http.StatusOK, session.LoginResponse{
		Message: "ok",
		Token:   b.token,
		User:    b.Identity,
	})
}

func (b *Backend) listCourses(ctx echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	search := strings.ToLower(ctx.QueryParam("search"))
	courses := make([]course.Course, 0, len(b.Courses))
	for _, crs := range b.Courses {
		if search != "" && !strings.Contains(strings.ToLower(crs.Title), search) {
			continue
		}
		courses = append(courses, *crs)
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (b *Backend) createCourse(ctx echo.Context) error {
	if err := b.failing(); err != nil {
		return err
	}
	var nc course.NewCourse
	if err := ctx.Bind(&nc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	crs := &course.Course{ID: b.newID("c"), Title: nc.Title, Description: nc.Description, Price: nc.Price, Status: course.StatusDraft}
	b.Courses[crs.ID] = crs
	return ctx.JSON(http.StatusCreated, crs)
}

func (b *Backend) getCourse(ctx echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	crs, ok := b.Courses[ctx.Param("id")]
	if !ok {
		return ctx.JSON(http.StatusNotFound, echo.Map{"message": "course not found"})
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (b *Backend) updateCourse(ctx echo.Context) error {
	if err := b.failing(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	crs, ok := b.Courses[ctx.Param("id")]
	if !ok {
		return ctx.JSON(http.StatusNotFound, echo.Map{"message": "course not found"})
	}
	var uc course.UpdateCourse
	if err := ctx.Bind(&uc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if uc.Title != "" {
		crs.Title = uc.Title
	}
	if uc.Description != "" {
		crs.Description = uc.Description
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (b *Backend) deleteCourse(ctx echo.Context) error {
	if err := b.failing(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.Courses, ctx.Param("id"))
	return ctx.NoContent(http.StatusNoContent)
}

func (b *Backend) setCourseStatus(ctx echo.Context) error {
	if err := b.failing(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	crs, ok := b.Courses[ctx.Param("id")]
	if !ok {
		return ctx.JSON(http.StatusNotFound, echo.Map{"message": "course not found"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	crs.Status = body.Status
	return ctx.JSON(http.StatusOK, crs)
}

func (b *Backend) createModule(ctx echo.Context) error {
	if err := b.failing(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	crs, ok := b.Courses[ctx.Param("id")]
	if !ok {
		return ctx.JSON(http.StatusNotFound, echo.Map{"message": "course not found"})
	}
	var nm course.NewModule
	if err := ctx.Bind(&nm); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	mod := course.Module{
		ID:         b.newID("m"),
		CourseID:   crs.ID,
		Title:      nm.Title,
		OrderIndex: len(crs.Modules),
	}
	crs.Modules = append(crs.Modules, mod)
	crs.Counts.Modules = len(crs.Modules)
	return ctx.JSON(http.StatusCreated, mod)
}

func (b *Backend) findModule(id string) (*course.Course, *course.Module) {
	for _, crs := range b.Courses {
		for i := range crs.Modules {
			if crs.Modules[i].ID == id {
				return crs, &crs.Modules[i]
			}
		}
	}
	return nil, nil
}

func (b *Backend) renameModule(ctx echo.Context) error {
	if err := b.failing(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, mod := b.findModule(ctx.Param("id"))
	if mod == nil {
		return ctx.JSON(http.StatusNotFound, echo.Map{"message": "module not found"})
	}
	var nm course.NewModule
	if err := ctx.Bind(&nm); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	mod.Title = nm.Title
	return ctx.JSON(http.StatusOK, mod)
}

func (b *Backend) deleteModule(ctx echo.Context) error {
	if err := b.failing(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	crs, mod := b.findModule(ctx.Param("id"))
	if mod == nil {
		return ctx.JSON(http.StatusNotFound, echo.Map{"message": "module not found"})
	}
	kept := crs.Modules[:0]
	for _, m := range crs.Modules {
		if m.ID != mod.ID {
			kept = append(kept, m)
		}
	}
	crs.Modules = kept
	crs.Counts.Modules = len(crs.Modules)
	return ctx.NoContent(http.StatusNoContent)
}

func (b *Backend) createLesson(ctx echo.Context) error {
	if err := b.failing(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, mod := b.findModule(ctx.Param("id"))
	if mod == nil {
		return ctx.JSON(http.StatusNotFound, echo.Map{"message": "module not found"})
	}
	var nl course.NewLesson
	if err := ctx.Bind(&nl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	les := course.Lesson{
		ID:            b.newID("l"),
		ModuleID:      mod.ID,
		Title:         nl.Title,
		Type:          nl.Type,
		OrderIndex:    len(mod.Lessons),
		IsFreePreview: nl.IsFree,
	}
	if nl.VideoURL != "" {
		les.Video = &course.Video{URL: nl.VideoURL, Duration: nl.Duration}
	}
	mod.Lessons = append(mod.Lessons, les)
	return ctx.JSON(http.StatusCreated, les)
}

func (b *Backend) findLesson(id string) (*course.Module, *course.Lesson) {
	for _, crs := range b.Courses {
		for i := range crs.Modules {
			for j := range crs.Modules[i].Lessons {
				if crs.Modules[i].Lessons[j].ID == id {
					return &crs.Modules[i], &crs.Modules[i].Lessons[j]
				}
			}
		}
	}
	return nil, nil
}

func (b *Backend) updateLesson(ctx echo.Context) error {
	if err := b.failing(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, les := b.findLesson(ctx.Param("id"))
	if les == nil {
		return ctx.JSON(http.StatusNotFound, echo.Map{"message": "lesson not found"})
	}
	var ul course.UpdateLesson
	if err := ctx.Bind(&ul); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if ul.Title != "" {
		les.Title = ul.Title
	}
	if ul.Type != "" {
		les.Type = ul.Type
	}
	if ul.IsFree != nil {
		les.IsFreePreview = *ul.IsFree
	}
	return ctx.JSON(http.StatusOK, les)
}

func (b *Backend) deleteLesson(ctx echo.Context) error {
	if err := b.failing(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	mod, les := b.findLesson(ctx.Param("id"))
	if les == nil {
		return ctx.JSON(http.StatusNotFound, echo.Map{"message": "lesson not found"})
	}
	kept := mod.Lessons[:0]
	for _, l := range mod.Lessons {
		if l.ID != les.ID {
			kept = append(kept, l)
		}
	}
	mod.Lessons = kept
	return ctx.NoContent(http.StatusNoContent)
}

func (b *Backend) enrollmentStatus(ctx echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ctx.JSON(http.StatusOK, enrollment.EnrollmentStatus{IsEnrolled: b.Enrolled[ctx.Param("courseId")]})
}

func (b *Backend) enroll(ctx echo.Context) error {
	if err := b.failing(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	courseID := ctx.Param("courseId")
	if _, ok := b.Courses[courseID]; !ok {
		return ctx.JSON(http.StatusNotFound, echo.Map{"message": "course not found"})
	}
	if b.Enrolled[courseID] {
		return ctx.JSON(http.StatusConflict, echo.Map{"message": "already enrolled"})
	}
	b.Enrolled[courseID] = true
	return ctx.JSON(http.StatusCreated, enrollment.Enrollment{
		ID:       b.newID("e"),
		UserID:   b.Identity.ID,
		CourseID: courseID,
		Status:   enrollment.StatusActive,
	})
}

func (b *Backend) myEnrollments(ctx echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	enrollments := make([]enrollment.Enrollment, 0, len(b.Enrolled))
	for courseID := range b.Enrolled {
		enr := enrollment.Enrollment{UserID: b.Identity.ID, CourseID: courseID, Status: enrollment.StatusActive}
		if ctx.QueryParam("status") == enrollment.FilterCompleted {
			continue
		}
		enrollments = append(enrollments, enr)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"data": enrollments})
}

func (b *Backend) listUsers(ctx echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	search := strings.ToLower(ctx.QueryParam("search"))
	role := ctx.QueryParam("role")
	status := ctx.QueryParam("status")

	matched := make([]user.User, 0, len(b.Users))
	for _, usr := range b.Users {
		if search != "" && !strings.Contains(strings.ToLower(usr.FullName), search) &&
			!strings.Contains(strings.ToLower(usr.Email), search) {
			continue
		}
		if status != "" && usr.Status != status {
			continue
		}
		if role != "" && !hasRole(usr, role) {
			continue
		}
		matched = append(matched, usr)
	}
	return ctx.JSON(http.StatusOK, user.ListResult{
		Data: matched,
		Meta: user.ListMeta{Total: len(matched), Page: 1, Limit: 10, TotalPages: 1},
	})
}

func hasRole(usr user.User, role string) bool {
	for _, r := range usr.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (b *Backend) updateUser(ctx echo.Context) error {
	if err := b.failing(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var uu user.UpdateUser
	if err := ctx.Bind(&uu); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	for i := range b.Users {
		if b.Users[i].ID == ctx.Param("id") {
			if uu.FullName != "" {
				b.Users[i].FullName = uu.FullName
			}
			if uu.Status != "" {
				b.Users[i].Status = uu.Status
			}
			if uu.Roles != nil {
				b.Users[i].Roles = uu.Roles
			}
			return ctx.JSON(http.StatusOK, b.Users[i])
		}
	}
	return ctx.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
}

func (b *Backend) deleteUser(ctx echo.Context) error {
	if err := b.failing(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Users {
		if b.Users[i].ID == ctx.Param("id") {
			b.Users = append(b.Users[:i], b.Users[i+1:]...)
			return ctx.NoContent(http.StatusNoContent)
		}
	}
	return ctx.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
}
