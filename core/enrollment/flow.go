package enrollment

import (
	"context"
	"net/url"
)

// LearningPath is where a successful enrollment lands.
const LearningPath = "/dashboard/learning"

// Outcome is the navigation result of an enrollment attempt.
type Outcome struct {
	// Navigate is the path to go to next, "" to stay on the course page.
	Navigate string
	// Err is the failure to surface, nil on success or redirect-to-login.
	Err error
}

type authChecker interface {
	IsAuthenticated() bool
}

// Flow runs the enroll action end to end: auth check, request, cache
// invalidation, navigation.
type Flow struct {
	svc  *Service
	auth authChecker
}

func NewFlow(svc *Service, auth authChecker) *Flow {
	return &Flow{svc: svc, auth: auth}
}

// LoginRedirect builds the login path with a return path that round-trips
// back to the course.
func LoginRedirect(courseID string) string {
	v := url.Values{}
	v.Set("redirect", "/courses/"+courseID)
	return "/login?" + v.Encode()
}

// Enroll performs the enrollment flow. Unauthenticated users are sent to
// login with a return path and no enroll request is made. On failure the
// server's message is surfaced via Outcome.Err and the user stays put.
func (f *Flow) Enroll(ctx context.Context, courseID string) Outcome {
	if !f.auth.IsAuthenticated() {
		return Outcome{Navigate: LoginRedirect(courseID)}
	}
	if _, err := f.svc.Enroll(ctx, courseID); err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Navigate: LearningPath}
}
