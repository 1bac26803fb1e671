package enrollment_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darasahq/darasa/core/cache"
	"github.com/darasahq/darasa/core/enrollment"
	"github.com/darasahq/darasa/gateway"
	testutil "github.com/darasahq/darasa/tests"
)

type fakeAuth struct{ authed bool }

func (f fakeAuth) IsAuthenticated() bool { return f.authed }

func setup(t *testing.T) (*testutil.Backend, *enrollment.Service) {
	t.Helper()
	backend := testutil.NewBackend()
	t.Cleanup(backend.Close)
	svc := enrollment.NewService(backend.Client(testutil.StaticToken(backend.Token())), cache.New())
	return backend, svc
}

func TestFlow_unauthenticatedRedirectsToLogin(t *testing.T) {
	backend, svc := setup(t)
	crs := backend.AddCourse("Paid Course")
	flow := enrollment.NewFlow(svc, fakeAuth{authed: false})

	outcome := flow.Enroll(context.Background(), crs.ID)

	assert.NoError(t, outcome.Err)
	assert.Equal(t, 0, backend.RequestCount("POST /enrollments/"), "no enroll request while signed out")

	// the return path round-trips back to the course
	if !strings.HasPrefix(outcome.Navigate, "/login?") {
		t.Fatalf("Navigate = %q, want a /login path", outcome.Navigate)
	}
	parsed, err := url.Parse(outcome.Navigate)
	if err != nil {
		t.Fatalf("parsing navigate path: %v", err)
	}
	assert.Equal(t, "/courses/"+crs.ID, parsed.Query().Get("redirect"))
}

func TestFlow_successNavigatesToLearning(t *testing.T) {
	backend, svc := setup(t)
	crs := backend.AddCourse("Paid Course")
	flow := enrollment.NewFlow(svc, fakeAuth{authed: true})
	ctx := context.Background()

	// warm the status cache so we can observe its invalidation
	status, err := svc.Status(ctx, crs.ID)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	assert.False(t, status.IsEnrolled)

	outcome := flow.Enroll(ctx, crs.ID)
	assert.NoError(t, outcome.Err)
	assert.Equal(t, enrollment.LearningPath, outcome.Navigate)

	// status cache entry was dropped after the success ack
	status, err = svc.Status(ctx, crs.ID)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	assert.True(t, status.IsEnrolled)
	assert.Equal(t, 2, backend.RequestCount("GET /enrollments/"+crs.ID+"/status"))
}

func TestFlow_failureSurfacesServerMessage(t *testing.T) {
	backend, svc := setup(t)
	crs := backend.AddCourse("Popular Course")
	backend.Enrolled[crs.ID] = true
	flow := enrollment.NewFlow(svc, fakeAuth{authed: true})

	outcome := flow.Enroll(context.Background(), crs.ID)
	if outcome.Err == nil {
		t.Fatal("Enroll() expected an error")
	}
	assert.Empty(t, outcome.Navigate, "failure stays on the course page")
	var apiErr *gateway.APIError
	if assert.ErrorAs(t, outcome.Err, &apiErr) {
		assert.Equal(t, "already enrolled", apiErr.Message)
	}
}

func TestService_StatusIsStaleTolerant(t *testing.T) {
	backend, svc := setup(t)
	crs := backend.AddCourse("Course")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Status(ctx, crs.ID); err != nil {
			t.Fatalf("Status() failed: %v", err)
		}
	}
	assert.Equal(t, 1, backend.RequestCount("GET /enrollments/"+crs.ID+"/status"), "repeat reads must not refetch")
}

func TestService_Mine(t *testing.T) {
	backend, svc := setup(t)
	crs := backend.AddCourse("Course")
	backend.Enrolled[crs.ID] = true

	enrollments, err := svc.Mine(context.Background(), enrollment.FilterInProgress)
	if err != nil {
		t.Fatalf("Mine() failed: %v", err)
	}
	if assert.Len(t, enrollments, 1) {
		assert.Equal(t, crs.ID, enrollments[0].CourseID)
		assert.Equal(t, enrollment.StatusActive, enrollments[0].Status)
	}
}
