package enrollment

// Enrollment statuses.
const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusDropped   = "DROPPED"
	StatusExpired   = "EXPIRED"
)

// List filters accepted by /enrollments/my-courses.
const (
	FilterInProgress = "in_progress"
	FilterCompleted  = "completed"
)

type (
	// Enrollment links the current student to a course. Progress is mutated
	// by learning activity elsewhere; the client only reads it.
	Enrollment struct {
		ID          string         `json:"id"`
		UserID      string         `json:"user_id"`
		CourseID    string         `json:"course_id"`
		Status      string         `json:"status"`
		ProgressPct float64        `json:"progress_pct"`
		EnrolledAt  string         `json:"enrolled_at"`
		CompletedAt string         `json:"completed_at,omitempty"`
		Course      *CourseSummary `json:"course,omitempty"`
	}

	CourseSummary struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		ThumbnailURL string `json:"thumbnail_url"`
		Instructor   *struct {
			FullName string `json:"full_name"`
		} `json:"instructor,omitempty"`
	}

	// Status payload of GET /enrollments/:courseId/status.
	EnrollmentStatus struct {
		IsEnrolled bool `json:"isEnrolled"`
	}
)
