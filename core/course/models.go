package course

import "github.com/darasahq/darasa/core"

// Course lifecycle states.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusArchived  = "ARCHIVED"
)

// Lesson types.
const (
	LessonVideo = "VIDEO"
	LessonText  = "TEXT"
	LessonQuiz  = "QUIZ"
	LessonPDF   = "PDF"
)

type (
	// Course is the catalog/detail representation. Fields under "dashboard
	// only" are populated by /my-courses for the owning instructor.
	Course struct {
		ID           string     `json:"id"`
		Title        string     `json:"title"`
		Description  string     `json:"description,omitempty"` // rich text (HTML)
		CourseImage  string     `json:"course_image,omitempty"`
		PreviewVideo string     `json:"preview_video,omitempty"`
		Instructor   Instructor `json:"instructor"`
		Pricing      Pricing    `json:"pricing"`
		Tags         []string   `json:"tags,omitempty"`

		// dashboard only
		Slug         string   `json:"slug,omitempty"`
		ThumbnailURL string   `json:"thumbnail_url,omitempty"`
		Price        float64  `json:"price,omitempty"`
		Status       string   `json:"status,omitempty"`
		CreatedAt    string   `json:"created_at,omitempty"`
		Modules      []Module `json:"modules,omitempty"`
		Counts       Counts   `json:"_count"`
	}

	Instructor struct {
		Name   string  `json:"name"`
		Rating float64 `json:"rating,omitempty"`
	}

	Pricing struct {
		Amount            float64 `json:"amount"`
		Currency          string  `json:"currency"`
		DiscountAvailable bool    `json:"discount_available"`
	}

	Counts struct {
		Enrollments int `json:"enrollments"`
		Modules     int `json:"modules"`
	}

	// Module is an ordered section of a course; ordering and ids are the
	// server's to assign.
	Module struct {
		ID         string   `json:"id"`
		CourseID   string   `json:"course_id"`
		Title      string   `json:"title"`
		OrderIndex int      `json:"order_index"`
		Lessons    []Lesson `json:"lessons"`
	}

	Lesson struct {
		ID            string `json:"id"`
		ModuleID      string `json:"module_id"`
		Title         string `json:"title"`
		Type          string `json:"type"`
		OrderIndex    int    `json:"order_index"`
		IsFreePreview bool   `json:"is_free_preview"`
		Video         *Video `json:"video,omitempty"`
	}

	Video struct {
		ID       string `json:"id,omitempty"`
		URL      string `json:"url"`
		Duration int    `json:"duration"`
		Status   string `json:"status,omitempty"`
	}
)

// NewCourse contains information needed to create a Course.
type NewCourse struct {
	Title       string  `json:"title" validate:"required,min=2"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	return core.TranslateValidationErrors(core.Validate.Struct(nc))
}

// UpdateCourse defines what may be modified on an existing Course;
// zero-valued fields are left untouched by the backend.
type UpdateCourse struct {
	Title       string  `json:"title,omitempty" validate:"omitempty,min=2"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	ImageURL    string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

func (uc *UpdateCourse) Validate() error {
	uc.Title = core.CleanString(uc.Title)
	return core.TranslateValidationErrors(core.Validate.Struct(uc))
}

// NewModule carries the only creatable module field; order and id come back
// from the server.
type NewModule struct {
	Title string `json:"title" validate:"required,min=2"`
}

func (nm *NewModule) Validate() error {
	nm.Title = core.CleanString(nm.Title)
	return core.TranslateValidationErrors(core.Validate.Struct(nm))
}

// NewLesson is the creation payload for a lesson within a module.
type NewLesson struct {
	Title    string `json:"title" validate:"required,min=2"`
	Type     string `json:"type" validate:"required,oneof=VIDEO TEXT QUIZ PDF"`
	VideoURL string `json:"videoUrl,omitempty" validate:"omitempty,url"`
	Content  string `json:"content,omitempty"`
	Duration int    `json:"duration,omitempty" validate:"gte=0"`
	IsFree   bool   `json:"isFree"`
}

func (nl *NewLesson) Validate() error {
	nl.Title = core.CleanString(nl.Title)
	return core.TranslateValidationErrors(core.Validate.Struct(nl))
}

// UpdateLesson mirrors NewLesson with every field optional.
type UpdateLesson struct {
	Title    string `json:"title,omitempty" validate:"omitempty,min=2"`
	Type     string `json:"type,omitempty" validate:"omitempty,oneof=VIDEO TEXT QUIZ PDF"`
	VideoURL string `json:"videoUrl,omitempty" validate:"omitempty,url"`
	Content  string `json:"content,omitempty"`
	Duration int    `json:"duration,omitempty" validate:"gte=0"`
	IsFree   *bool  `json:"isFree,omitempty"`
}

func (ul *UpdateLesson) Validate() error {
	ul.Title = core.CleanString(ul.Title)
	return core.TranslateValidationErrors(core.Validate.Struct(ul))
}
