package course_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/cache"
	"github.com/darasahq/darasa/core/course"
	testutil "github.com/darasahq/darasa/tests"
)

func setupEditor(t *testing.T, modules ...course.Module) (*testutil.Backend, *course.Editor) {
	t.Helper()
	backend := testutil.NewBackend()
	t.Cleanup(backend.Close)

	crs := backend.AddCourse("Distributed Systems", modules...)
	svc := course.NewService(backend.Client(testutil.StaticToken(backend.Token())), cache.New())
	ed := course.NewEditor(svc, crs.ID)
	if err := ed.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}
	return backend, ed
}

func module(id, title string, lessons ...course.Lesson) course.Module {
	return course.Module{ID: id, Title: title, Lessons: lessons}
}

func TestEditor_AddModule_titleGate(t *testing.T) {
	ctx := context.Background()
	backend, ed := setupEditor(t)
	before := backend.RequestCount("POST")

	// a 1-char title is rejected locally: no request, no state change
	ed.SetNewModuleTitle("a")
	err := ed.AddModule(ctx)
	var vErr *core.ValidationError
	if !assert.ErrorAs(t, err, &vErr) {
		t.Fatalf("AddModule() error = %v, want ValidationError", err)
	}
	assert.Equal(t, before, backend.RequestCount("POST"))
	assert.Equal(t, "a", ed.NewModuleTitle(), "buffer must stay intact")
	assert.Empty(t, ed.Modules())

	// whitespace does not count toward the minimum
	ed.SetNewModuleTitle("   b   ")
	assert.ErrorAs(t, ed.AddModule(ctx), &vErr)
	assert.Equal(t, before, backend.RequestCount("POST"))

	// 2 chars sends exactly one create request
	ed.SetNewModuleTitle("ab")
	if err := ed.AddModule(ctx); err != nil {
		t.Fatalf("AddModule() failed: %v", err)
	}
	assert.Equal(t, before+1, backend.RequestCount("POST"))
	assert.Empty(t, ed.NewModuleTitle(), "buffer clears on success")
	if assert.Len(t, ed.Modules(), 1) {
		mod := ed.Modules()[0]
		assert.Equal(t, "ab", mod.Title)
		assert.NotEmpty(t, mod.ID, "id comes from the server")
	}
}

func TestEditor_AddModule_failureKeepsBuffer(t *testing.T) {
	ctx := context.Background()
	backend, ed := setupEditor(t)

	backend.FailWith = "storage unavailable"
	ed.SetNewModuleTitle("Consensus")
	err := ed.AddModule(ctx)
	if err == nil {
		t.Fatal("AddModule() expected an error")
	}
	assert.Equal(t, "Consensus", ed.NewModuleTitle(), "buffer must survive a failed create for retry")

	backend.FailWith = ""
	if err := ed.AddModule(ctx); err != nil {
		t.Fatalf("AddModule() retry failed: %v", err)
	}
	assert.Empty(t, ed.NewModuleTitle())
}

func TestEditor_Rename(t *testing.T) {
	ctx := context.Background()
	backend, ed := setupEditor(t, module("m1", "Old Title"), module("m2", "Other"))
	moduleID := ed.Modules()[0].ID

	if err := ed.BeginRename(moduleID); err != nil {
		t.Fatalf("BeginRename() failed: %v", err)
	}
	assert.Equal(t, moduleID, ed.Editing())
	assert.Equal(t, "Old Title", ed.RenameBuffer(), "buffer seeds with the current title")

	// only one module editable at a time
	assert.ErrorIs(t, ed.BeginRename(ed.Modules()[1].ID), course.ErrEditInProgress)

	if err := ed.SetRenameBuffer("New Title"); err != nil {
		t.Fatalf("SetRenameBuffer() failed: %v", err)
	}
	if err := ed.SaveRename(ctx); err != nil {
		t.Fatalf("SaveRename() failed: %v", err)
	}
	assert.Empty(t, ed.Editing(), "save exits edit mode")
	assert.Equal(t, "New Title", ed.Modules()[0].Title)
	assert.Equal(t, 1, backend.RequestCount("PATCH /courses/modules/"))
}

func TestEditor_CancelRename(t *testing.T) {
	backend, ed := setupEditor(t, module("m1", "Keep Me"))
	moduleID := ed.Modules()[0].ID
	before := backend.RequestCount()

	if err := ed.BeginRename(moduleID); err != nil {
		t.Fatalf("BeginRename() failed: %v", err)
	}
	_ = ed.SetRenameBuffer("discarded text")
	ed.CancelRename()

	assert.Empty(t, ed.Editing())
	assert.Empty(t, ed.RenameBuffer())
	assert.Equal(t, "Keep Me", ed.Modules()[0].Title)
	assert.Equal(t, before, backend.RequestCount(), "cancel must send nothing")

	// a fresh rename starts from the unchanged title
	if err := ed.BeginRename(moduleID); err != nil {
		t.Fatalf("BeginRename() after cancel failed: %v", err)
	}
	assert.Equal(t, "Keep Me", ed.RenameBuffer())
}

func TestEditor_RenameFailureStaysEditing(t *testing.T) {
	ctx := context.Background()
	backend, ed := setupEditor(t, module("m1", "Old"))
	moduleID := ed.Modules()[0].ID

	_ = ed.BeginRename(moduleID)
	_ = ed.SetRenameBuffer("New")
	backend.FailWith = "conflict"
	if err := ed.SaveRename(ctx); err == nil {
		t.Fatal("SaveRename() expected an error")
	}
	assert.Equal(t, moduleID, ed.Editing(), "failed save keeps edit mode for retry")
	assert.Equal(t, "New", ed.RenameBuffer())
}

func TestEditor_DeleteModule_confirmationGate(t *testing.T) {
	ctx := context.Background()
	backend, ed := setupEditor(t, module("m1", "Doomed", course.Lesson{ID: "l1", Title: "Lesson"}))
	moduleID := ed.Modules()[0].ID
	before := backend.RequestCount("DELETE")

	var promptedTitle string
	declined := func(title string) bool {
		promptedTitle = title
		return false
	}
	if err := ed.DeleteModule(ctx, moduleID, declined); err != nil {
		t.Fatalf("DeleteModule() failed: %v", err)
	}
	assert.Equal(t, "Doomed", promptedTitle, "confirmation must name the module")
	assert.Equal(t, before, backend.RequestCount("DELETE"), "declining sends zero requests")
	assert.Len(t, ed.Modules(), 1)

	accepted := func(string) bool { return true }
	if err := ed.DeleteModule(ctx, moduleID, accepted); err != nil {
		t.Fatalf("DeleteModule() failed: %v", err)
	}
	assert.Equal(t, before+1, backend.RequestCount("DELETE"))
	assert.Empty(t, ed.Modules())
}

func TestEditor_Lessons(t *testing.T) {
	ctx := context.Background()
	backend, ed := setupEditor(t, module("m1", "Basics"))
	moduleID := ed.Modules()[0].ID

	err := ed.AddLesson(ctx, moduleID, course.NewLesson{
		Title:    "What is a quorum?",
		Type:     course.LessonVideo,
		VideoURL: "https://videos.darasa.test/quorum.mp4",
		Duration: 12,
		IsFree:   true,
	})
	if err != nil {
		t.Fatalf("AddLesson() failed: %v", err)
	}
	if !assert.Len(t, ed.Modules()[0].Lessons, 1) {
		t.FailNow()
	}
	les := ed.Modules()[0].Lessons[0]
	assert.True(t, les.IsFreePreview)
	assert.Equal(t, course.LessonVideo, les.Type)

	// local validation sends nothing
	before := backend.RequestCount("POST")
	err = ed.AddLesson(ctx, moduleID, course.NewLesson{Title: "x", Type: "PODCAST"})
	var vErr *core.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, before, backend.RequestCount("POST"))

	if err := ed.EditLesson(ctx, les.ID, course.UpdateLesson{Title: "What is a quorum, really?"}); err != nil {
		t.Fatalf("EditLesson() failed: %v", err)
	}
	assert.Equal(t, "What is a quorum, really?", ed.Modules()[0].Lessons[0].Title)

	var prompted string
	if err := ed.DeleteLesson(ctx, les.ID, func(title string) bool { prompted = title; return true }); err != nil {
		t.Fatalf("DeleteLesson() failed: %v", err)
	}
	assert.Equal(t, "What is a quorum, really?", prompted)
	assert.Empty(t, ed.Modules()[0].Lessons)
}

func TestEditor_UnknownLessonRejectedLocally(t *testing.T) {
	ctx := context.Background()
	backend, ed := setupEditor(t, module("m1", "Basics", course.Lesson{ID: "l1", Title: "Intro"}))
	before := backend.RequestCount()

	var prompted bool
	err := ed.DeleteLesson(ctx, "nope", func(string) bool { prompted = true; return true })
	assert.ErrorIs(t, err, course.ErrLessonMissing)
	assert.False(t, prompted, "no confirmation prompt for an unknown lesson")

	assert.ErrorIs(t, ed.EditLesson(ctx, "nope", course.UpdateLesson{Title: "Renamed"}), course.ErrLessonMissing)
	assert.Equal(t, before, backend.RequestCount(), "unknown ids must not reach the wire")
}
