package course

import (
	"context"
	"errors"

	"github.com/darasahq/darasa/core"
)

var (
	ErrEditInProgress = errors.New("another module is being edited; save or cancel first")
	ErrNotEditing     = errors.New("no module is being edited")
	ErrBusy           = errors.New("a request is already in flight")
	ErrModuleMissing  = errors.New("module not found in this course")
	ErrLessonMissing  = errors.New("lesson not found in this course")
)

// ConfirmFunc asks the user to confirm an irreversible action; it receives
// the title of the item about to be deleted.
type ConfirmFunc func(title string) bool

// renameState is the Editing arm of the editor's mode. The editor's mode is
// either Viewing (edit == nil) or Editing exactly one module; this field is
// the only place that invariant lives.
type renameState struct {
	moduleID string
	buffer   string
}

// Editor drives the curriculum workflow for one course. It holds no durable
// state beyond in-progress edit buffers: every mutation goes to the server
// and the course is refetched so ordering and ids stay server-assigned.
// It is driven from a single goroutine, like the rest of the UI.
type Editor struct {
	svc      *Service
	courseID string

	modules        []Module
	newModuleTitle string
	edit           *renameState
	pending        bool
}

func NewEditor(svc *Service, courseID string) *Editor {
	return &Editor{svc: svc, courseID: courseID}
}

// Refresh refetches the parent course and replaces the module snapshot.
func (ed *Editor) Refresh(ctx context.Context) error {
	crs, err := ed.svc.Get(ctx, ed.courseID)
	if err != nil {
		return err
	}
	ed.modules = crs.Modules
	return nil
}

func (ed *Editor) Modules() []Module { return ed.modules }

// Pending reports whether a mutation is in flight; the UI disables the
// triggering control for the duration instead of cancelling requests.
func (ed *Editor) Pending() bool { return ed.pending }

func (ed *Editor) module(id string) (Module, bool) {
	for _, mod := range ed.modules {
		if mod.ID == id {
			return mod, true
		}
	}
	return Module{}, false
}

func (ed *Editor) lesson(id string) (Lesson, bool) {
	for _, mod := range ed.modules {
		for _, les := range mod.Lessons {
			if les.ID == id {
				return les, true
			}
		}
	}
	return Lesson{}, false
}

// NewModuleTitle is the add-module input buffer.
func (ed *Editor) NewModuleTitle() string { return ed.newModuleTitle }

func (ed *Editor) SetNewModuleTitle(title string) { ed.newModuleTitle = title }

// AddModule submits the add-module buffer. Titles shorter than 2 characters
// after trimming are rejected locally with no request sent and the buffer
// untouched. On success the buffer is cleared and the course refetched; on
// failure the buffer stays intact for retry.
func (ed *Editor) AddModule(ctx context.Context) error {
	if ed.pending {
		return ErrBusy
	}
	title := core.CleanString(ed.newModuleTitle)
	if len(title) < 2 {
		return core.NewValidationError(
			errors.New("module title is too short"),
			core.FieldError{Field: "title", Error: "must be at least 2 characters"},
		)
	}

	ed.pending = true
	defer func() { ed.pending = false }()

	if _, err := ed.svc.CreateModule(ctx, ed.courseID, NewModule{Title: title}); err != nil {
		return err
	}
	ed.newModuleTitle = ""
	return ed.Refresh(ctx)
}

// Editing returns the id of the module currently in rename mode, "" in
// viewing mode.
func (ed *Editor) Editing() string {
	if ed.edit == nil {
		return ""
	}
	return ed.edit.moduleID
}

// RenameBuffer returns the in-progress rename text.
func (ed *Editor) RenameBuffer() string {
	if ed.edit == nil {
		return ""
	}
	return ed.edit.buffer
}

// BeginRename enters rename mode on one module, seeded with its current
// title. At most one module is editable at a time.
func (ed *Editor) BeginRename(moduleID string) error {
	if ed.edit != nil {
		return ErrEditInProgress
	}
	mod, ok := ed.module(moduleID)
	if !ok {
		return ErrModuleMissing
	}
	ed.edit = &renameState{moduleID: moduleID, buffer: mod.Title}
	return nil
}

func (ed *Editor) SetRenameBuffer(title string) error {
	if ed.edit == nil {
		return ErrNotEditing
	}
	ed.edit.buffer = title
	return nil
}

// SaveRename confirms the rename (the Enter action). On success the editor
// returns to viewing mode; on failure it stays in rename mode so the user
// can retry or cancel.
func (ed *Editor) SaveRename(ctx context.Context) error {
	if ed.edit == nil {
		return ErrNotEditing
	}
	if ed.pending {
		return ErrBusy
	}

	ed.pending = true
	defer func() { ed.pending = false }()

	if _, err := ed.svc.RenameModule(ctx, ed.courseID, ed.edit.moduleID, ed.edit.buffer); err != nil {
		return err
	}
	ed.edit = nil
	return ed.Refresh(ctx)
}

// CancelRename aborts without mutation (the Escape action): the buffer is
// discarded and display mode restored. No request is sent.
func (ed *Editor) CancelRename() {
	ed.edit = nil
}

// DeleteModule deletes a module and, server-side, all its lessons. The
// confirm callback receives the module title; declining sends nothing.
func (ed *Editor) DeleteModule(ctx context.Context, moduleID string, confirm ConfirmFunc) error {
	if ed.pending {
		return ErrBusy
	}
	mod, ok := ed.module(moduleID)
	if !ok {
		return ErrModuleMissing
	}
	if !confirm(mod.Title) {
		return nil
	}

	ed.pending = true
	defer func() { ed.pending = false }()

	if err := ed.svc.DeleteModule(ctx, ed.courseID, moduleID); err != nil {
		return err
	}
	return ed.Refresh(ctx)
}

func (ed *Editor) AddLesson(ctx context.Context, moduleID string, nl NewLesson) error {
	if ed.pending {
		return ErrBusy
	}
	if _, ok := ed.module(moduleID); !ok {
		return ErrModuleMissing
	}

	ed.pending = true
	defer func() { ed.pending = false }()

	if _, err := ed.svc.CreateLesson(ctx, ed.courseID, moduleID, nl); err != nil {
		return err
	}
	return ed.Refresh(ctx)
}

func (ed *Editor) EditLesson(ctx context.Context, lessonID string, ul UpdateLesson) error {
	if ed.pending {
		return ErrBusy
	}
	if _, ok := ed.lesson(lessonID); !ok {
		return ErrLessonMissing
	}

	ed.pending = true
	defer func() { ed.pending = false }()

	if _, err := ed.svc.UpdateLesson(ctx, ed.courseID, lessonID, ul); err != nil {
		return err
	}
	return ed.Refresh(ctx)
}

// DeleteLesson deletes a lesson after confirmation; the callback receives
// the lesson title. Unknown ids are rejected locally so the prompt never
// names an empty title.
func (ed *Editor) DeleteLesson(ctx context.Context, lessonID string, confirm ConfirmFunc) error {
	if ed.pending {
		return ErrBusy
	}
	les, ok := ed.lesson(lessonID)
	if !ok {
		return ErrLessonMissing
	}
	if !confirm(les.Title) {
		return nil
	}

	ed.pending = true
	defer func() { ed.pending = false }()

	if err := ed.svc.DeleteLesson(ctx, ed.courseID, lessonID); err != nil {
		return err
	}
	return ed.Refresh(ctx)
}
