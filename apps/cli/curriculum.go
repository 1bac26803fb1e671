package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/darasahq/darasa/core/course"
)

// curriculum is the interactive module/lesson editor for one course.
// Rename follows the same key contract as the web editor: an empty line
// cancels (Escape), a non-empty line saves (Enter).
func (cli *commandLine) curriculum(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("curriculum", flag.ExitOnError)
	id := fs.String("id", "", "course id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}

	ed := course.NewEditor(cli.courses, *id)
	if err := ed.Refresh(ctx); err != nil {
		return err
	}

	cli.printCurriculum(ed)
	fmt.Fprintln(cli.out, "commands: add TITLE | rename N | delete N | lesson-add N | lesson-edit N.M | lesson-delete N.M | list | quit")

	scanner := cli.stdin()
	for {
		fmt.Fprint(cli.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		cmd, rest, _ := strings.Cut(line, " ")

		var err error
		switch cmd {
		case "quit", "q", "exit":
			return nil
		case "list", "":
			cli.printCurriculum(ed)
		case "add":
			ed.SetNewModuleTitle(rest)
			err = ed.AddModule(ctx)
		case "rename":
			err = cli.renameModule(ctx, ed, scanner, rest)
		case "delete":
			if mod, ok := cli.pickModule(ed, rest); ok {
				err = ed.DeleteModule(ctx, mod.ID, cli.deleteConfirm("module"))
			}
		case "lesson-add":
			if mod, ok := cli.pickModule(ed, rest); ok {
				err = cli.addLesson(ctx, ed, scanner, mod.ID)
			}
		case "lesson-edit":
			if les, ok := cli.pickLesson(ed, rest); ok {
				err = cli.editLesson(ctx, ed, scanner, les)
			}
		case "lesson-delete":
			if les, ok := cli.pickLesson(ed, rest); ok {
				err = ed.DeleteLesson(ctx, les.ID, cli.deleteConfirm("lesson"))
			}
		default:
			fmt.Fprintf(cli.out, "unknown command %q\n", cmd)
		}
		if err != nil {
			_ = cli.renderErr(err)
		}
	}
}

func (cli *commandLine) printCurriculum(ed *course.Editor) {
	modules := ed.Modules()
	fmt.Fprintf(cli.out, "Modules (%d)\n", len(modules))
	if len(modules) == 0 {
		fmt.Fprintln(cli.out, "  no modules yet - create your first module to start adding lessons")
		return
	}
	for i, mod := range modules {
		fmt.Fprintf(cli.out, "  Module %d: %s\n", i+1, mod.Title)
		for j, les := range mod.Lessons {
			free := ""
			if les.IsFreePreview {
				free = " [free]"
			}
			fmt.Fprintf(cli.out, "    %d.%d %s (%s)%s\n", i+1, j+1, les.Title, les.Type, free)
		}
	}
}

// deleteConfirm names the item's title in the prompt before anything is sent.
func (cli *commandLine) deleteConfirm(kind string) course.ConfirmFunc {
	return func(title string) bool {
		return cli.confirm(fmt.Sprintf("Delete %s %q and everything in it?", kind, title))
	}
}

func (cli *commandLine) pickModule(ed *course.Editor, arg string) (course.Module, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	modules := ed.Modules()
	if err != nil || n < 1 || n > len(modules) {
		fmt.Fprintln(cli.out, "pick a module by its number (see `list`)")
		return course.Module{}, false
	}
	return modules[n-1], true
}

func (cli *commandLine) pickLesson(ed *course.Editor, arg string) (course.Lesson, bool) {
	modPart, lesPart, ok := strings.Cut(strings.TrimSpace(arg), ".")
	if !ok {
		fmt.Fprintln(cli.out, "pick a lesson as MODULE.LESSON, e.g. 2.1")
		return course.Lesson{}, false
	}
	mod, found := cli.pickModule(ed, modPart)
	if !found {
		return course.Lesson{}, false
	}
	n, err := strconv.Atoi(lesPart)
	if err != nil || n < 1 || n > len(mod.Lessons) {
		fmt.Fprintln(cli.out, "no such lesson in that module")
		return course.Lesson{}, false
	}
	return mod.Lessons[n-1], true
}

func (cli *commandLine) renameModule(ctx context.Context, ed *course.Editor, scanner *bufio.Scanner, arg string) error {
	mod, ok := cli.pickModule(ed, arg)
	if !ok {
		return nil
	}
	if err := ed.BeginRename(mod.ID); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "new title [%s] (empty cancels): ", ed.RenameBuffer())
	if !scanner.Scan() {
		ed.CancelRename()
		return scanner.Err()
	}
	title := strings.TrimSpace(scanner.Text())
	if title == "" {
		ed.CancelRename()
		fmt.Fprintln(cli.out, "cancelled")
		return nil
	}
	if err := ed.SetRenameBuffer(title); err != nil {
		return err
	}
	return ed.SaveRename(ctx)
}

func (cli *commandLine) addLesson(ctx context.Context, ed *course.Editor, scanner *bufio.Scanner, moduleID string) error {
	nl := course.NewLesson{}
	nl.Title = cli.promptLine(scanner, "lesson title: ")
	nl.Type = strings.ToUpper(cli.promptLine(scanner, "type (VIDEO/TEXT/QUIZ/PDF): "))
	if nl.Type == course.LessonVideo {
		nl.VideoURL = cli.promptLine(scanner, "video url: ")
		if d, err := strconv.Atoi(cli.promptLine(scanner, "duration (minutes): ")); err == nil {
			nl.Duration = d
		}
	}
	if nl.Type == course.LessonText {
		nl.Content = cli.promptLine(scanner, "content: ")
	}
	nl.IsFree = strings.EqualFold(cli.promptLine(scanner, "free preview? [y/N]: "), "y")
	return ed.AddLesson(ctx, moduleID, nl)
}

func (cli *commandLine) editLesson(ctx context.Context, ed *course.Editor, scanner *bufio.Scanner, les course.Lesson) error {
	ul := course.UpdateLesson{}
	if title := cli.promptLine(scanner, fmt.Sprintf("title [%s]: ", les.Title)); title != "" {
		ul.Title = title
	}
	if typ := strings.ToUpper(cli.promptLine(scanner, fmt.Sprintf("type [%s]: ", les.Type))); typ != "" {
		ul.Type = typ
	}
	if free := cli.promptLine(scanner, "free preview? [y/n/keep]: "); free != "" {
		isFree := strings.EqualFold(free, "y")
		ul.IsFree = &isFree
	}
	return ed.EditLesson(ctx, les.ID, ul)
}

func (cli *commandLine) promptLine(scanner *bufio.Scanner, prompt string) string {
	fmt.Fprint(cli.out, prompt)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}
