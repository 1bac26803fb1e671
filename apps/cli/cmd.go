package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/enrollment"
	"github.com/darasahq/darasa/core/guard"
	"github.com/darasahq/darasa/core/session"
	"github.com/darasahq/darasa/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf    *core.Config
	logger  core.Logger
	store   *session.Store
	guard   *guard.Guard
	authSvc *session.Service
	courses *course.Service
	enrolls *enrollment.Service
	users   *user.Service

	in  io.Reader
	out io.Writer

	scanner *bufio.Scanner
}

// stdin returns the one scanner shared by every prompt in the session.
// A second scanner over the same reader would lose whatever the first one
// has already buffered.
func (cli *commandLine) stdin() *bufio.Scanner {
	if cli.scanner == nil {
		cli.scanner = bufio.NewScanner(cli.in)
	}
	return cli.scanner
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                 - sign in (password prompted)")
	fmt.Fprintln(cli.out, "  logout                             - sign out")
	fmt.Fprintln(cli.out, "  whoami                             - show the current identity")
	fmt.Fprintln(cli.out, "  courses [-search TERM]             - browse the public catalog")
	fmt.Fprintln(cli.out, "  course -id ID                      - course details")
	fmt.Fprintln(cli.out, "  enroll -id ID                      - enroll in a course")
	fmt.Fprintln(cli.out, "  learning [-status S]               - my enrolled courses")
	fmt.Fprintln(cli.out, "  my-courses [-search TERM]          - courses I teach")
	fmt.Fprintln(cli.out, "  create-course -title T [-price P]  - create a draft course")
	fmt.Fprintln(cli.out, "  set-status -id ID -status S        - publish/unpublish/archive")
	fmt.Fprintln(cli.out, "  curriculum -id ID                  - edit a course's curriculum")
	fmt.Fprintln(cli.out, "  users [-page N] [-search TERM] [-role R] [-status S]")
	fmt.Fprintln(cli.out, "  user-update -id ID [-name N] [-status S] [-roles a,b]")
	fmt.Fprintln(cli.out, "  user-delete -id ID")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()

	switch args[1] {
	case "login":
		return cli.loginCmd(ctx, args[2:])
	case "logout":
		if err := cli.authSvc.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "logged out")
		return nil
	case "whoami":
		return cli.whoami()
	case "courses":
		return cli.catalog(ctx, args[2:])
	case "course":
		return cli.courseDetail(ctx, args[2:])
	case "enroll":
		return cli.enroll(ctx, args[2:])
	case "learning":
		return cli.guarded(ctx, "/dashboard/learning", func(ctx context.Context) error {
			return cli.learning(ctx, args[2:])
		})
	case "my-courses":
		return cli.guarded(ctx, "/dashboard/courses", func(ctx context.Context) error {
			return cli.myCourses(ctx, args[2:])
		})
	case "create-course":
		return cli.guarded(ctx, "/dashboard/courses", func(ctx context.Context) error {
			return cli.createCourse(ctx, args[2:])
		})
	case "set-status":
		return cli.guarded(ctx, "/dashboard/courses", func(ctx context.Context) error {
			return cli.setStatus(ctx, args[2:])
		})
	case "curriculum":
		return cli.guarded(ctx, "/dashboard/courses", func(ctx context.Context) error {
			return cli.curriculum(ctx, args[2:])
		})
	case "users":
		return cli.guarded(ctx, "/dashboard/users", func(ctx context.Context) error {
			return cli.listUsers(ctx, args[2:])
		})
	case "user-update":
		return cli.guarded(ctx, "/dashboard/users", func(ctx context.Context) error {
			return cli.updateUser(ctx, args[2:])
		})
	case "user-delete":
		return cli.guarded(ctx, "/dashboard/users", func(ctx context.Context) error {
			return cli.deleteUser(ctx, args[2:])
		})
	default:
		cli.printUsage()
		return errHelp
	}
}

// guarded runs the authorization check for the section's path before
// rendering it, following redirects the way the web client does.
func (cli *commandLine) guarded(ctx context.Context, path string, render func(context.Context) error) error {
	decision := cli.guard.Evaluate(path, cli.store.IsAuthenticated(), cli.store.IsLoading(), cli.store.Roles())
	switch decision.State {
	case guard.Pending:
		fmt.Fprintln(cli.out, "restoring session...")
		return nil
	case guard.Unauthenticated:
		fmt.Fprintln(cli.out, "you are not signed in; run: darasa login -email YOU")
		return nil
	case guard.Denied:
		fmt.Fprintf(cli.out, "you don't have access to %s; showing %s instead\n", path, decision.Redirect)
		return cli.redirected(ctx, decision.Redirect)
	}
	return cli.renderErr(render(ctx))
}

// redirected renders the fallback section of a denied navigation.
func (cli *commandLine) redirected(ctx context.Context, path string) error {
	switch path {
	case "/dashboard/learning":
		return cli.renderErr(cli.learning(ctx, nil))
	case "/dashboard":
		fmt.Fprintln(cli.out, "dashboard overview: run `darasa my-courses` or `darasa learning`")
		return nil
	default:
		fmt.Fprintf(cli.out, "go to %s\n", path)
		return nil
	}
}

// renderErr converts service errors into the end-of-page rendering: field
// errors inline, server messages verbatim, not-found with an escape hatch.
// Every path ends in a usable prompt; nothing here is fatal.
func (cli *commandLine) renderErr(err error) error {
	if err == nil {
		return nil
	}
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		for _, fld := range vErr.Fields {
			fmt.Fprintf(cli.out, "  %s: %s\n", fld.Field, fld.Error)
		}
		if len(vErr.Fields) == 0 {
			fmt.Fprintln(cli.out, vErr.Error())
		}
		return nil
	}
	if errors.Is(err, course.ErrNotFound) || errors.Is(err, user.ErrNotFound) {
		fmt.Fprintln(cli.out, "not found - it may have been removed; run `darasa courses` to browse the catalog")
		return nil
	}
	fmt.Fprintf(cli.out, "request failed: %v\n", err)
	return nil
}

func (cli *commandLine) whoami() error {
	if !cli.store.IsAuthenticated() {
		fmt.Fprintln(cli.out, "not signed in")
		return nil
	}
	sess := cli.store.Current()
	fmt.Fprintf(cli.out, "%s <%s> roles=%v persona=%s\n",
		sess.User.FullName, sess.User.Email, sess.User.Roles, guard.DerivePersona(sess.User.Roles))
	return nil
}

func (cli *commandLine) catalog(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("courses", flag.ExitOnError)
	search := fs.String("search", "", "filter by title")
	if err := fs.Parse(args); err != nil {
		return err
	}
	courses, err := cli.courses.Published(ctx, *search)
	if err != nil {
		return cli.renderErr(err)
	}
	if len(courses) == 0 {
		fmt.Fprintln(cli.out, "no courses found")
		return nil
	}
	for _, crs := range courses {
		fmt.Fprintf(cli.out, "%-10s %-40s %s %.2f (%d students)\n",
			crs.ID, crs.Title, crs.Pricing.Currency, crs.Pricing.Amount, crs.Counts.Enrollments)
	}
	return nil
}

func (cli *commandLine) courseDetail(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("course", flag.ExitOnError)
	id := fs.String("id", "", "course id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}
	crs, err := cli.courses.Get(ctx, *id)
	if err != nil {
		return cli.renderErr(err)
	}
	fmt.Fprintf(cli.out, "%s\nby %s\n%s\n", crs.Title, crs.Instructor.Name, crs.Description)
	for i, mod := range crs.Modules {
		fmt.Fprintf(cli.out, "  Module %d: %s\n", i+1, mod.Title)
		for j, les := range mod.Lessons {
			free := ""
			if les.IsFreePreview {
				free = " [free]"
			}
			fmt.Fprintf(cli.out, "    %d. %s (%s)%s\n", j+1, les.Title, les.Type, free)
		}
	}
	// enrollment status is fetched lazily and only when signed in
	if cli.store.IsAuthenticated() {
		if status, err := cli.enrolls.Status(ctx, *id); err == nil && status.IsEnrolled {
			fmt.Fprintln(cli.out, "you are enrolled - run `darasa learning`")
			return nil
		}
	}
	fmt.Fprintf(cli.out, "enroll with: darasa enroll -id %s\n", crs.ID)
	return nil
}

func (cli *commandLine) enroll(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("enroll", flag.ExitOnError)
	id := fs.String("id", "", "course id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}
	flow := enrollment.NewFlow(cli.enrolls, cli.store)
	outcome := flow.Enroll(ctx, *id)
	if outcome.Err != nil {
		return cli.renderErr(outcome.Err)
	}
	if outcome.Navigate == enrollment.LearningPath {
		fmt.Fprintln(cli.out, "enrolled! here is your learning dashboard:")
		return cli.renderErr(cli.learning(ctx, nil))
	}
	fmt.Fprintf(cli.out, "sign in first; you'll be sent back here (%s)\n", outcome.Navigate)
	return nil
}

func (cli *commandLine) learning(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("learning", flag.ExitOnError)
	status := fs.String("status", "", "in_progress or completed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	enrollments, err := cli.enrolls.Mine(ctx, *status)
	if err != nil {
		return err
	}
	if len(enrollments) == 0 {
		fmt.Fprintln(cli.out, "no enrollments yet; run `darasa courses` to find one")
		return nil
	}
	for _, enr := range enrollments {
		title := enr.CourseID
		if enr.Course != nil {
			title = enr.Course.Title
		}
		fmt.Fprintf(cli.out, "%-40s %-10s %3.0f%%\n", title, enr.Status, enr.ProgressPct)
	}
	return nil
}

func (cli *commandLine) myCourses(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("my-courses", flag.ExitOnError)
	search := fs.String("search", "", "filter by title")
	if err := fs.Parse(args); err != nil {
		return err
	}
	courses, err := cli.courses.Mine(ctx, *search)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		fmt.Fprintln(cli.out, "you have no courses; run `darasa create-course`")
		return nil
	}
	for _, crs := range courses {
		fmt.Fprintf(cli.out, "%-10s %-40s %-10s %d modules, %d enrolled\n",
			crs.ID, crs.Title, crs.Status, crs.Counts.Modules, crs.Counts.Enrollments)
	}
	return nil
}

func (cli *commandLine) createCourse(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-course", flag.ExitOnError)
	title := fs.String("title", "", "course title")
	description := fs.String("description", "", "course description (HTML allowed)")
	price := fs.Float64("price", 0, "price")
	image := fs.String("image", "", "image URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	crs, err := cli.courses.Create(ctx, course.NewCourse{
		Title:       *title,
		Description: *description,
		Price:       *price,
		ImageURL:    *image,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created draft course %s: %s\n", crs.ID, crs.Title)
	return nil
}

func (cli *commandLine) setStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set-status", flag.ExitOnError)
	id := fs.String("id", "", "course id")
	status := fs.String("status", "", "DRAFT, PUBLISHED or ARCHIVED")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" || *status == "" {
		fs.Usage()
		return errHelp
	}
	if err := cli.courses.SetStatus(ctx, *id, *status); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "course %s is now %s\n", *id, *status)
	return nil
}

func (cli *commandLine) listUsers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "page size")
	search := fs.String("search", "", "name or email")
	role := fs.String("role", "", "admin, instructor or student")
	status := fs.String("status", "", "ACTIVE, INACTIVE, BANNED or PENDING")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := cli.users.List(ctx, user.ListFilter{
		Page: *page, Limit: *limit, Search: *search, Role: *role, Status: *status,
	})
	if err != nil {
		return err
	}
	for _, usr := range res.Data {
		fmt.Fprintf(cli.out, "%-10s %-25s %-30s %-8s %v\n", usr.ID, usr.FullName, usr.Email, usr.Status, usr.Roles)
	}
	fmt.Fprintf(cli.out, "page %d/%d (%d users)\n", res.Meta.Page, res.Meta.TotalPages, res.Meta.Total)
	return nil
}

func (cli *commandLine) updateUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user-update", flag.ExitOnError)
	id := fs.String("id", "", "user id")
	name := fs.String("name", "", "full name")
	status := fs.String("status", "", "account status")
	roles := fs.String("roles", "", "comma-separated roles")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}
	uu := user.UpdateUser{FullName: *name, Status: *status}
	if *roles != "" {
		uu.Roles = splitRoles(*roles)
	}
	if err := cli.users.Update(ctx, *id, uu); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "user %s updated\n", *id)
	return nil
}

func (cli *commandLine) deleteUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user-delete", flag.ExitOnError)
	id := fs.String("id", "", "user id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}
	if !cli.confirm(fmt.Sprintf("Delete user %s? This cannot be undone.", *id)) {
		fmt.Fprintln(cli.out, "cancelled")
		return nil
	}
	if err := cli.users.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "user %s deleted\n", *id)
	return nil
}
