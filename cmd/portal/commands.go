package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/portal"
	"github.com/noah-isme/course-portal/pkg/config"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

func (a *portalApp) coursesCommand() *cli.Command {
	return &cli.Command{
		Name:  "courses",
		Usage: "list the course catalogue",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Value: portal.AllCategories, Usage: "department filter"},
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "case-insensitive title search"},
			&cli.IntFlag{Name: "pages", Value: 1, Usage: "number of catalogue pages to show"},
		},
		Action: a.action(a.listCourses),
		Subcommands: []*cli.Command{
			{Name: "categories", Usage: "list department filters", Action: a.action(a.listCategories)},
			{Name: "suggest", Usage: "suggest course titles", ArgsUsage: "<query>", Action: a.action(a.suggestCourses)},
			{Name: "create", Usage: "create a course", Flags: courseFlags(), Action: a.action(a.createCourse)},
			{Name: "delete", Usage: "delete a course", ArgsUsage: "<course-id>", Action: a.action(a.deleteCourse)},
		},
	}
}

func (a *portalApp) courseCommand() *cli.Command {
	return &cli.Command{
		Name:      "course",
		Usage:     "show a course with its sections",
		ArgsUsage: "<course-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "contents", Usage: "also list the videos and documents of every section"},
		},
		Action: a.action(a.showCourse),
		Subcommands: []*cli.Command{
			{Name: "edit", Usage: "edit course details", ArgsUsage: "<course-id>", Flags: courseFlags(), Action: a.action(a.editCourse)},
			{Name: "enroll", Usage: "enroll in a course", ArgsUsage: "<course-id>", Action: a.action(a.enroll)},
			{
				Name:  "section",
				Usage: "manage sections",
				Subcommands: []*cli.Command{
					{Name: "add", ArgsUsage: "<course-id>", Flags: sectionFlags(), Action: a.action(a.addSection)},
					{Name: "edit", ArgsUsage: "<course-id> <section-id>", Flags: sectionFlags(), Action: a.action(a.editSection)},
					{Name: "remove", ArgsUsage: "<course-id> <section-id>", Action: a.action(a.removeSection)},
				},
			},
			{
				Name:  "content",
				Usage: "manage section videos and documents",
				Subcommands: []*cli.Command{
					{Name: "add", ArgsUsage: "<course-id> <section-id>", Flags: contentFlags(), Action: a.action(a.addContent)},
					{Name: "remove", ArgsUsage: "<course-id> <section-id> <content-id>", Action: a.action(a.removeContent)},
				},
			},
		},
	}
}

func (a *portalApp) assignmentsCommand() *cli.Command {
	return &cli.Command{
		Name:      "assignments",
		Usage:     "list the assignments of a course",
		ArgsUsage: "<course-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "submit", Usage: "request submission of an assignment"},
		},
		Action: a.action(a.listAssignments),
	}
}

func (a *portalApp) progressCommand() *cli.Command {
	return &cli.Command{
		Name:      "progress",
		Usage:     "show student progress for a course",
		ArgsUsage: "<course-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "export", Usage: "write the report as csv or pdf"},
		},
		Action: a.action(a.showProgress),
	}
}

func (a *portalApp) tokenCommand() *cli.Command {
	return &cli.Command{
		Name:   "token",
		Usage:  "issue a development identity token for the resolved role and name",
		Action: a.action(a.issueToken),
	}
}

func courseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title"},
		&cli.StringFlag{Name: "description"},
		&cli.StringFlag{Name: "instructor"},
		&cli.StringFlag{Name: "dept", Usage: "department, used as the catalogue category"},
		&cli.IntFlag{Name: "duration", Usage: "length in hours"},
		&cli.IntFlag{Name: "credit", Usage: "credit value from 1 to 10"},
		&cli.BoolFlag{Name: "active"},
	}
}

func sectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title"},
		&cli.StringFlag{Name: "desc"},
	}
}

func contentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "type", Value: string(models.ContentVideo), Usage: "VIDEO or PDF"},
		&cli.StringFlag{Name: "url", Usage: "link to the video or document"},
	}
}

// applyCourseFlags overrides draft with the flags given on the command line.
func applyCourseFlags(c *cli.Context, draft models.CourseDraft) models.CourseDraft {
	if c.IsSet("title") {
		draft.Title = c.String("title")
	}
	if c.IsSet("description") {
		draft.Description = c.String("description")
	}
	if c.IsSet("instructor") {
		draft.InstructorName = c.String("instructor")
	}
	if c.IsSet("dept") {
		draft.Dept = c.String("dept")
	}
	if c.IsSet("duration") {
		draft.Duration = c.Int("duration")
	}
	if c.IsSet("credit") {
		draft.Credit = c.Int("credit")
	}
	if c.IsSet("active") {
		draft.IsActive = c.Bool("active")
	}
	return draft
}

func argID(c *cli.Context, index int, name string) (int64, error) {
	raw := strings.TrimSpace(c.Args().Get(index))
	if raw == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "missing "+name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s %q", name, raw))
	}
	return id, nil
}

func argString(c *cli.Context, index int, name string) (string, error) {
	raw := strings.TrimSpace(c.Args().Get(index))
	if raw == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "missing "+name)
	}
	return raw, nil
}

func (a *portalApp) loadCatalog(c *cli.Context, rt *runtime) (*portal.Catalog, error) {
	cat := rt.portal.Catalog()
	if err := cat.Load(c.Context); err != nil {
		return nil, err
	}
	return cat, nil
}

func (a *portalApp) openCourse(c *cli.Context, rt *runtime) (*portal.CourseDetail, error) {
	id, err := argID(c, 0, "course-id")
	if err != nil {
		return nil, err
	}
	cat, err := a.loadCatalog(c, rt)
	if err != nil {
		return nil, err
	}
	course, ok := cat.Find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %d not found", id))
	}
	return rt.portal.OpenCourse(c.Context, course)
}

func (a *portalApp) listCourses(c *cli.Context, rt *runtime) error {
	cat, err := a.loadCatalog(c, rt)
	if err != nil {
		return err
	}
	cat.SetCategory(c.String("category"))
	cat.SetQuery(c.String("search"))
	for i := 1; i < c.Int("pages"); i++ {
		cat.ShowMore()
	}
	renderCatalog(a.out, cat.Visible(), len(cat.Filtered()), cat.HasMore())
	return nil
}

func (a *portalApp) listCategories(c *cli.Context, rt *runtime) error {
	cat, err := a.loadCatalog(c, rt)
	if err != nil {
		return err
	}
	for _, name := range cat.Categories() {
		fmt.Fprintln(a.out, name)
	}
	return nil
}

func (a *portalApp) suggestCourses(c *cli.Context, rt *runtime) error {
	cat, err := a.loadCatalog(c, rt)
	if err != nil {
		return err
	}
	cat.SetQuery(strings.Join(c.Args().Slice(), " "))
	for _, course := range cat.Suggestions() {
		fmt.Fprintf(a.out, "%d\t%s\n", course.ID, course.Title)
	}
	return nil
}

func (a *portalApp) createCourse(c *cli.Context, rt *runtime) error {
	draft := applyCourseFlags(c, models.CourseDraft{IsActive: true})
	created, err := rt.portal.Catalog().CreateCourse(c.Context, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created course #%d %q.\n", created.ID, created.Title)
	return nil
}

func (a *portalApp) deleteCourse(c *cli.Context, rt *runtime) error {
	id, err := argID(c, 0, "course-id")
	if err != nil {
		return err
	}
	cat, err := a.loadCatalog(c, rt)
	if err != nil {
		return err
	}
	if err := cat.DeleteCourse(c.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted course #%d.\n", id)
	return nil
}

func (a *portalApp) showCourse(c *cli.Context, rt *runtime) error {
	d, err := a.openCourse(c, rt)
	if err != nil {
		return err
	}
	if c.Bool("contents") {
		if err := d.LoadAllContents(c.Context); err != nil {
			return err
		}
	}
	enrolled, err := d.IsEnrolled(c.Context)
	if err != nil {
		return err
	}
	renderCourse(a.out, d.Course(), d.CanEdit(), enrolled)

	sections := d.Sections()
	contents := make(map[int64][]models.Content, len(sections))
	if c.Bool("contents") {
		for _, s := range sections {
			list, err := d.Contents(c.Context, s.ID)
			if err != nil {
				return err
			}
			contents[s.ID] = list
		}
	}
	renderSections(a.out, sections, contents, c.Bool("contents"))
	return nil
}

func (a *portalApp) editCourse(c *cli.Context, rt *runtime) error {
	d, err := a.openCourse(c, rt)
	if err != nil {
		return err
	}
	saved, err := d.SaveCourse(c.Context, applyCourseFlags(c, models.DraftOf(d.Course())))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved course #%d %q.\n", saved.ID, saved.Title)
	return nil
}

func (a *portalApp) enroll(c *cli.Context, rt *runtime) error {
	d, err := a.openCourse(c, rt)
	if err != nil {
		return err
	}
	if d.CanEdit() {
		fmt.Fprintln(a.out, "You have editing access to this course.")
		return nil
	}
	if err := d.Enroll(c.Context); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Enrolled in %q.\n", d.Course().Title)
	return nil
}

func (a *portalApp) addSection(c *cli.Context, rt *runtime) error {
	d, err := a.openCourse(c, rt)
	if err != nil {
		return err
	}
	section, err := d.AddSection(c.Context, c.String("title"), c.String("desc"))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added section #%d %q.\n", section.ID, section.Title)
	return nil
}

func (a *portalApp) editSection(c *cli.Context, rt *runtime) error {
	d, err := a.openCourse(c, rt)
	if err != nil {
		return err
	}
	sectionID, err := argID(c, 1, "section-id")
	if err != nil {
		return err
	}
	current, err := d.EditSection(sectionID)
	if err != nil {
		return err
	}
	edits := portal.SectionEdit{Title: current.Title, Description: current.Description}
	if c.IsSet("title") {
		edits.Title = c.String("title")
	}
	if c.IsSet("desc") {
		edits.Description = c.String("desc")
	}
	saved, err := d.SaveSection(c.Context, edits)
	if err != nil {
		d.CancelEdit()
		return err
	}
	fmt.Fprintf(a.out, "Saved section #%d %q.\n", saved.ID, saved.Title)
	return nil
}

func (a *portalApp) removeSection(c *cli.Context, rt *runtime) error {
	d, err := a.openCourse(c, rt)
	if err != nil {
		return err
	}
	sectionID, err := argID(c, 1, "section-id")
	if err != nil {
		return err
	}
	if err := d.RemoveSection(c.Context, sectionID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed section #%d.\n", sectionID)
	return nil
}

func (a *portalApp) addContent(c *cli.Context, rt *runtime) error {
	d, err := a.openCourse(c, rt)
	if err != nil {
		return err
	}
	sectionID, err := argID(c, 1, "section-id")
	if err != nil {
		return err
	}
	contentType, err := models.ParseContentType(c.String("type"))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	list, err := d.AddContent(c.Context, sectionID, contentType, c.String("url"))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s. Section #%d now has %d item(s).\n", contentType, sectionID, len(list))
	return nil
}

func (a *portalApp) removeContent(c *cli.Context, rt *runtime) error {
	d, err := a.openCourse(c, rt)
	if err != nil {
		return err
	}
	sectionID, err := argID(c, 1, "section-id")
	if err != nil {
		return err
	}
	contentID, err := argID(c, 2, "content-id")
	if err != nil {
		return err
	}
	list, err := d.Contents(c.Context, sectionID)
	if err != nil {
		return err
	}
	var target *models.Content
	for i := range list {
		if list[i].ID == contentID {
			target = &list[i]
			break
		}
	}
	if target == nil {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("content %d not found in section %d", contentID, sectionID))
	}
	if err := d.RemoveContent(c.Context, sectionID, contentID, target.Type); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed %s #%d.\n", target.Type, contentID)
	return nil
}

func (a *portalApp) listAssignments(c *cli.Context, rt *runtime) error {
	courseID, err := argString(c, 0, "course-id")
	if err != nil {
		return err
	}
	view := rt.portal.Assignments(courseID)
	if err := view.Load(c.Context); err != nil {
		return err
	}
	renderAssignments(a.out, view.Items())
	if id := strings.TrimSpace(c.String("submit")); id != "" {
		view.Submit(id)
		fmt.Fprintf(a.out, "Submission of %s noted. Uploads are not available yet.\n", id)
	}
	return nil
}

func (a *portalApp) showProgress(c *cli.Context, rt *runtime) error {
	courseID, err := argString(c, 0, "course-id")
	if err != nil {
		return err
	}
	view := rt.portal.Progress(courseID)
	if err := view.Load(c.Context); err != nil {
		return err
	}

	if !rt.portal.Identity().CanViewReport() {
		if format := c.String("export"); format != "" {
			_, err := view.Export(format)
			return err
		}
		pct, ok := view.Mine()
		if !ok {
			fmt.Fprintln(a.out, view.EmptyMessage())
			return nil
		}
		renderOwnProgress(a.out, rt.portal.Identity().RollNumber, pct)
		return nil
	}

	rows, err := view.Report()
	if err != nil {
		return err
	}
	if view.Empty() {
		fmt.Fprintln(a.out, view.EmptyMessage())
		return nil
	}
	renderReport(a.out, rows)
	if format := c.String("export"); format != "" {
		path, err := view.Export(format)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Report written to %s\n", path)
	}
	return nil
}

func (a *portalApp) issueToken(c *cli.Context, rt *runtime) error {
	if rt.cfg == nil || rt.cfg.Env == config.EnvProduction {
		return appErrors.Clone(appErrors.ErrForbidden, "tokens are issued by the course store in production")
	}
	raw, expiresAt, err := rt.tokens.Issue(rt.portal.Identity())
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, raw)
	fmt.Fprintf(a.out, "expires %s\n", expiresAt.UTC().Format("2006-01-02 15:04 MST"))
	return nil
}
