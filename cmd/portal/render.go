package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/noah-isme/course-portal/internal/models"
)

const progressBarWidth = 30

func table(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func renderCatalog(out io.Writer, visible []models.Course, total int, more bool) {
	if len(visible) == 0 {
		fmt.Fprintln(out, "No courses found.")
		return
	}
	tw := table(out)
	fmt.Fprintln(tw, "ID\tTITLE\tDEPT\tINSTRUCTOR\tHOURS\tCREDIT")
	for _, c := range visible {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\n", c.ID, c.Title, c.Dept, c.InstructorName, c.Duration, c.Credit)
	}
	tw.Flush()
	if more {
		fmt.Fprintf(out, "Showing %d of %d courses. Use --pages to show more.\n", len(visible), total)
	}
}

func renderCourse(out io.Writer, course models.Course, canEdit, enrolled bool) {
	fmt.Fprintf(out, "%s (#%d)\n", course.Title, course.ID)
	fmt.Fprintln(out, course.Description)
	fmt.Fprintf(out, "Instructor: %s | Dept: %s | %d hours | %d credits\n", course.InstructorName, course.Dept, course.Duration, course.Credit)
	switch {
	case canEdit:
		fmt.Fprintln(out, "You have editing access to this course.")
	case enrolled:
		fmt.Fprintln(out, "Enrolled.")
	default:
		fmt.Fprintf(out, "Not enrolled. Run: portal course enroll %d\n", course.ID)
	}
}

func renderSections(out io.Writer, sections []models.Section, contents map[int64][]models.Content, withContents bool) {
	fmt.Fprintln(out)
	if len(sections) == 0 {
		fmt.Fprintln(out, "No sections yet.")
		return
	}
	for i, s := range sections {
		fmt.Fprintf(out, "%d. %s (#%d)\n", i+1, s.Title, s.ID)
		if s.Description != "" {
			fmt.Fprintf(out, "   %s\n", s.Description)
		}
		if !withContents {
			continue
		}
		list := contents[s.ID]
		if len(list) == 0 {
			fmt.Fprintln(out, "   no content")
			continue
		}
		for _, item := range list {
			fmt.Fprintf(out, "   - [%s #%d] %s\n", item.Type, item.ID, item.URL)
		}
	}
}

func renderAssignments(out io.Writer, items []models.Assignment) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No assignments found for this course.")
		return
	}
	tw := table(out)
	fmt.Fprintln(tw, "ID\tTITLE\tPOSTED\tRESOURCE")
	for _, a := range items {
		posted := ""
		if !a.CreatedAt.IsZero() {
			posted = a.CreatedAt.Time.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Title, posted, a.ResourceLink)
	}
	tw.Flush()
}

func renderReport(out io.Writer, rows []models.ProgressRecord) {
	tw := table(out)
	fmt.Fprintln(tw, "S.NO\tROLL NO\tNAME\tDEPARTMENT\tPROGRESS\tGRADE")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.1f%%\t%s\n", i+1, r.RollNumber, r.Name, r.Department, r.ClampedPercentage(), r.Grade.String())
	}
	tw.Flush()
}

func renderOwnProgress(out io.Writer, rollNumber string, pct float64) {
	filled := int(pct / 100 * progressBarWidth)
	bar := strings.Repeat("#", filled) + strings.Repeat(".", progressBarWidth-filled)
	fmt.Fprintf(out, "Progress for %s: [%s] %.1f%%\n", rollNumber, bar, pct)
}
