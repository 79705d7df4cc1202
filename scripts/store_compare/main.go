package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/coursestore"
	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

type target struct {
	Op       string `json:"op"`
	ID       string `json:"id"`
	Critical bool   `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

type comparison struct {
	Target          target
	CandidateStatus int
	ReferenceStatus int
	StatusMatch     bool
	BodyMatch       bool
	Error           error
	Duration        time.Duration
}

type fetchFunc func(ctx context.Context, c *coursestore.Client, id string) (interface{}, error)

// operations fetch through the portal client, so legacy field names decode to
// the same values as canonical ones. Server timestamps are cleared because two
// deployments never agree on them.
var operations = map[string]fetchFunc{
	"courses": func(ctx context.Context, c *coursestore.Client, _ string) (interface{}, error) {
		list, err := c.ListCourses(ctx)
		for i := range list {
			list[i].CreatedAt, list[i].UpdatedAt = models.Timestamp{}, models.Timestamp{}
		}
		return list, err
	},
	"sections": func(ctx context.Context, c *coursestore.Client, id string) (interface{}, error) {
		courseID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("sections target needs a numeric id: %w", err)
		}
		list, err := c.ListSections(ctx, courseID)
		for i := range list {
			list[i].CreatedAt, list[i].UpdatedAt = models.Timestamp{}, models.Timestamp{}
		}
		return list, err
	},
	"contents": func(ctx context.Context, c *coursestore.Client, id string) (interface{}, error) {
		sectionID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("contents target needs a numeric id: %w", err)
		}
		return c.ListContents(ctx, sectionID)
	},
	"assignments": func(ctx context.Context, c *coursestore.Client, id string) (interface{}, error) {
		return c.ListAssignments(ctx, id)
	},
	"progress": func(ctx context.Context, c *coursestore.Client, id string) (interface{}, error) {
		return c.StudentProgress(ctx, id)
	},
}

func main() {
	app := &cli.App{
		Name:  "store-compare",
		Usage: "compare read endpoints of two course store deployments",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "candidate", Value: "http://localhost:8080", Usage: "course store under test"},
			&cli.StringFlag{Name: "reference", Value: "http://localhost:3000", Usage: "course store treated as correct"},
			&cli.StringFlag{Name: "targets", Value: filepath.Join("scripts", "store_compare", "targets.json"), Usage: "path to JSON targets file"},
			&cli.DurationFlag{Name: "timeout", Value: 5 * time.Second, Usage: "per-request timeout"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	targets, err := loadTargets(c.String("targets"))
	if err != nil {
		return fmt.Errorf("load targets: %w", err)
	}
	candidate, err := coursestore.New(coursestore.Config{BaseURL: c.String("candidate"), Timeout: c.Duration("timeout")}, nil, zap.NewNop())
	if err != nil {
		return err
	}
	reference, err := coursestore.New(coursestore.Config{BaseURL: c.String("reference"), Timeout: c.Duration("timeout")}, nil, zap.NewNop())
	if err != nil {
		return err
	}

	results := make([]comparison, 0, len(targets))
	for _, t := range targets {
		results = append(results, compareTarget(c.Context, candidate, reference, t))
	}
	breaking, optional := tally(results)
	printReport(c.App.Writer, results)
	fmt.Fprintf(c.App.Writer, "Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	for _, t := range file.Targets {
		if _, ok := operations[t.Op]; !ok {
			return nil, fmt.Errorf("unknown target op %q", t.Op)
		}
	}
	return file.Targets, nil
}

func compareTarget(ctx context.Context, candidate, reference *coursestore.Client, tgt target) comparison {
	comp := comparison{Target: tgt}
	fetch := operations[tgt.Op]

	start := time.Now()
	got, gotErr := fetch(ctx, candidate, tgt.ID)
	comp.Duration = time.Since(start)
	want, wantErr := fetch(ctx, reference, tgt.ID)

	comp.CandidateStatus = statusOf(gotErr)
	comp.ReferenceStatus = statusOf(wantErr)
	comp.StatusMatch = comp.CandidateStatus == comp.ReferenceStatus
	if appErrors.HasCode(gotErr, appErrors.ErrTransport.Code) {
		comp.Error = fmt.Errorf("candidate: %w", gotErr)
		return comp
	}
	if appErrors.HasCode(wantErr, appErrors.ErrTransport.Code) {
		comp.Error = fmt.Errorf("reference: %w", wantErr)
		return comp
	}
	if gotErr != nil || wantErr != nil {
		comp.BodyMatch = (gotErr != nil) == (wantErr != nil)
		return comp
	}
	comp.BodyMatch = sameJSON(got, want)
	return comp
}

// sameJSON compares the canonical encodings, so only fields a client can see count.
func sameJSON(a, b interface{}) bool {
	left, errA := json.Marshal(a)
	right, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(left, right)
}

func statusOf(err error) int {
	if err == nil {
		return 200
	}
	return appErrors.FromError(err).Status
}

func tally(results []comparison) (breaking, optional int) {
	for _, res := range results {
		if res.Error == nil && res.StatusMatch && res.BodyMatch {
			continue
		}
		if res.Target.Critical {
			breaking++
		} else {
			optional++
		}
	}
	return breaking, optional
}

func printReport(out io.Writer, results []comparison) {
	fmt.Fprintln(out, "Course Store Compare Report")
	fmt.Fprintln(out, "===========================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Fprintf(out, "[%s] %s %s\n", status, res.Target.Op, res.Target.ID)
		fmt.Fprintf(out, "  Candidate: %d (%s) | Reference: %d\n", res.CandidateStatus, res.Duration, res.ReferenceStatus)
		if res.Error != nil {
			fmt.Fprintf(out, "  Error: %v\n", res.Error)
		} else {
			fmt.Fprintf(out, "  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
		}
	}
}
