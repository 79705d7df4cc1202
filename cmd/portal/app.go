package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/portal"
	"github.com/noah-isme/course-portal/internal/session"
	"github.com/noah-isme/course-portal/pkg/config"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

// runtime is everything a command needs once configuration is resolved.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	tokens *session.Tokens
	portal *portal.Portal
	close  func() error
}

// opener builds the runtime for one invocation.
type opener func(c *cli.Context, confirm portal.Confirmer) (*runtime, error)

type portalApp struct {
	in   io.Reader
	out  io.Writer
	open opener

	// interactive is false when stdin is not a terminal; prompts then fail fast.
	interactive bool

	rt *runtime
}

func newApp(in io.Reader, out io.Writer, open opener, interactive bool) *cli.App {
	a := &portalApp{in: in, out: out, open: open, interactive: interactive}
	return &cli.App{
		Name:      "portal",
		Usage:     "browse and manage courses on the course store",
		Reader:    in,
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "role", Usage: "act as student, teacher or admin", EnvVars: []string{"PORTAL_ROLE"}},
			&cli.StringFlag{Name: "name", Usage: "display name of the actor"},
			&cli.StringFlag{Name: "roll", Usage: "student roll number"},
			&cli.StringFlag{Name: "token", Usage: "identity token issued by the course store"},
			&cli.StringFlag{Name: "store-url", Usage: "override the course store base URL"},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "approve every confirmation prompt"},
		},
		Commands: []*cli.Command{
			a.coursesCommand(),
			a.courseCommand(),
			a.assignmentsCommand(),
			a.progressCommand(),
			a.tokenCommand(),
		},
		After: func(*cli.Context) error {
			if a.rt != nil && a.rt.close != nil {
				return a.rt.close()
			}
			return nil
		},
	}
}

// action opens the runtime and maps a cancelled confirmation to a plain notice.
func (a *portalApp) action(fn func(c *cli.Context, rt *runtime) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if a.rt == nil {
			rt, err := a.open(c, a.confirmer(c))
			if err != nil {
				return err
			}
			a.rt = rt
		}
		err := fn(c, a.rt)
		if errors.Is(err, appErrors.ErrCancelled) {
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}
		return err
	}
}

func (a *portalApp) confirmer(c *cli.Context) portal.Confirmer {
	if c.Bool("yes") {
		return portal.AlwaysConfirm
	}
	if !a.interactive {
		return portal.ConfirmFunc(func(context.Context, string) (bool, error) {
			return false, errConfirmationRequired
		})
	}
	return newPrompt(a.in, a.out)
}
