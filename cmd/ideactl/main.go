// Command ideactl drives the Bright Ideas API from a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"brightideas/config"
	"brightideas/pkg/client"
)

type app struct {
	api     *client.Client
	ws      *client.Workspace
	out     io.Writer
	confirm func(prompt string) (bool, error)
}

func main() {
	a := &app{out: os.Stdout, confirm: promptConfirm}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", errorLine(err))
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var baseURL string
	root := &cobra.Command{
		Use:           "ideactl",
		Short:         "Capture, refine and plan ideas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if baseURL == "" {
				baseURL = config.ClientURL()
			}
			if a.api == nil {
				a.api = client.New(baseURL, nil)
			}
			if a.ws == nil {
				a.ws = client.NewWorkspace(a.api)
			}
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "url", "", "API base URL (default $BRIGHT_IDEAS_URL or "+client.DefaultBaseURL+")")
	root.AddCommand(a.ideasCmd(), a.refineCmd(), a.plansCmd())
	return root
}

// errorLine renders err as a single line for stderr.
func errorLine(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

var errNotConfirmed = errors.New("not confirmed; pass --yes to skip the prompt")

// confirmed asks before a destructive action unless --yes was given.
func (a *app) confirmed(yes bool, prompt string) error {
	if yes {
		return nil
	}
	ok, err := a.confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		return errNotConfirmed
	}
	return nil
}

func promptConfirm(prompt string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return false, errNotConfirmed
	}
	var ok bool
	err := huh.NewConfirm().
		Title(prompt).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}
