package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) refineCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "refine", Short: "Answer clarifying questions about an idea"}

	start := &cobra.Command{
		Use:   "start IDEA_ID",
		Short: "Start or resume a refinement session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.api.StartRefinement(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderSession(a.out, s)
			return nil
		},
	}

	answer := &cobra.Command{
		Use:   "answer SESSION_ID QUESTION_ID=ANSWER...",
		Short: "Record answers; an empty answer clears one",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := parseAnswers(args[1:])
			if err != nil {
				return err
			}
			s, err := a.api.SubmitAnswers(cmd.Context(), args[0], answers)
			if err != nil {
				return err
			}
			renderSession(a.out, s)
			return nil
		},
	}

	complete := &cobra.Command{
		Use:   "complete SESSION_ID",
		Short: "Mark a fully answered session complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.api.CompleteSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Session %s complete\n", s.ID)
			return nil
		},
	}

	cmd.AddCommand(start, answer, complete)
	return cmd
}

func parseAnswers(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		id, text, ok := strings.Cut(arg, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("answer %q: want QUESTION_ID=ANSWER", arg)
		}
		out[id] = text
	}
	return out, nil
}
