package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func (a *app) plansCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "plans", Short: "Generate, upload and export plans"}

	list := &cobra.Command{
		Use:   "list IDEA_ID",
		Short: "List an idea's plans, active first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := a.api.ListPlans(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderPlans(a.out, plans)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show PLAN_ID",
		Short: "Print a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.api.GetPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderPlan(a.out, p)
			return nil
		},
	}

	generate := &cobra.Command{
		Use:   "generate SESSION_ID",
		Short: "Generate a plan from a completed refinement session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.api.GeneratePlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderPlan(a.out, p)
			return nil
		},
	}

	activate := &cobra.Command{
		Use:   "activate PLAN_ID",
		Short: "Make a plan the idea's active plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.api.ActivatePlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Plan %s is now active\n", p.ID)
			return nil
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete PLAN_ID",
		Short: "Delete a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.confirmed(yes, "Delete plan "+args[0]+"?"); err != nil {
				return err
			}
			if err := a.api.DeletePlan(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Plan deleted")
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	var title string
	upload := &cobra.Command{
		Use:   "upload IDEA_ID FILE",
		Short: "Attach a plan written elsewhere (markdown, HTML, JSON export or text; - reads stdin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}
			p, err := a.api.UploadPlan(cmd.Context(), args[0], string(content), title)
			if err != nil {
				return err
			}
			renderPlan(a.out, p)
			return nil
		},
	}
	upload.Flags().StringVar(&title, "title", "", "plan title when the document has none")

	var format, outPath string
	export := &cobra.Command{
		Use:   "export PLAN_ID",
		Short: "Download a plan as markdown, json or xlsx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, data, err := a.api.Export(cmd.Context(), args[0], format)
			if err != nil {
				return err
			}
			if outPath == "-" {
				_, err = a.out.Write(data)
				return err
			}
			if outPath == "" {
				outPath = name
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Wrote %s (%d bytes)\n", outPath, len(data))
			return nil
		},
	}
	export.Flags().StringVarP(&format, "format", "f", "markdown", "markdown, json or xlsx")
	export.Flags().StringVarP(&outPath, "out", "o", "", "output file; - for stdout (default: server filename)")

	cmd.AddCommand(list, show, generate, activate, del, upload, export)
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
