package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"brightideas/entities"
	"brightideas/pkg/client"
)

func (a *app) ideasCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "ideas", Short: "Manage ideas"}

	var opts client.ListOptions
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List ideas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Status = entities.IdeaStatus(status)
			if err := a.ws.LoadIdeas(cmd.Context(), opts); err != nil {
				return err
			}
			renderIdeas(a.out, a.ws.Ideas.Get())
			if len(a.ws.Ideas.Get()) > 0 {
				renderSummary(a.out, a.ws.ActiveCount.Get(), a.ws.TagCloud.Get())
			}
			return nil
		},
	}
	list.Flags().StringVarP(&opts.Search, "search", "s", "", "match title, description or tags")
	list.Flags().StringSliceVarP(&opts.Tags, "tag", "t", nil, "require tag (repeatable)")
	list.Flags().StringVar(&status, "status", "", "captured, refining, planned or archived")
	list.Flags().BoolVarP(&opts.IncludeArchived, "all", "a", false, "include archived ideas")
	list.Flags().StringVar(&opts.Sort, "sort", "", "created_at, updated_at or title")
	list.Flags().StringVar(&opts.Order, "order", "", "asc or desc")
	list.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of ideas")

	var in client.NewIdea
	add := &cobra.Command{
		Use:   "add TITLE",
		Short: "Capture a new idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Title = args[0]
			idea, err := a.api.CreateIdea(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Captured %s (%s)\n", idea.Title, idea.ID)
			return nil
		},
	}
	add.Flags().StringVarP(&in.OriginalDescription, "description", "d", "", "what the idea is about")
	add.Flags().StringSliceVarP(&in.Tags, "tag", "t", nil, "tag (repeatable)")

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show an idea with its latest session and active plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ws.Open(cmd.Context(), args[0]); err != nil {
				return err
			}
			renderIdea(a.out, a.ws.Current.Get())
			if plans := a.ws.Plans.Get(); len(plans) > 0 {
				fmt.Fprintf(a.out, "\n%s\n", headingStyle.Render("Plans"))
				renderPlans(a.out, plans)
			}
			return nil
		},
	}

	archive := &cobra.Command{
		Use:   "archive ID",
		Short: "Archive an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idea, err := a.api.ArchiveIdea(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Archived %s\n", idea.Title)
			return nil
		},
	}

	restore := &cobra.Command{
		Use:   "restore ID",
		Short: "Bring an archived idea back to captured",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idea, err := a.api.RestoreIdea(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Restored %s\n", idea.Title)
			return nil
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an idea with its sessions and plans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.confirmed(yes, "Delete idea "+args[0]+" and everything under it?"); err != nil {
				return err
			}
			if err := a.api.DeleteIdea(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Idea deleted")
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	cmd.AddCommand(list, add, show, archive, restore, del)
	return cmd
}
