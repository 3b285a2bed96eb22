package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/campus-complaints/internal/client/app"
	"github.com/noah-isme/campus-complaints/internal/client/complaints"
	"github.com/noah-isme/campus-complaints/internal/client/render"
	"github.com/noah-isme/campus-complaints/internal/models"
	appErrors "github.com/noah-isme/campus-complaints/pkg/errors"
	"github.com/noah-isme/campus-complaints/pkg/export"
)

func newSubmitCommand(opts *rootOptions) *cobra.Command {
	var in app.Input

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "File a complaint as the logged-in student",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, rt *runtime, _ []string) error {
			if err := rt.start(ctx); err != nil {
				return err
			}
			if err := rt.requirePortal(models.RoleStudent); err != nil {
				return err
			}
			if in.Name == "" {
				in.Name = rt.app.State().Session.Identity.DisplayName
			}

			var err error
			if in.Category, err = rt.ask(in.Category, "Category"); err != nil {
				return err
			}
			if in.Description, err = rt.ask(in.Description, "Description"); err != nil {
				return err
			}

			if err := rt.dispatch(ctx, app.ActionSubmit, in); err != nil {
				return err
			}
			if err := rt.notice(); err != nil {
				return err
			}
			return rt.portal()
		}),
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "student name (defaults to the session name)")
	cmd.Flags().StringVarP(&in.Category, "category", "c", "", "complaint category")
	cmd.Flags().StringVarP(&in.Description, "description", "d", "", "what went wrong")

	return cmd
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var filters app.Filters

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show complaints for the current portal",
		Args:    cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, rt *runtime, _ []string) error {
			if err := rt.start(ctx); err != nil {
				return err
			}
			if err := rt.requirePortal(""); err != nil {
				return err
			}
			if err := rt.applyFilters(ctx, filters); err != nil {
				return err
			}
			return rt.portal()
		}),
	}

	cmd.Flags().StringVarP(&filters.Status, "status", "s", "", "admin only: all, pending or resolved")
	cmd.Flags().StringVarP(&filters.Category, "category", "c", "", "admin only: exact category")

	return cmd
}

func newResolveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id>",
		Short: "Mark a complaint resolved",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(ctx context.Context, rt *runtime, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				msg := fmt.Sprintf("invalid complaint id %q", args[0])
				return &NoticeError{
					Notice: app.Notice{Kind: appErrors.KindRejected, Message: msg},
					Err:    appErrors.Clone(appErrors.ErrValidation, msg),
				}
			}
			if err := rt.start(ctx); err != nil {
				return err
			}
			if err := rt.requirePortal(models.RoleAdmin); err != nil {
				return err
			}
			if err := rt.dispatch(ctx, app.ActionResolve, app.Input{ComplaintID: id}); err != nil {
				return err
			}
			if err := rt.notice(); err != nil {
				return err
			}
			return rt.portal()
		}),
	}
}

func newStatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show complaint totals and categories",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, rt *runtime, _ []string) error {
			if err := rt.start(ctx); err != nil {
				return err
			}
			if err := rt.requirePortal(models.RoleAdmin); err != nil {
				return err
			}
			if err := rt.term.WriteStats(rt.out, rt.app.Stats()); err != nil {
				return err
			}
			categories := rt.app.Complaints().Categories()
			if len(categories) == 0 {
				return nil
			}
			_, err := fmt.Fprintf(rt.out, "Categories: %s\n", strings.Join(categories, ", "))
			return err
		}),
	}
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		format  string
		output  string
		filters app.Filters
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current view as CSV or PDF",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, rt *runtime, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == export.FormatPDF && output == "" {
				return fmt.Errorf("pdf export needs --out")
			}
			if err := rt.start(ctx); err != nil {
				return err
			}
			if err := rt.requirePortal(""); err != nil {
				return err
			}
			if err := rt.applyFilters(ctx, filters); err != nil {
				return err
			}

			data, err := export.Render(f, render.Dataset(rt.app.Render()), "Campus Complaints")
			if err != nil {
				return err
			}
			if output == "" {
				_, err = rt.out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			rt.logger.Sugar().Debugw("export written", "path", output, "bytes", len(data))
			_, err = fmt.Fprintf(rt.out, "Exported %d complaints to %s\n", len(rt.app.Render().Cards), output)
			return err
		}),
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatCSV), "csv or pdf")
	cmd.Flags().StringVarP(&output, "out", "o", "", "output file (stdout for csv when omitted)")
	cmd.Flags().StringVarP(&filters.Status, "status", "s", "", "admin only: all, pending or resolved")
	cmd.Flags().StringVarP(&filters.Category, "category", "c", "", "admin only: exact category")

	return cmd
}

// applyFilters narrows the admin view. Students get an error if they pass any.
func (rt *runtime) applyFilters(ctx context.Context, f app.Filters) error {
	if f.Status == "" && f.Category == "" {
		return nil
	}
	if rt.app.State().View != app.ViewAdminPortal {
		return rt.requirePortal(models.RoleAdmin)
	}
	if f.Status == "" {
		f.Status = complaints.All
	}
	return rt.dispatch(ctx, app.ActionFilter, app.Input{Status: f.Status, Category: f.Category})
}
