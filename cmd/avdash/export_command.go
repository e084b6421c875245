package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"avtranscribe/internal/config"
	"avtranscribe/internal/dashboard"
	"avtranscribe/internal/export"
)

type exportOptions struct {
	format          string
	term            string
	context         int
	includeSpeakers bool
	dir             string
	stdout          bool
}

type exportSummary struct {
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	Segments int    `json:"segments"`
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a file's speaker segments as CSV or SRT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			req := dashboard.ExportRequest{
				FileName:        args[0],
				Kind:            export.Kind(strings.ToLower(strings.TrimSpace(opts.format))),
				Term:            opts.term,
				ContextSize:     cfg.Export.ContextSize,
				IncludeSpeakers: cfg.Export.IncludeSpeakers,
			}
			if cmd.Flags().Changed("context") {
				req.ContextSize = opts.context
			}
			if cmd.Flags().Changed("speakers") {
				req.IncludeSpeakers = opts.includeSpeakers
			}
			dir := cfg.Export.Dir
			if strings.TrimSpace(opts.dir) != "" {
				if dir, err = config.ExpandPath(opts.dir); err != nil {
					return err
				}
			}

			return ctx.withService(cmd, func(runCtx context.Context, svc *dashboard.Service) error {
				result, err := svc.Export(runCtx, req)
				if err != nil {
					return err
				}
				summary := exportSummary{Name: result.Name, Segments: result.Segments}
				if opts.stdout {
					_, err := cmd.OutOrStdout().Write(result.Content)
					return err
				}
				if summary.Path, err = result.Write(dir); err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, summary)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d segments to %s\n", summary.Segments, summary.Path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(export.KindCSV), "Export format: csv or srt")
	cmd.Flags().StringVar(&opts.term, "term", "", "Only export context windows around this search term")
	cmd.Flags().IntVar(&opts.context, "context", 0, "Segments of context around each match (1-50)")
	cmd.Flags().BoolVar(&opts.includeSpeakers, "speakers", true, "Prefix subtitle lines with speaker names")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "Output directory (defaults to export.dir)")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Write the export to stdout instead of a file")
	return cmd
}
