package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"avtranscribe/internal/dashboard"
	"avtranscribe/internal/termui"
	"avtranscribe/internal/transcript"
)

const dateFlagLayout = "2006-01-02"

type searchOptions struct {
	fileType   string
	language   string
	from       string
	to         string
	limit      int
	context    int
	noSpeakers bool
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var opts searchOptions
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search transcripts and show speaker context around matches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			req, err := opts.request(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if req.Limit == 0 {
				req.Limit = cfg.Results.SearchLimit
			}
			if !cmd.Flags().Changed("context") {
				req.ContextSize = cfg.Export.ContextSize
			}
			return ctx.withService(cmd, func(runCtx context.Context, svc *dashboard.Service) error {
				view, err := svc.Search(runCtx, req)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, view)
				}
				renderSearch(newPrinter(cmd), view)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&opts.fileType, "type", "t", "", "Only files of this type (e.g. mp3)")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Only files in this language code")
	cmd.Flags().StringVar(&opts.from, "from", "", "Earliest transcription date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.to, "to", "", "Latest transcription date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum files to return")
	cmd.Flags().IntVar(&opts.context, "context", 0, "Segments of context around each match (1-50)")
	cmd.Flags().BoolVar(&opts.noSpeakers, "no-speakers", false, "Show plain transcript previews instead of speaker segments")
	return cmd
}

func (o searchOptions) request(term string) (dashboard.SearchRequest, error) {
	req := dashboard.SearchRequest{
		Term:        term,
		FileType:    o.fileType,
		Language:    o.language,
		Limit:       o.limit,
		ContextSize: o.context,
		SpeakerView: !o.noSpeakers,
	}
	var err error
	if req.From, err = parseDateFlag("from", o.from); err != nil {
		return req, err
	}
	if req.To, err = parseDateFlag("to", o.to); err != nil {
		return req, err
	}
	if o.limit < 0 {
		return req, fmt.Errorf("--limit must be positive")
	}
	return req, nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateFlagLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD: %w", name, err)
	}
	return t, nil
}

func renderSearch(p printer, view dashboard.SearchView) {
	p.notices(view.Notices)
	p.section(fmt.Sprintf("Search Results: %d found", len(view.Hits)))
	if len(view.Hits) == 0 {
		fmt.Fprintf(p.out, "No transcripts contain %q\n", view.Term)
		return
	}
	for _, hit := range view.Hits {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, termui.Paint(hit.FileName, termui.KindInfo, p.colorize))
		fmt.Fprintf(p.out, "  type=%s language=%s speakers=%s duration=%s transcribed=%s\n",
			orNA(hit.FileType),
			dashboard.LanguageLabel(hit.Language),
			formatSpeakers(hit.SpeakerCount),
			formatDuration(hit.DurationSeconds),
			hit.TranscribedAt.Format(timestampLayout),
		)
		if hit.Notice != "" {
			fmt.Fprintln(p.out, termui.StatusLine("Notice", termui.KindWarn, hit.Notice, p.colorize))
		}
		if len(hit.Groups) == 0 {
			fmt.Fprintln(p.out, "  "+hit.Preview)
			continue
		}
		fmt.Fprintf(p.out, "  %d matches, %d segments of context\n", hit.Matches, view.ContextSize)
		renderGroups(p, hit.Groups)
		fmt.Fprintf(p.out, "  export: %s, %s\n", hit.CSVName, hit.SRTName)
	}
}

func renderGroups(p printer, groups [][]transcript.Segment) {
	for i, group := range groups {
		if i > 0 {
			fmt.Fprintln(p.out, "  ---")
		}
		fmt.Fprintf(p.out, "  Match %d:\n", i+1)
		for _, line := range segmentLines(group) {
			fmt.Fprintln(p.out, "  "+line)
		}
	}
}
