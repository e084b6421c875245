package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"avtranscribe/internal/dashboard"
	"avtranscribe/internal/termui"
)

func newSpeakersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "speakers [file]",
		Short: "List files with speaker data, or show one file's speaker segments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fileName string
			if len(args) == 1 {
				fileName = args[0]
			}
			return ctx.withService(cmd, func(runCtx context.Context, svc *dashboard.Service) error {
				view, err := svc.Speakers(runCtx, fileName)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, view)
				}
				renderSpeakers(newPrinter(cmd), view)
				return nil
			})
		},
	}
}

func renderSpeakers(p printer, view dashboard.SpeakersView) {
	p.notices(view.Notices)
	if view.File == nil {
		p.section("Files with Speaker Data")
		rows := make([][]string, 0, len(view.Files))
		for _, name := range view.Files {
			rows = append(rows, []string{name})
		}
		p.table([]string{"File"}, rows, nil)
		return
	}

	f := view.File
	p.section(f.FileName)
	fmt.Fprintln(p.out, termui.KeyValues([][2]string{
		{"Type", orNA(f.FileType)},
		{"Language", f.LanguageLabel},
		{"Duration", formatDuration(f.DurationSeconds)},
		{"Speakers", formatSpeakers(f.SpeakerCount)},
		{"Size", f.Size},
		{"Words", strconv.Itoa(f.Words)},
	}))

	if len(view.Segments) == 0 {
		if view.Transcript != "" {
			p.section("Transcript")
			fmt.Fprintln(p.out, view.Transcript)
		}
		return
	}
	p.section(fmt.Sprintf("Speaker Segments (%d merged from %d)", len(view.Segments), view.RawSegments))
	for _, line := range segmentLines(view.Segments) {
		fmt.Fprintln(p.out, line)
	}
	fmt.Fprintf(p.out, "\nexport: %s, %s\n", view.CSVName, view.SRTName)
}
