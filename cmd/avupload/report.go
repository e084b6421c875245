package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"avtranscribe/internal/stagesync"
	"avtranscribe/internal/termui"
)

// reporter prints the upload plan and per-file outcomes, and drives the
// optional progress bar on stderr.
type reporter struct {
	out      io.Writer
	progress io.Writer
	colorize bool
	showBar  bool
	bar      *progressbar.ProgressBar
}

func newReporter(out, progress io.Writer, colorize, showBar bool) *reporter {
	return &reporter{out: out, progress: progress, colorize: colorize, showBar: showBar}
}

func (r *reporter) banner() {
	for _, line := range termui.SectionHeader("Audio/Video File Uploader", r.colorize) {
		fmt.Fprintln(r.out, line)
	}
}

func (r *reporter) status(label string, kind termui.Kind, message string) {
	fmt.Fprintln(r.out, termui.StatusLine(label, kind, message, r.colorize))
}

func (r *reporter) PlanReady(plan stagesync.Plan) {
	counts := stagesync.ExtensionCounts(plan.Local)
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s: %d", c.Ext, c.Count))
	}
	r.status("Local files", termui.KindOK, fmt.Sprintf("%d found (%s)", len(plan.Local), strings.Join(parts, ", ")))
	if plan.RemoteListed {
		r.status("Stage", termui.KindOK, fmt.Sprintf("%d already present", len(plan.AlreadyPresent)))
	} else {
		r.status("Stage", termui.KindWarn, "could not list stage files; assuming stage is empty")
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, termui.Table(
		[]string{"Upload Plan", "Files"},
		[][]string{
			{"Total local files", strconv.Itoa(len(plan.Local))},
			{"Already in stage", strconv.Itoa(len(plan.AlreadyPresent))},
			{"Files to upload", strconv.Itoa(len(plan.ToUpload))},
		},
		[]termui.Alignment{termui.AlignLeft, termui.AlignRight},
	))
	if len(plan.ToUpload) == 0 {
		r.status("Stage", termui.KindOK, "all files are already uploaded")
		return
	}

	rows := make([][]string, 0, len(plan.ToUpload))
	for _, f := range plan.ToUpload {
		rows = append(rows, []string{f.Name, humanize.Bytes(uint64(f.Size))})
	}
	fmt.Fprintln(r.out, termui.Table([]string{"File", "Size"}, rows, []termui.Alignment{termui.AlignLeft, termui.AlignRight}))
	r.status("Upload size", termui.KindInfo, humanize.Bytes(uint64(plan.UploadBytes)))
	fmt.Fprintln(r.out)

	if r.showBar {
		r.bar = progressbar.NewOptions64(plan.UploadBytes,
			progressbar.OptionSetWriter(r.progress),
			progressbar.OptionSetDescription("uploading"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
}

func (r *reporter) TransferStarted(index, total int, file stagesync.LocalFile) {
	if r.bar != nil {
		r.bar.Describe(fmt.Sprintf("[%d/%d] %s", index, total, file.Name))
	}
}

func (r *reporter) TransferFinished(index, total int, result stagesync.Result) {
	if r.bar != nil {
		_ = r.bar.Add64(result.File.Size)
		if index == total {
			_ = r.bar.Finish()
		}
	}
	line := fmt.Sprintf("[%d/%d] %s (%s) ", index, total, result.File.Name, humanize.Bytes(uint64(result.File.Size)))
	switch result.Outcome {
	case stagesync.OutcomeUploaded:
		line += termui.Paint("UPLOADED", termui.KindOK, r.colorize)
	case stagesync.OutcomeSkipped:
		line += termui.Paint("SKIPPED (already exists)", termui.KindWarn, r.colorize)
	default:
		line += termui.Paint("FAILED", termui.KindError, r.colorize)
		if result.Err != nil {
			line += ": " + result.Err.Error()
		}
	}
	fmt.Fprintln(r.out, line)
}

func (r *reporter) summary(s stagesync.Summary) {
	if s.LocalMissing {
		r.status("Source", termui.KindError, "audio/video directory not found: "+s.Directory)
		return
	}
	if len(s.Plan.Local) == 0 {
		r.status("Source", termui.KindInfo, "no audio/video files found to upload")
		return
	}
	if len(s.Plan.ToUpload) == 0 {
		return
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, termui.Table(
		[]string{"Upload Summary", "Files"},
		[][]string{
			{"Uploaded", strconv.Itoa(s.Uploaded)},
			{"Skipped", strconv.Itoa(s.Skipped)},
			{"Failed", strconv.Itoa(s.Failed)},
			{"Total", strconv.Itoa(s.Attempted())},
		},
		[]termui.Alignment{termui.AlignLeft, termui.AlignRight},
	))
	if s.RemoteTotalKnown {
		r.status("Stage", termui.KindOK, fmt.Sprintf("%d files in %s", s.RemoteTotal, s.Stage))
	} else {
		r.status("Stage", termui.KindWarn, "could not verify stage contents")
	}
	if s.Uploaded > 0 {
		r.status("Pipeline", termui.KindInfo, "new files will be picked up by the transcription pipeline")
	}
}
