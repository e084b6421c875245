package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"avtranscribe/internal/config"
	"avtranscribe/internal/logging"
	"avtranscribe/internal/notifications"
	"avtranscribe/internal/services"
	"avtranscribe/internal/stage"
	"avtranscribe/internal/stagesync"
	"avtranscribe/internal/termui"
	"avtranscribe/internal/warehouse"
)

type uploadOptions struct {
	directory  string
	configPath string
	noProgress bool
}

func newRootCommand() *cobra.Command {
	var opts uploadOptions

	cmd := &cobra.Command{
		Use:           "avupload",
		Short:         "Upload audio/video files to the transcription stage",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.directory, "directory", "d", "", "Directory containing audio/video files (default: stage.source_dir)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}

func runUpload(cmd *cobra.Command, opts uploadOptions) error {
	cfg, path, exists, err := config.Load(strings.TrimSpace(opts.configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "avupload", "logging", "", err)
	}

	dir := cfg.Stage.SourceDir
	if d := strings.TrimSpace(opts.directory); d != "" {
		if dir, err = config.ExpandPath(d); err != nil {
			return services.Wrap(services.ErrConfiguration, "avupload", "resolve directory", d, err)
		}
	}

	runID := uuid.NewString()
	ctx := services.WithRunID(cmd.Context(), runID)
	logging.WithContext(ctx, logger).Info("upload run starting",
		logging.String("config", path),
		logging.Bool("config_exists", exists),
		logging.String("backend", cfg.Stage.Backend),
		logging.String("dir", dir),
	)

	out := cmd.OutOrStdout()
	colorize := termui.IsTerminal(out)
	rep := newReporter(out, cmd.ErrOrStderr(), colorize, !opts.noProgress && termui.IsTerminal(cmd.ErrOrStderr()))
	rep.banner()

	var db *sql.DB
	if cfg.Stage.Backend == config.BackendSnowflake {
		rep.status("Warehouse", termui.KindInfo, "connecting as "+cfg.Warehouse.User)
		db, err = warehouse.Open(ctx, cfg.Warehouse, logger)
		if err != nil {
			rep.status("Warehouse", termui.KindError, "connection failed")
			return err
		}
		defer func() {
			_ = db.Close()
			rep.status("Warehouse", termui.KindOK, "connection closed")
		}()
		rep.status("Warehouse", termui.KindOK, "connected using key-pair authentication")
	}

	st, err := stage.Open(ctx, cfg, db)
	if err != nil {
		return err
	}

	notifier := notifications.NewService(cfg)
	syncer := stagesync.NewSyncer(st, logger, stagesync.WithObserver(rep))
	rep.status("Source", termui.KindInfo, dir)
	started := time.Now()
	summary, err := syncer.Run(ctx, dir)
	if err != nil {
		notify(ctx, logger, notifier.NotifyError(ctx, err, "upload"))
		return err
	}
	rep.summary(summary)
	if report, ok := uploadReport(summary, time.Since(started)); ok {
		notify(ctx, logger, notifier.NotifyUploadCompleted(ctx, report))
	}
	return nil
}

// uploadReport builds the completion notification; runs that issued no
// transfers report nothing.
func uploadReport(summary stagesync.Summary, elapsed time.Duration) (notifications.UploadReport, bool) {
	if summary.Attempted() == 0 {
		return notifications.UploadReport{}, false
	}
	return notifications.UploadReport{
		Stage:    summary.Stage,
		Uploaded: summary.Uploaded,
		Skipped:  summary.Skipped,
		Failed:   summary.Failed,
		Duration: elapsed,
	}, true
}

func notify(ctx context.Context, logger *slog.Logger, err error) {
	if err != nil {
		logging.WithContext(ctx, logger).Warn("notification failed", logging.Error(err))
	}
}
