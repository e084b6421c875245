package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"avtranscribe/internal/logging"
	"avtranscribe/internal/results"
	"avtranscribe/internal/transcript"
)

// Store is the subset of the results store the dashboard reads.
type Store interface {
	Recent(ctx context.Context, limit int) ([]transcript.FileRecord, error)
	Stats(ctx context.Context) (results.Stats, error)
	Record(ctx context.Context, fileName string) (transcript.FileRecord, error)
	Search(ctx context.Context, f results.Filter) ([]transcript.FileRecord, error)
	FileNames(ctx context.Context) ([]string, error)
}

// NoticeLevel classifies an inline notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is an inline message attached to a view.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Service renders dashboard views over a results store.
type Service struct {
	store   Store
	logger  *slog.Logger
	now     func() time.Time
	printer *message.Printer
	open    string
	close   string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for export metadata.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithHighlight sets the markers wrapped around matched search terms.
func WithHighlight(open, closing string) Option {
	return func(s *Service) {
		s.open = open
		s.close = closing
	}
}

// NewService constructs a Service. A nil logger discards output.
func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Service{
		store:   store,
		logger:  logging.NewComponentLogger(logger, "dashboard"),
		now:     time.Now,
		printer: message.NewPrinter(language.English),
		open:    "**",
		close:   "**",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// degrade logs a query failure and converts it into an error notice.
func (s *Service) degrade(ctx context.Context, view, what string, err error) Notice {
	logging.WithContext(ctx, s.logger).Warn("query failed; showing empty view",
		logging.String("view", view),
		logging.String("query", what),
		logging.Error(err),
	)
	return Notice{Level: NoticeError, Message: fmt.Sprintf("Error loading %s: %v", what, err)}
}

func (s *Service) highlight(text, term string) string {
	return transcript.Highlight(text, term, s.open, s.close)
}
