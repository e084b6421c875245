package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"avtranscribe/internal/config"
	"avtranscribe/internal/notifications"
)

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newNtfy(t *testing.T, status int) (notifications.Service, *[]captured) {
	t.Helper()
	var got []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = append(got, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(status)
		if status >= 300 {
			_, _ = w.Write([]byte("topic not allowed"))
		}
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = srv.URL + "/uploads"
	return notifications.NewService(&cfg), &got
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyUploadCompleted(context.Background(), notifications.UploadReport{Uploaded: 1}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNotifyUploadCompleted(t *testing.T) {
	tests := []struct {
		name           string
		report         notifications.UploadReport
		expectTitle    string
		expectMessage  string
		expectPriority string
	}{
		{
			name:          "clean run",
			report:        notifications.UploadReport{Stage: "MEDIA.PUBLIC.AUDIO_VIDEO_STAGE", Uploaded: 3, Skipped: 2, Duration: 4400 * time.Millisecond},
			expectTitle:   "avtranscribe - Upload Complete",
			expectMessage: "MEDIA.PUBLIC.AUDIO_VIDEO_STAGE: 3 uploaded, 2 skipped in 4s",
		},
		{
			name:           "with failures",
			report:         notifications.UploadReport{Uploaded: 1, Failed: 2, Duration: time.Minute},
			expectTitle:    "avtranscribe - Upload Complete (with errors)",
			expectMessage:  "stage: 1 uploaded, 0 skipped, 2 failed in 1m0s",
			expectPriority: "high",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, got := newNtfy(t, http.StatusOK)
			if err := svc.NotifyUploadCompleted(context.Background(), tt.report); err != nil {
				t.Fatalf("notify: %v", err)
			}
			if len(*got) != 1 {
				t.Fatalf("expected one request, got %d", len(*got))
			}
			req := (*got)[0]
			if req.title != tt.expectTitle || req.body != tt.expectMessage || req.priority != tt.expectPriority {
				t.Fatalf("unexpected request %+v", req)
			}
			if req.tags != "avtranscribe,upload,completed" {
				t.Fatalf("tags = %q", req.tags)
			}
		})
	}
}

func TestNotifyErrorAndServerFailure(t *testing.T) {
	svc, got := newNtfy(t, http.StatusOK)
	if err := svc.NotifyError(context.Background(), errors.New("stage list failed"), "upload"); err != nil {
		t.Fatalf("notify error: %v", err)
	}
	if (*got)[0].body != "Error with upload: stage list failed" {
		t.Fatalf("body = %q", (*got)[0].body)
	}

	failing, _ := newNtfy(t, http.StatusForbidden)
	err := failing.TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "ntfy returned 403: topic not allowed") {
		t.Fatalf("expected status error, got %v", err)
	}
}
