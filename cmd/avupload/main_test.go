package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"avtranscribe/internal/services"
	"avtranscribe/internal/stagesync"
	"avtranscribe/internal/testsupport"
)

type uploadEnv struct {
	configPath string
	sourceDir  string
	stageDir   string
}

func setupUploadEnv(t *testing.T) uploadEnv {
	t.Helper()
	base := t.TempDir()
	env := uploadEnv{
		configPath: filepath.Join(base, "config.toml"),
		sourceDir:  filepath.Join(base, "media"),
		stageDir:   filepath.Join(base, "stage"),
	}
	body := fmt.Sprintf(`[stage]
backend = "local"
source_dir = %q

[stage.local]
dir = %q

[results]
backend = "sqlite"
sqlite_path = %q

[logging]
level = "error"
`, env.sourceDir, env.stageDir, filepath.Join(base, "results.db"))
	if err := os.WriteFile(env.configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runUploadCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestUploadCopiesMissingFilesOnce(t *testing.T) {
	env := setupUploadEnv(t)
	testsupport.WriteMedia(t, env.sourceDir, "a.mp3", "b.WAV", "notes.txt")
	testsupport.WriteFile(t, filepath.Join(env.stageDir, "b.WAV"), 4)

	out, err := runUploadCLI(t, "-c", env.configPath, "--no-progress")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	requireContains(t, out, "2 found (.mp3: 1, .wav: 1)")
	requireContains(t, out, "[1/1] a.mp3")
	requireContains(t, out, "UPLOADED")
	requireContains(t, out, "2 files in")
	if strings.Contains(out, "notes.txt") {
		t.Fatalf("non-media file should be ignored:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(env.stageDir, "a.mp3")); err != nil {
		t.Fatalf("a.mp3 not staged: %v", err)
	}

	out, err = runUploadCLI(t, "-c", env.configPath, "--no-progress")
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	requireContains(t, out, "all files are already uploaded")
}

func TestUploadDirectoryFlagOverridesConfig(t *testing.T) {
	env := setupUploadEnv(t)
	other := testsupport.WriteMedia(t, filepath.Join(t.TempDir(), "other"), "clip.mkv")

	out, err := runUploadCLI(t, "-c", env.configPath, "-d", other, "--no-progress")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	requireContains(t, out, "clip.mkv")
	if _, err := os.Stat(filepath.Join(env.stageDir, "clip.mkv")); err != nil {
		t.Fatalf("clip.mkv not staged: %v", err)
	}
}

func TestUploadMissingDirectoryIsNotFatal(t *testing.T) {
	env := setupUploadEnv(t)
	out, err := runUploadCLI(t, "-c", env.configPath, "-d", filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("missing directory should not fail the run: %v", err)
	}
	requireContains(t, out, "directory not found")
}

func TestUploadEmptyDirectory(t *testing.T) {
	env := setupUploadEnv(t)
	if err := os.MkdirAll(env.sourceDir, 0o755); err != nil {
		t.Fatal(err)
	}
	out, err := runUploadCLI(t, "-c", env.configPath)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	requireContains(t, out, "no audio/video files found")
}

func TestUploadRejectsPlaceholderAccount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[warehouse]\naccount = \"YOUR_ACCOUNT_IDENTIFIER\"\nuser = \"svc\"\ndatabase = \"DB\"\nschema = \"S\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := runUploadCLI(t, "-c", path)
	if err == nil || !services.IsFatal(err) {
		t.Fatalf("expected fatal configuration error, got %v", err)
	}
}

func TestUploadRejectsArguments(t *testing.T) {
	if _, err := runUploadCLI(t, "extra"); err == nil || errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestUploadSendsNotification(t *testing.T) {
	env := setupUploadEnv(t)
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
	}))
	defer srv.Close()

	f, err := os.OpenFile(env.configPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fmt.Fprintf(f, "\n[notifications]\nntfy_topic = %q\n", srv.URL+"/uploads"); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	testsupport.WriteMedia(t, env.sourceDir, "a.mp3")
	if _, err := runUploadCLI(t, "-c", env.configPath, "--no-progress"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(bodies) != 1 || !strings.Contains(bodies[0], "1 uploaded, 0 skipped") {
		t.Fatalf("unexpected notifications %q", bodies)
	}

	// Nothing transferred on the second run, so nothing is sent.
	if _, err := runUploadCLI(t, "-c", env.configPath, "--no-progress"); err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if len(bodies) != 1 {
		t.Fatalf("expected no notification for an idle run, got %q", bodies)
	}
}

func TestUploadReportCoversSkippedOnlyRuns(t *testing.T) {
	if _, ok := uploadReport(stagesync.Summary{Stage: "S"}, time.Second); ok {
		t.Fatal("idle run should not produce a report")
	}
	report, ok := uploadReport(stagesync.Summary{Stage: "S", Skipped: 2}, 3*time.Second)
	if !ok {
		t.Fatal("run whose transfers were all skipped should still report")
	}
	if report.Stage != "S" || report.Skipped != 2 || report.Uploaded != 0 || report.Duration != 3*time.Second {
		t.Fatalf("report = %+v", report)
	}
}
