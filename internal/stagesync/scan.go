package stagesync

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"avtranscribe/internal/services"
)

// MediaExtensions is the allow-list of audio and video file extensions.
var MediaExtensions = map[string]struct{}{
	".mp3": {}, ".wav": {}, ".m4a": {}, ".flac": {}, ".aac": {}, ".ogg": {}, ".wma": {},
	".mp4": {}, ".avi": {}, ".mov": {}, ".mkv": {}, ".webm": {}, ".flv": {}, ".wmv": {}, ".m4v": {},
}

// IsMedia reports whether name has an allow-listed extension, ignoring case.
func IsMedia(name string) bool {
	_, ok := MediaExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// LocalFile is a media file found in the source directory.
type LocalFile struct {
	Name string
	Path string
	Size int64
}

// Ext returns the lower-cased extension.
func (f LocalFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// ScanLocal lists the media files directly inside dir, sorted by name.
// A missing directory returns an error matching services.ErrNotFound.
func ScanLocal(dir string) ([]LocalFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "stagesync", "scan", "directory not found: "+dir, err)
		}
		return nil, services.Wrap(services.ErrValidation, "stagesync", "scan", dir, err)
	}
	files := make([]LocalFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsMedia(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, LocalFile{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ExtensionCount is the number of local files sharing an extension.
type ExtensionCount struct {
	Ext   string
	Count int
}

// ExtensionCounts tallies files per lower-cased extension, sorted by extension.
func ExtensionCounts(files []LocalFile) []ExtensionCount {
	counts := map[string]int{}
	for _, f := range files {
		counts[f.Ext()]++
	}
	out := make([]ExtensionCount, 0, len(counts))
	for ext, n := range counts {
		out = append(out, ExtensionCount{Ext: ext, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ext < out[j].Ext })
	return out
}
