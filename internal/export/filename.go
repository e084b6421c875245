package export

import (
	"regexp"
	"strings"
)

var (
	unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}_\-.]`)
	unsafeTermChars = regexp.MustCompile(`[^\p{L}\p{N}_\-]`)
)

// Kind names an export format and doubles as the file extension.
type Kind string

const (
	KindCSV Kind = "csv"
	KindSRT Kind = "srt"
)

// SanitizeFileName replaces every character outside letters, digits, '_',
// '-' and '.' with an underscore.
func SanitizeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "_")
}

// FileName builds the download name for an export. A non-empty search term
// produces search_<term>_<file>.<ext>; otherwise transcript_<file>.<ext>.
func FileName(kind Kind, fileName, searchTerm string) string {
	clean := SanitizeFileName(fileName)
	if searchTerm != "" {
		term := unsafeTermChars.ReplaceAllString(searchTerm, "_")
		return "search_" + term + "_" + clean + "." + string(kind)
	}
	return "transcript_" + clean + "." + string(kind)
}
