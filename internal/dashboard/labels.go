package dashboard

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LanguageLabel renders a detected language code for display, for example
// "fr" becomes "French (fr)". Unparseable codes are returned unchanged.
func LanguageLabel(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "Unknown"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" || strings.EqualFold(name, code) {
		return code
	}
	return name + " (" + code + ")"
}
