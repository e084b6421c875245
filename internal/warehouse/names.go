package warehouse

import (
	"fmt"
	"strings"

	"avtranscribe/internal/config"
	"avtranscribe/internal/services"
)

// QualifiedName joins non-empty identifier parts with dots after validating
// each one. Identifiers cannot be bound as parameters, so anything other than
// a plain identifier is rejected.
func QualifiedName(parts ...string) (string, error) {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !config.IsIdentifier(part) || strings.Contains(part, ".") {
			return "", services.Wrap(services.ErrValidation, "warehouse", "qualify name", fmt.Sprintf("invalid identifier %q", part), nil)
		}
		kept = append(kept, part)
	}
	if len(kept) == 0 {
		return "", services.Wrap(services.ErrValidation, "warehouse", "qualify name", "empty identifier", nil)
	}
	return strings.Join(kept, "."), nil
}
