package xlstamp

import (
	"strings"

	"github.com/google/uuid"
)

// NewIdentifier returns a new random identifier: a lowercase hyphenated UUID
// without enclosing braces.
func NewIdentifier() string {
	return uuid.NewString()
}

// normalizeIdentifier strips enclosing braces from a generated identifier.
// Registry-format GUIDs come wrapped in "{...}"; the exported filename and the
// annotation cells always carry the bare value.
func normalizeIdentifier(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "{")
	id = strings.TrimSuffix(id, "}")
	return id
}
