package remote

import (
	"fmt"
	"strings"
)

// scopeSeparator joins scopes into a cache key. Scopes are identifiers and
// never contain spaces, so the join is unambiguous.
const scopeSeparator = " "

// scopeSetKey derives the token cache key for an ordered scope sequence.
// Two sequences with identical elements in identical order map to the same
// key; order is significant.
func scopeSetKey(scopes []string) (string, error) {
	if len(scopes) == 0 {
		return "", fmt.Errorf("%w: at least one scope is required", ErrInvalidScopes)
	}
	for i, s := range scopes {
		if strings.TrimSpace(s) == "" {
			return "", fmt.Errorf("%w: scope at index %d is blank", ErrInvalidScopes, i)
		}
	}
	return strings.Join(scopes, scopeSeparator), nil
}
