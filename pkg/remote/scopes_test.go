package remote

import (
	"errors"
	"testing"
)

func TestScopeSetKey_Deterministic(t *testing.T) {
	a, err := scopeSetKey([]string{"scope.read", "scope.write"})
	if err != nil {
		t.Fatalf("scopeSetKey failed: %v", err)
	}
	b, err := scopeSetKey([]string{"scope.read", "scope.write"})
	if err != nil {
		t.Fatalf("scopeSetKey failed: %v", err)
	}
	if a != b {
		t.Errorf("Expected identical keys, got %q and %q", a, b)
	}
}

func TestScopeSetKey_OrderSignificant(t *testing.T) {
	a, _ := scopeSetKey([]string{"scope.read", "scope.write"})
	b, _ := scopeSetKey([]string{"scope.write", "scope.read"})
	if a == b {
		t.Error("Expected different keys for different scope orders")
	}
}

func TestScopeSetKey_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		scopes []string
	}{
		{"nil sequence", nil},
		{"empty sequence", []string{}},
		{"blank element", []string{"scope.read", ""}},
		{"whitespace element", []string{"\t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := scopeSetKey(tt.scopes); !errors.Is(err, ErrInvalidScopes) {
				t.Errorf("Expected ErrInvalidScopes, got %v", err)
			}
		})
	}
}
