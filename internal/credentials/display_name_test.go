package credentials

import (
	"strings"
	"testing"
)

func TestGenerateDisplayName(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		name, err := GenerateDisplayName()
		if err != nil {
			t.Fatalf("GenerateDisplayName() error = %v", err)
		}

		parts := strings.Split(name, " ")
		if len(parts) != 2 {
			t.Fatalf("GenerateDisplayName() = %q, want two words", name)
		}
		for _, part := range parts {
			if part == "" || part[0] < 'A' || part[0] > 'Z' {
				t.Errorf("word %q should be title-cased", part)
			}
		}
		seen[name] = true
	}

	// with 32x24 combinations, 20 draws should not all collide
	if len(seen) < 2 {
		t.Error("GenerateDisplayName() returned the same name every time")
	}
}

func TestPickAvatarColor(t *testing.T) {
	color, err := PickAvatarColor()
	if err != nil {
		t.Fatalf("PickAvatarColor() error = %v", err)
	}
	if !strings.HasPrefix(color, "#") || len(color) != 7 {
		t.Errorf("PickAvatarColor() = %q, want #RRGGBB", color)
	}
}
