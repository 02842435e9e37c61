package progression_test

import (
	"testing"

	"github.com/ascendrpg/ascend/internal/app/progression"
)

func TestTitleForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{0, "Novice"},
		{1, "Novice"},
		{4, "Novice"},
		{5, "Apprentice"},
		{19, "Fighter"},
		{20, "Warrior"},
		{99, "Shadow"},
		{100, "Monarch"},
		{250, "Monarch"},
	}
	for _, tt := range tests {
		if got := progression.TitleForLevel(tt.level); got != tt.want {
			t.Errorf("TitleForLevel(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestTitlesEarned(t *testing.T) {
	earned := progression.TitlesEarned(35)
	if len(earned) != 5 {
		t.Fatalf("level 35 earned %d titles, want 5", len(earned))
	}
	if earned[len(earned)-1].Name != "Elite" {
		t.Errorf("last earned = %q, want Elite", earned[len(earned)-1].Name)
	}
	for i := 1; i < len(earned); i++ {
		if earned[i].Level <= earned[i-1].Level {
			t.Errorf("titles out of order at %d", i)
		}
	}
}
