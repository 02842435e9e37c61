package progression

import "github.com/ascendrpg/ascend/internal/domain"

// titleTable maps level gates to honorifics, lowest first.
var titleTable = []domain.Title{
	{Level: 1, Name: "Novice"},
	{Level: 5, Name: "Apprentice"},
	{Level: 10, Name: "Fighter"},
	{Level: 20, Name: "Warrior"},
	{Level: 35, Name: "Elite"},
	{Level: 50, Name: "Champion"},
	{Level: 70, Name: "Shadow"},
	{Level: 100, Name: "Monarch"},
}

// TitleForLevel returns the highest title earned at the given level.
func TitleForLevel(level int) string {
	name := titleTable[0].Name
	for _, t := range titleTable {
		if level >= t.Level {
			name = t.Name
		}
	}
	return name
}

// TitlesEarned returns every title unlocked at or below the given level.
func TitlesEarned(level int) []domain.Title {
	var earned []domain.Title
	for _, t := range titleTable {
		if level >= t.Level {
			earned = append(earned, t)
		}
	}
	return earned
}
