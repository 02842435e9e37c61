package progression_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/ascendrpg/ascend/internal/app/progression"
	"github.com/ascendrpg/ascend/internal/domain"
	"github.com/ascendrpg/ascend/internal/infra/sqlite"
)

// testDB creates a temporary SQLite database with the default catalog.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := progression.SeedTemplates(db); err != nil {
		t.Fatalf("seed templates: %v", err)
	}
	return db
}

// testPlayer inserts a player created the given number of days ago.
func testPlayer(t *testing.T, db *sqlite.DB, id string, xp int64, createdDaysAgo int) domain.Player {
	t.Helper()
	p := domain.Player{
		ID:        id,
		Name:      "Hunter " + id,
		TotalXP:   big.NewInt(xp),
		Level:     1,
		CreatedAt: time.Now().UTC().AddDate(0, 0, -createdDaysAgo),
	}
	if err := db.InsertPlayer(p); err != nil {
		t.Fatalf("insert player: %v", err)
	}
	return p
}

// testServices wires the full progression stack over one database.
func testServices(t *testing.T) (*sqlite.DB, *progression.Curve, *progression.DebuffPolicy, *progression.Lifecycle) {
	t.Helper()
	db := testDB(t)
	curve := progression.NewCurve(100)
	debuff := progression.NewDebuffPolicy(db)
	lc := progression.NewLifecycle(db, curve, debuff)
	return db, curve, debuff, lc
}

// questByTemplate finds an assigned instance by its template id.
func questByTemplate(t *testing.T, quests []domain.QuestInstance, templateID string) domain.QuestInstance {
	t.Helper()
	for _, q := range quests {
		if q.TemplateID == templateID {
			return q
		}
	}
	t.Fatalf("no instance of template %s among %d quests", templateID, len(quests))
	return domain.QuestInstance{}
}
