package db

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/ad/go-telegram-progress-stats/internal/models"
	_ "modernc.org/sqlite"
	"pgregory.net/rapid"
)

func setupTestDB(t *testing.T) (*sql.DB, *DBQueue) {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := InitSchema(sqlDB); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	queue := NewDBQueueForTest(sqlDB)
	t.Cleanup(func() {
		queue.Close()
		sqlDB.Close()
	})
	return sqlDB, queue
}

func insertProgress(t *testing.T, sqlDB *sql.DB, botName string, username, lastStep interface{}) {
	t.Helper()
	_, err := sqlDB.Exec(`INSERT INTO user_progress (bot_name, username, last_step) VALUES (?, ?, ?)`,
		botName, username, lastStep)
	if err != nil {
		t.Fatalf("Failed to insert progress: %v", err)
	}
}

func TestProgressRepositoryList(t *testing.T) {
	sqlDB, queue := setupTestDB(t)
	repo := NewProgressRepository(queue, DialectSQLite)

	insertProgress(t, sqlDB, "A", "u1", "s1")
	insertProgress(t, sqlDB, "A", "u2", "s2")
	insertProgress(t, sqlDB, "B", "u3", 7)
	insertProgress(t, sqlDB, "hackbotukr", "u4", "s1")
	insertProgress(t, sqlDB, "B", nil, nil)

	records, err := repo.List(context.Background(), ProgressFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("Expected 5 records, got %d", len(records))
	}
	if records[2].LastStep != "7" {
		t.Errorf("Expected numeric step to scan as \"7\", got %q", records[2].LastStep)
	}
	if records[4].Username != "" || records[4].LastStep != "" {
		t.Errorf("Expected NULL columns to scan as empty strings, got %+v", records[4])
	}

	records, err = repo.List(context.Background(), ProgressFilter{
		ExcludeBots:  []string{"hackbotukr", "hackbotpolish"},
		ExcludeUsers: []string{"u2"},
	})
	if err != nil {
		t.Fatalf("List with filter failed: %v", err)
	}
	for _, rec := range records {
		if rec.BotName == "hackbotukr" {
			t.Error("Excluded bot returned")
		}
		if rec.Username == "u2" {
			t.Error("Excluded user returned")
		}
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 records, got %d: %+v", len(records), records)
	}
}

func TestProgressRepositoryListSingleBotOrdered(t *testing.T) {
	sqlDB, queue := setupTestDB(t)
	repo := NewProgressRepository(queue, DialectSQLite)

	insertProgress(t, sqlDB, "A", "u1", "step_1")
	insertProgress(t, sqlDB, "A", "u2", "step_3")
	insertProgress(t, sqlDB, "A", "u3", "step_2")
	insertProgress(t, sqlDB, "B", "u4", "step_9")

	records, err := repo.List(context.Background(), ProgressFilter{BotName: "A", OrderByStep: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []models.ProgressRecord{
		{BotName: "A", Username: "u2", LastStep: "step_3"},
		{BotName: "A", Username: "u3", LastStep: "step_2"},
		{BotName: "A", Username: "u1", LastStep: "step_1"},
	}
	if len(records) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(records))
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("Record %d: expected %+v, got %+v", i, want[i], records[i])
		}
	}
}

func TestProgressRepositoryListEmpty(t *testing.T) {
	_, queue := setupTestDB(t)
	repo := NewProgressRepository(queue, DialectSQLite)

	records, err := repo.List(context.Background(), ProgressFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestBuildProgressQuery_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dialect := rapid.SampledFrom([]Dialect{DialectSQLite, DialectPostgres, DialectMySQL}).Draw(rt, "dialect")
		f := ProgressFilter{
			ExcludeBots:  rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 0, 4).Draw(rt, "bots"),
			ExcludeUsers: rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 0, 4).Draw(rt, "users"),
			OrderByStep:  rapid.Bool().Draw(rt, "order"),
		}
		if rapid.Bool().Draw(rt, "single") {
			f.BotName = rapid.StringMatching(`[a-z]{1,8}`).Draw(rt, "botName")
		}

		query, args := BuildProgressQuery(dialect, f)

		expectedArgs := len(f.ExcludeBots) + len(f.ExcludeUsers)
		if f.BotName != "" {
			expectedArgs++
		}
		if len(args) != expectedArgs {
			rt.Fatalf("Expected %d args, got %d", expectedArgs, len(args))
		}

		var placeholders int
		if dialect == DialectPostgres {
			placeholders = strings.Count(query, "$")
		} else {
			placeholders = strings.Count(query, "?")
		}
		if placeholders != expectedArgs {
			rt.Fatalf("Expected %d placeholders in %q, got %d", expectedArgs, query, placeholders)
		}

		if (expectedArgs > 0) != strings.Contains(query, " WHERE ") {
			rt.Fatalf("WHERE clause mismatch in %q", query)
		}
		if f.OrderByStep != strings.HasSuffix(query, "ORDER BY last_step DESC") {
			rt.Fatalf("ORDER BY mismatch in %q", query)
		}
	})
}
