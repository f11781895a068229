package repository

import (
	"context"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	libdb "water360/backend/libs/db"
	"water360/backend/services/telemetry-service/internal/models"
)

func TestBuildSelectUsesBindParameters(t *testing.T) {
	from := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC)

	query, args, err := buildSelect(models.ReadingFilter{
		Location: "UK'; DROP TABLE sensor_data; --",
		DateFrom: &from,
		DateTo:   &to,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if strings.Contains(query, "DROP TABLE") {
		t.Fatalf("caller input leaked into query text: %s", query)
	}
	if !strings.HasSuffix(query, "ORDER BY id") {
		t.Fatalf("expected id ordering, got %s", query)
	}
	if !strings.Contains(query, "LOWER(location) = LOWER(?::text)") {
		t.Fatalf("expected location folded in SQL, got %s", query)
	}
	want := []interface{}{"UK'; DROP TABLE sensor_data; --", "2024-11-01", "2024-11-03"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args %#v", args)
	}
}

func TestBuildSelectExpandsLocations(t *testing.T) {
	after := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := buildSelect(models.ReadingFilter{
		Locations:    []string{"ÜBERLINGEN", " us "},
		CreatedAfter: &after,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(query, "IN (SELECT LOWER(loc) FROM unnest(ARRAY[?, ?]::text[]) AS loc)") {
		t.Fatalf("expected expanded IN clause, got %s", query)
	}
	if len(args) != 3 || args[0] != "ÜBERLINGEN" || args[1] != "us" {
		t.Fatalf("unexpected args %#v", args)
	}
}

func TestBuildSelectWithoutFilter(t *testing.T) {
	query, args, err := buildSelect(models.ReadingFilter{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if strings.Contains(query, "WHERE") || len(args) != 0 {
		t.Fatalf("expected unfiltered query, got %s %v", query, args)
	}
}

func TestBuildSet(t *testing.T) {
	ph := 7.4
	loc := "uk"
	sets, args := buildSet(models.ReadingPatch{PHValue: &ph, Location: &loc})
	if !reflect.DeepEqual(sets, []string{setPHValue, setLocation}) {
		t.Fatalf("unexpected sets %v", sets)
	}
	if !reflect.DeepEqual(args, []interface{}{7.4, "uk"}) {
		t.Fatalf("unexpected args %v", args)
	}

	if sets, _ := buildSet(models.ReadingPatch{}); len(sets) != 0 {
		t.Fatalf("expected no sets for empty patch, got %v", sets)
	}
}

// TestReadingRepositoryPostgres runs against a real database when TELEMETRY_TEST_DSN is set.
func TestReadingRepositoryPostgres(t *testing.T) {
	dsn := os.Getenv("TELEMETRY_TEST_DSN")
	if dsn == "" {
		t.Skip("TELEMETRY_TEST_DSN not set")
	}
	db, err := libdb.NewPostgresDB(dsn)
	if err != nil {
		t.Skipf("database unreachable: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := libdb.Migrate(db, Migrations, MigrationsDir, "telemetry_schema_migrations", zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	repo := NewReadingRepository(db)
	reading := &models.Reading{PHValue: 7.0, Temperature: 20.0, Turbidity: 3.0, Location: "repo-test-us", Date: "2024-11-01", Time: "06:00:00"}
	if err := repo.Insert(ctx, reading); err != nil {
		t.Fatalf("insert: %v", err)
	}
	t.Cleanup(func() { _, _ = repo.Delete(context.Background(), reading.ID) })
	if reading.ID == 0 || reading.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at, got %+v", reading)
	}

	got, err := repo.Get(ctx, reading.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Date != "2024-11-01" || got.Time != "06:00:00" || got.Location != "repo-test-us" {
		t.Fatalf("unexpected row %+v", got)
	}

	day := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	rows, err := repo.Query(ctx, models.ReadingFilter{Locations: []string{"REPO-TEST-US"}, DateFrom: &day, DateTo: &day})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != reading.ID {
		t.Fatalf("expected inserted row, got %+v", rows)
	}
	rows, err = repo.Query(ctx, models.ReadingFilter{Location: "Repo-Test-US", DateFrom: &day, DateTo: &day})
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected case-insensitive single location match, got %+v err=%v", rows, err)
	}

	temp := 25.0
	if n, err := repo.Update(ctx, reading.ID, models.ReadingPatch{Temperature: &temp}); err != nil || n != 1 {
		t.Fatalf("update: n=%d err=%v", n, err)
	}

	for want := int64(1); want >= 0; want-- {
		n, err := repo.Delete(ctx, reading.ID)
		if err != nil {
			t.Fatalf("delete: %v", err)
		}
		if n != want {
			t.Fatalf("expected %d affected, got %d", want, n)
		}
	}
	if _, err := repo.Get(ctx, reading.ID); err != ErrReadingNotFound {
		t.Fatalf("expected ErrReadingNotFound, got %v", err)
	}
}
