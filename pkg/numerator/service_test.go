package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the UPSERT counter: one value per key.
type mockQuerier struct {
	mu     sync.Mutex
	values map[string]int64
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values == nil {
		m.values = make(map[string]int64)
	}
	key := args[0].(string)

	if len(args) == 2 {
		// SetNextNumber passes an explicit value.
		m.values[key] = args[1].(int64)
	} else {
		m.values[key]++
	}
	return &mockRow{val: m.values[key]}
}

func TestGetNextNumber_Sequential(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("FT")
	period := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "FT-2025-00001" {
		t.Errorf("expected FT-2025-00001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "FT-2025-00002" {
		t.Errorf("expected FT-2025-00002, got %s", num)
	}
}

func TestGetNextNumber_YearlyReset(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("FT")

	_, _ = svc.GetNextNumber(ctx, cfg, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))

	// A new year opens a fresh counter.
	num, err := svc.GetNextNumber(ctx, cfg, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "FT-2025-00001" {
		t.Errorf("expected FT-2025-00001, got %s", num)
	}
}

func TestSetNextNumber_MovesCounter(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("FT")
	period := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	if err := svc.SetNextNumber(ctx, cfg, period, 41); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	num, err := svc.GetNextNumber(ctx, cfg, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "FT-2025-00042" {
		t.Errorf("expected FT-2025-00042, got %s", num)
	}
}

func TestParseNumber(t *testing.T) {
	if got := ParseNumber("FT-2025-00042"); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := ParseNumber("FT-00007"); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
	if got := ParseNumber("garbage"); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
	if got := ParseNumber("FT-2025-"); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}
