package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ewilliams-labs/stalify/internal/core/ports"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(filepath.Join(t.TempDir(), "stalify.db"))
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAdapter_Consume(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		setup   func(t *testing.T, a *Adapter)
		state   string
		at      time.Time
		wantErr error
	}{
		{
			name:    "unknown state",
			setup:   func(t *testing.T, a *Adapter) {},
			state:   "missing",
			at:      now,
			wantErr: ports.ErrInvalidState,
		},
		{
			name: "valid state",
			setup: func(t *testing.T, a *Adapter) {
				if err := a.Put(context.Background(), "s1", now.Add(10*time.Minute), now); err != nil {
					t.Fatalf("put: %v", err)
				}
			},
			state: "s1",
			at:    now,
		},
		{
			name: "expired state",
			setup: func(t *testing.T, a *Adapter) {
				if err := a.Put(context.Background(), "s1", now.Add(10*time.Minute), now); err != nil {
					t.Fatalf("put: %v", err)
				}
			},
			state:   "s1",
			at:      now.Add(11 * time.Minute),
			wantErr: ports.ErrInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t)
			tt.setup(t, a)

			err := a.Consume(context.Background(), tt.state, tt.at)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAdapter_ConsumeIsSingleUse(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	now := time.Now()

	if err := a.Put(ctx, "s1", now.Add(time.Minute), now); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := a.Consume(ctx, "s1", now); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if err := a.Consume(ctx, "s1", now); !errors.Is(err, ports.ErrInvalidState) {
		t.Fatalf("second consume: expected ErrInvalidState, got %v", err)
	}
}

func TestAdapter_PutPurgesExpired(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	now := time.Now()

	if err := a.Put(ctx, "old", now.Add(-time.Minute), now); err != nil {
		t.Fatalf("put old: %v", err)
	}
	if err := a.Put(ctx, "new", now.Add(time.Minute), now); err != nil {
		t.Fatalf("put new: %v", err)
	}

	var rows int
	if err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM oauth_states").Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected expired state purged, %d rows remain", rows)
	}
	if n, err := a.Pending(ctx, now); err != nil || n != 1 {
		t.Fatalf("pending: got %d, %v", n, err)
	}
}

func TestAdapter_PutPurgesAtGivenTime(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	// Well past the wall clock, so only the injected time can expire a row.
	base := time.Date(2040, time.March, 1, 12, 0, 0, 0, time.UTC)

	if err := a.Put(ctx, "first", base.Add(time.Minute), base); err != nil {
		t.Fatalf("put first: %v", err)
	}
	if err := a.Put(ctx, "second", base.Add(5*time.Minute), base); err != nil {
		t.Fatalf("put second: %v", err)
	}
	if n, err := a.Pending(ctx, base); err != nil || n != 2 {
		t.Fatalf("pending before purge: got %d, %v", n, err)
	}

	later := base.Add(2 * time.Minute)
	if err := a.Put(ctx, "third", later.Add(time.Minute), later); err != nil {
		t.Fatalf("put third: %v", err)
	}

	var rows int
	if err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM oauth_states").Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 2 {
		t.Fatalf("expected only the state expired at %s purged, %d rows remain", later, rows)
	}
	if err := a.Consume(ctx, "first", base); !errors.Is(err, ports.ErrInvalidState) {
		t.Fatalf("purged state: expected ErrInvalidState, got %v", err)
	}
}

func TestAdapter_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stalify.db")
	ctx := context.Background()
	now := time.Now()

	a, err := NewAdapter(path)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	if err := a.Put(ctx, "s1", now.Add(time.Minute), now); err != nil {
		t.Fatalf("put: %v", err)
	}
	_ = a.Close()

	b, err := NewAdapter(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	if err := b.Consume(ctx, "s1", now); err != nil {
		t.Fatalf("consume after reopen: %v", err)
	}
}
