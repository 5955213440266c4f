package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kiprotich-dev/bahatibot/internal/ledger"
)

func TestFileStoreLoadEmptyDir(t *testing.T) {
	s := NewFileStore(t.TempDir())

	paid, ls, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(paid) != 0 {
		t.Errorf("paid = %v, want empty", paid)
	}
	if ls.TotalRevenue != 0 || ls.RewardPool != 0 || len(ls.Players) != 0 {
		t.Errorf("ledger state = %+v, want zero values", ls)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	wantPaid := map[string]bool{"100": true, "200": false}
	wantState := ledger.State{
		TotalRevenue: 150,
		RewardPool:   100,
		Players:      []string{"100", "100", "300"},
	}

	if err := s.Save(ctx, wantPaid, wantState); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	paid, ls, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(paid, wantPaid) {
		t.Errorf("paid = %v, want %v", paid, wantPaid)
	}
	if !reflect.DeepEqual(ls, wantState) {
		t.Errorf("ledger state = %+v, want %+v", ls, wantState)
	}
}

func TestFileStoreOverwrites(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	first := ledger.State{TotalRevenue: 50, RewardPool: 50, Players: []string{"1"}}
	if err := s.Save(ctx, map[string]bool{"1": true}, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	second := ledger.State{TotalRevenue: 5100, RewardPool: 3100, Players: []string{}}
	if err := s.Save(ctx, map[string]bool{"1": true, "2": true}, second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	paid, ls, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(paid) != 2 {
		t.Errorf("len(paid) = %d, want 2", len(paid))
	}
	if !reflect.DeepEqual(ls, second) {
		t.Errorf("ledger state = %+v, want %+v", ls, second)
	}
}

func TestFileStoreFileShapes(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	ctx := context.Background()

	state := ledger.State{TotalRevenue: 50, RewardPool: 50, Players: []string{"42"}}
	if err := s.Save(ctx, map[string]bool{"42": true}, state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	users, err := os.ReadFile(filepath.Join(dir, "user_data.json"))
	if err != nil {
		t.Fatalf("ReadFile(user_data.json) error = %v", err)
	}
	if !strings.Contains(string(users), `"paid":true`) {
		t.Errorf("user_data.json = %s, want a paid flag", users)
	}

	revenue, err := os.ReadFile(filepath.Join(dir, "revenue_data.json"))
	if err != nil {
		t.Fatalf("ReadFile(revenue_data.json) error = %v", err)
	}
	for _, key := range []string{`"total_revenue":50`, `"reward_pool":50`, `"players":["42"]`} {
		if !strings.Contains(string(revenue), key) {
			t.Errorf("revenue_data.json = %s, want %s", revenue, key)
		}
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}
