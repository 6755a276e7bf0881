package store

import (
	"context"
	"errors"
	"testing"

	"github.com/auctiondesk/auction-engine/internal/model"
)

func TestMemoryStore_SettingsDefault(t *testing.T) {
	ms := NewMemoryStore()

	_, err := ms.LoadSettings(context.Background())
	if !errors.Is(err, ErrSettingsNotFound) {
		t.Fatalf("expected ErrSettingsNotFound, got %v", err)
	}

	r, err := LoadRoster(context.Background(), ms)
	if err != nil {
		t.Fatalf("load roster: %v", err)
	}
	if r.Settings != model.DefaultSettings() {
		t.Errorf("expected default settings, got %+v", r.Settings)
	}
	if r.Teams == nil || r.Players == nil {
		t.Error("empty roster should have non-nil slices")
	}
}

func TestMemoryStore_CopiesOnReadAndWrite(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	teams := []model.Team{{ID: "t1", PurseRemaining: 100, PlayersBought: []string{"p1"}}}
	if err := ms.SaveTeams(ctx, teams); err != nil {
		t.Fatal(err)
	}
	teams[0].PlayersBought[0] = "mutated"

	loaded, _ := ms.LoadTeams(ctx)
	if loaded[0].PlayersBought[0] != "p1" {
		t.Errorf("store should not alias caller slices, got %v", loaded[0].PlayersBought)
	}

	loaded[0].PurseRemaining = 0
	again, _ := ms.LoadTeams(ctx)
	if again[0].PurseRemaining != 100 {
		t.Errorf("loaded teams should be copies, got purse %d", again[0].PurseRemaining)
	}
}

func TestMemoryStore_SaveRosterKeepsOrder(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	players := []model.Player{{ID: "p3"}, {ID: "p1"}, {ID: "p2"}}
	teams := []model.Team{{ID: "t1"}}
	if err := ms.SaveRoster(ctx, teams, players); err != nil {
		t.Fatal(err)
	}

	loaded, _ := ms.LoadPlayers(ctx)
	for i, want := range []string{"p3", "p1", "p2"} {
		if loaded[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, loaded[i].ID)
		}
	}
	lt, _ := ms.LoadTeams(ctx)
	if len(lt) != 1 || lt[0].PlayersBought == nil {
		t.Errorf("unexpected teams: %+v", lt)
	}
}

func TestSaveAll(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	demo := model.DemoRoster()

	if err := SaveAll(ctx, ms, demo); err != nil {
		t.Fatal(err)
	}
	r, err := LoadRoster(ctx, ms)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Teams) != 3 || len(r.Players) != 6 {
		t.Errorf("expected 3 teams and 6 players, got %d and %d", len(r.Teams), len(r.Players))
	}
	if r.Settings != demo.Settings {
		t.Errorf("settings mismatch: %+v", r.Settings)
	}
}
