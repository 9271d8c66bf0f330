package store_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"albumdex/internal/fixtures"
	"albumdex/internal/model"
	"albumdex/internal/store"
)

func TestMemoryStore_Albums(t *testing.T) {
	ctx := context.Background()

	t.Run("lists the seed in order", func(t *testing.T) {
		seed := fixtures.MustCatalog()
		s := store.NewMemoryStore(seed)

		got, err := s.ListAlbums(ctx)
		if err != nil {
			t.Fatalf("ListAlbums() error = %v", err)
		}
		if diff := cmp.Diff(seed.Albums, got); diff != "" {
			t.Errorf("ListAlbums() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("insert goes to the front", func(t *testing.T) {
		s := store.NewMemoryStore(fixtures.MustCatalog())
		album := model.Album{ID: "new", Title: "New", Year: 2024, Publisher: "P"}
		if err := s.InsertAlbum(ctx, album); err != nil {
			t.Fatalf("InsertAlbum() error = %v", err)
		}
		got, _ := s.ListAlbums(ctx)
		if len(got) != 7 || got[0].ID != "new" {
			t.Errorf("ListAlbums() = %d albums, first %q; want 7, first new", len(got), got[0].ID)
		}
		if err := s.InsertAlbum(ctx, album); err == nil {
			t.Error("duplicate InsertAlbum() expected error")
		}
	})

	t.Run("find returns nil for unknown id", func(t *testing.T) {
		s := store.NewMemoryStore(model.Catalog{})
		got, err := s.FindAlbum(ctx, "missing")
		if err != nil || got != nil {
			t.Errorf("FindAlbum() = %v, %v; want nil, nil", got, err)
		}
	})

	t.Run("update and delete report presence", func(t *testing.T) {
		s := store.NewMemoryStore(fixtures.MustCatalog())
		a, _ := s.FindAlbum(ctx, "1")
		a.Title = "Changed"
		if ok, _ := s.UpdateAlbum(ctx, *a); !ok {
			t.Error("UpdateAlbum() = false, want true")
		}
		got, _ := s.FindAlbum(ctx, "1")
		if got.Title != "Changed" {
			t.Errorf("Title = %q, want Changed", got.Title)
		}
		if ok, _ := s.UpdateAlbum(ctx, model.Album{ID: "missing"}); ok {
			t.Error("UpdateAlbum(missing) = true")
		}
		if ok, _ := s.DeleteAlbum(ctx, "1"); !ok {
			t.Error("DeleteAlbum() = false")
		}
		if ok, _ := s.DeleteAlbum(ctx, "1"); ok {
			t.Error("second DeleteAlbum() = true")
		}
	})
}

func TestMemoryStore_CopiesRecords(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(fixtures.MustCatalog())

	players, _ := s.ListPlayers(ctx)
	players[0].AlbumIDs[0] = "mutated"
	*players[0].Skills.Pace = 1

	again, _ := s.ListPlayers(ctx)
	if again[0].AlbumIDs[0] == "mutated" {
		t.Error("ListPlayers() shares AlbumIDs with the store")
	}
	if *again[0].Skills.Pace == 1 {
		t.Error("ListPlayers() shares Skills with the store")
	}

	team := model.Team{ID: "tx", Name: "X", Titles: []string{"a"}}
	if err := s.InsertTeam(ctx, team); err != nil {
		t.Fatalf("InsertTeam() error = %v", err)
	}
	team.Titles[0] = "mutated"
	got, _ := s.FindTeam(ctx, "tx")
	if got.Titles[0] != "a" {
		t.Errorf("Titles[0] = %q, want a", got.Titles[0])
	}
}

func TestMemoryStore_PlayersAndTeams(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(model.Catalog{})

	p := model.Player{ID: "p1", Name: "A", Position: model.PositionDefender}
	if err := s.InsertPlayer(ctx, p); err != nil {
		t.Fatalf("InsertPlayer() error = %v", err)
	}
	p.Name = "B"
	if ok, _ := s.UpdatePlayer(ctx, p); !ok {
		t.Error("UpdatePlayer() = false")
	}
	got, _ := s.FindPlayer(ctx, "p1")
	if got.Name != "B" {
		t.Errorf("Name = %q, want B", got.Name)
	}
	if ok, _ := s.DeletePlayer(ctx, "p1"); !ok {
		t.Error("DeletePlayer() = false")
	}

	if err := s.InsertTeam(ctx, model.Team{ID: "t1", Name: "T"}); err != nil {
		t.Fatalf("InsertTeam() error = %v", err)
	}
	if ok, _ := s.UpdateTeam(ctx, model.Team{ID: "t1", Name: "U"}); !ok {
		t.Error("UpdateTeam() = false")
	}
	if ok, _ := s.DeleteTeam(ctx, "t1"); !ok {
		t.Error("DeleteTeam() = false")
	}
	if teams, _ := s.ListTeams(ctx); len(teams) != 0 {
		t.Errorf("ListTeams() = %d, want 0", len(teams))
	}
}

func TestMemoryStore_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(fixtures.MustCatalog())

	next := model.Catalog{Albums: []model.Album{{ID: "only", Title: "Only", Year: 2000, Publisher: "P"}}}
	if err := s.ReplaceAll(ctx, next); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
	albums, _ := s.ListAlbums(ctx)
	if diff := cmp.Diff(next.Albums, albums); diff != "" {
		t.Errorf("ListAlbums() mismatch (-want +got):\n%s", diff)
	}
	if players, _ := s.ListPlayers(ctx); len(players) != 0 {
		t.Errorf("ListPlayers() = %d, want 0", len(players))
	}
}
