package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"albumdex/internal/catalog"
	"albumdex/internal/model"
	"albumdex/internal/testutil"
)

func newAlbumForm() catalog.AlbumForm {
	return catalog.AlbumForm{Title: "Mundial España 82", Year: 2024, Publisher: "Panini", Type: model.AlbumTypeNationalTeam}
}

func TestService_CreateAlbum(t *testing.T) {
	ctx := context.Background()

	t.Run("editor creates at the front", func(t *testing.T) {
		f := testutil.NewServiceFixture(t, model.RoleEditor, nil)

		album, err := f.Service.CreateAlbum(ctx, newAlbumForm())
		if err != nil {
			t.Fatalf("CreateAlbum() error = %v", err)
		}
		if album.ID != "id-1" {
			t.Errorf("ID = %q, want id-1", album.ID)
		}
		stored, _ := f.Store.ListAlbums(ctx)
		if len(stored) != 7 || stored[0].ID != "id-1" {
			t.Errorf("store has %d albums, first %q; want 7, first id-1", len(stored), stored[0].ID)
		}
	})

	t.Run("validation errors leave the store untouched", func(t *testing.T) {
		f := testutil.NewServiceFixture(t, model.RoleEditor, nil)
		form := newAlbumForm()
		form.Year = 1850

		_, err := f.Service.CreateAlbum(ctx, form)
		var ve *catalog.ValidationError
		if !errors.As(err, &ve) || ve.Field != "year" {
			t.Fatalf("CreateAlbum() error = %v, want year ValidationError", err)
		}
		stored, _ := f.Store.ListAlbums(ctx)
		if len(stored) != 6 {
			t.Errorf("store has %d albums, want 6", len(stored))
		}
	})
}

func TestService_Permissions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		role    model.Role
		allowed bool
	}{
		{role: model.RoleNone, allowed: false}, // anonymous
		{role: model.RoleUser, allowed: false},
		{role: model.RoleEditor, allowed: true},
		{role: model.RoleAdmin, allowed: true},
		{role: model.RoleSuperAdmin, allowed: true},
	}

	for _, tt := range tests {
		name := string(tt.role)
		if name == "" {
			name = "anonymous"
		}
		t.Run(name, func(t *testing.T) {
			f := testutil.NewServiceFixture(t, tt.role, nil)

			_, createErr := f.Service.CreateAlbum(ctx, newAlbumForm())
			deleteErr := f.Service.DeleteAlbum(ctx, "1")
			for op, err := range map[string]error{"CreateAlbum": createErr, "DeleteAlbum": deleteErr} {
				if tt.allowed && err != nil {
					t.Errorf("%s() error = %v, want nil", op, err)
				}
				if !tt.allowed && !errors.Is(err, catalog.ErrUnauthorized) {
					t.Errorf("%s() error = %v, want ErrUnauthorized", op, err)
				}
			}

			if _, err := f.Service.ListAlbums(ctx, catalog.AlbumQuery{}); err != nil {
				t.Errorf("ListAlbums() error = %v; reads are never gated", err)
			}
		})
	}
}

func TestService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewServiceFixture(t, model.RoleEditor, nil)

	t.Run("update keeps the scan checksum", func(t *testing.T) {
		a, _ := f.Store.FindAlbum(ctx, "1")
		a.ScanChecksum = "deadbeef"
		f.Store.UpdateAlbum(ctx, *a)

		form := catalog.AlbumFormFrom(*a)
		form.Title = "Francia 98"
		got, err := f.Service.UpdateAlbum(ctx, "1", form)
		if err != nil {
			t.Fatalf("UpdateAlbum() error = %v", err)
		}
		if got.Title != "Francia 98" || got.ScanChecksum != "deadbeef" {
			t.Errorf("UpdateAlbum() = %+v", got)
		}
	})

	t.Run("missing ids report ErrNotFound", func(t *testing.T) {
		if _, err := f.Service.UpdateAlbum(ctx, "nope", newAlbumForm()); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("UpdateAlbum() error = %v, want ErrNotFound", err)
		}
		if err := f.Service.DeletePlayer(ctx, "nope"); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("DeletePlayer() error = %v, want ErrNotFound", err)
		}
		if _, err := f.Service.GetTeam(ctx, "nope"); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("GetTeam() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("deleting an album leaves player references", func(t *testing.T) {
		if err := f.Service.DeleteAlbum(ctx, "3"); err != nil {
			t.Fatalf("DeleteAlbum() error = %v", err)
		}
		p, _ := f.Service.GetPlayer(ctx, "1")
		if diff := cmp.Diff([]string{"1", "3"}, p.AlbumIDs); diff != "" {
			t.Errorf("AlbumIDs mismatch (-want +got):\n%s", diff)
		}
		albums, _ := f.Service.PlayerAlbums(ctx, "1")
		if diff := cmp.Diff([]string{"1"}, albumIDs(albums)); diff != "" {
			t.Errorf("PlayerAlbums() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestService_Players(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewServiceFixture(t, model.RoleEditor, nil)

	form := catalog.PlayerForm{
		Name:              "Iker Casillas",
		CurrentTeam:       "Real Madrid",
		Position:          model.PositionGoalkeeper,
		DateOfBirth:       "1981-05-20",
		Nationality:       "Spanish",
		TeamsHistoryInput: "Real Madrid (1999-2015), Porto (2015-2020)",
		AlbumIDsInput:     "2, 4",
		Skills: model.Skills{
			Diving: model.IntPtr(88), Handling: model.IntPtr(85), Kicking: model.IntPtr(70),
			Reflexes: model.IntPtr(92), SpeedGK: model.IntPtr(60), PositioningGK: model.IntPtr(87),
			Pace: model.IntPtr(50),
		},
	}

	p, err := f.Service.CreatePlayer(ctx, form)
	if err != nil {
		t.Fatalf("CreatePlayer() error = %v", err)
	}
	if p.TotalSkills != 482 {
		t.Errorf("TotalSkills = %d, want 482", p.TotalSkills)
	}
	if p.Skills.Pace != nil {
		t.Error("field skills kept on a goalkeeper")
	}
	if len(p.TeamsHistory) != 2 || p.TeamsHistory[1].TeamName != "Porto" {
		t.Errorf("TeamsHistory = %+v", p.TeamsHistory)
	}

	albums, err := f.Service.PlayerAlbums(ctx, p.ID)
	if err != nil {
		t.Fatalf("PlayerAlbums() error = %v", err)
	}
	if diff := cmp.Diff([]string{"4", "2"}, albumIDs(albums)); diff != "" {
		t.Errorf("PlayerAlbums() mismatch (-want +got):\n%s", diff)
	}

	form.AlbumIDsInput = ""
	if _, err := f.Service.UpdatePlayer(ctx, p.ID, form); err != nil {
		t.Fatalf("UpdatePlayer() error = %v", err)
	}
	albums, _ = f.Service.PlayerAlbums(ctx, p.ID)
	if len(albums) != 0 {
		t.Errorf("PlayerAlbums() without albums = %v, want none", albumIDs(albums))
	}

	if age := f.Service.PlayerAge(*p); age != 42 {
		t.Errorf("PlayerAge() = %d, want 42", age)
	}
}

func TestService_Teams(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewServiceFixture(t, model.RoleEditor, nil)

	albums, err := f.Service.TeamAlbums(ctx, "t4")
	if err != nil {
		t.Fatalf("TeamAlbums() error = %v", err)
	}
	if diff := cmp.Diff([]string{"1", "5"}, albumIDs(albums)); diff != "" {
		t.Errorf("TeamAlbums() mismatch (-want +got):\n%s", diff)
	}

	form := catalog.TeamFormFrom(model.Team{Name: "Athletic Club", Country: "Spain", FoundationYear: 1898, StadiumName: "San Mamés"})
	form.FoundationYear = 2030
	if _, err := f.Service.CreateTeam(ctx, form); err == nil {
		t.Error("CreateTeam() with a future foundation year should fail")
	}
	form.FoundationYear = 1898
	team, err := f.Service.CreateTeam(ctx, form)
	if err != nil {
		t.Fatalf("CreateTeam() error = %v", err)
	}

	spain, _ := f.Service.ListTeams(ctx, catalog.TeamQuery{Country: "Spain"})
	if len(spain) != 3 || spain[0].ID != team.ID {
		t.Errorf("ListTeams(Spain) = %d teams, want 3 with the new team first", len(spain))
	}

	if err := f.Service.DeleteTeam(ctx, team.ID); err != nil {
		t.Errorf("DeleteTeam() error = %v", err)
	}
}
