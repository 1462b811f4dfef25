package locations

import (
	"path/filepath"
	"testing"

	"github.com/mwhitfield/stormview/internal/models"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepositoryAt(filepath.Join(t.TempDir(), "stormview.db"))
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo := testRepo(t)

	loc := &Location{
		Name:     "home",
		Viewport: models.Viewport{Lat: 37.69, Lon: -97.34, Zoom: 8},
	}
	if err := repo.Save(loc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if loc.ID == 0 {
		t.Error("Save() should populate the id")
	}

	got, err := repo.Get("home")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Viewport.Lat != 37.69 || got.Viewport.Lon != -97.34 || got.Viewport.Zoom != 8 {
		t.Errorf("Get() viewport = %+v, want saved values", got.Viewport)
	}
}

func TestRepository_SaveReplacesByName(t *testing.T) {
	repo := testRepo(t)

	repo.Save(&Location{Name: "home", Viewport: models.Viewport{Lat: 1, Lon: 2, Zoom: 5}})
	repo.Save(&Location{Name: "home", Viewport: models.Viewport{Lat: 3, Lon: 4, Zoom: 9}})

	all, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len = %d, want 1 (upsert by name)", len(all))
	}
	if all[0].Viewport.Zoom != 9 {
		t.Errorf("zoom = %d, want the replacement's 9", all[0].Viewport.Zoom)
	}
}

func TestRepository_GetMissing(t *testing.T) {
	repo := testRepo(t)

	if _, err := repo.Get("nowhere"); err == nil {
		t.Error("Get() of a missing name should fail")
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := testRepo(t)

	repo.Save(&Location{Name: "work", Viewport: models.Viewport{Zoom: 7}})
	if err := repo.Delete("work"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	all, _ := repo.List()
	if len(all) != 0 {
		t.Errorf("len after delete = %d, want 0", len(all))
	}
}
