package history

import (
	"path/filepath"
	"testing"

	"github.com/pascal91DA/rezka-grabber/internal/models"
)

func openTestStore(t *testing.T, maxItems int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "history.db"), maxItems)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func item(id string) models.CatalogItem {
	return models.CatalogItem{ID: id, Title: "Title " + id, URL: "https://rezka.ag/films/" + id + ".html"}
}

func ids(items []models.CatalogItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStore_AddOrdersNewestFirst(t *testing.T) {
	s := openTestStore(t, 10)

	for _, id := range []string{"1", "2", "3"} {
		if err := s.Add(item(id)); err != nil {
			t.Fatalf("Add(%s): %v", id, err)
		}
	}
	// Re-adding moves to the head without duplicating.
	if err := s.Add(item("1")); err != nil {
		t.Fatalf("Add(1): %v", err)
	}

	got, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := []string{"1", "3", "2"}; !equalIDs(ids(got), want) {
		t.Errorf("List() = %v, want %v", ids(got), want)
	}
	if got[0].Title != "Title 1" || got[0].URL != "https://rezka.ag/films/1.html" {
		t.Errorf("entry fields lost: %+v", got[0])
	}
}

func TestStore_AddTrimsToMaxItems(t *testing.T) {
	s := openTestStore(t, 3)

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		if err := s.Add(item(id)); err != nil {
			t.Fatalf("Add(%s): %v", id, err)
		}
	}

	got, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := []string{"e", "d", "c"}; !equalIDs(ids(got), want) {
		t.Errorf("List() = %v, want %v", ids(got), want)
	}
}

func TestStore_AddRejectsMissingID(t *testing.T) {
	s := openTestStore(t, 3)
	if err := s.Add(models.CatalogItem{Title: "no id"}); err == nil {
		t.Fatal("expected an error for an item without id")
	}
}

func TestStore_RemoveAndClear(t *testing.T) {
	s := openTestStore(t, 10)
	for _, id := range []string{"1", "2", "3"} {
		if err := s.Add(item(id)); err != nil {
			t.Fatalf("Add(%s): %v", id, err)
		}
	}

	if err := s.Remove("2"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	got, _ := s.List()
	if want := []string{"3", "1"}; !equalIDs(ids(got), want) {
		t.Errorf("after Remove List() = %v, want %v", ids(got), want)
	}

	if err := s.SaveLastWatch(LastWatch{MediaID: "3"}); err != nil {
		t.Fatalf("SaveLastWatch: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, _ = s.List()
	if len(got) != 0 {
		t.Errorf("after Clear List() = %v", ids(got))
	}
	if lw, _ := s.LastWatch(); lw == nil {
		t.Error("Clear must keep the last watch record")
	}
}

func TestStore_LastWatch(t *testing.T) {
	s := openTestStore(t, 10)

	lw, err := s.LastWatch()
	if err != nil || lw != nil {
		t.Fatalf("LastWatch() on empty store = %+v, %v", lw, err)
	}

	first := LastWatch{MediaID: "646", MediaTitle: "Series", TranslationID: "56", SeasonID: "1", EpisodeID: "2", Quality: "1080p"}
	if err := s.SaveLastWatch(first); err != nil {
		t.Fatalf("SaveLastWatch: %v", err)
	}
	second := first
	second.EpisodeID = "3"
	if err := s.SaveLastWatch(second); err != nil {
		t.Fatalf("SaveLastWatch: %v", err)
	}

	lw, err = s.LastWatch()
	if err != nil || lw == nil {
		t.Fatalf("LastWatch() = %+v, %v", lw, err)
	}
	if lw.EpisodeID != "3" || lw.TranslationID != "56" || lw.WatchedAt.IsZero() {
		t.Errorf("LastWatch() = %+v", lw)
	}

	if err := s.ClearLastWatch(); err != nil {
		t.Fatalf("ClearLastWatch: %v", err)
	}
	if lw, _ := s.LastWatch(); lw != nil {
		t.Errorf("LastWatch() after clear = %+v", lw)
	}
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path, 10)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Add(item("42")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	_ = s.Close()

	reopened, err := Open(path, 10)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, _ := reopened.List()
	if !equalIDs(ids(got), []string{"42"}) {
		t.Errorf("List() after reopen = %v", ids(got))
	}
}
