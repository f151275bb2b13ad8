package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/vinyl/internal/models"
	"github.com/desertthunder/vinyl/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with the schema ensured
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.NewSchemaManager(db, nil).EnsureSchema(context.Background()); err != nil {
		db.Close()
		t.Fatalf("failed to ensure schema: %v", err)
	}

	return db
}

func intPtr(i int) *int { return &i }

func newAlbum(artist, title string, year *int, url string) *models.Album {
	return &models.Album{Artist: artist, Title: title, Year: year, SourceURL: url}
}

func titles(albums []models.Album) []string {
	out := make([]string, len(albums))
	for i, a := range albums {
		out[i] = a.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
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

func TestAlbumRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateIfAbsent", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAlbumRepository(db)
		album := newAlbum("Miles Davis", "Kind of Blue", intPtr(1959), "https://www.discogs.com/release/1-Kind-of-Blue")

		created, err := repo.CreateIfAbsent(ctx, album)
		if err != nil {
			t.Fatalf("failed to create album: %v", err)
		}
		if !created {
			t.Fatal("expected first insert to create a row")
		}
		if album.ID == 0 {
			t.Error("album ID should be set after creation")
		}

		dup := newAlbum("Someone Else", "Changed", nil, album.SourceURL)
		created, err = repo.CreateIfAbsent(ctx, dup)
		if err != nil {
			t.Fatalf("failed on duplicate insert: %v", err)
		}
		if created {
			t.Error("expected duplicate source URL to be skipped")
		}

		got, err := repo.Get(ctx, album.ID)
		if err != nil {
			t.Fatalf("failed to get album: %v", err)
		}
		if got.Artist != "Miles Davis" || got.Title != "Kind of Blue" {
			t.Errorf("existing row was modified: %+v", got)
		}

		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 album, got %d", count)
		}
	})

	t.Run("Exists", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAlbumRepository(db)
		if ok, err := repo.Exists(ctx, "https://example.com/a"); err != nil || ok {
			t.Fatalf("expected absent album, got %v, %v", ok, err)
		}

		if err := repo.Create(ctx, newAlbum("A", "A", nil, "https://example.com/a")); err != nil {
			t.Fatalf("failed to create album: %v", err)
		}

		if ok, err := repo.Exists(ctx, "https://example.com/a"); err != nil || !ok {
			t.Fatalf("expected present album, got %v, %v", ok, err)
		}
	})

	t.Run("ReplaceAll", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAlbumRepository(db)
		for _, a := range []*models.Album{
			newAlbum("A", "Old A", nil, "url-a"),
			newAlbum("B", "Old B", nil, "url-b"),
		} {
			if err := repo.Create(ctx, a); err != nil {
				t.Fatalf("failed to create album: %v", err)
			}
		}

		count, err := repo.ReplaceAll(ctx, []models.Album{
			*newAlbum("B", "First B", nil, "url-b"),
			*newAlbum("C", "C", nil, "url-c"),
			*newAlbum("B", "Last B", nil, "url-b"),
		})
		if err != nil {
			t.Fatalf("failed to replace: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 albums after replace, got %d", count)
		}

		albums, err := repo.ListSorted(ctx, models.SortByArtist, models.Ascending)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if want := []string{"Last B", "C"}; !equalStrings(titles(albums), want) {
			t.Errorf("expected %v, got %v", want, titles(albums))
		}
	})

	t.Run("Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAlbumRepository(db)
		if err := repo.Create(ctx, newAlbum("A", "A", nil, "url-a")); err != nil {
			t.Fatalf("failed to create album: %v", err)
		}

		removed, err := repo.Clear(ctx)
		if err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if removed != 1 {
			t.Errorf("expected 1 removed, got %d", removed)
		}

		if count, _ := repo.Count(ctx); count != 0 {
			t.Errorf("expected empty catalog, got %d", count)
		}
	})

	t.Run("ListSorted", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAlbumRepository(db)
		for _, a := range []*models.Album{
			newAlbum("Coltrane", "Blue Train", intPtr(1957), "u1"),
			newAlbum("ambient artist", "Zed", nil, "u2"),
			newAlbum("Bjork", "Post", intPtr(1995), "u3"),
		} {
			if err := repo.Create(ctx, a); err != nil {
				t.Fatalf("failed to create album: %v", err)
			}
		}

		tests := []struct {
			name  string
			field models.SortField
			dir   models.SortDirection
			want  []string
		}{
			{"artist asc", models.SortByArtist, models.Ascending, []string{"Zed", "Post", "Blue Train"}},
			{"artist desc", models.SortByArtist, models.Descending, []string{"Blue Train", "Post", "Zed"}},
			{"title asc", models.SortByTitle, models.Ascending, []string{"Blue Train", "Post", "Zed"}},
			{"year asc", models.SortByYear, models.Ascending, []string{"Zed", "Blue Train", "Post"}},
			{"year desc", models.SortByYear, models.Descending, []string{"Post", "Blue Train", "Zed"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				albums, err := repo.ListSorted(ctx, tt.field, tt.dir)
				if err != nil {
					t.Fatalf("failed to list: %v", err)
				}
				if got := titles(albums); !equalStrings(got, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			})
		}

		t.Run("InvalidField", func(t *testing.T) {
			_, err := repo.ListSorted(ctx, models.SortField("id; DROP TABLE albums"), models.Ascending)
			if !errors.Is(err, shared.ErrInvalidSort) {
				t.Errorf("expected ErrInvalidSort, got %v", err)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAlbumRepository(db)
		for _, a := range []*models.Album{
			newAlbum("Radiohead", "OK Computer", nil, "u1"),
			newAlbum("Portishead", "Dummy", nil, "u2"),
			newAlbum("Miles Davis", "Kind of Blue", nil, "u3"),
		} {
			if err := repo.Create(ctx, a); err != nil {
				t.Fatalf("failed to create album: %v", err)
			}
		}

		albums, err := repo.Search(ctx, "HEAD", models.SortByTitle, models.Ascending)
		if err != nil {
			t.Fatalf("failed to search: %v", err)
		}
		if want := []string{"Dummy", "OK Computer"}; !equalStrings(titles(albums), want) {
			t.Errorf("expected %v, got %v", want, titles(albums))
		}
	})

	t.Run("Random", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAlbumRepository(db)
		if _, err := repo.Random(ctx); !errors.Is(err, shared.ErrAlbumNotFound) {
			t.Fatalf("expected ErrAlbumNotFound on empty catalog, got %v", err)
		}

		album := newAlbum("A", "Only", nil, "u1")
		if err := repo.Create(ctx, album); err != nil {
			t.Fatalf("failed to create album: %v", err)
		}

		got, err := repo.Random(ctx)
		if err != nil {
			t.Fatalf("failed to pick random album: %v", err)
		}
		if got.ID != album.ID {
			t.Errorf("expected album %d, got %d", album.ID, got.ID)
		}
	})

	t.Run("NullableColumns", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAlbumRepository(db)
		cover := "https://img/cover.jpg"
		album := &models.Album{Artist: "A", Title: "T", CoverImage: &cover, SourceURL: "u1"}
		if err := repo.Create(ctx, album); err != nil {
			t.Fatalf("failed to create album: %v", err)
		}

		got, err := repo.Get(ctx, album.ID)
		if err != nil {
			t.Fatalf("failed to get album: %v", err)
		}
		if got.Year != nil {
			t.Errorf("expected nil year, got %v", *got.Year)
		}
		if got.CoverImage == nil || *got.CoverImage != cover {
			t.Errorf("expected cover %q, got %v", cover, got.CoverImage)
		}
	})
}

func TestAlbumRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			_, err := NewAlbumRepository(db).Get(ctx, 42)
			if !errors.Is(err, shared.ErrAlbumNotFound) {
				t.Fatalf("expected ErrAlbumNotFound, got %v", err)
			}
		})
	})

	t.Run("Create", func(t *testing.T) {
		t.Run("DuplicateSourceURL", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewAlbumRepository(db)
			if err := repo.Create(ctx, newAlbum("A", "A", nil, "dup")); err != nil {
				t.Fatalf("failed to create first album: %v", err)
			}

			err := repo.Create(ctx, newAlbum("B", "B", nil, "dup"))
			if err == nil {
				t.Fatal("expected error when creating album with duplicate source URL")
			}
			if !isUniqueViolation(err) {
				t.Errorf("expected unique violation, got %v", err)
			}
		})
	})
}

func TestHistoryRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (*sql.DB, *AlbumRepository, *HistoryRepository, *models.Album) {
		t.Helper()
		db := setupTestDB(t)
		albums := NewAlbumRepository(db)
		album := newAlbum("A", "A", nil, "u1")
		if err := albums.Create(ctx, album); err != nil {
			t.Fatalf("failed to create album: %v", err)
		}
		return db, albums, NewHistoryRepository(db), album
	}

	t.Run("AppendListening", func(t *testing.T) {
		db, _, repo, album := setup(t)
		defer db.Close()

		l, err := repo.AppendListening(ctx, album.ID, base, "")
		if err != nil {
			t.Fatalf("failed to append listening: %v", err)
		}
		if l.ID == 0 {
			t.Error("listening ID should be set")
		}
		if l.Comment != models.DefaultComment {
			t.Errorf("expected default comment, got %q", l.Comment)
		}
	})

	t.Run("ListListeningsNewestFirst", func(t *testing.T) {
		db, _, repo, album := setup(t)
		defer db.Close()

		events := []struct {
			comment string
			offset  time.Duration
		}{
			{"t1", 0},
			{"t3", 2 * time.Hour},
			{"t2", time.Hour},
		}
		for _, e := range events {
			if _, err := repo.AppendListening(ctx, album.ID, base.Add(e.offset), e.comment); err != nil {
				t.Fatalf("failed to append listening %s: %v", e.comment, err)
			}
		}

		listenings, err := repo.ListListenings(ctx, album.ID)
		if err != nil {
			t.Fatalf("failed to list listenings: %v", err)
		}

		var got []string
		for _, l := range listenings {
			got = append(got, l.Comment)
		}
		if want := []string{"t3", "t2", "t1"}; !equalStrings(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
		if !listenings[0].ListenedAt.Equal(base.Add(2 * time.Hour)) {
			t.Errorf("expected round-tripped timestamp, got %v", listenings[0].ListenedAt)
		}
	})

	t.Run("ListNotesInsertionOrder", func(t *testing.T) {
		db, _, repo, album := setup(t)
		defer db.Close()

		for _, text := range []string{"first", "second", "third"} {
			if _, err := repo.AppendNote(ctx, album.ID, text, "2024-03-01"); err != nil {
				t.Fatalf("failed to append note: %v", err)
			}
		}

		notes, err := repo.ListNotes(ctx, album.ID)
		if err != nil {
			t.Fatalf("failed to list notes: %v", err)
		}

		var got []string
		for _, n := range notes {
			got = append(got, n.Text)
		}
		if want := []string{"first", "second", "third"}; !equalStrings(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("UnknownAlbum", func(t *testing.T) {
		db, _, repo, _ := setup(t)
		defer db.Close()

		if _, err := repo.AppendListening(ctx, 999, base, "x"); !errors.Is(err, shared.ErrAlbumNotFound) {
			t.Errorf("expected ErrAlbumNotFound for listening, got %v", err)
		}
		if _, err := repo.AppendNote(ctx, 999, "x", "now"); !errors.Is(err, shared.ErrAlbumNotFound) {
			t.Errorf("expected ErrAlbumNotFound for note, got %v", err)
		}
	})

	t.Run("SurvivesCatalogClear", func(t *testing.T) {
		db, albums, repo, album := setup(t)
		defer db.Close()

		if _, err := repo.AppendListening(ctx, album.ID, base, "kept"); err != nil {
			t.Fatalf("failed to append listening: %v", err)
		}
		if _, err := albums.Clear(ctx); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}

		listenings, err := repo.ListListenings(ctx, album.ID)
		if err != nil {
			t.Fatalf("failed to list listenings: %v", err)
		}
		if len(listenings) != 1 {
			t.Errorf("expected orphaned listening to remain, got %d", len(listenings))
		}
	})

	t.Run("PagedInBatchesOfFive", func(t *testing.T) {
		db, _, repo, album := setup(t)
		defer db.Close()

		for i := range 12 {
			if _, err := repo.AppendListening(ctx, album.ID, base.Add(time.Duration(i)*time.Minute), ""); err != nil {
				t.Fatalf("failed to append listening: %v", err)
			}
		}

		listenings, err := repo.ListListenings(ctx, album.ID)
		if err != nil {
			t.Fatalf("failed to list listenings: %v", err)
		}

		pager := shared.NewPager(listenings, shared.HistoryBatchSize)
		for _, want := range []int{5, 10, 12} {
			if got := len(pager.Visible()); got != want {
				t.Errorf("expected %d visible, got %d", want, got)
			}
			pager.More()
		}
		if pager.HasMore() {
			t.Error("expected pager to be exhausted")
		}
	})
}
