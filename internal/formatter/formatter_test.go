package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/vinyl/internal/models"
	"github.com/desertthunder/vinyl/internal/shared"
	th "github.com/desertthunder/vinyl/internal/testing"
)

func testAlbums() []models.Album {
	year := 1959
	cover := "https://img.discogs.com/kob.jpg"
	return []models.Album{
		{ID: 1, ExternalID: 42, Artist: "Miles Davis", Title: "Kind Of Blue", Year: &year, CoverImage: &cover, SourceURL: "https://www.discogs.com/release/42-Kind-Of-Blue"},
		{ID: 2, ExternalID: 7, Artist: "A | B", Title: "Split", SourceURL: "https://www.discogs.com/release/7-Split"},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testAlbums())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Artist,Title,Year,Discogs ID,Discogs URL,Cover Image") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,Miles Davis,Kind Of Blue,1959,42,") {
			t.Errorf("CSV missing first album, got: %s", output)
		}
		if !strings.Contains(output, "2,A | B,Split,,7,") {
			t.Errorf("CSV should leave unknown year empty, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testAlbums(), "")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.HasPrefix(output, "# Record Collection\n") {
			t.Errorf("Markdown missing default title, got: %s", output)
		}
		if !strings.Contains(output, "**Albums**: 2") {
			t.Error("Markdown missing album count")
		}
		if !strings.Contains(output, "![cover](https://img.discogs.com/kob.jpg)") {
			t.Error("Markdown missing cover image")
		}
		if !strings.Contains(output, `A \| B`) {
			t.Error("Markdown should escape pipes in cells")
		}
		if !strings.Contains(output, "| ? |") {
			t.Error("Markdown should render unknown year as ?")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testAlbums())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Albums: 2") {
			t.Error("text missing album count")
		}
		if !strings.Contains(output, "1. Miles Davis - Kind Of Blue (1959)") {
			t.Errorf("text missing first album, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testAlbums())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded[0]["discogs_url"] != "https://www.discogs.com/release/42-Kind-Of-Blue" {
			t.Errorf("unexpected discogs_url %v", decoded[0]["discogs_url"])
		}
		if _, ok := decoded[1]["year"]; ok {
			t.Error("unknown year should be omitted")
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"csv", FormatCSV},
		{"MD", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"text", FormatText},
		{"", FormatText},
		{"json", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("WithCustomPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "albums.csv")

		written, err := WriteExport(testAlbums(), FormatCSV, path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}

		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "Kind Of Blue") {
			t.Errorf("export missing album, got: %s", content)
		}
	})

	t.Run("WithDefaultPath", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		written, err := WriteExport(testAlbums(), FormatMarkdown, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if !strings.HasPrefix(written, "vinyl_export_") || !strings.HasSuffix(written, ".md") {
			t.Errorf("unexpected default filename %s", written)
		}
		th.AssertFileExists(t, filepath.Join(tempDir, written))
	})
}

func TestHistoryFormatting(t *testing.T) {
	at := time.Date(2024, 3, 1, 20, 5, 0, 0, time.UTC)

	t.Run("FormatListening", func(t *testing.T) {
		got := FormatListening(models.Listening{ListenedAt: at, Comment: "spun twice"}, time.UTC)
		if want := "Fri Mar 1 2024 8:05 PM: spun twice"; got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("FormatNote", func(t *testing.T) {
		if got := FormatNote(models.Note{Text: "scratch on B2", Timestamp: "2024-03-01"}); got != "2024-03-01: scratch on B2" {
			t.Errorf("unexpected note %q", got)
		}
		if got := FormatNote(models.Note{Text: "bare"}); got != "bare" {
			t.Errorf("unexpected note %q", got)
		}
	})

	t.Run("ExportHistory", func(t *testing.T) {
		album := testAlbums()[0]

		empty := string(ExportHistory(album, nil, nil, time.UTC))
		if !strings.Contains(empty, "No listening history.") {
			t.Errorf("expected empty marker, got: %s", empty)
		}

		full := string(ExportHistory(album,
			[]models.Listening{{ListenedAt: at, Comment: models.DefaultComment}},
			[]models.Note{{Text: "first pressing", Timestamp: "today"}},
			time.UTC,
		))
		for _, want := range []string{"Miles Davis - Kind Of Blue (1959)", "Listening History (1)", "No Comments.", "Notes (1)", "today: first pressing"} {
			if !strings.Contains(full, want) {
				t.Errorf("history missing %q, got: %s", want, full)
			}
		}
	})
}
