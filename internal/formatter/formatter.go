// package formatter provides functions to export catalog and history data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/vinyl/internal/models"
	"github.com/desertthunder/vinyl/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat maps user input to a [Format]. "md" and "text" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (use csv, markdown, txt or json)", shared.ErrInvalidArgument, s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// ExportToCSV converts albums to CSV format with columns: ID, Artist, Title, Year, Discogs ID, Discogs URL, Cover Image
func ExportToCSV(albums []models.Album) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Artist", "Title", "Year", "Discogs ID", "Discogs URL", "Cover Image"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, album := range albums {
		year := ""
		if album.Year != nil {
			year = strconv.Itoa(*album.Year)
		}
		cover := ""
		if album.CoverImage != nil {
			cover = *album.CoverImage
		}

		record := []string{
			strconv.FormatInt(album.ID, 10),
			album.Artist,
			album.Title,
			year,
			strconv.FormatInt(album.ExternalID, 10),
			album.SourceURL,
			cover,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts albums to a Markdown table headed by title
func ExportToMarkdown(albums []models.Album, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Record Collection"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Albums**: %d\n\n", len(albums)))

	buf.WriteString("| Cover | Artist | Title | Year |\n")
	buf.WriteString("|---|---|---|---|\n")
	for _, album := range albums {
		cover := ""
		if album.CoverImage != nil && *album.CoverImage != "" {
			cover = fmt.Sprintf("![cover](%s)", *album.CoverImage)
		}
		buf.WriteString(fmt.Sprintf("| %s | %s | [%s](%s) | %s |\n",
			cover, escapeCell(album.Artist), escapeCell(album.Title), album.SourceURL, album.YearString()))
	}

	return buf.Bytes(), nil
}

// ExportToText converts albums to plain text format
func ExportToText(albums []models.Album) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Albums: %d\n\n", len(albums)))
	for i, album := range albums {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, album.Artist, album.Title, album.YearString()))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts albums to indented JSON
func ExportToJSON(albums []models.Album) ([]byte, error) {
	data, err := json.MarshalIndent(albums, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal albums: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders albums in format f.
func Export(albums []models.Album, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(albums)
	case FormatMarkdown:
		return ExportToMarkdown(albums, "")
	case FormatText:
		return ExportToText(albums)
	case FormatJSON:
		return ExportToJSON(albums)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// WriteExport renders albums in format f and writes them to path.
//
// Defaults to vinyl_export_{epoch}.{ext} as the filename.
func WriteExport(albums []models.Album, f Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("vinyl_export_%d.%s", time.Now().Unix(), f.Extension())
	}

	data, err := Export(albums, f)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// FormatListening renders one listening as "Mon Jan 2 2006 3:04 PM: comment" in loc.
func FormatListening(l models.Listening, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return fmt.Sprintf("%s: %s", l.ListenedAt.In(loc).Format("Mon Jan 2 2006 3:04 PM"), l.Comment)
}

// FormatNote renders one note as "timestamp: text".
func FormatNote(n models.Note) string {
	if n.Timestamp == "" {
		return n.Text
	}
	return fmt.Sprintf("%s: %s", n.Timestamp, n.Text)
}

// ExportHistory renders an album header followed by its listenings and notes as plain text.
func ExportHistory(album models.Album, listenings []models.Listening, notes []models.Note, loc *time.Location) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s - %s (%s)\n", album.Artist, album.Title, album.YearString()))
	buf.WriteString(album.SourceURL + "\n\n")

	buf.WriteString(fmt.Sprintf("Listening History (%d)\n", len(listenings)))
	if len(listenings) == 0 {
		buf.WriteString("  No listening history.\n")
	}
	for _, l := range listenings {
		buf.WriteString("  " + FormatListening(l, loc) + "\n")
	}

	if len(notes) > 0 {
		buf.WriteString(fmt.Sprintf("\nNotes (%d)\n", len(notes)))
		for _, n := range notes {
			buf.WriteString("  " + FormatNote(n) + "\n")
		}
	}

	return buf.Bytes()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
