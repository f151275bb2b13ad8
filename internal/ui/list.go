package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/vinyl/internal/models"
)

var _ list.Item = albumItem{}

// albumItem wraps [models.Album] to implement [list.Item].
type albumItem struct {
	album models.Album
}

func (i albumItem) FilterValue() string { return i.album.Artist + " " + i.album.Title }
func (i albumItem) Title() string       { return i.album.Title }
func (i albumItem) Description() string {
	return fmt.Sprintf("%s • %s", i.album.Artist, i.album.YearString())
}

func albumItems(albums []models.Album) []list.Item {
	items := make([]list.Item, len(albums))
	for i, a := range albums {
		items[i] = albumItem{album: a}
	}
	return items
}
