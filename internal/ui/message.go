package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vinyl/internal/models"
	"github.com/desertthunder/vinyl/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgAlbumsFetched MsgKind = iota
	MsgHistoryFetched
	MsgListened
	MsgProgressUpdate
	MsgImportComplete
)

type albumsFetched struct {
	albums []models.Album
	err    error
}

type historyFetched struct {
	history *tasks.History
	err     error
}

type listened struct {
	listening *models.Listening
	err       error
}

type importComplete struct {
	result *tasks.ImportResult
	err    error
}

// albumsFetchedMsg is the constructor for [MsgAlbumsFetched]
func albumsFetchedMsg(albums []models.Album, err error) Msg {
	return Msg{kind: MsgAlbumsFetched, data: albumsFetched{albums, err}}
}

// historyFetchedMsg is the constructor for [MsgHistoryFetched]
func historyFetchedMsg(history *tasks.History, err error) Msg {
	return Msg{kind: MsgHistoryFetched, data: historyFetched{history, err}}
}

// listenedMsg is the constructor for [MsgListened]
func listenedMsg(l *models.Listening, err error) Msg {
	return Msg{kind: MsgListened, data: listened{l, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// importCompleteMsg is the constructor for [MsgImportComplete]
func importCompleteMsg(result *tasks.ImportResult, err error) Msg {
	return Msg{kind: MsgImportComplete, data: importComplete{result, err}}
}
