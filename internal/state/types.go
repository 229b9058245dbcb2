// Package state provides observable state containers for the canlog client.
// These containers emit events when state changes, allowing any front end
// to subscribe and update its UI accordingly.
package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/canlog/canlog-client/internal/constants"
)

// Tab is one of the three views of the client.
type Tab string

const (
	TabUpload Tab = constants.TabUpload
	TabSave   Tab = constants.TabSave
	TabDelete Tab = constants.TabDelete
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabUpload, TabSave, TabDelete}

// ErrUnknownTab is returned when a tab name does not match any Tab.
var ErrUnknownTab = errors.New("unknown tab")

// ParseTab converts a tab name, case-insensitively, into a Tab.
func ParseTab(name string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(name)))
	switch t {
	case TabUpload, TabSave, TabDelete:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, name)
}

// NeedsFileList reports whether showing the tab requires fresh file tables.
func (t Tab) NeedsFileList() bool {
	return t == TabSave || t == TabDelete
}

// Title is the label shown on the tab.
func (t Tab) Title() string {
	switch t {
	case TabUpload:
		return "Upload"
	case TabSave:
		return "Save"
	case TabDelete:
		return "Delete"
	}
	return string(t)
}

// ActionKind is what a row's button does.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionDownload
	ActionDelete
)

func (k ActionKind) String() string {
	switch k {
	case ActionDownload:
		return "download"
	case ActionDelete:
		return "delete"
	default:
		return "none"
	}
}

// RowAction binds a row's button to one stored file.
type RowAction struct {
	Kind     ActionKind
	FileID   int64
	Filename string
}

// Row is one rendered table line.
type Row struct {
	Label       string
	UploadedAt  string
	Action      RowAction
	Placeholder bool
}

// Tables is the pair of rendered tables derived from one /files payload.
type Tables struct {
	Save   []Row
	Delete []Row
}
