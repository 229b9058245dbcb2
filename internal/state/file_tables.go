package state

import (
	"sync"

	"github.com/canlog/canlog-client/internal/events"
	"github.com/canlog/canlog-client/internal/models"
)

// FileTables is an observable container for the save and delete tables.
// Tables are only ever replaced whole, from the latest successful file list.
// Thread-safe for concurrent access.
type FileTables struct {
	eventBus *events.EventBus

	tables Tables
	count  int
	loaded bool

	mu sync.RWMutex
}

// NewFileTables creates empty tables. Nothing is rendered until the first
// successful Replace, not even the placeholder.
func NewFileTables(eventBus *events.EventBus) *FileTables {
	return &FileTables{
		eventBus: eventBus,
		tables:   Tables{Save: []Row{}, Delete: []Row{}},
	}
}

// Replace renders files into both tables and publishes EventFilesChanged.
func (ft *FileTables) Replace(files []models.StoredFile) Tables {
	rendered := Render(files)

	ft.mu.Lock()
	ft.tables = rendered
	ft.count = len(files)
	ft.loaded = true
	ft.mu.Unlock()

	if ft.eventBus != nil {
		ft.eventBus.PublishFilesChanged(len(files))
	}
	return copyTables(rendered)
}

// Snapshot returns a copy of both tables.
func (ft *FileTables) Snapshot() Tables {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return copyTables(ft.tables)
}

// SaveRows returns a copy of the save table.
func (ft *FileTables) SaveRows() []Row {
	return ft.Snapshot().Save
}

// DeleteRows returns a copy of the delete table.
func (ft *FileTables) DeleteRows() []Row {
	return ft.Snapshot().Delete
}

// Count returns the number of stored files behind the current rows.
func (ft *FileTables) Count() int {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return ft.count
}

// Loaded reports whether at least one file list has been rendered.
func (ft *FileTables) Loaded() bool {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return ft.loaded
}

func copyTables(t Tables) Tables {
	out := Tables{
		Save:   make([]Row, len(t.Save)),
		Delete: make([]Row, len(t.Delete)),
	}
	copy(out.Save, t.Save)
	copy(out.Delete, t.Delete)
	return out
}
