package state

import (
	"sync"
	"testing"
	"time"

	"github.com/canlog/canlog-client/internal/events"
	"github.com/canlog/canlog-client/internal/models"
)

func TestFileTablesStartEmpty(t *testing.T) {
	ft := NewFileTables(nil)
	if ft.Loaded() {
		t.Error("Loaded() = true before any Replace")
	}
	if n := len(ft.SaveRows()); n != 0 {
		t.Errorf("SaveRows() = %d rows, want 0", n)
	}
}

func TestFileTablesReplaceIsFull(t *testing.T) {
	ft := NewFileTables(nil)

	ft.Replace([]models.StoredFile{{ID: 1, Filename: "a"}, {ID: 2, Filename: "b"}, {ID: 3, Filename: "c"}})
	if ft.Count() != 3 || len(ft.DeleteRows()) != 3 {
		t.Fatalf("Count() = %d, rows = %d, want 3", ft.Count(), len(ft.DeleteRows()))
	}

	ft.Replace([]models.StoredFile{{ID: 9, Filename: "z"}})
	rows := ft.SaveRows()
	if len(rows) != 1 || rows[0].Action.FileID != 9 {
		t.Errorf("rows after second Replace = %+v, want only id 9", rows)
	}

	ft.Replace(nil)
	rows = ft.DeleteRows()
	if len(rows) != 1 || !rows[0].Placeholder {
		t.Errorf("rows after empty Replace = %+v, want one placeholder", rows)
	}
	if ft.Count() != 0 || !ft.Loaded() {
		t.Errorf("Count() = %d, Loaded() = %v", ft.Count(), ft.Loaded())
	}
}

func TestFileTablesSnapshotIsCopy(t *testing.T) {
	ft := NewFileTables(nil)
	ft.Replace([]models.StoredFile{{ID: 1, Filename: "a"}})

	snap := ft.Snapshot()
	snap.Save[0].Label = "mutated"

	if ft.SaveRows()[0].Label != "a" {
		t.Error("mutating a snapshot changed the stored tables")
	}
}

func TestFileTablesPublishesCount(t *testing.T) {
	bus := events.NewEventBus(4)
	defer bus.Close()
	ch := bus.Subscribe(events.EventFilesChanged)

	ft := NewFileTables(bus)
	ft.Replace([]models.StoredFile{{ID: 1, Filename: "a"}, {ID: 2, Filename: "b"}})

	select {
	case ev := <-ch:
		if got := ev.(*events.FilesChangedEvent).Count; got != 2 {
			t.Errorf("Count = %d, want 2", got)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no files changed event")
	}
}

func TestFileTablesConcurrentReplace(t *testing.T) {
	ft := NewFileTables(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			files := make([]models.StoredFile, n%4)
			for j := range files {
				files[j] = models.StoredFile{ID: int64(j), Filename: "f"}
			}
			ft.Replace(files)
			_ = ft.Snapshot()
		}(i)
	}
	wg.Wait()

	snap := ft.Snapshot()
	if len(snap.Save) != len(snap.Delete) {
		t.Errorf("torn render: save=%d delete=%d", len(snap.Save), len(snap.Delete))
	}
}
