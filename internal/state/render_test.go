package state

import (
	"reflect"
	"testing"

	"github.com/canlog/canlog-client/internal/models"
)

func TestRenderEmptyListYieldsPlaceholders(t *testing.T) {
	for _, files := range [][]models.StoredFile{nil, {}} {
		tables := Render(files)

		if len(tables.Save) != 1 || len(tables.Delete) != 1 {
			t.Fatalf("rows = %d/%d, want 1/1", len(tables.Save), len(tables.Delete))
		}
		for _, row := range []Row{tables.Save[0], tables.Delete[0]} {
			if !row.Placeholder {
				t.Error("row should be a placeholder")
			}
			if row.Label != "No files available." {
				t.Errorf("Label = %q, want %q", row.Label, "No files available.")
			}
			if row.Action.Kind != ActionNone {
				t.Errorf("placeholder Action = %v, want none", row.Action.Kind)
			}
		}
	}
}

func TestRenderTwoFiles(t *testing.T) {
	files := []models.StoredFile{
		{ID: 1, Filename: "log1.csv"},
		{ID: 2, Filename: "log2.csv"},
	}

	tables := Render(files)

	wantSave := []RowAction{
		{Kind: ActionDownload, FileID: 1, Filename: "log1.csv"},
		{Kind: ActionDownload, FileID: 2, Filename: "log2.csv"},
	}
	wantDelete := []RowAction{
		{Kind: ActionDelete, FileID: 1, Filename: "log1.csv"},
		{Kind: ActionDelete, FileID: 2, Filename: "log2.csv"},
	}

	var gotSave, gotDelete []RowAction
	for _, r := range tables.Save {
		gotSave = append(gotSave, r.Action)
	}
	for _, r := range tables.Delete {
		gotDelete = append(gotDelete, r.Action)
	}

	if !reflect.DeepEqual(gotSave, wantSave) {
		t.Errorf("save actions = %+v, want %+v", gotSave, wantSave)
	}
	if !reflect.DeepEqual(gotDelete, wantDelete) {
		t.Errorf("delete actions = %+v, want %+v", gotDelete, wantDelete)
	}
	if tables.Save[0].Label != "log1.csv" || tables.Save[1].Label != "log2.csv" {
		t.Errorf("labels = %q, %q", tables.Save[0].Label, tables.Save[1].Label)
	}
}

func TestRenderPreservesOrderAndCount(t *testing.T) {
	files := []models.StoredFile{
		{ID: 30, Filename: "c.asc", UploadedAt: "2024-05-03 09:00:00"},
		{ID: 10, Filename: "a.asc"},
		{ID: 20, Filename: "b.asc"},
	}

	tables := Render(files)
	if len(tables.Save) != 3 || len(tables.Delete) != 3 {
		t.Fatalf("rows = %d/%d, want 3/3", len(tables.Save), len(tables.Delete))
	}
	for i, f := range files {
		if tables.Save[i].Action.FileID != f.ID || tables.Delete[i].Action.FileID != f.ID {
			t.Errorf("row %d FileID = %d/%d, want %d", i, tables.Save[i].Action.FileID, tables.Delete[i].Action.FileID, f.ID)
		}
		if tables.Save[i].Placeholder {
			t.Errorf("row %d should not be a placeholder", i)
		}
	}
	if tables.Save[0].UploadedAt != "2024-05-03 09:00:00" {
		t.Errorf("UploadedAt = %q", tables.Save[0].UploadedAt)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	files := []models.StoredFile{{ID: 5, Filename: "x.csv"}}
	if !reflect.DeepEqual(Render(files), Render(files)) {
		t.Error("Render should return identical tables for identical input")
	}
}
