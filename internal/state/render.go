package state

import (
	"github.com/canlog/canlog-client/internal/constants"
	"github.com/canlog/canlog-client/internal/models"
)

// Render derives both tables from a file list. It is a pure function: the
// same input always yields the same rows, in input order. An empty list
// yields exactly one placeholder row per table.
func Render(files []models.StoredFile) Tables {
	if len(files) == 0 {
		placeholder := Row{Label: constants.MsgNoFiles, Placeholder: true}
		return Tables{
			Save:   []Row{placeholder},
			Delete: []Row{placeholder},
		}
	}

	t := Tables{
		Save:   make([]Row, 0, len(files)),
		Delete: make([]Row, 0, len(files)),
	}
	for _, f := range files {
		t.Save = append(t.Save, Row{
			Label:      f.Filename,
			UploadedAt: f.UploadedAt,
			Action:     RowAction{Kind: ActionDownload, FileID: f.ID, Filename: f.Filename},
		})
		t.Delete = append(t.Delete, Row{
			Label:      f.Filename,
			UploadedAt: f.UploadedAt,
			Action:     RowAction{Kind: ActionDelete, FileID: f.ID, Filename: f.Filename},
		})
	}
	return t
}
