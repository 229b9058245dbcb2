package gui

import (
	"path/filepath"
	"testing"

	"github.com/canlog/canlog-client/internal/events"
)

func TestFinishedStatus(t *testing.T) {
	tests := []struct {
		name      string
		event     events.ActionEvent
		wantText  string
		wantLevel StatusLevel
	}{
		{"ok with text", events.ActionEvent{Action: "upload", Status: "ok", Message: "Uploaded 2 files"}, "Uploaded 2 files", StatusSuccess},
		{"ok silent", events.ActionEvent{Action: "list", Status: "ok"}, "Ready", StatusInfo},
		{"cancelled", events.ActionEvent{Action: "delete", Status: "cancelled"}, "Deleting cancelled", StatusInfo},
		{"rejected", events.ActionEvent{Action: "upload", Status: "rejected", Message: "Please select a folder or files to upload."}, "Please select a folder or files to upload.", StatusWarning},
		{"failed", events.ActionEvent{Action: "download", Status: "failed", Message: "Download failed: Error: Failed to download file"}, "Download failed: Error: Failed to download file", StatusError},
		{"failed silent", events.ActionEvent{Action: "save_all", Status: "failed"}, "Saving all files failed", StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tt.event
			text, level := finishedStatus(&ev)
			if text != tt.wantText || level != tt.wantLevel {
				t.Errorf("finishedStatus = %q, %v; want %q, %v", text, level, tt.wantText, tt.wantLevel)
			}
		})
	}
}

func TestActionLabelUnknown(t *testing.T) {
	if got := actionLabel("reindex"); got != "reindex" {
		t.Errorf("actionLabel(reindex) = %q", got)
	}
}

func TestSelectionList(t *testing.T) {
	var s selectionList
	s.addFolder("/data/logs/")
	s.addFolder("/data/logs")
	s.addFile("/tmp/a.csv")
	s.addFile("/tmp/.b.csv")

	sel := s.Selection()
	if len(sel.Folders) != 1 || sel.Folders[0] != filepath.Clean("/data/logs") {
		t.Errorf("Folders = %v", sel.Folders)
	}
	if len(sel.Files) != 2 {
		t.Errorf("Files = %v", sel.Files)
	}

	sel.Files[0] = "mutated"
	if s.Selection().Files[0] == "mutated" {
		t.Error("Selection() must return a copy")
	}

	if got, want := s.Summary(), "1 folder(s), 2 file(s) selected (1 hidden)"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestProgressText(t *testing.T) {
	known := &events.ProgressEvent{Name: "run1.csv", BytesCurrent: 512, BytesTotal: 2048}
	if got := progressText(known); got != "run1.csv: 512 B / 2.0 KiB" {
		t.Errorf("progressText(known) = %q", got)
	}
	unknown := &events.ProgressEvent{Name: "can_data_export.zip", BytesCurrent: 1536, BytesTotal: -1}
	if got := progressText(unknown); got != "can_data_export.zip: 1.5 KiB" {
		t.Errorf("progressText(unknown) = %q", got)
	}
}

func TestActivitySummary(t *testing.T) {
	var a activity
	if got := a.summary(); got != "Ready" {
		t.Errorf("idle summary = %q, want Ready", got)
	}

	a.begin("1", "Uploading")
	if got := a.summary(); got != "Uploading..." {
		t.Errorf("summary = %q, want Uploading...", got)
	}

	a.begin("2", "Deleting")
	if got := a.summary(); got != "Deleting... (+1 more)" {
		t.Errorf("summary = %q, want newest action first", got)
	}

	a.end("2")
	a.end("unknown")
	if a.len() != 1 || a.summary() != "Uploading..." {
		t.Errorf("after end: len = %d, summary = %q", a.len(), a.summary())
	}
	a.end("1")
	if a.len() != 0 {
		t.Errorf("len = %d, want 0", a.len())
	}
}
