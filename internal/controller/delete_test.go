package controller

import (
	"strings"
	"testing"

	"github.com/canlog/canlog-client/internal/api"
)

func TestDeleteDeclinedSendsNothing(t *testing.T) {
	for _, name := range []string{"all", "one"} {
		t.Run(name, func(t *testing.T) {
			b := &fakeBackend{}
			p := &fakePresenter{answer: false}
			c := newTestController(b, p, &fakeSaver{})

			var r Result
			if name == "all" {
				r = c.DeleteFromDatabase(ctx)
			} else {
				r = c.DeleteOne(ctx, 5)
			}

			if r.Status != StatusCancelled {
				t.Errorf("Status = %v, want cancelled", r.Status)
			}
			if len(b.Calls()) != 0 {
				t.Errorf("backend calls = %v, want none", b.Calls())
			}
			if len(p.alerts) != 0 {
				t.Errorf("alerts = %v, want none", p.alerts)
			}
		})
	}
}

func TestDeletePrompts(t *testing.T) {
	p := &fakePresenter{answer: true}
	c := newTestController(&fakeBackend{deleteText: "ok"}, p, &fakeSaver{})

	c.DeleteFromDatabase(ctx)
	c.DeleteOne(ctx, 1)

	want := []string{
		"Are you sure you want to delete ALL CAN data from MySQL?",
		"Delete this file from MySQL?",
	}
	if strings.Join(p.prompts, "|") != strings.Join(want, "|") {
		t.Errorf("prompts = %q, want %q", p.prompts, want)
	}
}

func TestDeleteOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		err       error
		wantAlert string
		wantList  int
		wantOK    bool
	}{
		{"success", "All data deleted successfully", nil, "All data deleted successfully", 1, true},
		{"server refusal", "", &api.StatusError{Op: "delete", StatusCode: 404, Body: "File not found"}, "File not found", 1, false},
		{"transport", "", errConnRefused, "Delete failed: " + errConnRefused.Error(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{deleteText: tt.text, deleteErr: tt.err}
			p := &fakePresenter{answer: true}
			c := newTestController(b, p, &fakeSaver{})

			r := c.DeleteOne(ctx, 9)

			if r.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v", r.OK(), tt.wantOK)
			}
			if len(p.alerts) != 1 || p.alerts[0] != tt.wantAlert {
				t.Errorf("alerts = %v, want [%s]", p.alerts, tt.wantAlert)
			}
			if got := b.count("list"); got != tt.wantList {
				t.Errorf("list calls = %d, want %d", got, tt.wantList)
			}
			if b.count("delete_file") != 1 {
				t.Errorf("delete_file calls = %d, want 1", b.count("delete_file"))
			}
		})
	}
}

func TestDeleteAllRefreshesTables(t *testing.T) {
	b := &fakeBackend{deleteText: "deleted", files: nil}
	c := newTestController(b, &fakePresenter{answer: true}, &fakeSaver{})

	r := c.DeleteFromDatabase(ctx)

	if !r.OK() || r.Message != "deleted" {
		t.Errorf("DeleteFromDatabase() = %+v", r)
	}
	if got := strings.Join(b.Calls(), ","); got != "delete_all,list" {
		t.Errorf("calls = %s, want delete_all,list", got)
	}
	rows := c.Tables().DeleteRows()
	if len(rows) != 1 || !rows[0].Placeholder {
		t.Errorf("rows = %+v, want placeholder after deleting everything", rows)
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusOK:        "ok",
		StatusRejected:  "rejected",
		StatusCancelled: "cancelled",
		StatusFailed:    "failed",
		Status(99):      "unknown",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("Status(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
