package state

import (
	"errors"
	"testing"
	"time"

	"github.com/canlog/canlog-client/internal/events"
)

func TestParseTab(t *testing.T) {
	tests := []struct {
		in      string
		want    Tab
		wantErr bool
	}{
		{"upload", TabUpload, false},
		{"Save", TabSave, false},
		{" delete ", TabDelete, false},
		{"settings", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTab(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownTab) {
				t.Errorf("ParseTab(%q) error = %v, want ErrUnknownTab", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseTab(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestTabStateDefaultsToUpload(t *testing.T) {
	s := NewTabState(nil)
	if s.Active() != TabUpload {
		t.Errorf("Active() = %q, want upload", s.Active())
	}
}

func TestTabStateSwitch(t *testing.T) {
	tests := []struct {
		name        string
		wantRefresh bool
		wantActive  Tab
		wantErr     bool
	}{
		{"save", true, TabSave, false},
		{"delete", true, TabDelete, false},
		{"upload", false, TabUpload, false},
		{"bogus", false, TabUpload, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTabState(nil)
			refresh, err := s.Switch(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Switch(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if refresh != tt.wantRefresh {
				t.Errorf("Switch(%q) refresh = %v, want %v", tt.name, refresh, tt.wantRefresh)
			}
			if s.Active() != tt.wantActive {
				t.Errorf("Active() = %q, want %q", s.Active(), tt.wantActive)
			}
		})
	}
}

func TestTabStateUnknownLeavesActive(t *testing.T) {
	s := NewTabState(nil)
	if _, err := s.Switch("delete"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Switch("nope"); err == nil {
		t.Fatal("expected error")
	}
	if s.Active() != TabDelete {
		t.Errorf("Active() = %q, want delete", s.Active())
	}
}

func TestTabStatePublishesChange(t *testing.T) {
	bus := events.NewEventBus(4)
	defer bus.Close()
	ch := bus.Subscribe(events.EventTabChanged)

	s := NewTabState(bus)
	if _, err := s.Switch("save"); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-ch:
		tc := ev.(*events.TabChangedEvent)
		if tc.From != "upload" || tc.To != "save" {
			t.Errorf("event = %s -> %s, want upload -> save", tc.From, tc.To)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no tab change event")
	}
}
