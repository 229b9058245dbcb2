package state

import (
	"sync"

	"github.com/canlog/canlog-client/internal/events"
)

// TabState holds the single active tab. The zero value is not usable; call
// NewTabState. Safe for concurrent use.
type TabState struct {
	eventBus *events.EventBus

	active Tab
	mu     sync.RWMutex
}

// NewTabState creates a TabState with the upload tab active.
// eventBus may be nil.
func NewTabState(eventBus *events.EventBus) *TabState {
	return &TabState{
		eventBus: eventBus,
		active:   TabUpload,
	}
}

// Active returns the current tab.
func (s *TabState) Active() Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Switch makes name the only active tab and reports whether the new tab
// needs its file tables refreshed. An unknown name leaves the state
// untouched and returns ErrUnknownTab.
func (s *TabState) Switch(name string) (needsRefresh bool, err error) {
	tab, err := ParseTab(name)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	from := s.active
	s.active = tab
	s.mu.Unlock()

	if s.eventBus != nil {
		s.eventBus.PublishTabChanged(string(from), string(tab))
	}
	return tab.NeedsFileList(), nil
}
