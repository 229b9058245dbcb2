package api

import (
	"fmt"
	"testing"
)

func TestStatusErrorMessage(t *testing.T) {
	tests := []struct {
		err  *StatusError
		want string
	}{
		{&StatusError{Op: "upload", StatusCode: 400, Body: "No files provided\n"}, "upload failed: status 400: No files provided"},
		{&StatusError{Op: "download", StatusCode: 500}, "download failed: status 500"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestAsStatusErrorUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", &StatusError{Op: "delete", StatusCode: 404})

	se, ok := AsStatusError(wrapped)
	if !ok || se.StatusCode != 404 {
		t.Errorf("AsStatusError() = %v, %v, want 404 StatusError", se, ok)
	}
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound() = false, want true")
	}
	if _, ok := AsStatusError(fmt.Errorf("plain")); ok {
		t.Error("AsStatusError() matched a plain error")
	}
}
