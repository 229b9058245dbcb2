package gui

import (
	"github.com/canlog/canlog-client/internal/controller"
	"github.com/canlog/canlog-client/internal/events"
)

var actionLabels = map[string]string{
	"upload":     "Uploading",
	"save_all":   "Saving all files",
	"download":   "Downloading",
	"delete_all": "Deleting all files",
	"delete":     "Deleting",
	"list":       "Loading file list",
	"health":     "Checking backend",
}

func actionLabel(action string) string {
	if label, ok := actionLabels[action]; ok {
		return label
	}
	return action
}

// finishedStatus maps a finished action to the status bar line.
func finishedStatus(ae *events.ActionEvent) (string, StatusLevel) {
	switch ae.Status {
	case controller.StatusOK.String():
		if ae.Message != "" {
			return ae.Message, StatusSuccess
		}
		return "Ready", StatusInfo
	case controller.StatusCancelled.String():
		return actionLabel(ae.Action) + " cancelled", StatusInfo
	case controller.StatusRejected.String():
		return ae.Message, StatusWarning
	default:
		if ae.Message != "" {
			return ae.Message, StatusError
		}
		return actionLabel(ae.Action) + " failed", StatusError
	}
}
