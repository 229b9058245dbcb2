// Package constants holds defaults, tunables and user-facing message texts
// shared by the controller and every front end.
package constants

import (
	"time"
)

// Backend defaults
const (
	// DefaultBackendURL is the local address the backend listens on out of the box.
	DefaultBackendURL = "http://127.0.0.1:5000"

	// ExportFilename is the fixed name used when saving the full export archive.
	ExportFilename = "can_data_export.zip"

	// UploadField is the multipart field name repeated once per uploaded file.
	UploadField = "files"
)

// Tab names accepted by SwitchTab
const (
	TabUpload = "upload"
	TabSave   = "save"
	TabDelete = "delete"
)

// User-facing messages. Alerts carry a static prefix followed by the error detail.
const (
	MsgNoSelection    = "Please select a folder or files to upload."
	MsgNoFiles        = "No files available."
	MsgConfirmAll     = "Are you sure you want to delete ALL CAN data from MySQL?"
	MsgConfirmOne     = "Delete this file from MySQL?"
	PrefixUpload      = "Upload failed: "
	PrefixDownload    = "Download failed: "
	PrefixDelete      = "Delete failed: "
	DetailExportError = "Error: Download failed"
	DetailFileError   = "Error: Failed to download file"
)

// Event bus sizing
const (
	// EventBusDefaultBuffer - default buffer size for event channels
	EventBusDefaultBuffer = 256

	// EventBusMaxBuffer - maximum buffer size
	EventBusMaxBuffer = 1024
)

// HTTP transport tunables. None of these bound a whole request: actions
// either complete or fail, they are never timed out by the client.
const (
	// HTTPIdleConnTimeout - how long to keep idle connections open (90 seconds)
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - timeout for TLS handshake (60 seconds)
	HTTPTLSHandshakeTimeout = 60 * time.Second

	// HTTPExpectContinueTimeout - timeout for 100-continue response (1 second)
	HTTPExpectContinueTimeout = 1 * time.Second

	// HTTPDialTimeout - timeout for establishing connection (30 seconds)
	HTTPDialTimeout = 30 * time.Second

	// HTTPDialKeepAlive - keep-alive period for dialer (30 seconds)
	HTTPDialKeepAlive = 30 * time.Second

	// DefaultProxyPort is used when a proxy host is configured without a port.
	DefaultProxyPort = 8080
)

// Log file rotation
const (
	LogFileName       = "canlog.log"
	LogFileMaxSizeMB  = 10
	LogFileMaxBackups = 5
	LogFileMaxAgeDays = 30
)
