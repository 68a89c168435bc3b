// Package uievents defines the typed events long-running operations emit
// and the cancellation query external UIs are polled through.
package uievents

// DownloadStart begins one asset-queue drain.
type DownloadStart struct {
	FileCount int
}

// DownloadProgress reports one item finished (success or failure) during a
// queue drain.
type DownloadProgress struct {
	FilesProcessed int
}

// DownloadComplete ends one asset-queue drain.
type DownloadComplete struct {
	FilesDownloaded int
	FilesFailed     int
}

// DownloadFileStart begins one file's transfer, before any network I/O.
type DownloadFileStart struct {
	URL  string
	Dest string
}

// DownloadFileInfo reports the response's declared size, once headers
// arrive. Size is nil when the server didn't send Content-Length.
type DownloadFileInfo struct {
	Size *int64
}

// DownloadFileProgress reports bytes copied so far for the current file.
type DownloadFileProgress struct {
	BytesDownloaded int64
}

// DownloadFileResult classifies how one file's transfer ended.
type DownloadFileResult int

const (
	DownloadFileSuccess DownloadFileResult = iota
	DownloadFileNotModified
	DownloadFileError
)

// DownloadFileComplete ends one file's transfer. ErrorMessage is set only
// when Result is DownloadFileError.
type DownloadFileComplete struct {
	Result       DownloadFileResult
	ErrorMessage string
}

// UpdateStart begins one polling tick's snapshot fetch.
type UpdateStart struct {
	URL  string
	Dest string
}

// UpdateError reports a tick-aborting failure.
type UpdateError struct {
	Description string
}

// UpdateComplete ends one polling tick.
type UpdateComplete struct {
	WasUpdated   bool
	NewPostCount int
	NewFileCount int
}

// RebuildStart begins replaying a project's snapshots.
type RebuildStart struct {
	TotalSnapshots int
}

// RebuildProgress reports one snapshot replayed.
type RebuildProgress struct {
	SnapshotsProcessed int
}

// RebuildComplete ends a rebuild.
type RebuildComplete struct {
	PostCount int
}

// WaitTick reports one second elapsed of a watch loop's interval or retry
// wait, for rendering a progress bar. SecondsTotal is the wait's full
// duration; SecondsElapsed counts up to it inclusive of the current tick.
type WaitTick struct {
	Label          string
	SecondsElapsed int
	SecondsTotal   int
}

// Handler is implemented by any consumer of core-emitted events. Handlers
// also expose IsCancelled so suspension points can poll cooperative
// cancellation without importing a signal-handling concern themselves.
type Handler interface {
	DownloadStart(DownloadStart)
	DownloadProgress(DownloadProgress)
	DownloadComplete(DownloadComplete)

	DownloadFileStart(DownloadFileStart)
	DownloadFileInfo(DownloadFileInfo)
	DownloadFileProgress(DownloadFileProgress)
	DownloadFileComplete(DownloadFileComplete)

	UpdateStart(UpdateStart)
	UpdateError(UpdateError)
	UpdateComplete(UpdateComplete)

	RebuildStart(RebuildStart)
	RebuildProgress(RebuildProgress)
	RebuildComplete(RebuildComplete)

	WaitTick(WaitTick)

	IsCancelled() bool
}
