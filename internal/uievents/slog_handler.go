package uievents

import "log/slog"

// SlogHandler reports every event as a structured log line. This is the
// default handler for CLI invocations that don't render a progress bar.
type SlogHandler struct {
	Logger *slog.Logger
	Cancel *CancelFlag
}

func NewSlogHandler(logger *slog.Logger, cancel *CancelFlag) *SlogHandler {
	return &SlogHandler{Logger: logger, Cancel: cancel}
}

func (h *SlogHandler) DownloadStart(e DownloadStart) {
	h.Logger.Info("download start", "files", e.FileCount)
}

func (h *SlogHandler) DownloadProgress(e DownloadProgress) {
	h.Logger.Debug("download progress", "processed", e.FilesProcessed)
}

func (h *SlogHandler) DownloadComplete(e DownloadComplete) {
	h.Logger.Info("download complete", "downloaded", e.FilesDownloaded, "failed", e.FilesFailed)
}

func (h *SlogHandler) DownloadFileStart(e DownloadFileStart) {
	h.Logger.Debug("fetching asset", "url", e.URL, "dest", e.Dest)
}

func (h *SlogHandler) DownloadFileInfo(e DownloadFileInfo) {
	if e.Size != nil {
		h.Logger.Debug("asset size", "bytes", *e.Size)
	}
}

func (h *SlogHandler) DownloadFileProgress(e DownloadFileProgress) {
	h.Logger.Debug("asset progress", "bytes", e.BytesDownloaded)
}

func (h *SlogHandler) DownloadFileComplete(e DownloadFileComplete) {
	switch e.Result {
	case DownloadFileSuccess:
		h.Logger.Debug("asset complete", "result", "success")
	case DownloadFileNotModified:
		h.Logger.Debug("asset complete", "result", "not_modified")
	case DownloadFileError:
		h.Logger.Warn("asset failed", "error", e.ErrorMessage)
	}
}

func (h *SlogHandler) UpdateStart(e UpdateStart) {
	h.Logger.Info("update start", "url", e.URL, "dest", e.Dest)
}

func (h *SlogHandler) UpdateError(e UpdateError) {
	h.Logger.Error("update failed", "error", e.Description)
}

func (h *SlogHandler) UpdateComplete(e UpdateComplete) {
	h.Logger.Info("update complete", "updated", e.WasUpdated, "new_posts", e.NewPostCount, "new_files", e.NewFileCount)
}

func (h *SlogHandler) RebuildStart(e RebuildStart) {
	h.Logger.Info("rebuild start", "snapshots", e.TotalSnapshots)
}

func (h *SlogHandler) RebuildProgress(e RebuildProgress) {
	h.Logger.Debug("rebuild progress", "processed", e.SnapshotsProcessed)
}

func (h *SlogHandler) RebuildComplete(e RebuildComplete) {
	h.Logger.Info("rebuild complete", "posts", e.PostCount)
}

func (h *SlogHandler) WaitTick(e WaitTick) {
	h.Logger.Debug("waiting", "label", e.Label, "elapsed", e.SecondsElapsed, "total", e.SecondsTotal)
}

func (h *SlogHandler) IsCancelled() bool {
	if h.Cancel == nil {
		return false
	}
	return h.Cancel.IsSet()
}
