package uievents

// NullHandler discards every event. Useful for tests and for library
// callers that only care about the returned UpdateSummary/error.
type NullHandler struct {
	Cancel *CancelFlag
}

func (NullHandler) DownloadStart(DownloadStart)                   {}
func (NullHandler) DownloadProgress(DownloadProgress)             {}
func (NullHandler) DownloadComplete(DownloadComplete)              {}
func (NullHandler) DownloadFileStart(DownloadFileStart)           {}
func (NullHandler) DownloadFileInfo(DownloadFileInfo)             {}
func (NullHandler) DownloadFileProgress(DownloadFileProgress)     {}
func (NullHandler) DownloadFileComplete(DownloadFileComplete)     {}
func (NullHandler) UpdateStart(UpdateStart)                       {}
func (NullHandler) UpdateError(UpdateError)                       {}
func (NullHandler) UpdateComplete(UpdateComplete)                  {}
func (NullHandler) RebuildStart(RebuildStart)                     {}
func (NullHandler) RebuildProgress(RebuildProgress)               {}
func (NullHandler) RebuildComplete(RebuildComplete)                {}
func (NullHandler) WaitTick(WaitTick)                             {}

func (n NullHandler) IsCancelled() bool {
	if n.Cancel == nil {
		return false
	}
	return n.Cancel.IsSet()
}
