package downloader

import (
	"context"
	"path/filepath"
	"time"

	"github.com/avelin/threadkeeper/internal/linkinfo"
	"github.com/avelin/threadkeeper/internal/uievents"
)

// QueueResult is the outcome of draining one asset queue.
type QueueResult struct {
	// RemainingNew holds items not yet attempted because cancellation was
	// observed mid-drain — regardless of whether they originated from the
	// failed list or the fresh list, per §4.6's "unprocessed items remain
	// in new_links".
	RemainingNew []linkinfo.LinkInfo

	// FailedLinks holds items that were attempted this drain and did not
	// succeed.
	FailedLinks []linkinfo.LinkInfo

	FilesDownloaded int
	FilesFailed     int
}

// DownloadLinkedContent drains newLinks and failedLinks (failed items
// first, so retries precede fresh items) against downloadRoot, stopping
// early if handler.IsCancelled becomes true between items.
func (d *Downloader) DownloadLinkedContent(ctx context.Context, newLinks, failedLinks []linkinfo.LinkInfo, downloadRoot string, handler uievents.Handler) QueueResult {
	queue := make([]linkinfo.LinkInfo, 0, len(newLinks)+len(failedLinks))
	queue = append(queue, failedLinks...)
	queue = append(queue, newLinks...)

	handler.DownloadStart(uievents.DownloadStart{FileCount: len(queue)})

	var result QueueResult
	processed := 0

	for i, item := range queue {
		if handler.IsCancelled() {
			result.RemainingNew = append(result.RemainingNew, queue[i:]...)
			break
		}

		dest := filepath.Join(downloadRoot, item.Path)

		var ifModifiedSince *time.Time
		if info, err := d.Fs.Stat(dest); err == nil {
			mt := info.ModTime()
			ifModifiedSince = &mt
		}

		outcome, err := d.DownloadFile(ctx, item.URL, dest, ifModifiedSince, handler)

		switch {
		case err != nil:
			result.FailedLinks = append(result.FailedLinks, item)
			result.FilesFailed++
		case outcome.Outcome == OutcomeSuccess || outcome.Outcome == OutcomeNotModified:
			result.FilesDownloaded++
		default:
			result.FailedLinks = append(result.FailedLinks, item)
			result.FilesFailed++
		}

		processed++
		handler.DownloadProgress(uievents.DownloadProgress{FilesProcessed: processed})
	}

	handler.DownloadComplete(uievents.DownloadComplete{FilesDownloaded: result.FilesDownloaded, FilesFailed: result.FilesFailed})

	return result
}
