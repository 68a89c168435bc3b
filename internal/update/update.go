// Package update implements the single-tick procedure that fetches one
// snapshot, merges it into a project's document, processes its links, and
// drains the resulting download queue.
package update

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/avelin/threadkeeper/internal/downloader"
	"github.com/avelin/threadkeeper/internal/htmldom"
	"github.com/avelin/threadkeeper/internal/project"
	"github.com/avelin/threadkeeper/internal/thread"
	"github.com/avelin/threadkeeper/internal/uievents"
)

// DownloadError marks a tick failure caused by fetching the thread snapshot
// itself failing over HTTP or transport — the watch loop retries on this
// class of error rather than propagating it.
type DownloadError struct {
	Description string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("update: downloading snapshot: %s", e.Description)
}

// Result reports what one tick did, mirroring UpdateComplete's fields plus
// whether the thread is now considered dead.
type Result struct {
	WasUpdated   bool
	NewPostCount int
	NewFileCount int
	IsDead       bool
}

// Tick runs the §4.8 one-tick procedure against p, mutating its in-memory
// State and merged document but not persisting anything to disk beyond the
// snapshot, the merged thread.html, and any downloaded assets — callers
// (grab, watch) are responsible for calling p.Save() afterward.
func Tick(ctx context.Context, d *downloader.Downloader, p *project.Project, handler uievents.Handler) (Result, error) {
	now := time.Now().Unix()
	snapshotPath := filepath.Join(p.OriginalsDir(), fmt.Sprintf("%d.html", now))

	handler.UpdateStart(uievents.UpdateStart{URL: p.Config.URL, Dest: snapshotPath})

	dlResult, err := d.DownloadFile(ctx, p.Config.URL, snapshotPath, p.State.LastModified, handler)
	if err != nil {
		de := &DownloadError{Description: err.Error()}
		handler.UpdateError(uievents.UpdateError{Description: de.Error()})
		return Result{}, de
	}

	switch dlResult.Outcome {
	case downloader.OutcomeSuccess:
		return tickSuccess(ctx, d, p, handler, snapshotPath, dlResult)

	case downloader.OutcomeNotModified:
		handler.UpdateComplete(uievents.UpdateComplete{WasUpdated: false})
		return Result{WasUpdated: false, IsDead: p.State.IsDead}, nil

	case downloader.OutcomeNotFound:
		p.State.IsDead = true
		handler.UpdateComplete(uievents.UpdateComplete{WasUpdated: false})
		return Result{WasUpdated: false, IsDead: true}, nil

	default: // OutcomeOtherHTTPError
		de := &DownloadError{Description: fmt.Sprintf("%d %s", dlResult.HTTPCode, dlResult.Description)}
		handler.UpdateError(uievents.UpdateError{Description: de.Error()})
		return Result{}, de
	}
}

func tickSuccess(ctx context.Context, d *downloader.Downloader, p *project.Project, handler uievents.Handler, snapshotPath string, dlResult downloader.Result) (Result, error) {
	var summary thread.UpdateSummary

	if p.Updater.Document() == nil {
		doc, err := htmldom.ParseFromFile(p.Fs, snapshotPath)
		if err != nil {
			return Result{}, fmt.Errorf("update: parsing snapshot %s: %w", snapshotPath, err)
		}
		summary = p.Updater.InitialCleanup(doc)
	} else {
		s, err := p.Updater.UpdateFrom(p.Fs, snapshotPath)
		if err != nil {
			return Result{}, fmt.Errorf("update: merging snapshot %s: %w", snapshotPath, err)
		}
		summary = s
	}

	for _, link := range summary.NewLinks {
		info, err := p.LinkProc.Process(link)
		if err != nil {
			return Result{}, fmt.Errorf("update: processing link: %w", err)
		}
		if info != nil {
			p.AppendNewLink(*info)
		}
	}

	p.State.IsDead = summary.IsArchived
	p.State.LastModified = dlResult.LastModified

	if err := p.SerializeThreadHTML(); err != nil {
		return Result{}, fmt.Errorf("update: serializing merged document: %w", err)
	}

	queueResult := d.DownloadLinkedContent(ctx, p.State.NewLinks, p.State.FailedLinks, p.RootPath, handler)
	p.State.NewLinks = queueResult.RemainingNew
	p.State.FailedLinks = queueResult.FailedLinks

	handler.UpdateComplete(uievents.UpdateComplete{
		WasUpdated:   true,
		NewPostCount: summary.NewPostCount,
		NewFileCount: queueResult.FilesDownloaded,
	})

	return Result{
		WasUpdated:   true,
		NewPostCount: summary.NewPostCount,
		NewFileCount: queueResult.FilesDownloaded,
		IsDead:       p.State.IsDead,
	}, nil
}
