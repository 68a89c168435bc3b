package project

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/avelin/threadkeeper/internal/htmldom"
	"github.com/avelin/threadkeeper/internal/uievents"
)

// Rebuild replays a project's originals/ snapshots in filename order from
// an empty merged document, reproducing the set of post IDs the normal
// incremental updates would have produced, and rewrites the merged
// document's links the same way a live update would. It does not touch
// state.json's pending-download lists: existing assets are assumed already
// on disk at their previously rewritten paths.
func Rebuild(p *Project, handler uievents.Handler) (int, error) {
	entries, err := afero.ReadDir(p.Fs, p.OriginalsDir())
	if err != nil {
		return 0, fmt.Errorf("project: listing snapshots in %s: %w", p.OriginalsDir(), err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	handler.RebuildStart(uievents.RebuildStart{TotalSnapshots: len(names)})

	for i, name := range names {
		path := filepath.Join(p.OriginalsDir(), name)

		var newLinks []*htmldom.Link
		if i == 0 {
			doc, err := htmldom.ParseFromFile(p.Fs, path)
			if err != nil {
				return 0, fmt.Errorf("project: parsing snapshot %s: %w", path, err)
			}
			summary := p.Updater.InitialCleanup(doc)
			newLinks = summary.NewLinks
		} else {
			summary, err := p.Updater.UpdateFrom(p.Fs, path)
			if err != nil {
				return 0, fmt.Errorf("project: replaying snapshot %s: %w", path, err)
			}
			newLinks = summary.NewLinks
		}

		for _, link := range newLinks {
			if _, err := p.LinkProc.Process(link); err != nil {
				return 0, fmt.Errorf("project: rewriting links in %s: %w", path, err)
			}
		}

		handler.RebuildProgress(uievents.RebuildProgress{SnapshotsProcessed: i + 1})
	}

	if err := p.SerializeThreadHTML(); err != nil {
		return 0, fmt.Errorf("project: serializing rebuilt document: %w", err)
	}

	count := p.Updater.PostCount()
	handler.RebuildComplete(uievents.RebuildComplete{PostCount: count})
	return count, nil
}
