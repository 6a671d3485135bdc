// Package janitor reclaims locally saved cover images whose book no
// longer exists in the remote store.
package janitor

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/azeemi/sharebook/internal/localfile"
	"github.com/azeemi/sharebook/internal/remote"
)

const (
	coverPrefix = "book_cover_"
	coverSuffix = ".jpg"
)

// Janitor periodically sweeps the local book-images directory.
type Janitor struct {
	docs  remote.DocumentStore
	files *localfile.Store
	cron  *cron.Cron
}

// New creates a janitor over the given stores.
func New(docs remote.DocumentStore, files *localfile.Store) *Janitor {
	return &Janitor{docs: docs, files: files}
}

// Start schedules the sweep with the given cron expression.
func (j *Janitor) Start(schedule string) error {
	j.cron = cron.New()
	_, err := j.cron.AddFunc(schedule, func() {
		if err := j.Sweep(); err != nil {
			log.Printf("cover sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

// Stop cancels the schedule. A sweep already running completes.
func (j *Janitor) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// Sweep deletes every locally saved cover whose book document is gone.
func (j *Janitor) Sweep() error {
	dir := j.files.BookImagesPath()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, coverPrefix) || !strings.HasSuffix(name, coverSuffix) {
			continue
		}
		bookID := strings.TrimSuffix(strings.TrimPrefix(name, coverPrefix), coverSuffix)

		_, err := j.docs.Get(remote.CollectionBooks, bookID)
		if err == nil {
			continue
		}
		if !errors.Is(err, remote.ErrDocumentNotFound) {
			return err
		}

		if err := j.files.Delete(filepath.Join(dir, name)); err != nil {
			log.Printf("failed to delete orphaned cover %s: %v", name, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("cover sweep removed %d orphaned file(s)", removed)
	}
	return nil
}
