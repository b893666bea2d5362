package business

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/radovskyb/watcher"
	"github.com/rs/zerolog/log"

	"github.com/cinapps/cinapps/internal/model"
)

const recordFileExtension = ".jsonl"

type RecordImporter interface {
	ImportRecord(ctx context.Context, raw model.RawRecord) (int64, error)
}

// InboxWatcher watches a drop directory for record files written by the
// crawler. Each file holds one raw record per line; once a file stops being
// written it is imported and moved to the archive directory.
type InboxWatcher struct {
	RecordImporter

	watcher     *watcher.Watcher
	inboxPath   string
	archivePath string
}

func NewInboxWatcher(importer RecordImporter, inboxPath, archivePath string) (*InboxWatcher, error) {
	for _, dir := range []string{inboxPath, archivePath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("could not create directory %q: %w", dir, err)
		}
	}

	inboxWatcher := &InboxWatcher{
		RecordImporter: importer,
		watcher:        watcher.New(),
		inboxPath:      inboxPath,
		archivePath:    archivePath,
	}
	if err := inboxWatcher.watcher.Add(inboxPath); err != nil {
		return nil, fmt.Errorf("could not watch inbox %q: %w", inboxPath, err)
	}

	go inboxWatcher.eventListener()

	// Pick up files dropped while nothing was watching
	if err := inboxWatcher.importExisting(); err != nil {
		log.Error().Err(err).Msg("Could not import pending record files")
	}

	return inboxWatcher, nil
}

func (iw *InboxWatcher) Run() error {
	return iw.watcher.Start(1 * time.Second)
}

func (iw *InboxWatcher) Stop() {
	iw.watcher.Close()
}

// eventListener listens for record file creation
func (iw *InboxWatcher) eventListener() {
	fileWrites := make(map[string]int64)

	createdFilesTicker := time.NewTicker(5 * time.Second)
	for {
		select {
		// Every X seconds, check if files are still being written
		case <-createdFilesTicker.C:
			for path, modTime := range fileWrites {
				info, err := os.Stat(path)
				if err != nil {
					delete(fileWrites, path)
					continue
				}
				// File is still being written
				if info.ModTime().Unix() != modTime {
					fileWrites[path] = info.ModTime().Unix()
					continue
				}

				// File is not being written anymore
				log.Debug().Str("path", path).Msg("Record file has stopped writing")
				delete(fileWrites, path)

				if err := iw.ImportFile(context.Background(), path); err != nil {
					log.Error().Str("path", path).Err(err).Msg("Could not import record file")
				}
			}
		// There is a new file event
		case event := <-iw.watcher.Event:
			if (event.Op == watcher.Create || event.Op == watcher.Write) && !event.IsDir() {
				if _, ok := fileWrites[event.Path]; !ok && filepath.Ext(event.Path) == recordFileExtension {
					fileWrites[event.Path] = 0
				}
			}
		// Error in file watching
		case err := <-iw.watcher.Error:
			log.Error().Err(err).Msg("Inbox watch error")
			return
		// Stop watching files
		case <-iw.watcher.Closed:
			return
		}
	}
}

// ImportFile imports every record line of a file, then archives the file.
// A bad line is logged and skipped; the rest of the file still goes through.
func (iw *InboxWatcher) ImportFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open record file: %w", err)
	}

	imported, failed := 0, 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var raw model.RawRecord
		if err := json.Unmarshal(line, &raw); err != nil {
			log.Error().Str("path", path).Err(err).Msg("Could not decode record line")
			failed++
			continue
		}
		if _, err := iw.ImportRecord(ctx, raw); err != nil {
			titre, _ := raw[model.FieldTitre].(string)
			log.Error().Str("path", path).Str("titre", titre).Err(err).Msg("Could not import record")
			failed++
			continue
		}
		imported++
	}
	scanErr := scanner.Err()
	file.Close()
	if scanErr != nil {
		return fmt.Errorf("could not read record file: %w", scanErr)
	}

	archived := filepath.Join(iw.archivePath, time.Now().UTC().Format("20060102-150405")+"-"+filepath.Base(path))
	if err := os.Rename(path, archived); err != nil {
		return fmt.Errorf("could not archive record file: %w", err)
	}

	log.Info().Str("path", path).Int("imported", imported).Int("failed", failed).Msg("Record file processed")
	return nil
}

func (iw *InboxWatcher) importExisting() error {
	entries, err := os.ReadDir(iw.inboxPath)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != recordFileExtension {
			continue
		}
		path := filepath.Join(iw.inboxPath, entry.Name())
		if err := iw.ImportFile(context.Background(), path); err != nil {
			log.Error().Str("path", path).Err(err).Msg("Could not import record file")
		}
	}
	return nil
}
