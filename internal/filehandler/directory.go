package filehandler

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Entry is one row of a directory listing offered for selection.
type Entry struct {
	Path  string
	IsDir bool
}

// Name returns the final path element.
func (e Entry) Name() string {
	return filepath.Base(e.Path)
}

// ListEntries returns the immediate children of dir, directories first, then
// by lower-cased name. The sort is stable so an unchanged directory always
// lists in the same order. Symlinks are classified by their target.
func ListEntries(dir string) ([]Entry, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	dirEntries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		path := filepath.Join(absDir, d.Name())
		isDir := d.IsDir()
		if d.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				log.Debug().Err(err).Str("path", path).Msg("Skipping dangling symlink")
				continue
			}
			isDir = info.IsDir()
		}
		entries = append(entries, Entry{Path: path, IsDir: isDir})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	log.Debug().
		Str("directory", absDir).
		Int("entries", len(entries)).
		Msg("Directory listed")

	return entries, nil
}

// ScanImages walks dir recursively and returns the absolute paths of every
// recognized image, sorted by path.
// Symlinks to files are followed; symlinks to directories are skipped to prevent infinite loops.
func ScanImages(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory not found: %s", dir)
		}
		return nil, fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	var images []string
	err = filepath.WalkDir(absPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error accessing path, skipping")
			return nil
		}
		if d.IsDir() {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			targetInfo, err := os.Stat(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Failed to stat symlink target, skipping")
				return nil
			}
			if targetInfo.IsDir() {
				log.Debug().Str("path", path).Msg("Skipping symlink to directory")
				return nil
			}
		}

		if IsImagePath(d.Name()) {
			images = append(images, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(images)

	log.Debug().
		Int("total_images", len(images)).
		Str("directory", absPath).
		Msg("Directory scan complete")

	return images, nil
}
