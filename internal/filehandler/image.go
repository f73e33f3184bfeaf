package filehandler

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageInfo describes one selected image. Zero values mean the figure could
// not be read.
type ImageInfo struct {
	Path      string
	Ext       string
	Width     int
	Height    int
	Size      int64
	DateTaken time.Time
}

// HasDimensions reports whether the image header was decoded.
func (i ImageInfo) HasDimensions() bool {
	return i.Width > 0 && i.Height > 0
}

// HasOddDimension reports whether either side is odd, which yuv420p rejects.
func (i ImageInfo) HasOddDimension() bool {
	return i.HasDimensions() && (i.Width%2 != 0 || i.Height%2 != 0)
}

// InspectImage reads the header and EXIF block of path. Failures leave the
// affected fields zero and are logged at debug level.
func InspectImage(path string) ImageInfo {
	info := ImageInfo{
		Path: path,
		Ext:  strings.ToLower(filepath.Ext(path)),
	}

	if fi, err := os.Stat(path); err == nil {
		info.Size = fi.Size()
	}

	if w, h, err := decodeDimensions(path); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Failed to decode image header")
	} else {
		info.Width, info.Height = w, h
	}

	if date, err := captureDate(path); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("No EXIF capture date")
	} else {
		info.DateTaken = date
	}

	return info
}

func decodeDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// captureDate follows DateTimeOriginal > CreateDate > ModifyDate.
func captureDate(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	exifData, err := imagemeta.Decode(f)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to decode EXIF metadata: %w", err)
	}

	for _, t := range []time.Time{exifData.DateTimeOriginal(), exifData.CreateDate(), exifData.ModifyDate()} {
		if !t.IsZero() {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no capture date in EXIF")
}

// SelectionSummary aggregates ImageInfo over a resolved image set.
type SelectionSummary struct {
	Count      int
	TotalBytes int64
	Extensions []string
	Sizes      []string
	OddSized   int
	Earliest   time.Time
	Latest     time.Time
	// OutOfOrder counts dated images captured before the previous dated
	// image in path order.
	OutOfOrder int
}

// captureLayout formats capture dates in summaries.
const captureLayout = "2006-01-02 15:04"

// Summarize inspects every path and aggregates the results.
func Summarize(paths []string) SelectionSummary {
	infos := make([]ImageInfo, 0, len(paths))
	for _, p := range paths {
		infos = append(infos, InspectImage(p))
	}
	return summarizeInfos(infos)
}

// summarizeInfos aggregates infos, which are in staging (path) order.
func summarizeInfos(infos []ImageInfo) SelectionSummary {
	s := SelectionSummary{Count: len(infos)}
	exts := make(map[string]bool)
	sizes := make(map[string]bool)
	var prev time.Time

	for _, info := range infos {
		s.TotalBytes += info.Size
		exts[info.Ext] = true
		if info.HasDimensions() {
			sizes[fmt.Sprintf("%dx%d", info.Width, info.Height)] = true
		}
		if info.HasOddDimension() {
			s.OddSized++
		}
		if info.DateTaken.IsZero() {
			continue
		}
		if s.Earliest.IsZero() || info.DateTaken.Before(s.Earliest) {
			s.Earliest = info.DateTaken
		}
		if info.DateTaken.After(s.Latest) {
			s.Latest = info.DateTaken
		}
		if !prev.IsZero() && info.DateTaken.Before(prev) {
			s.OutOfOrder++
		}
		prev = info.DateTaken
	}

	s.Extensions = sortedKeys(exts)
	s.Sizes = sortedKeys(sizes)
	return s
}

// CaptureRange describes the span of EXIF capture dates, or "" when no
// image carried one.
func (s SelectionSummary) CaptureRange() string {
	if s.Earliest.IsZero() {
		return ""
	}
	if s.Earliest.Equal(s.Latest) {
		return s.Earliest.Format(captureLayout)
	}
	return s.Earliest.Format(captureLayout) + " to " + s.Latest.Format(captureLayout)
}

// Warnings lists conditions that are likely to make the encode fail or look wrong.
func (s SelectionSummary) Warnings() []string {
	var warnings []string
	if len(s.Extensions) > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"mixed file types (%s): only files matching the first image's extension will be encoded",
			strings.Join(s.Extensions, ", ")))
	}
	if len(s.Sizes) > 1 {
		warnings = append(warnings, fmt.Sprintf("mixed dimensions (%s)", strings.Join(s.Sizes, ", ")))
	}
	if s.OddSized > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"%d image(s) have an odd width or height; yuv420p output needs even dimensions", s.OddSized))
	}
	if s.OutOfOrder > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"%d image(s) were captured earlier than the file before them; frames follow file order, not capture time", s.OutOfOrder))
	}
	return warnings
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
