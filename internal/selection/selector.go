package selection

import (
	"fmt"
	"sort"

	"github.com/fpang/frame-render/internal/cli"
	"github.com/fpang/frame-render/internal/filehandler"
	"github.com/rs/zerolog/log"
)

// Selector drives the browse-and-pick dialogue.
type Selector struct {
	prompter *cli.Prompter
}

// NewSelector creates a Selector that talks through p.
func NewSelector(p *cli.Prompter) *Selector {
	return &Selector{prompter: p}
}

// PickIndices prompts until the answer parses to at least one index.
// A quit token returns cli.ErrQuit.
func (s *Selector) PickIndices(total int) ([]int, error) {
	label := fmt.Sprintf("Select [1-%d, '%s'] (or 'q' to quit): ", total, AllKeyword)
	for {
		input, err := s.prompter.Ask(label)
		if err != nil {
			return nil, err
		}
		if picks := ParseIndices(input, total); len(picks) > 0 {
			return picks, nil
		}
		fmt.Fprintln(s.prompter.Out(), "→ Invalid selection syntax. Try again.")
	}
}

// BrowseAndSelect lists root, asks for a selection and resolves it to image
// paths. An empty or unreadable root returns an empty result without
// prompting. A selection containing no images is reported and the listing
// is offered again.
func (s *Selector) BrowseAndSelect(root string) ([]string, error) {
	out := s.prompter.Out()
	for {
		entries, err := filehandler.ListEntries(root)
		if err != nil {
			log.Warn().Err(err).Str("root", root).Msg("Failed to list directory")
		}
		if len(entries) == 0 {
			fmt.Fprint(out, "→ No subfolders or images found here. Returning.\n\n")
			return nil, nil
		}

		fmt.Fprintf(out, "\nAvailable items in %s:\n", root)
		for i, e := range entries {
			tag := "[IMG]"
			if e.IsDir {
				tag = "[DIR]"
			}
			fmt.Fprintf(out, "  %3d: %s %s\n", i+1, tag, e.Name())
		}
		fmt.Fprintln(out)

		picks, err := s.PickIndices(len(entries))
		if err != nil {
			return nil, err
		}

		images := Resolve(entries, picks)
		if len(images) == 0 {
			fmt.Fprint(out, "→ No images found in your selection. Try again.\n\n")
			continue
		}

		log.Debug().
			Ints("picks", picks).
			Int("images", len(images)).
			Msg("Selection resolved")
		return images, nil
	}
}

// Resolve expands the picked entries into a deduplicated, path-ordered list
// of images. Directories contribute every image beneath them; files
// contribute themselves when they are images.
func Resolve(entries []Entry, picks []int) []string {
	seen := make(map[string]bool)
	for _, i := range picks {
		if i < 1 || i > len(entries) {
			continue
		}
		e := entries[i-1]
		if !e.IsDir {
			if filehandler.IsImagePath(e.Path) {
				seen[e.Path] = true
			}
			continue
		}

		images, err := filehandler.ScanImages(e.Path)
		if err != nil {
			log.Warn().Err(err).Str("dir", e.Path).Msg("Failed to scan selected directory")
			continue
		}
		for _, img := range images {
			seen[img] = true
		}
	}

	resolved := make([]string, 0, len(seen))
	for p := range seen {
		resolved = append(resolved, p)
	}
	sort.Strings(resolved)
	return resolved
}

// Entry aliases the listing row type so callers need not import filehandler.
type Entry = filehandler.Entry
