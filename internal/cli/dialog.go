package cli

import (
	"errors"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// ChooseDirectory asks for a directory, through a native folder picker when
// useDialog is set and a desktop session can show one, otherwise (or when the
// dialog fails) through a text prompt defaulting to def.
func (p *Prompter) ChooseDirectory(title, def string, useDialog bool) (string, error) {
	if useDialog {
		selected, err := zenity.SelectFile(
			zenity.Directory(),
			zenity.Title(title),
			zenity.Filename(def),
		)
		switch {
		case err == nil && selected != "":
			return selected, nil
		case errors.Is(err, zenity.ErrCanceled):
			log.Debug().Msg("Folder dialog canceled, falling back to prompt")
		case err != nil:
			log.Warn().Err(err).Msg("Folder dialog unavailable, falling back to prompt")
		}
	}

	return p.PromptForDirectory(def)
}
