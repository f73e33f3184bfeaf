package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrQuit is returned by any top-level prompt when the user types a quit
// token or closes standard input. It ends the whole session.
var ErrQuit = errors.New("quit requested")

// IsQuit reports whether input is one of the quit tokens ("q", "quit").
func IsQuit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "q", "quit":
		return true
	}
	return false
}

// Prompter reads answers line by line from an input stream and writes
// prompts to an output stream.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter over the given streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Out returns the writer prompts are printed to.
func (p *Prompter) Out() io.Writer {
	return p.out
}

// readLine prints label and returns the trimmed answer.
// End of input with nothing typed is reported as ErrQuit.
func (p *Prompter) readLine(label string) (string, error) {
	fmt.Fprint(p.out, label)

	input, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(input) != "" {
			return strings.TrimSpace(input), nil
		}
		if !errors.Is(err, io.EOF) {
			log.Warn().Err(err).Msg("Failed to read input")
		}
		fmt.Fprintln(p.out)
		return "", ErrQuit
	}

	return strings.TrimSpace(input), nil
}

// Ask prompts for a line of input. Quit tokens return ErrQuit.
func (p *Prompter) Ask(label string) (string, error) {
	input, err := p.readLine(label)
	if err != nil {
		return "", err
	}
	if IsQuit(input) {
		return "", ErrQuit
	}
	return input, nil
}

// AskText prompts for free text (scene descriptions, narration). Quit tokens
// are returned as typed; only end of input ends the session.
func (p *Prompter) AskText(label string) (string, error) {
	return p.readLine(label)
}

// AskDefault prompts for a line of input, returning def when the answer is blank.
func (p *Prompter) AskDefault(label, def string) (string, error) {
	input, err := p.Ask(fmt.Sprintf("%s [default '%s']: ", label, def))
	if err != nil {
		return "", err
	}
	if input == "" {
		return def, nil
	}
	return input, nil
}

// AskInt prompts for an integer. Blank, unparsable, or rejected answers fall
// back to def.
func (p *Prompter) AskInt(label string, def int, valid func(int) bool) (int, error) {
	input, err := p.Ask(fmt.Sprintf("%s [%d]: ", label, def))
	if err != nil {
		return 0, err
	}
	if input == "" {
		return def, nil
	}
	v, err := strconv.Atoi(input)
	if err != nil || (valid != nil && !valid(v)) {
		log.Debug().Str("input", input).Int("default", def).Msg("Invalid integer, using default")
		return def, nil
	}
	return v, nil
}

// AskFloat prompts for a float. Blank, unparsable, non-finite, or rejected
// answers fall back to def.
func (p *Prompter) AskFloat(label string, def float64, valid func(float64) bool) (float64, error) {
	input, err := p.Ask(fmt.Sprintf("%s [%s]: ", label, strconv.FormatFloat(def, 'f', 1, 64)))
	if err != nil {
		return 0, err
	}
	if input == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || (valid != nil && !valid(v)) {
		log.Debug().Str("input", input).Float64("default", def).Msg("Invalid number, using default")
		return def, nil
	}
	return v, nil
}

// Confirm asks a yes/no question defaulting to no. Only "y" and "yes" confirm.
func (p *Prompter) Confirm(label string) (bool, error) {
	input, err := p.Ask(label + " [y/N]: ")
	if err != nil {
		return false, err
	}
	input = strings.ToLower(input)
	return input == "y" || input == "yes", nil
}

// PromptForDirectory prompts the user for a directory path.
// Returns def if the user enters nothing.
func (p *Prompter) PromptForDirectory(def string) (string, error) {
	input, err := p.Ask(fmt.Sprintf("Directory [%s]: ", def))
	if err != nil {
		return "", err
	}
	if input == "" {
		return def, nil
	}
	return input, nil
}
