package internal

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ReadInput reads the whole input, from stdin when path is "-" or empty.
// Discovery needs the complete buffer before any probe runs.
func ReadInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// WriteOutput writes the converted key, to stdout when path is "-" or empty.
// Binary (DER) output to an interactive terminal is refused: it garbles the
// terminal and is never what the operator meant.
func WriteOutput(path string, data []byte, binary bool) error {
	if path == "" || path == "-" {
		if binary && isatty.IsTerminal(os.Stdout.Fd()) {
			return fmt.Errorf("refusing to write DER output to a terminal; redirect to a file or use --out")
		}
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing stdout: %w", err)
		}
		return nil
	}
	// Private key output: owner read/write only.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
