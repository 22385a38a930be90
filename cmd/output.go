package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// printJSON writes v as indented JSON to stdout, keeping logs on stderr clean.
func printJSON(v any) error {
	return writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readTextArg returns inline text, or the contents of file when inline is empty.
func readTextArg(inline, file string) (string, error) {
	if strings.TrimSpace(inline) != "" || file == "" {
		return inline, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	return string(data), nil
}
