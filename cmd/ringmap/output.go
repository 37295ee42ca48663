package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	return writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// RenderResponse is the response for render commands that write a file.
type RenderResponse struct {
	Output string `json:"output"`
	Format string `json:"format"`
	Bytes  int    `json:"bytes"`
}

// CountResponse is the response for catalog commands.
type CountResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
	Path    string `json:"path"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// HighlightResponse is the response for the highlight command.
type HighlightResponse struct {
	Target string   `json:"target"`
	Type   string   `json:"type"`
	Nodes  []string `json:"nodes"`
	Edges  []string `json:"edges"`
}
