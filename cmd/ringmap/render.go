package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/ringmap/internal/opener"
	"github.com/matsen/ringmap/internal/surface"
	"github.com/matsen/ringmap/internal/viz"
)

var (
	renderOutput string
	renderSVG    bool
	renderSelect string
	renderTitle  string
	renderOpen   bool
	renderSize   sizeFlags
)

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file path (default: stdout)")
	renderCmd.Flags().BoolVar(&renderSVG, "svg", false, "Write a bare SVG instead of an HTML page")
	renderCmd.Flags().StringVar(&renderSelect, "select", "", "Node id to select before rendering")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "Page title")
	renderCmd.Flags().BoolVar(&renderOpen, "open", false, "Open the output file in the configured viewer")
	renderSize.register(renderCmd)
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render [dataset]",
	Short: "Render the ring diagram",
	Long: `Render the ring diagram as an interactive HTML page or a bare SVG.

The page embeds the SVG and a small script: hovering a node highlights
everything related to it and shows its tooltip, clicking selects, the
wheel zooms (0.5x to 4x) and dragging pans.

Examples:
  # Demo page to stdout
  ringmap render --demo > demo.html

  # SVG with scheme2 selected
  ringmap render taxonomy.yaml --svg --select scheme2 -o scheme2.svg

  # Write and open in the browser
  ringmap render taxonomy.yaml -o map.html --open`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	ds, _ := mustLoadDataset(args, cfg)
	w, h := renderSize.resolve(cfg)
	s := mustMount(ds, w, h)

	if renderSelect != "" {
		if err := s.Select(renderSelect); err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
	}

	out, err := renderBytes(s, renderSVG, renderTitle)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	if renderOutput == "" {
		if renderOpen {
			exitWithError(ExitError, "--open requires --output")
		}
		_, err := os.Stdout.Write(out)
		return err
	}

	if err := os.WriteFile(renderOutput, out, 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	format := "html"
	if renderSVG {
		format = "svg"
	}
	if humanOutput {
		outputHuman("Diagram written to %s\n", renderOutput)
	} else {
		outputJSON(RenderResponse{Output: renderOutput, Format: format, Bytes: len(out)})
	}

	if renderOpen {
		if err := opener.New(cfg.Viewer).Open(renderOutput); err != nil {
			exitWithError(ExitError, "opening %s: %v", renderOutput, err)
		}
	}
	return nil
}

// renderBytes produces the HTML page, or the SVG when svg is set.
func renderBytes(s *surface.Surface, svg bool, title string) ([]byte, error) {
	if svg {
		var buf bytes.Buffer
		if err := s.WriteSVG(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	page, err := viz.GenerateHTML(s, viz.HTMLOptions{Title: title})
	if err != nil {
		return nil, err
	}
	return []byte(page), nil
}
