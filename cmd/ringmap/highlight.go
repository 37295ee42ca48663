package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/ringmap/internal/surface"
)

var highlightSize sizeFlags

func init() {
	highlightSize.register(highlightCmd)
	rootCmd.AddCommand(highlightCmd)
}

var highlightCmd = &cobra.Command{
	Use:   "highlight [dataset] <node-id>",
	Short: "Show what selecting a node highlights",
	Long: `Show the nodes and edges highlighted when the node with the given id is
selected: its qualifying descendants, its ancestors and, through scheme
references, the related modules of the other rings.

Examples:
  ringmap highlight --demo model3
  ringmap highlight taxonomy.yaml scheme2 --human`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runHighlight,
}

func runHighlight(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	id := args[len(args)-1]
	ds, _ := mustLoadDataset(args[:len(args)-1], cfg)
	w, h := highlightSize.resolve(cfg)
	s := mustMount(ds, w, h)

	resp, err := highlightFor(s, id)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if !humanOutput {
		return outputJSON(resp)
	}
	outputHuman("%s (%s)\n", resp.Target, resp.Type)
	outputHuman("nodes: %s\n", joinIDs(resp.Nodes))
	outputHuman("edges: %s\n", joinIDs(resp.Edges))
	return nil
}

// highlightFor selects id on s and reports the resulting set.
func highlightFor(s *surface.Surface, id string) (HighlightResponse, error) {
	if err := s.Select(id); err != nil {
		return HighlightResponse{}, err
	}
	sel := s.Selection()
	return HighlightResponse{
		Target: sel.Start.ID,
		Type:   string(sel.Start.Type),
		Nodes:  sel.IDs(),
		Edges:  s.Scene().ActiveEdges(sel),
	}, nil
}
