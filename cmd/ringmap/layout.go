package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/ringmap/internal/surface"
	"github.com/matsen/ringmap/internal/taxonomy"
)

var layoutSize sizeFlags

func init() {
	layoutSize.register(layoutCmd)
	rootCmd.AddCommand(layoutCmd)
}

var layoutCmd = &cobra.Command{
	Use:   "layout [dataset]",
	Short: "Print node positions, edges and relations",
	Long: `Print the positioned diagram: ring bands, every drawn node with its
angle, radius and cartesian position, every edge with its SVG path, the
resolved scheme relations and any member ids that matched nothing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLayout,
}

func runLayout(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	ds, _ := mustLoadDataset(args, cfg)
	w, h := layoutSize.resolve(cfg)
	ex := mustMount(ds, w, h).Scene().Export()

	if !humanOutput {
		return outputJSON(ex)
	}
	printLayout(ex)
	return nil
}

func printLayout(ex surface.Export) {
	for _, r := range ex.Rings {
		outputHuman("ring %-6s %7.1f .. %7.1f\n", r.Type, r.Band.Inner, r.Band.Outer)
	}
	outputHuman("\n")

	counts := make(map[taxonomy.ModuleType]int)
	for _, n := range ex.Nodes {
		counts[n.Hierarchy]++
		outputHuman("%-8s %-20s %-7s angle %6.1f radius %6.1f\n", n.Hierarchy, n.ID, n.Type, n.Angle, n.Radius)
	}
	outputHuman("\n")
	for _, t := range taxonomy.Types {
		outputHuman("%s: %d nodes\n", t, counts[t])
	}
	outputHuman("edges: %d\n", len(ex.Edges))
	outputHuman("relations: %d\n", len(ex.Relations))
	if len(ex.Unresolved) > 0 {
		outputHuman("unresolved:\n")
		for _, u := range ex.Unresolved {
			outputHuman("  %s -> %q\n", u.Scheme, u.ID)
		}
	}
}
