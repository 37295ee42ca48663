package taxonomy

import (
	_ "embed"
	"fmt"
)

//go:embed demo.json
var demoJSON []byte

// Demo returns a fresh copy of the bundled demonstration dataset:
// five models, six schemes and seven two-level scene groups.
func Demo() (*Dataset, error) {
	ds, err := Parse(demoJSON, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("parsing demo dataset: %w", err)
	}
	return ds, nil
}
