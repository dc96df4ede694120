package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/venturelens/pitchmeter/internal/scoring"
)

// Tables bundles the data-driven lookup tables the scoring pipeline consumes.
type Tables struct {
	References scoring.ReferenceTable                             `yaml:"references"`
	Cohorts    map[string]map[string]scoring.CohortStats          `yaml:"cohorts"`
	Benchmarks map[string]map[string]map[string]scoring.Quartiles `yaml:"benchmarks"`
}

// DefaultTables returns the compiled-in tables used when no file is supplied.
// Cohorts default to empty: the benchmark engine then degrades to static
// score bands, which is the documented lower-fidelity path.
func DefaultTables() *Tables {
	return &Tables{
		References: scoring.DefaultReferences(),
		Cohorts:    map[string]map[string]scoring.CohortStats{},
	}
}

// LoadTables reads scoring tables from a YAML file. A missing or empty path
// yields the defaults; sections absent from the file keep their defaults.
func LoadTables(path string) (*Tables, error) {
	tables := DefaultTables()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tables, nil
		}
		return nil, fmt.Errorf("read tables: %w", err)
	}

	loaded := Tables{}
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse tables: %w", err)
	}

	if loaded.References != nil {
		tables.References = loaded.References
	}
	if loaded.Cohorts != nil {
		tables.Cohorts = loaded.Cohorts
	}
	if loaded.Benchmarks != nil {
		tables.Benchmarks = loaded.Benchmarks
	}
	return tables, nil
}

// CohortStore exposes the cohort section as the read-only store interface.
func (t *Tables) CohortStore() scoring.CohortStore {
	return scoring.StaticCohortStore(t.Cohorts)
}

// MetricBenchmarks exposes the quartile section as a benchmark table set.
func (t *Tables) MetricBenchmarks() *scoring.MetricBenchmarks {
	return scoring.NewMetricBenchmarks(t.Benchmarks)
}
