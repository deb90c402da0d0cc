package config

// CatalogConfig is the top-level YAML structure: the puzzle catalog plus
// engine tunables.
type CatalogConfig struct {
	Version string     `yaml:"version"`
	Engine  EngineConf `yaml:"engine"`
	Puzzles []Puzzle   `yaml:"puzzles"`
}

// EngineConf holds oracle concurrency and timeout settings.
type EngineConf struct {
	Oracle          string `yaml:"oracle"` // default oracle name
	OracleWorkers   int    `yaml:"oracle_workers"`
	OracleTimeoutMs int    `yaml:"oracle_timeout_ms"`
	FailOpen        bool   `yaml:"fail_open"` // oracle timeout/error counts as related
}

// Puzzle defines one playable puzzle: the seed word, its theme, and a time
// limit. Sessions copy these values at start, so a catalog reload never
// disturbs a running game.
type Puzzle struct {
	ID               string `yaml:"id"`
	StartWord        string `yaml:"start_word"`
	Theme            string `yaml:"theme"`
	TimeLimitSeconds int    `yaml:"time_limit_seconds"`
	Oracle           string `yaml:"oracle,omitempty"` // per-puzzle override
}

// PuzzleByID returns the puzzle with the given id, or nil.
func (c *CatalogConfig) PuzzleByID(id string) *Puzzle {
	for i := range c.Puzzles {
		if c.Puzzles[i].ID == id {
			return &c.Puzzles[i]
		}
	}
	return nil
}
