package config

// Loader supplies the language configuration for one invocation. The
// orchestrator calls Load on every invocation and never caches the result.
type Loader interface {
	Load() (*Config, error)
}

// FileLoader reads the configuration from Path. With an empty Path it
// searches the working directory and its parents when Search is set, and
// falls back to the defaults when nothing is found.
type FileLoader struct {
	Path   string
	Search bool
}

// Load implements Loader.
func (l FileLoader) Load() (*Config, error) {
	path := l.Path
	if path == "" && l.Search {
		path = FindConfigFile()
	}
	if path == "" {
		return NewConfig(), nil
	}
	return LoadConfig(path)
}

// StaticLoader hands out copies of a fixed configuration.
type StaticLoader struct {
	Config *Config
}

// Load implements Loader.
func (l StaticLoader) Load() (*Config, error) {
	if l.Config == nil {
		return NewConfig(), nil
	}
	cfg := l.Config.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
