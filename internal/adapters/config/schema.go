package config

// Samplefile represents the structure of the samples.yaml catalog file.
type Samplefile struct {
	Version string      `yaml:"version"`
	Root    string      `yaml:"root"`
	Layout  LayoutDTO   `yaml:"layout"`
	Samples []SampleDTO `yaml:"samples"`
}

// LayoutDTO overrides parts of the default directory layout.
type LayoutDTO struct {
	Sources      string `yaml:"sources"`
	Configs      string `yaml:"configs"`
	Output       string `yaml:"output"`
	ConfigExt    string `yaml:"configExt"`
	ConfigOption string `yaml:"configOption"`
}

// SampleDTO represents one catalog entry in the configuration.
type SampleDTO struct {
	Source string `yaml:"source"`
	Kind   string `yaml:"kind"`
	Config string `yaml:"config"`
}
