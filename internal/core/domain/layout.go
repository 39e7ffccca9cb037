package domain

import "path/filepath"

const (
	// CatalogFileName is the name of the optional catalog configuration file.
	CatalogFileName = "samples.yaml"

	// DefaultSourceRoot is where sample sources live.
	DefaultSourceRoot = "test/Samples"

	// DefaultConfigRoot is where transformation configurations live.
	DefaultConfigRoot = "test/Configs"

	// DefaultOutputRoot is where build artifacts are written.
	DefaultOutputRoot = "test/Samples/Output"

	// DefaultConfigExt is the file extension of transformation configurations.
	DefaultConfigExt = "yml"

	// DefaultConfigOption is the plugin option that receives the configuration path.
	DefaultConfigOption = "limoncello-config"

	// BuiltinConfigTag tags transform-enabled artifacts of entries without a config.
	BuiltinConfigTag = "builtin"

	// DefaultWorkers is the default size of the worker pool.
	DefaultWorkers = 8

	// DefaultFilter matches every sample.
	DefaultFilter = "*"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750
)

// Layout describes where sources, configurations and artifacts live.
type Layout struct {
	SourceRoot   string
	ConfigRoot   string
	OutputRoot   string
	ConfigExt    string
	ConfigOption string
}

// DefaultLayout returns the layout of the Limoncello source tree.
func DefaultLayout() Layout {
	return Layout{
		SourceRoot:   DefaultSourceRoot,
		ConfigRoot:   DefaultConfigRoot,
		OutputRoot:   DefaultOutputRoot,
		ConfigExt:    DefaultConfigExt,
		ConfigOption: DefaultConfigOption,
	}
}

// WithDefaults fills empty fields from DefaultLayout.
func (l Layout) WithDefaults() Layout {
	d := DefaultLayout()
	if l.SourceRoot == "" {
		l.SourceRoot = d.SourceRoot
	}
	if l.ConfigRoot == "" {
		l.ConfigRoot = d.ConfigRoot
	}
	if l.OutputRoot == "" {
		l.OutputRoot = d.OutputRoot
	}
	if l.ConfigExt == "" {
		l.ConfigExt = d.ConfigExt
	}
	if l.ConfigOption == "" {
		l.ConfigOption = d.ConfigOption
	}
	return l
}

// SourcePath returns the path of a sample source file.
func (l Layout) SourcePath(source string) string {
	return filepath.Join(l.SourceRoot, source)
}

// ConfigPath returns the path of a transformation configuration file.
func (l Layout) ConfigPath(config string) string {
	return filepath.Join(l.ConfigRoot, config+"."+l.ConfigExt)
}

// OutputPath returns the path of a build artifact.
func (l Layout) OutputPath(name string) string {
	return filepath.Join(l.OutputRoot, name)
}
