// Package config loads the sample catalog from samples.yaml.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonpalmisc/limoncello/internal/core/domain"
	"github.com/jonpalmisc/limoncello/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// supportedVersion is the only catalog schema version understood.
const supportedVersion = "1"

var _ ports.CatalogLoader = (*Loader)(nil)

// Loader implements ports.CatalogLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load returns the catalog for cwd.
//
// An explicit path is read as is (relative to cwd). Otherwise samples.yaml is
// searched for in cwd and its parents; when none exists the built-in catalog
// rooted at cwd is returned.
func (l *Loader) Load(cwd, path string) (*domain.Catalog, error) {
	if path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		return l.loadSamplefile(path)
	}

	found, ok := findCatalog(cwd)
	if !ok {
		return domain.DefaultCatalog(filepath.Clean(cwd)), nil
	}
	return l.loadSamplefile(found)
}

func findCatalog(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.CatalogFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) loadSamplefile(configPath string) (*domain.Catalog, error) {
	var file Samplefile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if file.Version != "" && file.Version != supportedVersion {
		err := zerr.With(domain.ErrUnsupportedVersion, "version", file.Version)
		return nil, zerr.With(err, "path", configPath)
	}

	catalog := domain.DefaultCatalog(resolveRoot(configPath, file.Root))
	catalog.Layout = domain.Layout{
		SourceRoot:   file.Layout.Sources,
		ConfigRoot:   file.Layout.Configs,
		OutputRoot:   file.Layout.Output,
		ConfigExt:    strings.TrimPrefix(file.Layout.ConfigExt, "."),
		ConfigOption: strings.TrimPrefix(file.Layout.ConfigOption, "-"),
	}.WithDefaults()

	if len(file.Samples) == 0 {
		if l.Logger != nil {
			l.Logger.Warn(domain.CatalogFileName + " lists no samples, using the built-in catalog")
		}
	} else {
		entries, err := buildEntries(file.Samples)
		if err != nil {
			return nil, zerr.With(err, "path", configPath)
		}
		catalog.Entries = entries
	}

	if err := catalog.Validate(); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	return catalog, nil
}

func buildEntries(samples []SampleDTO) ([]domain.BuildEntry, error) {
	entries := make([]domain.BuildEntry, 0, len(samples))
	for i, dto := range samples {
		kind, err := domain.ParseProgramKind(dto.Kind)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "source", dto.Source), "index", i)
		}
		entries = append(entries, domain.BuildEntry{
			Kind:   kind,
			Source: strings.TrimSpace(dto.Source),
			Config: strings.TrimSpace(dto.Config),
		})
	}
	return entries, nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and strictly unmarshals it into the
// target struct. Unknown keys are rejected.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(configFile))
	dec.KnownFields(true)
	if parseErr := dec.Decode(target); parseErr != nil && !errors.Is(parseErr, io.EOF) {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
