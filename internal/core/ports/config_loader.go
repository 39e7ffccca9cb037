package ports

import "github.com/jonpalmisc/limoncello/internal/core/domain"

// CatalogLoader defines the interface for loading the sample catalog.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type CatalogLoader interface {
	// Load returns the catalog for cwd. An explicit path takes precedence over
	// discovery; without any catalog file the built-in catalog is returned.
	Load(cwd, path string) (*domain.Catalog, error)
}
