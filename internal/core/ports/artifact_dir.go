package ports

// ArtifactDir manages the directory build artifacts are written to.
//
//go:generate go run go.uber.org/mock/mockgen -source=artifact_dir.go -destination=mocks/mock_artifact_dir.go -package=mocks
type ArtifactDir interface {
	// Prepare creates dir below root if it does not exist.
	Prepare(root, dir string) error
	// Clean removes dir below root and reports whether it existed.
	Clean(root, dir string) (bool, error)
}
