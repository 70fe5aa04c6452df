package filestorage

import "io"

// Storage persists uploaded import files so a batch can be audited or
// reprocessed after a rollback.
type Storage interface {
	// Save stores the content under a generated name and returns the
	// stored path.
	Save(content io.Reader, originalName string) (string, error)
	// Open re-opens a stored file.
	Open(storedPath string) (io.ReadSeekCloser, error)
	// Remove deletes a stored file.
	Remove(storedPath string) error
}
