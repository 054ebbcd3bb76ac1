// Package store defines the external name-store collaborator: an opaque
// keyed byte store that serializes conflicting writes by sequence number.
package store

import "context"

// Store is the minimal contract a name service must honor.
//
// Contract:
// - Get MUST return ErrNotFound when no record is published under name.
// - Put MUST reject with ErrConflict a write whose seq is not greater than
//   the sequence it currently holds for name. This compare-and-swap is what
//   closes the fetch-to-publish race between independent publishers.
// - Both calls may suspend on I/O and honor ctx cancellation.
type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, rec []byte, seq uint64) error
}
