// Package short provides fixed-length search ID generation.
package short

import (
	"fmt"

	"github.com/google/uuid"
)

// Length is the number of characters in a generated ID.
const Length = 8

// Generator creates fixed-length alphanumeric IDs derived from UUIDs.
// Collision probability is negligible at expected scale.
type Generator struct{}

// New creates a new Generator.
func New() *Generator {
	return &Generator{}
}

// NewID returns the first Length characters of a random UUID (lowercase hex).
func (Generator) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return id.String()[:Length], nil
}
