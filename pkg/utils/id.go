package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateID returns a new unique identifier with a type prefix,
// e.g. "auction-1b4e28ba-...".
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String())
}
