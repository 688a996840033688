package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const slugSuffixLen = 5

// MakeSlug derives a URL slug from a writeup title: normalized title plus a
// short random suffix. The suffix keeps equal titles from colliding in the
// common case; the unique index on the collection is the real guard.
func MakeSlug(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "writeup"
	}
	return base + "-" + randomSuffix()
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:slugSuffixLen]
}
