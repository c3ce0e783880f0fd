package blob

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// keyPrefix is where uploaded documents live inside the bucket.
const keyPrefix = "uploads"

// MakeStorageKey builds a collision-free storage key for an uploaded file,
// preserving the original name and suffix so the extractor can dispatch on
// it later: uploads/<uuid>_<name><ext>.
func MakeStorageKey(originalName string) string {
	base := path.Base(originalName)
	ext := path.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return keyPrefix + "/" + uuid.NewString() + "_" + name + ext
}
