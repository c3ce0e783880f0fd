package blob

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeStorageKey(t *testing.T) {
	key := MakeStorageKey("report.pdf")
	assert.True(t, strings.HasPrefix(key, "uploads/"))
	assert.True(t, strings.HasSuffix(key, "_report.pdf"))

	other := MakeStorageKey("report.pdf")
	assert.NotEqual(t, key, other, "keys must be collision-free")
}

func TestMakeStorageKeyStripsDirectories(t *testing.T) {
	key := MakeStorageKey("../../etc/passwd")
	assert.True(t, strings.HasPrefix(key, "uploads/"))
	assert.NotContains(t, strings.TrimPrefix(key, "uploads/"), "/")
}

func TestMakeStorageKeyNoExtension(t *testing.T) {
	key := MakeStorageKey("LICENSE")
	assert.True(t, strings.HasSuffix(key, "_LICENSE"))
}
