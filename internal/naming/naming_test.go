package naming

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_InvalidCharacters(t *testing.T) {
	assert.Equal(t, "my_photos", Sanitize("my:photos"))
	assert.Equal(t, "a_b_c", Sanitize(`a<b>c`))
	assert.Equal(t, "q_uoted", Sanitize(`q"uoted`))
}

func TestSanitize_Whitespace(t *testing.T) {
	assert.Equal(t, "tax_docs_2024", Sanitize("tax docs  2024"))
	assert.Equal(t, "a_b", Sanitize("a\t\nb"))
}

func TestSanitize_TrimsUnderscores(t *testing.T) {
	assert.Equal(t, "name", Sanitize("  name  "))
	assert.Equal(t, "name", Sanitize("__name__"))
}

func TestSanitize_Empty(t *testing.T) {
	assert.Equal(t, "", Sanitize("???"))
	assert.Equal(t, "", Sanitize("   "))
}

func TestSafeName_Leaf(t *testing.T) {
	p := filepath.Join(string(filepath.Separator), "home", "alice", "my photos")
	assert.Equal(t, "my_photos", SafeName(p))
}

func TestSafeName_FallbackWhenEmpty(t *testing.T) {
	p := filepath.Join(string(filepath.Separator), "data", "***")
	assert.Equal(t, fallbackName, SafeName(p))
}

func TestSafeName_Idempotent(t *testing.T) {
	for _, in := range []string{"my photos", "a:b", "plain", "  x  "} {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestSafeName_RootUsesVolumeLabel(t *testing.T) {
	orig := volumeLabel
	defer func() { volumeLabel = orig }()
	volumeLabel = func(root string) string { return "My Data" }

	root := string(filepath.Separator)
	if runtime.GOOS == "windows" {
		root = `C:\`
	}
	assert.Equal(t, "My_Data", SafeName(root))
}

func TestSafeName_RootWithoutLabel(t *testing.T) {
	orig := volumeLabel
	defer func() { volumeLabel = orig }()
	volumeLabel = func(root string) string { return "" }

	if runtime.GOOS == "windows" {
		assert.Equal(t, "C_root", SafeName(`C:\`))
	} else {
		assert.Equal(t, "root", SafeName("/"))
	}
}

func TestReadVolumeLabel_NoLabelPlatforms(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("windows reads real volume labels")
	}
	assert.Equal(t, "", readVolumeLabel("/"))
}

func TestArchiveName(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, "photos_20260314-092653.7z", ArchiveName("photos", ts))
}

func TestArchiveName_DistinguishesRuns(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.NotEqual(t, ArchiveName("p", ts), ArchiveName("p", ts.Add(time.Second)))
}
