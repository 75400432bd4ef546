package archive

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sppack/sppack/pkg/core"
)

func sampleFiles() []core.PackageFile {
	return []core.PackageFile{
		{Name: "Manifest.xml", Contents: []byte("<SPObjects />")},
		{Name: "Requirements.xml", Contents: []byte("<Requirements />")},
	}
}

func TestWriter_WriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(nil)

	require.NoError(t, w.WriteDir(dir, sampleFiles()))

	got, err := os.ReadFile(filepath.Join(dir, "Manifest.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<SPObjects />", string(got))

	// A second run overwrites in place.
	files := sampleFiles()
	files[0].Contents = []byte("<SPObjects>v2</SPObjects>")
	require.NoError(t, w.WriteDir(dir, files))

	got, err = os.ReadFile(filepath.Join(dir, "Manifest.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<SPObjects>v2</SPObjects>", string(got))
}

func TestWriter_WriteArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "package.zip")
	w := NewWriter(nil)

	require.NoError(t, w.WriteArchive(path, sampleFiles()))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, 2)
	names := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		names[f.Name] = string(body)
	}
	assert.Equal(t, "<SPObjects />", names["Manifest.xml"])
	assert.Equal(t, "<Requirements />", names["Requirements.xml"])

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
