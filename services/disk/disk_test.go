package disk

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateAndGet(t *testing.T) {
	baseDir, err := os.MkdirTemp("", "seqminer_disk_")
	assert.Nil(t, err)
	defer os.RemoveAll(baseDir)

	dd := New(baseDir)
	path, name := dd.GetResultsFilePathAndName("d1", "r1")
	assert.Equal(t, baseDir+"/datasets/d1/runs/r1/", path)
	assert.Equal(t, "results.txt", name)

	assert.Nil(t, dd.Create(path, name, strings.NewReader("first")))
	// Overwrites.
	assert.Nil(t, dd.Create(path, name, strings.NewReader("second line")))

	rc, err := dd.Get(path, name)
	assert.Nil(t, err)
	content, err := io.ReadAll(rc)
	rc.Close()
	assert.Nil(t, err)
	assert.Equal(t, "second line", string(content))

	size, err := dd.GetObjectSize(path, name)
	assert.Nil(t, err)
	assert.Equal(t, int64(len("second line")), size)

	assert.Equal(t, []string{"r1"}, dd.ListRuns("d1"))
	assert.Empty(t, dd.ListRuns("missing"))

	_, err = dd.Get(path, "missing.txt")
	assert.True(t, os.IsNotExist(err))
}
