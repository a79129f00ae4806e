package disk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"seqminer/filestore"

	log "github.com/sirupsen/logrus"
)

var _ filestore.FileManager = (*DiskDriver)(nil)

type DiskDriver struct {
	// Root of every path handed out. Analogous to a bucket name.
	baseDir string
}

func New(baseDir string) *DiskDriver {
	return &DiskDriver{baseDir: baseDir}
}

func MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// Create writes reader to dir/fileName, creating dir when missing. The file
// is written under a temporary name and renamed so readers never see a
// partial file.
func (dd *DiskDriver) Create(dir, fileName string, reader io.Reader) error {
	if err := MkdirAll(dir); err != nil {
		log.WithError(err).WithField("dir", dir).Error("Failed to create dir.")
		return err
	}

	target := filepath.Join(dir, fileName)
	tmp, err := os.CreateTemp(dir, fileName+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// Get opens a file in read only mode.
// Caller should take care of closing the returned io.ReadCloser.
func (dd *DiskDriver) Get(dir, fileName string) (io.ReadCloser, error) {
	log.WithFields(log.Fields{
		"Path":     dir,
		"FileName": fileName,
	}).Debug("DiskDriver Opening file")

	return os.Open(filepath.Join(dir, fileName))
}

func (dd *DiskDriver) GetBucketName() string {
	return dd.baseDir
}

func (dd *DiskDriver) GetObjectSize(dir, fileName string) (int64, error) {
	info, err := os.Stat(filepath.Join(dir, fileName))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (dd *DiskDriver) GetDatasetDir(datasetId string) string {
	return fmt.Sprintf("%s/datasets/%s/", dd.baseDir, datasetId)
}

func (dd *DiskDriver) GetSequencesFilePathAndName(datasetId string) (string, string) {
	return dd.GetDatasetDir(datasetId), "sequences.csv"
}

func (dd *DiskDriver) GetRunDir(datasetId, runId string) string {
	return fmt.Sprintf("%sruns/%s/", dd.GetDatasetDir(datasetId), runId)
}

func (dd *DiskDriver) GetResultsFilePathAndName(datasetId, runId string) (string, string) {
	return dd.GetRunDir(datasetId, runId), "results.txt"
}

// ListRuns returns the run ids stored for a dataset.
func (dd *DiskDriver) ListRuns(datasetId string) []string {
	runs := make([]string, 0)
	entries, err := os.ReadDir(dd.GetDatasetDir(datasetId) + "runs")
	if err != nil {
		log.WithError(err).WithField("dataset_id", datasetId).Debug("No runs found.")
		return runs
	}
	for _, entry := range entries {
		if entry.IsDir() {
			runs = append(runs, entry.Name())
		}
	}
	return runs
}
