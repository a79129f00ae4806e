package filestore

import (
	"io"
)

// FileManager stores dataset and run files. Paths returned by the Get*
// helpers are passed back to Create and Get unchanged. Get fails with an
// error satisfying os.IsNotExist for a missing file.
type FileManager interface {
	Create(dir, fileName string, reader io.Reader) error
	Get(dir, fileName string) (io.ReadCloser, error)
	GetObjectSize(dir, fileName string) (int64, error)
	GetBucketName() string
	GetDatasetDir(datasetId string) string
	GetSequencesFilePathAndName(datasetId string) (string, string)
	GetRunDir(datasetId, runId string) string
	GetResultsFilePathAndName(datasetId, runId string) (string, string)
}
