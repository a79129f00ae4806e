package gcstorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"seqminer/filestore"

	"cloud.google.com/go/storage"
	log "github.com/sirupsen/logrus"
)

var _ filestore.FileManager = (*GCSDriver)(nil)

type GCSDriver struct {
	client     *storage.Client
	BucketName string
}

func New(bucketName string) (*GCSDriver, error) {
	client, err := storage.NewClient(context.Background())
	if err != nil {
		return nil, err
	}
	return &GCSDriver{BucketName: bucketName, client: client}, nil
}

func (gcsd *GCSDriver) Create(dir, fileName string, reader io.Reader) error {
	ctx := context.Background()
	obj := gcsd.client.Bucket(gcsd.BucketName).Object(dir + fileName)
	w := obj.NewWriter(ctx)
	if _, err := io.Copy(w, reader); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		log.WithError(err).WithField("object", dir+fileName).Error("Failed to write object.")
		return err
	}
	return nil
}

func (gcsd *GCSDriver) Get(dir, fileName string) (io.ReadCloser, error) {
	obj := gcsd.client.Bucket(gcsd.BucketName).Object(dir + fileName)
	rc, err := obj.NewReader(context.Background())
	if err == storage.ErrObjectNotExist {
		return nil, &os.PathError{Op: "get", Path: dir + fileName, Err: os.ErrNotExist}
	}
	return rc, err
}

func (gcsd *GCSDriver) GetObjectSize(dir, fileName string) (int64, error) {
	attrs, err := gcsd.client.Bucket(gcsd.BucketName).Object(dir + fileName).Attrs(context.Background())
	if err == storage.ErrObjectNotExist {
		return 0, &os.PathError{Op: "stat", Path: dir + fileName, Err: os.ErrNotExist}
	}
	if err != nil {
		return 0, err
	}
	return attrs.Size, nil
}

func (gcsd *GCSDriver) GetBucketName() string {
	return gcsd.BucketName
}

func (gcsd *GCSDriver) GetDatasetDir(datasetId string) string {
	return fmt.Sprintf("datasets/%s/", datasetId)
}

func (gcsd *GCSDriver) GetSequencesFilePathAndName(datasetId string) (string, string) {
	return gcsd.GetDatasetDir(datasetId), "sequences.csv"
}

func (gcsd *GCSDriver) GetRunDir(datasetId, runId string) string {
	return fmt.Sprintf("%sruns/%s/", gcsd.GetDatasetDir(datasetId), runId)
}

func (gcsd *GCSDriver) GetResultsFilePathAndName(datasetId, runId string) (string, string) {
	return gcsd.GetRunDir(datasetId, runId), "results.txt"
}
