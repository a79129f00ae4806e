package s3

import (
	"fmt"
	"io"
	"os"
	"seqminer/filestore"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	log "github.com/sirupsen/logrus"
)

var _ filestore.FileManager = (*S3Driver)(nil)

type S3Driver struct {
	s3         *s3.S3
	uploader   *s3manager.Uploader
	BucketName string
	Region     string
}

func New(bucketName, region string) *S3Driver {
	sess := session.Must(session.NewSession(aws.NewConfig().WithRegion(region)))
	return &S3Driver{
		s3:         s3.New(sess),
		uploader:   s3manager.NewUploader(sess),
		BucketName: bucketName,
		Region:     region,
	}
}

// Create streams reader to the bucket. The uploader switches to multipart
// uploads for large result files.
func (sd *S3Driver) Create(dir, fileName string, reader io.Reader) error {
	logCtx := log.WithFields(log.Fields{
		"Dir":        dir,
		"FileName":   fileName,
		"BucketName": sd.BucketName,
		"Region":     sd.Region,
	})
	logCtx.Debug("S3Driver Creating file")

	_, err := sd.uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(sd.BucketName),
		Key:    aws.String(dir + fileName),
		Body:   reader,
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to upload object.")
	}
	return err
}

func (sd *S3Driver) Get(dir, fileName string) (io.ReadCloser, error) {
	op, err := sd.s3.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(sd.BucketName),
		Key:    aws.String(dir + fileName),
	})
	if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
		return nil, &os.PathError{Op: "get", Path: dir + fileName, Err: os.ErrNotExist}
	}
	if err != nil {
		return nil, err
	}
	return op.Body, nil
}

func (sd *S3Driver) GetObjectSize(dir, fileName string) (int64, error) {
	op, err := sd.s3.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(sd.BucketName),
		Key:    aws.String(dir + fileName),
	})
	if err != nil {
		return 0, err
	}
	return aws.Int64Value(op.ContentLength), nil
}

func (sd *S3Driver) GetBucketName() string {
	return sd.BucketName
}

func (sd *S3Driver) GetDatasetDir(datasetId string) string {
	return fmt.Sprintf("datasets/%s/", datasetId)
}

func (sd *S3Driver) GetSequencesFilePathAndName(datasetId string) (string, string) {
	return sd.GetDatasetDir(datasetId), "sequences.csv"
}

func (sd *S3Driver) GetRunDir(datasetId, runId string) string {
	return fmt.Sprintf("%sruns/%s/", sd.GetDatasetDir(datasetId), runId)
}

func (sd *S3Driver) GetResultsFilePathAndName(datasetId, runId string) (string, string) {
	return sd.GetRunDir(datasetId, runId), "results.txt"
}
