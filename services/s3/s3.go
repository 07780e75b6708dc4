package s3

import (
	"fmt"
	"io"
	"path"

	"starmine/filestore"

	"github.com/aws/aws-sdk-go/aws"
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
	client := s3.New(sess)
	return &S3Driver{
		s3:         client,
		uploader:   s3manager.NewUploaderWithClient(client),
		BucketName: bucketName,
		Region:     region,
	}
}

func (sd *S3Driver) key(dir, fileName string) string {
	return path.Join(dir, fileName)
}

func (sd *S3Driver) Create(dir, fileName string, reader io.Reader) error {
	log.WithFields(log.Fields{
		"Dir":        dir,
		"BucketName": sd.BucketName,
		"Region":     sd.Region,
	}).Debug("S3Driver Creating file")

	_, err := sd.uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(sd.BucketName),
		Key:    aws.String(sd.key(dir, fileName)),
		Body:   reader,
	})
	return err
}

func (sd *S3Driver) Get(dir, fileName string) (io.ReadCloser, error) {
	input := s3.GetObjectInput{
		Bucket: aws.String(sd.BucketName),
		Key:    aws.String(sd.key(dir, fileName)),
	}
	op, err := sd.s3.GetObject(&input)
	if err != nil {
		return nil, err
	}
	return op.Body, nil
}

func (sd *S3Driver) GetBucketName() string {
	return sd.BucketName
}

func (sd *S3Driver) GetRunDir(runID string) string {
	return fmt.Sprintf("runs/%s/", runID)
}

func (sd *S3Driver) GetResultFilePathAndName(runID, outputFile string) (string, string) {
	return sd.GetRunDir(runID), filestore.ResultFileName(outputFile)
}

func (sd *S3Driver) GetStatsFilePathAndName(runID, outputFile string) (string, string) {
	return sd.GetRunDir(runID), filestore.StatsFileName(outputFile)
}
