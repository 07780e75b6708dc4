package filestore

import (
	"io"
)

// FileManager stores run artifacts. Paths returned by the Get*PathAndName
// methods are meant to be passed back to Create and Get.
type FileManager interface {
	Create(dir, fileName string, reader io.Reader) error
	Get(dir, fileName string) (io.ReadCloser, error)
	GetBucketName() string
	GetRunDir(runID string) string
	GetResultFilePathAndName(runID, outputFile string) (string, string)
	GetStatsFilePathAndName(runID, outputFile string) (string, string)
}
