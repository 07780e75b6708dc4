package disk

import (
	"io"
	"os"
	"path/filepath"

	"starmine/filestore"

	log "github.com/sirupsen/logrus"
)

var _ filestore.FileManager = (*DiskDriver)(nil)

type DiskDriver struct {
	// Root of every run directory. When empty, results are written to the
	// output path as given.
	baseDir string
}

func New(baseDir string) *DiskDriver {
	return &DiskDriver{baseDir: baseDir}
}

func MkdirAll(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, 0755)
}

func (dd *DiskDriver) Create(dir, fileName string, reader io.Reader) error {
	err := MkdirAll(dir)
	if err != nil {
		log.WithError(err).Errorln("Failed to create dir")
		return err
	}

	file, err := os.Create(filepath.Join(dir, fileName))
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(file, reader)
	return err
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

func (dd *DiskDriver) GetRunDir(runID string) string {
	if dd.baseDir == "" {
		return ""
	}
	return filepath.Join(dd.baseDir, "runs", runID)
}

func (dd *DiskDriver) GetResultFilePathAndName(runID, outputFile string) (string, string) {
	if dd.baseDir == "" {
		return filepath.Dir(outputFile), filepath.Base(outputFile)
	}
	return dd.GetRunDir(runID), filestore.ResultFileName(outputFile)
}

func (dd *DiskDriver) GetStatsFilePathAndName(runID, outputFile string) (string, string) {
	dir, _ := dd.GetResultFilePathAndName(runID, outputFile)
	return dir, filestore.StatsFileName(outputFile)
}
