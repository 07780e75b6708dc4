package util

import (
	"bufio"
	"io"

	"github.com/rs/xid"
)

// MaxLineBytes bounds a single line read by CreateScannerFromReader.
const MaxLineBytes = 20 * 1024 * 1024

// CreateScannerFromReader returns a line scanner whose buffer can hold
// lines of up to MaxLineBytes.
func CreateScannerFromReader(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, MaxLineBytes)
	return scanner
}

// GetRunID returns a new sortable unique id for a mining run.
func GetRunID() string {
	return xid.New().String()
}
