// Package transactions reads the transaction databases fed to the miner.
//
// Two layouts are supported. The simplex layout is whitespace separated
// integers: for every row, the number of items followed by that many item
// ids. The json layout is one JSON object per line, {"rp": ["a", "b"]},
// listing named items; names are encoded to dense ids before mining.
package transactions

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	FormatSimplex = "simplex"
	FormatJSON    = "json"
)

var ErrTruncated = errors.New("transaction file ended early")

// ReadSimplex reads numRows rows in the simplex layout. Anything after the
// last row is ignored.
func ReadSimplex(r io.Reader, numRows int) ([][]int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	token := 0

	next := func(row int) (int, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, errors.Wrapf(ErrTruncated, "row %d of %d", row, numRows)
		}
		token++
		v, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return 0, errors.Wrapf(err, "row %d: token %d", row, token)
		}
		return v, nil
	}

	trns := make([][]int, 0, numRows)
	for row := 0; row < numRows; row++ {
		n, err := next(row)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, errors.Errorf("row %d: negative item count %d", row, n)
		}
		trn := make([]int, n)
		for i := range trn {
			if trn[i], err = next(row); err != nil {
				return nil, err
			}
		}
		trns = append(trns, trn)
	}
	return trns, nil
}

// ReadSimplexFile reads numRows rows from the file at path.
func ReadSimplexFile(path string, numRows int) ([][]int, error) {
	file, err := os.Open(path)
	if err != nil {
		log.WithError(err).WithField("file", path).Error("Can't open the transaction file.")
		return nil, errors.Wrapf(err, "can't open the file, %s", path)
	}
	defer file.Close()

	trns, err := ReadSimplex(file, numRows)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	log.WithFields(log.Fields{"file": path, "rows": len(trns)}).Debug("Read transactions.")
	return trns, nil
}

// WriteSimplex writes trns in the simplex layout, one row per line.
func WriteSimplex(w io.Writer, trns [][]int) error {
	bw := bufio.NewWriter(w)
	for _, trn := range trns {
		if _, err := bw.WriteString(strconv.Itoa(len(trn))); err != nil {
			return err
		}
		for _, itm := range trn {
			if _, err := bw.WriteString(" " + strconv.Itoa(itm)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
