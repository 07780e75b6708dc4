package transactions

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"starmine/util"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Properties is one transaction of the json layout.
type Properties struct {
	Prop []string `json:"rp"`
}

// Decoder maps an encoded item id back to its name.
type Decoder []string

// Name returns the name of id, or the id itself when it is unknown.
func (d Decoder) Name(id int) string {
	if id >= 0 && id < len(d) {
		return d[id]
	}
	return fmt.Sprintf("%d", id)
}

// Encode assigns dense ids to item names in order of first appearance.
func Encode(trns [][]string) ([][]int, Decoder) {
	encoder := make(map[string]int)
	decoder := make(Decoder, 0)

	encoded := make([][]int, len(trns))
	for i, trn := range trns {
		encoded[i] = make([]int, 0, len(trn))
		for _, name := range trn {
			id, ok := encoder[name]
			if !ok {
				id = len(decoder)
				encoder[name] = id
				decoder = append(decoder, name)
			}
			encoded[i] = append(encoded[i], id)
		}
	}
	return encoded, decoder
}

// ReadJSON reads one Properties object per line. Blank lines are skipped.
func ReadJSON(r io.Reader) ([][]string, error) {
	scanner := util.CreateScannerFromReader(r)
	trns := make([][]string, 0)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var props Properties
		if err := json.Unmarshal([]byte(line), &props); err != nil {
			log.WithFields(log.Fields{"line": lineNum, "err": err}).Error("Read failed")
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
		trns = append(trns, props.Prop)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return trns, nil
}

// ReadJSONFile reads and encodes the transactions stored at path.
func ReadJSONFile(path string) ([][]int, Decoder, error) {
	file, err := os.Open(path)
	if err != nil {
		log.WithError(err).WithField("file", path).Error("Can't open the transaction file.")
		return nil, nil, errors.Wrapf(err, "can't open the file, %s", path)
	}
	defer file.Close()

	trns, err := ReadJSON(file)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read %s", path)
	}
	encoded, decoder := Encode(trns)
	log.WithFields(log.Fields{"file": path, "rows": len(encoded), "items": len(decoder)}).Debug("Read transactions.")
	return encoded, decoder, nil
}

// WriteJSON writes trns in the json layout.
func WriteJSON(w io.Writer, trns [][]string) error {
	bw := bufio.NewWriter(w)
	for _, trn := range trns {
		b, err := json.Marshal(Properties{Prop: trn})
		if err != nil {
			return err
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			log.WithFields(log.Fields{"line": string(b), "err": err}).Error("Unable to write to file.")
			return err
		}
	}
	return bw.Flush()
}
