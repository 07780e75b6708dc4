// Package output renders mined itemsets to result files and reads them back.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"starmine/mine"
	"starmine/star"
	"starmine/util"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var ErrUnknownFormat = errors.New("unknown output format")

// FPatternCount is one itemset line of a json result file.
type FPatternCount struct {
	FpItm    []string `json:"fi"`
	FpCounts int      `json:"fc"`
}

// Writer writes itemsets in a single format. Item ids are replaced by
// Names when Names covers them.
type Writer struct {
	Format string
	Names  []string

	w     *bufio.Writer
	count int
}

func NewWriter(w io.Writer, format string, names []string) (*Writer, error) {
	if format != FormatText && format != FormatJSON {
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	return &Writer{Format: format, Names: names, w: bufio.NewWriter(w)}, nil
}

func (wr *Writer) name(id int) string {
	if id >= 0 && id < len(wr.Names) {
		return wr.Names[id]
	}
	return strconv.Itoa(id)
}

func (wr *Writer) pattern(is star.Itemset) FPatternCount {
	items := make([]string, len(is.Items))
	for i, id := range is.Items {
		items[i] = wr.name(id)
	}
	return FPatternCount{FpItm: items, FpCounts: is.Support}
}

// Write appends one itemset.
func (wr *Writer) Write(is star.Itemset) error {
	var line string
	switch {
	case wr.Format == FormatJSON:
		b, err := json.Marshal(wr.pattern(is))
		if err != nil {
			return err
		}
		line = string(b)
	case len(wr.Names) == 0:
		line = is.String()
	default:
		p := wr.pattern(is)
		line = fmt.Sprintf("  %s [%d]", strings.Join(p.FpItm, " "), p.FpCounts)
	}

	if _, err := wr.w.WriteString(line + "\n"); err != nil {
		log.WithFields(log.Fields{"line": line, "err": err}).Error("Unable to write to file.")
		return err
	}
	wr.count++
	return nil
}

// Count is the number of itemsets written so far.
func (wr *Writer) Count() int {
	return wr.count
}

func (wr *Writer) Flush() error {
	return wr.w.Flush()
}

// WriteResult writes the merged output of res and returns the number of
// itemsets written.
func WriteResult(w io.Writer, format string, names []string, res *mine.Result) (int, error) {
	wr, err := NewWriter(w, format, names)
	if err != nil {
		return 0, err
	}
	if err := res.Each(wr.Write); err != nil {
		return wr.Count(), err
	}
	if err := wr.Flush(); err != nil {
		return wr.Count(), err
	}
	log.WithFields(log.Fields{"itemsets": wr.Count(), "format": format}).Info("Wrote results.")
	return wr.Count(), nil
}

// ReadJSON reads a json result file.
func ReadJSON(r io.Reader) ([]FPatternCount, error) {
	patterns := make([]FPatternCount, 0)
	scanner := util.CreateScannerFromReader(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var patternDetails FPatternCount
		if err := json.Unmarshal([]byte(line), &patternDetails); err != nil {
			log.WithFields(log.Fields{"line": line, "err": err}).Error("Read failed")
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
		patterns = append(patterns, patternDetails)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

// ReadText reads a text result file. Every line is "  <items> [<support>]".
func ReadText(r io.Reader) ([]FPatternCount, error) {
	patterns := make([]FPatternCount, 0)
	scanner := util.CreateScannerFromReader(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		p, err := parseTextLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
		patterns = append(patterns, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

func parseTextLine(line string) (FPatternCount, error) {
	open := strings.LastIndexByte(line, '[')
	if open < 0 || !strings.HasSuffix(line, "]") {
		return FPatternCount{}, errors.Errorf("missing support in %q", line)
	}
	count, err := strconv.Atoi(line[open+1 : len(line)-1])
	if err != nil {
		return FPatternCount{}, errors.Wrapf(err, "bad support in %q", line)
	}
	items := strings.Fields(line[:open])
	if len(items) == 0 {
		return FPatternCount{}, errors.Errorf("no items in %q", line)
	}
	return FPatternCount{FpItm: items, FpCounts: count}, nil
}
