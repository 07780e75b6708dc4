package output

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"starmine/mine"
	"starmine/star"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioResult(t *testing.T) *mine.Result {
	trns := [][]int{{0, 1}, {1, 2}, {0, 1, 2}, {1}}
	res, err := mine.Mine(context.Background(), mine.Params{MinSupport: 2, Workers: 2}, 4, 3, trns)
	require.NoError(t, err)
	return res
}

func TestWriteResultText(t *testing.T) {
	res := &mine.Result{
		TopLevel: []star.Itemset{{Items: []int{0}, Support: 2}, {Items: []int{2}, Support: 2}},
		Workers: [][]star.Itemset{
			{{Items: []int{0, 1}, Support: 2}},
			{{Items: []int{2, 1}, Support: 2}},
		},
	}
	var buf bytes.Buffer
	n, err := WriteResult(&buf, FormatText, nil, res)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "  0 [2]\n  2 [2]\n  0 1 [2]\n  2 1 [2]\n", buf.String())
}

func TestWriteResultTextWithNames(t *testing.T) {
	res := &mine.Result{TopLevel: []star.Itemset{{Items: []int{1, 0}, Support: 3}}}
	var buf bytes.Buffer
	_, err := WriteResult(&buf, FormatText, []string{"milk", "bread"}, res)
	require.NoError(t, err)
	assert.Equal(t, "  bread milk [3]\n", buf.String())
}

func TestWriteResultJSON(t *testing.T) {
	res := &mine.Result{TopLevel: []star.Itemset{{Items: []int{1, 5}, Support: 3}}}
	var buf bytes.Buffer
	_, err := WriteResult(&buf, FormatJSON, []string{"milk", "bread"}, res)
	require.NoError(t, err)
	assert.Equal(t, `{"fi":["bread","5"],"fc":3}`+"\n", buf.String())
}

func TestWriteResultUnknownFormat(t *testing.T) {
	_, err := WriteResult(&bytes.Buffer{}, "xml", nil, &mine.Result{})
	assert.Equal(t, ErrUnknownFormat, pkgerrors.Cause(err))
}

func TestTextRoundTrip(t *testing.T) {
	res := scenarioResult(t)
	var buf bytes.Buffer
	n, err := WriteResult(&buf, FormatText, nil, res)
	require.NoError(t, err)

	patterns, err := ReadText(&buf)
	require.NoError(t, err)
	assert.Len(t, patterns, n)
	assertSameAsResult(t, res, patterns)
}

func TestJSONRoundTrip(t *testing.T) {
	res := scenarioResult(t)
	var buf bytes.Buffer
	n, err := WriteResult(&buf, FormatJSON, nil, res)
	require.NoError(t, err)

	patterns, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Len(t, patterns, n)
	assertSameAsResult(t, res, patterns)
}

func assertSameAsResult(t *testing.T, res *mine.Result, patterns []FPatternCount) {
	for i, is := range res.Itemsets() {
		assert.Equal(t, strings.Fields(star.JoinItems(is.Items)), patterns[i].FpItm)
		assert.Equal(t, is.Support, patterns[i].FpCounts)
	}
}

func TestReadTextErrors(t *testing.T) {
	cases := []string{
		"  0 1\n",
		"  0 1 [x]\n",
		"  [2]\n",
	}
	for _, c := range cases {
		_, err := ReadText(strings.NewReader(c))
		assert.Error(t, err, c)
	}
}

func TestReadJSONErrors(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("{\"fi\":[\"a\"],\"fc\":1}\n{broken\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteResultPropagatesWriteErrors(t *testing.T) {
	res := scenarioResult(t)
	_, err := WriteResult(failingWriter{}, FormatText, nil, res)
	assert.Error(t, err)
}
