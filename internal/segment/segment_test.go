package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty document",
			text: "",
			want: nil,
		},
		{
			name: "no numbered lines",
			text: "SQL Practice Sheet\nAnswer all questions.\n",
			want: nil,
		},
		{
			name: "dot and paren numbering",
			text: "1. List all employees.\n2) Count the orders.",
			want: []string{"1. List all employees.", "2) Count the orders."},
		},
		{
			name: "preamble is discarded",
			text: "Chapter 4\nJoins\n1. Join orders and customers.",
			want: []string{"1. Join orders and customers."},
		},
		{
			name: "wrapped lines are folded with one space",
			text: "1. Find customers who\n   placed more than\nthree orders.\n2. Next",
			want: []string{"1. Find customers who placed more than three orders.", "2. Next"},
		},
		{
			name: "blank lines do not end a question",
			text: "1. Show salaries.\n\n\nNote: use the employees table.\n2. Done",
			want: []string{"1. Show salaries. Note: use the employees table.", "2. Done"},
		},
		{
			name: "windows line endings",
			text: "1. First\r\ncontinued\r\n2. Second\r\n",
			want: []string{"1. First continued", "2. Second"},
		},
		{
			name: "indented numbering and multi digit",
			text: "   10. Tenth\n  11 ) Eleventh",
			want: []string{"10. Tenth", "11 ) Eleventh"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.text))
		})
	}
}

func TestSplit_OneRecordPerNumberedLine(t *testing.T) {
	lines := []string{
		"Exercises",
		"1. Select every column from t.",
		"hint: use *",
		"2. Select distinct names.",
		"",
		"3) Group by department.",
		"Department table has id, name.",
		"4. Order by salary desc.",
	}
	doc := strings.Join(lines, "\n")

	got := Split(doc)

	numberedLines := 0
	for _, l := range lines {
		if numbered.MatchString(l) {
			numberedLines++
		}
	}
	require.Len(t, got, numberedLines)
	assert.True(t, strings.HasPrefix(got[0], "1."))
	assert.True(t, strings.HasPrefix(got[1], "2."))
	assert.True(t, strings.HasPrefix(got[2], "3)"))
	assert.True(t, strings.HasPrefix(got[3], "4."))
}

func TestNumbering(t *testing.T) {
	assert.Equal(t, "1.", Numbering("1. Select"))
	assert.Equal(t, "11)", Numbering("11 ) Select"))
	assert.Equal(t, "", Numbering("Select"))
}
