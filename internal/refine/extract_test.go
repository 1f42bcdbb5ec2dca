package refine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already compliant",
			in:   "Lists all employees.\n- Reads the employees table.\n- Returns every column.",
			want: "Lists all employees.\n- Reads the employees table.\n- Returns every column.",
		},
		{
			name: "numbered and starred bullets are normalized",
			in:   "Counts orders per customer.\n1. Groups by customer_id.\n2) Counts rows.\n* Sorts by count.\n• Limits to ten.",
			want: "Counts orders per customer.\n- Groups by customer_id.\n- Counts rows.\n- Sorts by count.\n- Limits to ten.",
		},
		{
			name: "markers without a following space",
			in:   "Joins two tables.\n-Joins orders to customers.\n•Keeps matching rows.",
			want: "Joins two tables.\n- Joins orders to customers.\n- Keeps matching rows.",
		},
		{
			name: "bold lines and rules are not bullets",
			in:   "**Totals per region**\n---\n- Sums sales.",
			want: "**Totals per region**\n- Sums sales.",
		},
		{
			name: "blank lines inside the run are skipped",
			in:   "Summary line.\n\n- first\n\n- second\n",
			want: "Summary line.\n- first\n- second",
		},
		{
			name: "first non-bullet line after the run ends it",
			in:   "Summary.\n- one\n- two\nHope this helps!\n- three",
			want: "Summary.\n- one\n- two",
		},
		{
			name: "lines between summary and bullets are dropped",
			in:   "Summary.\nSome extra prose.\n- one",
			want: "Summary.\n- one",
		},
		{
			name: "no bullets splits the remaining text into sentences",
			in:   "Finds duplicate emails.\nIt groups by email. Then it keeps groups with more than one row! Why? Duplicates.",
			want: "Finds duplicate emails.\n- It groups by email.\n- Then it keeps groups with more than one row!\n- Why?\n- Duplicates.",
		},
		{
			name: "single paragraph uses its first sentence as summary",
			in:   "Selects names. Filters adults. Orders by age.",
			want: "Selects names.\n- Filters adults.\n- Orders by age.",
		},
		{
			name: "decimal numbers are not bullets",
			in:   "Average is 2.5 units per order.",
			want: "Average is 2.5 units per order.",
		},
		{
			name: "crlf input",
			in:   "Summary.\r\n- a\r\n- b\r\n",
			want: "Summary.\n- a\n- b",
		},
		{name: "empty", in: "  \n\n", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.in))
		})
	}
}

func TestHasBullets(t *testing.T) {
	assert.True(t, HasBullets("Summary\n- item"))
	assert.True(t, HasBullets("  - indented"))
	assert.False(t, HasBullets("Summary only."))
	assert.False(t, HasBullets("-no space"))
	assert.False(t, HasBullets(""))
}
