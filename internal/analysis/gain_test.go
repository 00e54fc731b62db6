package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assesscli/internal/dataset"
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name string
		cell dataset.Cell
		want string
		ok   bool
	}{
		{
			name: "null cell",
			cell: null(),
			ok:   false,
		},
		{
			name: "native timestamp",
			cell: dataset.Timestamp(time.Date(2025, 5, 4, 10, 30, 0, 0, time.UTC)),
			want: "04-05-2025",
			ok:   true,
		},
		{
			name: "full timestamp string",
			cell: str("04-05-2025 10:30:00 AM"),
			want: "04-05-2025",
			ok:   true,
		},
		{
			name: "single digit day and month",
			cell: str("4-5-2025 10:30:00 AM"),
			want: "04-05-2025",
			ok:   true,
		},
		{
			name: "date only",
			cell: str("14-05-2025"),
			want: "14-05-2025",
			ok:   true,
		},
		{
			name: "date followed by unparsable rest",
			cell: str("14-05-2025 onwards"),
			want: "14-05-2025",
			ok:   true,
		},
		{
			name: "extra internal whitespace",
			cell: str("  4-5-2025   10:30:00   AM "),
			want: "04-05-2025",
			ok:   true,
		},
		{
			name: "garbage",
			cell: str("next monday"),
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDate(tt.cell)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func groupTestData(t *testing.T) (*dataset.Dataset, *dataset.Dataset, GroupColumns) {
	t.Helper()
	pre := mustDataset(t, []string{"Pers No", "Start Time", "Faculty Name", "Total Points"},
		cells{num(1001), str("01-05-2025 09:00:00 AM"), str("Sharma"), num(5)},
		cells{num(1002), str("01-05-2025 09:05:00 AM"), str("Sharma"), num(6)},
		cells{num(1003), str("02-05-2025 09:00:00 AM"), str("Verma"), num(4)},
		cells{num(1004), str("not a date"), str("Verma"), num(5)},
	)
	post := mustDataset(t, []string{"Pers No", "Start Time", "Total Points"},
		cells{num(1001), str("01-05-2025 04:00:00 PM"), num(8)},
		cells{num(1002), str("01-05-2025 04:10:00 PM"), num(6)},
		cells{num(1003), str("02-05-2025 04:00:00 PM"), num(9)},
		cells{num(1004), str("also not a date"), num(5)},
	)
	cols := GroupColumns{
		PreID:         "Pers No",
		PostID:        "Pers No",
		PreTotal:      "Total Points",
		PostTotal:     "Total Points",
		PreStartTime:  "Start Time",
		PostStartTime: "Start Time",
		PreFaculty:    "Faculty Name",
	}
	return pre, post, cols
}

func TestGroupedImprovement(t *testing.T) {
	pre, post, cols := groupTestData(t)

	groups := GroupedImprovement(pre, post, cols)

	// Combined plus the two parsable dates; the unparsable row only feeds Combined
	require.Len(t, groups, 3)

	combined := groups[CombinedGroup]
	assert.Equal(t, 4, combined.ValidStudents)
	assert.Equal(t, 2, combined.ImprovementCount)
	assert.InDelta(t, 50.0, combined.Rate, 1e-9)
	assert.Equal(t, []string{"Sharma", "Verma"}, combined.FacultyNames)

	day1 := groups["01-05-2025"]
	assert.Equal(t, 2, day1.ValidStudents)
	assert.Equal(t, 1, day1.ImprovementCount)
	assert.InDelta(t, 50.0, day1.Rate, 1e-9)
	assert.Equal(t, []string{"Sharma"}, day1.FacultyNames)
	assert.Equal(t, "01-05-2025", day1.Date)

	day2 := groups["02-05-2025"]
	assert.Equal(t, 1, day2.ValidStudents)
	assert.InDelta(t, 100.0, day2.Rate, 1e-9)
	assert.Equal(t, []string{"Verma"}, day2.FacultyNames)
}

func TestGroupedImprovementDropsEmptyDateGroups(t *testing.T) {
	// The sides never overlap on a date, so no date group survives
	pre := mustDataset(t, []string{"Pers No", "Start Time", "Total Points"},
		cells{num(1001), str("01-05-2025 09:00:00 AM"), num(5)},
	)
	post := mustDataset(t, []string{"Pers No", "Start Time", "Total Points"},
		cells{num(1001), str("02-05-2025 04:00:00 PM"), num(8)},
	)
	cols := GroupColumns{
		PreID: "Pers No", PostID: "Pers No",
		PreTotal: "Total Points", PostTotal: "Total Points",
		PreStartTime: "Start Time", PostStartTime: "Start Time",
	}

	groups := GroupedImprovement(pre, post, cols)
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[CombinedGroup].ValidStudents)
	assert.Empty(t, groups[CombinedGroup].FacultyNames)
}

func TestNormalizedGain(t *testing.T) {
	pre, post, cols := groupTestData(t)

	gains := NormalizedGain(pre, post, cols)
	require.Contains(t, gains, CombinedGroup)

	// avgPre = 5, preMax = 6, avgPost = 7, postMax = 9
	combined := gains[CombinedGroup]
	assert.Equal(t, 4, combined.ValidStudents)
	assert.InDelta(t, 5.0, combined.AvgPreTest, 1e-9)
	assert.InDelta(t, 7.0, combined.AvgPostTest, 1e-9)
	assert.InDelta(t, 6.0, combined.PreMax, 1e-9)
	assert.InDelta(t, 9.0, combined.PostMax, 1e-9)
	assert.InDelta(t, 0.8333, combined.NormPre, 1e-9)
	assert.InDelta(t, 0.7778, combined.NormPost, 1e-9)
	// (7/9 - 5/6) / (1 - 5/6) rounded to 4 places
	assert.InDelta(t, -0.3333, combined.Gain, 1e-9)

	require.Contains(t, gains, "02-05-2025")
	day2 := gains["02-05-2025"]
	assert.Equal(t, 1, day2.ValidStudents)
	// Single student at their own maximum: normPre = 1 hits the guard
	assert.Zero(t, day2.Gain)
	assert.InDelta(t, 1.0, day2.NormPre, 1e-9)
}

func TestNormalizedGainZeroPreMax(t *testing.T) {
	pre := mustDataset(t, []string{"Pers No", "Start Time", "Total Points"},
		cells{num(1001), str("01-05-2025 09:00:00 AM"), num(0)},
		cells{num(1002), str("01-05-2025 09:00:00 AM"), num(0)},
	)
	post := mustDataset(t, []string{"Pers No", "Start Time", "Total Points"},
		cells{num(1001), str("01-05-2025 04:00:00 PM"), num(4)},
		cells{num(1002), str("01-05-2025 04:00:00 PM"), num(5)},
	)
	cols := GroupColumns{
		PreID: "Pers No", PostID: "Pers No",
		PreTotal: "Total Points", PostTotal: "Total Points",
		PreStartTime: "Start Time", PostStartTime: "Start Time",
	}

	gains := NormalizedGain(pre, post, cols)
	combined := gains[CombinedGroup]

	assert.Zero(t, combined.Gain)
	assert.Zero(t, combined.NormPre)
	assert.InDelta(t, 0.9, combined.NormPost, 1e-9)
}

func TestNormalizedGainNoValidRows(t *testing.T) {
	pre := mustDataset(t, []string{"Pers No", "Start Time", "Total Points"},
		cells{num(1001), str("01-05-2025 09:00:00 AM"), str("absent")},
	)
	post := mustDataset(t, []string{"Pers No", "Start Time", "Total Points"},
		cells{num(1001), str("01-05-2025 04:00:00 PM"), num(8)},
	)
	cols := GroupColumns{
		PreID: "Pers No", PostID: "Pers No",
		PreTotal: "Total Points", PostTotal: "Total Points",
		PreStartTime: "Start Time", PostStartTime: "Start Time",
	}

	gains := NormalizedGain(pre, post, cols)
	assert.Empty(t, gains)
}
