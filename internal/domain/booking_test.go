package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportFilter(t *testing.T) {
	tests := []struct {
		input   string
		want    ReportFilter
		wantErr bool
	}{
		{input: "all", want: ReportFilterAll},
		{input: "today", want: ReportFilterToday},
		{input: "last7days", want: ReportFilterLast7Days},
		{input: "", want: ReportFilterAll},
		{input: "yesterday", wantErr: true},
		{input: "Today", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			filter, err := ParseReportFilter(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, filter)
		})
	}
}

func TestReportFilterWindow(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 30, 45, 0, time.UTC)

	from, ok := ReportFilterToday.Window(now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), from)

	from, ok = ReportFilterLast7Days.Window(now)
	require.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, -7), from)

	_, ok = ReportFilterAll.Window(now)
	assert.False(t, ok)
}
