package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "plain date", input: "2023-01-01", want: NewDate(2023, time.January, 1)},
		{name: "surrounding spaces", input: " 2023-02-15 ", want: NewDate(2023, time.February, 15)},
		{name: "utc timestamp", input: "2023-03-30T00:00:00Z", want: NewDate(2023, time.March, 30)},
		{name: "offset timestamp keeps written date", input: "2023-04-01T23:30:00+08:00", want: NewDate(2023, time.April, 1)},
		{name: "empty", input: "", want: Date{}},
		{name: "garbage", input: "01/02/2023", wantErr: true},
		{name: "invalid day", input: "2023-02-30", wantErr: true},
		{name: "first day of the calendar is out of range", input: "0001-01-01", wantErr: true},
		{name: "second day of the calendar", input: "0001-01-02", want: NewDate(1, time.January, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestDate_RoundTrip(t *testing.T) {
	locations := []*time.Location{time.UTC, time.FixedZone("UTC+14", 14*3600), time.FixedZone("UTC-12", -12*3600)}

	for _, loc := range locations {
		t.Run(loc.String(), func(t *testing.T) {
			d := DateOf(time.Date(2024, time.February, 29, 23, 59, 0, 0, loc))
			assert.Equal(t, "2024-02-29", d.String())

			back, err := ParseDate(d.String())
			require.NoError(t, err)
			assert.True(t, d.Equal(back))
		})
	}
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}

	data, err := json.Marshal(payload{Start: NewDate(2023, time.January, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2023-01-01","end":null}`, string(data))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2023-01-05T00:00:00.000Z","end":null}`), &p))
	assert.Equal(t, "2023-01-05", p.Start.String())
	assert.True(t, p.End.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"start":20230101}`), &p))
	assert.Error(t, json.Unmarshal([]byte(`{"start":"tomorrow"}`), &p))
}

func TestDate_Arithmetic(t *testing.T) {
	start := MustParseDate("2023-01-01")
	end := MustParseDate("2023-01-05")

	assert.Equal(t, 4, end.DaysSince(start))
	assert.Equal(t, -4, start.DaysSince(end))
	assert.Equal(t, "2022-12-31", start.AddDays(-1).String())
	assert.Equal(t, "2023-03-01", MustParseDate("2023-02-28").AddDays(1).String())
	assert.True(t, start.Before(end))
	assert.True(t, end.After(start))
	assert.True(t, Date{}.AddDays(3).IsZero())
}

func TestDate_DaysSinceLongSpans(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"1700-01-01", "2100-01-01", 146097},
		{"0001-01-02", "9999-12-31", 3652057},
		{"1900-03-01", "2200-03-01", 109573},
	}

	for _, tt := range tests {
		t.Run(tt.from+".."+tt.to, func(t *testing.T) {
			from, to := MustParseDate(tt.from), MustParseDate(tt.to)
			assert.Equal(t, tt.want, to.DaysSince(from))
			assert.Equal(t, -tt.want, from.DaysSince(to))
			assert.True(t, from.AddDays(tt.want).Equal(to))
		})
	}
}

func TestDate_UnmarshalFirstCalendarDay(t *testing.T) {
	var d Date
	err := json.Unmarshal([]byte(`"0001-01-01"`), &d)
	assert.Error(t, err)
	assert.True(t, d.IsZero())
}

func TestDate_Scan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2023-05-01", d.String())

	require.NoError(t, d.Scan("2023-07-30 00:00:00+00:00"))
	assert.Equal(t, "2023-07-30", d.String())

	require.NoError(t, d.Scan([]byte("2023-04-15")))
	assert.Equal(t, "2023-04-15", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestPriorityAndStatus(t *testing.T) {
	assert.True(t, PriorityCritical.Valid())
	assert.False(t, Priority(0).Valid())
	assert.False(t, Priority(5).Valid())
	assert.Equal(t, "高", PriorityHigh.Label())
	assert.Equal(t, "未知", Priority(9).Label())

	assert.True(t, StatusRelease.Valid())
	assert.False(t, Status("done").Valid())
	assert.Equal(t, "测试中", StatusTesting.Label())
}
