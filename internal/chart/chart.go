// Package chart turns version records into the bars of a Gantt-style chart.
package chart

import (
	"errors"
	"sort"

	"github.com/BuzzLyutic/version-tracker-api/internal/model"
)

// ErrEmpty is returned by Build for an empty input; callers show a "no data" state instead.
var ErrEmpty = errors.New("chart: no versions")

// FallbackColor is used for unknown or missing statuses.
const FallbackColor = "#6b7280"

// StatusColors - цвет полосы по статусу версии
var StatusColors = map[model.Status]string{
	model.StatusPlanning:    "#9333ea",
	model.StatusDevelopment: "#eab308",
	model.StatusTesting:     "#06b6d4",
	model.StatusRelease:     "#22c55e",
	model.StatusCompleted:   "#6b7280",
}

// Bar is one version positioned on the time axis.
type Bar struct {
	model.Version
	Start        model.Date `json:"startDate"`
	End          model.Date `json:"endDate"`
	DurationDays int        `json:"durationDays"`
	OffsetDays   int        `json:"offsetDays"`
	Color        string     `json:"color"`
}

// Domain is the axis range, padded by one day on each side.
type Domain struct {
	Start model.Date `json:"start"`
	End   model.Date `json:"end"`
}

func (d Domain) Valid() bool {
	return !d.Start.IsZero() && !d.End.IsZero()
}

// SpanDays is the number of days between the domain bounds.
func (d Domain) SpanDays() int {
	if !d.Valid() {
		return 0
	}
	return d.End.DaysSince(d.Start)
}

type Chart struct {
	Bars   []Bar  `json:"bars"`
	Domain Domain `json:"domain"`
}

// Tick is an axis label at a day offset from the domain start.
type Tick struct {
	OffsetDays int    `json:"offsetDays"`
	Label      string `json:"label"`
}

// ColorFor returns the bar color for a status.
func ColorFor(s model.Status) string {
	if c, ok := StatusColors[s]; ok {
		return c
	}
	return FallbackColor
}

// Build computes durations and colors, sorts by start date (missing dates
// last, ties by id, then input order) and derives the axis domain.
func Build(versions []model.Version) (Chart, error) {
	if len(versions) == 0 {
		return Chart{}, ErrEmpty
	}

	bars := make([]Bar, 0, len(versions))
	for _, v := range versions {
		bars = append(bars, Bar{
			Version:      v,
			Start:        v.StartDate,
			End:          v.EndDate,
			DurationDays: duration(v.StartDate, v.EndDate),
			Color:        ColorFor(v.Status),
		})
	}

	sort.SliceStable(bars, func(i, j int) bool {
		a, b := bars[i], bars[j]
		if a.Start.IsZero() != b.Start.IsZero() {
			return !a.Start.IsZero()
		}
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.ID < b.ID
	})

	domain := domainOf(bars)
	if domain.Valid() {
		for i := range bars {
			if !bars[i].Start.IsZero() {
				bars[i].OffsetDays = bars[i].Start.DaysSince(domain.Start)
			}
		}
	}

	return Chart{Bars: bars, Domain: domain}, nil
}

// duration включает и день начала, и день окончания
func duration(start, end model.Date) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	d := end.DaysSince(start) + 1
	if d < 0 {
		return 0
	}
	return d
}

func domainOf(bars []Bar) Domain {
	var minStart, maxEnd model.Date
	for _, b := range bars {
		if !b.Start.IsZero() && (minStart.IsZero() || b.Start.Before(minStart)) {
			minStart = b.Start
		}
		if !b.End.IsZero() && (maxEnd.IsZero() || b.End.After(maxEnd)) {
			maxEnd = b.End
		}
	}
	if minStart.IsZero() || maxEnd.IsZero() {
		return Domain{}
	}
	return Domain{Start: minStart.AddDays(-1), End: maxEnd.AddDays(1)}
}

// Ticks returns up to n evenly spaced axis labels formatted MM/dd.
func (c Chart) Ticks(n int) []Tick {
	span := c.Domain.SpanDays()
	if n < 2 || span <= 0 {
		return nil
	}
	if n > span+1 {
		n = span + 1
	}

	ticks := make([]Tick, 0, n)
	last := -1
	for i := 0; i < n; i++ {
		off := span * i / (n - 1)
		if off == last {
			continue
		}
		last = off
		ticks = append(ticks, Tick{
			OffsetDays: off,
			Label:      c.Domain.Start.AddDays(off).Format("01/02"),
		})
	}
	return ticks
}
