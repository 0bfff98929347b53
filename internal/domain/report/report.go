package report

import "sort"

// MonthKeyLayout formats the "YYYY-MM" keys of trend series.
const MonthKeyLayout = "2006-01"

type WindowSummary struct {
	Week  float64
	Month float64
}

type MonthTotal struct {
	Month string
	Total float64
}

// TrendPoint is one month of the combined trend. A nil side means the month
// has no value in that series, which is different from a zero total.
type TrendPoint struct {
	Month     string
	Disbursed *float64
	Repaid    *float64
}

type Trend struct {
	Disbursed []MonthTotal
	Repaid    []MonthTotal
	Combined  []TrendPoint
}

// MergeTrend joins two month-keyed series into one view sorted by month.
func MergeTrend(disbursed, repaid []MonthTotal) []TrendPoint {
	points := make(map[string]*TrendPoint, len(disbursed)+len(repaid))
	point := func(month string) *TrendPoint {
		p, ok := points[month]
		if !ok {
			p = &TrendPoint{Month: month}
			points[month] = p
		}
		return p
	}

	for _, d := range disbursed {
		total := d.Total
		point(d.Month).Disbursed = &total
	}
	for _, r := range repaid {
		total := r.Total
		point(r.Month).Repaid = &total
	}

	combined := make([]TrendPoint, 0, len(points))
	for _, p := range points {
		combined = append(combined, *p)
	}
	sort.Slice(combined, func(i, j int) bool { return combined[i].Month < combined[j].Month })
	return combined
}
