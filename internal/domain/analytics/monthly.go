package analytics

import "time"

// MonthCount is one bucket of a monthly trend series.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

const monthKeyLayout = "2006-01"

// MonthlySeries buckets creation timestamps by calendar month and returns
// the trailing window ending at now's month, oldest first. Buckets with no
// records are zero-filled so charts always render a full axis. Nil
// timestamps are skipped. Stamps are bucketed in now's location so records
// parsed with a foreign offset land in the same month as the window keys.
func MonthlySeries(stamps []*time.Time, now time.Time, months int) []MonthCount {
	frequency := make(map[string]int)
	for _, stamp := range stamps {
		if stamp == nil {
			continue
		}
		frequency[stamp.In(now.Location()).Format(monthKeyLayout)]++
	}

	series := make([]MonthCount, 0, months)
	for i := months - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		key := month.Format(monthKeyLayout)
		series = append(series, MonthCount{Month: key, Count: frequency[key]})
	}
	return series
}
