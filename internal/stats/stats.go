// Package stats computes the aggregate report over the full registrant
// population. Every call recomputes from scratch — no cache, no
// incremental maintenance. That is a scaling limit, not a bug: the
// report is requested rarely and the population is registration-desk
// sized, so one scan per call stays cheap.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/hackfest-dev/hackathon-api/internal/storage"
)

// dailyWindow is the trailing period covered by dailyRegistrations.
const dailyWindow = 7 * 24 * time.Hour

// Report is the stats payload.
//
// byTechStack counts one per tag per record — a record with three tags
// increments three buckets — so its counts do not sum to total.
type Report struct {
	Total              int64         `json:"total"`
	ByTechStack        OrderedCounts `json:"byTechStack"`
	ByDegree           OrderedCounts `json:"byDegree"`
	ByYear             OrderedCounts `json:"byYear"`
	DailyRegistrations []DailyCount  `json:"dailyRegistrations"`
}

// DailyCount is one calendar day's registration count. Days without
// registrations are not synthesized; the series is sparse and callers
// needing a dense one fill gaps themselves.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Bucket is one key's count in a distribution.
type Bucket struct {
	Key   string
	Count int
}

// OrderedCounts is a distribution whose presentation order is part of
// the contract: it marshals to a JSON object with keys emitted in
// slice order, preserving the ranking the aggregator computed.
type OrderedCounts []Bucket

func (oc OrderedCounts) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, b := range oc {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(b.Key)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(b.Count), 10)
	}
	return append(buf, '}'), nil
}

// Aggregator computes reports over a Storage.
type Aggregator struct {
	store storage.Storage
	now   func() time.Time
}

func New(store storage.Storage) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// Compute builds a fresh report: total population, tag/degree/year
// distributions, and per-day registration counts for the trailing
// seven days (inclusive of today).
func (a *Aggregator) Compute(ctx context.Context) (Report, error) {
	all, err := a.store.GetParticipants(ctx, storage.Filter{}, 0, 0)
	if err != nil {
		return Report{}, fmt.Errorf("stats.Compute: %w", err)
	}

	techCounts := make(map[string]int)
	degreeCounts := make(map[string]int)
	yearCounts := make(map[string]int)
	dayCounts := make(map[string]int)

	cutoff := a.now().Add(-dailyWindow)
	for _, p := range all {
		for _, tag := range p.TechStack {
			techCounts[tag]++
		}
		degreeCounts[p.Degree]++
		yearCounts[p.YearOfStudy]++

		if p.CreatedAt.After(cutoff) {
			// Bucket by the server's local calendar day, matching how
			// registration timestamps are presented elsewhere.
			dayCounts[p.CreatedAt.Local().Format("2006-01-02")]++
		}
	}

	return Report{
		Total:              int64(len(all)),
		ByTechStack:        byCountDesc(techCounts),
		ByDegree:           byCountDesc(degreeCounts),
		ByYear:             byKeyAsc(yearCounts),
		DailyRegistrations: dailySeries(dayCounts),
	}, nil
}

// byCountDesc ranks buckets by descending count, ascending key on ties
// so output is deterministic.
func byCountDesc(counts map[string]int) OrderedCounts {
	oc := bucketize(counts)
	sort.Slice(oc, func(i, j int) bool {
		if oc[i].Count != oc[j].Count {
			return oc[i].Count > oc[j].Count
		}
		return oc[i].Key < oc[j].Key
	})
	return oc
}

func byKeyAsc(counts map[string]int) OrderedCounts {
	oc := bucketize(counts)
	sort.Slice(oc, func(i, j int) bool { return oc[i].Key < oc[j].Key })
	return oc
}

func bucketize(counts map[string]int) OrderedCounts {
	oc := make(OrderedCounts, 0, len(counts))
	for k, c := range counts {
		oc = append(oc, Bucket{Key: k, Count: c})
	}
	return oc
}

func dailySeries(dayCounts map[string]int) []DailyCount {
	series := make([]DailyCount, 0, len(dayCounts))
	for day, c := range dayCounts {
		series = append(series, DailyCount{Date: day, Count: c})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}
