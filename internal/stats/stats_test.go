package stats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackfest-dev/hackathon-api/internal/storage"
	"github.com/hackfest-dev/hackathon-api/internal/types"
)

// fakeStore serves a fixed slice; only the methods Compute touches do
// anything real.
type fakeStore struct {
	participants []types.Participant
	err          error
}

func (f *fakeStore) GetParticipants(_ context.Context, _ storage.Filter, _, _ int) ([]types.Participant, error) {
	return f.participants, f.err
}

func (f *fakeStore) CreateParticipant(context.Context, types.Participant) (types.Participant, error) {
	panic("not used")
}
func (f *fakeStore) GetParticipantByID(context.Context, int64) (types.Participant, error) {
	panic("not used")
}
func (f *fakeStore) CountParticipants(context.Context, storage.Filter) (int64, error) {
	panic("not used")
}
func (f *fakeStore) UpdateParticipantByID(context.Context, int64, types.Participant) (types.Participant, error) {
	panic("not used")
}
func (f *fakeStore) DeleteParticipantByID(context.Context, int64) error {
	panic("not used")
}
func (f *fakeStore) SetVerificationStatus(context.Context, int64, string) (types.Participant, error) {
	panic("not used")
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
}

func newTestAggregator(participants []types.Participant) *Aggregator {
	a := New(&fakeStore{participants: participants})
	a.now = fixedNow
	return a
}

func TestComputeTechStackCounts(t *testing.T) {
	a := newTestAggregator([]types.Participant{
		{Degree: "B.Tech", YearOfStudy: "3rd", TechStack: []string{"AI/ML", "IoT"}},
		{Degree: "B.Tech", YearOfStudy: "2nd", TechStack: []string{"AI/ML"}},
	})

	report, err := a.Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.Total)
	assert.Equal(t, OrderedCounts{
		{Key: "AI/ML", Count: 2},
		{Key: "IoT", Count: 1},
	}, report.ByTechStack)
}

func TestComputeDistributionOrdering(t *testing.T) {
	a := newTestAggregator([]types.Participant{
		{Degree: "MCA", YearOfStudy: "3rd", TechStack: []string{"Blockchain"}},
		{Degree: "B.Tech", YearOfStudy: "1st", TechStack: []string{"Web Development"}},
		{Degree: "B.Tech", YearOfStudy: "3rd", TechStack: []string{"Web Development"}},
		{Degree: "BCA", YearOfStudy: "2nd", TechStack: []string{"Blockchain"}},
	})

	report, err := a.Compute(context.Background())
	require.NoError(t, err)

	// Degrees by descending count; ties break on ascending key.
	assert.Equal(t, OrderedCounts{
		{Key: "B.Tech", Count: 2},
		{Key: "BCA", Count: 1},
		{Key: "MCA", Count: 1},
	}, report.ByDegree)

	// Years sort by key, not by count.
	assert.Equal(t, OrderedCounts{
		{Key: "1st", Count: 1},
		{Key: "2nd", Count: 1},
		{Key: "3rd", Count: 2},
	}, report.ByYear)

	assert.Equal(t, OrderedCounts{
		{Key: "Blockchain", Count: 2},
		{Key: "Web Development", Count: 1},
	}, report.ByTechStack)
}

func TestComputeDailyWindow(t *testing.T) {
	now := fixedNow()
	day := func(offsetDays int, hour int) time.Time {
		return time.Date(2026, 8, 31-offsetDays, hour, 0, 0, 0, time.Local)
	}

	a := newTestAggregator([]types.Participant{
		{TechStack: []string{"IoT"}, CreatedAt: day(0, 9)},
		{TechStack: []string{"IoT"}, CreatedAt: day(0, 15)},
		{TechStack: []string{"IoT"}, CreatedAt: day(3, 10)},
		// Well outside the trailing week; excluded.
		{TechStack: []string{"IoT"}, CreatedAt: now.AddDate(0, 0, -30)},
	})

	report, err := a.Compute(context.Background())
	require.NoError(t, err)

	// Excluded records still count toward everything but the series.
	assert.Equal(t, int64(4), report.Total)
	assert.Equal(t, OrderedCounts{{Key: "IoT", Count: 4}}, report.ByTechStack)

	assert.Equal(t, []DailyCount{
		{Date: "2026-08-28", Count: 1},
		{Date: "2026-08-31", Count: 2},
	}, report.DailyRegistrations)
}

func TestComputeEmpty(t *testing.T) {
	a := newTestAggregator(nil)

	report, err := a.Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), report.Total)
	assert.Empty(t, report.ByTechStack)
	assert.Empty(t, report.ByDegree)
	assert.Empty(t, report.ByYear)
	assert.Empty(t, report.DailyRegistrations)
}

func TestComputeStoreError(t *testing.T) {
	a := New(&fakeStore{err: errors.New("disk gone")})

	_, err := a.Compute(context.Background())
	assert.Error(t, err)
}

func TestOrderedCountsJSON(t *testing.T) {
	oc := OrderedCounts{
		{Key: "AI/ML", Count: 12},
		{Key: "Web Development", Count: 7},
		{Key: "IoT", Count: 3},
	}

	got, err := json.Marshal(oc)
	require.NoError(t, err)
	assert.Equal(t, `{"AI/ML":12,"Web Development":7,"IoT":3}`, string(got))

	empty, err := json.Marshal(OrderedCounts{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestReportJSONShape(t *testing.T) {
	report := Report{
		Total:              1,
		ByTechStack:        OrderedCounts{{Key: "IoT", Count: 1}},
		ByDegree:           OrderedCounts{{Key: "B.Tech", Count: 1}},
		ByYear:             OrderedCounts{{Key: "3rd", Count: 1}},
		DailyRegistrations: []DailyCount{{Date: "2026-08-31", Count: 1}},
	}

	got, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"total":1,"byTechStack":{"IoT":1},"byDegree":{"B.Tech":1},"byYear":{"3rd":1},"dailyRegistrations":[{"date":"2026-08-31","count":1}]}`,
		string(got))
}
