package store

import (
	"context"
	"errors"
	"time"

	"github.com/RichardKnop/petrag"
	"github.com/RichardKnop/petrag/petragtest"
)

var testNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func testRun(created time.Time, intent petrag.Intent, average float64, bestEffort bool) *petrag.Run {
	return petragtest.New(time.Now().UnixNano(), testNow).Run(
		petragtest.WithRunCreated(created),
		petragtest.WithRunIntent(intent),
		petragtest.WithRunQualityAverage(average),
		petragtest.WithRunBestEffort(bestEffort),
	)
}

func (s *StoreTestSuite) TestSaveRun_FindRun() {
	ctx, cancel := testContext()
	defer cancel()

	aRun := testRun(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), petrag.IntentMedical, 0.91, false)
	s.Require().NoError(s.adapter.SaveRun(ctx, aRun))

	found, err := s.adapter.FindRun(ctx, aRun.ID)
	s.Require().NoError(err)
	s.Equal(aRun, found)
}

func (s *StoreTestSuite) TestSaveRun_Upsert() {
	ctx, cancel := testContext()
	defer cancel()

	aRun := testRun(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), petrag.IntentMedical, 0.55, false)
	s.Require().NoError(s.adapter.SaveRun(ctx, aRun))

	aRun.Rewrites = 2
	aRun.BestEffort = true
	aRun.RewriteState = petrag.RewriteEscalated
	s.Require().NoError(s.adapter.SaveRun(ctx, aRun))

	found, err := s.adapter.FindRun(ctx, aRun.ID)
	s.Require().NoError(err)
	s.Equal(2, found.Rewrites)
	s.True(found.BestEffort)
	s.Equal(petrag.RewriteEscalated, found.RewriteState)
}

func (s *StoreTestSuite) TestFindRun_NotFound() {
	ctx, cancel := testContext()
	defer cancel()

	_, err := s.adapter.FindRun(ctx, petrag.NewRunID())
	s.ErrorIs(err, petrag.ErrNotFound)
}

func (s *StoreTestSuite) TestListRuns() {
	ctx, cancel := testContext()
	defer cancel()

	var (
		base   = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		first  = testRun(base, petrag.IntentMedical, 0.8, false)
		second = testRun(base.Add(time.Minute), petrag.IntentFacilitySearch, 0.6, false)
		third  = testRun(base.Add(2*time.Minute), petrag.IntentMedical, 0.4, true)
	)
	for _, aRun := range []*petrag.Run{first, second, third} {
		s.Require().NoError(s.adapter.SaveRun(ctx, aRun))
	}

	yes := true

	testCases := []struct {
		name     string
		filter   petrag.RunFilter
		params   petrag.SortParams
		expected []*petrag.Run
	}{
		{"newest first by default", petrag.RunFilter{}, petrag.SortParams{}, []*petrag.Run{third, second, first}},
		{"by intent", petrag.RunFilter{Intent: petrag.IntentMedical}, petrag.SortParams{}, []*petrag.Run{third, first}},
		{"best effort only", petrag.RunFilter{BestEffort: &yes}, petrag.SortParams{}, []*petrag.Run{third}},
		{
			"by quality ascending with limit",
			petrag.RunFilter{},
			petrag.SortParams{By: "quality_average", Order: petrag.SortOrderAsc, Limit: 2},
			[]*petrag.Run{third, second},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			runs, err := s.adapter.ListRuns(ctx, tc.filter, tc.params)
			s.Require().NoError(err)
			s.Equal(tc.expected, runs)
		})
	}
}

func (s *StoreTestSuite) TestListRuns_InvalidSort() {
	ctx, cancel := testContext()
	defer cancel()

	_, err := s.adapter.ListRuns(ctx, petrag.RunFilter{}, petrag.SortParams{By: `"id"; drop table "run"`})
	s.Error(err)
}

func (s *StoreTestSuite) TestTransactional_Rollback() {
	ctx, cancel := testContext()
	defer cancel()

	aRun := testRun(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), petrag.IntentGeneral, 0, false)
	rollback := errors.New("rollback")

	err := s.adapter.Transactional(ctx, nil, func(ctx context.Context) error {
		if err := s.adapter.SaveRun(ctx, aRun); err != nil {
			return err
		}
		return rollback
	})
	s.ErrorIs(err, rollback)

	_, err = s.adapter.FindRun(ctx, aRun.ID)
	s.ErrorIs(err, petrag.ErrNotFound)
}
