package spread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/distance"
	"github.com/mitchelldurbincs/spreadstarts/internal/testutil"
)

// exhaustiveBest scores every subset fully, with no pruning, and applies the
// selection rule directly. It is the reference the optimizer is checked against.
func exhaustiveBest(all []*core.Participant, k int, oracle core.DistanceOracle) (Combination, Profile) {
	var (
		winner Combination
		wp     Profile
	)
	for _, c := range Combinations(all, k) {
		p, _ := Score(c, 0, oracle)
		if winner == nil || p.Min > wp.Min || (p.Min == wp.Min && p.Sum > wp.Sum) {
			winner, wp = c, p
		}
	}
	return winner, wp
}

func TestFarthestPair_Scenario(t *testing.T) {
	// P1(human, A) P2(AI, B) P3(AI, C); A-B=3, A-C=7, B-C=9
	r := testutil.MakeRoster("HAA")
	m := testutil.MatrixFromRows([][]int{
		{0, 3, 7},
		{0, 0, 9},
	})

	res := NewOptimizer(m, 0).FindMostDistantSubset(r, 2)

	assert.Equal(t, []core.ParticipantID{2, 3}, ids(res.Combo))
	assert.Equal(t, Profile{Min: 9, Sum: 9}, res.Profile)
	assert.Equal(t, 3, res.Stats.Enumerated)
}

func TestFarthestPair_FirstPairWinsTies(t *testing.T) {
	r := testutil.MakeRoster("HHAA")
	m := testutil.MatrixFromRows([][]int{
		{0, 2, 8, 5},
		{0, 0, 8, 8},
		{0, 0, 0, 1},
	})

	res := NewOptimizer(m, 0).FindMostDistantSubset(r, 2)

	assert.Equal(t, []core.ParticipantID{1, 3}, ids(res.Combo), "(0,2) is the first pair at distance 8")
	assert.Equal(t, 2, res.Stats.Ties)
}

func TestFarthestPair_AllZero(t *testing.T) {
	r := testutil.MakeRoster("HHA")
	res := NewOptimizer(testutil.MatrixFromRows([][]int{{0, 0, 0}, {0, 0, 0}}), 0).FindMostDistantSubset(r, 2)
	assert.Equal(t, []core.ParticipantID{1, 2}, ids(res.Combo))
	assert.Equal(t, 0, res.Profile.Min)
}

func TestSearch_SumBreaksTiesAndEarliestKeepsThem(t *testing.T) {
	// Triples in enumeration order: {0,1,2} {0,1,3} {0,2,3} {1,2,3}.
	// All have minimum 5; sums are 15, 17, 17, 17.
	r := testutil.MakeRoster("HHHA")
	m := testutil.MatrixFromRows([][]int{
		{0, 5, 5, 6},
		{0, 0, 5, 6},
		{0, 0, 0, 6},
	})

	res := NewOptimizer(m, 0).FindMostDistantSubset(r, 3)

	assert.Equal(t, []core.ParticipantID{1, 2, 4}, ids(res.Combo))
	assert.Equal(t, Profile{Min: 5, Sum: 17}, res.Profile)
	assert.Equal(t, 4, res.Stats.Enumerated)
	assert.Equal(t, 1, res.Stats.Improvements)
	assert.Equal(t, 1, res.Stats.TieBreaks)
	assert.Equal(t, 2, res.Stats.Ties)
	assert.Equal(t, 0, res.Stats.Rejected)
}

func TestSearch_LargerMinimumBeatsLargerSum(t *testing.T) {
	// {0,1,2}: 1, 20, 20 -> min 1 sum 41
	// {0,1,3}: 1, 3, 4   -> min 1 sum 8
	// {0,2,3}: 20, 3, 3  -> min 3 sum 26, replaces the larger sum
	// {1,2,3}: 20, 4, 3  -> min 3 sum 27, wins on sum
	r := testutil.MakeRoster("HHHA")
	m := testutil.MatrixFromRows([][]int{
		{0, 1, 20, 3},
		{0, 0, 20, 4},
		{0, 0, 0, 3},
	})

	res := NewOptimizer(m, 0).FindMostDistantSubset(r, 3)

	assert.Equal(t, []core.ParticipantID{2, 3, 4}, ids(res.Combo))
	assert.Equal(t, 3, res.Profile.Min)
}

func TestSearch_EarlyRejectionSkipsQueries(t *testing.T) {
	// Position 0 is far from everything, 1..5 are clustered. Once a triple
	// containing 0 sets a high floor, triples starting with two clustered
	// positions are abandoned after a single query.
	coords := []core.Coordinate{{X: 0, Y: 0}, {X: 20, Y: 20}, {X: 20, Y: 21}, {X: 21, Y: 20}, {X: 21, Y: 21}, {X: 0, Y: 40}}
	r := testutil.MakeRoster("HHHAAA")
	oracle := distance.NewCounting(testutil.PointsOracle(coords...))

	res := NewOptimizer(oracle, 0).FindMostDistantSubset(r, 3)

	full := Binomial(6, 3) * 3
	assert.Less(t, oracle.Calls(), full, "pruning should skip queries")
	assert.Greater(t, res.Stats.Rejected, 0)
	assert.Equal(t, Binomial(6, 3), res.Stats.Enumerated)
	assert.True(t, res.Combo.Contains(1))
	assert.True(t, res.Combo.Contains(6))
}

func TestSearch_MatchesExhaustive(t *testing.T) {
	rng := testutil.NewTestRNG(42)
	for trial := 0; trial < 200; trial++ {
		n := 3 + rng.Intn(7)   // 3..9
		k := 3 + rng.Intn(n-2) // 3..n
		maxDist := 1 + rng.Intn(12)
		m := testutil.RandomMatrix(rng, n, maxDist)
		r := testutil.MakeRoster(string(make([]byte, n)))

		res := NewOptimizer(m, 0).FindMostDistantSubset(r, k)
		want, wp := exhaustiveBest(r, k, m)

		require.Equal(t, ids(want), ids(res.Combo), "trial %d n=%d k=%d", trial, n, k)
		require.Equal(t, wp, res.Profile, "trial %d", trial)
	}
}

func TestFarthestPair_MatchesExhaustive(t *testing.T) {
	rng := testutil.NewTestRNG(7)
	for trial := 0; trial < 100; trial++ {
		n := 2 + rng.Intn(11)
		m := testutil.RandomMatrix(rng, n, 1+rng.Intn(6))
		r := testutil.MakeRoster(string(make([]byte, n)))

		res := NewOptimizer(m, 0).FindMostDistantSubset(r, 2)
		want, _ := exhaustiveBest(r, 2, m)
		require.Equal(t, ids(want), ids(res.Combo), "trial %d", trial)
	}
}

func TestOptimizer_Idempotent(t *testing.T) {
	rng := testutil.NewTestRNG(99)
	m := testutil.RandomMatrix(rng, 10, 5)
	r := testutil.MakeRoster("HAHAHAHAHA")
	o := NewOptimizer(m, 0)

	first := o.FindMostDistantSubset(r, 5)
	second := o.FindMostDistantSubset(r, 5)
	assert.Equal(t, ids(first.Combo), ids(second.Combo))
	assert.Equal(t, first.Profile, second.Profile)
}

func TestOptimizer_Preconditions(t *testing.T) {
	m := testutil.RandomMatrix(testutil.NewTestRNG(1), 13, 5)
	o := NewOptimizer(m, 0)
	assert.Equal(t, DefaultMaxParticipants, o.MaxParticipants())

	testutil.AssertPanicContains(t, func() {
		o.FindMostDistantSubset(testutil.MakeRoster("HHHHHHHHHHHHH"), 2)
	}, "exceeds cap of 12")
	testutil.AssertPanicContains(t, func() {
		o.FindMostDistantSubset(testutil.MakeRoster("HAA"), 1)
	}, "below 2")
	testutil.AssertPanicContains(t, func() {
		o.FindMostDistantSubset(testutil.MakeRoster("HA"), 3)
	}, "exceeds 2 participants")

	custom := NewOptimizer(m, 4)
	testutil.AssertPanicContains(t, func() {
		custom.FindMostDistantSubset(testutil.MakeRoster("HHAAA"), 2)
	}, "exceeds cap of 4")
}

func TestBest_Offer(t *testing.T) {
	r := testutil.MakeRoster("HHH")
	a := Combination{r[0]}
	b := Combination{r[1]}
	c := Combination{r[2]}

	var acc best
	assert.Equal(t, 0, acc.floor())

	acc, v := acc.offer(a, Profile{Min: 0, Sum: 0})
	assert.Equal(t, verdictImproved, v, "first candidate is always taken")

	acc, v = acc.offer(b, Profile{Min: 3, Sum: 3})
	assert.Equal(t, verdictImproved, v)
	assert.Equal(t, 3, acc.floor())

	acc, v = acc.offer(c, Profile{Min: 3, Sum: 3})
	assert.Equal(t, verdictKept, v)
	assert.Equal(t, b, acc.combo)

	acc, v = acc.offer(c, Profile{Min: 3, Sum: 4})
	assert.Equal(t, verdictTieBroken, v)
	assert.Equal(t, c, acc.combo)

	_, v = acc.offer(a, Profile{Min: 2, Sum: 100})
	assert.Equal(t, verdictKept, v)
}

func BenchmarkFindMostDistantSubset_12_6(b *testing.B) {
	m := testutil.RandomMatrix(testutil.NewTestRNG(3), 12, 30)
	r := testutil.MakeRoster("HAHAHAHAHAHA")
	o := NewOptimizer(m, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.FindMostDistantSubset(r, 6)
	}
}
