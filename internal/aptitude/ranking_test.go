package aptitude

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankCompetitionRanking(t *testing.T) {
	// Scores [90, 90, 80, 70], tie broken by earlier submission for ordering;
	// both tied entries keep rank 1 and the next distinct score gets rank 3.
	rows := []ResultRow{
		{Regno: "p1", Marks: 90, SubmittedAt: 200},
		{Regno: "p2", Marks: 90, SubmittedAt: 100},
		{Regno: "p3", Marks: 80, SubmittedAt: 300},
		{Regno: "p4", Marks: 70, SubmittedAt: 400},
	}

	entries := Rank(rows)
	require.Len(t, entries, 4)

	assert.Equal(t, "p2", entries[0].Regno)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "p1", entries[1].Regno)
	assert.Equal(t, 1, entries[1].Rank)
	assert.Equal(t, "p3", entries[2].Regno)
	assert.Equal(t, 3, entries[2].Rank)
	assert.Equal(t, "p4", entries[3].Regno)
	assert.Equal(t, 4, entries[3].Rank)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	rows := []ResultRow{
		{Regno: "p1", Marks: 10, SubmittedAt: 2},
		{Regno: "p2", Marks: 20, SubmittedAt: 1},
	}
	Rank(rows)
	assert.Equal(t, "p1", rows[0].Regno)
}

func TestRankByTradePartitions(t *testing.T) {
	rows := []ResultRow{
		{Regno: "e1", Trade: "ELEC", Marks: 50, SubmittedAt: 1},
		{Regno: "m1", Trade: "MECH", Marks: 90, SubmittedAt: 2},
		{Regno: "e2", Trade: "ELEC", Marks: 70, SubmittedAt: 3},
		{Regno: "m2", Trade: "MECH", Marks: 40, SubmittedAt: 4},
	}

	entries := RankByTrade(rows)
	require.Len(t, entries, 4)

	// Trades listed in ascending order, each ranked independently.
	assert.Equal(t, "e2", entries[0].Regno)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "e1", entries[1].Regno)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "m1", entries[2].Regno)
	assert.Equal(t, 1, entries[2].Rank)
	assert.Equal(t, "m2", entries[3].Regno)
	assert.Equal(t, 2, entries[3].Rank)
}

func TestTopNKeepsBoundaryTies(t *testing.T) {
	rows := []ResultRow{
		{Regno: "p1", Marks: 90, SubmittedAt: 1},
		{Regno: "p2", Marks: 80, SubmittedAt: 2},
		{Regno: "p3", Marks: 70, SubmittedAt: 3},
		{Regno: "p4", Marks: 70, SubmittedAt: 4},
		{Regno: "p5", Marks: 60, SubmittedAt: 5},
	}

	top := TopN(Rank(rows), 3)
	require.Len(t, top, 4) // both rank-3 entries stay
	assert.Equal(t, "p4", top[3].Regno)
	assert.Equal(t, 3, top[3].Rank)
}

func TestTopNAcrossTradePartitions(t *testing.T) {
	rows := []ResultRow{
		{Regno: "e1", Trade: "ELEC", Marks: 10, SubmittedAt: 1},
		{Regno: "e2", Trade: "ELEC", Marks: 9, SubmittedAt: 2},
		{Regno: "m1", Trade: "MECH", Marks: 8, SubmittedAt: 3},
	}

	top := TopN(RankByTrade(rows), 1)
	require.Len(t, top, 2)
	assert.Equal(t, "e1", top[0].Regno)
	assert.Equal(t, "m1", top[1].Regno)
}

func TestRankOf(t *testing.T) {
	rows := []ResultRow{
		{Regno: "p1", Marks: 90, SubmittedAt: 1},
		{Regno: "p2", Marks: 90, SubmittedAt: 2},
		{Regno: "p3", Marks: 50, SubmittedAt: 3},
	}

	rank, total, ok := RankOf(rows, "p3")
	assert.True(t, ok)
	assert.Equal(t, 3, rank)
	assert.Equal(t, 3, total)

	_, _, ok = RankOf(rows, "ghost")
	assert.False(t, ok)
}
