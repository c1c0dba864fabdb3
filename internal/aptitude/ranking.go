package aptitude

import "sort"

// Rank orders rows by marks descending, submission time ascending, and
// assigns standard competition ranks: rows with equal marks share a rank and
// the next distinct mark's rank is 1 + the count of strictly higher rows.
// The tie-break by time affects ordering only, never the rank number.
func Rank(rows []ResultRow) []RankedEntry {
	ordered := make([]ResultRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Marks != ordered[j].Marks {
			return ordered[i].Marks > ordered[j].Marks
		}
		return ordered[i].SubmittedAt < ordered[j].SubmittedAt
	})

	entries := make([]RankedEntry, len(ordered))
	rank := 0
	for i, row := range ordered {
		if i == 0 || row.Marks != ordered[i-1].Marks {
			rank = i + 1
		}
		entries[i] = RankedEntry{
			Rank:        rank,
			Regno:       row.Regno,
			Name:        row.Name,
			Trade:       row.Trade,
			Avatar:      row.Avatar,
			Marks:       row.Marks,
			SubmittedAt: row.SubmittedAt,
		}
	}
	return entries
}

// RankByTrade partitions rows by participant trade and ranks each partition
// independently. The flattened result lists trades in ascending order.
func RankByTrade(rows []ResultRow) []RankedEntry {
	byTrade := make(map[string][]ResultRow)
	for _, row := range rows {
		byTrade[row.Trade] = append(byTrade[row.Trade], row)
	}

	trades := make([]string, 0, len(byTrade))
	for trade := range byTrade {
		trades = append(trades, trade)
	}
	sort.Strings(trades)

	var entries []RankedEntry
	for _, trade := range trades {
		entries = append(entries, Rank(byTrade[trade])...)
	}
	return entries
}

// TopN keeps entries ranked n or better. Ties at the boundary stay in, so the
// result can exceed n entries.
func TopN(entries []RankedEntry, n int) []RankedEntry {
	top := make([]RankedEntry, 0, n)
	for _, e := range entries {
		if e.Rank > n {
			// Within one partition entries are rank-ordered, but across
			// flattened partitions ranks restart, so keep scanning.
			continue
		}
		top = append(top, e)
	}
	return top
}

// RankOf locates one participant in the ranked standings. ok is false when
// the participant never submitted for the test.
func RankOf(rows []ResultRow, regno string) (rank, total int, ok bool) {
	entries := Rank(rows)
	for _, e := range entries {
		if e.Regno == regno {
			return e.Rank, len(entries), true
		}
	}
	return 0, len(entries), false
}
