package scoring

// maxWeeklyActiveMinutes is the protocol ceiling (16 hours) on summed
// active time. Subjects beyond it are flagged and their results discarded.
const maxWeeklyActiveMinutes = 960

// ActiveMinutes sums the 11 active time items across all four domains,
// post-cleaning. Motor-vehicle travel and sitting are not active time and
// are excluded.
func ActiveMinutes(row NormalizedRow) float64 {
	return row.WorkVigTime + row.WorkModTime + row.WorkWalkTime +
		row.CycleTime + row.TransportWalkTime +
		row.YardVigTime + row.YardModTime + row.InsideModTime +
		row.LeisureWalkTime + row.LeisureVigTime + row.LeisureModTime
}

// IsOutlier reports whether the subject's summed active time exceeds the
// ceiling. A missing item makes the sum missing, which never exceeds the
// ceiling.
func IsOutlier(row NormalizedRow) bool {
	return ActiveMinutes(row) > maxWeeklyActiveMinutes
}
