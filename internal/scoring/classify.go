package scoring

// Category is the three-tier activity classification. The ordering of the
// constants matters: tiers are totally ordered and a subject receives the
// highest tier with a satisfied qualifying rule.
type Category int

const (
	CategoryLow Category = iota
	CategoryModerate
	CategoryHigh
)

func (c Category) String() string {
	switch c {
	case CategoryLow:
		return "low"
	case CategoryModerate:
		return "moderate"
	case CategoryHigh:
		return "high"
	default:
		return "unknown"
	}
}

type dayTimePair struct {
	days    float64
	minutes float64
}

// daysMeeting sums the day counts of pairs whose duration meets the
// threshold. A missing duration never satisfies the comparison.
func daysMeeting(pairs []dayTimePair, minMinutes float64) float64 {
	var days float64
	for _, p := range pairs {
		if p.minutes >= minMinutes {
			days += p.days
		}
	}
	return days
}

// Classify evaluates every qualifying rule unconditionally and returns the
// maximum tier among the satisfied ones. Rules never downgrade: a subject
// qualifying for High stays High no matter what the Moderate rules say.
func Classify(row NormalizedRow, totals Totals) Category {
	vigPairs := []dayTimePair{
		{row.WorkVigDays, row.WorkVigTime},
		{row.LeisureVigDays, row.LeisureVigTime},
	}
	walkModPairs := []dayTimePair{
		{row.WorkWalkDays, row.WorkWalkTime},
		{row.TransportWalkDays, row.TransportWalkTime},
		{row.LeisureWalkDays, row.LeisureWalkTime},
		{row.WorkModDays, row.WorkModTime},
		{row.CycleDays, row.CycleTime},
		{row.YardVigDays, row.YardVigTime},
		{row.YardModDays, row.YardModTime},
		{row.InsideModDays, row.InsideModTime},
		{row.LeisureModDays, row.LeisureModTime},
	}

	walkDays := row.WorkWalkDays + row.TransportWalkDays + row.LeisureWalkDays
	modDays := row.WorkModDays + row.CycleDays + row.YardVigDays + row.YardModDays + row.InsideModDays + row.LeisureModDays
	vigDays := row.WorkVigDays + row.LeisureVigDays
	totalDays := walkDays + modDays + vigDays

	candidates := []struct {
		tier      Category
		satisfied bool
	}{
		{CategoryModerate, daysMeeting(vigPairs, 20) >= 3},
		{CategoryModerate, daysMeeting(walkModPairs, 30) >= 5},
		{CategoryModerate, totalDays >= 5 && totals.Overall.MET >= 600},
		{CategoryHigh, vigDays >= 3 && totals.Vigorous.MET >= 1500},
		{CategoryHigh, totalDays >= 7 && totals.Overall.MET >= 3000},
	}

	category := CategoryLow
	for _, c := range candidates {
		if c.satisfied && c.tier > category {
			category = c.tier
		}
	}
	return category
}

// MeetsACSMMinimum reports whether the subject satisfies the ACSM minimum
// activity recommendation: moderate activity on 5+ days or vigorous
// activity on 3+ days. It deliberately uses the raw, unconditioned day
// counts rather than the time-thresholded counts feeding Classify; the two
// rule sets diverge in the protocol and must not be unified.
func MeetsACSMMinimum(r Response) bool {
	modDays := r.WorkModDays + r.CycleDays + r.YardVigDays + r.YardModDays + r.InsideModDays + r.LeisureModDays
	vigDays := r.WorkVigDays + r.LeisureVigDays
	return modDays >= 5 || vigDays >= 3
}
