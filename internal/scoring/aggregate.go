package scoring

// Totals sums subtype metrics into intensity totals, per-domain totals, a
// grand total, and the weekly sedentary estimate.
type Totals struct {
	Walk     Metric
	Moderate Metric
	Vigorous Metric
	Overall  Metric

	Work      Metric
	Transport Metric
	Domestic  Metric
	Leisure   Metric

	SittingTime float64
}

// Aggregate folds domain metrics into totals. Yard-vigorous work counts
// toward the moderate intensity bucket, not vigorous; the protocol scores
// its cardiovascular load as moderate despite the 5.5 coefficient.
func Aggregate(row NormalizedRow, m DomainMetrics) Totals {
	t := Totals{
		Walk:     add(m.WorkWalk, m.TransportWalk, m.LeisureWalk),
		Moderate: add(m.WorkModerate, m.YardModerate, m.InsideChores, m.LeisureModerate, m.TransportCycle, m.YardVigorous),
		Vigorous: add(m.WorkVigorous, m.LeisureVigorous),

		Work:      add(m.WorkWalk, m.WorkModerate, m.WorkVigorous),
		Transport: add(m.TransportWalk, m.TransportCycle),
		Domestic:  add(m.YardVigorous, m.YardModerate, m.InsideChores),
		Leisure:   add(m.LeisureWalk, m.LeisureModerate, m.LeisureVigorous),

		SittingTime: row.SitWeekdayTime*5 + row.SitWeekendTime*2,
	}
	t.Overall = add(t.Work, t.Transport, t.Domestic, t.Leisure)
	return t
}
