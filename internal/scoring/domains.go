package scoring

// MET coefficients fixed by the IPAQ long-form scoring protocol.
const (
	metWalk         = 3.3
	metModerate     = 4.0
	metVigorous     = 8.0
	metCycle        = 6.0
	metYardVigorous = 5.5
	metYardModerate = 4.0
	metInsideChores = 3.0
)

// Metric pairs weekly minutes with the corresponding MET-minutes.
type Metric struct {
	Time float64
	MET  float64
}

func add(metrics ...Metric) Metric {
	var sum Metric
	for _, m := range metrics {
		sum.Time += m.Time
		sum.MET += m.MET
	}
	return sum
}

// DomainMetrics holds time and MET-minutes for every domain/subtype pair.
type DomainMetrics struct {
	WorkWalk, WorkModerate, WorkVigorous Metric

	TransportWalk, TransportCycle Metric

	YardVigorous, YardModerate, InsideChores Metric

	LeisureWalk, LeisureModerate, LeisureVigorous Metric
}

func metric(days, minutes, coefficient float64) Metric {
	t := days * minutes
	return Metric{Time: t, MET: coefficient * t}
}

// ComputeDomains derives time = days x minutes and MET = coefficient x time
// for every subtype. Subtypes are independent: zero input yields zero output
// without touching the others, and missing minutes propagate as missing.
func ComputeDomains(row NormalizedRow) DomainMetrics {
	return DomainMetrics{
		WorkWalk:     metric(row.WorkWalkDays, row.WorkWalkTime, metWalk),
		WorkModerate: metric(row.WorkModDays, row.WorkModTime, metModerate),
		WorkVigorous: metric(row.WorkVigDays, row.WorkVigTime, metVigorous),

		TransportWalk:  metric(row.TransportWalkDays, row.TransportWalkTime, metWalk),
		TransportCycle: metric(row.CycleDays, row.CycleTime, metCycle),

		YardVigorous: metric(row.YardVigDays, row.YardVigTime, metYardVigorous),
		YardModerate: metric(row.YardModDays, row.YardModTime, metYardModerate),
		InsideChores: metric(row.InsideModDays, row.InsideModTime, metInsideChores),

		LeisureWalk:     metric(row.LeisureWalkDays, row.LeisureWalkTime, metWalk),
		LeisureModerate: metric(row.LeisureModDays, row.LeisureModTime, metModerate),
		LeisureVigorous: metric(row.LeisureVigDays, row.LeisureVigTime, metVigorous),
	}
}
