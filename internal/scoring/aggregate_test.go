package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeDomainsCoefficients(t *testing.T) {
	row := NormalizedRow{
		WorkWalkDays: 1, WorkWalkTime: 100,
		WorkModDays: 1, WorkModTime: 100,
		WorkVigDays: 1, WorkVigTime: 100,
		CycleDays: 1, CycleTime: 100,
		YardVigDays: 1, YardVigTime: 100,
		YardModDays: 1, YardModTime: 100,
		InsideModDays: 1, InsideModTime: 100,
		LeisureWalkDays: 1, LeisureWalkTime: 100,
		LeisureModDays: 1, LeisureModTime: 100,
		LeisureVigDays: 1, LeisureVigTime: 100,
	}

	m := ComputeDomains(row)

	require.Equal(t, 330.0, m.WorkWalk.MET)
	require.Equal(t, 400.0, m.WorkModerate.MET)
	require.Equal(t, 800.0, m.WorkVigorous.MET)
	require.Equal(t, 600.0, m.TransportCycle.MET)
	require.Equal(t, 550.0, m.YardVigorous.MET)
	require.Equal(t, 400.0, m.YardModerate.MET)
	require.Equal(t, 300.0, m.InsideChores.MET)
	require.Equal(t, 330.0, m.LeisureWalk.MET)
	require.Equal(t, 400.0, m.LeisureModerate.MET)
	require.Equal(t, 800.0, m.LeisureVigorous.MET)
}

func TestComputeDomainsSubtypesDoNotContaminate(t *testing.T) {
	row := NormalizedRow{CycleDays: 2, CycleTime: 30}
	m := ComputeDomains(row)

	require.Equal(t, Metric{Time: 60, MET: 360}, m.TransportCycle)
	require.Zero(t, m.TransportWalk.Time)
	require.Zero(t, m.WorkVigorous.MET)
	require.Zero(t, m.LeisureWalk.MET)
}

func TestAggregateFoldsYardVigorousIntoModerate(t *testing.T) {
	row := NormalizedRow{YardVigDays: 2, YardVigTime: 60}
	totals := Aggregate(row, ComputeDomains(row))

	require.Equal(t, 120.0, totals.Moderate.Time)
	require.Equal(t, 660.0, totals.Moderate.MET) // 5.5 * 120
	require.Zero(t, totals.Vigorous.Time)
	require.Zero(t, totals.Vigorous.MET)

	// It still counts as domestic time in the domain totals.
	require.Equal(t, 120.0, totals.Domestic.Time)
}

func TestAggregateSedentaryTotal(t *testing.T) {
	row := NormalizedRow{SitWeekdayTime: 600, SitWeekendTime: 300}
	totals := Aggregate(row, ComputeDomains(row))
	require.Equal(t, 3600.0, totals.SittingTime)
}

func TestAggregateMissingPropagates(t *testing.T) {
	row := NormalizedRow{WorkModDays: 2, WorkModTime: math.NaN(), CycleDays: 1, CycleTime: 30}
	totals := Aggregate(row, ComputeDomains(row))

	require.True(t, math.IsNaN(totals.Moderate.Time))
	require.True(t, math.IsNaN(totals.Overall.MET))
	// Intensity buckets without the missing item stay defined.
	require.Zero(t, totals.Vigorous.MET)
}

func TestActiveMinutesExcludesVehicleAndSitting(t *testing.T) {
	row := NormalizedRow{
		WorkWalkTime:   100,
		CycleTime:      50,
		VehicleTime:    500,
		SitWeekdayTime: 600,
	}
	require.Equal(t, 150.0, ActiveMinutes(row))
}

func TestIsOutlierCeiling(t *testing.T) {
	row := NormalizedRow{LeisureWalkTime: 960}
	require.False(t, IsOutlier(row))
	row.LeisureWalkTime = 960.5
	require.True(t, IsOutlier(row))
}

func TestIsOutlierMissingSumIsNotAnOutlier(t *testing.T) {
	row := NormalizedRow{LeisureWalkTime: 1000, WorkVigTime: math.NaN()}
	require.False(t, IsOutlier(row))
}
