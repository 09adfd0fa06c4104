package scoring

// minBoutMinutes is the protocol's minimum per-occurrence duration. An
// activity reported under 10 minutes does not count regardless of how many
// days it was reported on.
const minBoutMinutes = 10

// Clean zeroes every active or commute time item under the minimum bout
// alongside its coupled day count, and returns a new row. Sitting items are
// exempt. A missing time (NaN) fails the comparison and is left alone.
func Clean(row NormalizedRow) NormalizedRow {
	out := row

	pairs := [][2]*float64{
		{&out.WorkVigTime, &out.WorkVigDays},
		{&out.WorkModTime, &out.WorkModDays},
		{&out.WorkWalkTime, &out.WorkWalkDays},
		{&out.VehicleTime, &out.VehicleDays},
		{&out.CycleTime, &out.CycleDays},
		{&out.TransportWalkTime, &out.TransportWalkDays},
		{&out.YardVigTime, &out.YardVigDays},
		{&out.YardModTime, &out.YardModDays},
		{&out.InsideModTime, &out.InsideModDays},
		{&out.LeisureWalkTime, &out.LeisureWalkDays},
		{&out.LeisureVigTime, &out.LeisureVigDays},
		{&out.LeisureModTime, &out.LeisureModDays},
	}

	for _, pair := range pairs {
		if *pair[0] < minBoutMinutes {
			*pair[0] = 0
			*pair[1] = 0
		}
	}
	return out
}
