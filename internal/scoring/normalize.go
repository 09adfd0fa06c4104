package scoring

import "math"

// Hour-field values that are really minutes mis-entered in the hours box.
// The scoring protocol lists these exact codes; they are added to the
// minutes field without the x60 conversion.
var minuteSentinels = map[float64]bool{15: true, 30: true, 45: true, 60: true, 90: true}

const minutesPerDay = 1440

// NormalizedRow carries per-subject minutes for every time item and the
// untouched day counts. Time fields may hold NaN, the missing marker.
type NormalizedRow struct {
	SubjectID string
	HasJob    float64

	WorkVigDays, WorkVigTime   float64
	WorkModDays, WorkModTime   float64
	WorkWalkDays, WorkWalkTime float64

	VehicleDays, VehicleTime             float64
	CycleDays, CycleTime                 float64
	TransportWalkDays, TransportWalkTime float64

	YardVigDays, YardVigTime     float64
	YardModDays, YardModTime     float64
	InsideModDays, InsideModTime float64

	LeisureWalkDays, LeisureWalkTime float64
	LeisureVigDays, LeisureVigTime   float64
	LeisureModDays, LeisureModTime   float64

	SitWeekdayTime, SitWeekendTime float64
}

// normalizeTime folds a split (hours, minutes) answer into total minutes.
// Sentinel hour codes are taken as minutes directly. A total of a full day
// or more is invalid for a single item and becomes the missing marker.
func normalizeTime(hours, minutes float64) float64 {
	if minuteSentinels[hours] {
		minutes += hours
		hours = 0
	}
	total := hours*60 + minutes
	if total >= minutesPerDay {
		return math.NaN()
	}
	return total
}

// Normalize converts every split duration to minutes, leaving day counts
// untouched. It must run before Clean.
func Normalize(r Response) NormalizedRow {
	return NormalizedRow{
		SubjectID: r.SubjectID,
		HasJob:    r.HasJob,

		WorkVigDays: r.WorkVigDays, WorkVigTime: normalizeTime(r.WorkVigHours, r.WorkVigMinutes),
		WorkModDays: r.WorkModDays, WorkModTime: normalizeTime(r.WorkModHours, r.WorkModMinutes),
		WorkWalkDays: r.WorkWalkDays, WorkWalkTime: normalizeTime(r.WorkWalkHours, r.WorkWalkMinutes),

		VehicleDays: r.VehicleDays, VehicleTime: normalizeTime(r.VehicleHours, r.VehicleMinutes),
		CycleDays: r.CycleDays, CycleTime: normalizeTime(r.CycleHours, r.CycleMinutes),
		TransportWalkDays: r.TransportWalkDays, TransportWalkTime: normalizeTime(r.TransportWalkHours, r.TransportWalkMinutes),

		YardVigDays: r.YardVigDays, YardVigTime: normalizeTime(r.YardVigHours, r.YardVigMinutes),
		YardModDays: r.YardModDays, YardModTime: normalizeTime(r.YardModHours, r.YardModMinutes),
		InsideModDays: r.InsideModDays, InsideModTime: normalizeTime(r.InsideModHours, r.InsideModMinutes),

		LeisureWalkDays: r.LeisureWalkDays, LeisureWalkTime: normalizeTime(r.LeisureWalkHours, r.LeisureWalkMinutes),
		LeisureVigDays: r.LeisureVigDays, LeisureVigTime: normalizeTime(r.LeisureVigHours, r.LeisureVigMinutes),
		LeisureModDays: r.LeisureModDays, LeisureModTime: normalizeTime(r.LeisureModHours, r.LeisureModMinutes),

		SitWeekdayTime: normalizeTime(r.SitWeekdayHours, r.SitWeekdayMinutes),
		SitWeekendTime: normalizeTime(r.SitWeekendHours, r.SitWeekendMinutes),
	}
}
