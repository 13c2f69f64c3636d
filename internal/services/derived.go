package services

import (
	"math"
	"time"

	"github.com/swiftstay/selfcheckin-backend/internal/models"
)

// Derived-value computations. Everything in this file is a pure function
// over collections read from the store; nothing here is persisted.

// DefaultNightlyRate applies when a record carries a room type outside
// the fixed catalog.
const DefaultNightlyRate = 299

// RoomPrice returns the nightly rate for a room type.
func RoomPrice(roomType string) float64 {
	for _, spec := range models.RoomTypes() {
		if spec.Name == roomType {
			return spec.Rate
		}
	}
	return DefaultNightlyRate
}

// NightsBetween returns the ceiling calendar-day difference between two
// YYYY-MM-DD dates. It never goes negative: a checkout date before the
// check-in date, or an unparseable date, counts as zero nights.
func NightsBetween(checkInDate, checkOutDate string) int {
	in, err := time.Parse(models.DateLayout, checkInDate)
	if err != nil {
		return 0
	}
	out, err := time.Parse(models.DateLayout, checkOutDate)
	if err != nil {
		return 0
	}
	nights := int(math.Ceil(out.Sub(in).Hours() / 24))
	if nights < 0 {
		return 0
	}
	return nights
}

// StayAmount computes the bill for an in-house guest as of `until`:
// nightly rate times nights stayed, with a one-night minimum. An
// explicit payment amount on the record wins over the computation.
func StayAmount(g models.InHouseGuest, until time.Time) float64 {
	if g.PaymentAmount != nil {
		return *g.PaymentAmount
	}
	nights := NightsBetween(g.CheckInDate, until.Format(models.DateLayout))
	if nights < 1 {
		nights = 1
	}
	return RoomPrice(g.RoomType) * float64(nights)
}

// TypeOccupancy is the per-type slice of an occupancy breakdown.
type TypeOccupancy struct {
	RoomType   string  `json:"roomType"`
	Occupied   int     `json:"occupied"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// OccupancyBreakdown groups in-house guests by room type against the
// fixed catalog counts. Guests with an unknown room type are ignored;
// per-type occupancy is capped at the catalog count so the grand total
// can never exceed the 100 physical rooms.
func OccupancyBreakdown(inHouse []models.InHouseGuest) []TypeOccupancy {
	counts := make(map[string]int)
	for _, g := range inHouse {
		counts[g.RoomType]++
	}

	var breakdown []TypeOccupancy
	for _, spec := range models.RoomTypes() {
		occupied := counts[spec.Name]
		if occupied > spec.Count {
			occupied = spec.Count
		}
		breakdown = append(breakdown, TypeOccupancy{
			RoomType:   spec.Name,
			Occupied:   occupied,
			Total:      spec.Count,
			Percentage: math.Round(float64(occupied)/float64(spec.Count)*10000) / 100,
		})
	}
	return breakdown
}

// RevenueSummary aggregates billing across the in-house collection.
type RevenueSummary struct {
	TotalRevenue float64 `json:"totalRevenue"`
	TodayRevenue float64 `json:"todayRevenue"`
	GuestCount   int     `json:"guestCount"`
}

// RevenueBreakdown sums StayAmount across all in-house guests for total
// revenue, and across guests who checked in on the current calendar day
// for today's revenue.
func RevenueBreakdown(inHouse []models.InHouseGuest, now time.Time) RevenueSummary {
	summary := RevenueSummary{GuestCount: len(inHouse)}
	today := now.Format(models.DateLayout)
	for _, g := range inHouse {
		amount := StayAmount(g, now)
		summary.TotalRevenue += amount
		if g.CheckInTime.Format(models.DateLayout) == today {
			summary.TodayRevenue += amount
		}
	}
	return summary
}

// DeriveRoomStatuses cross-references the fixed catalog against the
// in-house collection: a room with a checked-in guest is occupied,
// everything else is available. Room occupancy is a view, never a
// stored fact.
func DeriveRoomStatuses(inHouse []models.InHouseGuest) []models.Room {
	occupied := make(map[string]bool, len(inHouse))
	for _, g := range inHouse {
		occupied[g.RoomNumber] = true
	}

	rooms := models.RoomCatalog()
	for i := range rooms {
		if occupied[rooms[i].RoomNumber] {
			rooms[i].Status = models.RoomOccupied
		}
	}
	return rooms
}

// FirstAvailableRoom picks the lowest-numbered free room of the given
// type, for check-ins that did not choose a room. Returns empty string
// when the type is fully occupied.
func FirstAvailableRoom(roomType string, inHouse []models.InHouseGuest) string {
	occupied := make(map[string]bool, len(inHouse))
	for _, g := range inHouse {
		occupied[g.RoomNumber] = true
	}
	for _, room := range models.RoomCatalog() {
		if room.RoomType == roomType && !occupied[room.RoomNumber] {
			return room.RoomNumber
		}
	}
	return ""
}
