package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReservationRequest_Validate(t *testing.T) {
	valid := CreateReservationRequest{
		GuestName:    "Alice Example",
		Email:        "alice@example.com",
		Phone:        "+14155550101",
		RoomType:     RoomTypeDeluxe,
		CheckInDate:  "2026-03-12",
		CheckOutDate: "2026-03-14",
	}

	t.Run("Valid request", func(t *testing.T) {
		req := valid
		assert.NoError(t, req.Validate())
	})

	t.Run("Same-day stay is allowed", func(t *testing.T) {
		req := valid
		req.CheckOutDate = req.CheckInDate
		assert.NoError(t, req.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*CreateReservationRequest)
	}{
		{"Blank name", func(r *CreateReservationRequest) { r.GuestName = "  " }},
		{"Blank email", func(r *CreateReservationRequest) { r.Email = "" }},
		{"Blank phone", func(r *CreateReservationRequest) { r.Phone = "" }},
		{"Bad check-in format", func(r *CreateReservationRequest) { r.CheckInDate = "12-03-2026" }},
		{"Bad checkout format", func(r *CreateReservationRequest) { r.CheckOutDate = "March 14" }},
		{"Checkout precedes check-in", func(r *CreateReservationRequest) { r.CheckOutDate = "2026-03-01" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			assert.Error(t, req.Validate())
		})
	}
}

func TestEffectiveStatus(t *testing.T) {
	t.Run("Empty status means pending", func(t *testing.T) {
		r := Reservation{}
		assert.Equal(t, StatusPending, r.EffectiveStatus())
	})

	t.Run("Explicit status wins", func(t *testing.T) {
		r := Reservation{Status: StatusCheckedIn}
		assert.Equal(t, StatusCheckedIn, r.EffectiveStatus())
	})
}

func TestNewInHouseGuest(t *testing.T) {
	at := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	r := Reservation{
		ID:            42,
		GuestName:     "Alice Example",
		RoomNumber:    "101",
		RoomType:      RoomTypeDeluxe,
		CheckInDate:   "2026-03-12",
		CheckOutDate:  "2026-03-14",
		BookingNumber: "SS-ABCD1234",
	}

	g := NewInHouseGuest(r, at)
	assert.Equal(t, r.ID, g.ID)
	assert.Equal(t, r.BookingNumber, g.BookingNumber)
	assert.Equal(t, StatusCheckedIn, g.Status)
	assert.Equal(t, at, g.CheckInTime)
}

func TestNewCheckoutRecord(t *testing.T) {
	checkedIn := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	checkedOut := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)

	g := InHouseGuest{
		ID:          42,
		GuestName:   "Alice Example",
		RoomNumber:  "101",
		CheckInDate: "2026-03-12",
		CheckInTime: checkedIn,
	}

	record := NewCheckoutRecord(g, checkedOut, 598, "great stay")
	require.Equal(t, g.ID, record.ID)
	assert.Equal(t, StatusCheckedOut, record.Status)
	assert.Equal(t, checkedOut, record.CheckOutTime)
	assert.Equal(t, "2026-03-14", record.CheckOutDate)
	assert.Equal(t, float64(598), record.TotalAmount)
	assert.Equal(t, "great stay", record.Feedback)
}
