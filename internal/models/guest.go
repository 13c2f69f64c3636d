package models

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for check-in/check-out dates.
const DateLayout = "2006-01-02"

// ReservationStatus represents the lifecycle state of a guest record
type ReservationStatus string

const (
	StatusPending    ReservationStatus = "pending"
	StatusCheckedIn  ReservationStatus = "checked-in"
	StatusCancelled  ReservationStatus = "cancelled"
	StatusCheckedOut ReservationStatus = "checked-out"
)

// Reservation represents an expected or in-progress arrival.
// Records live in the todayArrivals collection until the guest
// checks out or the record is deleted.
type Reservation struct {
	ID            int64             `json:"id"`
	GuestName     string            `json:"guestName"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	RoomNumber    string            `json:"roomNumber"`
	RoomType      string            `json:"roomType"`
	CheckInDate   string            `json:"checkInDate"`
	CheckOutDate  string            `json:"checkOutDate"`
	CheckInTime   *time.Time        `json:"checkInTime,omitempty"`
	Status        ReservationStatus `json:"status,omitempty"`
	BookingNumber string            `json:"bookingNumber"`
	PaymentAmount *float64          `json:"paymentAmount,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// EffectiveStatus normalizes records where the status field is absent.
// An empty status means the reservation is still pending.
func (r *Reservation) EffectiveStatus() ReservationStatus {
	if r.Status == "" {
		return StatusPending
	}
	return r.Status
}

// InHouseGuest represents a guest currently checked into a room.
// Records live in the currentlyInHouse collection and are unique by ID.
type InHouseGuest struct {
	ID            int64             `json:"id"`
	GuestName     string            `json:"guestName"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	RoomNumber    string            `json:"roomNumber"`
	RoomType      string            `json:"roomType"`
	CheckInDate   string            `json:"checkInDate"`
	CheckOutDate  string            `json:"checkOutDate"`
	CheckInTime   time.Time         `json:"checkInTime"`
	Status        ReservationStatus `json:"status"`
	BookingNumber string            `json:"bookingNumber"`
	PaymentAmount *float64          `json:"paymentAmount,omitempty"`
}

// NewInHouseGuest copies a reservation into an in-house record at the
// moment of check-in.
func NewInHouseGuest(r Reservation, at time.Time) InHouseGuest {
	return InHouseGuest{
		ID:            r.ID,
		GuestName:     r.GuestName,
		Email:         r.Email,
		Phone:         r.Phone,
		RoomNumber:    r.RoomNumber,
		RoomType:      r.RoomType,
		CheckInDate:   r.CheckInDate,
		CheckOutDate:  r.CheckOutDate,
		CheckInTime:   at,
		Status:        StatusCheckedIn,
		BookingNumber: r.BookingNumber,
		PaymentAmount: r.PaymentAmount,
	}
}

// CheckoutRecord is the terminal, append-only record of a completed stay.
type CheckoutRecord struct {
	ID            int64             `json:"id"`
	GuestName     string            `json:"guestName"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	RoomNumber    string            `json:"roomNumber"`
	RoomType      string            `json:"roomType"`
	CheckInDate   string            `json:"checkInDate"`
	CheckOutDate  string            `json:"checkOutDate"`
	CheckInTime   time.Time         `json:"checkInTime"`
	CheckOutTime  time.Time         `json:"checkOutTime"`
	Status        ReservationStatus `json:"status"`
	BookingNumber string            `json:"bookingNumber"`
	TotalAmount   float64           `json:"totalAmount"`
	Feedback      string            `json:"feedback,omitempty"`
}

// NewCheckoutRecord closes out an in-house guest at checkout time.
func NewCheckoutRecord(g InHouseGuest, at time.Time, total float64, feedback string) CheckoutRecord {
	return CheckoutRecord{
		ID:            g.ID,
		GuestName:     g.GuestName,
		Email:         g.Email,
		Phone:         g.Phone,
		RoomNumber:    g.RoomNumber,
		RoomType:      g.RoomType,
		CheckInDate:   g.CheckInDate,
		CheckOutDate:  at.Format(DateLayout),
		CheckInTime:   g.CheckInTime,
		CheckOutTime:  at,
		Status:        StatusCheckedOut,
		BookingNumber: g.BookingNumber,
		TotalAmount:   total,
		Feedback:      feedback,
	}
}

// CreateReservationRequest is the payload for the guest check-in wizard
// and for on-site reservations created by admins.
type CreateReservationRequest struct {
	GuestName    string `json:"guestName" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	RoomType     string `json:"roomType" binding:"required"`
	RoomNumber   string `json:"roomNumber"`
	CheckInDate  string `json:"checkInDate" binding:"required"`
	CheckOutDate string `json:"checkOutDate" binding:"required"`
}

// Validate checks required fields and date ordering before any store
// mutation is attempted.
func (r *CreateReservationRequest) Validate() error {
	if strings.TrimSpace(r.GuestName) == "" {
		return errors.New("guestName is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	if strings.TrimSpace(r.Phone) == "" {
		return errors.New("phone is required")
	}
	in, err := time.Parse(DateLayout, r.CheckInDate)
	if err != nil {
		return errors.New("checkInDate must be formatted as YYYY-MM-DD")
	}
	out, err := time.Parse(DateLayout, r.CheckOutDate)
	if err != nil {
		return errors.New("checkOutDate must be formatted as YYYY-MM-DD")
	}
	if out.Before(in) {
		return errors.New("checkOutDate cannot precede checkInDate")
	}
	return nil
}

// CheckoutRequest is the payload for guest and admin checkout actions.
type CheckoutRequest struct {
	Feedback string `json:"feedback"`
}
