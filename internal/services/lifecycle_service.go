package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/swiftstay/selfcheckin-backend/internal/events"
	"github.com/swiftstay/selfcheckin-backend/internal/models"
	"github.com/swiftstay/selfcheckin-backend/internal/store"
	"github.com/swiftstay/selfcheckin-backend/pkg/validator"
)

// LifecycleService is the single authority for guest state transitions:
// reserved -> checked-in -> checked-out, with cancellation as a side
// branch. Every transition is one store transaction across all affected
// collections, and the matching events are emitted only after commit.
// No other component writes the guest collections.
type LifecycleService struct {
	store     store.Store
	bus       *events.Bus
	logger    *logrus.Logger
	validator *validator.GuestValidator
	now       func() time.Time

	// guards timestamp-derived ID generation
	idMu   sync.Mutex
	lastID int64
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(st store.Store, bus *events.Bus, logger *logrus.Logger) *LifecycleService {
	return &LifecycleService{
		store:     st,
		bus:       bus,
		logger:    logger,
		validator: validator.NewGuestValidator(),
		now:       time.Now,
	}
}

// nextID derives a record ID from the current timestamp, bumped past the
// previous one so two records created in the same millisecond stay
// distinct.
func (s *LifecycleService) nextID() int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func newBookingNumber() string {
	return "SS-" + strings.ToUpper(uuid.NewString()[:8])
}

// buildReservation validates the request and assembles a pending
// reservation, picking a room when the guest did not choose one.
func (s *LifecycleService) buildReservation(req models.CreateReservationRequest, inHouse []models.InHouseGuest) (models.Reservation, error) {
	if err := req.Validate(); err != nil {
		return models.Reservation{}, &ValidationError{Message: err.Error()}
	}
	email, err := s.validator.ValidateEmail(req.Email)
	if err != nil {
		return models.Reservation{}, &ValidationError{Field: "email", Message: err.Error()}
	}
	phone, err := s.validator.ValidatePhone(req.Phone)
	if err != nil {
		return models.Reservation{}, &ValidationError{Field: "phone", Message: err.Error()}
	}

	roomNumber := req.RoomNumber
	if roomNumber == "" {
		roomNumber = FirstAvailableRoom(req.RoomType, inHouse)
		if roomNumber == "" {
			return models.Reservation{}, &ValidationError{Field: "roomType", Message: "no rooms of this type are available"}
		}
	} else {
		for _, g := range inHouse {
			if g.RoomNumber == roomNumber {
				return models.Reservation{}, &ValidationError{Field: "roomNumber", Message: "room " + roomNumber + " is occupied"}
			}
		}
	}

	return models.Reservation{
		ID:            s.nextID(),
		GuestName:     strings.TrimSpace(req.GuestName),
		Email:         email,
		Phone:         phone,
		RoomNumber:    roomNumber,
		RoomType:      req.RoomType,
		CheckInDate:   req.CheckInDate,
		CheckOutDate:  req.CheckOutDate,
		Status:        models.StatusPending,
		BookingNumber: newBookingNumber(),
		CreatedAt:     s.now(),
	}, nil
}

// CreateReservation records an expected arrival without checking the
// guest in. Used for on-site reservations and the trip planner flow.
func (s *LifecycleService) CreateReservation(req models.CreateReservationRequest) (*models.Reservation, error) {
	var (
		created  models.Reservation
		arrivals []models.Reservation
	)
	err := s.store.Update(func(tx store.Tx) error {
		var inHouse []models.InHouseGuest
		if err := tx.Get(store.KeyCurrentlyInHouse, &inHouse); err != nil {
			return err
		}
		var err error
		created, err = s.buildReservation(req, inHouse)
		if err != nil {
			return err
		}
		if err := tx.Get(store.KeyTodayArrivals, &arrivals); err != nil {
			return err
		}
		arrivals = append(arrivals, created)
		return tx.Set(store.KeyTodayArrivals, arrivals)
	})
	if err != nil {
		return nil, err
	}

	s.emit(events.TopicArrivalsUpdated, arrivals)
	s.logger.WithFields(logrus.Fields{
		"guest_id": created.ID,
		"booking":  created.BookingNumber,
		"room":     created.RoomNumber,
	}).Info("Reservation created")
	return &created, nil
}

// CheckInNew runs the guest self-check-in wizard: it creates the
// reservation and checks it in as one transition.
func (s *LifecycleService) CheckInNew(req models.CreateReservationRequest) (*models.InHouseGuest, error) {
	var (
		guest    models.InHouseGuest
		arrivals []models.Reservation
		inHouse  []models.InHouseGuest
	)
	err := s.store.Update(func(tx store.Tx) error {
		if err := tx.Get(store.KeyCurrentlyInHouse, &inHouse); err != nil {
			return err
		}
		res, err := s.buildReservation(req, inHouse)
		if err != nil {
			return err
		}

		now := s.now()
		res.CheckInTime = &now
		res.Status = models.StatusCheckedIn
		guest = models.NewInHouseGuest(res, now)

		if err := tx.Get(store.KeyTodayArrivals, &arrivals); err != nil {
			return err
		}
		arrivals = append(arrivals, res)
		inHouse = appendUnique(inHouse, guest)

		if err := tx.Set(store.KeyTodayArrivals, arrivals); err != nil {
			return err
		}
		return tx.Set(store.KeyCurrentlyInHouse, inHouse)
	})
	if err != nil {
		return nil, err
	}

	s.emit(events.TopicArrivalsUpdated, arrivals)
	s.emit(events.TopicInHouseUpdated, inHouse)
	s.logger.WithFields(logrus.Fields{
		"guest_id": guest.ID,
		"booking":  guest.BookingNumber,
		"room":     guest.RoomNumber,
	}).Info("Guest checked in via self check-in")
	return &guest, nil
}

// CheckIn moves an existing reservation to checked-in. The arrival gains
// its check-in time and the guest enters currentlyInHouse exactly once,
// in the same transaction.
func (s *LifecycleService) CheckIn(id int64) (*models.InHouseGuest, error) {
	var (
		guest    models.InHouseGuest
		arrivals []models.Reservation
		inHouse  []models.InHouseGuest
	)
	err := s.store.Update(func(tx store.Tx) error {
		if err := tx.Get(store.KeyTodayArrivals, &arrivals); err != nil {
			return err
		}
		idx := findReservation(arrivals, id)
		if idx < 0 {
			return &NotFoundError{Resource: "reservation", ID: formatID(id)}
		}

		res := &arrivals[idx]
		switch res.EffectiveStatus() {
		case models.StatusPending:
			// legal transition
		case models.StatusCheckedIn:
			return &TransitionError{ID: id, From: string(models.StatusCheckedIn), Action: "check in", Message: "guest is already in house"}
		default:
			return &TransitionError{ID: id, From: string(res.EffectiveStatus()), Action: "check in", Message: "reservation is not pending"}
		}

		now := s.now()
		res.CheckInTime = &now
		res.Status = models.StatusCheckedIn
		guest = models.NewInHouseGuest(*res, now)

		if err := tx.Get(store.KeyCurrentlyInHouse, &inHouse); err != nil {
			return err
		}
		// The room was free when the reservation was taken; another
		// pending reservation may have claimed it since.
		for _, g := range inHouse {
			if g.RoomNumber == guest.RoomNumber && g.ID != guest.ID {
				return &ValidationError{Field: "roomNumber", Message: "room " + guest.RoomNumber + " is occupied"}
			}
		}
		inHouse = appendUnique(inHouse, guest)

		if err := tx.Set(store.KeyTodayArrivals, arrivals); err != nil {
			return err
		}
		return tx.Set(store.KeyCurrentlyInHouse, inHouse)
	})
	if err != nil {
		return nil, err
	}

	s.emit(events.TopicArrivalsUpdated, arrivals)
	s.emit(events.TopicInHouseUpdated, inHouse)
	s.logger.WithFields(logrus.Fields{"guest_id": id, "room": guest.RoomNumber}).Info("Guest checked in")
	return &guest, nil
}

// CheckOut closes a stay: the guest leaves currentlyInHouse and
// todayArrivals and gains a terminal checkout record with the computed
// bill, all in one transaction.
func (s *LifecycleService) CheckOut(id int64, feedback string) (*models.CheckoutRecord, error) {
	var (
		record   models.CheckoutRecord
		arrivals []models.Reservation
		inHouse  []models.InHouseGuest
		history  []models.CheckoutRecord
	)
	err := s.store.Update(func(tx store.Tx) error {
		if err := tx.Get(store.KeyCurrentlyInHouse, &inHouse); err != nil {
			return err
		}
		idx := -1
		for i := range inHouse {
			if inHouse[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return &NotFoundError{Resource: "in-house guest", ID: formatID(id)}
		}

		now := s.now()
		record = models.NewCheckoutRecord(inHouse[idx], now, StayAmount(inHouse[idx], now), feedback)
		inHouse = append(inHouse[:idx], inHouse[idx+1:]...)

		if err := tx.Get(store.KeyTodayArrivals, &arrivals); err != nil {
			return err
		}
		arrivals = removeReservation(arrivals, id)

		if err := tx.Get(store.KeyCheckoutHistory, &history); err != nil {
			return err
		}
		history = append(history, record)

		if err := tx.Set(store.KeyCurrentlyInHouse, inHouse); err != nil {
			return err
		}
		if err := tx.Set(store.KeyTodayArrivals, arrivals); err != nil {
			return err
		}
		return tx.Set(store.KeyCheckoutHistory, history)
	})
	if err != nil {
		return nil, err
	}

	s.emit(events.TopicInHouseUpdated, inHouse)
	s.emit(events.TopicArrivalsUpdated, arrivals)
	s.emit(events.TopicCheckoutUpdated, history)
	s.logger.WithFields(logrus.Fields{
		"guest_id": id,
		"room":     record.RoomNumber,
		"amount":   record.TotalAmount,
	}).Info("Guest checked out")
	return &record, nil
}

// CancelReservation marks a pending reservation cancelled. The record
// stays in todayArrivals but drops out of active consideration.
func (s *LifecycleService) CancelReservation(id int64) error {
	var arrivals []models.Reservation
	err := s.store.Update(func(tx store.Tx) error {
		if err := tx.Get(store.KeyTodayArrivals, &arrivals); err != nil {
			return err
		}
		idx := findReservation(arrivals, id)
		if idx < 0 {
			return &NotFoundError{Resource: "reservation", ID: formatID(id)}
		}
		if arrivals[idx].EffectiveStatus() != models.StatusPending {
			return &TransitionError{ID: id, From: string(arrivals[idx].EffectiveStatus()), Action: "cancel", Message: "only pending reservations can be cancelled"}
		}
		arrivals[idx].Status = models.StatusCancelled
		return tx.Set(store.KeyTodayArrivals, arrivals)
	})
	if err != nil {
		return err
	}

	s.emit(events.TopicArrivalsUpdated, arrivals)
	s.logger.WithField("guest_id", id).Info("Reservation cancelled")
	return nil
}

// DeleteGuest removes every trace of a guest ID from todayArrivals,
// currentlyInHouse and checkoutHistory as one transition.
func (s *LifecycleService) DeleteGuest(id int64) error {
	var (
		arrivals []models.Reservation
		inHouse  []models.InHouseGuest
		history  []models.CheckoutRecord
		found    bool
	)
	err := s.store.Update(func(tx store.Tx) error {
		if err := tx.Get(store.KeyTodayArrivals, &arrivals); err != nil {
			return err
		}
		if err := tx.Get(store.KeyCurrentlyInHouse, &inHouse); err != nil {
			return err
		}
		if err := tx.Get(store.KeyCheckoutHistory, &history); err != nil {
			return err
		}

		before := len(arrivals) + len(inHouse) + len(history)
		arrivals = removeReservation(arrivals, id)
		filteredInHouse := inHouse[:0:0]
		for _, g := range inHouse {
			if g.ID != id {
				filteredInHouse = append(filteredInHouse, g)
			}
		}
		inHouse = filteredInHouse
		filteredHistory := history[:0:0]
		for _, r := range history {
			if r.ID != id {
				filteredHistory = append(filteredHistory, r)
			}
		}
		history = filteredHistory
		found = len(arrivals)+len(inHouse)+len(history) < before
		if !found {
			return &NotFoundError{Resource: "guest", ID: formatID(id)}
		}

		if err := tx.Set(store.KeyTodayArrivals, arrivals); err != nil {
			return err
		}
		if err := tx.Set(store.KeyCurrentlyInHouse, inHouse); err != nil {
			return err
		}
		return tx.Set(store.KeyCheckoutHistory, history)
	})
	if err != nil {
		return err
	}

	s.emit(events.TopicArrivalsUpdated, arrivals)
	s.emit(events.TopicInHouseUpdated, inHouse)
	s.emit(events.TopicCheckoutUpdated, history)
	s.logger.WithField("guest_id", id).Info("Guest record deleted")
	return nil
}

// Arrivals returns the todayArrivals collection.
func (s *LifecycleService) Arrivals() ([]models.Reservation, error) {
	var arrivals []models.Reservation
	if err := s.store.Get(store.KeyTodayArrivals, &arrivals); err != nil {
		return nil, err
	}
	return arrivals, nil
}

// InHouse returns the currentlyInHouse collection.
func (s *LifecycleService) InHouse() ([]models.InHouseGuest, error) {
	var inHouse []models.InHouseGuest
	if err := s.store.Get(store.KeyCurrentlyInHouse, &inHouse); err != nil {
		return nil, err
	}
	return inHouse, nil
}

// Checkouts returns the append-only checkoutHistory collection.
func (s *LifecycleService) Checkouts() ([]models.CheckoutRecord, error) {
	var history []models.CheckoutRecord
	if err := s.store.Get(store.KeyCheckoutHistory, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// GuestProfile aggregates everything known about one guest ID.
type GuestProfile struct {
	Reservation *models.Reservation    `json:"reservation,omitempty"`
	InHouse     *models.InHouseGuest   `json:"inHouse,omitempty"`
	Checkout    *models.CheckoutRecord `json:"checkout,omitempty"`
}

// GetGuest looks a guest up across all three collections.
func (s *LifecycleService) GetGuest(id int64) (*GuestProfile, error) {
	arrivals, err := s.Arrivals()
	if err != nil {
		return nil, err
	}
	inHouse, err := s.InHouse()
	if err != nil {
		return nil, err
	}
	history, err := s.Checkouts()
	if err != nil {
		return nil, err
	}

	profile := &GuestProfile{}
	if idx := findReservation(arrivals, id); idx >= 0 {
		profile.Reservation = &arrivals[idx]
	}
	for i := range inHouse {
		if inHouse[i].ID == id {
			profile.InHouse = &inHouse[i]
			break
		}
	}
	for i := range history {
		if history[i].ID == id {
			profile.Checkout = &history[i]
			break
		}
	}
	if profile.Reservation == nil && profile.InHouse == nil && profile.Checkout == nil {
		return nil, &NotFoundError{Resource: "guest", ID: formatID(id)}
	}
	return profile, nil
}

// Stay is the guest-facing view of a current or upcoming stay.
type Stay struct {
	Stage         string               `json:"stage"` // reserved or checked-in
	Reservation   *models.Reservation  `json:"reservation,omitempty"`
	InHouse       *models.InHouseGuest `json:"inHouse,omitempty"`
	CurrentAmount float64              `json:"currentAmount"`
}

// FindStay locates an active stay by booking number or guest email for
// the find-my-stay flow. Cancelled and checked-out records do not match.
func (s *LifecycleService) FindStay(query string) (*Stay, error) {
	query = strings.TrimSpace(query)
	matches := func(booking, email string) bool {
		return strings.EqualFold(booking, query) || strings.EqualFold(email, query)
	}

	inHouse, err := s.InHouse()
	if err != nil {
		return nil, err
	}
	for i := range inHouse {
		if matches(inHouse[i].BookingNumber, inHouse[i].Email) {
			return &Stay{
				Stage:         "checked-in",
				InHouse:       &inHouse[i],
				CurrentAmount: StayAmount(inHouse[i], s.now()),
			}, nil
		}
	}

	arrivals, err := s.Arrivals()
	if err != nil {
		return nil, err
	}
	for i := range arrivals {
		if matches(arrivals[i].BookingNumber, arrivals[i].Email) && arrivals[i].EffectiveStatus() == models.StatusPending {
			return &Stay{Stage: "reserved", Reservation: &arrivals[i]}, nil
		}
	}

	return nil, &NotFoundError{Resource: "stay", ID: strings.ToUpper(query)}
}

func (s *LifecycleService) emit(topic events.Topic, payload interface{}) {
	if payload == nil {
		return
	}
	if err := s.bus.Emit(topic, payload); err != nil {
		s.logger.WithError(err).WithField("topic", topic).Error("Failed to emit event")
	}
}

// appendUnique inserts the guest into the in-house collection, dropping
// any existing entry with the same ID first. Uniqueness by ID holds
// regardless of which path inserted the record.
func appendUnique(inHouse []models.InHouseGuest, guest models.InHouseGuest) []models.InHouseGuest {
	filtered := make([]models.InHouseGuest, 0, len(inHouse)+1)
	for _, g := range inHouse {
		if g.ID != guest.ID {
			filtered = append(filtered, g)
		}
	}
	return append(filtered, guest)
}

func findReservation(arrivals []models.Reservation, id int64) int {
	for i := range arrivals {
		if arrivals[i].ID == id {
			return i
		}
	}
	return -1
}

func removeReservation(arrivals []models.Reservation, id int64) []models.Reservation {
	filtered := arrivals[:0:0]
	for _, r := range arrivals {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
