package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/swiftstay/selfcheckin-backend/internal/events"
	"github.com/swiftstay/selfcheckin-backend/internal/models"
	"github.com/swiftstay/selfcheckin-backend/internal/store"
)

// RequestService handles guest service requests (towels, late checkout,
// maintenance and the like). Guests create them from the my-stay page;
// admins work them from the pending requests dashboard.
type RequestService struct {
	store  store.Store
	bus    *events.Bus
	logger *logrus.Logger
	now    func() time.Time

	idMu   sync.Mutex
	lastID int64
}

// NewRequestService creates a new RequestService
func NewRequestService(st store.Store, bus *events.Bus, logger *logrus.Logger) *RequestService {
	return &RequestService{
		store:  st,
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
}

func (s *RequestService) nextID() int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// Create files a new request on behalf of an in-house guest.
func (s *RequestService) Create(guestName, roomNumber string, in models.CreateRequestInput) (*models.PendingRequest, error) {
	if err := in.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	req := models.PendingRequest{
		ID:             s.nextID(),
		GuestName:      guestName,
		RoomNumber:     roomNumber,
		RequestType:    in.RequestType,
		RequestTitle:   in.RequestTitle,
		RequestDetails: in.RequestDetails,
		Status:         models.RequestPending,
		Priority:       in.Priority,
		Timestamp:      s.now(),
	}

	var requests []models.PendingRequest
	err := s.store.Update(func(tx store.Tx) error {
		if err := tx.Get(store.KeyPendingRequests, &requests); err != nil {
			return err
		}
		requests = append(requests, req)
		return tx.Set(store.KeyPendingRequests, requests)
	})
	if err != nil {
		return nil, err
	}

	s.emit(requests)
	s.logger.WithFields(logrus.Fields{
		"request_id": req.ID,
		"room":       req.RoomNumber,
		"type":       req.RequestType,
	}).Info("Service request created")
	return &req, nil
}

// List returns the pendingRequests collection.
func (s *RequestService) List() ([]models.PendingRequest, error) {
	var requests []models.PendingRequest
	if err := s.store.Get(store.KeyPendingRequests, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateStatus moves a request through its workflow.
func (s *RequestService) UpdateStatus(id int64, in models.UpdateRequestStatusInput) (*models.PendingRequest, error) {
	if err := in.Validate(); err != nil {
		return nil, &ValidationError{Field: "status", Message: err.Error()}
	}
	return s.mutate(id, func(req *models.PendingRequest) {
		req.Status = in.Status
	})
}

// Assign sets or clears the staff member responsible for a request.
func (s *RequestService) Assign(id int64, assignee string) (*models.PendingRequest, error) {
	return s.mutate(id, func(req *models.PendingRequest) {
		if assignee == "" {
			req.AssignedTo = nil
			return
		}
		req.AssignedTo = &assignee
		if req.Status == models.RequestPending {
			req.Status = models.RequestInProgress
		}
	})
}

// Delete removes a request entirely.
func (s *RequestService) Delete(id int64) error {
	var requests []models.PendingRequest
	err := s.store.Update(func(tx store.Tx) error {
		if err := tx.Get(store.KeyPendingRequests, &requests); err != nil {
			return err
		}
		filtered := requests[:0:0]
		for _, r := range requests {
			if r.ID != id {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) == len(requests) {
			return &NotFoundError{Resource: "request", ID: formatID(id)}
		}
		requests = filtered
		return tx.Set(store.KeyPendingRequests, requests)
	})
	if err != nil {
		return err
	}

	s.emit(requests)
	s.logger.WithField("request_id", id).Info("Service request deleted")
	return nil
}

func (s *RequestService) mutate(id int64, apply func(*models.PendingRequest)) (*models.PendingRequest, error) {
	var (
		requests []models.PendingRequest
		updated  models.PendingRequest
	)
	err := s.store.Update(func(tx store.Tx) error {
		if err := tx.Get(store.KeyPendingRequests, &requests); err != nil {
			return err
		}
		for i := range requests {
			if requests[i].ID == id {
				apply(&requests[i])
				updated = requests[i]
				return tx.Set(store.KeyPendingRequests, requests)
			}
		}
		return &NotFoundError{Resource: "request", ID: formatID(id)}
	})
	if err != nil {
		return nil, err
	}

	s.emit(requests)
	return &updated, nil
}

func (s *RequestService) emit(requests []models.PendingRequest) {
	if err := s.bus.Emit(events.TopicPendingRequestsUpdated, requests); err != nil {
		s.logger.WithError(err).Error("Failed to emit pending requests event")
	}
}
