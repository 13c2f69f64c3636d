package models

import (
	"errors"
	"strings"
	"time"
)

// RequestStatus represents the workflow state of a service request
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
	RequestCancelled  RequestStatus = "cancelled"
)

// RequestPriority represents the urgency of a service request
type RequestPriority string

const (
	PriorityLow    RequestPriority = "low"
	PriorityNormal RequestPriority = "normal"
	PriorityHigh   RequestPriority = "high"
	PriorityUrgent RequestPriority = "urgent"
)

// ValidStatuses and ValidPriorities are the closed sets accepted on admin
// updates.
var (
	ValidRequestStatuses = []RequestStatus{RequestPending, RequestInProgress, RequestCompleted, RequestCancelled}
	ValidPriorities      = []RequestPriority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}
)

// PendingRequest is a guest service request handled from the admin
// dashboard. Records live in the pendingRequests collection.
type PendingRequest struct {
	ID             int64           `json:"id"`
	GuestName      string          `json:"guestName"`
	RoomNumber     string          `json:"roomNumber"`
	RequestType    string          `json:"requestType"`
	RequestTitle   string          `json:"requestTitle"`
	RequestDetails string          `json:"requestDetails"`
	Status         RequestStatus   `json:"status"`
	Priority       RequestPriority `json:"priority"`
	Timestamp      time.Time       `json:"timestamp"`
	AssignedTo     *string         `json:"assignedTo"`
}

// CreateRequestInput is the payload for a guest-facing service request.
type CreateRequestInput struct {
	RequestType    string          `json:"requestType" binding:"required"`
	RequestTitle   string          `json:"requestTitle" binding:"required"`
	RequestDetails string          `json:"requestDetails"`
	Priority       RequestPriority `json:"priority"`
}

// Validate checks required fields and normalizes the priority.
func (in *CreateRequestInput) Validate() error {
	if strings.TrimSpace(in.RequestType) == "" {
		return errors.New("requestType is required")
	}
	if strings.TrimSpace(in.RequestTitle) == "" {
		return errors.New("requestTitle is required")
	}
	if in.Priority == "" {
		in.Priority = PriorityNormal
	}
	for _, p := range ValidPriorities {
		if in.Priority == p {
			return nil
		}
	}
	return errors.New("priority must be one of low, normal, high, urgent")
}

// UpdateRequestStatusInput is the admin payload for moving a request
// through its workflow.
type UpdateRequestStatusInput struct {
	Status RequestStatus `json:"status" binding:"required"`
}

// Validate checks the status against the closed set.
func (in *UpdateRequestStatusInput) Validate() error {
	for _, s := range ValidRequestStatuses {
		if in.Status == s {
			return nil
		}
	}
	return errors.New("status must be one of pending, in_progress, completed, cancelled")
}

// AssignRequestInput is the admin payload for assigning a request to a
// staff member. An empty name clears the assignment.
type AssignRequestInput struct {
	AssignedTo string `json:"assignedTo"`
}
