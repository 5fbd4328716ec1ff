package model

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type JobStatus string

const (
	JobNotStarted JobStatus = "not_started"
	JobPrinting   JobStatus = "printing"
	JobPaused     JobStatus = "paused"
	JobCompleted  JobStatus = "completed"
)

func ValidJobStatus(s JobStatus) bool {
	switch s {
	case JobNotStarted, JobPrinting, JobPaused, JobCompleted:
		return true
	}
	return false
}

type JobPriority string

const (
	PriorityNormal JobPriority = "normal"
	PriorityHigh   JobPriority = "high"
	PriorityUrgent JobPriority = "urgent"
)

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Job is one print-production order for a customer.
//
// - JobNumber is assigned once at creation and never reassigned.
// - TotalEstimatedTime (minutes) and Progress (0-100) are derived from the
//   job's items; writing them directly is pointless, the next item mutation
//   overwrites both.
// - ActualTime is reported by the operator, never derived.
type Job struct {
	ID                 int64       `json:"id"`
	CustomerID         int64       `json:"customerId"`
	JobNumber          string      `json:"jobNumber"`
	Status             JobStatus   `json:"status"`
	Priority           JobPriority `json:"priority"`
	DueDate            *time.Time  `json:"dueDate,omitempty"`
	Notes              string      `json:"notes,omitempty"`
	TotalEstimatedTime int         `json:"totalEstimatedTime"`
	Progress           int         `json:"progress"`
	ActualTime         *int        `json:"actualTime,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
	CompletedAt        *time.Time  `json:"completedAt,omitempty"`
}

// JobItem is one line item within a job: Quantity units of a named part,
// EstimatedTimePerItem minutes each. Status is a free-form tag set by the
// operator; it is never derived from the item's quantities.
type JobItem struct {
	ID                   int64     `json:"id"`
	JobID                int64     `json:"jobId"`
	Name                 string    `json:"name"`
	Quantity             int       `json:"quantity"`
	EstimatedTimePerItem int       `json:"estimatedTimePerItem"`
	CompletedQuantity    int       `json:"completedQuantity"`
	Material             string    `json:"material,omitempty"`
	Notes                string    `json:"notes,omitempty"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"createdAt"`
}

// Notification is an append-only record of an outbound message about a job.
type Notification struct {
	ID        string    `json:"id"`
	JobID     int64     `json:"jobId"`
	Kind      string    `json:"kind"`
	Recipient string    `json:"recipient,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// CustomerPatch is used for partial updates.
type CustomerPatch struct {
	Name  *string
	Email *string
	Phone *string
	Notes *string
}

// JobPatch is used for partial updates. Nil fields are left untouched.
// Derived fields (TotalEstimatedTime, Progress) appear here because the
// aggregate engine writes them through the same patch path.
type JobPatch struct {
	CustomerID         *int64
	Status             *JobStatus
	Priority           *JobPriority
	DueDate            *time.Time
	Notes              *string
	TotalEstimatedTime *int
	Progress           *int
	ActualTime         *int
	CompletedAt        *time.Time
}

// ItemPatch is used for partial updates.
type ItemPatch struct {
	Name                 *string
	Quantity             *int
	EstimatedTimePerItem *int
	CompletedQuantity    *int
	Material             *string
	Notes                *string
	Status               *string
}

// JobDetails joins a job with its customer and items.
type JobDetails struct {
	Job      Job       `json:"job"`
	Customer *Customer `json:"customer,omitempty"`
	Items    []JobItem `json:"items"`
}

// Stats are the aggregate counts shown on the shop dashboard.
type Stats struct {
	ActiveJobs          int `json:"activeJobs"`
	CompletedToday      int `json:"completedToday"`
	TotalPrintTimeHours int `json:"totalPrintTimeHours"`
	QueueLength         int `json:"queueLength"`
}
