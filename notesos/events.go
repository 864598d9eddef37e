package notesos

import "encoding/json"

// ProcessingStatus is the lifecycle of a resource's OCR/chunking pipeline.
type ProcessingStatus string

const (
	ProcessingStatusProcessing ProcessingStatus = "processing"
	ProcessingStatusCompleted  ProcessingStatus = "completed"
	ProcessingStatusFailed     ProcessingStatus = "failed"
)

// ProcessingStatusEvent reports progress of a resource's processing job.
type ProcessingStatusEvent struct {
	ResourceID string           `json:"resource_id"`
	Status     ProcessingStatus `json:"status"`
}

// FactCheckCompleteEvent signals that a fact-check job finished; the receiver
// re-fetches the results over REST.
type FactCheckCompleteEvent struct {
	ResourceID string `json:"resource_id"`
}

// GradingCompleteEvent delivers the score for one graded answer.
type GradingCompleteEvent struct {
	AnswerID      string  `json:"answer_id"`
	AttemptID     string  `json:"attempt_id"`
	Score         float64 `json:"score"`
	Encouragement string  `json:"encouragement"`
}

// Some server builds nest grading fields under "data"; accept both.
func (e *GradingCompleteEvent) UnmarshalJSON(b []byte) error {
	type plain GradingCompleteEvent
	var aux struct {
		plain
		Data *plain `json:"data"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Data != nil {
		*e = GradingCompleteEvent(*aux.Data)
	} else {
		*e = GradingCompleteEvent(aux.plain)
	}
	return nil
}

// ResourceEvent carries the created/updated resource as an opaque document;
// callers decode it into rest.Resource or re-fetch by id.
type ResourceEvent struct {
	Data json.RawMessage `json:"data"`
}

// ResourceDeletedEvent signals removal of a resource.
type ResourceDeletedEvent struct {
	ResourceID string `json:"resource_id"`
}

// UserJoinedEvent announces a classmate joining the course channel.
// Timestamp is nil when the server leaves it for the client to set.
type UserJoinedEvent struct {
	UserID    string  `json:"user_id"`
	Timestamp *string `json:"timestamp"`
}

// ActiveUsersEvent lists the users currently connected to the course.
type ActiveUsersEvent struct {
	Users []string `json:"users"`
}

// EchoEvent is the server's reply to an echo test frame.
type EchoEvent struct {
	Data json.RawMessage `json:"data"`
}
