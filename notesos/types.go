package notesos

import "encoding/json"

// Message type discriminators used by the NotesOS realtime channel.
const (
	TypeProcessingStatus  = "processing_status"
	TypeFactCheckComplete = "fact_check_complete"
	TypeGradingComplete   = "grading:complete"
	TypeResourceCreated   = "resource_created"
	TypeResourceUpdated   = "resource_updated"
	TypeResourceDeleted   = "resource_deleted"
	TypeUserJoined        = "user_joined"
	TypeActiveUsers       = "active_users"
	TypeEcho              = "echo"
)

// Message is one parsed frame from the realtime channel. Raw holds the full
// frame so typed decoding can pick up payload fields at any nesting level.
type Message struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// Outbound is the envelope client -> server. The server enforces no schema on
// outbound frames; Data may be any JSON-serializable value.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// UnmarshalData decodes RawMessage into target.
func UnmarshalData(data json.RawMessage, v any) error {
	return json.Unmarshal(data, v)
}
