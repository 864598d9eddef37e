package notesos

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatch(d *Dispatcher, frame string) {
	var envelope struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal([]byte(frame), &envelope)
	d.Dispatch(Message{Type: envelope.Type, Raw: json.RawMessage(frame)})
}

func TestDispatcherProcessingStatus(t *testing.T) {
	var got ProcessingStatusEvent
	var errCalled bool
	var d Dispatcher
	d.SetOnProcessingStatus(func(ev ProcessingStatusEvent) { got = ev })
	d.SetOnError(func(error) { errCalled = true })

	dispatch(&d, `{"type":"processing_status","resource_id":"r1","status":"completed"}`)

	assert.Equal(t, "r1", got.ResourceID)
	assert.Equal(t, ProcessingStatusCompleted, got.Status)
	assert.False(t, errCalled)
}

func TestDispatcherRawMessageAlwaysFires(t *testing.T) {
	var raw []Message
	var d Dispatcher
	d.SetOnMessage(func(m Message) { raw = append(raw, m) })

	dispatch(&d, `{"type":"fact_check_complete","resource_id":"r2"}`)
	dispatch(&d, `{"type":"something_new","payload":42}`)

	require.Len(t, raw, 2)
	assert.Equal(t, "fact_check_complete", raw[0].Type)
	assert.Equal(t, "something_new", raw[1].Type)
	assert.JSONEq(t, `{"type":"fact_check_complete","resource_id":"r2"}`, string(raw[0].Raw))
}

func TestDispatcherGradingCompleteFlat(t *testing.T) {
	var got GradingCompleteEvent
	var d Dispatcher
	d.SetOnGradingComplete(func(ev GradingCompleteEvent) { got = ev })

	dispatch(&d, `{"type":"grading:complete","answer_id":"a1","attempt_id":"at1","score":87,"encouragement":"nice work"}`)

	assert.Equal(t, "a1", got.AnswerID)
	assert.Equal(t, "at1", got.AttemptID)
	assert.Equal(t, 87.0, got.Score)
	assert.Equal(t, "nice work", got.Encouragement)
}

func TestDispatcherGradingCompleteNested(t *testing.T) {
	var got GradingCompleteEvent
	var d Dispatcher
	d.SetOnGradingComplete(func(ev GradingCompleteEvent) { got = ev })

	dispatch(&d, `{"type":"grading:complete","data":{"answer_id":"a2","attempt_id":"at2","score":55.5,"encouragement":"keep going"}}`)

	assert.Equal(t, "a2", got.AnswerID)
	assert.Equal(t, "at2", got.AttemptID)
	assert.Equal(t, 55.5, got.Score)
	assert.Equal(t, "keep going", got.Encouragement)
}

func TestDispatcherResourceAndPresenceEvents(t *testing.T) {
	var created, updated ResourceEvent
	var deleted ResourceDeletedEvent
	var joined UserJoinedEvent
	var active ActiveUsersEvent
	var echo EchoEvent

	var d Dispatcher
	d.SetOnResourceCreated(func(ev ResourceEvent) { created = ev })
	d.SetOnResourceUpdated(func(ev ResourceEvent) { updated = ev })
	d.SetOnResourceDeleted(func(ev ResourceDeletedEvent) { deleted = ev })
	d.SetOnUserJoined(func(ev UserJoinedEvent) { joined = ev })
	d.SetOnActiveUsers(func(ev ActiveUsersEvent) { active = ev })
	d.SetOnEcho(func(ev EchoEvent) { echo = ev })

	dispatch(&d, `{"type":"resource_created","data":{"id":"r1","title":"notes"}}`)
	dispatch(&d, `{"type":"resource_updated","data":{"id":"r1","title":"notes v2"}}`)
	dispatch(&d, `{"type":"resource_deleted","resource_id":"r1"}`)
	dispatch(&d, `{"type":"user_joined","user_id":"u7","timestamp":null}`)
	dispatch(&d, `{"type":"active_users","users":["u1","u7"]}`)
	dispatch(&d, `{"type":"echo","data":"ping"}`)

	assert.JSONEq(t, `{"id":"r1","title":"notes"}`, string(created.Data))
	assert.JSONEq(t, `{"id":"r1","title":"notes v2"}`, string(updated.Data))
	assert.Equal(t, "r1", deleted.ResourceID)
	assert.Equal(t, "u7", joined.UserID)
	assert.Nil(t, joined.Timestamp)
	assert.Equal(t, []string{"u1", "u7"}, active.Users)
	assert.JSONEq(t, `"ping"`, string(echo.Data))
}

func TestDispatcherBadPayloadFiresError(t *testing.T) {
	var gotErr error
	var typedCalled bool
	var d Dispatcher
	d.SetOnActiveUsers(func(ActiveUsersEvent) { typedCalled = true })
	d.SetOnError(func(err error) { gotErr = err })

	// users must be a list of ids
	dispatch(&d, `{"type":"active_users","users":"not-a-list"}`)

	require.Error(t, gotErr)
	assert.ErrorIs(t, gotErr, NewError(ErrorSerialization, ""))
	assert.False(t, typedCalled)
}

func TestDispatcherNoCallbackNoPanic(t *testing.T) {
	var d Dispatcher
	assert.NotPanics(t, func() {
		dispatch(&d, `{"type":"processing_status","resource_id":"r1","status":"failed"}`)
	})
}
