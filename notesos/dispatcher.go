package notesos

// Dispatcher routes inbound messages to registered callbacks by type.
// The client never interprets message content; typed decoding happens here,
// on behalf of whichever callbacks the caller registered.
type Dispatcher struct {
	onMessage           func(Message)
	onProcessingStatus  func(ProcessingStatusEvent)
	onFactCheckComplete func(FactCheckCompleteEvent)
	onGradingComplete   func(GradingCompleteEvent)
	onResourceCreated   func(ResourceEvent)
	onResourceUpdated   func(ResourceEvent)
	onResourceDeleted   func(ResourceDeletedEvent)
	onUserJoined        func(UserJoinedEvent)
	onActiveUsers       func(ActiveUsersEvent)
	onEcho              func(EchoEvent)
	onError             func(error)
}

func (d *Dispatcher) SetOnMessage(fn func(Message)) { d.onMessage = fn }
func (d *Dispatcher) SetOnProcessingStatus(fn func(ProcessingStatusEvent)) {
	d.onProcessingStatus = fn
}
func (d *Dispatcher) SetOnFactCheckComplete(fn func(FactCheckCompleteEvent)) {
	d.onFactCheckComplete = fn
}
func (d *Dispatcher) SetOnGradingComplete(fn func(GradingCompleteEvent)) {
	d.onGradingComplete = fn
}
func (d *Dispatcher) SetOnResourceCreated(fn func(ResourceEvent))        { d.onResourceCreated = fn }
func (d *Dispatcher) SetOnResourceUpdated(fn func(ResourceEvent))        { d.onResourceUpdated = fn }
func (d *Dispatcher) SetOnResourceDeleted(fn func(ResourceDeletedEvent)) { d.onResourceDeleted = fn }
func (d *Dispatcher) SetOnUserJoined(fn func(UserJoinedEvent))           { d.onUserJoined = fn }
func (d *Dispatcher) SetOnActiveUsers(fn func(ActiveUsersEvent))         { d.onActiveUsers = fn }
func (d *Dispatcher) SetOnEcho(fn func(EchoEvent))                       { d.onEcho = fn }
func (d *Dispatcher) SetOnError(fn func(error))                          { d.onError = fn }

// Dispatch delivers a parsed message. The raw callback always fires first;
// typed callbacks fire only when registered and the payload decodes.
func (d *Dispatcher) Dispatch(msg Message) {
	if d.onMessage != nil {
		d.onMessage(msg)
	}

	switch msg.Type {
	case TypeProcessingStatus:
		dispatchTyped(d, msg, d.onProcessingStatus)
	case TypeFactCheckComplete:
		dispatchTyped(d, msg, d.onFactCheckComplete)
	case TypeGradingComplete:
		dispatchTyped(d, msg, d.onGradingComplete)
	case TypeResourceCreated:
		dispatchTyped(d, msg, d.onResourceCreated)
	case TypeResourceUpdated:
		dispatchTyped(d, msg, d.onResourceUpdated)
	case TypeResourceDeleted:
		dispatchTyped(d, msg, d.onResourceDeleted)
	case TypeUserJoined:
		dispatchTyped(d, msg, d.onUserJoined)
	case TypeActiveUsers:
		dispatchTyped(d, msg, d.onActiveUsers)
	case TypeEcho:
		dispatchTyped(d, msg, d.onEcho)
	}
}

func dispatchTyped[T any](d *Dispatcher, msg Message, fn func(T)) {
	if fn == nil {
		return
	}
	var ev T
	if err := UnmarshalData(msg.Raw, &ev); err != nil {
		d.fireError(WrapError(ErrorSerialization, "failed to unmarshal "+msg.Type+" event", err))
		return
	}
	fn(ev)
}

func (d *Dispatcher) fireError(err error) {
	if d.onError != nil && err != nil {
		d.onError(err)
	}
}
