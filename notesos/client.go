package notesos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/notesos/sdk-go/notesos/internal"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Client keeps one course view synchronized with the NotesOS backend over a
// realtime channel. It owns the connection lifecycle: token-gated dialing,
// message dispatch, and reconnection with exponential backoff after
// unexpected drops. At most one socket is live at a time.
type Client struct {
	cfg        Config
	tokens     TokenProvider
	logger     Logger
	dispatcher Dispatcher

	onOpen         func()
	onDisconnect   func(error)
	onStateChanged func(StateEvent)

	mu         sync.Mutex
	state      ConnectionState
	courseID   string
	connID     string
	conn       *internal.Conn
	closed     bool // intentional-closure flag; blocks all reconnects
	attempts   int
	retryTimer *time.Timer
	cancelRead context.CancelFunc
	gen        int // connection generation; stale read loops must not reconnect
}

// NewClient constructs a client with provided config.
// Use DefaultConfig() as a starting point and modify as needed.
func NewClient(cfg Config) *Client {
	if cfg.MaxReconnectTries <= 0 {
		cfg.MaxReconnectTries = 5
	}
	if cfg.ReconnectBase <= 0 {
		cfg.ReconnectBase = time.Second
	}
	return &Client{
		cfg:    cfg,
		tokens: cfg.tokenProvider(),
		logger: noopLogger{},
	}
}

// SetLogger overrides logger (optional).
func (c *Client) SetLogger(l Logger) {
	if l == nil {
		return
	}
	c.logger = l
}

// OnOpen registers a callback fired each time the channel opens.
func (c *Client) OnOpen(fn func()) { c.onOpen = fn }

// OnDisconnect registers a callback fired on unexpected closes, with the
// underlying transport error. Caller-initiated Disconnect does not fire it.
func (c *Client) OnDisconnect(fn func(error)) { c.onDisconnect = fn }

// OnStateChanged registers a callback for connection state transitions.
func (c *Client) OnStateChanged(fn func(StateEvent)) { c.onStateChanged = fn }

// OnMessage registers a callback receiving every parsed frame verbatim.
func (c *Client) OnMessage(fn func(Message)) { c.dispatcher.SetOnMessage(fn) }

// OnProcessingStatus registers a callback for resource processing updates.
func (c *Client) OnProcessingStatus(fn func(ProcessingStatusEvent)) {
	c.dispatcher.SetOnProcessingStatus(fn)
}

// OnFactCheckComplete registers a callback for fact-check completion notices.
func (c *Client) OnFactCheckComplete(fn func(FactCheckCompleteEvent)) {
	c.dispatcher.SetOnFactCheckComplete(fn)
}

// OnGradingComplete registers a callback for grading completion notices.
func (c *Client) OnGradingComplete(fn func(GradingCompleteEvent)) {
	c.dispatcher.SetOnGradingComplete(fn)
}

// OnResourceCreated registers a callback for resource creation notices.
func (c *Client) OnResourceCreated(fn func(ResourceEvent)) { c.dispatcher.SetOnResourceCreated(fn) }

// OnResourceUpdated registers a callback for resource update notices.
func (c *Client) OnResourceUpdated(fn func(ResourceEvent)) { c.dispatcher.SetOnResourceUpdated(fn) }

// OnResourceDeleted registers a callback for resource deletion notices.
func (c *Client) OnResourceDeleted(fn func(ResourceDeletedEvent)) {
	c.dispatcher.SetOnResourceDeleted(fn)
}

// OnUserJoined registers a callback for presence joins.
func (c *Client) OnUserJoined(fn func(UserJoinedEvent)) { c.dispatcher.SetOnUserJoined(fn) }

// OnActiveUsers registers a callback for the active-user roster.
func (c *Client) OnActiveUsers(fn func(ActiveUsersEvent)) { c.dispatcher.SetOnActiveUsers(fn) }

// OnEcho registers a callback for echo test replies.
func (c *Client) OnEcho(fn func(EchoEvent)) { c.dispatcher.SetOnEcho(fn) }

// OnError registers callback for errors.
func (c *Client) OnError(fn func(error)) { c.dispatcher.SetOnError(fn) }

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ReconnectAttempts returns how many automatic retries have been scheduled
// since the channel last opened.
func (c *Client) ReconnectAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Connect opens the realtime channel for a course. Calling it while already
// open (or dialing) for the same course is a no-op and leaves the retry
// counter untouched. A different course tears the old connection down first.
// Without a locally available access token no socket is created and the
// error callback fires.
func (c *Client) Connect(ctx context.Context, courseID string) error {
	if courseID == "" {
		return NewError(ErrorInvalidConfig, "empty course id")
	}

	c.mu.Lock()
	if (c.state == StateOpen || c.state == StateConnecting) && c.courseID == courseID {
		c.mu.Unlock()
		return nil
	}
	conn := c.teardownLocked()
	c.closed = false
	c.attempts = 0
	c.courseID = courseID
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "switching course")
	}

	return c.dial(ctx, true)
}

// Disconnect flags intentional closure, cancels any pending reconnect timer
// and closes the socket if open. Idempotent. No reconnect is ever scheduled
// afterwards, including a retry timer that was already pending.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.closed = true
	conn := c.teardownLocked()
	notify := c.setStateLocked(StateClosed, nil)
	c.mu.Unlock()
	notify()
	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "client disconnect")
	}
}

// Send serializes payload and transmits it only while the channel is open.
// Otherwise the payload is dropped with a warning: never queued, never
// retried.
func (c *Client) Send(ctx context.Context, payload any) error {
	c.mu.Lock()
	conn := c.conn
	open := c.state == StateOpen && conn != nil
	c.mu.Unlock()

	if !open {
		c.logger.Warn("dropping send, realtime channel not open", nil)
		return ErrNotConnected
	}
	if err := conn.Write(ctx, payload); err != nil {
		werr := WrapError(ErrorConnection, "write failed", err)
		c.dispatcher.fireError(werr)
		return werr
	}
	return nil
}

// Echo sends a test frame the server reflects back.
func (c *Client) Echo(ctx context.Context, data any) error {
	return c.Send(ctx, Outbound{Type: TypeEcho, Data: data})
}

// dial performs one connection attempt. manual marks caller-initiated
// attempts; an automatic redial that finds no token keeps the retry chain
// alive, a manual one just reports and stops. The generation captured at
// entry pins the attempt to the connection it belongs to: a teardown while
// the handshake is in flight bumps gen, and the stale dial drops its socket
// instead of installing it.
func (c *Client) dial(ctx context.Context, manual bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return NewError(ErrorDisconnected, "client is closed")
	}
	startGen := c.gen
	courseID := c.courseID
	c.mu.Unlock()

	token, ok := c.tokens.AccessToken()
	if !ok {
		c.dispatcher.fireError(ErrNoToken)
		c.logger.Warn("connect aborted, no access token", nil)
		if !manual {
			c.scheduleReconnect(startGen, ErrNoToken)
		}
		return ErrNoToken
	}

	c.mu.Lock()
	if c.closed || c.gen != startGen {
		c.mu.Unlock()
		return NewError(ErrorDisconnected, "connection superseded")
	}
	notify := c.setStateLocked(StateConnecting, nil)
	c.mu.Unlock()
	notify()

	addr, err := realtimeURL(c.cfg.BaseURL, courseID, token)
	if err != nil {
		cfgErr := WrapError(ErrorInvalidConfig, "invalid base URL", err)
		c.mu.Lock()
		notify = func() {}
		if !c.closed && c.gen == startGen {
			notify = c.setStateLocked(StateIdle, cfgErr)
		}
		c.mu.Unlock()
		notify()
		c.dispatcher.fireError(cfgErr)
		return cfgErr
	}

	dialCtx := ctx
	if c.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
		defer cancel()
	}

	ws, resp, err := websocket.Dial(dialCtx, addr, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		connErr := WrapError(ErrorConnection, "dial failed", err)
		c.dispatcher.fireError(connErr)
		c.scheduleReconnect(startGen, connErr)
		return connErr
	}

	runCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if c.closed || c.gen != startGen {
		// Disconnect or a course switch raced the dial; drop the fresh socket.
		c.mu.Unlock()
		cancel()
		_ = ws.Close(websocket.StatusNormalClosure, "connection superseded")
		return NewError(ErrorDisconnected, "connection superseded")
	}
	c.gen++
	gen := c.gen
	conn := internal.NewConn(ws, c.cfg.ReadTimeout, c.cfg.WriteTimeout)
	c.conn = conn
	c.cancelRead = cancel
	c.connID = uuid.NewString()
	c.attempts = 0
	connID := c.connID
	onOpen := c.onOpen
	notify = c.setStateLocked(StateOpen, nil)
	c.mu.Unlock()
	notify()

	c.logger.Info("realtime channel open", map[string]any{
		"course_id": courseID,
		"conn_id":   connID,
	})
	if onOpen != nil {
		onOpen()
	}

	go c.readLoop(runCtx, conn, gen)
	return nil
}

// readLoop delivers frames until the connection dies. Malformed frames are
// logged and dropped; they never invoke handlers and never close the socket.
func (c *Client) readLoop(ctx context.Context, conn *internal.Conn, gen int) {
	for {
		frame, err := conn.Read(ctx)
		if err != nil {
			c.handleClose(gen, err)
			return
		}

		var envelope struct {
			Type string `json:"type"`
		}
		if jsonErr := json.Unmarshal(frame, &envelope); jsonErr != nil {
			c.logger.Warn("dropping malformed frame", map[string]any{"error": jsonErr.Error()})
			continue
		}
		c.dispatcher.Dispatch(Message{Type: envelope.Type, Raw: json.RawMessage(frame)})
	}
}

// handleClose reacts to the read loop exiting. Caller-initiated closes were
// already finalized by Disconnect (which bumps gen), so only unexpected
// drops reach the reconnect path.
func (c *Client) handleClose(gen int, err error) {
	c.mu.Lock()
	if gen != c.gen || c.closed {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	if c.cancelRead != nil {
		c.cancelRead()
		c.cancelRead = nil
	}
	onDisconnect := c.onDisconnect
	c.mu.Unlock()

	c.logger.Warn("realtime channel closed unexpectedly", map[string]any{"error": err.Error()})
	if onDisconnect != nil {
		onDisconnect(err)
	}
	c.scheduleReconnect(gen, WrapError(ErrorDisconnected, "realtime channel closed", err))
}

// scheduleReconnect arms the backoff timer for the next attempt, or parks
// the client in StateExhausted once the ceiling is hit. One timer is
// outstanding at most. A stale generation means a newer connection owns the
// client now and this retry chain is dead.
func (c *Client) scheduleReconnect(gen int, cause error) {
	c.mu.Lock()
	if c.closed || gen != c.gen || c.retryTimer != nil {
		c.mu.Unlock()
		return
	}
	if c.attempts >= c.cfg.MaxReconnectTries {
		notify := c.setStateLocked(StateExhausted, cause)
		c.mu.Unlock()
		notify()
		c.logger.Error("reconnect attempts exhausted", map[string]any{
			"attempts": c.cfg.MaxReconnectTries,
		})
		c.dispatcher.fireError(ErrReconnectExhausted)
		return
	}

	delay := reconnectDelay(c.cfg.ReconnectBase, c.attempts)
	c.attempts++
	attempt := c.attempts
	c.retryTimer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		c.retryTimer = nil
		if c.closed {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		_ = c.dial(context.Background(), false)
	})
	notify := c.setStateLocked(StateReconnecting, cause)
	c.mu.Unlock()
	notify()

	c.logger.Warn("scheduling reconnect", map[string]any{
		"attempt":  attempt,
		"delay_ms": delay.Milliseconds(),
	})
}

// teardownLocked stops the retry timer and detaches the current socket,
// returning it so the caller can close it outside the lock. Bumping gen
// turns the dying read loop's close handling into a no-op.
func (c *Client) teardownLocked() *internal.Conn {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	if c.cancelRead != nil {
		c.cancelRead()
		c.cancelRead = nil
	}
	conn := c.conn
	c.conn = nil
	c.gen++
	return conn
}

// setStateLocked transitions the state and returns the callback to fire
// after the lock is released.
func (c *Client) setStateLocked(next ConnectionState, err error) func() {
	if c.state == next {
		return func() {}
	}
	old := c.state
	c.state = next
	fn := c.onStateChanged
	if fn == nil {
		return func() {}
	}
	return func() { fn(StateEvent{OldState: old, NewState: next, Error: err}) }
}

// realtimeURL derives the channel address from the backend's HTTP base URL:
// scheme swapped for the websocket equivalent, path /ws/<courseID>, token as
// a query parameter.
func realtimeURL(base, courseID, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u = u.JoinPath("ws", courseID)
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
