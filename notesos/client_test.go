package notesos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectWithoutToken(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://localhost:9"

	var errs []error
	c := NewClient(cfg)
	c.OnError(func(err error) { errs = append(errs, err) })

	err := c.Connect(context.Background(), "c1")

	// The error handler fires synchronously and no socket is created.
	require.ErrorIs(t, err, ErrNoToken)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrNoToken)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 0, c.ReconnectAttempts())
}

func TestConnectEmptyCourse(t *testing.T) {
	c := NewClient(DefaultConfig())
	err := c.Connect(context.Background(), "")
	assert.ErrorIs(t, err, NewError(ErrorInvalidConfig, ""))
}

func TestConnectInvalidBaseURLReturnsToIdle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "ftp://localhost:9"
	cfg.Token = "abc"

	var errs []error
	c := NewClient(cfg)
	c.OnError(func(err error) { errs = append(errs, err) })

	err := c.Connect(context.Background(), "c1")

	require.ErrorIs(t, err, NewError(ErrorInvalidConfig, ""))
	require.Len(t, errs, 1)
	// The failed attempt must not leave the client stuck in StateConnecting.
	assert.Equal(t, StateIdle, c.State())
}

func TestSendNotConnected(t *testing.T) {
	c := NewClient(DefaultConfig())
	err := c.Send(context.Background(), map[string]any{"type": "echo"})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestDisconnectIdempotent(t *testing.T) {
	c := NewClient(DefaultConfig())
	c.Disconnect()
	c.Disconnect()
	assert.Equal(t, StateClosed, c.State())
}

func TestRealtimeURL(t *testing.T) {
	cases := []struct {
		base, course, token string
		want                string
	}{
		{"http://localhost:8000", "c1", "abc", "ws://localhost:8000/ws/c1?token=abc"},
		{"https://api.notesos.app", "course-9", "tok", "wss://api.notesos.app/ws/course-9?token=tok"},
		{"ws://localhost:8000", "c1", "abc", "ws://localhost:8000/ws/c1?token=abc"},
		{"http://localhost:8000", "c1", "a b+c", "ws://localhost:8000/ws/c1?token=a+b%2Bc"},
	}
	for _, tc := range cases {
		got, err := realtimeURL(tc.base, tc.course, tc.token)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestRealtimeURLRejectsUnknownScheme(t *testing.T) {
	_, err := realtimeURL("ftp://localhost", "c1", "abc")
	assert.Error(t, err)
}

func TestTokenStore(t *testing.T) {
	s := NewTokenStore()

	_, ok := s.AccessToken()
	assert.False(t, ok)

	s.Set("acc1", "ref1")
	access, ok := s.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "acc1", access)

	// A refresh response without a new refresh token keeps the old one.
	s.Set("acc2", "")
	refresh, ok := s.RefreshToken()
	require.True(t, ok)
	assert.Equal(t, "ref1", refresh)

	s.Clear()
	_, ok = s.AccessToken()
	assert.False(t, ok)
	_, ok = s.RefreshToken()
	assert.False(t, ok)
}

func TestStaticTokenProvider(t *testing.T) {
	_, ok := StaticTokenProvider("").AccessToken()
	assert.False(t, ok)

	token, ok := StaticTokenProvider("abc").AccessToken()
	require.True(t, ok)
	assert.Equal(t, "abc", token)
}

func TestConnectionStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "reconnecting", StateReconnecting.String())
	assert.Equal(t, "exhausted", StateExhausted.String())
	assert.Equal(t, "closed", StateClosed.String())
}
