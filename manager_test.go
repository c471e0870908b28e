package console_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/require"

	"github.com/libregate/go-console-api"
	"github.com/libregate/go-console-api/server"
)

func TestHandleTooManyRequests(t *testing.T) {
	var numCalls int

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		numCalls++

		if numCalls < 5 {
			w.WriteHeader(http.StatusTooManyRequests)
		} else {
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer ts.Close()

	m := console.New(
		console.WithHostURL(ts.URL),
		console.WithRetryCount(5),
	)

	// The call should succeed because the 5th retry should succeed (429s are retried).
	require.NoError(t, m.Ping(context.Background()))

	// The first four calls should return 429 and the last call should return 200.
	require.Equal(t, 5, numCalls)
}

func TestAppVersionGate(t *testing.T) {
	s := server.New()
	defer s.Close()

	s.SetMinAppVersion(semver.MustParse("1.0.0"))

	old := console.New(
		console.WithHostURL(s.GetHostURL()),
		console.WithTransport(console.InsecureTransport()),
		console.WithAppVersion("console_0.9.0"),
		console.WithRetryCount(0),
	)

	require.Error(t, old.Ping(context.Background()))

	current := console.New(
		console.WithHostURL(s.GetHostURL()),
		console.WithTransport(console.InsecureTransport()),
		console.WithAppVersion("console_1.2.0"),
		console.WithRetryCount(0),
	)

	require.NoError(t, current.Ping(context.Background()))
}

func TestConnectionReuse(t *testing.T) {
	s := server.New()
	defer s.Close()

	ctl := console.NewNetCtl()

	var dialed int

	ctl.OnDial(func(net.Conn) {
		dialed++
	})

	m := console.New(
		console.WithHostURL(s.GetHostURL()),
		console.WithTransport(console.NewDialer(ctl, insecureTLS()).GetRoundTripper()),
	)

	// This should succeed; the resulting connection should be reused.
	require.NoError(t, m.Ping(context.Background()))
	require.Equal(t, 1, dialed)

	// This should succeed; we should not re-dial.
	require.NoError(t, m.Ping(context.Background()))
	require.Equal(t, 1, dialed)
}

func TestOfflineServer(t *testing.T) {
	s, m := newTestServer(t)

	require.NoError(t, m.Ping(context.Background()))

	s.SetOffline(true)
	require.Error(t, m.Ping(context.Background()))

	s.SetOffline(false)
	require.NoError(t, m.Ping(context.Background()))
}

func TestDeauthHandler(t *testing.T) {
	s, m := newTestServer(t)

	_, err := s.CreateUser("alice", "pass")
	require.NoError(t, err)

	c := m.NewClient("no-such-token")

	deauthed := &counter{}
	c.AddDeauthHandler(deauthed.inc)

	_, err = c.GetSelfUser(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, deauthed.get())

	// The handler fires at most once.
	_, err = c.GetSelfUser(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, deauthed.get())
}
