package console_test

import (
	"context"
	"crypto/tls"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/libregate/go-console-api"
	"github.com/libregate/go-console-api/server"
)

type Call = server.Call

func insecureTLS() *tls.Config {
	return &tls.Config{InsecureSkipVerify: true}
}

// newTestServer starts a fixture server and returns a manager pointed at it.
func newTestServer(t *testing.T) (*server.Server, *console.Manager) {
	t.Helper()

	s := server.New()
	t.Cleanup(s.Close)

	m := console.New(
		console.WithHostURL(s.GetHostURL()),
		console.WithTransport(console.InsecureTransport()),
		console.WithRetryCount(0),
	)
	t.Cleanup(m.Close)

	return s, m
}

// newGatedTestServer is like newTestServer but lets tests hold selected
// requests until explicitly released.
func newGatedTestServer(t *testing.T) (*server.Server, *console.Manager, *gateTransport) {
	t.Helper()

	s := server.New()
	t.Cleanup(s.Close)

	gate := newGateTransport(console.InsecureTransport())

	m := console.New(
		console.WithHostURL(s.GetHostURL()),
		console.WithTransport(gate),
		console.WithRetryCount(0),
	)
	t.Cleanup(m.Close)

	return s, m, gate
}

func loginAdmin(t *testing.T, s *server.Server, m *console.Manager) *console.Client {
	t.Helper()

	if _, err := s.CreateAdmin("admin", "admin-pass"); err != nil {
		// The admin may already exist if the test creates several clients.
		t.Logf("creating admin: %v", err)
	}

	c, _, err := m.NewClientWithLogin(context.Background(), "admin", "admin-pass")
	require.NoError(t, err)

	return c
}

func waitLoaded(t *testing.T, session *console.UserEditSession) {
	t.Helper()

	require.Eventually(t, func() bool {
		return !session.Loading()
	}, 5*time.Second, 10*time.Millisecond)
}

// gateTransport wraps a transport, blocking held method/path pairs until the
// returned release function is called.
type gateTransport struct {
	rt http.RoundTripper

	lock  sync.Mutex
	gates map[string]chan struct{}
}

func newGateTransport(rt http.RoundTripper) *gateTransport {
	return &gateTransport{
		rt:    rt,
		gates: make(map[string]chan struct{}),
	}
}

// hold makes requests with the given method and path wait until the returned
// function is called.
func (g *gateTransport) hold(method, path string) (release func()) {
	ch := make(chan struct{})

	g.lock.Lock()
	g.gates[method+" "+path] = ch
	g.lock.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			close(ch)
		})
	}
}

func (g *gateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	g.lock.Lock()
	ch := g.gates[req.Method+" "+req.URL.Path]
	g.lock.Unlock()

	if ch != nil {
		<-ch
	}

	return g.rt.RoundTrip(req)
}

// recordNotifier records surfaced messages for assertions.
type recordNotifier struct {
	lock      sync.Mutex
	successes []string
	failures  []string
}

func (n *recordNotifier) Success(message string) {
	n.lock.Lock()
	defer n.lock.Unlock()

	n.successes = append(n.successes, message)
}

func (n *recordNotifier) Error(message string) {
	n.lock.Lock()
	defer n.lock.Unlock()

	n.failures = append(n.failures, message)
}

func (n *recordNotifier) errors() []string {
	n.lock.Lock()
	defer n.lock.Unlock()

	return append([]string(nil), n.failures...)
}

func (n *recordNotifier) successMessages() []string {
	n.lock.Lock()
	defer n.lock.Unlock()

	return append([]string(nil), n.successes...)
}

type counter struct {
	n int32
}

func (c *counter) inc() {
	atomic.AddInt32(&c.n, 1)
}

func (c *counter) get() int {
	return int(atomic.LoadInt32(&c.n))
}

func atomicAdd(p *int32, delta int32) {
	atomic.AddInt32(p, delta)
}

func atomicLoad(p *int32) int32 {
	return atomic.LoadInt32(p)
}
