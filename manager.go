package console

import (
	"context"
	"sync"

	"github.com/go-resty/resty/v2"
)

// Manager is the entry point of the console API. It owns the underlying
// resty client and hands out token-bound Clients.
type Manager struct {
	rc *resty.Client

	errHandlers map[Code][]Handler
	handlerLock sync.RWMutex

	connUp   bool
	connLock sync.Mutex

	statusObservers []StatusObserver
	observerLock    sync.RWMutex
}

// New constructs a new Manager with the given options.
func New(opts ...Option) *Manager {
	builder := newManagerBuilder()

	for _, opt := range opts {
		opt.config(builder)
	}

	return builder.build()
}

// NewClient returns a Client that authenticates with the given access token.
func (m *Manager) NewClient(token string) *Client {
	return newClient(m, token)
}

// NewClientWithLogin logs the given user in and returns a Client bound to the
// issued access token.
func (m *Manager) NewClientWithLogin(ctx context.Context, username, password string) (*Client, Auth, error) {
	var res envelope[Auth]

	if _, err := m.r(ctx).SetBody(LoginReq{
		Username: username,
		Password: password,
	}).SetResult(&res).Post("/api/auth/login"); err != nil {
		return nil, Auth{}, err
	}

	if !res.Success {
		return nil, Auth{}, &APIError{Message: res.Message}
	}

	return newClient(m, res.Data.Token), res.Data, nil
}

// AddErrorHandler registers a handler that is called whenever the API returns
// the given error code.
func (m *Manager) AddErrorHandler(code Code, handler Handler) {
	m.handlerLock.Lock()
	defer m.handlerLock.Unlock()

	m.errHandlers[code] = append(m.errHandlers[code], handler)
}

// Ping checks whether the API is reachable.
func (m *Manager) Ping(ctx context.Context) error {
	_, err := m.r(ctx).Get("/api/status")
	return err
}

func (m *Manager) Close() {
	m.rc.GetClient().CloseIdleConnections()
}

// r returns a new request object with the given context.
func (m *Manager) r(ctx context.Context) *resty.Request {
	return m.rc.R().SetContext(ctx)
}

func (m *Manager) handleError(req *resty.Request, err error) {
	resErr, ok := err.(*resty.ResponseError)
	if !ok {
		return
	}

	apiErr, ok := resErr.Response.Error().(*APIError)
	if !ok {
		return
	}

	m.handlerLock.RLock()
	defer m.handlerLock.RUnlock()

	for _, handler := range m.errHandlers[apiErr.Code] {
		handler()
	}
}

func (m *Manager) checkConnUp(_ *resty.Client, res *resty.Response) error {
	m.connLock.Lock()
	defer m.connLock.Unlock()

	if res.RawResponse != nil && !m.connUp {
		m.connUp = true

		m.notifyStatus(StatusUp)
	}

	return nil
}

func (m *Manager) checkConnDown(req *resty.Request, err error) {
	m.connLock.Lock()
	defer m.connLock.Unlock()

	if resErr, ok := err.(*resty.ResponseError); ok && resErr.Response.RawResponse == nil && m.connUp {
		m.connUp = false

		m.notifyStatus(StatusDown)
	}
}

// Status indicates whether the API is reachable.
type Status int

const (
	StatusUp Status = iota
	StatusDown
)

func (s Status) String() string {
	if s == StatusUp {
		return "up"
	}

	return "down"
}

// StatusObserver is notified when the API connection status changes.
type StatusObserver func(Status)

func (m *Manager) AddStatusObserver(observer StatusObserver) {
	m.observerLock.Lock()
	defer m.observerLock.Unlock()

	m.statusObservers = append(m.statusObservers, observer)
}

func (m *Manager) notifyStatus(status Status) {
	m.observerLock.RLock()
	defer m.observerLock.RUnlock()

	for _, observer := range m.statusObservers {
		observer(status)
	}
}
