package console

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"sync"
)

func InsecureTransport() *http.Transport {
	return &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
}

// NetCtl can be used to control whether a dialer can dial, and whether the
// resulting connection can read or write. Tests use it to simulate transport
// failures at any point of an operation.
type NetCtl struct {
	canDial  atomicBool
	canRead  atomicBool
	canWrite atomicBool

	onDial []func(net.Conn)

	lock sync.Mutex
}

// NewNetCtl returns a new NetCtl allowing everything.
func NewNetCtl() *NetCtl {
	return &NetCtl{
		canDial:  atomicBool{b32(true)},
		canRead:  atomicBool{b32(true)},
		canWrite: atomicBool{b32(true)},
	}
}

// SetCanDial sets whether the dialer can dial.
func (c *NetCtl) SetCanDial(canDial bool) {
	c.canDial.Store(canDial)
}

// SetCanRead sets whether connections can read.
func (c *NetCtl) SetCanRead(canRead bool) {
	c.canRead.Store(canRead)
}

// SetCanWrite sets whether connections can write.
func (c *NetCtl) SetCanWrite(canWrite bool) {
	c.canWrite.Store(canWrite)
}

// OnDial adds a callback that is called with the created connection when a dial succeeds.
func (c *NetCtl) OnDial(f func(net.Conn)) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.onDial = append(c.onDial, f)
}

// Disable is equivalent to disallowing dial, read and write.
func (c *NetCtl) Disable() {
	c.SetCanDial(false)
	c.SetCanRead(false)
	c.SetCanWrite(false)
}

// Enable is equivalent to allowing dial, read and write.
func (c *NetCtl) Enable() {
	c.SetCanDial(true)
	c.SetCanRead(true)
	c.SetCanWrite(true)
}

// Conn wraps a net.Conn, gating reads and writes through the controller.
type Conn struct {
	net.Conn

	ctl *NetCtl
}

func (c *Conn) Read(b []byte) (int, error) {
	if !c.ctl.canRead.Load() {
		return 0, errors.New("cannot read")
	}

	return c.Conn.Read(b)
}

func (c *Conn) Write(b []byte) (int, error) {
	if !c.ctl.canWrite.Load() {
		return 0, errors.New("cannot write")
	}

	return c.Conn.Write(b)
}

// Dialer performs network dialing, but only if the controller allows it.
type Dialer struct {
	ctl *NetCtl

	netDialer *net.Dialer
	tlsDialer *tls.Dialer
	tlsConfig *tls.Config
}

// NewDialer returns a new dialer using the given net controller.
// It optionally uses a provided tls config.
func NewDialer(ctl *NetCtl, tlsConfig *tls.Config) *Dialer {
	return &Dialer{
		ctl: ctl,

		netDialer: &net.Dialer{},
		tlsDialer: &tls.Dialer{Config: tlsConfig},
		tlsConfig: tlsConfig,
	}
}

// DialContext dials a network connection, but only if the controller allows it.
func (d *Dialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	return d.dialWithDialer(ctx, network, addr, d.netDialer)
}

// DialTLSContext dials a TLS network connection, but only if the controller allows it.
func (d *Dialer) DialTLSContext(ctx context.Context, network, addr string) (net.Conn, error) {
	return d.dialWithDialer(ctx, network, addr, d.tlsDialer)
}

func (d *Dialer) dialWithDialer(ctx context.Context, network, addr string, dialer dialer) (net.Conn, error) {
	if !d.ctl.canDial.Load() {
		return nil, errors.New("cannot dial")
	}

	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	d.ctl.lock.Lock()
	defer d.ctl.lock.Unlock()

	for _, f := range d.ctl.onDial {
		f(conn)
	}

	return &Conn{Conn: conn, ctl: d.ctl}, nil
}

// GetRoundTripper returns a new http.RoundTripper that uses the dialer.
func (d *Dialer) GetRoundTripper() http.RoundTripper {
	return &http.Transport{
		DialContext:     d.DialContext,
		DialTLSContext:  d.DialTLSContext,
		TLSClientConfig: d.tlsConfig,
	}
}

type dialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}
