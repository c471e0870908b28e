package server

import (
	"io"
	"net/http/httptest"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/libregate/go-console-api/server/backend"
)

type serverBuilder struct {
	withTLS bool
	logger  io.Writer
	groups  []string
}

func newServerBuilder() *serverBuilder {
	var logger io.Writer

	if os.Getenv("GO_CONSOLE_API_SERVER_LOGGER_ENABLED") != "" {
		logger = gin.DefaultWriter
	} else {
		logger = io.Discard
	}

	return &serverBuilder{
		withTLS: true,
		logger:  logger,
		groups:  []string{"default", "vip"},
	}
}

func (builder *serverBuilder) build() *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		r: gin.New(),
		b: backend.New(builder.groups...),
	}

	if builder.withTLS {
		s.s = httptest.NewTLSServer(s.r)
	} else {
		s.s = httptest.NewServer(s.r)
	}

	s.r.Use(
		gin.LoggerWithConfig(gin.LoggerConfig{Output: builder.logger}),
		gin.Recovery(),
		s.logCalls(),
		s.handleOffline(),
	)

	initRouter(s)

	return s
}

// Option represents a type that can be used to configure the server.
type Option interface {
	config(*serverBuilder)
}

// WithTLS controls whether the server should serve over TLS.
func WithTLS(tls bool) Option {
	return &withTLS{
		withTLS: tls,
	}
}

type withTLS struct {
	withTLS bool
}

func (opt withTLS) config(builder *serverBuilder) {
	builder.withTLS = opt.withTLS
}

// WithLogger controls where gin logs to.
func WithLogger(logger io.Writer) Option {
	return &withLogger{
		logger: logger,
	}
}

type withLogger struct {
	logger io.Writer
}

func (opt withLogger) config(builder *serverBuilder) {
	builder.logger = opt.logger
}

// WithGroups sets the selectable groups the server starts with.
func WithGroups(groups ...string) Option {
	return &withGroups{
		groups: groups,
	}
}

type withGroups struct {
	groups []string
}

func (opt withGroups) config(builder *serverBuilder) {
	builder.groups = opt.groups
}
