package server

import (
	"bytes"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func initRouter(s *Server) {
	s.r.Use(
		s.requireValidAppVersion(),
		s.setSessionCookie(),
	)

	if api := s.r.Group("/api"); api != nil {
		// These routes are not protected by authentication.
		api.GET("/status", s.handleGetStatus())

		if auth := api.Group("/auth"); auth != nil {
			auth.POST("/login", s.handlePostAuthLogin())
		}

		// These routes require auth.
		if api := api.Group("", s.requireAuth()); api != nil {
			if user := api.Group("/user"); user != nil {
				user.GET("/self", s.handleGetUserSelf())
				user.PUT("/self", s.handlePutUserSelf())

				// These routes are only available to administrators.
				if user := user.Group("", s.requireAdmin()); user != nil {
					user.GET("/:userID", s.handleGetUser())
					user.PUT("/", s.handlePutUser())
				}
			}

			if group := api.Group("/group", s.requireAdmin()); group != nil {
				group.GET("/", s.handleGetGroups())
			}
		}
	}
}

// okJSON writes a success envelope around the given payload.
func okJSON(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    data,
	})
}

// failJSON writes an application-level failure envelope. The HTTP status is
// still 200; transport-level failures use abortJSON instead.
func failJSON(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"message": message,
	})
}

func abortJSON(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func (s *Server) requireValidAppVersion() gin.HandlerFunc {
	return func(c *gin.Context) {
		appVersion := c.Request.Header.Get("x-console-appversion")

		if appVersion == "" {
			abortJSON(c, http.StatusBadRequest, "missing x-console-appversion header")
		} else if ok := s.validateAppVersion(appVersion); !ok {
			abortJSON(c, http.StatusBadRequest, "this version of the app is no longer supported, please update to continue")
		}
	}
}

func (s *Server) setSessionCookie() gin.HandlerFunc {
	return func(c *gin.Context) {
		url, err := url.Parse(s.s.URL)
		if err != nil {
			panic(err)
		}

		host, _, err := net.SplitHostPort(url.Host)
		if err != nil {
			panic(err)
		}

		if cookie, err := c.Request.Cookie("Session-Id"); errors.Is(err, http.ErrNoCookie) {
			c.SetCookie("Session-Id", uuid.NewString(), int(90*24*time.Hour.Seconds()), "/", host, true, true)
		} else {
			c.SetCookie("Session-Id", cookie.Value, int(90*24*time.Hour.Seconds()), "/", host, true, true)
		}
	}
}

func (s *Server) logCalls() gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := io.ReadAll(c.Request.Body)
		if err != nil {
			panic(err)
		} else {
			c.Request.Body = io.NopCloser(bytes.NewReader(req))
		}

		res, err := newBodyWriter(c.Writer)
		if err != nil {
			panic(err)
		} else {
			c.Writer = res
		}

		c.Next()

		s.callWatchersLock.RLock()
		defer s.callWatchersLock.RUnlock()

		for _, call := range s.callWatchers {
			if call.isWatching(c.Request.URL.Path) {
				call.publish(Call{
					URL:    c.Request.URL,
					Method: c.Request.Method,
					Status: c.Writer.Status(),

					RequestHeader: c.Request.Header,
					RequestBody:   req,

					ResponseHeader: c.Writer.Header(),
					ResponseBody:   res.bytes(),
				})
			}
		}
	}
}

func (s *Server) handleOffline() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.offline {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
	}
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")
		if auth == "" {
			abortJSON(c, http.StatusUnauthorized, "missing access token")
			return
		}

		split := strings.Split(auth, " ")
		if len(split) != 2 {
			abortJSON(c, http.StatusUnauthorized, "malformed access token")
			return
		}

		userID, err := s.b.VerifyAuth(split[1])
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "invalid access token")
			return
		}

		c.Set("UserID", userID)
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.b.IsAdmin(c.GetInt("UserID")) {
			abortJSON(c, http.StatusForbidden, "admin rights required")
			return
		}
	}
}

func (s *Server) validateAppVersion(appVersion string) bool {
	if s.minAppVersion == nil {
		return true
	}

	split := strings.Split(appVersion, "_")

	if len(split) != 2 {
		return false
	}

	version, err := semver.NewVersion(split[1])
	if err != nil {
		return false
	}

	if version.LessThan(s.minAppVersion) {
		return false
	}

	return true
}

type bodyWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func newBodyWriter(w gin.ResponseWriter) (*bodyWriter, error) {
	if w == nil {
		return nil, errors.New("response writer is nil")
	}

	return &bodyWriter{
		ResponseWriter: w,

		buf: &bytes.Buffer{},
	}, nil
}

func (w bodyWriter) Write(b []byte) (int, error) {
	if n, err := w.buf.Write(b); err != nil {
		return n, err
	}

	return w.ResponseWriter.Write(b)
}

func (w bodyWriter) bytes() []byte {
	return w.buf.Bytes()
}
