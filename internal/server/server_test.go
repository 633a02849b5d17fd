package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/foliogate-dev/foliogate/internal/config"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer builds a server wired to the given backend URL
func newTestServer(t *testing.T, backendURL string) *Server {
	t.Helper()

	cfg := &config.Config{
		Backend: config.BackendConfig{URL: backendURL},
		Server:  config.ServerConfig{ListenAddr: ":0"},
		Session: config.SessionConfig{Secret: testSecret},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
	}

	srv, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)
	return srv
}

// perform runs a request through the router and returns the recorder
func perform(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// responseCookie finds a cookie by name in the recorded response
func responseCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// loginBackend is a mock backend that answers the login endpoint with a
// standard success envelope and counts calls per path
type loginBackend struct {
	envelope string
	status   int
	calls    map[string]int
}

func newLoginBackend(t *testing.T) *loginBackend {
	t.Helper()
	return &loginBackend{
		status: http.StatusOK,
		envelope: `{"data":{"user":{"_id":"u1","name":"A","email":"a@b.com","role":"admin",` +
			`"phone":"1234567","isApproved":true},"accessToken":"tok123"}}`,
		calls: map[string]int{},
	}
}

func (b *loginBackend) server() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.calls[r.Method+" "+r.URL.Path]++
		if r.URL.Path == "/api/auth/login" {
			w.WriteHeader(b.status)
			if b.status == http.StatusOK {
				io.WriteString(w, b.envelope)
			} else {
				io.WriteString(w, `{"success":false,"message":"invalid credentials"}`)
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"data":[]}`)
	}))
}
