package pipeline_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	scopekit "github.com/sectrean/scope-kit"
	"github.com/sectrean/scope-kit/internal/errors"
)

// RunRequest sends a GET request through the handler and returns the recorded
// response.
func RunRequest(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	h.ServeHTTP(rec, req)
	return rec
}

// Recorder collects the scopes observed by container-managed middleware.
type Recorder struct {
	scopes []scopekit.Scope
}

// Echo writes a fixed response without delegating, recording the scope it
// observed on the request.
type Echo struct {
	rec  *Recorder
	next http.Handler
}

func NewEcho(rec *Recorder, next http.Handler) *Echo {
	return &Echo{rec: rec, next: next}
}

func (m *Echo) Handle(w http.ResponseWriter, r *http.Request) {
	m.rec.scopes = append(m.rec.scopes, scopekit.ScopeFromContext(r.Context()))
	_, _ = io.WriteString(w, "echo")
}

// TagA, TagB, and TagC write their tag and delegate. They give discovery and
// ordering tests distinct middleware types.
type TagA struct{ next http.Handler }

func NewTagA(next http.Handler) *TagA { return &TagA{next: next} }

func (m *TagA) Handle(w http.ResponseWriter, r *http.Request) {
	_, _ = io.WriteString(w, "A")
	m.next.ServeHTTP(w, r)
}

type TagB struct{ next http.Handler }

func NewTagB(next http.Handler) *TagB { return &TagB{next: next} }

func (m *TagB) Handle(w http.ResponseWriter, r *http.Request) {
	_, _ = io.WriteString(w, "B")
	m.next.ServeHTTP(w, r)
}

type TagC struct{ next http.Handler }

func NewTagC(next http.Handler) *TagC { return &TagC{next: next} }

func (m *TagC) Handle(w http.ResponseWriter, r *http.Request) {
	_, _ = io.WriteString(w, "C")
	m.next.ServeHTTP(w, r)
}

// PlainService is registered alongside middleware to exercise discovery
// filtering.
type PlainService struct{}

func NewPlainService() *PlainService { return &PlainService{} }

// FailingCloser makes request-scope disposal fail.
type FailingCloser struct{}

func NewFailingCloser() *FailingCloser { return &FailingCloser{} }

func (f *FailingCloser) Close() error {
	return errors.New("boom")
}

// Greeter is a terminal handler service.
type Greeter struct {
	Msg string
}

func NewGreeter() *Greeter { return &Greeter{Msg: "hello from scope"} }

func terminal(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
	})
}
