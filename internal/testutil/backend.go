// Package testutil provides an in-memory network backend for tests. It
// serves the same /address, /link and /route contract as the real service.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Request is one request received by the Backend.
type Request struct {
	Method      string
	Path        string
	ContentType string
	RequestID   string
	Body        []byte
}

// JSON decodes the request body into a generic value for comparison.
func (r Request) JSON() interface{} {
	var v interface{}
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil
	}
	return v
}

type failure struct {
	status  int
	message string
}

// Backend is a fake network backend. Records are kept as generic JSON
// objects so tests see exactly what a real server would encode.
type Backend struct {
	server *httptest.Server

	mu       sync.Mutex
	records  map[string][]map[string]interface{}
	requests []Request
	failures map[string]failure
}

// NewBackend starts a Backend seeded with Fixture data. It is closed when
// the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		records:  Fixture(),
		failures: map[string]failure{},
	}

	r := chi.NewRouter()
	r.Use(b.record)
	for _, res := range []string{"address", "link", "route"} {
		res := res
		r.Get("/"+res, func(w http.ResponseWriter, r *http.Request) { b.list(w, res) })
		r.Delete("/"+res, func(w http.ResponseWriter, r *http.Request) { b.delete(w, r, res) })
	}
	r.Post("/address", b.createAddress)
	r.Post("/route", b.createRoute)

	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the backend base URL.
func (b *Backend) URL() string {
	return b.server.URL
}

// Fail makes every following method+path request answer with status and a
// plain-text message until Recover is called.
func (b *Backend) Fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

// Recover clears all injected failures.
func (b *Backend) Recover() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = map[string]failure{}
}

// Requests returns a copy of every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Count returns how many method+path requests were received.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Records returns the stored records of a resource ("address", "link", "route").
func (b *Backend) Records(resource string) []map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]interface{}(nil), b.records[resource]...)
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			RequestID:   r.Header.Get("X-Request-ID"),
			Body:        body,
		})
		f, failing := b.failures[r.Method+" "+r.URL.Path]
		b.mu.Unlock()

		if failing {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) list(w http.ResponseWriter, resource string) {
	b.mu.Lock()
	recs := b.records[resource]
	if recs == nil {
		recs = []map[string]interface{}{}
	}
	byt, err := json.Marshal(recs)
	b.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(byt)
}

func (b *Backend) delete(w http.ResponseWriter, r *http.Request, resource string) {
	var target interface{}
	if err := json.NewDecoder(r.Body).Decode(&target); err != nil {
		http.Error(w, fmt.Sprintf("decode: %v", err), http.StatusUnprocessableEntity)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	recs := b.records[resource]
	for i, rec := range recs {
		if reflect.DeepEqual(normalize(rec), target) {
			b.records[resource] = append(recs[:i:i], recs[i+1:]...)
			return
		}
	}
	http.Error(w, "No such record", http.StatusNotFound)
}

func (b *Backend) createAddress(w http.ResponseWriter, r *http.Request) {
	var req map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode: %v", err), http.StatusUnprocessableEntity)
		return
	}
	rec := map[string]interface{}{
		"family":    req["family"],
		"plen":      req["plen"],
		"flags":     req["flags"],
		"scope":     req["scope"],
		"index":     req["index"],
		"address":   req["address"],
		"local":     req["address"],
		"label":     req["label"],
		"broadcast": nil,
	}
	b.mu.Lock()
	b.records["address"] = append(b.records["address"], rec)
	b.mu.Unlock()
}

func (b *Backend) createRoute(w http.ResponseWriter, r *http.Request) {
	var rec map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, fmt.Sprintf("decode: %v", err), http.StatusUnprocessableEntity)
		return
	}
	rec["prefsrc"] = nil
	b.mu.Lock()
	b.records["route"] = append(b.records["route"], rec)
	b.mu.Unlock()
}

// normalize round-trips a record through JSON so numbers compare as float64
// like a freshly decoded body.
func normalize(rec map[string]interface{}) interface{} {
	byt, err := json.Marshal(rec)
	if err != nil {
		return nil
	}
	var v interface{}
	_ = json.Unmarshal(byt, &v)
	return v
}
