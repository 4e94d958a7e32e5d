package api

import (
	"bytes"
	"io"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
)

// recordedRequest is what mockDoer saw for one call
type recordedRequest struct {
	Method string
	Path   string
	Header fhttp.Header
	Body   string
}

// mockDoer is a mock HTTPDoer that answers every request with a fixed
// response or error and records what it was sent.
type mockDoer struct {
	mu         sync.Mutex
	StatusCode int
	Body       string
	Err        error
	BodyErr    error
	Requests   []recordedRequest
	idleClosed bool
}

func newMockDoer(status int, body string) *mockDoer {
	return &mockDoer{StatusCode: status, Body: body}
}

func newMockDoerWithError(err error) *mockDoer {
	return &mockDoer{Err: err}
}

// Do implements HTTPDoer
func (m *mockDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := recordedRequest{
		Method: req.Method,
		Path:   req.URL.EscapedPath(),
		Header: req.Header.Clone(),
	}
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		rec.Body = string(data)
	}
	m.Requests = append(m.Requests, rec)

	if m.Err != nil {
		return nil, m.Err
	}

	var body io.ReadCloser = io.NopCloser(bytes.NewBufferString(m.Body))
	if m.BodyErr != nil {
		body = io.NopCloser(&failingReader{err: m.BodyErr})
	}
	return &fhttp.Response{
		StatusCode: m.StatusCode,
		Body:       body,
		Header:     make(fhttp.Header),
	}, nil
}

// CloseIdleConnections lets Close() be observed
func (m *mockDoer) CloseIdleConnections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleClosed = true
}

func (m *mockDoer) last() recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Requests[len(m.Requests)-1]
}

type failingReader struct {
	err error
}

func (f *failingReader) Read(p []byte) (int, error) {
	return 0, f.err
}
