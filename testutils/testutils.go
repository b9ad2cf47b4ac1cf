package testutils

import (
	"bytes"
	"io"
	"net/http"
)

// MockTransport implements RoundTripper
type MockTransport struct {
	// RT is the RoundTrip function. Replace this function with your test function.
	// For example:
	//   t := MockTransport{}
	//   t.RT = func(req *http.Request) (*http.Response, error) {
	//       // assert req args, return res or error
	//   }
	RT func(*http.Request) (*http.Response, error)
}

// RoundTrip is a RoundTripper
func (t MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.RT(req)
}

// NewRoundTripper returns a new RoundTripper which will call the provided function.
func NewRoundTripper(roundTrip func(*http.Request) (*http.Response, error)) http.RoundTripper {
	rt := MockTransport{}
	rt.RT = roundTrip
	return rt
}

// XMLResponse makes a feed response with the given status and body, with
// the headers feed servers commonly set.
func XMLResponse(statusCode int, body string, headers map[string]string) *http.Response {
	resp := &http.Response{
		StatusCode: statusCode,
		Header:     http.Header{"Content-Type": []string{"text/xml"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
	for name, value := range headers {
		resp.Header.Set(name, value)
	}
	return resp
}
