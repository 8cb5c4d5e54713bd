package fritz

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Transport is the HTTP collaborator the collector talks to the router
// through. It is an interface so tests can drive the pipeline without a
// device on the network. No retries; every call is one blocking request.
type Transport interface {
	Get(url string) (status int, body []byte, err error)
	PostForm(url string, form url.Values) (status int, body []byte, err error)
}

// HTTPTransport is the production Transport on net/http.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport returns a transport with the given request timeout;
// timeout <= 0 uses a 15 second default.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPTransport{client: &http.Client{Timeout: timeout}}
}

func (t *HTTPTransport) Get(u string) (int, []byte, error) {
	resp, err := t.client.Get(u)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func (t *HTTPTransport) PostForm(u string, form url.Values) (int, []byte, error) {
	resp, err := t.client.Post(u, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}
