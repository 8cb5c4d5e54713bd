package fritz

import (
	"net/url"
)

// mockTransport scripts the router's responses and records every call.
// postFunc, when set, overrides the scripted POST response (used when one
// test needs both the login and the data endpoint).
type mockTransport struct {
	getStatus int
	getBody   string
	getErr    error

	postStatus int
	postBody   string
	postErr    error
	postFunc   func(u string, form url.Values) (int, []byte, error)

	getURLs   []string
	postURLs  []string
	postForms []url.Values
}

func (m *mockTransport) Get(u string) (int, []byte, error) {
	m.getURLs = append(m.getURLs, u)
	if m.getErr != nil {
		return 0, nil, m.getErr
	}
	status := m.getStatus
	if status == 0 {
		status = 200
	}
	return status, []byte(m.getBody), nil
}

func (m *mockTransport) PostForm(u string, form url.Values) (int, []byte, error) {
	m.postURLs = append(m.postURLs, u)
	m.postForms = append(m.postForms, form)
	if m.postFunc != nil {
		return m.postFunc(u, form)
	}
	if m.postErr != nil {
		return 0, nil, m.postErr
	}
	status := m.postStatus
	if status == 0 {
		status = 200
	}
	return status, []byte(m.postBody), nil
}
