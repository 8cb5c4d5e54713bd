package fritz

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"time"
)

// loginPath is the challenge-response login endpoint, version 2 of the
// scheme (PBKDF2-capable firmwares).
const loginPath = "/login_sid.lua?version=2"

// invalidSID is the sentinel the router returns when authentication failed.
const invalidSID = "0000000000000000"

// LoginState is one login attempt's challenge and mandatory wait period.
// Created once per attempt and never mutated.
type LoginState struct {
	Challenge Challenge
	BlockTime int
}

// sessionInfo maps the <SessionInfo> XML document returned by the login
// endpoint. Pointer fields distinguish absent elements from empty ones.
type sessionInfo struct {
	SID       string  `xml:"SID"`
	Challenge *string `xml:"Challenge"`
	BlockTime *int    `xml:"BlockTime"`
}

// Authenticator performs the challenge-response login against one router.
type Authenticator struct {
	transport Transport
	baseURL   string
	sleep     func(time.Duration)
}

func NewAuthenticator(t Transport, baseURL string) *Authenticator {
	return &Authenticator{transport: t, baseURL: baseURL, sleep: time.Sleep}
}

// SessionID runs the login sequence: fetch the challenge, compute the
// response, honor the block time, submit, validate. Linear, no retries; a
// failed step ends the attempt.
func (a *Authenticator) SessionID(username string, password string) (string, error) {
	state, err := a.loginState()
	if err != nil {
		return "", err
	}

	response := state.Challenge.Response(password)

	if state.BlockTime > 0 {
		// The router refuses submissions until the block time has elapsed.
		a.sleep(time.Duration(state.BlockTime) * time.Second)
	}

	sid, err := a.submit(username, response)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	if sid == invalidSID {
		return "", ErrInvalidCredentials
	}
	return sid, nil
}

// loginState fetches the current challenge and block time.
func (a *Authenticator) loginState() (LoginState, error) {
	status, body, err := a.transport.Get(a.baseURL + loginPath)
	if err != nil {
		return LoginState{}, fmt.Errorf("%w: %v", ErrChallengeFetch, err)
	}
	if status < 200 || status >= 300 {
		return LoginState{}, fmt.Errorf("%w: status code %d", ErrChallengeFetch, status)
	}

	var info sessionInfo
	if err := xml.Unmarshal(body, &info); err != nil {
		return LoginState{}, fmt.Errorf("%w: %v", ErrChallengeFetch, err)
	}
	if info.Challenge == nil {
		return LoginState{}, fmt.Errorf("%w: missing Challenge element", ErrChallengeFetch)
	}
	if info.BlockTime == nil {
		return LoginState{}, fmt.Errorf("%w: missing BlockTime element", ErrChallengeFetch)
	}

	challenge, err := ParseChallenge(*info.Challenge)
	if err != nil {
		return LoginState{}, err
	}
	return LoginState{Challenge: challenge, BlockTime: *info.BlockTime}, nil
}

// submit posts the challenge response and extracts the SID from the reply.
func (a *Authenticator) submit(username string, response string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("response", response)

	status, body, err := a.transport.PostForm(a.baseURL+loginPath, form)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("status code %d", status)
	}

	var info sessionInfo
	if err := xml.Unmarshal(body, &info); err != nil {
		return "", err
	}
	if info.SID == "" {
		return "", fmt.Errorf("missing SID element")
	}
	return info.SID, nil
}
