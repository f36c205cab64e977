package resolver

import (
	"net/http"
	"sync"
)

// Session is the request context of a single Resolve call: extra headers and
// the cookies collected from the site while resolving. Each call gets its own
// Session so concurrent resolutions never see each other's cookies.
type Session struct {
	mu      sync.Mutex
	header  http.Header
	cookies map[string]*http.Cookie
}

// NewSession creates a session seeded with header and cookies. Both may be nil.
func NewSession(header http.Header, cookies []*http.Cookie) *Session {
	s := &Session{
		header:  header.Clone(),
		cookies: make(map[string]*http.Cookie),
	}
	if s.header == nil {
		s.header = http.Header{}
	}
	for _, c := range cookies {
		s.cookies[c.Name] = c
	}
	return s
}

// Cookies returns the cookies currently held by the session.
func (s *Session) Cookies() []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*http.Cookie, 0, len(s.cookies))
	for _, c := range s.cookies {
		out = append(out, c)
	}
	return out
}

// requestHeader merges the session headers, the session cookies and extra.
func (s *Session) requestHeader(extra http.Header) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.header.Clone()
	for key, values := range extra {
		h[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	if len(s.cookies) > 0 {
		req := &http.Request{Header: http.Header{}}
		for _, c := range s.cookies {
			req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
		h.Set("Cookie", req.Header.Get("Cookie"))
	}
	return h
}

// remember stores the cookies set by a response.
func (s *Session) remember(respHeader http.Header) {
	if len(respHeader.Values("Set-Cookie")) == 0 {
		return
	}
	resp := &http.Response{Header: respHeader}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 {
			delete(s.cookies, c.Name)
			continue
		}
		s.cookies[c.Name] = c
	}
}
