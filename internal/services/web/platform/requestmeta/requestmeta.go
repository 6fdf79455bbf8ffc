// Package requestmeta resolves scheme and origin facts about incoming requests.
package requestmeta

import (
	"net/http"
	"net/url"
	"strings"
)

// SchemePolicy controls how the request scheme is resolved.
//
// X-Forwarded-Proto is only honoured when TrustForwardedProto is set.
type SchemePolicy struct {
	TrustForwardedProto bool
}

// Scheme returns "https" or "http" for r.
func (p SchemePolicy) Scheme(r *http.Request) string {
	if r == nil {
		return ""
	}
	if p.TrustForwardedProto {
		switch forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); forwarded {
		case "http", "https":
			return forwarded
		}
	}
	if r.URL != nil {
		switch scheme := strings.ToLower(r.URL.Scheme); scheme {
		case "http", "https":
			return scheme
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// IsHTTPS reports whether r should be treated as HTTPS.
func (p SchemePolicy) IsHTTPS(r *http.Request) bool {
	return p.Scheme(r) == "https"
}

// SameOrigin reports whether the Origin header, or the Referer when Origin is
// absent, names the same scheme, host and port as r.
func (p SchemePolicy) SameOrigin(r *http.Request) bool {
	if r == nil {
		return false
	}
	self, ok := p.requestOrigin(r)
	if !ok {
		return false
	}
	claimed := strings.TrimSpace(r.Header.Get("Origin"))
	if claimed == "" {
		claimed = strings.TrimSpace(r.Header.Get("Referer"))
	}
	if claimed == "" {
		return false
	}
	parsed, err := url.Parse(claimed)
	if err != nil {
		return false
	}
	other, ok := newOrigin(parsed.Scheme, parsed.Host)
	if !ok {
		return false
	}
	return other == self
}

type origin struct {
	scheme string
	host   string
	port   string
}

func (p SchemePolicy) requestOrigin(r *http.Request) (origin, bool) {
	host := r.Host
	if strings.TrimSpace(host) == "" && r.URL != nil {
		host = r.URL.Host
	}
	return newOrigin(p.Scheme(r), host)
}

func newOrigin(scheme, hostport string) (origin, bool) {
	scheme = strings.ToLower(strings.TrimSpace(scheme))
	parsed, err := url.Parse("//" + strings.TrimSpace(hostport))
	if err != nil || scheme == "" {
		return origin{}, false
	}
	o := origin{
		scheme: scheme,
		host:   strings.ToLower(parsed.Hostname()),
		port:   parsed.Port(),
	}
	if o.host == "" {
		return origin{}, false
	}
	if o.port == "" {
		switch scheme {
		case "https":
			o.port = "443"
		case "http":
			o.port = "80"
		default:
			return origin{}, false
		}
	}
	return o, true
}
