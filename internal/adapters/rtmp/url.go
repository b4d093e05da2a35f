package rtmp

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/dkeye/livecast/internal/domain"
)

const defaultPort = "1935"

// Target is an ingest url split into what the RTMP handshake needs.
type Target struct {
	URL            string
	Addr           string
	App            string
	Key            string
	TCURL          string
	Redacted       string
	HasCredentials bool
}

// ParseURL accepts rtmp://host[:port]/app[/more]/key. The last path element
// is the stream key, everything before it is the application.
func ParseURL(raw string) (Target, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	if !strings.EqualFold(u.Scheme, "rtmp") {
		return Target{}, fmt.Errorf("%w: unsupported scheme %q", domain.ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return Target{}, fmt.Errorf("%w: missing host", domain.ErrInvalidURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[len(parts)-1] == "" {
		return Target{}, fmt.Errorf("%w: expected /app/key in %q", domain.ErrInvalidURL, u.Path)
	}

	port := u.Port()
	if port == "" {
		port = defaultPort
	}
	app := strings.Join(parts[:len(parts)-1], "/")
	key := parts[len(parts)-1]
	query := u.RawQuery
	if u.User != nil {
		// Userinfo travels as publish args, where ingest auth hooks read it.
		creds := url.Values{}
		creds.Set("user", u.User.Username())
		if pw, ok := u.User.Password(); ok {
			creds.Set("pass", pw)
		}
		if query != "" {
			query += "&"
		}
		query += creds.Encode()
	}
	if query != "" {
		key += "?" + query
	}
	addr := net.JoinHostPort(u.Hostname(), port)

	return Target{
		URL:            raw,
		Addr:           addr,
		App:            app,
		Key:            key,
		TCURL:          "rtmp://" + addr + "/" + app,
		Redacted:       "rtmp://" + addr + "/" + app + "/" + redact(parts[len(parts)-1]),
		HasCredentials: query != "",
	}, nil
}

func redact(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}

// Redact hides the stream key of an ingest url for logs and snapshots.
func Redact(raw string) string {
	t, err := ParseURL(raw)
	if err != nil {
		return ""
	}
	return t.Redacted
}
