// Package validate normalizes candidate URLs and probes them for liveness.
package validate

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

// rejectedSchemes are non-web schemes a search result can smuggle in.
var rejectedSchemes = []string{"mailto:", "tel:", "javascript:", "data:", "about:"}

// NormalizeURL canonicalizes a candidate URL: rejects non-web schemes,
// assumes https when no scheme is present, upgrades http to https unless
// allowHTTP is set, and strips the fragment. Anything without both a
// scheme and a host after normalization is rejected.
func NormalizeURL(raw string, allowHTTP bool) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", eris.New("validate: empty url")
	}

	lower := strings.ToLower(raw)
	for _, scheme := range rejectedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return "", eris.Errorf("validate: unsupported url scheme in %q", raw)
		}
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", eris.Wrap(err, "validate: parse url")
	}

	switch u.Scheme {
	case "https":
	case "http":
		if !allowHTTP {
			u.Scheme = "https"
		}
	default:
		return "", eris.Errorf("validate: unsupported url scheme %q", u.Scheme)
	}

	u.Fragment = ""

	if u.Host == "" {
		return "", eris.Errorf("validate: url %q has no host", raw)
	}

	return u.String(), nil
}
