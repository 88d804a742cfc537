package resolve

import (
	"math"
	"net/url"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"golang.org/x/net/publicsuffix"
)

// socialHosts are registrable domains that can never be a company's own
// site: social networks, directories, aggregators, and Google properties.
var socialHosts = map[string]bool{
	"linkedin.com":    true,
	"facebook.com":    true,
	"instagram.com":   true,
	"x.com":           true,
	"twitter.com":     true,
	"youtube.com":     true,
	"crunchbase.com":  true,
	"bloomberg.com":   true,
	"zoominfo.com":    true,
	"manta.com":       true,
	"yelp.com":        true,
	"glassdoor.com":   true,
	"indeed.com":      true,
	"angel.co":        true,
	"wikipedia.org":   true,
	"maps.google.com": true,
	"google.com":      true,
	"goo.gl":          true,
}

// blacklistSubstrings mark scheduling, form, and event-ticketing URLs that
// sometimes outrank the real homepage.
var blacklistSubstrings = []string{
	"eventbrite",
	"hubspot",
	"forms.gle",
	"zoom.us",
}

// TokenSetRatio computes an order-insensitive token overlap similarity
// between two strings on a 0-100 scale. Tokens are compared as sorted
// intersection/difference joins so word order and duplicates do not matter.
func TokenSetRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var inter, diffA, diffB []string
	for tok := range setA {
		if setB[tok] {
			inter = append(inter, tok)
		} else {
			diffA = append(diffA, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			diffB = append(diffB, tok)
		}
	}
	sort.Strings(inter)
	sort.Strings(diffA)
	sort.Strings(diffB)

	t0 := strings.Join(inter, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(diffA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(diffB, " "))

	best := levenshtein.Similarity(t0, t1, nil)
	if s := levenshtein.Similarity(t0, t2, nil); s > best {
		best = s
	}
	if s := levenshtein.Similarity(t1, t2, nil); s > best {
		best = s
	}
	return best * 100
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = true
	}
	return set
}

// RegistrableDomain extracts the "domain.suffix" portion of a URL,
// ignoring subdomains. Falls back to the bare hostname when the public
// suffix list has no answer (e.g. bare IPs, internal hosts).
func RegistrableDomain(rawURL string) string {
	u, err := url.Parse(ensureScheme(rawURL))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	etld, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return etld
}

// IsBlockedDomain reports whether the URL's registrable domain sits on the
// social/aggregator denylist.
func IsBlockedDomain(rawURL string) bool {
	return socialHosts[RegistrableDomain(rawURL)]
}

// Score rates one search result against a normalized name. Domain-label
// similarity is the strongest signal of an official site; title and snippet
// corroborate; deep paths and tracking parameters drag the score down. The
// scale is unbounded and calibrated against the acceptance threshold, not a
// probability.
func Score(normName, title, rawURL, snippet string) float64 {
	domain := RegistrableDomain(rawURL)
	label, _, _ := strings.Cut(domain, ".")

	hostSim := TokenSetRatio(normName, strings.ReplaceAll(label, "-", " "))
	titleSim := TokenSetRatio(normName, title)
	snippetSim := TokenSetRatio(normName, snippet)

	score := 0.7*hostSim + 0.3*titleSim + math.Min(8, snippetSim/12)

	lowerTitle := strings.ToLower(title)
	if strings.Contains(lowerTitle, "official") || strings.Contains(lowerTitle, "home") {
		score += 5
	}

	return score + urlPenalty(rawURL, domain)
}

func urlPenalty(rawURL, domain string) float64 {
	if socialHosts[domain] {
		return -60
	}

	lower := strings.ToLower(ensureScheme(rawURL))
	for _, b := range blacklistSubstrings {
		if strings.Contains(lower, b) {
			return -40
		}
	}

	// Path depth beyond the scheme-authority boundary.
	depth := strings.Count(lower, "/") - 2
	if depth < 0 {
		depth = 0
	}
	penalty := 4 * depth
	if strings.Contains(lower, "?") {
		penalty += 5
	}
	if strings.Contains(lower, "#") {
		penalty += 5
	}
	return -float64(penalty)
}

func ensureScheme(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "https://" + rawURL
	}
	return rawURL
}
