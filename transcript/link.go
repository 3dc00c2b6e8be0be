package transcript

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
)

// linkParam is the query parameter carrying a deep-link start time.
const linkParam = "t"

// ParseStart reads a start offset from a deep link (?t=90, ?t=1m30s) or a bare value.
func ParseStart(raw string) mo.Option[float64] {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return mo.None[float64]()
	}

	if u, err := url.Parse(raw); err == nil && (u.Scheme != "" || strings.Contains(raw, "?")) {
		v := u.Query().Get(linkParam)
		if v == "" {
			return mo.None[float64]()
		}
		raw = v
	}

	return parseOffset(raw)
}

func parseOffset(raw string) mo.Option[float64] {
	if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
		if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
			return mo.None[float64]()
		}
		return mo.Some(seconds)
	}

	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		return mo.Some(d.Seconds())
	}

	return parseClock(raw)
}

// parseClock accepts m:ss and h:mm:ss.
func parseClock(raw string) mo.Option[float64] {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return mo.None[float64]()
	}

	var total float64
	for _, part := range parts {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return mo.None[float64]()
		}
		total = total*60 + float64(n)
	}
	return mo.Some(total)
}

// Link returns base with its t parameter set to the whole seconds of offset.
func Link(base string, seconds float64) string {
	u, err := url.Parse(base)
	if err != nil || base == "" {
		return "?" + linkParam + "=" + strconv.Itoa(int(seconds))
	}

	q := u.Query()
	q.Set(linkParam, strconv.Itoa(int(seconds)))
	u.RawQuery = q.Encode()
	return u.String()
}
