package safefetch

import (
	"net/url"
	"strings"
)

// resolveURL produces the absolute URL for a call. Absolute URLs pass
// through untouched; relative ones are joined onto base, normalizing the
// presence or absence of a leading slash.
func resolveURL(base, ref string) string {
	if isAbsoluteURL(ref) || base == "" {
		return ref
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(ref, "/")
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// appendQuery encodes q onto rawURL, preserving the insertion order of keys
// and of repeated values. url.Values.Encode is not used because it sorts
// keys.
func appendQuery(rawURL string, q Query) string {
	if len(q) == 0 {
		return rawURL
	}

	var sb strings.Builder
	for i, p := range q {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}

	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + sb.String()
}
