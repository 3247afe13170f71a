package ws

import (
	"net/http"
	"strings"
)

// originAllowed is the pre-upgrade gate. Local development origins always
// pass, plus anything under the configured public domain; everything else is
// refused before a room connection ever exists.
func originAllowed(r *http.Request, publicDomain string) bool {
	origin := r.Header.Get("Origin")
	if strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1") {
		return true
	}
	return origin != "" && publicDomain != "" && strings.HasSuffix(origin, publicDomain)
}
