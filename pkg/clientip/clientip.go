// Package clientip derives the address used to key rate limits and stored with
// feedback rows.
package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// RealClientIP returns the client IP from r.RemoteAddr only. Proxy headers are
// ignored because they are client controlled and would let a caller pick its own
// cooldown key. IPv4-mapped IPv6 addresses are unmapped so one client has one key.
func RealClientIP(r *http.Request) string {
	return Normalize(r.RemoteAddr)
}

// Normalize strips a port and zone and canonicalises the address. Values that do not
// parse as an IP are returned trimmed.
func Normalize(remoteAddr string) string {
	host := strings.TrimSpace(remoteAddr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return host
	}
	return addr.Unmap().WithZone("").String()
}
