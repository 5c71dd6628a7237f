// Package privacy masks client identifiers before they reach logs and audit records.
package privacy

import (
	"fmt"
	"net/netip"
)

// AnonymizeIP keeps the network part of an address: /24 for IPv4, /48 for IPv6.
// It returns "unknown" for empty input and "invalid" for anything unparseable.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()

	if addr.Is4() {
		prefix, _ := addr.Prefix(24)
		return prefix.Addr().String()
	}

	b := addr.As16()
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::", b[0], b[1], b[2], b[3], b[4], b[5])
}
