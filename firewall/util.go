package firewall

import (
	"fmt"
	"net/netip"
	"strings"

	"go4.org/netipx"
)

// ParseAddresses parses a comma separated list of IP addresses in plain or
// CIDR notation, as accepted by the -s and -d flags, and returns an IP set
// containing them. If ranges is true, addresses must instead be in range
// notation, as accepted by the iprange match. A leading "!" negates the match
// in the loader, and is ignored here.
func ParseAddresses(val string, ranges bool) (*netipx.IPSet, error) {
	val = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(val), "!"))

	var b netipx.IPSetBuilder
	for _, ip := range strings.Split(val, ",") {
		ip = strings.TrimSpace(ip)
		if ranges {
			ipRange, err := netipx.ParseIPRange(ip)
			if err != nil {
				return nil, fmt.Errorf("failed parsing IP range '%s': %w", ip, err)
			}
			b.AddRange(ipRange)
			continue
		}

		// Try a plain address first
		addr, err := netip.ParseAddr(ip)
		if err == nil {
			b.Add(addr)
			continue
		}
		// Then a prefix (CIDR). The loader masks host bits, so they're allowed.
		cidr, err := netip.ParsePrefix(ip)
		if err != nil {
			return nil, fmt.Errorf("failed parsing IP address '%s': %w", ip, err)
		}
		b.AddPrefix(cidr.Masked())
	}

	ipSet, err := b.IPSet()
	if err != nil {
		return nil, fmt.Errorf("failed building IP set: %w", err)
	}

	return ipSet, nil
}
