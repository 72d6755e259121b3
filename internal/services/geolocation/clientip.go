package geolocation

import (
	"net/netip"
	"strings"

	"github.com/rotisserie/eris"
)

// ProxyTrust decides which X-Forwarded-For hops may be believed.
type ProxyTrust struct {
	prefixes []netip.Prefix
}

// ParseTrustedProxies accepts single addresses and CIDR ranges.
func ParseTrustedProxies(entries []string) (*ProxyTrust, error) {
	p := &ProxyTrust{}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			prefix, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, eris.Wrapf(err, "geolocation: trusted proxy %q", e)
			}
			p.prefixes = append(p.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(e)
		if err != nil {
			return nil, eris.Wrapf(err, "geolocation: trusted proxy %q", e)
		}
		addr = addr.Unmap()
		p.prefixes = append(p.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return p, nil
}

func (p *ProxyTrust) trusted(addr netip.Addr) bool {
	if p == nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range p.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientAddress picks the address to geolocate. X-Forwarded-For is read only
// when the direct peer is a trusted proxy; the chain is then walked from the
// right and the first hop that is not itself trusted is the client. An
// unparsable hop ends the walk and the peer is used.
func (p *ProxyTrust) ClientAddress(peer, forwardedFor string) string {
	peerAddr, err := parseHost(peer)
	if err != nil {
		return peer
	}
	if forwardedFor == "" || !p.trusted(peerAddr) {
		return peerAddr.String()
	}

	hops := strings.Split(forwardedFor, ",")
	var leftmost netip.Addr
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := parseHost(strings.TrimSpace(hops[i]))
		if err != nil {
			return peerAddr.String()
		}
		if !p.trusted(addr) {
			return addr.String()
		}
		leftmost = addr
	}
	// Every hop is a trusted proxy.
	return leftmost.String()
}

// parseHost accepts a bare address or host:port.
func parseHost(s string) (netip.Addr, error) {
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap.Addr().Unmap(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	return addr.Unmap(), nil
}
