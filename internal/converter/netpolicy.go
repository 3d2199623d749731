package converter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

var errBlockedRequest = errors.New("request blocked")

// hostResolver returns the addresses a host name resolves to.
type hostResolver func(ctx context.Context, host string) ([]netip.Addr, error)

func systemResolver(ctx context.Context, host string) ([]netip.Addr, error) {
	return net.DefaultResolver.LookupNetIP(ctx, "ip", host)
}

// Ranges the netip predicates do not cover: "this network", carrier-grade
// NAT, IETF protocol assignments, benchmarking and reserved.
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("240.0.0.0/4"),
}

// publicAddr reports whether a is routable on the public internet.
func publicAddr(a netip.Addr) bool {
	a = a.Unmap()
	if !a.IsValid() ||
		a.IsLoopback() ||
		a.IsPrivate() ||
		a.IsLinkLocalUnicast() ||
		a.IsLinkLocalMulticast() ||
		a.IsInterfaceLocalMulticast() ||
		a.IsMulticast() ||
		a.IsUnspecified() {
		return false
	}
	for _, p := range reservedPrefixes {
		if p.Contains(a) {
			return false
		}
	}
	return true
}

// requestPolicy decides which URLs the headless browser may load. Inline
// schemes are allowed, http and https only when every address of the host
// is public, and anything else (file:, ftp:, chrome:) is refused.
type requestPolicy struct {
	resolve hostResolver
}

func (p requestPolicy) check(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", errBlockedRequest, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "data", "about", "blob":
		return nil
	case "http", "https":
	default:
		return fmt.Errorf("%w: scheme %q", errBlockedRequest, u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("%w: missing host", errBlockedRequest)
	}
	if a, err := netip.ParseAddr(host); err == nil {
		if !publicAddr(a) {
			return fmt.Errorf("%w: %s is not a public address", errBlockedRequest, host)
		}
		return nil
	}

	addrs, err := p.resolve(ctx, host)
	if err != nil {
		return fmt.Errorf("%w: resolving %s: %v", errBlockedRequest, host, err)
	}
	if len(addrs) == 0 {
		return fmt.Errorf("%w: %s has no addresses", errBlockedRequest, host)
	}
	for _, a := range addrs {
		if !publicAddr(a) {
			return fmt.Errorf("%w: %s resolves to %s", errBlockedRequest, host, a)
		}
	}
	return nil
}
