package jobpost

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"syscall"
)

// sharedAddressSpace is the carrier-grade NAT range (RFC 6598).
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// blockedAddr reports whether addr is off limits to a server-side fetch:
// loopback, private, link-local (which covers cloud metadata endpoints),
// unspecified or multicast.
func blockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsInterfaceLocalMulticast() ||
		addr.IsMulticast() ||
		addr.IsUnspecified() ||
		sharedAddressSpace.Contains(addr)
}

// addressGuard keeps page fetches on the public internet unless private
// hosts are allowed.
type addressGuard struct {
	allowPrivate bool
	resolver     *net.Resolver
}

func newAddressGuard(opts *Options) *addressGuard {
	return &addressGuard{allowPrivate: opts.AllowPrivateHosts, resolver: net.DefaultResolver}
}

// checkHost resolves host and fails if any of its addresses is blocked.
func (g *addressGuard) checkHost(ctx context.Context, host string) error {
	if g.allowPrivate {
		return nil
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return checkAddr(addr)
	}

	addrs, err := g.resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", host, err)
	}
	for _, addr := range addrs {
		if err := checkAddr(addr); err != nil {
			return err
		}
	}
	return nil
}

// control runs on every dial, after DNS resolution, so redirects and
// rebinding cannot reach a blocked address.
func (g *addressGuard) control(_, address string, _ syscall.RawConn) error {
	if g.allowPrivate {
		return nil
	}
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("unexpected dial address %q", address)
	}
	return checkAddr(addr)
}

func checkAddr(addr netip.Addr) error {
	if blockedAddr(addr) {
		return fmt.Errorf("address %s is not allowed", addr)
	}
	return nil
}

// dialer returns a net.Dialer that enforces the guard.
func (g *addressGuard) dialer(opts *Options) *net.Dialer {
	return &net.Dialer{Timeout: opts.Timeout, Control: g.control}
}
