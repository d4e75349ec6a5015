package http

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPExtractor resolves the client IP a request is attributed to.
type IPExtractor interface {
	ExtractIP(r *http.Request) (string, error)
}

// RemoteAddrExtractor uses the TCP peer address and ignores forwarding headers.
type RemoteAddrExtractor struct{}

func (RemoteAddrExtractor) ExtractIP(r *http.Request) (string, error) {
	return extractIPFromAddr(r.RemoteAddr)
}

// TrustedProxyConfig lists the reverse proxies whose forwarding headers are believed.
type TrustedProxyConfig struct {
	AllowedCIDRs []netip.Prefix
}

// ParseTrustedProxies parses IPs and CIDR ranges. A bare IP becomes a /32 or /128 prefix.
//
//	ParseTrustedProxies([]string{"10.0.0.0/8", "192.168.1.1"})
func ParseTrustedProxies(entries []string) (TrustedProxyConfig, error) {
	cfg := TrustedProxyConfig{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			addr, addrErr := netip.ParseAddr(entry)
			if addrErr != nil {
				return TrustedProxyConfig{}, fmt.Errorf("invalid trusted proxy %q: must be an IP address or CIDR range", entry)
			}
			prefix = netip.PrefixFrom(addr, addr.BitLen())
		}
		cfg.AllowedCIDRs = append(cfg.AllowedCIDRs, prefix.Masked())
	}
	return cfg, nil
}

// IsTrusted reports whether remoteAddr ("ip:port" or "ip") is a trusted proxy.
func (c TrustedProxyConfig) IsTrusted(remoteAddr string) bool {
	ip, err := extractIPFromAddr(remoteAddr)
	if err != nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range c.AllowedCIDRs {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// TrustedProxyExtractor reads X-Forwarded-For, then X-Real-IP, but only when
// the peer is a trusted proxy. Any other peer is identified by RemoteAddr.
type TrustedProxyExtractor struct {
	config TrustedProxyConfig
}

func NewTrustedProxyExtractor(config TrustedProxyConfig) *TrustedProxyExtractor {
	return &TrustedProxyExtractor{config: config}
}

func (e *TrustedProxyExtractor) ExtractIP(r *http.Request) (string, error) {
	if !e.config.IsTrusted(r.RemoteAddr) {
		if r.Header.Get("X-Forwarded-For") != "" || r.Header.Get("X-Real-IP") != "" {
			slog.Debug("ignoring forwarding headers from untrusted peer",
				slog.String("remote_addr", r.RemoteAddr))
		}
		return extractIPFromAddr(r.RemoteAddr)
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String(), nil
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(strings.TrimSpace(xri)); ip != nil {
			return ip.String(), nil
		}
	}
	return extractIPFromAddr(r.RemoteAddr)
}

// NewIPExtractor returns a RemoteAddrExtractor when no proxies are trusted.
func NewIPExtractor(config TrustedProxyConfig) IPExtractor {
	if len(config.AllowedCIDRs) == 0 {
		return RemoteAddrExtractor{}
	}
	return NewTrustedProxyExtractor(config)
}

// extractIPFromAddr strips the port from "ip:port"; a bare IP is returned as is.
func extractIPFromAddr(addr string) (string, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		if ip := net.ParseIP(addr); ip != nil {
			return ip.String(), nil
		}
		return "", fmt.Errorf("invalid address format: %s", addr)
	}
	return host, nil
}
