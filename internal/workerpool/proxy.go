package workerpool

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/proxy"
)

// ProxyConfig describes the shared SOCKS5 egress proxy pool; each worker
// identity gets its own sticky session by deriving a per-identity
// password, per spec.md §6.
type ProxyConfig struct {
	Host         string
	Port         string
	Username     string
	BasePassword string
}

// ParseProxyAuth parses the IPROYAL_PROXY_AUTH env value
// ("host:port:username:base_password"), spec.md §6.
func ParseProxyAuth(raw string) (ProxyConfig, error) {
	parts := strings.SplitN(raw, ":", 4)
	if len(parts) != 4 {
		return ProxyConfig{}, errors.Errorf("malformed IPROYAL_PROXY_AUTH: expected host:port:username:base_password")
	}
	return ProxyConfig{Host: parts[0], Port: parts[1], Username: parts[2], BasePassword: parts[3]}, nil
}

// stickySessionPassword computes the sticky-session password tying a
// SOCKS5 session to one worker identity for its session lifetime, per
// spec.md §6: "{base_password}_session-{identity_name}_lifetime-168h".
func stickySessionPassword(basePassword, identityName string) string {
	return fmt.Sprintf("%s_session-%s_lifetime-168h", basePassword, identityName)
}

// dialerFor builds a context-aware SOCKS5 dialer sticky to identityName.
func dialerFor(cfg ProxyConfig, identityName string) (proxy.ContextDialer, error) {
	auth := &proxy.Auth{
		User:     cfg.Username,
		Password: stickySessionPassword(cfg.BasePassword, identityName),
	}
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	d, err := proxy.SOCKS5("tcp", addr, auth, &net.Dialer{Timeout: 15 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "build socks5 dialer for %s", identityName)
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, errors.New("socks5 dialer does not support context dialing")
	}
	return cd, nil
}

func dialContext(ctx context.Context, cd proxy.ContextDialer, network, addr string) (net.Conn, error) {
	return cd.DialContext(ctx, network, addr)
}
