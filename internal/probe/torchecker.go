package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

const (
	// The origin rejects default client signatures, so the probe presents a
	// realistic browser header pair.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:52.0) Gecko/20100101 Firefox/52.0"
	referer   = "https://www.google.com"

	requestTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// TorChecker probes the onion service through a local SOCKS proxy.
// N.B. requires Tor to be running on the host.
type TorChecker struct {
	Client *http.Client
}

func NewTorChecker(socksAddr string) (*TorChecker, error) {
	dialer, err := proxy.SOCKS5("tcp", socksAddr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("socks dialer: %w", err)
	}
	ctxDialer, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("socks dialer for %s does not support context", socksAddr)
	}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return ctxDialer.DialContext(ctx, network, addr)
		},
	}
	return &TorChecker{
		Client: &http.Client{Transport: transport, Timeout: requestTimeout},
	}, nil
}

func (c *TorChecker) Check(ctx context.Context, target string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)

	resp, err := c.Client.Do(req)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{Err: err}
	}
	return Result{Reachable: true, StatusCode: resp.StatusCode, Body: string(body)}
}

var _ Checker = (*TorChecker)(nil)
