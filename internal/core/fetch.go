package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/JonMunkholm/tabular/internal/table"
)

var (
	// ErrResponseTooLarge is returned when a fetched body passes the size cap.
	ErrResponseTooLarge = errors.New("response too large")

	// ErrAddressDenied is returned when a fetch would connect to a denied network.
	ErrAddressDenied = errors.New("address not allowed")
)

// PrivateNetworks lists the loopback, private, shared, link-local and
// unspecified ranges.
var PrivateNetworks = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("::/128"),
	netip.MustParsePrefix("::1/128"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("fe80::/10"),
}

// Defaults for NewHTTPFetcher.
const (
	DefaultFetchTimeout  = 30 * time.Second
	DefaultFetchMaxBytes = 50 << 20
	DefaultUserAgent     = "tabular/1.0"
)

// HTTPFetcher retrieves delimited text over HTTP(S). It implements
// table.Fetcher.
type HTTPFetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

// NewHTTPFetcher creates a fetcher whose requests time out after timeout
// and whose bodies are capped at maxBytes. Zero values select the defaults.
func NewHTTPFetcher(timeout time.Duration, maxBytes int64, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultFetchMaxBytes
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		maxBytes:  maxBytes,
		userAgent: userAgent,
	}
}

// DenyNetworks makes f refuse to connect to any address inside prefixes.
// The check runs on the resolved address at dial time, so host names that
// resolve into a denied range are refused as well. Proxies from the
// environment are not used once a deny list is set.
func (f *HTTPFetcher) DenyNetworks(prefixes []netip.Prefix) *HTTPFetcher {
	if len(prefixes) == 0 {
		return f
	}
	dialer := &net.Dialer{
		Timeout:   f.client.Timeout,
		KeepAlive: 30 * time.Second,
		Control:   denyControl(prefixes),
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	f.client.Transport = transport
	return f
}

func denyControl(prefixes []netip.Prefix) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, _ syscall.RawConn) error {
		ap, err := netip.ParseAddrPort(address)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrAddressDenied, address)
		}
		addr := ap.Addr().Unmap()
		for _, p := range prefixes {
			if p.Contains(addr) {
				return fmt.Errorf("%w: %s is in %s", ErrAddressDenied, addr, p)
			}
		}
		return nil
	}
}

// ParseNetworks parses CIDRs or single addresses. Blank entries are skipped.
func ParseNetworks(entries []string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if p, err := netip.ParsePrefix(entry); err == nil {
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid network %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// Fetch issues a GET for rawURL. Transport failures and non-2xx responses
// wrap table.ErrFetch. The returned body fails with ErrResponseTooLarge
// once more than the size cap has been read.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: unsupported url %q", table.ErrFetch, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", table.ErrFetch, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/csv, text/tab-separated-values, text/plain;q=0.9, */*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", table.ErrFetch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %s", table.ErrFetch, u.Redacted(), resp.Status)
	}
	if resp.ContentLength > f.maxBytes {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %w: %d bytes exceeds %d", table.ErrFetch, ErrResponseTooLarge, resp.ContentLength, f.maxBytes)
	}

	return &limitedBody{Reader: newLimitReader(resp.Body, f.maxBytes), Closer: resp.Body}, nil
}

type limitedBody struct {
	io.Reader
	io.Closer
}
