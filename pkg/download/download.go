// Package download fetches <file url="..."> content over HTTPS with
// SSRF guards and size limits, and applies per-family content
// processing to what comes back.
//
// Policy and mechanism are separate: ValidateURL enforces the
// HTTPS-and-public-hosts policy, Client.Fetch moves bytes. Callers run
// ValidateURL before fetching.
package download

import (
	"context"
	"crypto/tls"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/arthur-debert/sprout/pkg/config"
	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/logging"
)

// ValidateURL rejects URLs that are not HTTPS or that point at hosts a
// structure download must never reach: localhost, internal-looking
// domains, and private, link-local or unspecified IP ranges. IPv4-mapped
// IPv6 addresses are checked against the IPv4 ranges.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.Newf(errors.ErrURLInvalid, "Invalid URL: %v", err)
	}

	switch parsed.Scheme {
	case "https":
	case "http":
		return errors.New(errors.ErrURLInvalid, "HTTP is not allowed for security reasons. Please use HTTPS.")
	default:
		return errors.Newf(errors.ErrURLInvalid, "URL scheme '%s' is not allowed. Use HTTPS.", parsed.Scheme)
	}

	if parsed.User != nil {
		return errors.New(errors.ErrURLInvalid, "URL must not contain credentials")
	}

	host := parsed.Hostname()
	if host == "" {
		return errors.New(errors.ErrURLInvalid, "URL must have a valid host")
	}

	if ip := net.ParseIP(host); ip != nil {
		if blockedIP(ip) {
			return errors.Newf(errors.ErrURLInvalid,
				"Access to private/internal IP address '%s' is not allowed", host)
		}
		return nil
	}

	domain := strings.ToLower(host)
	if domain == "localhost" {
		return errors.New(errors.ErrURLInvalid, "Access to localhost is not allowed")
	}
	if domain == "internal" || strings.HasSuffix(domain, ".local") || strings.HasSuffix(domain, ".internal") {
		return errors.New(errors.ErrURLInvalid, "Access to internal network hosts is not allowed")
	}
	return nil
}

// blockedIP reports whether an address falls in a range downloads must
// not touch. To4 also catches IPv4-mapped IPv6 forms such as
// ::ffff:127.0.0.1, which would otherwise slip past the IPv4 checks.
func blockedIP(ip net.IP) bool {
	if v4 := ip.To4(); v4 != nil {
		return v4.IsLoopback() || // 127.0.0.0/8
			v4.IsPrivate() || // 10/8, 172.16/12, 192.168/16
			v4.IsLinkLocalUnicast() || // 169.254/16, cloud metadata included
			v4.IsUnspecified() ||
			v4.Equal(net.IPv4bcast)
	}
	return ip.IsLoopback() || // ::1
		ip.IsUnspecified() || // ::
		ip.IsPrivate() || // fc00::/7
		ip.IsLinkLocalUnicast() // fe80::/10
}

// Client downloads files within a configured time and size budget.
type Client struct {
	httpClient *http.Client
	maxBytes   int64
}

// New builds a Client from the download section of the configuration.
func New(cfg config.DownloadConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		maxBytes: cfg.MaxBytes,
	}
}

// Fetch downloads rawURL into memory, honoring the configured size cap.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	return c.FetchWithLimit(ctx, rawURL, c.maxBytes)
}

// FetchWithLimit downloads rawURL with an explicit size cap. The cap is
// enforced twice: against Content-Length before reading, and against
// the actual byte count after, since servers may omit or lie about the
// header.
func (c *Client) FetchWithLimit(ctx context.Context, rawURL string, maxBytes int64) ([]byte, error) {
	logger := logging.GetLogger("download")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDownload, "invalid download request for %s", rawURL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Newf(errors.ErrDownload, "Network error: %s", describeFailure(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Newf(errors.ErrDownload, "HTTP error %d", resp.StatusCode)
	}

	if resp.ContentLength > 0 && resp.ContentLength > maxBytes {
		return nil, errors.Newf(errors.ErrDownload,
			"File too large: %d bytes (max %d bytes)", resp.ContentLength, maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, errors.Newf(errors.ErrDownload, "Failed to read response: %v", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, errors.Newf(errors.ErrDownload, "File too large (max %d bytes)", maxBytes)
	}

	logger.Debug().Str("url", rawURL).Int("bytes", len(data)).Msg("downloaded file")
	return data, nil
}

// describeFailure turns transport errors into the short phrases users
// see in failure log entries.
func describeFailure(err error) string {
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return "request timed out"
	}
	var dnsErr *net.DNSError
	if stderrors.As(err, &dnsErr) {
		return fmt.Sprintf("could not resolve host %s", dnsErr.Name)
	}
	var certErr *tls.CertificateVerificationError
	if stderrors.As(err, &certErr) {
		return "TLS certificate verification failed"
	}
	if stderrors.Is(err, syscall.ECONNREFUSED) {
		return "connection refused"
	}

	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}
