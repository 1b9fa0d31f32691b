package security

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
	"unicode"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"
)

// ErrTooManyRedirects is returned by clients built with NewHTTPClient when the
// redirect budget is exhausted.
var ErrTooManyRedirects = errors.New("too many redirects")

// ValidationError describes why a URL or connection was refused.
type ValidationError struct {
	Message string
	Type    string
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// SSRFValidator keeps the image fetcher away from internal infrastructure.
// Static checks run on every URL (including redirect targets); the dialer
// hook re-checks the address actually connected to, which also covers DNS rebinding.
type SSRFValidator struct {
	allowPrivateNetworks bool
	metadataHosts        map[string]bool
	internalSuffixes     []string
	allowedPorts         map[string]bool
}

// NewSSRFValidator creates a validator. allowPrivateNetworks disables the
// address, port and internal-domain checks for trusted deployments and tests.
func NewSSRFValidator(allowPrivateNetworks bool) *SSRFValidator {
	return &SSRFValidator{
		allowPrivateNetworks: allowPrivateNetworks,
		metadataHosts: map[string]bool{
			"169.254.169.254":          true, // AWS/Azure/GCP
			"metadata.google.internal": true,
			"100.100.100.200":          true, // Alibaba Cloud
			"192.0.0.192":              true, // Oracle Cloud
			"fd00:ec2::254":            true, // AWS IPv6
		},
		internalSuffixes: []string{
			".local", ".internal", ".corp", ".lan", ".intranet",
			".localhost", ".cluster.local", ".svc",
		},
		allowedPorts: map[string]bool{
			"80": true, "443": true, "8080": true, "8443": true,
		},
	}
}

// ValidateURL runs the checks that do not need the network.
func (v *SSRFValidator) ValidateURL(u *url.URL) error {
	if u == nil || u.Host == "" {
		return &ValidationError{Message: "empty host not allowed", Type: "BASIC_VALIDATION_ERROR"}
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return &ValidationError{
			Message: "only HTTP and HTTPS schemes allowed",
			Type:    "SCHEME_VALIDATION_ERROR",
			Details: map[string]interface{}{"scheme": u.Scheme},
		}
	}

	if u.User != nil {
		return &ValidationError{Message: "credentials in URL not allowed", Type: "USERINFO_BLOCKED"}
	}

	if strings.ContainsAny(u.Path, "\x00\r\n") {
		return &ValidationError{Message: "control characters in path not allowed", Type: "URL_ENCODING_BLOCKED"}
	}

	hostname := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))

	if v.metadataHosts[hostname] {
		return &ValidationError{
			Message: "access to metadata endpoint not allowed",
			Type:    "METADATA_ENDPOINT_BLOCKED",
			Details: map[string]interface{}{"hostname": hostname},
		}
	}

	if err := v.validateHostname(hostname); err != nil {
		return err
	}

	if v.allowPrivateNetworks {
		return nil
	}

	if hostname == "localhost" {
		return &ValidationError{
			Message: "access to localhost not allowed",
			Type:    "INTERNAL_DOMAIN_BLOCKED",
			Details: map[string]interface{}{"hostname": hostname},
		}
	}
	for _, suffix := range v.internalSuffixes {
		if strings.HasSuffix(hostname, suffix) {
			return &ValidationError{
				Message: "access to internal domains not allowed",
				Type:    "INTERNAL_DOMAIN_BLOCKED",
				Details: map[string]interface{}{"hostname": hostname, "suffix": suffix},
			}
		}
	}

	if ip := net.ParseIP(hostname); ip != nil && isPrivateOrDangerous(ip) {
		return &ValidationError{
			Message: "literal private address not allowed",
			Type:    "PRIVATE_IP_BLOCKED",
			Details: map[string]interface{}{"ip": ip.String()},
		}
	}

	if port := u.Port(); port != "" && !v.allowedPorts[port] {
		return &ValidationError{
			Message: fmt.Sprintf("non-standard port not allowed: %s", port),
			Type:    "PORT_BLOCKED",
			Details: map[string]interface{}{"port": port},
		}
	}

	return nil
}

// validateHostname rejects IDN tricks: undecodable punycode, mixed scripts and
// Cyrillic look-alikes.
func (v *SSRFValidator) validateHostname(hostname string) error {
	if net.ParseIP(hostname) != nil {
		return nil
	}

	asciiHostname, err := idna.Lookup.ToASCII(hostname)
	if err != nil {
		return &ValidationError{
			Message: "invalid internationalized domain name",
			Type:    "PUNYCODE_VALIDATION_ERROR",
			Details: map[string]interface{}{"hostname": hostname},
		}
	}

	unicodeHostname, err := idna.Lookup.ToUnicode(asciiHostname)
	if err != nil {
		unicodeHostname = hostname
	}

	if hasMixedScripts(unicodeHostname) {
		return &ValidationError{
			Message: "mixed script hostname not allowed",
			Type:    "MIXED_SCRIPT_BLOCKED",
			Details: map[string]interface{}{"hostname": hostname, "ascii": asciiHostname},
		}
	}

	if hasConfusableChars(unicodeHostname) {
		return &ValidationError{
			Message: "confusable characters in hostname not allowed",
			Type:    "UNICODE_BYPASS_BLOCKED",
			Details: map[string]interface{}{"hostname": hostname, "ascii": asciiHostname},
		}
	}

	return nil
}

func hasMixedScripts(hostname string) bool {
	var latin, cyrillic, other bool
	for _, r := range hostname {
		switch {
		case unicode.Is(unicode.Latin, r):
			latin = true
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic = true
		case unicode.IsLetter(r):
			other = true
		}
	}

	scripts := 0
	for _, found := range []bool{latin, cyrillic, other} {
		if found {
			scripts++
		}
	}
	return scripts > 1
}

func hasConfusableChars(hostname string) bool {
	normalized := norm.NFKC.String(hostname)
	// Cyrillic letters rendered identically to Latin a, e, o, p, c, x, i, j, s.
	return strings.ContainsAny(normalized, "аеорсхіјѕ")
}

func isPrivateOrDangerous(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast() {
		return true
	}
	// 100.64.0.0/10 carrier-grade NAT
	if ip4 := ip.To4(); ip4 != nil && ip4[0] == 100 && ip4[1]&0xc0 == 64 {
		return true
	}
	return false
}

// CheckAddress validates the resolved address right before a connection is made.
func (v *SSRFValidator) CheckAddress(network, address string) error {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return &ValidationError{
			Message: "invalid connection address format",
			Type:    "CONNECTION_ADDRESS_ERROR",
			Details: map[string]interface{}{"address": address, "network": network},
		}
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return &ValidationError{
			Message: "invalid IP address in connection",
			Type:    "INVALID_IP_ERROR",
			Details: map[string]interface{}{"host": host, "port": port},
		}
	}

	if v.metadataHosts[ip.String()] {
		return &ValidationError{
			Message: "connection to metadata endpoint IP blocked",
			Type:    "METADATA_IP_BLOCKED",
			Details: map[string]interface{}{"ip": ip.String(), "port": port},
		}
	}

	if v.allowPrivateNetworks {
		return nil
	}

	if isPrivateOrDangerous(ip) {
		return &ValidationError{
			Message: "connection to private/dangerous IP blocked",
			Type:    "PRIVATE_IP_BLOCKED",
			Details: map[string]interface{}{"ip": ip.String(), "port": port},
		}
	}

	if !v.allowedPorts[port] {
		return &ValidationError{
			Message: fmt.Sprintf("connection to non-allowed port blocked: %s", port),
			Type:    "PORT_BLOCKED",
			Details: map[string]interface{}{"ip": ip.String(), "port": port},
		}
	}

	return nil
}

// NewHTTPClient builds a client that validates every dial and every redirect
// hop, follows at most maxRedirects redirects and gives up after timeout.
func (v *SSRFValidator) NewHTTPClient(timeout time.Duration, maxRedirects int) *http.Client {
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
		Control: func(network, address string, _ syscall.RawConn) error {
			return v.CheckAddress(network, address)
		},
	}

	transport := &http.Transport{
		Proxy:                 nil,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport:     transport,
		Timeout:       timeout,
		CheckRedirect: v.RedirectPolicy(maxRedirects),
	}
}

// RedirectPolicy follows at most maxRedirects hops and re-validates each target.
func (v *SSRFValidator) RedirectPolicy(maxRedirects int) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) > maxRedirects {
			return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, maxRedirects)
		}
		if err := v.ValidateURL(req.URL); err != nil {
			return fmt.Errorf("redirect blocked by SSRF policy: %w", err)
		}
		return nil
	}
}
