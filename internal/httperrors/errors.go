// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for HTTP requests.
package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	"edupass/cli/internal/backend"
)

// Category classifies a failed request for presentation.
type Category int

const (
	Generic Category = iota
	Timeout
	DNS
	ConnectionRefused
	SSL
	InvalidCredentials
	Conflict
	Rejected
	Server
)

// Report is the user-facing description of a failed request.
type Report struct {
	Category Category
	Title    string
	Lines    []string
	// Details is an abbreviated technical message, shown at debug level.
	Details string
}

// FormatNetworkError displays a user-friendly message for err and returns it
// wrapped for logging. action describes what was being done, e.g. "logging in".
func FormatNetworkError(err error, action string) error {
	if err == nil {
		return nil
	}

	Display(Describe(err, action))

	// Keep the backend status error reachable via errors.As.
	return fmt.Errorf("request failed: %w", err)
}

// Describe classifies err. Backend status errors are checked first so that
// server-provided messages reach the user.
func Describe(err error, action string) Report {
	var se *backend.StatusError
	if errors.As(err, &se) {
		return describeStatus(se, action)
	}

	errStr := err.Error()
	switch {
	case isTimeoutError(err):
		return Report{Category: Timeout, Title: "⏱️  Connection timeout while " + action, Lines: []string{
			"The server took too long to respond. This could mean:",
			"  • Slow internet connection",
			"  • Server is under heavy load",
			"  • Network firewall is blocking the connection",
			"",
			"Please try again in a few moments.",
		}}
	case isDNSError(err):
		return Report{Category: DNS, Title: "🌐 Cannot resolve server address while " + action, Lines: []string{
			"Unable to look up the API host. Please check:",
			"  • Your internet connection is working",
			"  • The API URL in your config or EDUPASS_API_URL",
			"  • No DNS-level blocking (corporate firewall, parental controls)",
		}}
	case isConnectionRefusedError(err):
		return Report{Category: ConnectionRefused, Title: "🚫 Connection refused while " + action, Lines: []string{
			"The server is not accepting connections. This could mean:",
			"  • The service is temporarily down",
			"  • Wrong server address or port",
			"",
			"Check the API URL with 'edupass status'.",
		}}
	case isSSLError(err):
		return Report{Category: SSL, Title: "🔒 Secure connection failed while " + action, Lines: []string{
			"Cannot establish a secure HTTPS connection. This could mean:",
			"  • SSL/TLS certificate issue",
			"  • Network proxy interfering with HTTPS",
			"  • System clock is incorrect",
		}}
	}

	return Report{Category: Generic, Title: "❌ Cannot reach the Edupass service while " + action, Lines: []string{
		"Please check:",
		"  • Your internet connection",
		"  • Whether the API URL is accessible from your network",
	}, Details: abbreviate(errStr)}
}

func describeStatus(se *backend.StatusError, action string) Report {
	msg := se.Message
	switch {
	case se.Unauthorized():
		if msg == "" {
			msg = "Invalid username or password."
		}
		return Report{Category: InvalidCredentials, Title: "🔑 Authentication failed while " + action, Lines: []string{msg}}
	case se.StatusCode == http.StatusConflict:
		if msg == "" {
			msg = "An account with these details already exists."
		}
		return Report{Category: Conflict, Title: "⚠️  Conflict while " + action, Lines: []string{msg}}
	case se.Temporary():
		lines := []string{
			"The Edupass server encountered an error.",
			"This is not a problem with your setup. Please try again in a few minutes.",
		}
		if msg != "" {
			lines = append(lines, "", "Server said: "+msg)
		}
		return Report{Category: Server, Title: "⚠️  Server error while " + action, Lines: lines, Details: abbreviate(se.Error())}
	}

	if msg == "" {
		msg = fmt.Sprintf("The server rejected the request (%d %s).", se.StatusCode, http.StatusText(se.StatusCode))
	}
	return Report{Category: Rejected, Title: "❌ Request rejected while " + action, Lines: []string{msg}, Details: abbreviate(se.Body)}
}

// Display prints r with pterm.
func Display(r Report) {
	pterm.Println(r.Title)
	pterm.Println()
	for _, line := range r.Lines {
		pterm.Println(line)
	}
	pterm.Println()
	if r.Details != "" {
		pterm.Debug.Printf("Technical details: %s\n", r.Details)
	}
}

func abbreviate(s string) string {
	if len(s) > 100 {
		return s[:100] + "..."
	}
	return s
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Check for net.Error with Timeout()
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "ssl") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
