// Package http builds the *http.Client used to talk to the file-store backend.
package http

import (
	"crypto/tls"
	nethttp "net/http"
	"os"

	"golang.org/x/net/http2"

	"github.com/canlog/canlog-client/internal/config"
)

// tuneTransport enables HTTP/2 for direct connections.
//
// HTTP/2 is disabled when a proxy is active (proxies often break multiplexed
// streams mid-transfer) or when DISABLE_HTTP2=true is set. FORCE_HTTP2=true
// keeps it on even through a proxy.
func tuneTransport(tr *nethttp.Transport, proxied bool) {
	tr.ForceAttemptHTTP2 = true
	_ = http2.ConfigureTransport(tr)

	disable := os.Getenv("DISABLE_HTTP2") == "true" ||
		(proxied && os.Getenv("FORCE_HTTP2") != "true")
	if disable {
		tr.ForceAttemptHTTP2 = false
		tr.TLSNextProto = make(map[string]func(string, *tls.Conn) nethttp.RoundTripper)
	}
}

// proxyActive reports whether requests will leave through a proxy.
// System mode trusts the usual environment variables.
func proxyActive(cfg *config.Config) bool {
	switch cfg.ProxyMode {
	case config.ProxyNone, "":
		return false
	case config.ProxySystem:
		return os.Getenv("HTTP_PROXY") != "" || os.Getenv("HTTPS_PROXY") != "" ||
			os.Getenv("http_proxy") != "" || os.Getenv("https_proxy") != ""
	default:
		return cfg.ProxyHost != ""
	}
}
