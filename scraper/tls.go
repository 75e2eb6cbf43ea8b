package scraper

import (
	"context"
	"fmt"
	"net"
	"time"

	tls "github.com/refraction-networking/utls"
)

// deviceHelloSpec builds a Chrome ClientHello with ALPN limited to
// http/1.1, since net/http cannot speak h2 over a utls connection.
// ApplyPreset mutates the spec, so every connection gets a fresh one.
func deviceHelloSpec() (*tls.ClientHelloSpec, error) {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return nil, err
	}
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	return &spec, nil
}

// dialDeviceTLS opens a TLS connection to embedded firmware. Device
// certificates are self-signed or expired, so verification is skipped.
func dialDeviceTLS(ctx context.Context, network, addr string, timeout time.Duration) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(addr)
	cfg := &tls.Config{ServerName: host, InsecureSkipVerify: true}

	var tlsConn *tls.UConn
	if spec, specErr := deviceHelloSpec(); specErr == nil {
		tlsConn = tls.UClient(conn, cfg, tls.HelloCustom)
		if err := tlsConn.ApplyPreset(spec); err != nil {
			conn.Close()
			return nil, fmt.Errorf("scraper: apply tls spec: %w", err)
		}
	} else {
		tlsConn = tls.UClient(conn, cfg, tls.HelloGolang)
	}

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}
