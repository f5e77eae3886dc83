package probe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/net/proxy"
)

// newDialer 构建 WebSocket 拨号器。socksAddr 非空时经由 SOCKS5 上游建立 TCP 连接。
func newDialer(handshakeTimeout time.Duration, socksAddr string) (*websocket.Dialer, error) {
	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		ReadBufferSize:   4 * 1024,
		WriteBufferSize:  4 * 1024,
		HandshakeTimeout: handshakeTimeout,
	}
	if socksAddr == "" {
		return dialer, nil
	}

	socks, err := proxy.SOCKS5("tcp", socksAddr, nil, &net.Dialer{Timeout: handshakeTimeout})
	if err != nil {
		return nil, fmt.Errorf("socks5 dialer for %s: %w", socksAddr, err)
	}
	// An explicit upstream replaces any proxy taken from the environment.
	dialer.Proxy = nil
	if cd, ok := socks.(proxy.ContextDialer); ok {
		dialer.NetDialContext = cd.DialContext
	} else {
		dialer.NetDialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return socks.Dial(network, addr)
		}
	}
	return dialer, nil
}

// dial opens the connection. The HTTP status is included in the error when
// the server answered the upgrade request with something other than 101.
func dial(ctx context.Context, dialer *websocket.Dialer, urlStr string) (*websocket.Conn, error) {
	conn, resp, err := dialer.DialContext(ctx, urlStr, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: %s: %s: %w", ErrConnect, urlStr, resp.Status, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, urlStr, err)
	}
	return conn, nil
}
