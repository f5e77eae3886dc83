package probe

import (
	"context"
	"net"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// countedConn 包装 net.Conn，原子地统计一次探测的上行和下行字节数（含握手与帧头）。
type countedConn struct {
	net.Conn
	uplink   *atomic.Uint64
	downlink *atomic.Uint64
}

func (c *countedConn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	if n > 0 {
		c.downlink.Add(uint64(n))
	}
	return n, err
}

func (c *countedConn) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	if n > 0 {
		c.uplink.Add(uint64(n))
	}
	return n, err
}

// traffic holds the counters of a single run.
type traffic struct {
	uplink   atomic.Uint64
	downlink atomic.Uint64
}

// countingDialer returns a copy of base whose TCP connections report into tr.
func countingDialer(base *websocket.Dialer, tr *traffic) *websocket.Dialer {
	d := *base
	netDial := base.NetDialContext
	if netDial == nil {
		netDial = (&net.Dialer{}).DialContext
	}
	d.NetDialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := netDial(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		return &countedConn{Conn: conn, uplink: &tr.uplink, downlink: &tr.downlink}, nil
	}
	return &d
}
