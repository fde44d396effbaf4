// Package pfcptransport owns the UDP socket, outstanding-request tracking
// with T1/N1 retransmission, response duplicate suppression, and sequence
// number allocation that sits between the wire codec/translator and the
// node & session state layer.
package pfcptransport

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// Socket wraps a bound UDP connection sized per the configured socket
// buffer. One connection serves both directions for every peer.
type Socket struct {
	conn *net.UDPConn
}

// NewSocket binds a UDP listener on addr:port and sets both the send and
// receive buffer sizes via SO_SNDBUF/SO_RCVBUF rather than trusting OS
// defaults — PFCP peers can burst session-establishment traffic during a
// mass reattach, and the default Linux buffer is too small to avoid drops.
func NewSocket(addr net.IP, port int, bufferBytes int) (*Socket, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: addr, Port: port})
	if err != nil {
		return nil, fmt.Errorf("pfcptransport: bind %s:%d: %w", addr, port, err)
	}

	if bufferBytes > 0 {
		if rc, err := conn.SyscallConn(); err == nil {
			_ = rc.Control(func(fd uintptr) {
				_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, bufferBytes)
				_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, bufferBytes)
			})
		}
	}

	return &Socket{conn: conn}, nil
}

// SendTo writes a complete datagram to addr:port.
func (s *Socket) SendTo(b []byte, addr net.IP, port int) error {
	_, err := s.conn.WriteToUDP(b, &net.UDPAddr{IP: addr, Port: port})
	if err != nil {
		return fmt.Errorf("pfcptransport: send to %s:%d: %w", addr, port, err)
	}
	return nil
}

// ReadFrom blocks for the next datagram, per TS 29.244's 65535-byte maximum
// PFCP message size.
func (s *Socket) ReadFrom(buf []byte) (int, *net.UDPAddr, error) {
	n, addr, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		return 0, nil, err
	}
	return n, addr, nil
}

// LocalAddr returns the address the socket is bound to.
func (s *Socket) LocalAddr() net.Addr { return s.conn.LocalAddr() }

// Close releases the socket.
func (s *Socket) Close() error { return s.conn.Close() }
