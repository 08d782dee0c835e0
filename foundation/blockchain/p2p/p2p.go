// Package p2p implements the peer wire listener and the version/verack
// handshake. No further message types are defined yet; accepted peers sit
// in the read loop until they disconnect.
package p2p

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/wire"
	"github.com/avast/retry-go"
)

// EventHandler defines a function that is called when events occur in the
// processing of peers.
type EventHandler func(v string, args ...any)

// =============================================================================

// Server accepts peer connections and runs the handshake with each.
type Server struct {
	host      string
	evHandler EventHandler

	listener net.Listener
	shut     chan struct{}
	wg       sync.WaitGroup
}

// NewServer constructs a peer server for the specified host.
func NewServer(host string, evHandler EventHandler) *Server {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &Server{
		host:      host,
		evHandler: ev,
		shut:      make(chan struct{}),
	}
}

// Start binds the listener and launches the accept loop.
func (srv *Server) Start() error {
	listener, err := net.Listen("tcp", srv.host)
	if err != nil {
		return err
	}
	srv.listener = listener

	srv.wg.Add(1)
	go func() {
		defer srv.wg.Done()
		srv.acceptLoop()
	}()

	srv.evHandler("p2p: server started on %s", srv.host)
	return nil
}

// Shutdown closes the listener and waits for the accept loop.
func (srv *Server) Shutdown() {
	close(srv.shut)
	if srv.listener != nil {
		srv.listener.Close()
	}
	srv.wg.Wait()
}

// ConnectTo dials a known peer and runs the handshake over the resulting
// connection. The dial is retried a few times since peers tend to come up
// together.
func (srv *Server) ConnectTo(host string) {
	var conn net.Conn

	err := retry.Do(
		func() error {
			var err error
			conn, err = net.DialTimeout("tcp", host, 5*time.Second)
			return err
		},
		retry.Attempts(3),
	)
	if err != nil {
		srv.evHandler("p2p: connect to %s failed: %s", host, err)
		return
	}

	srv.evHandler("p2p: connected to %s", host)
	go srv.handlePeer(conn)
}

// =============================================================================

// acceptLoop hands each accepted connection to its own goroutine.
func (srv *Server) acceptLoop() {
	for {
		conn, err := srv.listener.Accept()
		if err != nil {
			select {
			case <-srv.shut:
				return
			default:
				srv.evHandler("p2p: accept: ERROR: %s", err)
				continue
			}
		}

		srv.evHandler("p2p: new connection from %s", conn.RemoteAddr())
		go srv.handlePeer(conn)
	}
}

// handlePeer runs the handshake and the read loop for one peer. A failed
// version send, a read failure or an invalid magic drops the connection;
// a bad version payload or a failed verack send is logged and the loop
// continues. The node continues either way.
func (srv *Server) handlePeer(conn net.Conn) {
	defer conn.Close()

	// Both sides open by announcing their version.
	if err := srv.sendVersion(conn); err != nil {
		srv.evHandler("p2p: send version: ERROR: %s", err)
		return
	}

	for {
		select {
		case <-srv.shut:
			return
		default:
		}

		mh, payload, err := readMessage(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				srv.evHandler("p2p: peer %s: read: %s", conn.RemoteAddr(), err)
			}
			break
		}

		if err := validateMagic(mh); err != nil {
			srv.evHandler("p2p: peer %s: %s", conn.RemoteAddr(), err)
			break
		}

		switch mh.CommandString() {
		case CmdVersion:
			vm, err := DecodeVersionMessage(wire.NewDecoder(payload))
			if err != nil {
				srv.evHandler("p2p: peer %s: bad version payload: %s", conn.RemoteAddr(), err)
				continue
			}
			srv.evHandler("p2p: peer %s: version %d height %d", conn.RemoteAddr(), vm.Version, vm.StartHeight)

			if err := srv.sendVerack(conn); err != nil {
				srv.evHandler("p2p: send verack: ERROR: %s", err)
			}

		case CmdVerack:
			srv.evHandler("p2p: handshake complete with %s", conn.RemoteAddr())

		default:
			srv.evHandler("p2p: peer %s: unknown command %q", conn.RemoteAddr(), mh.CommandString())
		}
	}

	srv.evHandler("p2p: peer disconnected: %s", conn.RemoteAddr())
}

// readMessage reads one framed message off the wire.
func readMessage(conn net.Conn) (MessageHeader, []byte, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(conn, header); err != nil {
		return MessageHeader{}, nil, err
	}

	mh, err := DecodeMessageHeader(wire.NewDecoder(header))
	if err != nil {
		return MessageHeader{}, nil, err
	}

	var payload []byte
	if mh.Length > 0 {
		payload = make([]byte, mh.Length)
		if _, err := io.ReadFull(conn, payload); err != nil {
			return MessageHeader{}, nil, err
		}
	}

	return mh, payload, nil
}

// sendVersion announces this node to a peer.
func (srv *Server) sendVersion(conn net.Conn) error {
	// TODO: advertise the real chain height once block gossip exists.
	vm := VersionMessage{
		Version:     1,
		Services:    0,
		Timestamp:   time.Now().Unix(),
		StartHeight: 0,
	}

	e := wire.NewEncoder()
	vm.Encode(e)

	_, err := conn.Write(marshalMessage(CmdVersion, e.Bytes()))
	return err
}

// sendVerack acknowledges a peer's version.
func (srv *Server) sendVerack(conn net.Conn) error {
	_, err := conn.Write(marshalMessage(CmdVerack, nil))
	return err
}
