// Package mpctls is the MPC-TLS prover core (spec §4.4): it opens a
// duplex byte stream to the provider's HTTPS endpoint, records every
// byte written and read, and on Finalize hands back the exact
// Transcript plus the ServerIdentity binding for that connection.
//
// The real TLSNotary prover never holds the raw TLS master secret;
// it jointly computes the TLS record layer with the Notary so that
// the Notary can later attest to ciphertext it did not fully see. The
// Engine interface below is that contract's seam — one concrete
// implementation drives a real crypto/tls connection directly and
// captures the plaintext record stream, which is the externally
// observable behavior the rest of this repository depends on. No MPC
// handshake with the Notary takes place: the control channel in
// internal/notaryclient carries only a one-byte setup exchange, and
// the engine never uses it.
package mpctls

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"sync"

	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
	"github.com/summitto/tlsn-wise-attestor/internal/transcript"
)

// Stream is the duplex byte channel the HTTP driver writes requests
// to and reads responses from.
type Stream interface {
	Write(p []byte) (int, error)
	Read(p []byte) (int, error)
}

// FinalizeResult bundles the recorded transcript with the server
// identity binding, produced once the HTTP exchange is complete.
type FinalizeResult struct {
	Transcript     transcript.Transcript
	ServerIdentity transcript.ServerIdentity
}

// Engine is the prover core's contract (spec §4.4): Open dials the
// provider and returns a capped, recording Stream; Finalize closes
// the connection and returns what was recorded; Abort tears the
// connection down without producing a transcript.
type Engine interface {
	Open(ctx context.Context, host string, port uint16, maxSent, maxRecv uint32) (Stream, error)
	Finalize(ctx context.Context) (*FinalizeResult, error)
	Abort()
}

// engine is the concrete Engine backed by a real TLS 1.2 connection.
type engine struct {
	mu      sync.Mutex
	conn    *tls.Conn
	host    string
	sent    []byte
	recv    []byte
	maxSent uint32
	maxRecv uint32
}

// NewEngine constructs the concrete Engine implementation.
func NewEngine() Engine {
	return &engine{}
}

func (e *engine) Open(ctx context.Context, host string, port uint16, maxSent, maxRecv uint32) (Stream, error) {
	dialer := &net.Dialer{}
	raw, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(int(port))))
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Network, "failed to reach provider endpoint", err)
	}

	tlsConn := tls.Client(raw, &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	})
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		raw.Close()
		return nil, pipeerr.Wrap(pipeerr.TLS, "TLS handshake with provider failed", err)
	}

	e.conn = tlsConn
	e.host = host
	e.maxSent = maxSent
	e.maxRecv = maxRecv
	return &capturingStream{engine: e}, nil
}

func (e *engine) Finalize(ctx context.Context) (*FinalizeResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn == nil {
		return nil, pipeerr.New(pipeerr.TLS, "Finalize called before Open")
	}

	state := e.conn.ConnectionState()
	var leaf []byte
	var chain [][]byte
	for i, cert := range state.PeerCertificates {
		if i == 0 {
			leaf = cert.Raw
		}
		chain = append(chain, cert.Raw)
	}

	result := &FinalizeResult{
		Transcript: transcript.Transcript{
			Sent: append([]byte(nil), e.sent...),
			Recv: append([]byte(nil), e.recv...),
		},
		ServerIdentity: transcript.ServerIdentity{
			Hostname:    e.host,
			LeafCertDER: leaf,
			ChainDER:    chain,
		},
	}
	e.conn.Close()
	return result, nil
}

func (e *engine) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn != nil {
		e.conn.Close()
	}
}

// capturingStream wraps the TLS connection so every byte crossing it
// is appended to the engine's sent/recv buffers, enforcing the
// session's CapExceeded byte ceilings as it goes (spec §4.4).
type capturingStream struct {
	engine *engine
}

func (s *capturingStream) Write(p []byte) (int, error) {
	e := s.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	if uint32(len(e.sent)+len(p)) > e.maxSent {
		return 0, pipeerr.New(pipeerr.Network, "CapExceeded: sent bytes would exceed session cap")
	}
	n, err := e.conn.Write(p)
	e.sent = append(e.sent, p[:n]...)
	if err != nil {
		return n, pipeerr.Wrap(pipeerr.Network, "RequestWriteFailed", err)
	}
	return n, nil
}

func (s *capturingStream) Read(p []byte) (int, error) {
	e := s.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := e.conn.Read(p)
	if n > 0 {
		if uint32(len(e.recv)+n) > e.maxRecv {
			e.recv = append(e.recv, p[:n]...)
			return n, pipeerr.New(pipeerr.Network, "CapExceeded: received bytes would exceed session cap")
		}
		e.recv = append(e.recv, p[:n]...)
	}
	return n, err
}
