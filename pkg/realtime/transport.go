package realtime

import (
	"context"
)

// DialOptions carries the connection parameters passed to a Transport.
type DialOptions struct {
	// Endpoint is the server address to connect to. Its format is
	// transport-specific (URL, connection string, ...).
	Endpoint string

	// WithCredentials asks the transport to attach ambient credentials
	// (cookies, auth headers) to the connection, when it supports them.
	WithCredentials bool
}

// Transport establishes push connections. The Manager treats it as a
// capability that yields a stream of opaque structured messages; no wire
// protocol is assumed beyond "structured message in, structured message out".
//
// Implementations must return an error wrapped with MarkPermanent for
// failures that will not resolve by retrying (unknown endpoint, rejected
// credentials), so the Manager can skip automatic retries.
type Transport interface {
	Connect(ctx context.Context, opts DialOptions) (Conn, error)
}

// Conn is one live push connection.
//
// Handlers registered before any message flows; a transport buffers or drops
// messages that arrive earlier. Both handlers may be invoked from the
// transport's own goroutine.
type Conn interface {
	// OnMessage registers the handler for inbound structured messages.
	OnMessage(fn func(payload map[string]any))

	// OnClose registers the handler invoked once when the connection drops
	// for any reason other than Stop. The cause may be nil for a clean
	// server-side close.
	OnClose(fn func(cause error))

	// Stop tears the connection down. It is idempotent and never invokes
	// the OnClose handler.
	Stop() error
}
