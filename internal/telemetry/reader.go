// internal/telemetry/reader.go
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ReadChunk is the size of one read from the transport.
const ReadChunk = 64

// IsIdle reports whether a read error only means "no bytes yet".
// Transports with read timeouts return such errors while the link is healthy.
type IsIdle func(err error) bool

// Reader pumps a byte source through a Decoder.
type Reader struct {
	dec  *Decoder
	idle IsIdle
}

// NewReader creates a reader with a fresh decoder.
// idle may be nil when the source never times out.
func NewReader(idle IsIdle) *Reader {
	if idle == nil {
		idle = func(error) bool { return false }
	}
	return &Reader{dec: NewDecoder(), idle: idle}
}

// Run reads src until ctx is done or the transport dies and emits one
// Result per frame on out. Transport death is reported exactly once as
// ErrTransportClosed, after which Run returns. No retries.
func (r *Reader) Run(ctx context.Context, src io.Reader, out chan<- Result) error {
	// In-flight decode state never outlives a connection.
	defer r.dec.Reset()

	buf := make([]byte, ReadChunk)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := src.Read(buf)
		if n > 0 {
			for res := range r.dec.Ingest(buf[:n]) {
				select {
				case out <- res:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		if err == nil || r.idle(err) {
			continue
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		closed := fmt.Errorf("%w: %w", ErrTransportClosed, err)
		if errors.Is(err, io.EOF) {
			closed = fmt.Errorf("%w: end of stream", ErrTransportClosed)
		}

		select {
		case out <- Result{Err: closed}:
		case <-ctx.Done():
			return ctx.Err()
		}
		return closed
	}
}
