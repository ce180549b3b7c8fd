// internal/telemetry/decoder.go
package telemetry

import (
	"bytes"
	"iter"
)

// MaxPending bounds the bytes held for one unterminated frame.
// A longer run is reported once as malformed and skipped up to the next delimiter.
const MaxPending = 64

// Decoder reassembles delimited frames from arbitrarily chunked input.
// A Decoder is owned by exactly one reader; it is not safe for concurrent use.
type Decoder struct {
	buf      []byte
	off      int  // first unconsumed byte in buf
	skipping bool // inside an overlong frame already reported
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{buf: make([]byte, 0, MaxPending)}
}

// Ingest appends chunk and returns the results of every complete frame.
//
// Frames are consumed as they are yielded. If the caller stops early the
// remaining complete frames stay buffered and are yielded by the next Ingest.
// The sequence reads decoder state and must be drained before the next call.
func (d *Decoder) Ingest(chunk []byte) iter.Seq[Result] {
	d.compact()
	d.buf = append(d.buf, chunk...)

	return func(yield func(Result) bool) {
		for {
			pending := d.buf[d.off:]
			i := bytes.IndexByte(pending, Delimiter)

			if i < 0 {
				if d.skipping {
					d.off = len(d.buf)
					return
				}
				if len(pending) > MaxPending {
					d.skipping = true
					d.off = len(d.buf)
					yield(Result{Err: frameError(pending[:MaxPending], ErrMalformedFrame)})
				}
				return
			}

			frame := pending[:i]
			d.off += i + 1

			if d.skipping {
				d.skipping = false
				continue
			}

			if !yield(Decode(frame)) {
				return
			}
		}
	}
}

// Buffered reports how many bytes wait for a delimiter.
func (d *Decoder) Buffered() int {
	return len(d.buf) - d.off
}

// Reset discards any partially received frame.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.off = 0
	d.skipping = false
}

func (d *Decoder) compact() {
	if d.off == 0 {
		return
	}
	n := copy(d.buf, d.buf[d.off:])
	d.buf = d.buf[:n]
	d.off = 0
}

// Decode validates one frame (delimiter excluded). A malformed frame's
// error carries at most MaxPending bytes, as an overlong run does.
func Decode(frame []byte) Result {
	if len(frame) != FrameLen {
		return Result{Err: frameError(frame[:min(len(frame), MaxPending)], ErrMalformedFrame)}
	}

	status, index, raw := frame[0], frame[1], frame[2]

	st, ok := statusTable[status]
	if !ok {
		return Result{Err: frameError(frame, ErrUnknownStatus)}
	}

	digit, ok := positionTable[raw]
	if !ok {
		return Result{Err: frameError(frame, ErrUnknownPosition)}
	}

	// The lower manual reports a single summary slot whatever its index.
	slot := 0
	if st.kb == Upper {
		slot = int(index) - upperIndexBase
		if slot < 0 || slot > 8 {
			return Result{Err: frameError(frame, ErrUnknownDrawbar)}
		}
	}

	return Result{Update: DrawbarUpdate{
		Keyboard:     st.kb,
		Registration: st.reg,
		Slot:         slot,
		Digit:        digit,
	}}
}

// Encode builds the wire form of an update, delimiter included.
// The lower manual is encoded with index 0.
func Encode(u DrawbarUpdate) []byte {
	raw, _ := RawPosition(u.Digit)
	index := byte(0)
	if u.Keyboard == Upper {
		index = byte(upperIndexBase + u.Slot)
	}
	return []byte{StatusByte(u.Keyboard, u.Registration), index, raw, Delimiter}
}

func frameError(frame []byte, err error) error {
	return &FrameError{Frame: append([]byte(nil), frame...), Err: err}
}
