// internal/telemetry/decoder_test.go
package telemetry

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// outcome is a comparable view of a Result.
type outcome struct {
	Update DrawbarUpdate
	Kind   error
}

func kindOf(err error) error {
	for _, k := range []error{ErrMalformedFrame, ErrUnknownStatus, ErrUnknownPosition, ErrUnknownDrawbar, ErrTransportClosed} {
		if errors.Is(err, k) {
			return k
		}
	}
	return err
}

func outcomes(rs []Result) []outcome {
	out := make([]outcome, 0, len(rs))
	for _, r := range rs {
		if r.Err != nil {
			out = append(out, outcome{Kind: kindOf(r.Err)})
			continue
		}
		out = append(out, outcome{Update: r.Update})
	}
	return out
}

func decodeChunks(chunks ...[]byte) []Result {
	d := NewDecoder()
	var all []Result
	for _, c := range chunks {
		all = append(all, slices.Collect(d.Ingest(c))...)
	}
	return all
}

// ---- tests ----

func TestDecode_UpperSlotZero(t *testing.T) {
	got := decodeChunks([]byte("\xb0\x46\x7f\n"))

	want := []Result{{Update: DrawbarUpdate{
		Keyboard:     Upper,
		Registration: RegistrationOne,
		Slot:         0,
		Digit:        '0',
	}}}
	if diff := cmp.Diff(want, got, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_SplitAcrossIngests(t *testing.T) {
	whole := decodeChunks([]byte("\xb0\x46\x7f\n"))

	d := NewDecoder()
	first := slices.Collect(d.Ingest([]byte("\xb0\x46")))
	if len(first) != 0 {
		t.Fatalf("expected no result before delimiter, got %v", first)
	}
	if d.Buffered() != 2 {
		t.Fatalf("expected 2 buffered bytes, got %d", d.Buffered())
	}
	second := slices.Collect(d.Ingest([]byte("\x7f\n")))

	if diff := cmp.Diff(whole, second, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("split decode differs (-whole +split):\n%s", diff)
	}
	if d.Buffered() != 0 {
		t.Fatalf("expected empty buffer, got %d", d.Buffered())
	}
}

func TestDecode_CalibrationTable(t *testing.T) {
	table := map[byte]byte{127: '0', 110: '1', 92: '2', 79: '3', 63: '4', 47: '5', 31: '6', 15: '7', 0: '8'}

	for raw, digit := range table {
		res := Decode([]byte{0xB0, 0x48, raw})
		if res.Err != nil {
			t.Fatalf("raw %d: unexpected error %v", raw, res.Err)
		}
		if res.Update.Digit != digit {
			t.Fatalf("raw %d: got digit %c want %c", raw, res.Update.Digit, digit)
		}
		if res.Update.Slot != 2 {
			t.Fatalf("raw %d: got slot %d want 2", raw, res.Update.Slot)
		}
	}
}

func TestDecode_UnknownPositionKeepsSync(t *testing.T) {
	for v := 0; v < 256; v++ {
		raw := byte(v)
		if _, ok := positionTable[raw]; ok || raw == Delimiter {
			continue
		}

		d := NewDecoder()
		got := slices.Collect(d.Ingest([]byte{0xB0, 0x46, raw, '\n', 0xB0, 0x47, 63, '\n'}))

		if len(got) != 2 {
			t.Fatalf("raw %d: expected 2 results, got %d", raw, len(got))
		}
		if !errors.Is(got[0].Err, ErrUnknownPosition) {
			t.Fatalf("raw %d: expected ErrUnknownPosition, got %v", raw, got[0].Err)
		}
		if got[1].Err != nil || got[1].Update.Slot != 1 || got[1].Update.Digit != '4' {
			t.Fatalf("raw %d: resync failed, got %+v", raw, got[1])
		}
		if d.Buffered() != 0 {
			t.Fatalf("raw %d: buffer not drained", raw)
		}
	}
}

func TestDecode_StatusTable(t *testing.T) {
	cases := []struct {
		status byte
		kb     Keyboard
		reg    Registration
	}{
		{0xB0, Upper, RegistrationOne},
		{0xB1, Lower, RegistrationOne},
		{0xB2, Upper, RegistrationTwo},
		{0xB3, Lower, RegistrationTwo},
	}
	for _, c := range cases {
		res := Decode([]byte{c.status, 0x4A, 0})
		if res.Err != nil {
			t.Fatalf("status 0x%x: %v", c.status, res.Err)
		}
		if res.Update.Keyboard != c.kb || res.Update.Registration != c.reg {
			t.Fatalf("status 0x%x: got %v", c.status, res.Update)
		}
	}

	if res := Decode([]byte{0x90, 0x46, 0}); !errors.Is(res.Err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", res.Err)
	}
}

func TestDecode_LowerAlwaysSlotZero(t *testing.T) {
	for _, index := range []byte{0, 0x46, 0x4E, 0x7F} {
		res := Decode([]byte{0xB1, index, 47})
		if res.Err != nil {
			t.Fatalf("index %d: %v", index, res.Err)
		}
		if res.Update.Slot != 0 {
			t.Fatalf("index %d: got slot %d, want 0", index, res.Update.Slot)
		}
	}
}

func TestDecode_UpperIndexRange(t *testing.T) {
	if res := Decode([]byte{0xB0, 0x45, 0}); !errors.Is(res.Err, ErrUnknownDrawbar) {
		t.Fatalf("index 69: expected ErrUnknownDrawbar, got %v", res.Err)
	}
	if res := Decode([]byte{0xB0, 0x4F, 0}); !errors.Is(res.Err, ErrUnknownDrawbar) {
		t.Fatalf("index 79: expected ErrUnknownDrawbar, got %v", res.Err)
	}
	if res := Decode([]byte{0xB0, 0x4E, 0}); res.Err != nil || res.Update.Slot != 8 {
		t.Fatalf("index 78: got %+v", res)
	}
}

func TestDecode_MalformedDoesNotStall(t *testing.T) {
	got := outcomes(decodeChunks([]byte("\n\xb0\n\xb0\x46\x7f\x00\n\xb2\x46\x00\n")))

	want := []outcome{
		{Kind: ErrMalformedFrame},
		{Kind: ErrMalformedFrame},
		{Kind: ErrMalformedFrame},
		{Update: DrawbarUpdate{Keyboard: Upper, Registration: RegistrationTwo, Slot: 0, Digit: '8'}},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_FrameErrorCarriesBytes(t *testing.T) {
	res := Decode([]byte{0xB0, 0x46, 0x05})

	var fe *FrameError
	if !errors.As(res.Err, &fe) {
		t.Fatalf("expected *FrameError, got %T", res.Err)
	}
	if string(fe.Frame) != "\xb0\x46\x05" {
		t.Fatalf("frame bytes: got % x", fe.Frame)
	}
	if fe.Code() != 12 {
		t.Fatalf("code: got %d want 12", fe.Code())
	}
}

func TestDecode_OverlongRunReportedOnce(t *testing.T) {
	junk := make([]byte, 3*MaxPending)
	for i := range junk {
		junk[i] = 'x'
	}

	d := NewDecoder()
	var got []Result
	for i := 0; i < len(junk); i += 16 {
		got = append(got, slices.Collect(d.Ingest(junk[i:i+16]))...)
	}
	got = append(got, slices.Collect(d.Ingest([]byte("\n\xb0\x46\x7f\n")))...)

	want := []outcome{
		{Kind: ErrMalformedFrame},
		{Update: DrawbarUpdate{Keyboard: Upper, Registration: RegistrationOne, Digit: '0'}},
	}
	if diff := cmp.Diff(want, outcomes(got), cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_OverlongFrameBytesIndependentOfChunking(t *testing.T) {
	stream := make([]byte, 2*MaxPending+1)
	for i := range stream[:2*MaxPending] {
		stream[i] = byte('a' + i%26)
	}
	stream[2*MaxPending] = Delimiter

	frameOf := func(res []Result) []byte {
		t.Helper()
		if len(res) != 1 {
			t.Fatalf("got %d results, want 1", len(res))
		}
		var fe *FrameError
		if !errors.As(res[0].Err, &fe) {
			t.Fatalf("want FrameError, got %v", res[0].Err)
		}
		return fe.Frame
	}

	whole := frameOf(slices.Collect(NewDecoder().Ingest(stream)))

	d := NewDecoder()
	var split []Result
	for i := 0; i < len(stream); i += 8 {
		end := min(i+8, len(stream))
		split = append(split, slices.Collect(d.Ingest(stream[i:end]))...)
	}

	if diff := cmp.Diff(whole, frameOf(split)); diff != "" {
		t.Fatalf("frame bytes differ by chunking (-whole +split):\n%s", diff)
	}
	if len(whole) != MaxPending {
		t.Fatalf("frame length: got %d want %d", len(whole), MaxPending)
	}
}

func TestDecode_EarlyStopKeepsFrames(t *testing.T) {
	d := NewDecoder()
	stream := []byte("\xb0\x46\x7f\n\xb0\x47\x6e\n\xb0\x48\x5c\n")

	for res := range d.Ingest(stream) {
		if res.Update.Digit != '0' {
			t.Fatalf("first result: got %v", res.Update)
		}
		break
	}

	rest := slices.Collect(d.Ingest(nil))
	if len(rest) != 2 {
		t.Fatalf("expected 2 remaining results, got %d", len(rest))
	}
	if rest[0].Update.Digit != '1' || rest[1].Update.Digit != '2' {
		t.Fatalf("remaining results out of order: %v", rest)
	}
}

func TestDecode_ChunkingInvariance(t *testing.T) {
	var stream []byte
	for slot := 0; slot < 9; slot++ {
		for _, d := range []byte("012345678") {
			stream = append(stream, Encode(DrawbarUpdate{Keyboard: Upper, Registration: RegistrationTwo, Slot: slot, Digit: d})...)
		}
	}
	stream = append(stream, Encode(DrawbarUpdate{Keyboard: Lower, Registration: RegistrationOne, Digit: '3'})...)
	stream = append(stream, []byte("\xb0\x46\x05\n\n\xff\xff\xff\n\xb0\x46\n")...)
	stream = append(stream, Encode(DrawbarUpdate{Keyboard: Upper, Registration: RegistrationOne, Slot: 4, Digit: '7'})...)
	stream = append(stream, 0xB0, 0x46) // trailing partial frame

	want := outcomes(decodeChunks(stream))
	if len(want) != 9*9+1+4+1 {
		t.Fatalf("unexpected baseline length %d", len(want))
	}

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		var chunks [][]byte
		for rest := stream; len(rest) > 0; {
			n := 1 + rng.Intn(9)
			if trial%10 == 0 {
				n = 0 // empty chunks are legal too
			}
			if n > len(rest) {
				n = len(rest)
			}
			chunks = append(chunks, rest[:n])
			rest = rest[n:]
			if n == 0 {
				chunks = append(chunks, rest[:1])
				rest = rest[1:]
			}
		}

		got := outcomes(decodeChunks(chunks...))
		if diff := cmp.Diff(want, got, cmpopts.EquateErrors()); diff != "" {
			t.Fatalf("trial %d: chunked decode differs (-whole +chunked):\n%s", trial, diff)
		}
	}
}

func TestDecoder_Reset(t *testing.T) {
	d := NewDecoder()
	_ = slices.Collect(d.Ingest([]byte{0xB0, 0x46}))
	d.Reset()

	got := slices.Collect(d.Ingest([]byte{0x7F, '\n'}))
	if len(got) != 1 || !errors.Is(got[0].Err, ErrMalformedFrame) {
		t.Fatalf("expected one malformed frame after reset, got %v", got)
	}
}
