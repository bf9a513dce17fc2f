package cpower

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func TestEncode_TimeQuery(t *testing.T) {
	got := hex.EncodeToString(Encode(0x01, []byte{0x47, 0x01, 0x01}))
	expect := "ffffffff07000000683201470101"
	if got != expect {
		t.Fatalf("frame mismatch:\n got: %s\nwant: %s", got, expect)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for n := 0; n <= 64; n++ {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(i*7 + n)
		}
		cardID := uint8(n % 256)

		f, err := Decode(Encode(cardID, payload))
		if err != nil {
			t.Fatalf("len=%d decode err: %v", n, err)
		}
		if f.CardID != cardID {
			t.Fatalf("len=%d card id: got %d want %d", n, f.CardID, cardID)
		}
		if !bytes.Equal(f.Payload, payload) {
			t.Fatalf("len=%d payload mismatch: %x vs %x", n, f.Payload, payload)
		}
		if f.DataLength != uint16(4+n) {
			t.Fatalf("len=%d data length: %d", n, f.DataLength)
		}
		if f.PacketType != PacketTypeRequest || f.CardType != CardTypeCPower || f.Sentinel != 0xFFFFFFFF {
			t.Fatalf("len=%d header fields: %+v", n, f)
		}
		if f.IsResponse() {
			t.Fatalf("outbound frame must not be a response")
		}
	}
}

func TestDecode_TooShort(t *testing.T) {
	full := Encode(0x01, nil)
	for n := 0; n < HeaderLen; n++ {
		if _, err := Decode(full[:n]); !errors.Is(err, ErrFormat) {
			t.Fatalf("len=%d expect ErrFormat, got %v", n, err)
		}
	}
}

func TestDecode_Response(t *testing.T) {
	raw := []byte{0xff, 0xff, 0xff, 0xff, 0x06, 0x00, 0x00, 0x00, 0xE8, 0x32, 0x05, 0x4B, 0x00}
	f, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !f.IsResponse() {
		t.Fatalf("expect response frame")
	}
	if f.CardID != 0x05 || !bytes.Equal(f.Payload, []byte{0x4B, 0x00}) {
		t.Fatalf("unexpected frame: %+v", f)
	}
}

func TestDecode_HeaderOnlyHasEmptyPayload(t *testing.T) {
	f, err := Decode(Encode(0x02, nil))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if f.Payload == nil || len(f.Payload) != 0 {
		t.Fatalf("expect empty payload, got %v", f.Payload)
	}
}
