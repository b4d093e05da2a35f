package capture

import (
	"bytes"
	"testing"
)

func TestParameterSets(t *testing.T) {
	sps := []byte{0x67, 0x42, 0xc0, 0x1e}
	pps := []byte{0x68, 0xce, 0x3c, 0x80}
	record := []byte{0x01, 0x42, 0xc0, 0x1e, 0xff, 0xe1, 0x00, byte(len(sps))}
	record = append(record, sps...)
	record = append(record, 0x01, 0x00, byte(len(pps)))
	record = append(record, pps...)

	got, err := parameterSets(record)
	if err != nil {
		t.Fatalf("parameterSets: %v", err)
	}
	want := append(append(append([]byte{0, 0, 0, 1}, sps...), 0, 0, 0, 1), pps...)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestParameterSetsShort(t *testing.T) {
	for _, rec := range [][]byte{
		nil,
		{0x01, 0x42, 0xc0},
		{0x01, 0x42, 0xc0, 0x1e, 0xff, 0xe1, 0x00, 0x09, 0x67},
	} {
		if _, err := parameterSets(rec); err == nil {
			t.Fatalf("expected error for %x", rec)
		}
	}
}

func TestAnnexB(t *testing.T) {
	avcc := []byte{0, 0, 0, 2, 0x65, 0x88, 0, 0, 0, 1, 0x06}
	got, err := annexB(avcc)
	if err != nil {
		t.Fatalf("annexB: %v", err)
	}
	want := []byte{0, 0, 0, 1, 0x65, 0x88, 0, 0, 0, 1, 0x06}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}

	if _, err := annexB([]byte{0, 0, 0, 9, 0x65}); err == nil {
		t.Fatal("expected overrun error")
	}
	if _, err := annexB([]byte{0, 0}); err == nil {
		t.Fatal("expected truncation error")
	}
}
