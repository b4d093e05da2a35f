package capture

import (
	"encoding/binary"
	"errors"
)

var startCode = []byte{0, 0, 0, 1}

var errShortRecord = errors.New("avc: short decoder configuration record")

// parameterSets extracts SPS and PPS from an AVCDecoderConfigurationRecord
// as Annex-B.
func parameterSets(record []byte) ([]byte, error) {
	if len(record) < 7 {
		return nil, errShortRecord
	}
	var out []byte
	pos := 5
	numSPS := int(record[pos] & 0x1f)
	pos++
	for i := 0; i < numSPS; i++ {
		nalu, next, err := readSized(record, pos)
		if err != nil {
			return nil, err
		}
		out = append(append(out, startCode...), nalu...)
		pos = next
	}
	if pos >= len(record) {
		return nil, errShortRecord
	}
	numPPS := int(record[pos])
	pos++
	for i := 0; i < numPPS; i++ {
		nalu, next, err := readSized(record, pos)
		if err != nil {
			return nil, err
		}
		out = append(append(out, startCode...), nalu...)
		pos = next
	}
	return out, nil
}

func readSized(b []byte, pos int) ([]byte, int, error) {
	if pos+2 > len(b) {
		return nil, 0, errShortRecord
	}
	n := int(binary.BigEndian.Uint16(b[pos:]))
	pos += 2
	if pos+n > len(b) {
		return nil, 0, errShortRecord
	}
	return b[pos : pos+n], pos + n, nil
}

// annexB rewrites 4-byte length prefixed NAL units with start codes.
func annexB(avcc []byte) ([]byte, error) {
	out := make([]byte, 0, len(avcc)+16)
	for pos := 0; pos < len(avcc); {
		if pos+4 > len(avcc) {
			return nil, errors.New("avc: truncated nalu length")
		}
		n := int(binary.BigEndian.Uint32(avcc[pos:]))
		pos += 4
		if n < 0 || pos+n > len(avcc) {
			return nil, errors.New("avc: nalu overruns payload")
		}
		out = append(append(out, startCode...), avcc[pos:pos+n]...)
		pos += n
	}
	return out, nil
}
