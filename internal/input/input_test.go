package input_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/golang/snappy"

	"github.com/pnsafonov/bitread/internal/input"
	bitreaderrors "github.com/pnsafonov/bitread/pkg/errors"
)

var payload = []byte{0xE8, 0x25, 0xF4, 0x9B, 0x9E, 0x87, 0x2B, 0x6A, 0x99, 0x2A, 0xAB}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name       string
		in         []byte
		encoding   string
		decompress string
	}{
		{"hex", []byte("E825F49B9E872B6A992AAB"), "hex", ""},
		{"hex lower prefix spaces", []byte("0xe825f49b 9e872b6a\n992aab\n"), "hex", "none"},
		{"hex default", []byte("e825f49b9e872b6a992aab"), "", ""},
		{"base64", []byte("6CX0m56HK2qZKqs="), "base64", ""},
		{"base64 unpadded", []byte("6CX0m56HK2qZKqs"), "base64", ""},
		{"raw", payload, "raw", ""},
		{"raw snappy", snappy.Encode(nil, payload), "raw", "snappy"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			actual, err := input.Decode(tc.in, tc.encoding, tc.decompress)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(payload, actual) {
				t.Errorf("expected % x, got % x", payload, actual)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name       string
		in         string
		encoding   string
		decompress string
		kind       bitreaderrors.Kind
	}{
		{"odd hex", "e82", "hex", "", bitreaderrors.KindInvalidInput},
		{"bad hex", "zz", "hex", "", bitreaderrors.KindInvalidInput},
		{"bad base64", "!!!!", "base64", "", bitreaderrors.KindInvalidInput},
		{"bad snappy", "ff", "hex", "snappy", bitreaderrors.KindInvalidInput},
		{"unknown encoding", "e8", "base32", "", bitreaderrors.KindUnsupported},
		{"unknown decompress", "e8", "hex", "gzip", bitreaderrors.KindUnsupported},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := input.Decode([]byte(tc.in), tc.encoding, tc.decompress)
			if !errors.Is(err, &bitreaderrors.Error{Kind: tc.kind}) {
				t.Errorf("expected %s, got %v", tc.kind, err)
			}
		})
	}
}
