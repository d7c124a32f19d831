// Package input turns command line and file payloads into bytes.
package input

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/golang/snappy"

	"github.com/pnsafonov/bitread/internal/config"
	"github.com/pnsafonov/bitread/pkg/errors"
)

// Decode decodes a payload in encoding and then decompresses it.
func Decode(payload []byte, encoding string, decompress string) ([]byte, error) {
	switch encoding {
	case "", config.EncodingHex, config.EncodingBase64, config.EncodingRaw:
	default:
		return nil, errors.New(errors.PhaseParse, errors.KindUnsupported).
			Detail("input encoding %q", encoding).
			Build()
	}

	b, err := decodeEncoding(payload, encoding)
	if err != nil {
		return nil, errors.ParseFailed(encoding+" payload", err)
	}

	switch decompress {
	case "", config.DecompressNone:
		return b, nil
	case config.DecompressSnappy:
		d, err := snappy.Decode(nil, b)
		if err != nil {
			return nil, errors.ParseFailed("snappy payload", err)
		}
		return d, nil
	default:
		return nil, errors.New(errors.PhaseParse, errors.KindUnsupported).
			Detail("decompress %q", decompress).
			Build()
	}
}

func decodeEncoding(payload []byte, encoding string) ([]byte, error) {
	switch encoding {
	case config.EncodingRaw:
		return payload, nil
	case config.EncodingBase64:
		s := strings.Join(strings.Fields(string(payload)), "")
		if strings.HasSuffix(s, "=") {
			return base64.StdEncoding.DecodeString(s)
		}
		return base64.RawStdEncoding.DecodeString(s)
	default:
		s := strings.Join(strings.Fields(string(payload)), "")
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		return hex.DecodeString(s)
	}
}
