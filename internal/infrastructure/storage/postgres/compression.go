package postgres

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// CompressionAlgo specifies the compression algorithm used for a payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the payload size above which payloads are compressed.
const DefaultCompressThreshold = 10 * 1024

// payloadCompressor compresses large payloads with zstd.
type payloadCompressor struct {
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int
}

func newPayloadCompressor(threshold int) (*payloadCompressor, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}

	return &payloadCompressor{
		encoder:   encoder,
		decoder:   decoder,
		threshold: threshold,
	}, nil
}

// compress returns the payload to store and the algorithm it was stored with.
func (c *payloadCompressor) compress(payload []byte) ([]byte, CompressionAlgo) {
	if len(payload) <= c.threshold {
		return payload, CompressionNone
	}
	return c.encoder.EncodeAll(payload, nil), CompressionZstd
}

func (c *payloadCompressor) decompress(payload []byte, algo CompressionAlgo) ([]byte, error) {
	switch algo {
	case CompressionNone, "":
		return payload, nil
	case CompressionZstd:
		out, err := c.decoder.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress payload: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown compression %q", algo)
	}
}
