// Package codec compresses signature payloads stored at rest.
package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	initOnce sync.Once
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
	initErr  error
)

func setup() error {
	initOnce.Do(func() {
		encoder, initErr = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithLowerEncoderMem(true))
		if initErr != nil {
			return
		}
		decoder, initErr = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	})
	return initErr
}

// Compress returns the zstd frame for src.
func Compress(src []byte) ([]byte, error) {
	if err := setup(); err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	return encoder.EncodeAll(src, nil), nil
}

// Decompress reverses Compress.
func Decompress(src []byte) ([]byte, error) {
	if err := setup(); err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	out, err := decoder.DecodeAll(src, nil)
	if err != nil {
		return nil, fmt.Errorf("codec: decompress: %w", err)
	}
	return out, nil
}
