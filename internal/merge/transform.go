package merge

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/iudanet/prefkeeper/internal/crypto"
)

// ZstdTransform сжимает данные zstd. Энкодер и декодер создаются один раз
// и используются конкурентно через EncodeAll/DecodeAll.
type ZstdTransform struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstdTransform создает zstd-трансформацию с уровнем сжатия по умолчанию.
func NewZstdTransform() (*ZstdTransform, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &ZstdTransform{encoder: encoder, decoder: decoder}, nil
}

// Encode implements Transform.
func (z *ZstdTransform) Encode(data []byte) ([]byte, error) {
	return z.encoder.EncodeAll(data, make([]byte, 0, len(data))), nil
}

// Decode implements Transform.
func (z *ZstdTransform) Decode(data []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress zstd: %w", err)
	}
	return out, nil
}

// DecodeLimit распаковывает data потоково и прерывается, как только
// результат превышает limit байт. Память ограничена limit плюс окно zstd.
func (z *ZstdTransform) DecodeLimit(data []byte, limit int) ([]byte, error) {
	decoder, err := zstd.NewReader(bytes.NewReader(data),
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer decoder.Close()

	out, err := io.ReadAll(io.LimitReader(decoder, int64(limit)+1))
	if err != nil {
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
			return nil, fmt.Errorf("%w: decompressed size exceeds %d bytes", ErrTooLarge, limit)
		}
		return nil, fmt.Errorf("failed to decompress zstd: %w", err)
	}
	if len(out) > limit {
		return nil, fmt.Errorf("%w: decompressed size exceeds %d bytes", ErrTooLarge, limit)
	}
	return out, nil
}

// Close освобождает ресурсы декодера.
func (z *ZstdTransform) Close() {
	z.decoder.Close()
}

// SealTransform шифрует данные ключом, выведенным из парольной фразы.
type SealTransform struct {
	sealer *crypto.Sealer
}

// NewSealTransform создает трансформацию шифрования.
func NewSealTransform(sealer *crypto.Sealer) *SealTransform {
	return &SealTransform{sealer: sealer}
}

// Encode implements Transform.
func (s *SealTransform) Encode(data []byte) ([]byte, error) {
	return s.sealer.Seal(data)
}

// Decode implements Transform.
func (s *SealTransform) Decode(data []byte) ([]byte, error) {
	return s.sealer.Open(data)
}
