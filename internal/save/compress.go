package save

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// IsCompressed reports whether data starts with a zstd frame.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Compress wraps data in a zstd frame.
func Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
	}
	return out, nil
}

// WriteFile exports s to path as zstd-compressed JSON.
func WriteFile(path string, s Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	bw := bufio.NewWriter(enc)
	if _, err := bw.Write(data); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish export: %w", err)
	}
	return nil
}

// ReadFile imports a snapshot written by WriteFile. Plain JSON files are
// accepted too.
func ReadFile(path string) (Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	if !IsCompressed(raw) {
		return Decode(raw)
	}
	dec, err := zstd.NewReader(bytes.NewReader(raw))
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()
	data, err := io.ReadAll(bufio.NewReader(dec))
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to decompress snapshot: %w", err)
	}
	return Decode(data)
}
