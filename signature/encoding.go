package signature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Load decodes signatures from r. Both a single JSON object and a JSON array
// of objects are accepted, optionally gzip compressed.
func Load(r io.Reader) ([]*Signature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// Save writes sigs to w as a single-line JSON array with no trailing newline.
func Save(w io.Writer, sigs []*Signature) error {
	if sigs == nil {
		sigs = []*Signature{}
	}
	data, err := json.Marshal(sigs)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// SaveCompressed writes sigs like Save through a gzip stream at level.
func SaveCompressed(w io.Writer, sigs []*Signature, level int) error {
	zw, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return err
	}
	if err = Save(zw, sigs); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Marshal encodes a single signature in the array layout used by Save.
func Marshal(sig *Signature) ([]byte, error) {
	if sig == nil {
		return nil, fmt.Errorf("%w: nil signature", ErrInvalidSignature)
	}
	return json.Marshal([]*Signature{sig})
}

// Unmarshal decodes exactly one signature.
func Unmarshal(data []byte) (*Signature, error) {
	sigs, err := decode(data)
	if err != nil {
		return nil, err
	}
	if len(sigs) != 1 {
		return nil, fmt.Errorf("%w: expected 1 signature, got %d", ErrInvalidSignature, len(sigs))
	}
	return sigs[0], nil
}

func gunzip(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, gzipMagic) {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return out, nil
}

func decode(data []byte) ([]*Signature, error) {
	data, err := gunzip(data)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidSignature)
	}
	if data[0] != '[' {
		sig := &Signature{}
		if err := json.Unmarshal(data, sig); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		return []*Signature{sig}, nil
	}
	var sigs []*Signature
	if err := json.Unmarshal(data, &sigs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	for i, sig := range sigs {
		if sig == nil {
			return nil, fmt.Errorf("%w: null entry at %d", ErrInvalidSignature, i)
		}
	}
	return sigs, nil
}
