package store

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/lox/pokercfr/internal/abstraction"
	"github.com/lox/pokercfr/internal/infoset"
)

// binaryMagic/binaryVersion guard against loading a file in the wrong
// format or an incompatible future revision of this schema.
const (
	binaryMagic   uint32 = 0x504b4346 // "PKCF"
	binaryVersion uint16 = 1
)

// WriteBinary writes s in the binary schema of spec.md §4.6 (recommended
// over the text form): for each record, a length-prefixed key, a count n,
// then n (action-tag byte, float64 probability) pairs. Records are written
// in sorted-key order for a deterministic byte stream.
func WriteBinary(w io.Writer, s *Strategy) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, binaryMagic); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, binaryVersion); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(s.Len())); err != nil {
		return err
	}
	for _, key := range s.Keys() {
		rec := s.records[key]
		if err := writeBinaryRecord(bw, rec); err != nil {
			return fmt.Errorf("store: write record %q: %w", key, err)
		}
	}
	return bw.Flush()
}

func writeBinaryRecord(w *bufio.Writer, rec Record) error {
	keyBytes := []byte(rec.Key)
	if err := binary.Write(w, binary.LittleEndian, uint32(len(keyBytes))); err != nil {
		return err
	}
	if _, err := w.Write(keyBytes); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(rec.Actions))); err != nil {
		return err
	}
	for i, a := range rec.Actions {
		if err := w.WriteByte(a.Tag()); err != nil {
			return err
		}
		bits := math.Float64bits(rec.Probabilities[i])
		if err := binary.Write(w, binary.LittleEndian, bits); err != nil {
			return err
		}
	}
	return nil
}

// ReadBinary parses the binary schema written by WriteBinary.
func ReadBinary(r io.Reader) (*Strategy, error) {
	br := bufio.NewReader(r)

	var magic uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("store: read magic: %w", err)
	}
	if magic != binaryMagic {
		return nil, fmt.Errorf("store: not a pokercfr strategy file (bad magic %#x)", magic)
	}
	var version uint16
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("store: read version: %w", err)
	}
	if version != binaryVersion {
		return nil, fmt.Errorf("store: unsupported binary schema version %d", version)
	}
	var count uint32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("store: read record count: %w", err)
	}

	s := New()
	for i := uint32(0); i < count; i++ {
		key, actions, probs, err := readBinaryRecord(br)
		if err != nil {
			return nil, fmt.Errorf("store: record %d: %w", i, err)
		}
		if err := s.Put(key, actions, probs); err != nil {
			return nil, fmt.Errorf("store: record %d: %w", i, err)
		}
	}
	return s, nil
}

func readBinaryRecord(r io.Reader) (infoset.Key, []abstraction.Action, []float64, error) {
	var keyLen uint32
	if err := binary.Read(r, binary.LittleEndian, &keyLen); err != nil {
		return "", nil, nil, fmt.Errorf("read key length: %w", err)
	}
	keyBytes := make([]byte, keyLen)
	if _, err := io.ReadFull(r, keyBytes); err != nil {
		return "", nil, nil, fmt.Errorf("read key bytes: %w", err)
	}

	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", nil, nil, fmt.Errorf("read action count: %w", err)
	}
	actions := make([]abstraction.Action, n)
	probs := make([]float64, n)
	for i := uint32(0); i < n; i++ {
		var tag byte
		if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
			return "", nil, nil, fmt.Errorf("read action tag: %w", err)
		}
		action, err := abstraction.FromTag(tag)
		if err != nil {
			return "", nil, nil, err
		}
		var bits uint64
		if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
			return "", nil, nil, fmt.Errorf("read probability: %w", err)
		}
		actions[i] = action
		probs[i] = math.Float64frombits(bits)
	}
	return infoset.Key(keyBytes), actions, probs, nil
}
