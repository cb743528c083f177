package store

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/lox/pokercfr/internal/fileutil"
)

// SaveText atomically writes s to path in the text schema (spec §6). Kept
// for backward-compatibility reads, per spec.md §9's note that the text form
// "SHOULD be migrated to the binary schema" — SaveBinary is the one the CLI
// uses by default.
func SaveText(s *Strategy, path string) error {
	data, err := FormatText(s)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

// LoadText reads a strategy file in the text schema.
func LoadText(path string) (*Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadText(bytes.NewReader(data))
}

// SaveBinary atomically writes s to path in the binary schema (spec §4.6),
// the schema "implementations SHOULD adopt" per spec.md §6.
func SaveBinary(s *Strategy, path string) error {
	var buf bytes.Buffer
	if err := WriteBinary(&buf, s); err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// LoadBinary reads a strategy file in the binary schema.
func LoadBinary(path string) (*Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadBinary(bytes.NewReader(data))
}

// Save picks the binary or text schema by the file extension (".txt" for
// text, anything else for binary), so cmd/pokercfr's --save/--strategy flags
// don't need a separate format flag.
func Save(s *Strategy, path string) error {
	if strings.HasSuffix(path, ".txt") {
		return SaveText(s, path)
	}
	return SaveBinary(s, path)
}

// Load is the inverse of Save.
func Load(path string) (*Strategy, error) {
	if strings.HasSuffix(path, ".txt") {
		return LoadText(path)
	}
	return LoadBinary(path)
}
