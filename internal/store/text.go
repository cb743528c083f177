package store

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lox/pokercfr/internal/abstraction"
	"github.com/lox/pokercfr/internal/infoset"
)

// WriteText writes s in the text schema of spec.md §6:
//
//	RECORD  := KEY ", " "defaultdict(<class 'int'>, " MAP ")" LF
//	KEY     := <canonical info-set key bytes, no commas>
//	MAP     := "{" (ENTRY (", " ENTRY)*)? "}"
//	ENTRY   := ACTION ": " FLOAT
//	ACTION  := "'f'" | "'c'" | "'a'" | FLOAT_FRACTION
//
// Records are written in sorted-key order so that WriteText(ReadText(b)) is
// byte-identical to b (spec §8 "Text round-trip").
func WriteText(w io.Writer, s *Strategy) error {
	bw := bufio.NewWriter(w)
	for _, key := range s.Keys() {
		rec := s.records[key]
		if err := writeTextRecord(bw, rec); err != nil {
			return fmt.Errorf("store: write record %q: %w", key, err)
		}
	}
	return bw.Flush()
}

func writeTextRecord(w *bufio.Writer, rec Record) error {
	if _, err := w.WriteString(string(rec.Key)); err != nil {
		return err
	}
	if _, err := w.WriteString(", defaultdict(<class 'int'>, {"); err != nil {
		return err
	}
	for i, a := range rec.Actions {
		if i > 0 {
			if _, err := w.WriteString(", "); err != nil {
				return err
			}
		}
		entry := fmt.Sprintf("%s: %s", actionToken(a), strconv.FormatFloat(rec.Probabilities[i], 'g', -1, 64))
		if _, err := w.WriteString(entry); err != nil {
			return err
		}
	}
	_, err := w.WriteString("})\n")
	return err
}

// actionToken renders an action the way the text grammar's ACTION production
// expects: the bare fraction for PotFraction, a single-quoted letter
// otherwise.
func actionToken(a abstraction.Action) string {
	switch a.Kind {
	case abstraction.PotFraction:
		return a.String()
	default:
		return "'" + a.String() + "'"
	}
}

// ReadText parses the text schema written by WriteText. Parsing is
// order-independent (spec §4.6 "Load is order-independent").
func ReadText(r io.Reader) (*Strategy, error) {
	s := New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		key, actions, probs, err := parseTextRecord(text)
		if err != nil {
			return nil, fmt.Errorf("store: line %d: %w", line, err)
		}
		if err := s.Put(key, actions, probs); err != nil {
			return nil, fmt.Errorf("store: line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return s, nil
}

const (
	mapPrefix = ", defaultdict(<class 'int'>, {"
	mapSuffix = "})"
)

func parseTextRecord(line string) (infoset.Key, []abstraction.Action, []float64, error) {
	idx := strings.Index(line, mapPrefix)
	if idx < 0 {
		return "", nil, nil, fmt.Errorf("missing map prefix %q", mapPrefix)
	}
	keyPart := line[:idx]
	if strings.Contains(keyPart, ",") {
		return "", nil, nil, fmt.Errorf("key %q contains a comma", keyPart)
	}
	rest := line[idx+len(mapPrefix):]
	if !strings.HasSuffix(rest, mapSuffix) {
		return "", nil, nil, fmt.Errorf("missing map suffix %q", mapSuffix)
	}
	body := rest[:len(rest)-len(mapSuffix)]

	var actions []abstraction.Action
	var probs []float64
	if strings.TrimSpace(body) != "" {
		for _, entry := range strings.Split(body, ", ") {
			action, prob, err := parseTextEntry(entry)
			if err != nil {
				return "", nil, nil, err
			}
			actions = append(actions, action)
			probs = append(probs, prob)
		}
	}
	return infoset.Key(keyPart), actions, probs, nil
}

func parseTextEntry(entry string) (abstraction.Action, float64, error) {
	parts := strings.SplitN(entry, ": ", 2)
	if len(parts) != 2 {
		return abstraction.Action{}, 0, fmt.Errorf("malformed entry %q", entry)
	}
	action, err := parseActionToken(parts[0])
	if err != nil {
		return abstraction.Action{}, 0, err
	}
	prob, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return abstraction.Action{}, 0, fmt.Errorf("malformed probability in entry %q: %w", entry, err)
	}
	return action, prob, nil
}

func parseActionToken(token string) (abstraction.Action, error) {
	if strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") && len(token) == 3 {
		switch token[1] {
		case 'f':
			return abstraction.Action{Kind: abstraction.Fold}, nil
		case 'c':
			return abstraction.Action{Kind: abstraction.Call}, nil
		case 'a':
			return abstraction.Action{Kind: abstraction.AllIn}, nil
		default:
			return abstraction.Action{}, fmt.Errorf("unknown action letter %q", token)
		}
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return abstraction.Action{}, fmt.Errorf("unrecognized action token %q", token)
	}
	return abstraction.Action{Kind: abstraction.PotFraction, Fraction: f}, nil
}

// FormatText is a convenience wrapper returning the text encoding as bytes.
func FormatText(s *Strategy) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteText(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
