package store

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/lox/pokercfr/internal/abstraction"
	"github.com/lox/pokercfr/internal/infoset"
	"github.com/stretchr/testify/require"
)

func sampleStrategy(t *testing.T) *Strategy {
	t.Helper()
	s := New()
	require.NoError(t, s.Put(infoset.Key("key-a"),
		[]abstraction.Action{{Kind: abstraction.Fold}, {Kind: abstraction.Call}, {Kind: abstraction.AllIn}},
		[]float64{0.2, 0.3, 0.5}))
	require.NoError(t, s.Put(infoset.Key("key-b"),
		[]abstraction.Action{{Kind: abstraction.Call}, {Kind: abstraction.PotFraction, Fraction: 0.5}},
		[]float64{0.6, 0.4}))
	return s
}

func TestPutRejectsMismatchedLengths(t *testing.T) {
	t.Parallel()
	s := New()
	err := s.Put(infoset.Key("k"), []abstraction.Action{{Kind: abstraction.Fold}}, []float64{0.5, 0.5})
	require.Error(t, err)
}

func TestPutRejectsBadProbabilitySum(t *testing.T) {
	t.Parallel()
	s := New()
	err := s.Put(infoset.Key("k"), []abstraction.Action{{Kind: abstraction.Fold}, {Kind: abstraction.Call}}, []float64{0.2, 0.2})
	require.Error(t, err)
}

func TestPutAcceptsSumWithinTolerance(t *testing.T) {
	t.Parallel()
	s := New()
	err := s.Put(infoset.Key("k"), []abstraction.Action{{Kind: abstraction.Fold}, {Kind: abstraction.Call}}, []float64{0.5, 0.5 + 5e-7})
	require.NoError(t, err)
}

func TestTextRoundTripIsByteIdenticalAfterSortingKeys(t *testing.T) {
	t.Parallel()
	s := sampleStrategy(t)

	data, err := FormatText(s)
	require.NoError(t, err)

	parsed, err := ReadText(bytes.NewReader(data))
	require.NoError(t, err)

	data2, err := FormatText(parsed)
	require.NoError(t, err)

	require.Equal(t, data, data2)
}

func TestTextRecordGrammarMatchesSpec(t *testing.T) {
	t.Parallel()
	s := New()
	require.NoError(t, s.Put(infoset.Key("H00|B|S0"), []abstraction.Action{{Kind: abstraction.Fold}, {Kind: abstraction.Call}}, []float64{0.4, 0.6}))

	data, err := FormatText(s)
	require.NoError(t, err)
	require.Equal(t, "H00|B|S0, defaultdict(<class 'int'>, {'f': 0.4, 'c': 0.6})\n", string(data))
}

func TestTextParseRejectsKeyWithComma(t *testing.T) {
	t.Parallel()
	_, err := ReadText(bytes.NewReader([]byte("bad,key, defaultdict(<class 'int'>, {'f': 1})\n")))
	require.Error(t, err)
}

func TestBinaryRoundTrip(t *testing.T) {
	t.Parallel()
	s := sampleStrategy(t)

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, s))

	parsed, err := ReadBinary(&buf)
	require.NoError(t, err)
	require.Equal(t, s.Len(), parsed.Len())

	for _, key := range s.Keys() {
		want, _ := s.Lookup(key)
		got, ok := parsed.Lookup(key)
		require.True(t, ok)
		require.Equal(t, want.Actions, got.Actions)
		require.Equal(t, want.Probabilities, got.Probabilities)
	}
}

func TestBinaryRejectsBadMagic(t *testing.T) {
	t.Parallel()
	_, err := ReadBinary(bytes.NewReader([]byte{0, 0, 0, 0}))
	require.Error(t, err)
}

func TestSaveLoadDispatchesOnExtension(t *testing.T) {
	t.Parallel()
	s := sampleStrategy(t)
	dir := t.TempDir()

	textPath := filepath.Join(dir, "strategy.txt")
	require.NoError(t, Save(s, textPath))
	loadedText, err := Load(textPath)
	require.NoError(t, err)
	require.Equal(t, s.Len(), loadedText.Len())

	binPath := filepath.Join(dir, "strategy.bin")
	require.NoError(t, Save(s, binPath))
	loadedBin, err := Load(binPath)
	require.NoError(t, err)
	require.Equal(t, s.Len(), loadedBin.Len())
}

func TestLoadMissingFileErrors(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
}

func TestKeysAreSorted(t *testing.T) {
	t.Parallel()
	s := sampleStrategy(t)
	keys := s.Keys()
	require.Len(t, keys, 2)
	require.True(t, keys[0] < keys[1])
}
