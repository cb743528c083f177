package solver

import "errors"

// Sentinel error kinds (spec §7). Callers wrap these with fmt.Errorf("...:
// %w", ErrX) and compare with errors.Is, the way the teacher's
// TrainingConfig.Validate returns plain errors.New values for a caller to
// wrap and compare — we additionally give each kind a name so errors.Is
// works across package boundaries (cmd/pokercfr, internal/store).
var (
	// ErrConfig is returned for bad CLI/config values or unknown cards.
	ErrConfig = errors.New("config error")

	// ErrIO is returned for strategy-file or checkpoint load/save failures.
	ErrIO = errors.New("io error")

	// ErrEngineProtocol is returned when an engine.Adapter returns
	// inconsistent or illegal data — e.g. a missing call action, or
	// raise.min > raise.max.
	ErrEngineProtocol = errors.New("engine protocol error")

	// ErrAbstraction is returned by the traversal when abstract_actions
	// yields an empty set or an abstract action cannot be made concrete; it
	// aborts training. The runtime agent's uniform fallback for a missing or
	// mismatched stored action set does not produce this error.
	ErrAbstraction = errors.New("abstraction error")

	// ErrNumeric is returned when a NaN or Inf value is found in a terminal
	// payoff or a node value during traversal. Fatal: training halts and the
	// last good checkpoint is retained.
	ErrNumeric = errors.New("numeric error")
)
