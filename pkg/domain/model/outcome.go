package model

// OutcomeKind classifies the result of a best-effort step
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeRecoverable
	OutcomeFatal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeRecoverable:
		return "recoverable"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is the result of a step that may fail without aborting the run.
// Callers fall through on Recoverable and abort on Fatal.
type Outcome struct {
	Kind OutcomeKind
	Err  error
}

func Ok() Outcome {
	return Outcome{Kind: OutcomeOK}
}

func Recoverable(err error) Outcome {
	return Outcome{Kind: OutcomeRecoverable, Err: err}
}

func Fatal(err error) Outcome {
	return Outcome{Kind: OutcomeFatal, Err: err}
}

func (o Outcome) IsOK() bool {
	return o.Kind == OutcomeOK
}

func (o Outcome) IsFatal() bool {
	return o.Kind == OutcomeFatal
}
