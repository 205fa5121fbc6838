package utils

import "errors"

// Error classes. Every specific error below unwraps to exactly one of these,
// so callers can decide between fixing the input data and treating the
// system as unsolvable:
//
//	if errors.Is(err, utils.ErrConfiguration) { ... }
var (
	ErrConfiguration = errors.New("configuration error")
	ErrNumerical     = errors.New("numerical error")
)

var (
	ErrInvalidSectionParameters = classified(ErrConfiguration, "invalid section parameters")
	ErrUnsupportedSection       = classified(ErrConfiguration, "unsupported section type")
	ErrInvalidMaterial          = classified(ErrConfiguration, "invalid material")
	ErrInvalidTopology          = classified(ErrConfiguration, "invalid topology")
	ErrArityMismatch            = classified(ErrConfiguration, "mismatched node coordinate arity")
	ErrUnsupportedElement       = classified(ErrConfiguration, "unsupported element kind")
	ErrDegenerateGeometry       = classified(ErrConfiguration, "degenerate element geometry")
	ErrInvalidOption            = classified(ErrConfiguration, "invalid element option")

	ErrIllPosed     = classified(ErrNumerical, "ill-posed system")
	ErrNotConverged = classified(ErrNumerical, "solver did not converge")
)

type classError struct {
	msg   string
	class error
}

func classified(class error, msg string) error {
	return &classError{msg: msg, class: class}
}

func (e *classError) Error() string { return e.msg }

func (e *classError) Unwrap() error { return e.class }
