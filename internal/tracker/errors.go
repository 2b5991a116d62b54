package tracker

import "codeberg.org/pmokit/aitrackd/internal/errors"

const (
	// Validation errors
	ErrEmptyToolName      = errors.ErrorCode("tracker_empty_tool_name")
	ErrEmptyKPIName       = errors.ErrorCode("tracker_empty_kpi_name")
	ErrNegativeInvestment = errors.ErrorCode("tracker_negative_investment")

	// Lookup errors
	ErrToolNotFound = errors.ErrorCode("tracker_tool_not_found")
	ErrKPINotFound  = errors.ErrorCode("tracker_kpi_not_found")
)

// IsValidation reports whether err rejects caller-supplied input. The
// presentation layer surfaces these as user-visible messages; the store is
// left unchanged.
func IsValidation(err error) bool {
	switch errors.CodeOf(err) {
	case ErrEmptyToolName, ErrEmptyKPIName, ErrNegativeInvestment:
		return true
	default:
		return false
	}
}

// IsNotFound reports whether err references a tool or KPI absent from the
// store.
func IsNotFound(err error) bool {
	switch errors.CodeOf(err) {
	case ErrToolNotFound, ErrKPINotFound:
		return true
	default:
		return false
	}
}
