package apperr

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Schema errors
	CodeDoesNotConformToSchema Code = "DOES_NOT_CONFORM_TO_SCHEMA"
	CodeNotAWholeNumber        Code = "NOT_A_WHOLE_NUMBER"

	// Range errors
	CodeInvalidTokenIndex             Code = "INVALID_TOKEN_INDEX"
	CodeInvalidExpectedRepaymentValue Code = "INVALID_EXPECTED_REPAYMENT_VALUE"
	CodeInvalidTermLength             Code = "INVALID_TERM_LENGTH"

	// Enumeration errors
	CodeInvalidAmortizationUnitType Code = "INVALID_AMORTIZATION_UNIT_TYPE"

	// Format errors
	CodeInvalidPackedParameters Code = "INVALID_PACKED_PARAMETERS"

	// Cross-reference errors
	CodeMismatchedTokenSymbol Code = "MISMATCHED_TOKEN_SYMBOL"

	// Lookup errors
	CodeTokenNotFound    Code = "TOKEN_NOT_FOUND"
	CodeContractNotFound Code = "CONTRACT_NOT_FOUND"
	CodeEntryNotFound    Code = "ENTRY_NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// BadRequest - input that never matched the expected shape
	case CodeDoesNotConformToSchema,
		CodeNotAWholeNumber,
		CodeInvalidPackedParameters:
		return http.StatusBadRequest

	// UnprocessableEntity - well-formed input that cannot be encoded or decoded
	case CodeInvalidTokenIndex,
		CodeInvalidExpectedRepaymentValue,
		CodeInvalidTermLength,
		CodeInvalidAmortizationUnitType,
		CodeMismatchedTokenSymbol:
		return http.StatusUnprocessableEntity

	// NotFound - registry or storage lookups
	case CodeTokenNotFound,
		CodeContractNotFound,
		CodeEntryNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
