package schema

import (
	"strings"

	"github.com/Dan9191/debt-terms/internal/ethaddr"
	"github.com/Dan9191/debt-terms/internal/terms"
)

const loanOrderSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["principalAmount", "principalTokenSymbol", "interestRate", "amortizationUnit", "termLength"],
  "properties": {
    "principalAmount": {
      "anyOf": [
        { "type": "string", "pattern": "^[1-9][0-9]*$" },
        { "type": "integer", "minimum": 1 }
      ]
    },
    "principalTokenSymbol": { "type": "string", "pattern": "^[A-Z0-9]{1,12}$" },
    "interestRate": {
      "anyOf": [
        { "type": "string", "pattern": "^[0-9]+(\\.[0-9]+)?$" },
        { "type": "number", "minimum": 0 }
      ]
    },
    "amortizationUnit": { "type": "string", "enum": ["hours", "days", "weeks", "months", "years"] },
    "termLength": { "type": "integer", "minimum": 1 }
  }
}`

const termsSpecifiedDebtOrderSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["principalAmount", "principalToken", "termsContract", "termsContractParameters"],
  "properties": {
    "principalAmount": {
      "anyOf": [
        { "type": "string", "pattern": "^[1-9][0-9]*$" },
        { "type": "integer", "minimum": 1 }
      ]
    },
    "principalToken": { "type": "string", "pattern": "ADDRESS" },
    "termsContract": { "type": "string", "pattern": "ADDRESS" },
    "termsContractParameters": { "type": "string", "pattern": "WORD" }
  }
}`

const debtRegistryEntrySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["agreementId", "termsContract", "termsContractParameters", "issuanceBlockTimestamp"],
  "properties": {
    "agreementId": { "type": "string", "pattern": "WORD" },
    "termsContract": { "type": "string", "pattern": "ADDRESS" },
    "termsContractParameters": { "type": "string", "pattern": "WORD" },
    "issuanceBlockTimestamp": { "type": "integer", "minimum": 0 },
    "contactEmail": { "type": "string", "format": "email" }
  }
}`

var patterns = strings.NewReplacer(`"ADDRESS"`, `"`+ethaddr.Pattern+`"`, `"WORD"`, `"`+terms.Pattern+`"`)

var (
	// LoanOrder accepts a complete simple interest loan order.
	LoanOrder = MustCompile("loan order", loanOrderSchema,
		"principalAmount", "principalTokenSymbol", "interestRate", "amortizationUnit", "termLength")

	// TermsSpecifiedDebtOrder accepts a debt order whose principal and terms
	// contract fields are all present.
	TermsSpecifiedDebtOrder = MustCompile("debt order", patterns.Replace(termsSpecifiedDebtOrderSchema),
		"principalAmount", "principalToken", "termsContract", "termsContractParameters")

	// DebtRegistryEntry accepts an issued agreement submitted for tracking.
	DebtRegistryEntry = MustCompile("debt registry entry", patterns.Replace(debtRegistryEntrySchema),
		"agreementId", "termsContract", "termsContractParameters", "issuanceBlockTimestamp", "contactEmail")
)
