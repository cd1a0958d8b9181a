package models

import "github.com/shopspring/decimal"

// NullAddress is the zero address used for unset order parties.
const NullAddress = "0x0000000000000000000000000000000000000000"

// NullBytes32 is the zero 32-byte value used for unset salts and parameters.
const NullBytes32 = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Signature is an ECDSA signature over a debt order hash.
type Signature struct {
	R string `json:"r"`
	S string `json:"s"`
	V uint8  `json:"v"`
}

// NullSignature is the placeholder for an unsigned party.
var NullSignature = Signature{R: NullBytes32, S: NullBytes32, V: 0}

// DebtOrder is the protocol-wide record submitted to the debt kernel.
type DebtOrder struct {
	KernelVersion           string          `json:"kernelVersion,omitempty"`
	IssuanceVersion         string          `json:"issuanceVersion,omitempty"`
	PrincipalAmount         decimal.Decimal `json:"principalAmount"`
	PrincipalToken          string          `json:"principalToken,omitempty"`
	TermsContract           string          `json:"termsContract,omitempty"`
	TermsContractParameters string          `json:"termsContractParameters,omitempty"`

	Debtor                   string          `json:"debtor,omitempty"`
	DebtorFee                decimal.Decimal `json:"debtorFee"`
	Creditor                 string          `json:"creditor,omitempty"`
	CreditorFee              decimal.Decimal `json:"creditorFee"`
	Relayer                  string          `json:"relayer,omitempty"`
	RelayerFee               decimal.Decimal `json:"relayerFee"`
	Underwriter              string          `json:"underwriter,omitempty"`
	UnderwriterFee           decimal.Decimal `json:"underwriterFee"`
	UnderwriterRiskRating    decimal.Decimal `json:"underwriterRiskRating"`
	ExpirationTimestampInSec int64           `json:"expirationTimestampInSec"`
	Salt                     decimal.Decimal `json:"salt"`
	DebtorSignature          Signature       `json:"debtorSignature"`
	CreditorSignature        Signature       `json:"creditorSignature"`
	UnderwriterSignature     Signature       `json:"underwriterSignature"`
}

// DefaultDebtOrder returns an order with every protocol-wide field at its
// default. Callers overwrite the fields they own.
func DefaultDebtOrder() DebtOrder {
	return DebtOrder{
		KernelVersion:           NullAddress,
		IssuanceVersion:         NullAddress,
		PrincipalAmount:         decimal.Zero,
		PrincipalToken:          NullAddress,
		TermsContract:           NullAddress,
		TermsContractParameters: NullBytes32,
		Debtor:                  NullAddress,
		DebtorFee:               decimal.Zero,
		Creditor:                NullAddress,
		CreditorFee:             decimal.Zero,
		Relayer:                 NullAddress,
		RelayerFee:              decimal.Zero,
		Underwriter:             NullAddress,
		UnderwriterFee:          decimal.Zero,
		UnderwriterRiskRating:   decimal.Zero,
		Salt:                    decimal.Zero,
		DebtorSignature:         NullSignature,
		CreditorSignature:       NullSignature,
		UnderwriterSignature:    NullSignature,
	}
}
