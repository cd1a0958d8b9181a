package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtRegistryEntry is the on-chain record of an issued debt agreement.
type DebtRegistryEntry struct {
	AgreementID             string          `json:"agreementId"`
	Beneficiary             string          `json:"beneficiary"`
	Debtor                  string          `json:"debtor"`
	Underwriter             string          `json:"underwriter"`
	UnderwriterRiskRating   decimal.Decimal `json:"underwriterRiskRating"`
	TermsContract           string          `json:"termsContract"`
	TermsContractParameters string          `json:"termsContractParameters"`
	IssuanceBlockTimestamp  int64           `json:"issuanceBlockTimestamp"` // Unix seconds
	ContactEmail            string          `json:"contactEmail,omitempty"`
	CreatedAt               time.Time       `json:"createdAt"`
}
