package billing

import (
	"github.com/facturio/backend/internal/domain/shared/valueobject"
)

// Totals are the document-level sums. They are always derived, never stored
// independently of the lines that produced them.
type Totals struct {
	HT  valueobject.Money `json:"total_ht"`
	TVA valueobject.Money `json:"total_tva"`
	TTC valueobject.Money `json:"total_ttc"`
}

// ZeroTotals returns totals of 0.00 in the default currency
func ZeroTotals() Totals {
	return Totals{
		HT:  valueobject.ZeroEUR(),
		TVA: valueobject.ZeroEUR(),
		TTC: valueobject.ZeroEUR(),
	}
}

// ComputeTotals sums the per-line amounts. Lines are already rounded to 2
// decimals, so the sums are exact and TTC equals HT plus TVA by construction.
// An empty slice yields zero totals.
func ComputeTotals(lines []LineSnapshot) Totals {
	totals := ZeroTotals()
	for _, line := range lines {
		totals.HT = totals.HT.MustAdd(line.TotalHT)
		totals.TVA = totals.TVA.MustAdd(line.TaxAmount)
		totals.TTC = totals.TTC.MustAdd(line.TotalTTC)
	}
	return totals
}
