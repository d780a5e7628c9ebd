package variance

import (
	"sort"

	"github.com/shopspring/decimal"
	"variance_checker/data"
)

// CategoryResult is the reconciliation of one activity category, together
// with the records each side contributed.
type CategoryResult struct {
	Category       data.Category
	ExternalAmount decimal.Decimal
	InternalAmount decimal.Decimal
	Subledger      []data.SubledgerRecord
	FastDB         []data.FastDBRecord
}

// Variance is external minus internal.
func (r CategoryResult) Variance() decimal.Decimal {
	return r.ExternalAmount.Sub(r.InternalAmount)
}

// Reconcile sums both sources per category, in the order categories are given.
func Reconcile(fastdb []data.FastDBRecord, im []data.SubledgerRecord, categories []data.Category) []CategoryResult {
	results := make([]CategoryResult, 0, len(categories))
	for _, cat := range categories {
		res := CategoryResult{Category: cat}
		for _, rec := range im {
			if cat.HasSubledgerCode(rec.SubledgerCode) {
				res.Subledger = append(res.Subledger, rec)
			}
		}
		for i := range fastdb {
			if cat.FastDB.Matches(&fastdb[i]) {
				res.FastDB = append(res.FastDB, fastdb[i])
			}
		}
		res.ExternalAmount = sumSubledger(res.Subledger)
		res.InternalAmount = sumFastDB(res.FastDB)
		results = append(results, res)
	}
	return results
}

// SummaryRows renders one row per category followed by the TOTAL row.
func SummaryRows(results []CategoryResult) []data.SummaryRow {
	rows := make([]data.SummaryRow, 0, len(results)+1)
	total := data.SummaryRow{Category: data.TotalLabel}

	for _, r := range results {
		v := r.Variance()
		rows = append(rows, data.SummaryRow{
			Category:         r.Category.Name,
			ExternalAmount:   r.ExternalAmount,
			InternalAmount:   r.InternalAmount,
			Variance:         v,
			AbsoluteVariance: decimal.NewNullDecimal(v.Abs()),
			ExternalLogic:    r.Category.ExternalLogic,
			InternalLogic:    r.Category.InternalLogic,
		})
		total.ExternalAmount = total.ExternalAmount.Add(r.ExternalAmount)
		total.InternalAmount = total.InternalAmount.Add(r.InternalAmount)
		total.Variance = total.Variance.Add(v)
	}

	return append(rows, total)
}

// UnmappedSubledgerCodes lists subledger codes no category claims, sorted by code.
func UnmappedSubledgerCodes(im []data.SubledgerRecord, categories []data.Category) []data.UnmappedCode {
	byCode := make(map[string]*data.UnmappedCode)
	for _, rec := range im {
		mapped := false
		for _, cat := range categories {
			if cat.HasSubledgerCode(rec.SubledgerCode) {
				mapped = true
				break
			}
		}
		if mapped {
			continue
		}
		u, ok := byCode[rec.SubledgerCode]
		if !ok {
			u = &data.UnmappedCode{Code: rec.SubledgerCode}
			byCode[rec.SubledgerCode] = u
		}
		u.Rows++
		if rec.Amount.Valid {
			u.Amount = u.Amount.Add(rec.Amount.Decimal)
		}
	}

	out := make([]data.UnmappedCode, 0, len(byCode))
	for _, u := range byCode {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func sumSubledger(records []data.SubledgerRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.Amount.Valid {
			total = total.Add(r.Amount.Decimal)
		}
	}
	return total
}

func sumFastDB(records []data.FastDBRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.Amount.Valid {
			total = total.Add(r.Amount.Decimal)
		}
	}
	return total
}
