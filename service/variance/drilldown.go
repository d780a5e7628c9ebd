package variance

import (
	"sort"

	"github.com/shopspring/decimal"
	"variance_checker/data"
)

// NeedsDrillDown reports whether a category's variance is above threshold and
// the category has a finer key to break it down by.
func NeedsDrillDown(r CategoryResult, threshold decimal.Decimal) bool {
	if r.Category.DrillKey == data.DrillNone {
		return false
	}
	return r.Variance().Abs().GreaterThan(threshold)
}

// DrillDown breaks a category result down by campaign or invoice id. Keys
// found on only one side appear with zero on the other. Rows are ordered by
// absolute variance, largest first, then by key.
func DrillDown(r CategoryResult) data.DrillDownTable {
	table := data.DrillDownTable{
		Name:     r.Category.DrillTable,
		Category: r.Category.Name,
		KeyTitle: r.Category.DrillKey,
		HasFlags: r.Category.Flags != nil,
	}

	external := make(map[string]decimal.Decimal)
	internal := make(map[string]decimal.Decimal)
	keys := make(map[string]struct{})

	for _, rec := range r.Subledger {
		key := subledgerKey(rec, r.Category.DrillKey)
		keys[key] = struct{}{}
		if rec.Amount.Valid {
			external[key] = external[key].Add(rec.Amount.Decimal)
		}
	}
	for _, rec := range r.FastDB {
		key := fastDBKey(rec, r.Category.DrillKey)
		keys[key] = struct{}{}
		if rec.Amount.Valid {
			internal[key] = internal[key].Add(rec.Amount.Decimal)
		}
	}

	var base, adjustment map[string]bool
	if r.Category.Flags != nil {
		base = invoicesWithCodes(r.Subledger, r.Category.Flags.Base)
		adjustment = invoicesWithCodes(r.Subledger, r.Category.Flags.Adjustment)
	}

	table.Rows = make([]data.DrillDownRow, 0, len(keys))
	for key := range keys {
		ext, in := external[key], internal[key]
		v := ext.Sub(in)
		table.Rows = append(table.Rows, data.DrillDownRow{
			Key:              key,
			ExternalAmount:   ext,
			InternalAmount:   in,
			Variance:         v,
			AbsoluteVariance: v.Abs(),
			ManualInvoice:    base[key],
			ManualAdjustment: adjustment[key],
		})
	}

	sort.Slice(table.Rows, func(i, j int) bool {
		a, b := table.Rows[i], table.Rows[j]
		if c := a.AbsoluteVariance.Cmp(b.AbsoluteVariance); c != 0 {
			return c > 0
		}
		return a.Key < b.Key
	})
	return table
}

// DrillDowns returns the tables for every category over threshold, in category order.
func DrillDowns(results []CategoryResult, threshold decimal.Decimal) []data.DrillDownTable {
	var tables []data.DrillDownTable
	for _, r := range results {
		if NeedsDrillDown(r, threshold) {
			tables = append(tables, DrillDown(r))
		}
	}
	return tables
}

func subledgerKey(rec data.SubledgerRecord, key data.DrillKey) string {
	if key == data.DrillCampaign {
		return rec.CampaignKey
	}
	return rec.InvoiceID
}

func fastDBKey(rec data.FastDBRecord, key data.DrillKey) string {
	if key == data.DrillCampaign {
		return rec.CampaignKey
	}
	return rec.InvoiceID
}

func invoicesWithCodes(records []data.SubledgerRecord, codes []string) map[string]bool {
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	out := make(map[string]bool)
	for _, rec := range records {
		if want[rec.SubledgerCode] {
			out[rec.InvoiceID] = true
		}
	}
	return out
}
