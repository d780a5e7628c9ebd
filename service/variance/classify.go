package variance

import (
	"strings"
	"unicode"

	"variance_checker/data"
)

type billingRule struct {
	name   string
	match  func(invoiceID string) bool
	result data.BillingType
}

// billingRules are evaluated in order and the first match wins, so the
// manual patterns take priority over the "PT" substring.
var billingRules = []billingRule{
	{name: "all-digits", match: isAllDigits, result: data.BTManual},
	{name: "trailing-G", match: func(id string) bool { return strings.HasSuffix(id, "G") }, result: data.BTManual},
	{name: "underscore", match: func(id string) bool { return strings.Contains(id, "_") }, result: data.BTManual},
	{name: "contains-PT", match: func(id string) bool { return strings.Contains(id, "PT") }, result: data.BTPrincipalTrading},
}

// ClassifyBillingType derives how an invoice-bearing FastDB record was billed
// from the shape of its invoice id. Records outside Invoice-Rebill and
// Invoice-CM get BTNone.
func ClassifyBillingType(category, invoiceID string) data.BillingType {
	if !data.IsInvoice(category) {
		return data.BTNone
	}
	for _, rule := range billingRules {
		if rule.match(invoiceID) {
			return rule.result
		}
	}
	return data.BTAutomated
}

// isAllDigits is false for the empty string.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// CampaignKey prefixes a campaign id with a quote so spreadsheet tools keep
// it as text (leading zeros survive).
func CampaignKey(campaignID string) string {
	return "'" + campaignID
}
