package data

type SelectorKind int

const (
	// SelectNothing is used by categories that have no counterpart on that side.
	SelectNothing SelectorKind = iota
	SelectCategory
	SelectInvoiceBillingType
	// SelectUnmapped catches every FastDB category no other selector names.
	SelectUnmapped
)

// FastDBSelector picks the FastDB records belonging to an activity category.
type FastDBSelector struct {
	Kind        SelectorKind
	Category    string
	BillingType BillingType
}

// MappedFastDBCategories are the categories owned by a specific activity
// category; anything else falls under Other-Adjustments.
var MappedFastDBCategories = map[string]bool{
	FastDBRevenue:        true,
	FastDBInvoiceRebill:  true,
	FastDBInvoiceCM:      true,
	FastDBABNBAdjustment: true,
}

func (s FastDBSelector) Matches(r *FastDBRecord) bool {
	switch s.Kind {
	case SelectCategory:
		return r.Category == s.Category
	case SelectInvoiceBillingType:
		return IsInvoice(r.Category) && r.BillingType == s.BillingType
	case SelectUnmapped:
		return !MappedFastDBCategories[r.Category]
	default:
		return false
	}
}

type DrillKey string

const (
	DrillNone     DrillKey = ""
	DrillCampaign DrillKey = "Campaign ID"
	DrillInvoice  DrillKey = "Invoice CFID"
)

// ManualFlagCodes splits a category's subledger codes into base manual
// invoices and manual adjustments. A code belongs to at most one side.
type ManualFlagCodes struct {
	Base       []string
	Adjustment []string
}

// Category describes how one activity category is selected on each side.
type Category struct {
	Name           string
	SubledgerCodes []string
	FastDB         FastDBSelector

	// ExternalLogic and InternalLogic are the human readable selection rules
	// printed next to the amounts.
	ExternalLogic string
	InternalLogic string

	DrillKey   DrillKey
	DrillTable string
	Flags      *ManualFlagCodes
}

// HasSubledgerCode reports whether code maps to c. Matching is case-sensitive.
func (c Category) HasSubledgerCode(code string) bool {
	for _, sc := range c.SubledgerCodes {
		if sc == code {
			return true
		}
	}
	return false
}

const (
	CatAutomatedRevenue    = "Automated Revenue"
	CatAutomatedInvoices   = "Automated Invoices + Credit Memos"
	CatPrincipalTrading    = "Principal Trading Invoices"
	CatManualBilling       = "OFA M2 Manual Billing"
	CatManualRevenue       = "OFA M2 Manual Revenue"
	CatABNBAdjustments     = "ABNB-Adjustments"
	CatOtherAdjustments    = "Other-Adjustments"
	TotalLabel             = "TOTAL"
	notInIronMountainLogic = "N/A - Does not exist in IM M3"
)

// Categories returns the canonical activity categories in report order.
// A fresh slice is returned on every call so callers may extend it.
func Categories() []Category {
	return []Category{
		{
			Name:           CatAutomatedRevenue,
			SubledgerCodes: []string{"IMDArevenue", "IMDSTrevenue", "IM_DA_Revenue", "IM_DST_Revenue"},
			FastDB:         FastDBSelector{Kind: SelectCategory, Category: FastDBRevenue},
			ExternalLogic:  "im_subledger_input = IM_DA_Revenue, IM_DST_Revenue",
			InternalLogic:  "category = Revenue",
			DrillKey:       DrillCampaign,
			DrillTable:     "Automated Revenue Variance",
		},
		{
			Name:           CatAutomatedInvoices,
			SubledgerCodes: []string{"IMDAPWO", "IM_DA_PWO"},
			FastDB:         FastDBSelector{Kind: SelectInvoiceBillingType, BillingType: BTAutomated},
			ExternalLogic:  "im_subledger_input = IM_DA_PWO",
			InternalLogic:  "category = Invoice-Rebill/Invoice-CM AND OFA_Billing_Type = Automated",
			DrillKey:       DrillInvoice,
			DrillTable:     "Automated Invoices + CM Variance",
		},
		{
			Name:           CatPrincipalTrading,
			SubledgerCodes: []string{"PT_invoice"},
			FastDB:         FastDBSelector{Kind: SelectInvoiceBillingType, BillingType: BTPrincipalTrading},
			ExternalLogic:  "im_subledger_input = PT_invoice",
			InternalLogic:  "category = Invoice-Rebill/Invoice-CM AND OFA_Billing_Type = Principal Trading",
			DrillKey:       DrillInvoice,
			DrillTable:     "Principal Trading Variance",
		},
		{
			Name:           CatManualBilling,
			SubledgerCodes: []string{"OFAManualPWO", "OFAManualADJ_PWO", "OFA_Manual_PWO", "OFA_Manual_Adj_PWO"},
			FastDB:         FastDBSelector{Kind: SelectInvoiceBillingType, BillingType: BTManual},
			ExternalLogic:  "im_subledger_input = OFA_Manual_PWO, OFA_Manual_Adj_PWO",
			InternalLogic:  "category = Invoice-Rebill/Invoice-CM AND OFA_Billing_Type = Manual",
			DrillKey:       DrillInvoice,
			DrillTable:     "OFA M2 Manual Billing Variance",
			Flags: &ManualFlagCodes{
				Base:       []string{"OFAManualPWO", "OFA_Manual_PWO"},
				Adjustment: []string{"OFAManualADJ_PWO", "OFA_Manual_Adj_PWO"},
			},
		},
		{
			Name:           CatManualRevenue,
			SubledgerCodes: []string{"OFAManualrevenue", "OFAManualAdj_revenue", "OFA_Manual_Revenue", "OFA_Manual_Adj_Revenue"},
			FastDB:         FastDBSelector{Kind: SelectNothing},
			ExternalLogic:  "im_subledger_input = OFA_Manual_Revenue, OFA_Manual_Adj_Revenue",
			InternalLogic:  "N/A - Does not exist in FastDB",
		},
		{
			Name:          CatABNBAdjustments,
			FastDB:        FastDBSelector{Kind: SelectCategory, Category: FastDBABNBAdjustment},
			ExternalLogic: notInIronMountainLogic,
			InternalLogic: "category = ABNB-Adjustment",
		},
		{
			Name:          CatOtherAdjustments,
			FastDB:        FastDBSelector{Kind: SelectUnmapped},
			ExternalLogic: notInIronMountainLogic,
			InternalLogic: "All uncategorized records",
		},
	}
}
