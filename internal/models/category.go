package models

import "fmt"

// BudgetCategory is one of the nine cost categories shared by budgets and invoices.
type BudgetCategory int

// Categories in the order budgets and invoices are iterated.
const (
	Salary BudgetCategory = iota
	Fringe
	Supplies
	Travel
	Consulting
	ODC
	IDC
	Equipment
	Misc
)

// Categories lists every category in iteration order.
var Categories = []BudgetCategory{
	Salary, Fringe, Supplies, Travel, Consulting, ODC, IDC, Equipment, Misc,
}

// DirectCategories are the categories the indirect cost rate applies to.
var DirectCategories = []BudgetCategory{
	Salary, Fringe, Supplies, Travel, Consulting, ODC,
}

var categoryNames = map[BudgetCategory]string{
	Salary:     "salary",
	Fringe:     "fringe",
	Supplies:   "supplies",
	Travel:     "travel",
	Consulting: "consulting",
	ODC:        "odc",
	IDC:        "idc",
	Equipment:  "equipment",
	Misc:       "misc",
}

func (c BudgetCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory resolves a category by its lower-case name.
func ParseCategory(name string) (BudgetCategory, error) {
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown budget category: %s", name)
}

// GLAccount holds the general-ledger codes of one category.
type GLAccount struct {
	// Plan is the budget (commitment) cost element.
	Plan string `yaml:"plan"`
	// Below receives actuals up to the subaward's GL break.
	Below string `yaml:"below"`
	// Above receives actuals past the GL break.
	Above string `yaml:"above"`
}

// Bucket returns the actual cost element for bucket 1 (below) or 2 (above).
func (a GLAccount) Bucket(bucket int) string {
	if bucket == 2 {
		return a.Above
	}
	return a.Below
}

// ChartOfAccounts maps every category to its GL codes.
type ChartOfAccounts struct {
	Accounts   map[BudgetCategory]GLAccount
	BudgetDiff string
}

// Account returns the GL codes of a category.
func (c ChartOfAccounts) Account(cat BudgetCategory) GLAccount {
	return c.Accounts[cat]
}

// Validate checks that every category carries all three codes.
func (c ChartOfAccounts) Validate() error {
	for _, cat := range Categories {
		acct, ok := c.Accounts[cat]
		if !ok {
			return fmt.Errorf("chart of accounts is missing category %s", cat)
		}
		if acct.Plan == "" || acct.Below == "" || acct.Above == "" {
			return fmt.Errorf("chart of accounts has incomplete codes for %s", cat)
		}
	}
	if c.BudgetDiff == "" {
		return fmt.Errorf("chart of accounts has no budget diff code")
	}
	return nil
}
