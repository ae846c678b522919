package refdata

// Selection modes for the include/exclude stage.
const (
	SelectNone    = "none"
	SelectInclude = "include"
	SelectExclude = "exclude"
)

// Reference bundles every lookup table of a run.
//
// Include and Exclude are nil when their file does not exist. An existing but
// empty include list selects nothing.
type Reference struct {
	Countries   Countries
	BudgetDiffs BudgetDiffs
	ZFR1D       WBSESet
	Include     WBSESet
	Exclude     WBSESet
}

// SelectionMode reports which selection list applies. Include wins over exclude.
func (r Reference) SelectionMode() string {
	switch {
	case r.Include != nil:
		return SelectInclude
	case r.Exclude != nil:
		return SelectExclude
	default:
		return SelectNone
	}
}

// Selected reports whether a WBSE survives the include/exclude stage.
func (r Reference) Selected(wbse string) bool {
	switch r.SelectionMode() {
	case SelectInclude:
		return r.Include.Contains(wbse)
	case SelectExclude:
		return !r.Exclude.Contains(wbse)
	default:
		return true
	}
}
