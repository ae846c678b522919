package models

// Record arities of the legacy export.
const (
	SubawardFieldCount = 96
	InvoiceFieldCount  = 35

	// MaxPeriods is the number of budget periods a subaward row carries.
	MaxPeriods = 6

	// LastFiscalPeriod is the number given to the most recent valid budget period.
	LastFiscalPeriod = 9
)

// Subaward field positions. Per-period blocks start at the listed position
// and hold MaxPeriods consecutive cells (period 1 first).
const (
	SubID               = 0
	SubWBSE             = 1
	SubRecipientID      = 2
	SubAwardNumber      = 5
	SubFFATA            = 6
	SubFinalInvoiceDue  = 9
	SubOSPNotes         = 10
	SubPriorYearWBSE    = 11
	SubManualPriorExp   = 13
	SubGLBreak          = 14
	SubState            = 20
	SubCountry          = 21
	SubPeriodStart      = 24
	SubPeriodEnd        = 30
	SubBudgetSalary     = 36
	SubBudgetFringe     = 42
	SubBudgetSupplies   = 48
	SubBudgetTravel     = 54
	SubBudgetConsulting = 60
	SubBudgetODC        = 66
	SubIDCRate          = 72
	SubIDCAdjustment    = 78
	SubBudgetEquipment  = 84
	SubBudgetMisc       = 90
)

// Invoice field positions.
const (
	InvID                = 0
	InvSubID             = 1
	InvNumber            = 2
	InvAPCheckRequest    = 3
	InvReceivedDate      = 6
	InvNotes             = 9
	InvFinal             = 10
	InvInitiallyAccurate = 11
	InvStartDate         = 23
	InvEndDate           = 24
	InvSalary            = 25
	InvFringe            = 26
	InvSupplies          = 27
	InvTravel            = 28
	InvConsulting        = 29
	InvODC               = 30
	InvIDCRate           = 31
	InvIDCAdjustment     = 32
	InvEquipment         = 33
	InvMisc              = 34
)

// BudgetColumns maps each positional budget category to the first cell of its
// per-period block. IDC is computed, so it has no column.
var BudgetColumns = map[BudgetCategory]int{
	Salary:     SubBudgetSalary,
	Fringe:     SubBudgetFringe,
	Supplies:   SubBudgetSupplies,
	Travel:     SubBudgetTravel,
	Consulting: SubBudgetConsulting,
	ODC:        SubBudgetODC,
	Equipment:  SubBudgetEquipment,
	Misc:       SubBudgetMisc,
}

// InvoiceCostFields lists the ten cost cells of an invoice in export order.
var InvoiceCostFields = []int{
	InvSalary, InvFringe, InvSupplies, InvTravel, InvConsulting, InvODC,
	InvIDCRate, InvIDCAdjustment, InvEquipment, InvMisc,
}
