package models

import (
	"strconv"

	"fjacquet/osp-migrate/internal/currencyutils"

	"github.com/shopspring/decimal"
)

// IDCDefault is written to every subaward summary row.
const IDCDefault = "X"

// SubawardRow is one line of the subaward summary stream.
type SubawardRow struct {
	WBSE            string `csv:"WBSE"`
	State           string `csv:"State"`
	Country         string `csv:"Country"`
	SubawardNumber  string `csv:"Subaward Number"`
	FFATA           string `csv:"FFATA"`
	FinalInvoiceDue string `csv:"Final Invoice Due"`
	GLBreak         string `csv:"G/L Break"`
	PriorYearWBSE   string `csv:"Prior Year WBSE"`
	OSPNotes        string `csv:"OSP Notes"`
	IDCDefault      string `csv:"IDC Default"`
	ReceivedDate    string `csv:"Received Date"`
	SubrecipientPI  string `csv:"Subrecipient PI Name"`
	ManualPriorExp  string `csv:"Manual Prior Exp"`
}

// BudgetDetailRow is one line of the subaward budget detail stream.
type BudgetDetailRow struct {
	WBSE         string `csv:"WBSE"`
	FiscalPeriod string `csv:"Fiscal Period"`
	FiscalYear   string `csv:"Fiscal Year"`
	PeriodStart  string `csv:"Budget Period Start"`
	PeriodEnd    string `csv:"Budget Period End"`
	Amount       string `csv:"Amount"`
	Category     string `csv:"Category"`
	IDCRate      string `csv:"IDC Rate"`
}

// InvoiceRow is one line of the invoice summary stream.
type InvoiceRow struct {
	WBSE              string `csv:"WBSE"`
	InvoiceNumber     string `csv:"Invoice #"`
	APCheckRequest    string `csv:"AP Check Request #"`
	ReceivedDate      string `csv:"Received Date"`
	Final             string `csv:"Final"`
	TreatAsFinal      string `csv:"Treat as Final"`
	InitiallyAccurate string `csv:"Initially Accurate"`
	Vendor            string `csv:"Vendor"`
	WireOrDraft       string `csv:"Wire or Draft"`
	Notes             string `csv:"Notes"`
	StartDate         string `csv:"Start Date"`
	EndDate           string `csv:"End Date"`
	OSPInvoiceType    string `csv:"OSP Invoice Type"`
	IDCRate           string `csv:"IDC Rate"`
}

// InvoiceDetailRow is one line of the invoice cost detail stream.
type InvoiceDetailRow struct {
	WBSE          string `csv:"WBSE"`
	InvoiceNumber string `csv:"Invoice Number"`
	Amount        string `csv:"Amount"`
	CostElement   string `csv:"Cost Element"`
}

// BudgetLineKind tells plan lines apart from the lines added around them.
type BudgetLineKind int

const (
	// PlanLine is a budgeted category amount of one period.
	PlanLine BudgetLineKind = iota
	// DiffLine carries the SAP-minus-legacy reconciliation difference.
	DiffLine
	// CorrectionLine is a balancing entry added for actual-only categories.
	CorrectionLine
)

// BudgetLine is a budget detail line before rendering.
type BudgetLine struct {
	WBSE         string
	FiscalPeriod int
	FiscalYear   int
	PeriodStart  string
	PeriodEnd    string
	Amount       decimal.Decimal
	CostElement  string
	IDCRate      decimal.Decimal
	Kind         BudgetLineKind
	Category     BudgetCategory
}

// Row renders the line for the budget detail stream.
func (l BudgetLine) Row() BudgetDetailRow {
	return BudgetDetailRow{
		WBSE:         l.WBSE,
		FiscalPeriod: strconv.Itoa(l.FiscalPeriod),
		FiscalYear:   strconv.Itoa(l.FiscalYear),
		PeriodStart:  l.PeriodStart,
		PeriodEnd:    l.PeriodEnd,
		Amount:       currencyutils.FormatAmount(l.Amount),
		Category:     l.CostElement,
		IDCRate:      currencyutils.FormatRate(l.IDCRate),
	}
}

// CostLine is an invoice cost detail line before rendering.
type CostLine struct {
	WBSE          string
	InvoiceID     string
	InvoiceNumber string
	Amount        decimal.Decimal
	CostElement   string
	Category      BudgetCategory
	Bucket        int
}

// Row renders the line for the invoice detail stream.
func (l CostLine) Row() InvoiceDetailRow {
	return InvoiceDetailRow{
		WBSE:          l.WBSE,
		InvoiceNumber: l.InvoiceNumber,
		Amount:        currencyutils.FormatAmount(l.Amount),
		CostElement:   l.CostElement,
	}
}
