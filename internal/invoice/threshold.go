package invoice

import (
	"fjacquet/osp-migrate/internal/currencyutils"

	"github.com/shopspring/decimal"
)

// GL buckets of an actual cost.
const (
	// BucketBelow posts to the account used up to the GL break.
	BucketBelow = 1
	// BucketAbove posts to the account used past the GL break.
	BucketAbove = 2
	// BucketSplit means the amount straddles the break.
	BucketSplit = 3
)

// Bucket classifies amount against the break given what was spent before it.
func Bucket(glBreak, priorExp, amount decimal.Decimal) int {
	switch {
	case glBreak.GreaterThanOrEqual(priorExp.Add(amount)):
		return BucketBelow
	case glBreak.LessThanOrEqual(priorExp):
		return BucketAbove
	default:
		return BucketSplit
	}
}

// Split is the part of an amount posted to one bucket.
type Split struct {
	Bucket int
	Amount decimal.Decimal
}

// ThresholdState is the running expense of one subaward against its GL break.
// It is owned by a single allocation and advanced in invoice order.
type ThresholdState struct {
	GLBreak  decimal.Decimal
	PriorExp decimal.Decimal
}

// NewThresholdState seeds the state with the manual prior expense.
func NewThresholdState(glBreak, priorExp decimal.Decimal) *ThresholdState {
	return &ThresholdState{GLBreak: glBreak, PriorExp: priorExp}
}

// Allocate splits amount across the buckets and adds it to PriorExp. A
// straddling amount yields two splits summing exactly to amount.
func (s *ThresholdState) Allocate(amount decimal.Decimal) []Split {
	var splits []Split
	switch Bucket(s.GLBreak, s.PriorExp, amount) {
	case BucketBelow:
		splits = []Split{{Bucket: BucketBelow, Amount: amount}}
	case BucketAbove:
		splits = []Split{{Bucket: BucketAbove, Amount: amount}}
	default:
		below := currencyutils.RoundCents(s.GLBreak.Sub(s.PriorExp))
		splits = []Split{
			{Bucket: BucketBelow, Amount: below},
			{Bucket: BucketAbove, Amount: amount.Sub(below)},
		}
	}
	s.PriorExp = s.PriorExp.Add(amount)
	return splits
}
