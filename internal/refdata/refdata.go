// Package refdata loads the whitespace-delimited reference files consulted
// while converting: subrecipient countries, SAP budget differences, the ZFR1D
// adjustment set and the optional include/exclude selection lists.
package refdata

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fjacquet/osp-migrate/internal/currencyutils"
	"fjacquet/osp-migrate/internal/models"
	"fjacquet/osp-migrate/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Countries maps a subrecipient id to its country code.
type Countries map[string]string

// Lookup returns the country of a subrecipient, or models.DefaultCountry.
func (c Countries) Lookup(recipientID string) string {
	if code, ok := c[NormalizeID(recipientID)]; ok {
		return code
	}
	return models.DefaultCountry
}

// BudgetDiffs maps a WBSE to the SAP-minus-legacy budget difference.
type BudgetDiffs map[string]decimal.Decimal

// Lookup returns the difference recorded for a WBSE.
func (d BudgetDiffs) Lookup(wbse string) (decimal.Decimal, bool) {
	diff, ok := d[wbse]
	return diff, ok
}

// WBSESet is a set of business keys.
type WBSESet map[string]struct{}

// NewWBSESet builds a set from keys.
func NewWBSESet(keys ...string) WBSESet {
	s := make(WBSESet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Contains reports whether the key is in the set. A nil set contains nothing.
func (s WBSESet) Contains(wbse string) bool {
	_, ok := s[wbse]
	return ok
}

// NormalizeID renders numeric ids without leading zeros or padding so that
// "0042" and "42" resolve to the same subrecipient.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if n, err := strconv.Atoi(id); err == nil {
		return strconv.Itoa(n)
	}
	return id
}

// LoadCountries reads "<subrecipient_id> <code>" lines. Later lines win.
func LoadCountries(r io.Reader, name string) (Countries, error) {
	countries := make(Countries)
	err := scanFields(r, func(lineNo int, fields []string) error {
		if len(fields) < 2 {
			return &parsererror.InvalidFormatError{
				FilePath:             name,
				Line:                 lineNo,
				ExpectedFormat:       "<subrecipient_id> <country_code>",
				ActualContentSnippet: strings.Join(fields, " "),
			}
		}
		countries[NormalizeID(fields[0])] = fields[1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return countries, nil
}

// LoadBudgetDiffs reads "<wbse> <db_amount> <sap_amount>" lines, storing
// sap - db rounded to cents, or "<wbse> <diff>" lines storing diff as is.
func LoadBudgetDiffs(r io.Reader, name string) (BudgetDiffs, error) {
	diffs := make(BudgetDiffs)
	err := scanFields(r, func(lineNo int, fields []string) error {
		switch len(fields) {
		case 2:
			diff, err := parseAmount(name, "diff", fields[1])
			if err != nil {
				return err
			}
			diffs[fields[0]] = currencyutils.RoundCents(diff)
		case 3:
			db, err := parseAmount(name, "db_amount", fields[1])
			if err != nil {
				return err
			}
			sap, err := parseAmount(name, "sap_amount", fields[2])
			if err != nil {
				return err
			}
			diffs[fields[0]] = currencyutils.RoundCents(sap.Sub(db))
		default:
			return &parsererror.InvalidFormatError{
				FilePath:             name,
				Line:                 lineNo,
				ExpectedFormat:       "<wbse> <db_amount> <sap_amount>",
				ActualContentSnippet: strings.Join(fields, " "),
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return diffs, nil
}

// LoadWBSESet reads one business key per line. Only the first token of a line counts.
func LoadWBSESet(r io.Reader) (WBSESet, error) {
	set := make(WBSESet)
	err := scanFields(r, func(_ int, fields []string) error {
		set[fields[0]] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func parseAmount(name, field, text string) (decimal.Decimal, error) {
	amount, err := currencyutils.ParseAmount(text)
	if err != nil {
		return decimal.Zero, &parsererror.ParseError{Parser: name, Field: field, Value: text, Err: err}
	}
	return amount, nil
}

// scanFields calls fn with the whitespace-separated fields of every non-blank line.
func scanFields(r io.Reader, fn func(lineNo int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := fn(lineNo, fields); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading reference data: %w", err)
	}
	return nil
}
