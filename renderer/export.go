package renderer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/kest"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// AuditColumns is the header of the tabular audit exports.
var AuditColumns = []string{
	"date",
	"event_type",
	"qty",
	"unit_price_usd",
	"fx_rate",
	"unit_price_eur",
	"qty_before",
	"qty_after",
	"pmavg_before",
	"pmavg_after",
	"proceeds_eur",
	"cost_basis_eur",
	"realized_pl_eur",
}

// auditRow returns the cells of a record in AuditColumns order. Amounts are
// not rounded, not applicable amounts are empty.
func auditRow(r kest.AuditRecord) []string {
	return []string{
		r.Date.String(),
		r.Kind.String(),
		r.Quantity.String(),
		r.PriceUSD.Decimal().String(),
		r.Rate.String(),
		r.PriceEUR.Decimal().String(),
		r.QuantityBefore.String(),
		r.QuantityAfter.String(),
		r.AverageBefore.Decimal().String(),
		r.AverageAfter.Decimal().String(),
		nullable(r.Proceeds),
		r.CostBasis.Decimal().String(),
		nullable(r.RealizedPL),
	}
}

func nullable(m kest.NullMoney) string {
	if !m.Valid {
		return ""
	}
	return m.Money.Decimal().String()
}

// WriteAuditCSV writes one CSV row per record, after a header row.
func WriteAuditCSV(w io.Writer, records []kest.AuditRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(AuditColumns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(auditRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// AuditSheet is the name of the worksheet of the XLSX export.
const AuditSheet = "Audit"

// WriteAuditXLSX writes a workbook with a single sheet with one row per
// record, after a header row. Numbers are written as numeric cells.
func WriteAuditXLSX(w io.Writer, records []kest.AuditRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", AuditSheet); err != nil {
		return fmt.Errorf("cannot name sheet: %w", err)
	}
	if err := f.SetSheetRow(AuditSheet, "A1", &AuditColumns); err != nil {
		return fmt.Errorf("cannot write header: %w", err)
	}
	if err := f.SetPanes(AuditSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("cannot freeze header: %w", err)
	}

	for i, r := range records {
		cells := make([]any, 0, len(AuditColumns))
		for j, s := range auditRow(r) {
			switch {
			case j < 2 || s == "":
				cells = append(cells, s)
			default:
				d, err := decimal.NewFromString(s)
				if err != nil {
					return fmt.Errorf("invalid number %q: %w", s, err)
				}
				cells = append(cells, d.InexactFloat64())
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(AuditSheet, cell, &cells); err != nil {
			return fmt.Errorf("cannot write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write workbook: %w", err)
	}
	return nil
}

// WriteAuditJSON writes one JSON object per line and per record.
func WriteAuditJSON(w io.Writer, records []kest.AuditRecord) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
