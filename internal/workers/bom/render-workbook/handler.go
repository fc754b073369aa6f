// internal/workers/bom/render-workbook/handler.go
package renderworkbook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	apperrors "oci-bom-generator/internal/common/errors"
	"oci-bom-generator/internal/models"
)

const (
	TaskType = "render-workbook"
)

var ErrMissingDraft = errors.New("MISSING_DRAFT")

var columns = []struct {
	title string
	width float64
}{
	{"Category", 16},
	{"Part Number", 14},
	{"Description", 44},
	{"Quantity", 10},
	{"Metric", 18},
	{"Unit Price", 13},
	{"Monthly", 15},
	{"Annual", 15},
	{"Notes", 40},
}

var assumptions = []string{
	"Pricing is based on Oracle Cloud Infrastructure list prices and may vary by region",
	"Monthly cost for hourly services: Quantity x Unit Price x 744 hours",
	"Monthly cost for daily services uses 31 days, weekly services use 4.33 weeks",
	"Monthly cost for monthly services: Quantity x Unit Price",
	"Annual cost is Monthly x 12 with no annual discount applied",
	"Quantities are resource counts, e.g. 4 OCPUs or 200 GB of storage",
	"Support, training and professional services are not included",
	"Network egress charges may apply depending on data transfer",
}

const headerRow = 4

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config *Config
	now    func() time.Time
	logger Logger
}

func NewHandler(config *Config, log Logger) *Handler {
	return &Handler{
		config: config,
		now:    time.Now,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// WithClock replaces the clock used for the filename and the generated date.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Draft == nil {
		return nil, ErrMissingDraft
	}
	wb, err := h.Render(input.Draft, input.Currency)
	if err != nil {
		h.logger.Error("failed to render workbook", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	h.logger.Info("workbook rendered", map[string]interface{}{
		"filename":     wb.Filename,
		"items":        len(input.Draft.Items),
		"bytes":        len(wb.Data),
		"monthlyTotal": wb.MonthlyTotal.StringFixed(2),
	})
	return &Output{Workbook: wb}, nil
}

type styles struct {
	title, header, category, data, money, total, totalMoney, percent, note int
}

// Render writes the draft to an xlsx workbook. Quantities are per billing unit;
// the monthly column applies the metric's multiplier.
func (h *Handler) Render(draft *models.BOMDraft, currency string) (*Workbook, error) {
	if currency == "" {
		currency = h.config.DefaultCurrency
	}
	now := h.now()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", h.config.BOMSheet); err != nil {
		return nil, apperrors.NewRenderFailedError(err)
	}
	st, err := newStyles(f, currency)
	if err != nil {
		return nil, apperrors.NewRenderFailedError(err)
	}

	monthly, annual, err := h.writeBOMSheet(f, st, draft, currency, now)
	if err != nil {
		return nil, apperrors.NewRenderFailedError(err)
	}
	if err := h.writeSummarySheet(f, st, draft); err != nil {
		return nil, apperrors.NewRenderFailedError(err)
	}
	if err := h.writeAssumptionSheet(f, st); err != nil {
		return nil, apperrors.NewRenderFailedError(err)
	}
	_ = f.SetDocProps(&excelize.DocProperties{
		Creator: "OCI BOM Generator",
		Title:   h.config.Title,
		Created: now.UTC().Format(time.RFC3339),
	})
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.NewRenderFailedError(err)
	}
	return &Workbook{
		Filename:     fmt.Sprintf("%s%d.xlsx", h.config.FilenamePrefix, now.UnixMilli()),
		Data:         buf.Bytes(),
		MonthlyTotal: monthly,
		AnnualTotal:  annual,
	}, nil
}

func newStyles(f *excelize.File, currency string) (styles, error) {
	var st styles
	moneyFmt := currencyFormat(currency)
	percentFmt := "0.00%"
	thin := []excelize.Border{
		{Type: "left", Color: "CCCCCC", Style: 1},
		{Type: "top", Color: "CCCCCC", Style: 1},
		{Type: "right", Color: "CCCCCC", Style: 1},
		{Type: "bottom", Color: "CCCCCC", Style: 1},
	}
	defs := []struct {
		target *int
		style  *excelize.Style
	}{
		{&st.title, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 16, Color: "1F4E79"},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F2F2F2"}},
		}},
		{&st.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E79"}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thin,
		}},
		{&st.category, &excelize.Style{
			Font:   &excelize.Font{Bold: true, Size: 11, Color: "1F4E79"},
			Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E7F3FF"}},
			Border: thin,
		}},
		{&st.data, &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thin}},
		{&st.money, &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thin, CustomNumFmt: &moneyFmt}},
		{&st.total, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11, Color: "1F4E79"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFD966"}},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{&st.totalMoney, &excelize.Style{
			Font:         &excelize.Font{Bold: true, Size: 11, Color: "1F4E79"},
			Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFD966"}},
			CustomNumFmt: &moneyFmt,
		}},
		{&st.percent, &excelize.Style{
			Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFF2CC"}},
			CustomNumFmt: &percentFmt,
		}},
		{&st.note, &excelize.Style{Font: &excelize.Font{Italic: true, Color: "666666"}}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return st, err
		}
		*d.target = id
	}
	return st, nil
}

func currencyFormat(currency string) string {
	switch strings.ToUpper(currency) {
	case "USD", "CAD", "AUD":
		return `"$"#,##0.00`
	case "EUR":
		return `"€"#,##0.00`
	case "GBP":
		return `"£"#,##0.00`
	case "JPY":
		return `"¥"#,##0`
	default:
		return `#,##0.00 "` + currency + `"`
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (h *Handler) writeBOMSheet(f *excelize.File, st styles, draft *models.BOMDraft, currency string, now time.Time) (decimal.Decimal, decimal.Decimal, error) {
	sheet := h.config.BOMSheet
	last := len(columns)

	var errs []error
	set := func(c string, v interface{}) { errs = append(errs, f.SetCellValue(sheet, c, v)) }
	setMoney := func(c string, d decimal.Decimal) {
		errs = append(errs, f.SetCellFloat(sheet, c, d.Round(4).InexactFloat64(), -1, 64))
	}
	style := func(from, to string, id int) { errs = append(errs, f.SetCellStyle(sheet, from, to, id)) }

	set("A1", h.config.Title)
	errs = append(errs, f.MergeCell(sheet, "A1", cell(last, 1)))
	style("A1", "A1", st.title)
	set("A2", "Generated:")
	set("B2", now.UTC().Format("2006-01-02"))
	set("D2", "Currency:")
	set("E2", strings.ToUpper(currency))
	if draft.Provider != "" {
		set("G2", "Provider:")
		set("H2", draft.Provider)
	}

	for i, col := range columns {
		set(cell(i+1, headerRow), col.title)
		name, _ := excelize.ColumnNumberToName(i + 1)
		errs = append(errs, f.SetColWidth(sheet, name, name, col.width))
	}
	style(cell(1, headerRow), cell(last, headerRow), st.header)

	row := headerRow + 1
	monthlyTotal, annualTotal := decimal.Zero, decimal.Zero
	for _, group := range groupByCategory(draft.Items) {
		set(cell(1, row), strings.ToUpper(group.name))
		errs = append(errs, f.MergeCell(sheet, cell(1, row), cell(last, row)))
		style(cell(1, row), cell(last, row), st.category)
		row++

		groupMonthly, groupAnnual := decimal.Zero, decimal.Zero
		for _, it := range group.items {
			cost := CostOf(it)
			set(cell(1, row), group.name)
			set(cell(2, row), it.Identifier)
			set(cell(3, row), it.Description)
			errs = append(errs, f.SetCellFloat(sheet, cell(4, row), it.Quantity.InexactFloat64(), -1, 64))
			set(cell(5, row), it.BillingUnit)
			setMoney(cell(6, row), it.UnitPrice)
			setMoney(cell(7, row), cost.Monthly)
			setMoney(cell(8, row), cost.Annual)
			set(cell(9, row), it.Notes)
			style(cell(1, row), cell(5, row), st.data)
			style(cell(6, row), cell(8, row), st.money)
			style(cell(9, row), cell(9, row), st.data)

			groupMonthly = groupMonthly.Add(cost.Monthly)
			groupAnnual = groupAnnual.Add(cost.Annual)
			row++
		}

		set(cell(1, row), group.name+" Subtotal:")
		errs = append(errs, f.MergeCell(sheet, cell(1, row), cell(6, row)))
		style(cell(1, row), cell(6, row), st.total)
		setMoney(cell(7, row), groupMonthly)
		setMoney(cell(8, row), groupAnnual)
		style(cell(7, row), cell(8, row), st.totalMoney)
		row += 2

		monthlyTotal = monthlyTotal.Add(groupMonthly)
		annualTotal = annualTotal.Add(groupAnnual)
	}

	totalRow := row + 1
	set(cell(6, totalRow), "Total (Before Discount):")
	setMoney(cell(7, totalRow), monthlyTotal)
	setMoney(cell(8, totalRow), annualTotal)
	style(cell(7, totalRow), cell(8, totalRow), st.totalMoney)

	set(cell(6, totalRow+1), "Discount Percentage:")
	set(cell(7, totalRow+1), 0)
	style(cell(7, totalRow+1), cell(7, totalRow+1), st.percent)
	set(cell(9, totalRow+1), "Enter discount as a fraction, e.g. 0.15 for 15%")
	style(cell(9, totalRow+1), cell(9, totalRow+1), st.note)

	set(cell(6, totalRow+2), "Discount Amount:")
	errs = append(errs,
		f.SetCellFormula(sheet, cell(7, totalRow+2), fmt.Sprintf("%s*%s", cell(7, totalRow), cell(7, totalRow+1))),
		f.SetCellFormula(sheet, cell(8, totalRow+2), fmt.Sprintf("%s*%s", cell(8, totalRow), cell(7, totalRow+1))),
	)
	style(cell(7, totalRow+2), cell(8, totalRow+2), st.money)

	set(cell(6, totalRow+3), "FINAL TOTAL:")
	errs = append(errs,
		f.SetCellFormula(sheet, cell(7, totalRow+3), fmt.Sprintf("%s-%s", cell(7, totalRow), cell(7, totalRow+2))),
		f.SetCellFormula(sheet, cell(8, totalRow+3), fmt.Sprintf("%s-%s", cell(8, totalRow), cell(8, totalRow+2))),
	)
	style(cell(7, totalRow+3), cell(8, totalRow+3), st.totalMoney)

	errs = append(errs, f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: cell(1, headerRow+1),
		ActivePane:  "bottomLeft",
	}))

	return monthlyTotal, annualTotal, errors.Join(errs...)
}

func (h *Handler) writeSummarySheet(f *excelize.File, st styles, draft *models.BOMDraft) error {
	sheet := h.config.SummarySheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	var errs []error
	set := func(c string, v interface{}) { errs = append(errs, f.SetCellValue(sheet, c, v)) }

	summary := draft.ComplianceSummary
	if summary == nil {
		summary = &models.ComplianceSummary{Considered: len(draft.Items), Approved: len(draft.Items)}
	}

	set("A1", "CONSTRAINT COMPLIANCE")
	errs = append(errs, f.SetCellStyle(sheet, "A1", "A1", st.title))
	set("A3", "Items considered")
	set("B3", summary.Considered)
	set("A4", "Items approved")
	set("B4", summary.Approved)
	set("A5", "Items rejected")
	set("B5", len(summary.Rejected))

	row := 7
	if len(summary.Rejected) > 0 {
		for i, title := range []string{"Part Number", "Description", "Reason"} {
			set(cell(i+1, row), title)
		}
		errs = append(errs, f.SetCellStyle(sheet, cell(1, row), cell(3, row), st.header))
		row++
		for _, r := range summary.Rejected {
			set(cell(1, row), r.Identifier)
			set(cell(2, row), r.Description)
			set(cell(3, row), r.Reason)
			row++
		}
		row++
	}

	if cs := summary.ConstraintSummary; cs != nil {
		sections := []struct {
			title string
			lines []string
		}{
			{"Requirements", cs.Requirements},
			{"Exclusions", cs.Exclusions},
			{"Pinned identifiers", cs.PinnedIdentifiers},
			{"Preference implications", cs.PreferenceImplications},
		}
		for _, sec := range sections {
			if len(sec.lines) == 0 {
				continue
			}
			set(cell(1, row), sec.title)
			errs = append(errs, f.SetCellStyle(sheet, cell(1, row), cell(1, row), st.category))
			row++
			for _, line := range sec.lines {
				set(cell(1, row), line)
				row++
			}
			row++
		}
	}

	errs = append(errs,
		f.SetColWidth(sheet, "A", "A", 28),
		f.SetColWidth(sheet, "B", "B", 44),
		f.SetColWidth(sheet, "C", "C", 70),
	)
	return errors.Join(errs...)
}

func (h *Handler) writeAssumptionSheet(f *excelize.File, st styles) error {
	sheet := h.config.AssumptionSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	var errs []error
	errs = append(errs,
		f.SetCellValue(sheet, "A1", "ASSUMPTIONS & IMPLEMENTATION NOTES"),
		f.SetCellStyle(sheet, "A1", "A1", st.title),
		f.SetColWidth(sheet, "A", "A", 90),
	)
	for i, a := range assumptions {
		errs = append(errs, f.SetCellValue(sheet, cell(1, i+3), fmt.Sprintf("%d. %s", i+1, a)))
	}
	return errors.Join(errs...)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
