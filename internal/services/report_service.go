package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"time"

	"caja-backend/internal/models"
	"caja-backend/internal/money"
	"caja-backend/internal/repositories"
	"caja-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/sirupsen/logrus"
)

// Period classifies a reporting window
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// PeriodSummary is the reduced income/expense/profit view of a date range
type PeriodSummary struct {
	Period  Period  `json:"period"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Rubro   string  `json:"rubro,omitempty"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Profit  float64 `json:"profit"`
}

// ProductRanking is one row of the quantity-sold ranking
type ProductRanking struct {
	Key      string  `json:"key"` // name + size + color + unit display key
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type ReportService struct {
	CashRepo     *repositories.DailyCashRepository
	CreditRepo   *repositories.CreditRepository
	PaymentRepo  *repositories.PaymentRepository
	CustomerRepo *repositories.CustomerRepository
	Log          *logrus.Logger
}

func NewReportService(cashRepo *repositories.DailyCashRepository, creditRepo *repositories.CreditRepository, paymentRepo *repositories.PaymentRepository, customerRepo *repositories.CustomerRepository, log *logrus.Logger) *ReportService {
	return &ReportService{
		CashRepo:     cashRepo,
		CreditRepo:   creditRepo,
		PaymentRepo:  paymentRepo,
		CustomerRepo: customerRepo,
		Log:          log,
	}
}

// PeriodRange resolves a period classifier to an inclusive ISO date range
// around the reference day. Weeks start on Monday.
func PeriodRange(period Period, ref time.Time) (string, string, error) {
	day := timeutil.StartOfDay(ref)
	switch period {
	case PeriodWeek:
		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		from := day.AddDate(0, 0, -(weekday - 1))
		return timeutil.DateKey(from), timeutil.DateKey(from.AddDate(0, 0, 6)), nil
	case PeriodMonth:
		from := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return timeutil.DateKey(from), timeutil.DateKey(from.AddDate(0, 1, -1)), nil
	case PeriodYear:
		from := time.Date(day.Year(), 1, 1, 0, 0, 0, 0, day.Location())
		return timeutil.DateKey(from), timeutil.DateKey(from.AddDate(1, 0, -1)), nil
	}
	return "", "", errors.New("period must be week, month or year")
}

// SummarizeMovements reduces movements into income/expense/profit sums,
// optionally restricted to one rubro.
func SummarizeMovements(movements []models.Movement, rubro string) (income, expense, profit float64) {
	for _, m := range movements {
		if rubro != "" && m.Rubro != rubro {
			continue
		}
		switch m.Type {
		case models.MovementTypeIncome:
			income += m.Amount
			profit += m.Profit
		case models.MovementTypeExpense:
			expense += m.Amount
			profit -= m.Amount
		}
	}
	return money.Round2(income), money.Round2(expense), money.Round2(profit)
}

// RankProducts tallies quantity sold per display-name key across the sale
// movements, ranked by quantity descending.
func RankProducts(movements []models.Movement, rubro string) []ProductRanking {
	type tally struct {
		qty     float64
		revenue float64
	}
	byKey := map[string]*tally{}

	for _, m := range movements {
		if rubro != "" && m.Rubro != rubro {
			continue
		}
		if m.Sale == nil {
			continue
		}
		for _, item := range m.Sale.Items {
			// Normalize to base units so 500 g and 0.5 kg of the same
			// product land in one bucket.
			qty, unit := money.ToBase(item.Quantity, money.Unit(item.Unit))
			key := money.DisplayKey(item.Name, item.Size, item.Color, unit)
			t, ok := byKey[key]
			if !ok {
				t = &tally{}
				byKey[key] = t
			}
			t.qty += qty
			t.revenue += item.Quantity * item.Price
		}
	}

	rankings := make([]ProductRanking, 0, len(byKey))
	for key, t := range byKey {
		rankings = append(rankings, ProductRanking{
			Key:      key,
			Quantity: t.qty,
			Revenue:  money.Round2(t.revenue),
		})
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Quantity != rankings[j].Quantity {
			return rankings[i].Quantity > rankings[j].Quantity
		}
		return rankings[i].Key < rankings[j].Key
	})
	return rankings
}

// PeriodReport builds the summary for a week/month/year window around refDate
func (s *ReportService) PeriodReport(ctx context.Context, period Period, rubro, refDate string) (*PeriodSummary, error) {
	ref := timeutil.Today()
	if refDate != "" {
		parsed, err := timeutil.ParseDate(refDate)
		if err != nil {
			return nil, errors.New("invalid reference date, expected YYYY-MM-DD")
		}
		ref = parsed
	}

	from, to, err := PeriodRange(period, ref)
	if err != nil {
		return nil, err
	}

	movements, err := s.loadMovements(ctx, from, to)
	if err != nil {
		return nil, err
	}

	income, expense, profit := SummarizeMovements(movements, rubro)
	return &PeriodSummary{
		Period:  period,
		From:    from,
		To:      to,
		Rubro:   rubro,
		Income:  income,
		Expense: expense,
		Profit:  profit,
	}, nil
}

// ProductRankings ranks products by quantity sold within the period window
func (s *ReportService) ProductRankings(ctx context.Context, period Period, rubro, refDate string) ([]ProductRanking, error) {
	ref := timeutil.Today()
	if refDate != "" {
		parsed, err := timeutil.ParseDate(refDate)
		if err != nil {
			return nil, errors.New("invalid reference date, expected YYYY-MM-DD")
		}
		ref = parsed
	}

	from, to, err := PeriodRange(period, ref)
	if err != nil {
		return nil, err
	}

	movements, err := s.loadMovements(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return RankProducts(movements, rubro), nil
}

// GenerateRegisterPDF renders a daily register snapshot as a printable report
func (s *ReportService) GenerateRegisterPDF(dc *models.DailyCash) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, fmt.Sprintf("Caja Diaria - %s", dc.Date), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Totals box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Totals", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Cash income: $%.2f", dc.CashIncome), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Cash expense: $%.2f", dc.CashExpense), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Other income: $%.2f", dc.OtherIncome), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Profit: $%.2f", dc.TotalProfit), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Movement table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Movements", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(25, 7, "Type", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Kind", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Method", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Amount", "1", 0, "C", true, 0, "")
	pdf.CellFormat(75, 7, "Description", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, m := range dc.Movements {
		desc := m.Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		pdf.CellFormat(25, 6, string(m.Type), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, string(m.Kind), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, string(m.Method), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", m.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(75, 6, desc, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// Closing line
	if dc.Closed && dc.ClosingAmount != nil {
		diff := 0.0
		if dc.ClosingDifference != nil {
			diff = *dc.ClosingDifference
		}
		if diff != 0 {
			pdf.SetFillColor(255, 200, 200)
		} else {
			pdf.SetFillColor(200, 255, 200)
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(190, 8, fmt.Sprintf("Counted: $%.2f  Difference: $%.2f", *dc.ClosingAmount, diff), "1", 1, "C", true, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateRegisterCSV exports the movement list of one register
func (s *ReportService) GenerateRegisterCSV(dc *models.DailyCash) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"#", "Type", "Kind", "Method", "Amount", "Profit", "Rubro", "Description", "Time"})
	for i, m := range dc.Movements {
		w.Write([]string{
			fmt.Sprintf("%d", i+1),
			string(m.Type),
			string(m.Kind),
			string(m.Method),
			fmt.Sprintf("%.2f", m.Amount),
			fmt.Sprintf("%.2f", m.Profit),
			m.Rubro,
			m.Description,
			timeutil.ToART(m.CreatedAt).Format("15:04"),
		})
	}
	w.Write([]string{})
	w.Write([]string{"", "", "", "Total income", fmt.Sprintf("%.2f", dc.TotalIncome)})
	w.Write([]string{"", "", "", "Total expense", fmt.Sprintf("%.2f", dc.TotalExpense)})
	w.Write([]string{"", "", "", "Profit", fmt.Sprintf("%.2f", dc.TotalProfit)})

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateCustomerStatementPDF renders a customer's credit position: every
// sale with its schedule and the payments received.
func (s *ReportService) GenerateCustomerStatementPDF(ctx context.Context, customerID int) ([]byte, error) {
	customer, err := s.CustomerRepo.Get(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	sales, err := s.CreditRepo.ListSalesByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Estado de Cuenta", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Customer", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", customer.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", customer.Phone), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	for _, sale := range sales {
		installments, err := s.CreditRepo.ListInstallments(ctx, sale.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load installments: %w", err)
		}

		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(190, 8, fmt.Sprintf("Sale #%d (%s) - Total $%.2f", sale.ID, sale.Kind, sale.Total), "1", 1, "L", true, 0, "")

		if len(installments) > 0 {
			pdf.SetFont("Arial", "B", 10)
			pdf.SetFillColor(200, 200, 200)
			pdf.CellFormat(20, 7, "#", "1", 0, "C", true, 0, "")
			pdf.CellFormat(40, 7, "Due", "1", 0, "C", true, 0, "")
			pdf.CellFormat(35, 7, "Amount", "1", 0, "C", true, 0, "")
			pdf.CellFormat(35, 7, "Status", "1", 0, "C", true, 0, "")
			pdf.CellFormat(60, 7, "Paid on", "1", 1, "C", true, 0, "")

			pdf.SetFont("Arial", "", 10)
			for _, inst := range installments {
				paidOn := ""
				if inst.PaymentDate != nil {
					paidOn = timeutil.ToART(*inst.PaymentDate).Format("02-Jan-2006")
				}
				pdf.CellFormat(20, 6, fmt.Sprintf("%d", inst.Number), "1", 0, "C", false, 0, "")
				pdf.CellFormat(40, 6, inst.DueDate.Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
				pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", inst.Amount), "1", 0, "R", false, 0, "")
				pdf.CellFormat(35, 6, string(inst.Status), "1", 0, "C", false, 0, "")
				pdf.CellFormat(60, 6, paidOn, "1", 1, "C", false, 0, "")
			}
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ReportService) loadMovements(ctx context.Context, from, to string) ([]models.Movement, error) {
	registers, err := s.CashRepo.ListRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load registers: %w", err)
	}
	var movements []models.Movement
	for _, dc := range registers {
		movements = append(movements, dc.Movements...)
	}
	return movements, nil
}
