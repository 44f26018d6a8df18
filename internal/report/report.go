// Package report aggregates income, expenses and sales over a date range.
package report

import (
	"errors"
	"sort"
	"time"

	"enku-backoffice/internal/finance"
	"enku-backoffice/internal/models"

	"github.com/shopspring/decimal"
)

var ErrInvalidRange = errors.New("report: start date is after end date")

// Range is an inclusive date range. A zero bound disables filtering.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r Range) Enabled() bool { return !r.Start.IsZero() && !r.End.IsZero() }

func (r Range) String() string {
	if !r.Enabled() {
		return "All dates"
	}
	return r.Start.Format(time.DateOnly) + " to " + r.End.Format(time.DateOnly)
}

// Contains reports whether date falls in r. Dates that do not parse never
// match an enabled range.
func (r Range) Contains(date string) bool {
	if !r.Enabled() {
		return true
	}
	t, ok := finance.ParseDate(date)
	if !ok {
		return false
	}
	return !t.Before(r.Start) && !t.After(r.End)
}

// ParseRange reads YYYY-MM-DD bounds. The end is moved to the last
// millisecond of its day. If either bound is empty the range is disabled.
func ParseRange(start, end string) (Range, error) {
	if start == "" || end == "" {
		return Range{}, nil
	}
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return Range{}, errors.New("report: start date must be YYYY-MM-DD")
	}
	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return Range{}, errors.New("report: end date must be YYYY-MM-DD")
	}
	e = endOfDay(e)
	if s.After(e) {
		return Range{}, ErrInvalidRange
	}
	return Range{Start: s, End: e}, nil
}

func endOfDay(t time.Time) time.Time {
	return t.Add(24*time.Hour - time.Millisecond)
}

// MonthRange is the calendar month containing now, in UTC dates.
func MonthRange(now time.Time) Range {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return Range{Start: first, End: endOfDay(last)}
}

// Data is the raw input of a report: the full collections.
type Data struct {
	Income   []models.Income
	Expenses []models.Expense
	Sales    []models.Sale
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type MonthPoint struct {
	Month   string          `json:"month"` // YYYY-MM
	Label   string          `json:"label"` // Jan 2025
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// Report is the derived view. Every figure covers the filtered records.
type Report struct {
	Range             Range             `json:"range"`
	TotalIncome       decimal.Decimal   `json:"total_income"`
	TotalExpenses     decimal.Decimal   `json:"total_expenses"`
	NetProfit         decimal.Decimal   `json:"net_profit"`
	TotalSalesRevenue decimal.Decimal   `json:"total_sales_revenue"`
	Categories        []CategoryTotal   `json:"categories"`
	Monthly           []MonthPoint      `json:"monthly"`
	Income            []models.Income   `json:"income"`
	Expenses          []models.Expense  `json:"expenses"`
	Sales             []models.Sale     `json:"sales"`
	Display           map[string]string `json:"display"`
}

func filter[T any](items []T, r Range, date func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if r.Contains(date(it)) {
			out = append(out, it)
		}
	}
	return out
}

// Build derives the report for r. d is not modified.
func Build(d Data, r Range) Report {
	rep := Report{
		Range:    r,
		Income:   filter(d.Income, r, func(i models.Income) string { return i.Date }),
		Expenses: filter(d.Expenses, r, func(e models.Expense) string { return e.Date }),
		Sales:    filter(d.Sales, r, func(s models.Sale) string { return s.Date }),
	}

	rep.TotalIncome = decimal.Zero
	for _, i := range rep.Income {
		rep.TotalIncome = rep.TotalIncome.Add(i.Amount)
	}
	rep.TotalExpenses = decimal.Zero
	for _, e := range rep.Expenses {
		rep.TotalExpenses = rep.TotalExpenses.Add(e.Amount)
	}
	rep.TotalSalesRevenue = decimal.Zero
	for _, s := range rep.Sales {
		rep.TotalSalesRevenue = rep.TotalSalesRevenue.Add(s.TotalAmount)
	}
	rep.NetProfit = rep.TotalIncome.Sub(rep.TotalExpenses)

	rep.Categories = Categories(rep.Expenses)
	rep.Monthly = Monthly(rep.Income, rep.Expenses)
	rep.Display = map[string]string{
		"total_income":        finance.FormatBirr(rep.TotalIncome),
		"total_expenses":      finance.FormatBirr(rep.TotalExpenses),
		"net_profit":          finance.FormatSignedBirr(rep.NetProfit),
		"total_sales_revenue": finance.FormatBirr(rep.TotalSalesRevenue),
	}
	return rep
}

// Categories sums expenses per category in first-seen order.
func Categories(expenses []models.Expense) []CategoryTotal {
	out := []CategoryTotal{}
	index := map[string]int{}
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategoryTotal{Category: e.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

// Monthly groups income and expenses by the YYYY-MM prefix of their date.
// Months sort lexicographically, which is chronological for ISO dates.
func Monthly(income []models.Income, expenses []models.Expense) []MonthPoint {
	months := map[string]*MonthPoint{}
	point := func(date string) *MonthPoint {
		if len(date) < 7 {
			return nil
		}
		key := date[:7]
		p, ok := months[key]
		if !ok {
			p = &MonthPoint{Month: key, Label: monthLabel(key), Income: decimal.Zero, Expense: decimal.Zero}
			months[key] = p
		}
		return p
	}
	for _, i := range income {
		if p := point(i.Date); p != nil {
			p.Income = p.Income.Add(i.Amount)
		}
	}
	for _, e := range expenses {
		if p := point(e.Date); p != nil {
			p.Expense = p.Expense.Add(e.Amount)
		}
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]MonthPoint, 0, len(keys))
	for _, k := range keys {
		p := months[k]
		p.Net = p.Income.Sub(p.Expense)
		out = append(out, *p)
	}
	return out
}

func monthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}
