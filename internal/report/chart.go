package report

import (
	"bytes"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNoChartData = errors.New("report: no monthly data to chart")

const (
	chartHeight   = 600
	minChartWidth = 900
	monthWidth    = 110
)

var (
	incomeColor  = drawing.Color{R: 0x4b, G: 0xc0, B: 0xc0, A: 0xff}
	expenseColor = drawing.Color{R: 0xff, G: 0x63, B: 0x84, A: 0xff}
	netColor     = drawing.Color{R: 0x36, G: 0xa2, B: 0xeb, A: 0xff}
)

// RenderChart draws income, expense and net per month with month labels on
// the x axis, Birr values on the y axis and a legend, encoded as PNG.
func RenderChart(points []MonthPoint) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoChartData
	}

	n := len(points)
	xs := make([]float64, n)
	income := make([]float64, n)
	expense := make([]float64, n)
	net := make([]float64, n)
	ticks := make([]chart.Tick, n)
	lo, hi := 0.0, 0.0
	for i, p := range points {
		xs[i] = float64(i)
		income[i] = p.Income.InexactFloat64()
		expense[i] = p.Expense.InexactFloat64()
		net[i] = p.Net.InexactFloat64()
		ticks[i] = chart.Tick{Value: float64(i), Label: p.Label}
		for _, v := range []float64{income[i], expense[i], net[i]} {
			lo, hi = min(lo, v), max(hi, v)
		}
	}
	if hi == lo {
		// a flat range cannot be scaled
		hi = lo + 1
	}

	graph := chart.Chart{
		Title:  "Monthly income, expenses and net",
		Width:  max(minChartWidth, n*monthWidth),
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Month",
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
		},
		YAxis: chart.YAxis{
			Name:  "Birr",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return decimal.NewFromFloat(f).StringFixed(0)
				}
				return ""
			},
		},
		Series: []chart.Series{
			monthSeries("Income", xs, income, incomeColor),
			monthSeries("Expense", xs, expense, expenseColor),
			monthSeries("Net", xs, net, netColor),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func monthSeries(name string, xs, ys []float64, c drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name: name,
		Style: chart.Style{
			StrokeColor: c,
			StrokeWidth: 3,
			DotColor:    c,
			DotWidth:    5,
		},
		XValues: xs,
		YValues: ys,
	}
}
