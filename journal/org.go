package journal

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"
)

// RunSummary is everything needed to write an org-mode summary of one
// simulation run.
type RunSummary struct {
	RunID    string
	Created  time.Time
	Symbol   string
	Strategy string
	Dataset  string

	Start time.Time
	End   time.Time

	InitialCapital float64
	FinalEquity    float64

	Trades int
	Wins   int
	Losses int

	TotalReturnPct  float64
	AnnualReturnPct float64
	MaxDrawdownPct  float64
	SharpeRatio     float64
	WinRatePct      float64

	TotalCost float64

	Notes       []string
	NextActions []string
}

// FormatTradeOrg renders one trade as an org-mode block with the structured
// facts in a PROPERTIES drawer and empty narrative sections to fill in.
func FormatTradeOrg(t TradeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s (%s)\n", t.Symbol, shortID(t.TradeID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.TradeID)
	fmt.Fprintf(&b, ":SYMBOL: %s\n", t.Symbol)
	fmt.Fprintf(&b, ":SIDE: %s\n", t.Side)
	fmt.Fprintf(&b, ":AMOUNT: %.6f\n", t.Amount)
	fmt.Fprintf(&b, ":ENTRY_PRICE: %.5f\n", t.EntryPrice)
	fmt.Fprintf(&b, ":EXIT_PRICE: %.5f\n", t.ExitPrice)
	fmt.Fprintf(&b, ":OPEN_TIME: %s\n", t.OpenTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":CLOSE_TIME: %s\n", t.CloseTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":REALIZED_PL: %.2f\n", t.RealizedPL)
	fmt.Fprintf(&b, ":REASON: %s\n", t.Reason)
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Review\n- \n")
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

var orgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

// WriteOrg renders the run summary as an org-mode block and writes it to path.
func (v *RunSummary) WriteOrg(path string) error {
	t, err := template.New("run").Funcs(orgFuncs).Parse(runOrgTemplate)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, v); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

const runOrgTemplate = `
* RUN: {{.Strategy}} {{.Symbol}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    {{.Strategy}}
:SYMBOL:      {{.Symbol}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:CAPITAL:     {{printf "%.2f" .InitialCapital}}
:FINAL_EQ:    {{printf "%.2f" .FinalEquity}}
:RETURN_PCT:  {{printf "%.2f" .TotalReturnPct}}
:ANNUAL_PCT:  {{printf "%.2f" .AnnualReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDrawdownPct}}
:SHARPE:      {{printf "%.2f" .SharpeRatio}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{printf "%.2f" .WinRatePct}}
:TOTAL_COST:  {{printf "%.2f" .TotalCost}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Total Return:   *{{printf "%.2f" .TotalReturnPct}}%*
- Annual Return:  *{{printf "%.2f" .AnnualReturnPct}}%*
- Max Drawdown:   *{{printf "%.2f" .MaxDrawdownPct}}%*
- Sharpe Ratio:   *{{printf "%.2f" .SharpeRatio}}*
- Win Rate:       *{{printf "%.2f" .WinRatePct}}%*
- Trading Cost:   *{{printf "%.2f" .TotalCost}}*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |

{{- if .Notes }}
** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}

{{- if .NextActions }}
** Notes / Next Actions
{{- range .NextActions }}
- [ ] {{.}}
{{- end }}
{{- end }}
`
