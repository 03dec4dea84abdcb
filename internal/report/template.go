// internal/report/template.go
package report

const reportTemplate = `# Dry Ice Inventory Analysis Report

**Period:** {{.Period}}
**Generated:** {{.GeneratedAt.Format "2006-01-02 15:04"}}

## Key Performance Indicators

| Metric | Value |
|---|---|
| Total orders | {{.KPIs.TotalOrders}} |
| Total volume | {{printf "%.1f" .KPIs.TotalVolume}} kg |
| Average order size | {{printf "%.1f" .KPIs.AvgOrderSize}} kg |
| Order size std dev | {{printf "%.1f" .KPIs.StdOrderSize}} kg |
| Average monthly demand | {{printf "%.1f" .KPIs.AvgMonthlyDemand}} kg |
| Current monthly volume | {{printf "%.1f" .KPIs.CurrentMonthlyVolume}} kg |
| Order frequency | {{printf "%.1f" .KPIs.OrderFrequency}} / month |
| Container utilization | {{printf "%.1f" (mulf .KPIs.ContainerUtilization 100)}}% |
| Total cost | KSh {{printf "%.2f" .KPIs.TotalCost}} |
| Average cost per order | KSh {{printf "%.2f" .KPIs.AvgCostPerOrder}} |

## Inventory Policy

EOQ = sqrt(2 x D x S / (h x c)) with D = {{printf "%.1f" .KPIs.AvgMonthlyDemand}} kg/month,
S = KSh {{printf "%.2f" .Params.TransportCost}}, h = {{printf "%.2f" .Params.HoldingRate}},
c = KSh {{printf "%.2f" .Params.PricePerKg}}/kg.

| Quantity | kg |
|---|---|
| Economic order quantity | {{printf "%.1f" .Policy.EOQ}} |
| Safety stock ({{printf "%.0f" (mulf .Params.ServiceLevel 100)}}% service level) | {{printf "%.1f" .Policy.SafetyStock}} |
| Reorder point | {{printf "%.1f" .Policy.ReorderPoint}} |

## Cost Comparison

| Scenario | Monthly cost |
|---|---|
| Current ordering pattern | KSh {{printf "%.2f" .Policy.CurrentCost}} |
| EOQ ordering pattern | KSh {{printf "%.2f" .Policy.EOQCost}} |
| Savings | KSh {{printf "%.2f" .Policy.Savings}} ({{printf "%.1f" .Policy.PercentSavings}}%) |

## Stock Position

Current stock: {{printf "%.1f" .Stock.CurrentStock}} kg ({{.Stock.Status}})
{{- if .ActiveAlerts}}

### Active Alerts
{{range .ActiveAlerts}}
- [{{.Priority}}] {{.Type}}: {{.Message}}
{{- end}}
{{- end}}

## Demand Forecast
{{if .Forecast.Available}}
Model: {{.Forecast.Model}}, horizon {{len .Forecast.Points}} days.

| Date | Forecast (kg) | 80% band | 95% band |
|---|---|---|---|
{{- range .Forecast.Points}}
| {{.Date.Format "2006-01-02"}} | {{printf "%.1f" .Value}} | {{printf "%.1f" .Lower80}} - {{printf "%.1f" .Upper80}} | {{printf "%.1f" .Lower95}} - {{printf "%.1f" .Upper95}} |
{{- end}}
{{else}}
No forecast available for this period.
{{end}}

## Recommendations
{{range .Advice}}
- {{.}}
{{- end}}
`
