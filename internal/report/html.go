package report

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"RiskPulse/internal/domain/models"
)

// summaryTmpl is the compact HTML fragment embedded in the email report.
// It only formats what the analysis already holds; no scores are re-derived.
var summaryTmpl = template.Must(template.New("summary").Parse(`<h2>Overall recommendation: <strong>{{.Overall}}</strong></h2>
<p>Composite portfolio risk: {{printf "%.2f" .PortfolioRisk}}</p>
<h3>Per-asset recommendations:</h3>
<ul>
{{- range .Assets}}
<li><strong>{{.AssetID}}</strong>: {{.Recommendation}} (risk {{printf "%.2f" .Risk}})</li>
{{- end}}
</ul>
`))

type summaryData struct {
	Overall       models.Recommendation
	PortfolioRisk float64
	Assets        []models.RiskRecord
}

// RenderSummary builds the email HTML for one analysis, assets ranked by
// ascending risk so the safest holdings lead the list.
func RenderSummary(a *models.Analysis) ([]byte, error) {
	ranked := append([]models.RiskRecord(nil), a.Records...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Risk < ranked[j].Risk })

	var buf bytes.Buffer
	err := summaryTmpl.Execute(&buf, summaryData{
		Overall:       a.PortfolioRec,
		PortfolioRisk: a.PortfolioRisk,
		Assets:        ranked,
	})
	if err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}
	return buf.Bytes(), nil
}
