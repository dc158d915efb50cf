package health

import (
	"bytes"
	"html/template"
	"sort"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Offerings API · Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    body { font-family: system-ui, sans-serif; background: #f6f7f5; color: #1f2d24; margin: 0; padding: 40px; }
    h1 { font-size: 40px; margin: 0 0 24px; }
    .issue { color: #b91c1c; }
    .grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 24px; }
    .card { background: #fff; border-radius: 16px; padding: 24px; box-shadow: 0 10px 30px rgba(0,0,0,0.05); }
    .label { text-transform: uppercase; font-size: 11px; letter-spacing: 2px; color: #8a948d; margin-bottom: 12px; }
    .row { display: flex; justify-content: space-between; padding: 6px 0; font-weight: 600; }
    .ok { color: #15803d; } .err { color: #b91c1c; }
    @media (max-width: 900px) { .grid { grid-template-columns: 1fr; } }
  </style>
</head>
<body>
  {{if eq .Status "ok"}}<h1>All Systems Operational</h1>{{else}}<h1 class="issue">System Issues Detected</h1>{{end}}
  <div class="grid">
    <div class="card">
      <div class="label">Traffic</div>
      <div class="row"><span>Requests</span><span>{{.Traffic.TotalRequests}}</span></div>
      <div class="row"><span>Failed</span><span>{{.Traffic.FailedCount}}</span></div>
      <div class="row"><span>Success Rate</span><span>{{.Traffic.SuccessRate}}%</span></div>
      <div class="row"><span>Avg Latency</span><span>{{.Traffic.AvgResponseTime}}ms</span></div>
    </div>
    <div class="card">
      <div class="label">Runtime</div>
      <div class="row"><span>Uptime</span><span>{{.Runtime.UptimeSeconds}}s</span></div>
      <div class="row"><span>Heap Used</span><span>{{.Runtime.Memory.HeapUsed}} MB</span></div>
      <div class="row"><span>Goroutines</span><span>{{.Runtime.Goroutines}}</span></div>
      <div class="row"><span>Go</span><span>{{.Runtime.GoVersion}}</span></div>
    </div>
    <div class="card">
      <div class="label">Dependencies</div>
      {{range .Deps}}<div class="row"><span>{{.Name}}</span><span class="{{if eq .Status "connected"}}ok{{else}}err{{end}}">{{.Status}}{{with .PingMs}} · {{.}} ms{{end}}</span></div>
      {{end}}
    </div>
  </div>
  <script>setTimeout(() => location.reload(), 10000)</script>
</body>
</html>`))

type namedDep struct {
	Name   string
	Status string
	PingMs *int64
}

// RenderDashboardHTML renders the status page served on GET /.
func RenderDashboardHTML(h CollectResult) (string, error) {
	deps := make([]namedDep, 0, len(h.Dependencies))
	for name, d := range h.Dependencies {
		deps = append(deps, namedDep{Name: name, Status: d.Status, PingMs: d.PingMs})
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })

	var buf bytes.Buffer
	err := dashboardTmpl.Execute(&buf, struct {
		CollectResult
		Deps []namedDep
	}{h, deps})
	return buf.String(), err
}
