package htmloutput

// htmlTemplate is the embedded template of the correlation report.
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>AWS Edge Security Audit - {{.GeneratedAt}}</title>
    <script src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        :root {
            --bg-primary: #0d1117;
            --bg-secondary: #161b22;
            --bg-tertiary: #21262d;
            --text-primary: #f0f6fc;
            --text-secondary: #8b949e;
            --border-color: #30363d;
            --high: #db6d28;
            --medium: #d29922;
            --low: #3fb950;
            --info: #58a6ff;
        }

        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
            background: var(--bg-primary);
            color: var(--text-primary);
            line-height: 1.6;
            padding: 20px;
        }

        .container { max-width: 1400px; margin: 0 auto; }

        header {
            text-align: center;
            padding: 40px 20px;
            background: linear-gradient(135deg, var(--bg-secondary) 0%, var(--bg-tertiary) 100%);
            border-radius: 16px;
            margin-bottom: 30px;
            border: 1px solid var(--border-color);
        }

        header h1 {
            font-size: 2.5em;
            margin-bottom: 10px;
            background: linear-gradient(90deg, #58a6ff, #3fb950);
            -webkit-background-clip: text;
            -webkit-text-fill-color: transparent;
            background-clip: text;
        }

        .meta { color: var(--text-secondary); font-size: 0.9em; }

        .summary-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
            gap: 20px;
            margin-bottom: 30px;
        }

        .summary-card {
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 12px;
            padding: 24px;
            text-align: center;
        }

        .summary-card.high { border-left: 4px solid var(--high); }
        .summary-card.medium { border-left: 4px solid var(--medium); }
        .summary-card.low { border-left: 4px solid var(--low); }
        .summary-card.score { border-left: 4px solid var(--info); }

        .summary-card h3 {
            color: var(--text-secondary);
            font-size: 0.85em;
            text-transform: uppercase;
            letter-spacing: 1px;
            margin-bottom: 10px;
        }

        .summary-card .value { font-size: 2.2em; font-weight: 700; }
        .summary-card.high .value { color: var(--high); }
        .summary-card.medium .value { color: var(--medium); }
        .summary-card.low .value { color: var(--low); }
        .summary-card.score .value { color: var(--info); }

        .section {
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 12px;
            margin-bottom: 20px;
            overflow: hidden;
        }

        .section-header {
            padding: 20px 24px;
            cursor: pointer;
            display: flex;
            justify-content: space-between;
            align-items: center;
            background: var(--bg-tertiary);
        }

        .section-header h2 { font-size: 1.2em; }
        .section-toggle { font-size: 1.5em; color: var(--text-secondary); transition: transform 0.3s; }
        .section.collapsed .section-toggle { transform: rotate(-90deg); }
        .section-content { padding: 24px; }
        .section.collapsed .section-content { display: none; }

        #network { height: 600px; background: var(--bg-primary); border-radius: 8px; }

        .legend span { display: inline-block; margin-right: 18px; color: var(--text-secondary); font-size: 0.9em; }
        .legend i { display: inline-block; width: 12px; height: 12px; border-radius: 50%; margin-right: 6px; vertical-align: middle; }

        .tree ul { list-style: none; padding-left: 22px; border-left: 1px dashed var(--border-color); }
        .tree > ul { border-left: none; padding-left: 0; }
        .tree li { padding: 2px 0; }

        .charts { display: grid; grid-template-columns: repeat(auto-fit, minmax(320px, 1fr)); gap: 24px; }
        .chart-box { background: var(--bg-primary); border-radius: 8px; padding: 16px; }
        .chart-box h3 { color: var(--text-secondary); font-size: 0.9em; margin-bottom: 8px; }

        .findings-table { width: 100%; border-collapse: collapse; }

        .findings-table th {
            text-align: left;
            padding: 12px 16px;
            background: var(--bg-tertiary);
            color: var(--text-secondary);
            font-size: 0.85em;
            text-transform: uppercase;
            border-bottom: 1px solid var(--border-color);
        }

        .findings-table td { padding: 12px 16px; border-bottom: 1px solid var(--border-color); vertical-align: top; }
        .findings-table tr:hover { background: rgba(88, 166, 255, 0.05); }

        .severity-badge {
            display: inline-block;
            padding: 4px 12px;
            border-radius: 20px;
            font-size: 0.75em;
            font-weight: 600;
            text-transform: uppercase;
        }

        .severity-high { background: rgba(219, 109, 40, 0.2); color: var(--high); border: 1px solid var(--high); }
        .severity-medium { background: rgba(210, 153, 34, 0.2); color: var(--medium); border: 1px solid var(--medium); }
        .severity-low { background: rgba(63, 185, 80, 0.2); color: var(--low); border: 1px solid var(--low); }

        .resource-name { font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', monospace; font-size: 0.9em; color: var(--info); }
        .arn { color: var(--text-secondary); font-size: 0.8em; word-break: break-all; }

        .no-findings { text-align: center; padding: 40px; color: var(--text-secondary); }

        footer { text-align: center; padding: 30px; color: var(--text-secondary); font-size: 0.85em; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>🛡️ AWS Edge Security Audit</h1>
            <p class="meta">Generated: {{.GeneratedAt}}</p>
        </header>

        <div class="summary-grid">
            <div class="summary-card score">
                <h3>Posture Score</h3>
                <div class="value">{{.Score}}</div>
            </div>
            <div class="summary-card score">
                <h3>WAF Coverage</h3>
                <div class="value">{{printf "%.1f" .Report.Statistics.WAFCoverageRate}}%</div>
            </div>
            <div class="summary-card high">
                <h3>High</h3>
                <div class="value">{{.High}}</div>
            </div>
            <div class="summary-card medium">
                <h3>Medium</h3>
                <div class="value">{{.Medium}}</div>
            </div>
            <div class="summary-card low">
                <h3>Low</h3>
                <div class="value">{{.Low}}</div>
            </div>
            <div class="summary-card">
                <h3>ALBs / WAFs / DNS</h3>
                <div class="value">{{.Report.Statistics.TotalALBs}} / {{.Report.Statistics.TotalWAFs}} / {{.Report.Statistics.TotalDNSRecords}}</div>
            </div>
        </div>

        <div class="section" id="graph">
            <div class="section-header" onclick="toggleSection('graph')">
                <h2>🕸️ Network Graph</h2>
                <span class="section-toggle">▼</span>
            </div>
            <div class="section-content">
                <p class="legend">
                    <span><i style="background:{{.Colors.DNS}}"></i>DNS record</span>
                    <span><i style="background:{{.Colors.Protected}}"></i>ALB with WAF</span>
                    <span><i style="background:{{.Colors.Exposed}}"></i>Public ALB without WAF</span>
                    <span><i style="background:{{.Colors.Unprotected}}"></i>Internal ALB without WAF</span>
                    <span><i style="background:{{.Colors.WAF}}"></i>WAF ACL</span>
                </p>
                <div id="network"></div>
            </div>
        </div>

        <div class="section" id="tree">
            <div class="section-header" onclick="toggleSection('tree')">
                <h2>🌳 Resource Tree</h2>
                <span class="section-toggle">▼</span>
            </div>
            <div class="section-content tree">
                <ul>{{template "node" .Report.TreeDiagram}}</ul>
            </div>
        </div>

        <div class="section" id="dashboard">
            <div class="section-header" onclick="toggleSection('dashboard')">
                <h2>📊 Dashboard</h2>
                <span class="section-toggle">▼</span>
            </div>
            <div class="section-content charts">
                <div class="chart-box"><h3>WAF coverage</h3><canvas id="coverageChart"></canvas></div>
                <div class="chart-box"><h3>Resources by account</h3><canvas id="accountChart"></canvas></div>
                <div class="chart-box"><h3>Resources by region</h3><canvas id="regionChart"></canvas></div>
                <div class="chart-box"><h3>Load balancer types</h3><canvas id="typeChart"></canvas></div>
            </div>
        </div>

        <div class="section" id="vulnerabilities">
            <div class="section-header" onclick="toggleSection('vulnerabilities')">
                <h2>🚨 Vulnerabilities ({{len .Report.Vulnerabilities}})</h2>
                <span class="section-toggle">▼</span>
            </div>
            <div class="section-content">
                {{if .Report.Vulnerabilities}}
                <table class="findings-table">
                    <thead>
                        <tr><th>Severity</th><th>Type</th><th>Resource</th><th>Account</th><th>Region</th><th>Description</th></tr>
                    </thead>
                    <tbody>
                        {{range .Report.Vulnerabilities}}
                        <tr>
                            <td><span class="severity-badge severity-{{lower .Severity}}">{{.Severity}}</span></td>
                            <td>{{.Type}}</td>
                            <td>
                                <span class="resource-name">{{.Resource}}</span>
                                {{if .ARN}}<div class="arn">{{.ARN}}</div>{{end}}
                                {{if .Target}}<div class="arn">→ {{.Target}}</div>{{end}}
                            </td>
                            <td>{{.AccountID}}</td>
                            <td>{{.Region}}</td>
                            <td>{{.Description}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
                {{else}}
                <div class="no-findings"><p>✅ No vulnerabilities found</p></div>
                {{end}}
            </div>
        </div>

        <div class="section" id="warnings">
            <div class="section-header" onclick="toggleSection('warnings')">
                <h2>⚠️ Warnings ({{len .Report.Warnings}})</h2>
                <span class="section-toggle">▼</span>
            </div>
            <div class="section-content">
                {{if .Report.Warnings}}
                <table class="findings-table">
                    <thead><tr><th>Type</th><th>Message</th></tr></thead>
                    <tbody>
                        {{range .Report.Warnings}}
                        <tr><td>{{.Type}}</td><td>{{.Message}}</td></tr>
                        {{end}}
                    </tbody>
                </table>
                {{else}}
                <div class="no-findings"><p>✅ WAF and ALB declarations are consistent</p></div>
                {{end}}
            </div>
        </div>

        <footer>
            <p>Generated by aws-edge-audit {{.Version}}</p>
        </footer>
    </div>

    <script>
        const graphData = {{.Report.NetworkGraph}};
        const dashboard = {{.Report.Dashboard}};

        function toggleSection(id) {
            document.getElementById(id).classList.toggle('collapsed');
        }

        function nodeTitle(n) {
            const lines = [n.type.toUpperCase() + ': ' + n.label];
            for (const [k, v] of Object.entries(n.details || {})) {
                if (v !== '' && v !== false && v !== 0) lines.push(k + ': ' + v);
            }
            return lines.join('\n');
        }

        if (typeof vis !== 'undefined') {
            const shapes = { dns: 'dot', alb: 'box', waf: 'diamond' };
            const nodes = new vis.DataSet((graphData.nodes || []).map(n => ({
                id: n.id, label: n.label, color: n.color, shape: shapes[n.type] || 'dot',
                title: nodeTitle(n), font: { color: '#f0f6fc' }
            })));
            const edges = new vis.DataSet((graphData.edges || []).map(e => ({
                from: e.source, to: e.target, label: e.label, arrows: 'to',
                dashes: e.confidence !== 'confirmed', font: { color: '#8b949e', strokeWidth: 0 }
            })));
            new vis.Network(document.getElementById('network'), { nodes, edges }, {
                layout: { hierarchical: { direction: 'LR', sortMethod: 'directed' } },
                physics: false
            });
        } else {
            document.getElementById('network').innerText = 'vis-network failed to load.';
        }

        if (typeof Chart === 'function') {
            const text = { color: '#8b949e' };
            const accounts = dashboard.by_account || [];
            const regions = dashboard.by_region || [];
            new Chart(document.getElementById('coverageChart'), {
                type: 'doughnut',
                data: {
                    labels: ['Protected', 'Unprotected'],
                    datasets: [{ data: [dashboard.waf_coverage.protected, dashboard.waf_coverage.unprotected], backgroundColor: ['#2196F3', '#F44336'] }]
                },
                options: { plugins: { legend: { labels: text } } }
            });
            new Chart(document.getElementById('accountChart'), {
                type: 'bar',
                data: {
                    labels: accounts.map(a => a.account_id),
                    datasets: [
                        { label: 'ALBs', data: accounts.map(a => a.alb_count), backgroundColor: '#2196F3' },
                        { label: 'WAF ACLs', data: accounts.map(a => a.waf_count), backgroundColor: '#FF9800' },
                        { label: 'DNS', data: accounts.map(a => a.dns_count), backgroundColor: '#4CAF50' }
                    ]
                },
                options: { plugins: { legend: { labels: text } }, scales: { x: { ticks: text }, y: { ticks: text, beginAtZero: true } } }
            });
            new Chart(document.getElementById('regionChart'), {
                type: 'bar',
                data: {
                    labels: regions.map(r => r.region),
                    datasets: [
                        { label: 'ALBs', data: regions.map(r => r.alb_count), backgroundColor: '#2196F3' },
                        { label: 'WAF ACLs', data: regions.map(r => r.waf_count), backgroundColor: '#FF9800' }
                    ]
                },
                options: { plugins: { legend: { labels: text } }, scales: { x: { ticks: text }, y: { ticks: text, beginAtZero: true } } }
            });
            new Chart(document.getElementById('typeChart'), {
                type: 'pie',
                data: {
                    labels: ['Application', 'Network'],
                    datasets: [{ data: [dashboard.by_type.application, dashboard.by_type.network], backgroundColor: ['#58a6ff', '#d29922'] }]
                },
                options: { plugins: { legend: { labels: text } } }
            });
        }
    </script>
</body>
</html>
{{define "node"}}<li>{{.Name}}{{if .Children}}<ul>{{range .Children}}{{template "node" .}}{{end}}</ul>{{end}}</li>{{end}}`
