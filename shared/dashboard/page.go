package dashboard

const indexPage = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>aws-edge-audit dashboard</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
  <style>
    body { font-family: sans-serif; margin: 24px; color: #1f2937; }
    h1 { margin: 0 0 12px; }
    .meta { margin-bottom: 16px; color: #6b7280; }
    .panel { border: 1px solid #e5e7eb; border-radius: 10px; padding: 16px; margin-bottom: 16px; }
    .charts { display: grid; grid-template-columns: repeat(auto-fit, minmax(420px, 1fr)); gap: 16px; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { border: 1px solid #e5e7eb; padding: 8px; text-align: left; }
    th { background: #f9fafb; }
    tr.clickable { cursor: pointer; }
    tr.clickable:hover { background: #eff6ff; }
    .error { color: #b91c1c; white-space: pre-wrap; }
  </style>
</head>
<body>
  <h1>AWS Edge Audit Dashboard</h1>
  <div class="meta">Sources: <code>/api/trends</code>, <code>/api/audits</code>, <code>/api/findings</code></div>
  <div class="charts">
    <div class="panel"><h3>WAF coverage (%)</h3><canvas id="coverage" height="120"></canvas></div>
    <div class="panel"><h3>Findings</h3><canvas id="findings" height="120"></canvas></div>
  </div>
  <div class="panel">
    <h3>Recent audits</h3>
    <div id="audits">Loading...</div>
  </div>
  <div class="panel">
    <h3>Findings of selected audit</h3>
    <div id="audit-findings"><em>Select an audit above.</em></div>
  </div>
  <script>
    function esc(s) {
      return String(s == null ? '' : s).replace(/[&<>"']/g, c => ({'&':'&amp;','<':'&lt;','>':'&gt;','"':'&quot;',"'":'&#39;'}[c]));
    }

    function getJSON(url) {
      return fetch(url).then(r => {
        if (!r.ok) throw new Error('HTTP ' + r.status);
        return r.json();
      });
    }

    function byAccount(rows, field) {
      const accounts = [...new Set(rows.map(r => r.account_id))];
      return accounts.map(a => ({
        label: a,
        data: rows.filter(r => r.account_id === a).map(r => ({ x: r.date, y: r[field] }))
      }));
    }

    function lineChart(id, datasets, yMax) {
      if (typeof Chart !== 'function') return;
      new Chart(document.getElementById(id), {
        type: 'line',
        data: { datasets: datasets },
        options: {
          parsing: { xAxisKey: 'x', yAxisKey: 'y' },
          scales: { x: { type: 'category' }, y: { beginAtZero: true, max: yMax } }
        }
      });
    }

    function loadFindings(auditID) {
      const wrap = document.getElementById('audit-findings');
      wrap.innerHTML = 'Loading...';
      getJSON('/api/findings?audit_id=' + auditID).then(rows => {
        if (rows.length === 0) { wrap.innerHTML = '<em>No findings.</em>'; return; }
        let html = '<table><thead><tr><th>Severity</th><th>Status</th><th>Type</th><th>Resource</th><th>Description</th></tr></thead><tbody>';
        for (const f of rows) {
          html += '<tr><td>' + esc(f.severity) + '</td><td>' + esc(f.status) + '</td><td>' + esc(f.type) +
            '</td><td>' + esc(f.resource) + '</td><td>' + esc(f.description) + '</td></tr>';
        }
        wrap.innerHTML = html + '</tbody></table>';
      }).catch(err => { wrap.innerHTML = '<div class="error">' + esc(err.message) + '</div>'; });
    }

    getJSON('/api/trends').then(rows => {
      lineChart('coverage', byAccount(rows, 'waf_coverage_rate'), 100);
      lineChart('findings', byAccount(rows, 'total'));
    }).catch(err => {
      document.getElementById('coverage').outerHTML = '<div class="error">Failed to load trends: ' + esc(err.message) + '</div>';
    });

    getJSON('/api/audits').then(rows => {
      const wrap = document.getElementById('audits');
      if (rows.length === 0) { wrap.innerHTML = '<em>No audits stored yet. Run correlate --store.</em>'; return; }
      let html = '<table><thead><tr><th>ID</th><th>Time</th><th>Account</th><th>High</th><th>Medium</th><th>Low</th><th>Coverage</th></tr></thead><tbody>';
      for (const a of rows) {
        html += '<tr class="clickable" data-id="' + a.audit_id + '"><td>' + a.audit_id + '</td><td>' + esc(a.audit_timestamp) +
          '</td><td>' + esc(a.account_id) + '</td><td>' + a.high_count + '</td><td>' + a.medium_count + '</td><td>' + a.low_count +
          '</td><td>' + a.waf_coverage_rate.toFixed(2) + '%</td></tr>';
      }
      wrap.innerHTML = html + '</tbody></table>';
      wrap.querySelectorAll('tr.clickable').forEach(tr => tr.addEventListener('click', () => loadFindings(tr.dataset.id)));
    }).catch(err => {
      document.getElementById('audits').innerHTML = '<div class="error">Failed to load audits: ' + esc(err.message) + '</div>';
    });
  </script>
</body>
</html>`
