package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func serveDashboard(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, dashboardHTML)
}

const dashboardHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>VibeCoding-Bench PR Dashboard</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/gh/highlightjs/cdn-release@11/build/styles/github.min.css">
  <style>
    :root {
      --bg: #f7f4ef;
      --ink: #1b1b1b;
      --muted: #6b6b6b;
      --card: #ffffff;
      --accent: #0c3b2e;
      --accent-2: #c8a26b;
      --border: #e1d9ce;
      --add-bg: #e8f5ee;
      --del-bg: #fbecec;
      --meta-bg: #f0ece4;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      font-family: "Segoe UI", "Helvetica Neue", Arial, sans-serif;
      color: var(--ink);
      background: linear-gradient(180deg, #f7f4ef 0%, #f1ebe3 60%, #f4f0ea 100%);
    }
    header {
      padding: 24px 32px;
      border-bottom: 1px solid var(--border);
      background: #fffaf3;
      position: sticky;
      top: 0;
      z-index: 10;
    }
    h1 { margin: 0; font-size: 22px; letter-spacing: 0.5px; }
    .filters {
      margin-top: 12px;
      display: flex;
      flex-wrap: wrap;
      gap: 12px;
      align-items: center;
      font-size: 13px;
    }
    .filters input[type="text"],
    .filters input[type="date"] {
      padding: 6px 8px;
      border: 1px solid var(--border);
      border-radius: 6px;
      background: #fff;
    }
    .filters input[type="text"] { min-width: 220px; }
    .filters button, .upload-label {
      padding: 7px 12px;
      border: none;
      border-radius: 6px;
      background: var(--accent);
      color: #fff;
      cursor: pointer;
      font-size: 13px;
    }
    .upload-label input { display: none; }
    .layout {
      padding: 24px 32px 40px;
      display: grid;
      gap: 16px;
    }
    .cards {
      display: grid;
      gap: 12px;
      grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
    }
    .card {
      background: var(--card);
      border: 1px solid var(--border);
      border-radius: 10px;
      padding: 14px 16px;
      box-shadow: 0 4px 12px rgba(0,0,0,0.04);
    }
    .card .label { color: var(--muted); font-size: 12px; }
    .card .value { font-size: 22px; margin-top: 6px; }
    .grid {
      display: grid;
      gap: 16px;
      grid-template-columns: repeat(auto-fit, minmax(320px, 1fr));
    }
    .panel {
      background: var(--card);
      border: 1px solid var(--border);
      border-radius: 10px;
      padding: 12px 14px;
    }
    .panel h3 { margin: 0 0 8px 0; font-size: 14px; color: var(--muted); }
    #filesChart, #changesChart, #reposChart, #timelineChart { height: 260px; }
    .repo-filter {
      max-height: 160px;
      overflow-y: auto;
      display: flex;
      flex-direction: column;
      gap: 4px;
      font-size: 13px;
    }
    .repo-filter label { cursor: pointer; }
    .muted { color: var(--muted); }
    .record-list {
      display: grid;
      gap: 10px;
      max-height: 560px;
      overflow-y: auto;
      padding-right: 4px;
    }
    .record-card {
      border: 1px solid var(--border);
      border-radius: 8px;
      background: #fffdfa;
      padding: 10px 12px;
      cursor: pointer;
    }
    .record-card:hover { border-color: var(--accent-2); }
    .record-card .summary { font-size: 13px; margin-bottom: 6px; }
    .tag {
      display: inline-block;
      padding: 2px 8px;
      border-radius: 999px;
      border: 1px solid var(--border);
      background: #fff;
      font-size: 11px;
      margin-right: 6px;
      color: var(--muted);
    }
    .tag.ftp { border-color: var(--accent); color: var(--accent); }
    .file-names { font-size: 11px; color: var(--muted); margin-top: 6px; }
    .modal-backdrop {
      display: none;
      position: fixed;
      inset: 0;
      background: rgba(27,27,27,0.45);
      z-index: 20;
    }
    .modal-backdrop.open { display: block; }
    .modal {
      position: fixed;
      inset: 4% 8%;
      background: var(--card);
      border-radius: 12px;
      border: 1px solid var(--border);
      z-index: 21;
      display: none;
      flex-direction: column;
      overflow: hidden;
    }
    .modal.open { display: flex; }
    .modal-head {
      display: flex;
      align-items: center;
      gap: 10px;
      padding: 12px 16px;
      border-bottom: 1px solid var(--border);
      background: #fffaf3;
    }
    .modal-head h2 { margin: 0; font-size: 16px; flex: 1; }
    .font-btn, .close-btn {
      padding: 4px 10px;
      border: 1px solid var(--border);
      border-radius: 6px;
      background: #fff;
      cursor: pointer;
      font-size: 12px;
    }
    .modal-body { padding: 16px; overflow-y: auto; }
    .tiles {
      display: grid;
      gap: 10px;
      grid-template-columns: repeat(auto-fit, minmax(140px, 1fr));
      margin: 12px 0;
    }
    .tile {
      padding: 10px 12px;
      border: 1px solid var(--border);
      border-radius: 8px;
      background: #fffdfa;
    }
    .tile .label { color: var(--muted); font-size: 11px; }
    .tile .value { font-size: 18px; margin-top: 4px; }
    .desc {
      border: 1px solid var(--border);
      border-radius: 8px;
      padding: 12px;
      background: #fff;
    }
    .diff-file { margin-top: 14px; border: 1px solid var(--border); border-radius: 8px; overflow: hidden; }
    .diff-file-head {
      padding: 8px 10px;
      font-size: 12px;
      background: var(--meta-bg);
      display: flex;
      justify-content: space-between;
      font-family: ui-monospace, Menlo, Consolas, monospace;
    }
    .diff-lines {
      font-family: ui-monospace, Menlo, Consolas, monospace;
      overflow-x: auto;
      background: #fff;
    }
    .diff-line { padding: 0 10px; white-space: pre; }
    .diff-line.addition { background: var(--add-bg); }
    .diff-line.removal { background: var(--del-bg); }
    .diff-line.meta { background: var(--meta-bg); color: var(--muted); }
    .meta-block {
      margin-top: 16px;
      font-size: 12px;
      color: var(--muted);
      display: grid;
      gap: 4px;
    }
    .toast {
      position: fixed;
      bottom: 24px;
      right: 24px;
      padding: 12px 16px;
      background: #7a1f1f;
      color: #fff;
      border-radius: 8px;
      font-size: 13px;
      z-index: 30;
      display: none;
    }
    .toast.show { display: block; }
    @media (max-width: 720px) {
      header { padding: 18px; }
      .layout { padding: 18px; }
      .modal { inset: 2% 3%; }
    }
  </style>
</head>
<body>
  <header>
    <h1>VibeCoding-Bench PR Dashboard</h1>
    <div class="filters">
      <label class="upload-label">Load JSON
        <input type="file" id="fileInput" accept=".json,application/json" multiple>
      </label>
      <input type="text" id="queryInput" placeholder="Search problem statement...">
      <label>From <input type="date" id="fromInput"></label>
      <label>To <input type="date" id="toInput"></label>
      <label><input type="checkbox" id="ftpToggle"> Fail-to-pass only</label>
      <span class="muted" id="countLabel"></span>
    </div>
  </header>

  <div class="layout">
    <div class="cards">
      <div class="card"><div class="label">Total Records</div><div class="value" id="totalRecords">-</div></div>
      <div class="card"><div class="label">Fail-to-Pass Records</div><div class="value" id="ftpRecords">-</div></div>
      <div class="card"><div class="label">Fail-to-Pass Repos</div><div class="value" id="ftpRepos">-</div></div>
      <div class="card"><div class="label">Total Repos</div><div class="value" id="totalRepos">-</div></div>
    </div>

    <div class="grid">
      <div class="panel">
        <h3>Files Changed per Record</h3>
        <div id="filesChart"></div>
      </div>
      <div class="panel">
        <h3>Change Volume</h3>
        <div id="changesChart"></div>
      </div>
      <div class="panel">
        <h3>Records per Repository</h3>
        <div id="reposChart"></div>
      </div>
      <div class="panel">
        <h3>Monthly Timeline</h3>
        <div id="timelineChart"></div>
      </div>
    </div>

    <div class="grid">
      <div class="panel">
        <h3>Repositories</h3>
        <div class="repo-filter" id="repoFilter"></div>
      </div>
      <div class="panel" style="grid-column: span 2;">
        <h3>Records</h3>
        <div class="record-list" id="recordList"></div>
      </div>
    </div>
  </div>

  <div class="modal-backdrop" id="modalBackdrop"></div>
  <div class="modal" id="modal">
    <div class="modal-head">
      <h2 id="modalTitle">Record</h2>
      <button class="font-btn" id="fontDown">A-</button>
      <span class="muted" id="fontSizeLabel">14</span>
      <button class="font-btn" id="fontUp">A+</button>
      <button class="close-btn" id="modalClose">Close</button>
    </div>
    <div class="modal-body" id="modalBody"></div>
  </div>

  <div class="toast" id="toast"></div>

  <script src="https://cdn.jsdelivr.net/npm/echarts@5/dist/echarts.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/marked/marked.min.js"></script>
  <script src="https://cdn.jsdelivr.net/gh/highlightjs/cdn-release@11/build/highlight.min.js"></script>
  <script>
    const els = {
      fileInput: document.getElementById('fileInput'),
      query: document.getElementById('queryInput'),
      from: document.getElementById('fromInput'),
      to: document.getElementById('toInput'),
      ftp: document.getElementById('ftpToggle'),
      countLabel: document.getElementById('countLabel'),
      totalRecords: document.getElementById('totalRecords'),
      ftpRecords: document.getElementById('ftpRecords'),
      ftpRepos: document.getElementById('ftpRepos'),
      totalRepos: document.getElementById('totalRepos'),
      repoFilter: document.getElementById('repoFilter'),
      recordList: document.getElementById('recordList'),
      modal: document.getElementById('modal'),
      modalBackdrop: document.getElementById('modalBackdrop'),
      modalTitle: document.getElementById('modalTitle'),
      modalBody: document.getElementById('modalBody'),
      modalClose: document.getElementById('modalClose'),
      fontUp: document.getElementById('fontUp'),
      fontDown: document.getElementById('fontDown'),
      fontSizeLabel: document.getElementById('fontSizeLabel'),
      toast: document.getElementById('toast')
    };

    const charts = { files: null, changes: null, repos: null, timeline: null };
    const FONT_MIN = 10, FONT_MAX = 24, FONT_DEFAULT = 14;
    let fontSize = FONT_DEFAULT;
    let toastTimer = null;

    function esc(value) {
      return String(value == null ? '' : value)
        .replace(/&/g, '&amp;')
        .replace(/</g, '&lt;')
        .replace(/>/g, '&gt;')
        .replace(/"/g, '&quot;');
    }

    function showToast(message) {
      els.toast.textContent = message;
      els.toast.classList.add('show');
      if (toastTimer) clearTimeout(toastTimer);
      toastTimer = setTimeout(() => els.toast.classList.remove('show'), 3000);
    }

    async function fetchJSON(path, options) {
      const res = await fetch(path, options);
      const body = await res.json().catch(() => ({}));
      if (!res.ok) throw new Error(body.message || ('Request failed: ' + res.status));
      return body;
    }

    function buildQuery() {
      const params = new URLSearchParams();
      const q = els.query.value.trim();
      if (q) params.set('q', q);
      if (els.from.value) params.set('from', els.from.value);
      if (els.to.value) params.set('to', els.to.value);
      if (els.ftp.checked) params.set('fail_to_pass', '1');
      els.repoFilter.querySelectorAll('input:checked').forEach(box => {
        params.append('repo', box.value);
      });
      return params.toString();
    }

    function renderSummary(data) {
      els.totalRecords.textContent = data.total_records;
      els.ftpRecords.textContent = data.fail_to_pass_records;
      els.ftpRepos.textContent = data.fail_to_pass_repos;
      els.totalRepos.textContent = data.total_repos;
    }

    function resetChart(key, elementId) {
      if (charts[key]) {
        charts[key].dispose();
        charts[key] = null;
      }
      const el = document.getElementById(elementId);
      if (!el) return null;
      charts[key] = echarts.init(el);
      return charts[key];
    }

    function renderDoughnut(key, elementId, payload) {
      const chart = resetChart(key, elementId);
      if (!chart) return;
      const data = payload.labels.map((label, i) => ({
        name: label,
        value: payload.datasets[0].data[i]
      }));
      chart.setOption({
        tooltip: { trigger: 'item' },
        legend: { bottom: 0, textStyle: { color: '#6b6b6b', fontSize: 11 } },
        series: [{ type: 'pie', radius: ['42%', '68%'], data: data }]
      });
    }

    function renderBar(key, elementId, payload, color) {
      const chart = resetChart(key, elementId);
      if (!chart) return;
      chart.setOption({
        tooltip: { trigger: 'axis' },
        xAxis: { type: 'category', data: payload.labels, axisLabel: { color: '#6b6b6b' } },
        yAxis: { type: 'value', axisLabel: { color: '#6b6b6b' } },
        series: [{ type: 'bar', data: payload.datasets[0].data, itemStyle: { color } }]
      });
    }

    function renderHorizontalBar(key, elementId, payload) {
      const chart = resetChart(key, elementId);
      if (!chart) return;
      const labels = payload.labels.slice().reverse();
      const values = payload.datasets[0].data.slice().reverse();
      chart.setOption({
        tooltip: { trigger: 'axis' },
        grid: { left: 110 },
        xAxis: { type: 'value', axisLabel: { color: '#6b6b6b' } },
        yAxis: { type: 'category', data: labels, axisLabel: { color: '#6b6b6b' } },
        series: [{ type: 'bar', data: values, itemStyle: { color: '#0c3b2e' } }]
      });
    }

    function renderLine(key, elementId, payload) {
      const chart = resetChart(key, elementId);
      if (!chart) return;
      chart.setOption({
        tooltip: { trigger: 'axis' },
        xAxis: { type: 'category', data: payload.labels, axisLabel: { color: '#6b6b6b' } },
        yAxis: { type: 'value', axisLabel: { color: '#6b6b6b' } },
        series: [{ type: 'line', data: payload.datasets[0].data, smooth: true, areaStyle: { opacity: 0.12 }, lineStyle: { color: '#0c3b2e' } }]
      });
    }

    function renderCharts(data) {
      if (data.subset === 0) return;
      renderDoughnut('files', 'filesChart', data.file_buckets);
      renderBar('changes', 'changesChart', data.change_buckets, '#c8a26b');
      renderHorizontalBar('repos', 'reposChart', data.repo_frequency);
      renderLine('timeline', 'timelineChart', data.timeline);
    }

    function renderRepoFilter(repos) {
      const checked = new Set();
      els.repoFilter.querySelectorAll('input:checked').forEach(box => checked.add(box.value));
      els.repoFilter.innerHTML = repos.map(repo =>
        '<label><input type="checkbox" value="' + esc(repo) + '"' +
          (checked.has(repo) ? ' checked' : '') + '> ' + esc(repo) + '</label>'
      ).join('');
      if (!repos.length) {
        els.repoFilter.innerHTML = '<span class="muted">No repositories loaded</span>';
      }
    }

    function renderRecords(body) {
      els.countLabel.textContent = body.matched + ' / ' + body.total + ' records';
      if (!body.data.length) {
        els.recordList.innerHTML = '<span class="muted">No matching records</span>';
        return;
      }
      els.recordList.innerHTML = body.data.map(r => {
        let files = r.files.map(esc).join(', ');
        if (r.more_files > 0) files += ' +' + r.more_files + ' more';
        return '<div class="record-card" data-id="' + r.id + '">' +
          '<div class="summary">' + esc(r.summary) + '</div>' +
          '<span class="tag">' + esc(r.repo || 'unknown') + '</span>' +
          '<span class="tag">#' + r.number + '</span>' +
          '<span class="tag">' + esc(r.date || 'no date') + '</span>' +
          '<span class="tag">' + r.file_count + ' files</span>' +
          '<span class="tag">' + r.total_changes + ' changes</span>' +
          '<span class="tag">+' + r.additions + ' / -' + r.deletions + '</span>' +
          '<span class="tag">' + r.test_file_count + ' test files</span>' +
          (r.fail_to_pass ? '<span class="tag ftp">fail-to-pass</span>' : '') +
          (files ? '<div class="file-names">' + files + '</div>' : '') +
        '</div>';
      }).join('');
    }

    function renderDiffFile(file) {
      const wrap = document.createElement('div');
      wrap.className = 'diff-file';

      const head = document.createElement('div');
      head.className = 'diff-file-head';
      head.innerHTML = '<span>' + esc(file.filename) + '</span>' +
        '<span>+' + file.additions + ' / -' + file.deletions + '</span>';
      wrap.appendChild(head);

      const lines = document.createElement('div');
      lines.className = 'diff-lines';
      (file.lines || []).forEach(line => {
        const el = document.createElement('div');
        el.className = 'diff-line ' + line.kind;
        el.innerHTML = line.text;
        if (line.kind !== 'meta' && file.lang && line.text !== '&nbsp;') {
          const source = el.textContent;
          try {
            el.innerHTML = hljs.highlight(source, { language: file.lang, ignoreIllegals: true }).value;
          } catch (e) {
            el.innerHTML = line.text;
          }
        }
        lines.appendChild(el);
      });
      wrap.appendChild(lines);
      return wrap;
    }

    function applyFontSize() {
      els.fontSizeLabel.textContent = fontSize;
      els.modalBody.querySelectorAll('.diff-lines, .desc').forEach(el => {
        el.style.fontSize = fontSize + 'px';
      });
    }

    function renderDetail(r) {
      els.modalTitle.textContent = (r.repo || 'unknown') + ' #' + r.number;
      els.modalBody.innerHTML = '';

      const desc = document.createElement('div');
      desc.className = 'desc';
      desc.innerHTML = r.problem_statement
        ? marked.parse(r.problem_statement)
        : '<span class="muted">No description</span>';
      els.modalBody.appendChild(desc);

      const tiles = document.createElement('div');
      tiles.className = 'tiles';
      tiles.innerHTML =
        '<div class="tile"><div class="label">Files</div><div class="value">' + r.file_count + '</div></div>' +
        '<div class="tile"><div class="label">Changes</div><div class="value">' + r.total_changes + '</div></div>' +
        '<div class="tile"><div class="label">Additions</div><div class="value">' + r.additions + '</div></div>' +
        '<div class="tile"><div class="label">Deletions</div><div class="value">' + r.deletions + '</div></div>';
      els.modalBody.appendChild(tiles);

      (r.patch || []).forEach(file => els.modalBody.appendChild(renderDiffFile(file)));

      if (r.test_patch && r.test_patch.length) {
        const h = document.createElement('h3');
        h.textContent = 'Test Files';
        h.style.marginTop = '18px';
        els.modalBody.appendChild(h);
        r.test_patch.forEach(file => els.modalBody.appendChild(renderDiffFile(file)));
      }

      const meta = document.createElement('div');
      meta.className = 'meta-block';
      meta.innerHTML =
        '<span>Repo: ' + esc(r.repo || 'unknown') + '</span>' +
        '<span>PR: #' + r.number + '</span>' +
        '<span>Date: ' + esc(r.date || '-') + '</span>' +
        '<span>Base commit: ' + esc(r.base_commit || '-') + '</span>' +
        '<span>Version: ' + esc(r.version || '-') + '</span>' +
        (r.instance_id ? '<span>Instance: ' + esc(r.instance_id) + '</span>' : '') +
        (r.fail_to_pass ? '<span>Fail-to-pass: ' + esc(r.fail_to_pass) + '</span>' : '');
      els.modalBody.appendChild(meta);

      fontSize = FONT_DEFAULT;
      applyFontSize();
      els.modal.classList.add('open');
      els.modalBackdrop.classList.add('open');
    }

    function closeModal() {
      els.modal.classList.remove('open');
      els.modalBackdrop.classList.remove('open');
    }

    async function loadRecords() {
      const qs = buildQuery();
      const body = await fetchJSON('/api/records' + (qs ? '?' + qs : ''));
      renderRecords(body);
    }

    async function loadAll() {
      const summary = await fetchJSON('/api/summary');
      renderSummary(summary);
      if (summary.total_records === 0) {
        els.recordList.innerHTML = '<span class="muted">No dataset loaded. Use "Load JSON" to get started.</span>';
        els.countLabel.textContent = '';
        renderRepoFilter([]);
        return;
      }
      const chartsData = await fetchJSON('/api/charts');
      renderCharts(chartsData);
      const repos = await fetchJSON('/api/repos');
      renderRepoFilter(repos.data || []);
      await loadRecords();
    }

    async function uploadFiles(fileList) {
      if (!fileList.length) return;
      const form = new FormData();
      for (const file of fileList) form.append('files', file);
      try {
        await fetchJSON('/api/datasets', { method: 'POST', body: form });
        await loadAll();
      } catch (e) {
        showToast('Load failed: ' + e.message);
      }
    }

    els.fileInput.addEventListener('change', () => {
      uploadFiles(els.fileInput.files).finally(() => { els.fileInput.value = ''; });
    });
    els.query.addEventListener('input', () => loadRecords().catch(e => showToast(e.message)));
    els.from.addEventListener('change', () => loadRecords().catch(e => showToast(e.message)));
    els.to.addEventListener('change', () => loadRecords().catch(e => showToast(e.message)));
    els.ftp.addEventListener('change', () => loadRecords().catch(e => showToast(e.message)));
    els.repoFilter.addEventListener('change', () => loadRecords().catch(e => showToast(e.message)));

    els.recordList.addEventListener('click', (event) => {
      const card = event.target.closest('.record-card');
      if (!card) return;
      fetchJSON('/api/records/' + card.dataset.id)
        .then(renderDetail)
        .catch(e => showToast(e.message));
    });

    els.modalClose.addEventListener('click', closeModal);
    els.modalBackdrop.addEventListener('click', closeModal);
    els.fontUp.addEventListener('click', () => {
      if (fontSize < FONT_MAX) { fontSize++; applyFontSize(); }
    });
    els.fontDown.addEventListener('click', () => {
      if (fontSize > FONT_MIN) { fontSize--; applyFontSize(); }
    });

    window.addEventListener('resize', () => {
      Object.values(charts).forEach(chart => { if (chart) chart.resize(); });
    });

    loadAll().catch(e => showToast(e.message));
  </script>
</body>
</html>`
