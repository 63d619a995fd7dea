package web

// indexHTML is the single upload page. It drives the JSON API with fetch and
// renders summaries and table previews inline, so the server needs no static
// asset directory.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>BTP/MTP Faculty Allocation</title>
<style>
  :root { --ink: #1f2933; --muted: #616e7c; --line: #d9e2ec; --accent: #2563eb; --bad: #b91c1c; }
  * { box-sizing: border-box; }
  body { font-family: system-ui, sans-serif; color: var(--ink); margin: 0; background: #f8fafc; }
  main { max-width: 960px; margin: 0 auto; padding: 2rem 1rem 4rem; }
  h1 { font-size: 1.5rem; margin: 0 0 0.25rem; }
  .sub { color: var(--muted); margin: 0 0 1.5rem; }
  .card { background: #fff; border: 1px solid var(--line); border-radius: 8px; padding: 1.25rem; margin-bottom: 1.25rem; }
  .row { display: flex; gap: 0.75rem; flex-wrap: wrap; align-items: center; }
  input[type=file] { border: 1px dashed var(--line); padding: 0.6rem; border-radius: 6px; flex: 1; min-width: 240px; }
  button { border: 0; border-radius: 6px; padding: 0.6rem 1.1rem; cursor: pointer; font-size: 0.95rem; }
  button.primary { background: var(--accent); color: #fff; }
  button.ghost { background: #e2e8f0; color: var(--ink); }
  button:disabled { opacity: 0.5; cursor: wait; }
  .hint { color: var(--muted); font-size: 0.85rem; margin-top: 0.5rem; }
  .error { background: #fef2f2; border: 1px solid #fecaca; color: var(--bad); padding: 0.75rem 1rem; border-radius: 6px; margin-bottom: 1.25rem; display: none; }
  .error .code { font-family: monospace; font-size: 0.8rem; }
  .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(140px, 1fr)); gap: 0.75rem; }
  .stat { background: #f1f5f9; border-radius: 6px; padding: 0.75rem; }
  .stat .num { font-size: 1.35rem; font-weight: 600; }
  .stat .label { color: var(--muted); font-size: 0.8rem; }
  .tabs { display: flex; gap: 0.5rem; margin-bottom: 0.75rem; flex-wrap: wrap; }
  .tabs button.active { background: var(--accent); color: #fff; }
  .tablewrap { overflow-x: auto; }
  table { border-collapse: collapse; width: 100%; font-size: 0.85rem; }
  th, td { border: 1px solid var(--line); padding: 0.35rem 0.6rem; text-align: left; white-space: nowrap; }
  th { background: #f1f5f9; }
  a.dl { color: var(--accent); margin-right: 1rem; }
  #results { display: none; }
</style>
</head>
<body>
<main>
  <h1>BTP/MTP Faculty Allocation</h1>
  <p class="sub">Upload the preference sheet; students are ranked by CGPA and matched to faculty preferences.</p>

  <div class="error" id="error"></div>

  <div class="card">
    <form id="upload-form">
      <div class="row">
        <input type="file" id="file" name="file" accept=".csv,text/csv" required>
        <button type="button" class="ghost" id="analyze-btn">Analyze</button>
        <button type="submit" class="primary" id="run-btn">Run Allocation</button>
      </div>
      <p class="hint">CSV with a CGPA column followed by the preference columns. Up to {{.MaxFileSizeMB}} MB.</p>
    </form>
  </div>

  <div id="results">
    <div class="card">
      <div class="stats" id="stats"></div>
      <p style="margin-bottom:0; margin-top:1rem;">
        <a class="dl" id="dl-allocation" href="#">Download allocation CSV</a>
        <a class="dl" id="dl-tally" href="#">Download preference tally CSV</a>
      </p>
    </div>

    <div class="card">
      <div class="tabs" id="tabs">
        <button type="button" data-table="final" class="active">Final</button>
        <button type="button" data-table="sorted">Sorted</button>
        <button type="button" data-table="tally">Tally</button>
        <button type="button" data-table="input">Input</button>
      </div>
      <div class="tablewrap" id="preview"></div>
      <p class="hint" id="preview-note"></p>
    </div>
  </div>

  <div class="card" id="analysis" style="display:none;">
    <h3 style="margin-top:0;">Sheet analysis</h3>
    <div id="analysis-body"></div>
  </div>
</main>

<script>
(function () {
  "use strict";

  var runID = null;
  var errorBox = document.getElementById("error");
  var results = document.getElementById("results");
  var analysis = document.getElementById("analysis");

  function showError(msg, action, code) {
    var text = msg;
    if (action) { text += " " + action + "."; }
    errorBox.innerHTML = "";
    errorBox.appendChild(document.createTextNode(text + " "));
    if (code) {
      var span = document.createElement("span");
      span.className = "code";
      span.textContent = "[" + code + "]";
      errorBox.appendChild(span);
    }
    errorBox.style.display = "block";
  }

  function clearError() {
    errorBox.style.display = "none";
  }

  function postFile(url, done) {
    var input = document.getElementById("file");
    if (!input.files.length) {
      showError("Choose a CSV file first.", "", "");
      return;
    }
    clearError();
    var form = new FormData();
    form.append("file", input.files[0]);

    var buttons = document.querySelectorAll("#upload-form button");
    buttons.forEach(function (b) { b.disabled = true; });

    fetch(url, { method: "POST", body: form })
      .then(function (resp) {
        return resp.json().then(function (body) {
          if (!resp.ok) {
            showError(body.error || "Request failed.", body.action || "", body.code || "");
            return null;
          }
          return body;
        });
      })
      .then(function (body) { if (body) { done(body); } })
      .catch(function () { showError("The server could not be reached.", "Try again", ""); })
      .finally(function () {
        buttons.forEach(function (b) { b.disabled = false; });
      });
  }

  function renderStats(summary) {
    var stats = document.getElementById("stats");
    var cells = [
      [summary.students, "students"],
      [summary.preference_ranks, "preference ranks"],
      [summary.faculty_count, "faculties ranked"],
      [summary.cgpa.mean ? summary.cgpa.mean.toFixed(2) : "0", "mean CGPA"],
      [summary.cgpa.invalid, "invalid CGPAs"]
    ];
    stats.innerHTML = "";
    cells.forEach(function (c) {
      var div = document.createElement("div");
      div.className = "stat";
      var num = document.createElement("div");
      num.className = "num";
      num.textContent = c[0];
      var label = document.createElement("div");
      label.className = "label";
      label.textContent = c[1];
      div.appendChild(num);
      div.appendChild(label);
      stats.appendChild(div);
    });
  }

  function renderTable(container, table) {
    container.innerHTML = "";
    var el = document.createElement("table");
    var thead = document.createElement("thead");
    var headRow = document.createElement("tr");
    table.header.forEach(function (h) {
      var th = document.createElement("th");
      th.textContent = h;
      headRow.appendChild(th);
    });
    thead.appendChild(headRow);
    el.appendChild(thead);

    var tbody = document.createElement("tbody");
    (table.rows || []).forEach(function (row) {
      var tr = document.createElement("tr");
      row.forEach(function (cell) {
        var td = document.createElement("td");
        td.textContent = cell;
        tr.appendChild(td);
      });
      tbody.appendChild(tr);
    });
    el.appendChild(tbody);
    container.appendChild(el);
  }

  function loadPreview(name) {
    if (!runID) { return; }
    fetch("/api/allocations/" + runID + "/preview?table=" + name)
      .then(function (resp) { return resp.json(); })
      .then(function (body) {
        if (body.preview) {
          renderTable(document.getElementById("preview"), body.preview);
          var shown = (body.preview.rows || []).length;
          document.getElementById("preview-note").textContent =
            "Showing " + shown + " of " + body.row_count + " rows.";
        }
      });
  }

  document.getElementById("tabs").addEventListener("click", function (e) {
    if (e.target.tagName !== "BUTTON") { return; }
    document.querySelectorAll("#tabs button").forEach(function (b) {
      b.classList.remove("active");
    });
    e.target.classList.add("active");
    loadPreview(e.target.getAttribute("data-table"));
  });

  document.getElementById("upload-form").addEventListener("submit", function (e) {
    e.preventDefault();
    postFile("/api/allocations", function (body) {
      runID = body.run_id;
      analysis.style.display = "none";
      results.style.display = "block";
      renderStats(body.summary);
      document.getElementById("dl-allocation").href = body.links.allocation;
      document.getElementById("dl-tally").href = body.links.tally;
      document.querySelectorAll("#tabs button").forEach(function (b) {
        b.classList.toggle("active", b.getAttribute("data-table") === "final");
      });
      loadPreview("final");
    });
  });

  document.getElementById("analyze-btn").addEventListener("click", function () {
    postFile("/api/allocations/preview", function (body) {
      results.style.display = "none";
      analysis.style.display = "block";
      var target = document.getElementById("analysis-body");
      target.innerHTML = "";

      var p = document.createElement("p");
      p.className = "hint";
      p.textContent = body.row_count + " rows. CGPA column: " + body.cgpa_column +
        ". Preference columns: " + body.preference_columns.join(", ") + ".";
      target.appendChild(p);

      var wrap = document.createElement("div");
      wrap.className = "tablewrap";
      target.appendChild(wrap);
      renderTable(wrap, body.sample);
    });
  });
})();
</script>
</body>
</html>
`
