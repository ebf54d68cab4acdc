package site

// pageTemplate is the Go html/template for each entity page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en" data-theme="light">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} | {{.SiteTitle}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
</head>
<body>
  <nav class="sidebar" id="sidebar">
    <div class="sidebar-header">
      <h2 class="project-title">{{.SiteTitle}}</h2>
      <input type="text" id="search-input" placeholder="Filter entities..." autocomplete="off">
    </div>
    <div class="sidebar-tree" id="sidebar-tree">
      {{.NavHTML}}
    </div>
  </nav>
  <main class="content">
    <div class="top-bar">
      <input type="text" id="semantic-search-input" placeholder="Describe an entity, e.g. cheap ranged unit" autocomplete="off">
      <button class="theme-toggle" id="theme-toggle" aria-label="Toggle theme">&#9680;</button>
    </div>
    <div class="search-results" id="search-results"></div>
    <article class="page-content">
      {{.Content}}
    </article>
  </main>
  <script src="{{.BasePath}}script.js"></script>
</body>
</html>`

// cssContent is the stylesheet for the site.
const cssContent = `:root {
  --bg: #fbf8f1; --fg: #2b2620; --muted: #7a705f; --accent: #9c6b12;
  --panel: #f1eadb; --border: #d8ccb2;
}
[data-theme="dark"] {
  --bg: #1d1b17; --fg: #ece6da; --muted: #a39a88; --accent: #ffd54a;
  --panel: #2a2620; --border: #4a4133;
}
* { box-sizing: border-box; }
body { margin: 0; display: flex; font-family: system-ui, sans-serif; background: var(--bg); color: var(--fg); }
a { color: var(--accent); }
.sidebar { width: 280px; height: 100vh; overflow-y: auto; position: sticky; top: 0;
  background: var(--panel); border-right: 1px solid var(--border); padding: 12px; }
.sidebar ul { list-style: none; margin: 0; padding-left: 12px; }
.sidebar li.hidden { display: none; }
.sidebar .dir > ul { display: none; }
.sidebar .dir.expanded > ul { display: block; }
.dir-toggle { cursor: pointer; font-weight: 600; }
.sidebar a.active { font-weight: 700; }
#search-input, #semantic-search-input { width: 100%; padding: 6px; border: 1px solid var(--border);
  background: var(--bg); color: var(--fg); }
.content { flex: 1; max-width: 900px; padding: 16px 32px; }
.top-bar { display: flex; gap: 8px; }
.theme-toggle { background: none; border: 1px solid var(--border); color: var(--fg); cursor: pointer; }
.search-results .result { padding: 6px 0; border-bottom: 1px solid var(--border); }
.helptext { background: var(--panel); border: 1px solid var(--border); padding: 8px 12px; margin: 12px 0; }
.helptext__heading { font-weight: 600; }
.helptext__stats { color: var(--muted); }
table { border-collapse: collapse; }
th, td { border: 1px solid var(--border); padding: 4px 8px; }
pre { padding: 8px; overflow-x: auto; }
`

// jsContent drives the sidebar filter, theme toggle and semantic search.
const jsContent = `(function() {
  "use strict";

  var html = document.documentElement;
  var tree = document.getElementById("sidebar-tree");
  var base = document.querySelector("link[rel=stylesheet]").getAttribute("href").replace("style.css", "");

  if (document.querySelector("pre.mermaid")) {
    var m = document.createElement("script");
    m.src = "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js";
    m.onload = function() { window.mermaid.initialize({ startOnLoad: false }); window.mermaid.run(); };
    document.head.appendChild(m);
  }

  function setTheme(theme) {
    html.setAttribute("data-theme", theme);
    try { localStorage.setItem("techtree-theme", theme); } catch (e) {}
  }
  try { var stored = localStorage.getItem("techtree-theme"); if (stored) setTheme(stored); } catch (e) {}
  document.getElementById("theme-toggle").addEventListener("click", function() {
    setTheme(html.getAttribute("data-theme") === "dark" ? "light" : "dark");
  });

  document.querySelectorAll(".dir-toggle").forEach(function(t) {
    t.addEventListener("click", function() { this.parentElement.classList.toggle("expanded"); });
  });

  var summaries = {};
  fetch(base + "search-index.json")
    .then(function(r) { return r.json(); })
    .then(function(entries) { entries.forEach(function(e) { summaries[e.path] = (e.title + " " + e.summary).toLowerCase(); }); })
    .catch(function() {});

  document.getElementById("search-input").addEventListener("input", function() {
    var q = this.value.toLowerCase().trim();
    tree.querySelectorAll("li.file").forEach(function(li) {
      var a = li.querySelector("a");
      var path = a.getAttribute("href").replace(base, "");
      var text = summaries[path] || a.textContent.toLowerCase();
      li.classList.toggle("hidden", q !== "" && text.indexOf(q) === -1);
    });
    tree.querySelectorAll(".dir").forEach(function(d) { d.classList.toggle("expanded", q !== ""); });
  });

  var results = document.getElementById("search-results");
  document.getElementById("semantic-search-input").addEventListener("keydown", function(ev) {
    if (ev.key !== "Enter" || this.value.trim() === "") return;
    fetch("/api/search", { method: "POST", headers: { "Content-Type": "application/json" },
                           body: JSON.stringify({ query: this.value }) })
      .then(function(r) { if (!r.ok) throw new Error("search unavailable"); return r.json(); })
      .then(function(data) {
        results.innerHTML = "";
        (data.results || []).forEach(function(r) {
          var div = document.createElement("div");
          div.className = "result";
          var a = document.createElement("a");
          a.href = base + r.path;
          a.textContent = r.title + " (" + r.kind + ")";
          div.appendChild(a);
          results.appendChild(div);
        });
      })
      .catch(function(e) { results.textContent = e.message; });
  });
})();
`
