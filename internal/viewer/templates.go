package viewer

// pageTemplate is the html/template for every viewer page, served or
// exported.
const pageTemplate = `<!DOCTYPE html>
<html lang="en"{{if .Dark}} class="dark"{{end}}>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <meta name="color-scheme" content="light dark">
  <title>{{.Label}} | {{.SiteTitle}}</title>
  {{if .ThemeScript}}<script>{{.ThemeScript}}</script>{{end}}
  <link rel="stylesheet" href="{{.AssetBase}}static/style.css">
</head>
<body data-mode="{{if .Static}}static{{else}}server{{end}}" data-title="{{.SiteTitle}}">
  <header class="top-bar">
    <button class="menu-toggle" id="menu-toggle" type="button" aria-label="Toggle sidebar" aria-controls="sidebar">
      <svg width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
        <line x1="3" y1="6" x2="21" y2="6"/><line x1="3" y1="12" x2="21" y2="12"/><line x1="3" y1="18" x2="21" y2="18"/>
      </svg>
    </button>
    <div class="note-name" id="note-name">{{.Heading}}</div>
    {{if .Static}}
    <button class="theme-toggle" id="theme-toggle" type="button" aria-label="Toggle theme">{{template "theme-icons"}}</button>
    {{else}}
    <form class="theme-form" method="post" action="/theme">
      <input type="hidden" name="redirect" value="{{.Route}}">
      <button class="theme-toggle" id="theme-toggle" type="submit" aria-label="Toggle theme">{{template "theme-icons"}}</button>
    </form>
    {{end}}
  </header>
  <div class="layout">
    <nav class="sidebar" id="sidebar">
      <a class="home-link{{if not .Selection}} selected{{end}}" href="{{.HomeHref}}" data-note="">{{.HomeLabel}}</a>
      {{if not .Static}}
      <form class="sidebar-filter" method="get" action="{{.Route}}">
        <input type="search" name="q" id="filter-input" value="{{.Query}}" placeholder="Filter notes..." autocomplete="off">
      </form>
      {{end}}
      <ul class="topics">
        {{range .Sidebar}}
        <li class="topic{{if .Expanded}} expanded{{end}}" data-topic="{{.Index}}">
          <a class="topic-toggle" href="{{.ToggleHref}}" aria-expanded="{{.Expanded}}">{{.Name}}</a>
          <ul class="subpages">
            {{range .Rows}}
            <li><a class="note-link{{if .Selected}} selected{{end}}" href="{{.Href}}" data-note="{{.ID}}"{{if .Selected}} aria-current="page"{{end}}>{{.ID}}</a></li>
            {{end}}
          </ul>
        </li>
        {{else}}
        <li class="topics-empty">No matching notes</li>
        {{end}}
      </ul>
    </nav>
    <main class="content">
      <h1 class="note-title" id="note-title">{{.Label}}</h1>
      <article class="note-content" id="note-content" data-status="{{.Status}}">
        {{.Content}}
      </article>
    </main>
  </div>
  <script src="{{.AssetBase}}static/app.js"></script>
</body>
</html>
{{define "theme-icons"}}<svg class="sun-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><circle cx="12" cy="12" r="5"/><line x1="12" y1="1" x2="12" y2="3"/><line x1="12" y1="21" x2="12" y2="23"/><line x1="1" y1="12" x2="3" y2="12"/><line x1="21" y1="12" x2="23" y2="12"/></svg><svg class="moon-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M21 12.79A9 9 0 1 1 11.21 3 7 7 0 0 0 21 12.79z"/></svg>{{end}}`

// systemThemeScript applies the color-scheme media query before first
// paint when the server had neither a stored preference nor a hint.
const systemThemeScript = `if (window.matchMedia && window.matchMedia('(prefers-color-scheme: dark)').matches) document.documentElement.classList.add('dark');`

// storedThemeScript resolves the theme entirely in the browser for
// exported sites: localStorage, then the media query, then light.
const storedThemeScript = `(function () {
  var t = null;
  try { t = localStorage.getItem('theme'); } catch (e) {}
  var dark = t === 'dark' || (t !== 'light' && window.matchMedia && window.matchMedia('(prefers-color-scheme: dark)').matches);
  document.documentElement.classList.toggle('dark', dark);
})();`

// cssContent is the stylesheet served at /static/style.css.
const cssContent = `/* ============ Variables ============ */
:root {
  --bg: #f4ecd8;
  --bg-bar: #e8dcc0;
  --bg-sidebar: #efe4cc;
  --text: #3b2f2f;
  --text-muted: #7a6a5a;
  --border: #d6c7a8;
  --accent: #2563eb;
  --tint: #e6d9bc;
  --quote-bar: #b8a88a;
  --sidebar-width: 250px;
  --content-max-width: 900px;
}

html.dark {
  --bg: #1f2937;
  --bg-bar: #111827;
  --bg-sidebar: #18212f;
  --text: #e5e7eb;
  --text-muted: #9ca3af;
  --border: #374151;
  --accent: #60a5fa;
  --tint: #2b3646;
  --quote-bar: #4b5563;
}

/* ============ Base ============ */
*, *::before, *::after { box-sizing: border-box; }

body {
  margin: 0;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.7;
  height: 100vh;
  display: flex;
  flex-direction: column;
}

/* ============ Top bar ============ */
.top-bar {
  display: flex;
  align-items: center;
  gap: 24px;
  height: 64px;
  padding: 12px;
  background: var(--bg-bar);
  box-shadow: 0 4px 12px rgba(0,0,0,0.1);
}

.menu-toggle, .theme-toggle {
  background: none;
  border: none;
  color: var(--text);
  cursor: pointer;
  padding: 4px;
}

.note-name {
  font-family: ui-monospace, SFMono-Regular, Menlo, monospace;
  font-size: 1.4rem;
  padding: 4px 32px 4px 16px;
  border-radius: 12px;
  background: var(--bg);
  white-space: nowrap;
  overflow: hidden;
  text-overflow: ellipsis;
}

.theme-form { margin-left: auto; }
body[data-mode="static"] .theme-toggle { margin-left: auto; }

.theme-toggle .moon-icon { display: none; }
html.dark .theme-toggle .moon-icon { display: inline; }
html.dark .theme-toggle .sun-icon { display: none; }

/* ============ Layout ============ */
.layout {
  display: flex;
  flex: 1;
  overflow: hidden;
}

.sidebar {
  width: var(--sidebar-width);
  flex-shrink: 0;
  padding: 16px;
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
  overflow-y: auto;
}

body.sidebar-hidden .sidebar { display: none; }

.home-link, .topic-toggle, .note-link {
  display: block;
  padding: 4px 8px;
  border-radius: 6px;
  color: var(--text);
  text-decoration: none;
}

.home-link:hover, .topic-toggle:hover, .note-link:hover { background: var(--tint); }

.home-link.selected, .note-link.selected {
  background: var(--tint);
  font-weight: 600;
}

.sidebar-filter input {
  width: 100%;
  margin: 8px 0;
  padding: 6px 10px;
  border: 1px solid var(--border);
  border-radius: 6px;
  background: var(--bg);
  color: var(--text);
}

.topics, .subpages {
  list-style: none;
  margin: 0;
  padding: 0;
}

.topic-toggle::before {
  content: "\25B6";
  display: inline-block;
  margin-right: 8px;
  font-size: 0.6rem;
  transition: transform 0.15s;
  vertical-align: middle;
}

.topic.expanded > .topic-toggle::before { transform: rotate(90deg); }

.subpages { display: none; padding-left: 16px; }
.topic.expanded > .subpages { display: block; }

.topics-empty { color: var(--text-muted); padding: 4px 8px; }

/* ============ Content ============ */
.content {
  flex: 1;
  min-width: 0;
  overflow: auto;
  padding: 48px;
}

.note-title {
  font-size: 3.75rem;
  font-weight: 700;
  margin: 48px 0;
  line-height: 1.1;
}

.note-content { max-width: var(--content-max-width); }
.note-content[aria-busy="true"] { opacity: 0.6; }

.md-h1 { font-size: 3rem; font-weight: 700; margin: 16px 0; }
.md-h2 { font-size: 2.25rem; font-weight: 700; margin: 12px 0; }
.md-h3 { font-size: 1.875rem; font-weight: 700; margin: 12px 0; }
.md-h4 { font-size: 1.5rem; font-weight: 700; margin: 12px 0; }
.md-h5 { font-size: 1.25rem; font-weight: 700; margin: 4px 0; }
.md-h6 { font-size: 1.125rem; font-weight: 700; margin: 4px 0; }

.md-list { padding-left: 24px; margin: 8px 0; }
ul.md-list { list-style: disc; }
ol.md-list { list-style: decimal; }
.md-li { margin: 2px 0; }
.md-p { margin: 8px 0; }

.md-link { color: var(--accent); text-decoration: none; }
.md-link:hover { text-decoration: underline; }

.md-quote {
  border-left: 4px solid var(--quote-bar);
  background: var(--tint);
  padding: 4px 16px;
  margin: 8px 0;
}

.md-code {
  background: var(--tint);
  border-radius: 4px;
  padding: 1px 6px;
  font-size: 0.9em;
}

.md-pre, .note-content pre {
  background: var(--tint);
  border-radius: 6px;
  padding: 8px;
  margin: 8px 0;
  overflow-x: auto;
}

.md-pre pre { margin: 0; padding: 0; border-radius: 0; overflow-x: visible; background: transparent !important; }

.md-table { border-collapse: collapse; margin: 12px 0; }
.md-table th, .md-table td { border: 1px solid var(--border); padding: 6px 12px; }

.md-img {
  max-width: min(550px, 100%);
  height: auto;
  margin: 8px 0;
  border-radius: 4px;
  box-shadow: 0 1px 3px rgba(0,0,0,0.08);
}

@media (max-width: 768px) {
  .sidebar { position: fixed; top: 64px; bottom: 0; z-index: 10; }
  .content { padding: 24px; }
  .note-title { font-size: 2.5rem; margin: 24px 0; }
}
`

// jsContent is the script served at /static/app.js.
const jsContent = `(function () {
  'use strict';

  var root = document.documentElement;
  var body = document.body;
  var content = document.getElementById('note-content');
  var noteTitle = document.getElementById('note-title');
  var noteName = document.getElementById('note-name');
  var siteTitle = body.dataset.title;
  var isStatic = body.dataset.mode === 'static';

  // Images that fail to load are removed from the layout, including those
  // coming from raw HTML in a note.
  content.addEventListener('error', function (e) {
    if (e.target && e.target.tagName === 'IMG') {
      e.target.style.display = 'none';
    }
  }, true);

  // ============ Sidebar ============
  var sidebarKey = 'notesview.sidebar';
  try {
    if (localStorage.getItem(sidebarKey) === 'hidden') body.classList.add('sidebar-hidden');
  } catch (e) {}

  document.getElementById('menu-toggle').addEventListener('click', function () {
    var hidden = body.classList.toggle('sidebar-hidden');
    try { localStorage.setItem(sidebarKey, hidden ? 'hidden' : 'shown'); } catch (e) {}
  });

  document.querySelectorAll('.topic-toggle').forEach(function (el) {
    el.addEventListener('click', function (e) {
      e.preventDefault();
      var open = el.parentElement.classList.toggle('expanded');
      el.setAttribute('aria-expanded', open ? 'true' : 'false');
    });
  });

  // ============ Theme ============
  var themeButton = document.getElementById('theme-toggle');
  themeButton.addEventListener('click', function (e) {
    e.preventDefault();
    var next = root.classList.contains('dark') ? 'light' : 'dark';
    if (isStatic) {
      try { localStorage.setItem('theme', next); } catch (err) {}
      root.classList.toggle('dark', next === 'dark');
      return;
    }
    fetch('/api/theme', {
      method: 'PUT',
      credentials: 'same-origin',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({ theme: next })
    }).then(function (res) {
      if (res.ok) root.classList.toggle('dark', next === 'dark');
    });
  });

  // ============ Selection ============
  function apply(state) {
    var home = state.id === '';
    document.title = state.label + ' | ' + siteTitle;
    noteName.textContent = home ? siteTitle : state.label;
    noteTitle.textContent = state.label;
    content.dataset.status = state.status;
    content.setAttribute('aria-busy', state.status === 'pending' ? 'true' : 'false');
    // The pane never shows a note other than the selected one.
    content.innerHTML = state.status === 'ready' ? (state.html || '') : '';
    document.querySelectorAll('[data-note]').forEach(function (a) {
      var on = a.dataset.note.trim() === state.id;
      a.classList.toggle('selected', on);
      if (on && !home) {
        a.setAttribute('aria-current', 'page');
        var topic = a.closest('.topic');
        if (topic) topic.classList.add('expanded');
      } else {
        a.removeAttribute('aria-current');
      }
    });
  }

  if (isStatic || !window.WebSocket) return;

  var socket = null;
  var ready = false;

  function connect() {
    var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
    socket = new WebSocket(proto + '//' + location.host + '/ws/select');
    socket.onopen = function () { ready = true; };
    socket.onclose = function () {
      ready = false;
      setTimeout(connect, 2000);
    };
    socket.onmessage = function (ev) {
      var msg;
      try { msg = JSON.parse(ev.data); } catch (e) { return; }
      if (msg.type === 'state') apply(msg);
    };
  }

  function select(id) {
    if (!ready) return false;
    socket.send(JSON.stringify({ type: 'select', id: id }));
    return true;
  }

  function currentID() {
    var seg = location.pathname.replace(/^\//, '');
    try { return decodeURIComponent(seg); } catch (e) { return seg; }
  }

  document.querySelectorAll('[data-note]').forEach(function (a) {
    a.addEventListener('click', function (e) {
      if (e.metaKey || e.ctrlKey || e.shiftKey || e.button !== 0) return;
      if (!select(a.dataset.note)) return;
      e.preventDefault();
      history.pushState(null, '', a.getAttribute('href'));
    });
  });

  window.addEventListener('popstate', function () {
    if (!select(currentID())) location.reload();
  });

  connect();
})();
`
