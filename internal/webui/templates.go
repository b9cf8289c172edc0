package webui

import (
	"html/template"
)

// Templates contains all HTML templates for the web UI
var Templates = template.Must(template.New("").Funcs(template.FuncMap{
	"levelClass": func(level string) string {
		switch level {
		case "error", "fatal":
			return "log-error"
		case "warn":
			return "log-warn"
		case "debug":
			return "log-debug"
		default:
			return "log-info"
		}
	},
}).Parse(`
{{define "dashboard"}}
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Sensordash</title>
    <style>
        :root {
            --bg-primary: #0d1117;
            --bg-secondary: #161b22;
            --bg-tertiary: #21262d;
            --border-color: #30363d;
            --text-primary: #e6edf3;
            --text-secondary: #8b949e;
            --text-muted: #6e7681;
            --accent-green: #3fb950;
            --accent-red: #f85149;
            --accent-yellow: #d29922;
            --accent-blue: #58a6ff;
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
            background: var(--bg-primary);
            color: var(--text-primary);
            line-height: 1.6;
            min-height: 100vh;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
            padding: 2rem;
        }

        header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            margin-bottom: 2rem;
            padding-bottom: 1.5rem;
            border-bottom: 1px solid var(--border-color);
        }

        h1 {
            font-size: 1.5rem;
            font-weight: 600;
        }

        .meta {
            color: var(--text-muted);
            font-size: 0.8rem;
        }

        .controls {
            display: flex;
            flex-wrap: wrap;
            gap: 1rem;
            align-items: flex-end;
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            padding: 1rem 1.25rem;
            margin-bottom: 1.5rem;
        }

        .controls label {
            display: block;
            font-size: 0.75rem;
            color: var(--text-secondary);
            margin-bottom: 0.25rem;
        }

        select, input[type="number"] {
            background: var(--bg-tertiary);
            color: var(--text-primary);
            border: 1px solid var(--border-color);
            border-radius: 6px;
            padding: 0.45rem 0.6rem;
            font-size: 0.875rem;
        }

        button {
            background: var(--bg-tertiary);
            color: var(--text-primary);
            border: 1px solid var(--border-color);
            border-radius: 6px;
            padding: 0.45rem 1rem;
            font-size: 0.875rem;
            cursor: pointer;
        }

        button:hover { border-color: var(--accent-blue); }
        button:disabled, select:disabled, input:disabled {
            opacity: 0.5;
            cursor: not-allowed;
        }

        .status-line {
            display: flex;
            gap: 1rem;
            align-items: center;
            margin-bottom: 1.5rem;
            font-size: 0.875rem;
            color: var(--text-secondary);
        }

        .spinner {
            width: 14px;
            height: 14px;
            border: 2px solid var(--border-color);
            border-top-color: var(--accent-blue);
            border-radius: 50%;
            animation: spin 0.8s linear infinite;
        }

        @keyframes spin { to { transform: rotate(360deg); } }

        .error-banner {
            background: rgba(248, 81, 73, 0.1);
            border: 1px solid var(--accent-red);
            color: var(--accent-red);
            border-radius: 6px;
            padding: 0.6rem 1rem;
            margin-bottom: 1.5rem;
            font-size: 0.875rem;
        }

        .card {
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            margin-bottom: 1.5rem;
            overflow: hidden;
        }

        .card-header {
            padding: 0.75rem 1.25rem;
            border-bottom: 1px solid var(--border-color);
            font-size: 0.875rem;
            font-weight: 600;
            color: var(--text-secondary);
        }

        table {
            width: 100%;
            border-collapse: collapse;
            font-size: 0.85rem;
        }

        th {
            text-align: left;
            padding: 0.6rem 1.25rem;
            color: var(--text-muted);
            font-weight: 500;
            border-bottom: 1px solid var(--border-color);
        }

        td {
            padding: 0.5rem 1.25rem;
            border-bottom: 1px solid var(--bg-tertiary);
            vertical-align: top;
        }

        td.payload {
            font-family: ui-monospace, 'SF Mono', Menlo, monospace;
            font-size: 0.8rem;
            word-break: break-all;
            color: var(--accent-blue);
        }

        td.timestamp {
            white-space: nowrap;
            color: var(--text-secondary);
        }

        .empty {
            padding: 2rem;
            text-align: center;
            color: var(--text-muted);
            font-size: 0.875rem;
        }

        .logs {
            max-height: 240px;
            overflow-y: auto;
            font-family: ui-monospace, 'SF Mono', Menlo, monospace;
            font-size: 0.75rem;
            padding: 0.5rem 1.25rem;
        }

        .log-line { padding: 0.1rem 0; color: var(--text-secondary); }
        .log-line .ts { color: var(--text-muted); margin-right: 0.5rem; }
        .log-error { color: var(--accent-red); }
        .log-warn { color: var(--accent-yellow); }
        .log-debug { color: var(--text-muted); }
        .log-info { color: var(--text-secondary); }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>Sensordash</h1>
            <div class="meta">v{{.Version}} · up {{.Uptime}}</div>
        </header>

        <div class="controls">
            <form method="POST" action="/select">
                <label for="device">Device</label>
                <select id="device" name="device" onchange="this.form.submit()" {{if .State.Loading}}disabled{{end}}>
                    <option value="">— none —</option>
                    {{$selected := .State.Selected}}
                    {{range .State.Devices}}
                    <option value="{{.}}" {{if eq . $selected}}selected{{end}}>{{.}}</option>
                    {{end}}
                </select>
            </form>
            <form method="POST" action="/limit">
                <label for="limit">Rows (1–500)</label>
                <input id="limit" type="number" name="limit" min="1" max="500" value="{{.State.Limit}}" {{if .State.Loading}}disabled{{end}}>
                <button type="submit" {{if .State.Loading}}disabled{{end}}>Apply</button>
            </form>
            <form method="POST" action="/refresh">
                <button type="submit" {{if .State.Loading}}disabled{{end}}>Refresh</button>
            </form>
            <form method="POST" action="/devices/reload">
                <button type="submit" {{if .State.Loading}}disabled{{end}}>Reload devices</button>
            </form>
        </div>

        <div class="status-line">
            {{if .State.Loading}}<div class="spinner"></div>{{end}}
            <span>{{.State.Status}}</span>
            {{if not .State.LastFetch.IsZero}}
            <span class="meta">last fetch {{.State.LastFetch.Local.Format "15:04:05"}}</span>
            {{end}}
        </div>

        {{if .State.Error}}
        <div class="error-banner">{{.State.Error}}</div>
        {{end}}

        <div class="card">
            <div class="card-header">Readings{{if .State.Selected}} — {{.State.Selected}}{{end}}</div>
            {{if .State.Readings}}
            <table>
                <thead>
                    <tr><th>Topic</th><th>Payload</th><th>Timestamp</th></tr>
                </thead>
                <tbody>
                    {{range .State.Readings}}
                    <tr>
                        <td>{{.Topic}}</td>
                        <td class="payload">{{.Payload.Display}}</td>
                        <td class="timestamp">{{.LocalTime}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            {{else}}
            <div class="empty">No readings to show</div>
            {{end}}
        </div>

        <div class="card">
            <div class="card-header">Recent logs</div>
            <div class="logs">
                {{range .Logs}}
                <div class="log-line {{levelClass .Level}}"><span class="ts">{{.Time.Format "15:04:05"}}</span>{{.Message}}</div>
                {{else}}
                <div class="log-line">No log entries yet</div>
                {{end}}
            </div>
        </div>
    </div>

    <script>
        // Reload on the controller's refresh cadence so background fetches
        // show up; hold off while the user is in a form control.
        setInterval(function() {
            var el = document.activeElement;
            if (el && (el.tagName === 'INPUT' || el.tagName === 'SELECT')) {
                return;
            }
            window.location.reload();
        }, {{.RefreshMillis}});
    </script>
</body>
</html>
{{end}}
`))
