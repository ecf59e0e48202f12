package handlers

var dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Gato Admin - Models</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <style>
        body:not(.bg-gray-900) { font-family: system-ui, sans-serif; background: #1a1a2e; color: #eee; padding: 2rem; }
        body:not(.bg-gray-900) .container { max-width: 900px; margin: auto; }
    </style>
</head>
<body class="bg-gray-900 text-gray-100 min-h-screen">
<div class="container mx-auto px-4 py-6 max-w-5xl">
    <header class="mb-6 flex justify-between items-center">
        <div>
            <h1 class="text-2xl font-bold text-white">🐈 Gato Admin</h1>
            <p class="text-gray-400 text-sm">Model routing configuration · {{.Version}}</p>
        </div>
        <a href="/?new=1" class="text-sm bg-indigo-600 hover:bg-indigo-500 px-3 py-2 rounded">➕ Add Model</a>
    </header>

    {{range .Snap.Notices}}
    <div class="notice mb-3 rounded px-4 py-2 text-sm flex justify-between {{if eq .Level "error"}}bg-red-900/60 text-red-200{{else}}bg-green-900/60 text-green-200{{end}}">
        <span>{{.Message}}</span>
        <button type="button" onclick="this.parentElement.remove()" class="ml-4">✕</button>
    </div>
    {{end}}

    {{if .Snap.LoadError}}
    <div class="mb-4 rounded bg-red-900/60 text-red-200 px-4 py-2 text-sm">Failed to load models: {{.Snap.LoadError}}</div>
    {{end}}

    {{if .Snap.Adding}}
    <div class="bg-gray-800 rounded-xl p-4 mb-6">
        <h3 class="text-sm font-semibold text-gray-400 mb-3">New model</h3>
        {{template "editor" .}}
    </div>
    {{end}}

    <div class="bg-gray-800 rounded-xl p-4">
        <table class="w-full text-sm">
            <thead>
                <tr class="text-gray-400 text-xs border-b border-gray-700">
                    <th class="text-left py-2">Path</th>
                    <th class="text-left py-2">Model</th>
                    <th class="text-left py-2">Routing</th>
                    <th class="text-right py-2"></th>
                </tr>
            </thead>
            <tbody>
            {{range .Snap.Rows}}
                <tr class="border-b border-gray-700/50">
                    <td class="py-2 font-mono">{{.Path}}</td>
                    <td class="py-2">{{.Model}}</td>
                    <td class="py-2">{{.Summary}}</td>
                    <td class="py-2 text-right">
                        {{if .Expanded}}<a href="/" class="text-xs text-gray-400">Close</a>{{else}}<a href="/?edit={{.ID}}" class="text-xs text-indigo-400">Edit</a>{{end}}
                    </td>
                </tr>
                {{if .Expanded}}
                <tr><td colspan="4" class="py-3">{{template "editor" $}}</td></tr>
                {{end}}
            {{else}}
                <tr><td colspan="4" class="text-gray-500 py-3">No models configured yet.</td></tr>
            {{end}}
            </tbody>
        </table>
    </div>
</div>
<script>
document.querySelectorAll('input[name="strategy"]').forEach(function (radio) {
    radio.addEventListener('change', function () {
        var custom = radio.value === 'custom';
        var f = radio.form;
        f.routing.disabled = custom;
        f.endpoint.disabled = !custom;
        f.apiKey.disabled = !custom;
        if (custom) { f.routing.value = ''; } else { f.endpoint.value = ''; f.apiKey.value = ''; }
    });
});
</script>
</body>
</html>
{{define "editor"}}
{{$ed := .Snap.Editor}}{{$in := $ed.Input}}
<form method="post" action="{{if $ed.IsNew}}/ui/models{{else}}/ui/models/{{$ed.RecordID}}{{end}}" class="grid grid-cols-1 md:grid-cols-2 gap-3">
    <label class="block">
        <span class="text-xs text-gray-400">Alias</span>
        <input name="alias" value="{{$in.Alias}}" class="w-full bg-gray-700 rounded px-2 py-1">
        {{range $ed.ErrorsFor "alias"}}<p class="error text-xs text-red-400">{{.}}</p>{{end}}
    </label>
    <label class="block">
        <span class="text-xs text-gray-400">Model</span>
        <select name="model" class="w-full bg-gray-700 rounded px-2 py-1">
            <option value="">Select a model</option>
            {{range .Models}}<option value="{{.Value}}" {{if eq .Value $in.Model}}selected{{end}}>{{.Name}}</option>{{end}}
        </select>
        {{range $ed.ErrorsFor "model"}}<p class="error text-xs text-red-400">{{.}}</p>{{end}}
    </label>
    <fieldset class="md:col-span-2">
        <span class="text-xs text-gray-400">Strategy</span>
        {{range .Strategies}}
        <label class="mr-4"><input type="radio" name="strategy" value="{{.Value}}" {{if eq .Value $in.Strategy}}checked{{end}}> {{.Name}}</label>
        {{end}}
        {{range $ed.ErrorsFor "strategy"}}<p class="error text-xs text-red-400">{{.}}</p>{{end}}
    </fieldset>
    <label class="block">
        <span class="text-xs text-gray-400">Routing</span>
        <select name="routing" class="w-full bg-gray-700 rounded px-2 py-1" {{if not ($ed.Enabled "routing")}}disabled{{end}}>
            <option value="">Select routing</option>
            {{range .RoutingModes}}<option value="{{.Value}}" {{if eq .Value $in.Routing}}selected{{end}}>{{.Name}}</option>{{end}}
        </select>
        {{range $ed.ErrorsFor "routing"}}<p class="error text-xs text-red-400">{{.}}</p>{{end}}
    </label>
    <label class="block">
        <span class="text-xs text-gray-400">Endpoint</span>
        <input name="endpoint" value="{{$in.Endpoint}}" placeholder="https://" class="w-full bg-gray-700 rounded px-2 py-1" {{if not ($ed.Enabled "endpoint")}}disabled{{end}}>
        {{range $ed.ErrorsFor "endpoint"}}<p class="error text-xs text-red-400">{{.}}</p>{{end}}
    </label>
    <label class="block">
        <span class="text-xs text-gray-400">API Key</span>
        <input type="password" name="apiKey" value="{{$in.APIKey}}" autocomplete="off" class="w-full bg-gray-700 rounded px-2 py-1" {{if not ($ed.Enabled "apiKey")}}disabled{{end}}>
        {{range $ed.ErrorsFor "apiKey"}}<p class="error text-xs text-red-400">{{.}}</p>{{end}}
    </label>
    <div class="md:col-span-2 flex gap-2">
        <button type="submit" class="text-sm bg-indigo-600 hover:bg-indigo-500 px-3 py-1 rounded">💾 Save</button>
        <a href="/" class="text-sm bg-gray-700 hover:bg-gray-600 px-3 py-1 rounded">Cancel</a>
        {{if not $ed.IsNew}}
        <button type="submit" formaction="/ui/models/{{$ed.RecordID}}/delete" class="text-sm bg-red-600 hover:bg-red-500 px-3 py-1 rounded ml-auto">🗑️ Delete</button>
        {{end}}
    </div>
</form>
{{end}}
`
