package api

import "net/http"

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Tibia Agent</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 2em auto; padding: 0 1em; }
textarea { width: 100%; height: 14em; font-family: monospace; }
pre { background: #f4f4f4; padding: 1em; overflow-x: auto; }
</style>
</head>
<body>
<h1>Tibia Agent — Loot Split</h1>
<p>Paste a party hunt session dump and submit.</p>
<textarea id="dump" placeholder="Session data: From ..."></textarea>
<p><button onclick="splitLoot()">Split loot</button></p>
<pre id="result"></pre>
<script>
async function splitLoot() {
  const resp = await fetch('/api/split', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({session_data: document.getElementById('dump').value})
  });
  const data = await resp.json();
  document.getElementById('result').textContent = JSON.stringify(data, null, 2);
}
</script>
</body>
</html>
`

func (a *API) handleWebInterface(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}
