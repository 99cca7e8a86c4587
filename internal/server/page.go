package server

// indexPage is the single-page preview UI. It fetches the current SVG and
// keeps it fresh over the websocket, reconnecting when the server restarts.
const indexPage = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>branchmap</title>
  <style>
    body { margin: 0; font-family: -apple-system, sans-serif; background: #fafafa; }
    header { padding: 0.6rem 1rem; border-bottom: 1px solid #ddd; display: flex; align-items: baseline; gap: 1rem; }
    header h1 { font-size: 1rem; margin: 0; }
    #status { color: #b00; font-size: 0.85rem; }
    #graph { display: flex; justify-content: center; padding: 1.5rem; }
    #graph svg { max-width: 95vw; height: auto; }
  </style>
</head>
<body>
  <header><h1>branchmap</h1><span id="status"></span></header>
  <div id="graph"></div>
  <script>
    const graphEl = document.getElementById('graph');
    const statusEl = document.getElementById('status');

    async function load() {
      const resp = await fetch('/graph.svg');
      graphEl.innerHTML = await resp.text();
    }

    function connect() {
      const proto = location.protocol === 'https:' ? 'wss' : 'ws';
      const ws = new WebSocket(proto + '://' + location.host + '/api/ws');
      ws.onmessage = (e) => {
        const msg = JSON.parse(e.data);
        if (msg.type === 'svg') {
          graphEl.innerHTML = msg.data;
          statusEl.textContent = '';
        } else if (msg.type === 'status') {
          statusEl.textContent = msg.data;
        }
      };
      ws.onclose = () => setTimeout(connect, 1000);
    }

    load();
    connect();
  </script>
</body>
</html>
`
