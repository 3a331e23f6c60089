package server

import (
	"fmt"
	"net/http"
	"text/template"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"udprpc/message"
)

const debugText = `<html>
	<body>
	<title>udp-rpc service</title>
	<hr>
	Service {{.Service}}
	<hr>
		<table>
		<th align=center>RPC</th><th align=center>Calls</th>
		{{range .RPCs}}
			<tr>
			<td align=left font=fixed>{{.Name}}</td>
			<td align=center>{{.Calls}}</td>
			</tr>
		{{end}}
		</table>
	</body>
	</html>`

var debug = template.Must(template.New("rpc debug").Parse(debugText))

type debugRPC struct {
	Name  string
	Calls int64
}

type debugPage struct {
	Service string
	RPCs    []debugRPC
}

// ServeDebug serves the debug index at /debug/rpc and prometheus metrics at
// /metrics. It blocks; run it on its own goroutine next to Serve.
func (s *Server) ServeDebug(addr string) error {
	router := httprouter.New()
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	router.HandlerFunc(http.MethodGet, "/debug/rpc", s.debugIndex)
	return http.ListenAndServe(addr, router)
}

func (s *Server) debugIndex(w http.ResponseWriter, _ *http.Request) {
	page := debugPage{Service: message.ServiceName}
	for _, id := range message.RPCIDs() {
		page.RPCs = append(page.RPCs, debugRPC{Name: id, Calls: s.calls[id].Load()})
	}
	if err := debug.Execute(w, page); err != nil {
		fmt.Fprintln(w, "rpc: error executing template:", err.Error())
	}
}
