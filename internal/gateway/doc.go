// Package gateway provides the HTTP gateway to a running harbor.
//
// The gateway exposes a control.Control over a small JSON API routed with
// chi. Every request goes through the Control, so HTTP clients, the
// simulation driver and the log watcher never race on the harbor.
//
// # Routes
//
//	GET    /healthz             health.Check result, 503 when unhealthy
//	GET    /port                harbor statistics
//	GET    /slots               every slot with its occupants
//	GET    /boats               berthed boats
//	GET    /boats/{id}          one boat by identity code
//	POST   /boats               offer a boat (empty body: random boat)
//	DELETE /boats/{id}          remove a boat
//	GET    /turned-away         boats rejected for lack of space
//	GET    /log?tail=n          audit log lines
//	POST   /tick?days=n         advance time
//	POST   /reset               empty the harbor, optionally with new docks
//	POST   /save, /load         snapshot persistence
//	GET    /simulation          simulation status
//	POST   /simulation/start    start the simulation driver
//	POST   /simulation/stop     stop it
//	GET    /metrics             Prometheus metrics
//
// # Errors
//
// Harbor errors map to HTTP statuses: validation 400, duplicate identity
// 409, unknown boat 404, everything else 500. The body is
// {"error": "..."}.
//
// # Server
//
//	server := gateway.NewServer(ctl)
//	err := server.ListenAndServe(ctx, ":8080") // returns when ctx is done
package gateway
