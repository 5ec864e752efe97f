package commands

import (
	"flag"
	"net/http"

	"github.com/gerunddev/roamweb/internal/server"
)

// Serve runs the web client.
func Serve(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "listen address (overrides config)")
	fs.Parse(args)

	e, err := setup()
	if err != nil {
		fail("%v", err)
	}
	defer e.cleanup()

	listen := e.cfg.ListenAddr
	if *addr != "" {
		listen = *addr
	}

	client, err := e.apiClient()
	if err != nil {
		fail("%v", err)
	}
	srv, err := server.New(client, e.styles, e.log)
	if err != nil {
		fail("%v", err)
	}

	e.log.ServerStarted(listen, e.cfg.APIBaseURL)
	success("Serving on http://%s (api: %s)", listen, e.cfg.APIBaseURL)
	if err := http.ListenAndServe(listen, srv.Handler()); err != nil {
		e.log.Error("server stopped", "error", err)
		fail("server stopped: %v", err)
	}
}
