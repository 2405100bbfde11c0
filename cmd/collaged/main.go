// Command collaged serves the scene store and the printer over HTTP.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/Masterchef365/receipt-collage/internal/printer"
	"github.com/Masterchef365/receipt-collage/internal/scene"
	"github.com/Masterchef365/receipt-collage/internal/server"
)

func main() {
	listen := flag.String("listen", ":8080", "address to serve HTTP on")
	dbPath := flag.String("db", "file:collage.db", "sqlite URI of the scene database")
	deviceName := flag.String("device", "", "bluetooth local name of the printer; empty disables printing")
	flag.Parse()

	repo, err := scene.OpenRepository(*dbPath)
	if err != nil {
		slog.Error("Couldn't open scene database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	s := &server.Server{Repository: repo}

	if *deviceName != "" {
		slog.Info("Scanning for printer", "device", *deviceName)
		conn, err := printer.FromBluetoothName(*deviceName)
		if err != nil {
			slog.Error("Couldn't find printer", "error", err)
			os.Exit(1)
		}
		defer conn.Disconnect()
		s.Transport = conn
	}

	slog.Info("Starting server", "listen", *listen)
	if err := http.ListenAndServe(*listen, s.Mux()); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
