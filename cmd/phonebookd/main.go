package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/idilsaglam/phonebook/internal/server"
	"github.com/idilsaglam/phonebook/internal/store/memstore"
)

func main() {
	addr := flag.String("addr", ":3001", "listen address")
	flag.Parse()

	router := server.NewRouter(memstore.New())
	slog.Info("phonebook store listening", "addr", *addr)
	if err := router.Run(*addr); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
