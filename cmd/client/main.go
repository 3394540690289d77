package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rl1809/pedidos-client/internal/adapter/backend"
	"github.com/rl1809/pedidos-client/internal/adapter/tui"
	"github.com/rl1809/pedidos-client/internal/config"
	"github.com/rl1809/pedidos-client/internal/core/service"
	"github.com/rl1809/pedidos-client/internal/logger"
)

func main() {
	// the pedidos API and the session API exchange prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The terminal owns stdout; logs go to LOG_FILE or nowhere.
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("failed to open log file: %v", err)
		}
		defer f.Close()
		out = f
	}
	appLog := logger.New("pedidos-client", out, cfg.LogLevel)

	api := backend.NewPedidosClient(cfg.BackendURL, cfg.BackendTimeout)
	nav := service.NewNavigator(uuid.NewString(),
		service.NewCatalog(api, nil, appLog),
		service.NewOrderSubmitter(api, nil, appLog),
		service.NewStatusTracker(api, appLog),
		nil, appLog)

	// a single action may chain several backend calls
	dispatchTimeout := 3*cfg.BackendTimeout + time.Second

	p := tea.NewProgram(tui.NewModel(nav, dispatchTimeout), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
