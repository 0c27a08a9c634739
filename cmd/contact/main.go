// Command contact is a terminal contact form that submits through the
// configured backend (relay, mock or web3forms).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"portfolio-backend/config"
	"portfolio-backend/internal/contactform"
	"portfolio-backend/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "contact: %v\n", err)
		os.Exit(1)
	}

	backendKind := flag.String("backend", cfg.ContactBackend, "submission backend: relay, mock or web3forms")
	apiURL := flag.String("api", cfg.ContactAPIURL, "base URL of the portfolio backend")
	logFile := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	// The terminal is owned by the UI, so logs only go to a file when asked.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "contact: open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	backend, err := contactform.NewBackend(contactform.BackendConfig{
		Kind:       *backendKind,
		BaseURL:    *apiURL,
		RelayURL:   cfg.Web3FormsURL,
		AccessKey:  cfg.Web3FormsAccessKey,
		FromName:   "Portfolio Contact Form",
		ToEmail:    cfg.ContactEmailTo,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "contact: %v\n", err)
		os.Exit(2)
	}

	ctrl := contactform.NewController(backend,
		contactform.WithLogger(log),
		contactform.WithAutoReset(3*time.Second, 4*time.Second),
	)
	defer ctrl.Close()

	p := tea.NewProgram(tui.New(context.Background(), ctrl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "contact: %v\n", err)
		os.Exit(1)
	}
}
