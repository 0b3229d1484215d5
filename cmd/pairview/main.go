package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/pairview/cmd/pairview/ui"
	fsstore "github.com/PabloGalante/pairview/internal/adapters/store/firestore"
	memstore "github.com/PabloGalante/pairview/internal/adapters/store/memory"
	"github.com/PabloGalante/pairview/internal/adapters/store/realtime"
	"github.com/PabloGalante/pairview/internal/app/pairing"
	"github.com/PabloGalante/pairview/internal/config"
	"github.com/PabloGalante/pairview/internal/credentials"
	"github.com/PabloGalante/pairview/internal/domain"
	"github.com/PabloGalante/pairview/internal/observability"
)

var (
	flagBackend   string
	flagConfigURL string
	flagCode      string
)

var rootCmd = &cobra.Command{
	Use:   "pairview",
	Short: "Pair with a remote assistant session and watch its responses live",
	RunE:  run,

	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&flagBackend, "backend", "", "session store backend: realtime, firestore or memory")
	rootCmd.Flags().StringVar(&flagConfigURL, "config-url", "", "remote config endpoint tried first for store credentials")
	rootCmd.Flags().StringVar(&flagCode, "code", "", "pairing code to verify immediately, skipping the login prompt")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagBackend != "" {
		cfg.Backend = config.Backend(flagBackend)
	}
	if flagConfigURL != "" {
		cfg.ConfigURL = flagConfigURL
	}

	// The TUI owns the terminal, so logs go to a file.
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		observability.Init(f)
	}

	log := observability.Logger()

	var store domain.SessionStore

	switch cfg.Backend {
	case config.BackendMemory:
		log.Info("using in-memory session store")
		mem := memstore.NewStore()
		// A fixed demo session so local runs have something to pair with.
		mem.Seed(domain.SessionRecord{Code: "1234"})
		store = mem

	case config.BackendFirestore:
		resolver := credentials.DefaultResolver(cfg.ConfigURL)
		creds, err := resolver.Resolve(ctx)
		if err != nil {
			return err
		}
		log.Info("using firestore session store", "project", creds.Endpoint)
		store, err = fsstore.NewStore(ctx, creds.Endpoint)
		if err != nil {
			return err
		}

	default:
		resolver := credentials.DefaultResolver(cfg.ConfigURL)
		creds, err := resolver.Resolve(ctx)
		if err != nil {
			return err
		}
		log.Info("using realtime session store", "endpoint", creds.Endpoint)
		store, err = realtime.New(creds)
		if err != nil {
			return err
		}
	}

	verifier := pairing.NewService(store)

	program := tea.NewProgram(ui.NewModel(ctx, verifier, store, flagCode), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
