package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"assistd/internal/classify"
	"assistd/internal/config"
	"assistd/internal/httpapi"
	"assistd/internal/llm"
	"assistd/internal/orchestrator"
	"assistd/internal/registry"
	"assistd/internal/slot"
	"assistd/internal/toolexec"
	"assistd/pkg/types"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "assistd",
		Short:         "Local coding assistant over role-based model slots",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	f := root.Flags()
	f.String("config", envOr("ASSISTD_CONFIG", ""), "Path to config file (.yaml/.json/.toml)")
	f.String("models-dir", envOr("ASSISTD_MODELS_DIR", "~/models/llm"), "Directory to scan for *.gguf model files")
	f.Int("budget-mb", 0, "Memory budget in MB across all slots (0=unlimited)")
	f.Int("margin-mb", 0, "Reserved margin in MB kept free under the budget")
	f.String("http-addr", envOr("ASSISTD_ADDR", ""), "Status sidecar listen address, e.g. :8080 (empty=disabled)")
	f.String("work-dir", envOr("ASSISTD_WORK_DIR", "."), "Working directory for tool execution")
	f.String("log-level", envOr("ASSISTD_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func run(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	logLevel, _ := flags.GetString("log-level")
	log := newLogger(logLevel)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	models, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		return fmt.Errorf("scan models dir: %w", err)
	}
	log.Info().Int("count", len(models)).Str("dir", cfg.ModelsDir).Msg("model registry loaded")

	mgrCfg, err := buildManagerConfig(cfg, models, log)
	if err != nil {
		return err
	}
	mgr := slot.NewWithConfig(mgrCfg)

	classifier := classify.New(mgr, log)
	tools := toolexec.New(cfg.WorkDir, log)
	files := toolexec.NewFileReader(cfg.WorkDir)
	orch := orchestrator.New(mgr, classifier, tools, files, orchestrator.Config{
		GenTimeout: time.Duration(cfg.GenTimeoutSecs) * time.Second,
		Observe:    httpapi.ObserveIntent,
		Logger:     log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go mgr.StartIdleSweeper(ctx, 30*time.Second)

	// Warm the always-resident router so the first request does not pay the
	// load. A failure here is not fatal: the load is retried on demand.
	if _, err := mgr.EnsureLoaded(ctx, slot.RoleRouter); err != nil {
		log.Warn().Err(err).Msg("router model not preloaded")
	}

	var srv *http.Server
	if cfg.HTTPAddr != "" {
		srv = &http.Server{Addr: cfg.HTTPAddr, Handler: httpapi.NewRouter(mgr, models, log)}
		go func() {
			log.Info().Str("addr", cfg.HTTPAddr).Msg("status sidecar listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("status sidecar stopped")
			}
		}()
	}

	repl(ctx, orch, log)

	if srv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Warn().Err(err).Msg("sidecar shutdown")
		}
	}
	mgr.UnloadAll()
	log.Info().Msg("shut down cleanly")
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger()
}

// loadConfig reads the config file when given and lets explicit flags
// override it, so `assistd --budget-mb 8192` works with or without a file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	var cfg config.Config
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
	}
	if v, _ := flags.GetString("models-dir"); flags.Changed("models-dir") || cfg.ModelsDir == "" {
		cfg.ModelsDir = v
	}
	if flags.Changed("budget-mb") {
		cfg.MemBudgetMB, _ = flags.GetInt("budget-mb")
	}
	if flags.Changed("margin-mb") {
		cfg.MemMarginMB, _ = flags.GetInt("margin-mb")
	}
	if v, _ := flags.GetString("http-addr"); flags.Changed("http-addr") || (cfg.HTTPAddr == "" && v != "") {
		cfg.HTTPAddr = v
	}
	if v, _ := flags.GetString("work-dir"); flags.Changed("work-dir") || cfg.WorkDir == "" {
		cfg.WorkDir = v
	}
	return cfg, nil
}

// llmAdapter builds the generation backend with process-wide fallbacks for
// per-role settings left unset.
func llmAdapter(cfg config.Config) llm.Adapter {
	return llm.NewLlamaAdapter(cfg.Router.CtxSize, cfg.Router.Threads)
}

// buildManagerConfig resolves each configured role against the registry and
// assembles the slot manager's construction parameters.
func buildManagerConfig(cfg config.Config, models []types.Model, log zerolog.Logger) (slot.ManagerConfig, error) {
	roleConfigs := map[slot.Role]config.RoleConfig{
		slot.RoleRouter:     cfg.Router,
		slot.RolePrimary:    cfg.Primary,
		slot.RoleSpecialist: cfg.Specialist,
	}
	mc := slot.ManagerConfig{
		Models:    make(map[slot.Role]types.Model),
		Slots:     make(map[slot.Role]slot.SlotConfig),
		BudgetMB:  cfg.MemBudgetMB,
		MarginMB:  cfg.MemMarginMB,
		Adapter:   llmAdapter(cfg),
		Publisher: httpapi.MetricsPublisher{},
		Logger:    log,
	}
	for role, rc := range roleConfigs {
		if rc.Model == "" {
			continue
		}
		mdl, ok := registry.Resolve(models, rc.Model)
		if !ok {
			return mc, fmt.Errorf("%s role: model %q not found in %s", role, rc.Model, cfg.ModelsDir)
		}
		mc.Models[role] = mdl
		mc.Slots[role] = slot.SlotConfig{
			CtxSize:        rc.CtxSize,
			Threads:        rc.Threads,
			Temperature:    rc.Temperature,
			MaxTokens:      rc.MaxTokens,
			AlwaysResident: rc.AlwaysResident || role == slot.RoleRouter,
			IdleUnload:     time.Duration(rc.IdleUnloadSeconds) * time.Second,
		}
	}
	return mc, nil
}

// repl reads requests line by line from stdin until EOF or a signal.
func repl(ctx context.Context, orch *orchestrator.Orchestrator, log zerolog.Logger) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			lines <- sc.Text()
		}
		if err := sc.Err(); err != nil {
			log.Warn().Err(err).Msg("stdin closed")
		}
	}()

	fmt.Println("assistd ready. Type a request, or 'exit' to quit.")
	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			line = strings.TrimSpace(line)
			switch line {
			case "":
				continue
			case "exit", "quit":
				return
			}
			fmt.Println(orch.Process(ctx, line))
		}
	}
}
