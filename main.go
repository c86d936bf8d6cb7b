package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/nstehr/burrow/burrow-core/agent"
	"github.com/nstehr/burrow/burrow-core/config"
	"github.com/nstehr/burrow/burrow-core/creep"
	"github.com/nstehr/burrow/burrow-core/ipc"
	"github.com/nstehr/burrow/burrow-core/journal"
	"github.com/nstehr/burrow/burrow-core/memory"
	"github.com/nstehr/burrow/burrow-core/rules"
	"github.com/nstehr/burrow/burrow-core/spawn"
)

const banner = `
██████╗ ██╗   ██╗██████╗ ██████╗  ██████╗ ██╗    ██╗
██╔══██╗██║   ██║██╔══██╗██╔══██╗██╔═══██╗██║    ██║
██████╔╝██║   ██║██████╔╝██████╔╝██║   ██║██║ █╗ ██║
██╔══██╗██║   ██║██╔══██╗██╔══██╗██║   ██║██║███╗██║
██████╔╝╚██████╔╝██║  ██║██║  ██║╚██████╔╝╚███╔███╔╝
╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝  ╚══╝╚══╝

Rule-Driven Colony Control`

// deps are shared by every session.
type deps struct {
	cfg     config.Config
	store   memory.Store
	engine  *rules.Engine
	journal *journal.TickJournal
}

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	slog.Info("starting burrow", "config", *configPath, "memory", cfg.Memory.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := memory.Open(cfg.Memory.Backend, cfg.Memory.SQLitePath, cfg.Memory.RedisAddr, cfg.Memory.RedisPrefix)
	if err != nil {
		slog.Error("failed to open memory store", "backend", cfg.Memory.Backend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	if rs, ok := store.(*memory.RedisStore); ok {
		if err := rs.Ping(ctx); err != nil {
			slog.Error("redis unreachable", "addr", cfg.Memory.RedisAddr, "error", err)
			os.Exit(1)
		}
	}

	engine, err := rules.NewEngine(rules.CompileNeeds(cfg.Production))
	if err != nil {
		slog.Error("failed to compile need rules", "error", err)
		os.Exit(1)
	}

	d := deps{cfg: cfg, store: store, engine: engine}
	if cfg.Journal.Dir != "" {
		d.journal = journal.NewTickJournal(cfg.Journal.Dir)
		defer d.journal.Close()
		slog.Info("journaling ticks", "dir", cfg.Journal.Dir)
	}

	if *configPath != "" {
		go reloadOnHangup(ctx, *configPath, engine)
	}

	socketPath := cfg.SocketPath

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(socketPath); err != nil {
		slog.Error("failed to clean up socket", "path", socketPath, "error", err)
		os.Exit(1)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		slog.Error("failed to listen on socket", "path", socketPath, "error", err)
		os.Exit(1)
	}
	defer listener.Close()
	defer os.Remove(socketPath)

	slog.Info("listening on domain socket", "path", socketPath)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			go handleConn(ctx, conn, d)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
}

// reloadOnHangup recompiles the need rules from the config file on SIGHUP.
func reloadOnHangup(ctx context.Context, path string, engine *rules.Engine) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := engine.ReloadFrom(path); err != nil {
				slog.Error("need rule reload failed, keeping current rules", "path", path, "error", err)
			}
		}
	}
}

func handleConn(ctx context.Context, conn net.Conn, d deps) {
	newColony := func(store memory.Store) (*agent.Orchestrator, *spawn.Planner) {
		planner := spawn.NewPlanner(store, d.engine, d.cfg.Production, d.cfg.SpawnName)
		return agent.NewOrchestrator(store, planner, creep.NewController(store, d.cfg.Tuning)), planner
	}
	s := agent.NewSession(ctx, d.store, newColony, d.journal, d.cfg.Production.UpgraderDowngradeRisk)

	c := ipc.NewConnection(conn, nil)
	c.Session = s.ID
	c.RegisterHandler(ipc.TypeHello, s.HandleHello)
	c.RegisterHandler(ipc.TypeTick, s.HandleTick)
	slog.Info("new connection accepted", "session", s.ID)
	c.Serve(ctx)
}
