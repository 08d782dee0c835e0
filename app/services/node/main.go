package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EmekaIwuagwu/aurelis-blockchain/app/services/node/handlers"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/genesis"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/p2p"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/peer"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/state"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/events"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/logger"
	"github.com/ardanlabs/conf/v3"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags
// in the makefile.
var build = "develop"

func main() {
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			RPCHost         string        `conf:"default:0.0.0.0:18883"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
		}
		Node struct {
			P2PHost        string   `conf:"default:0.0.0.0:18882"`
			DBPath         string   `conf:"default:blockchain.dat"`
			MinerWorkers   int      `conf:"default:2"`
			ReserveAddress string   `conf:"default:AUR131FCE87dAe14b2A9568D0146950125Fe217Bf0e"`
			KnownPeers     []string
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "(c) 2026 Republic of Aurelis",
		},
	}

	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Blockchain Support

	// Raw node events go to the logs and to any websocket client connected
	// through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s)
		evts.Send(s)
	}

	// The state value represents the ledger engine. It recovers the chain
	// from disk and installs the genesis block on first boot.
	st, err := state.New(state.Config{
		ReserveAddress: cfg.Node.ReserveAddress,
		DBPath:         cfg.Node.DBPath,
		MinerWorkers:   cfg.Node.MinerWorkers,
		EvHandler:      ev,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	log.Infow("startup", "status", "chain loaded", "height", st.QueryHeight(), "best", st.QueryBestHash().String(), "genesis", genesis.ReserveAddress)

	// =========================================================================
	// Start P2P Service

	p2pSrv := p2p.NewServer(cfg.Node.P2PHost, p2p.EventHandler(ev))
	if err := p2pSrv.Start(); err != nil {
		return fmt.Errorf("starting p2p server: %w", err)
	}
	defer p2pSrv.Shutdown()

	// Dial any configured peers for the handshake.
	peerSet := peer.NewPeerSet()
	for _, host := range cfg.Node.KnownPeers {
		if host == "" {
			continue
		}
		peerSet.Add(peer.New(host))
	}
	for _, pr := range peerSet.Copy(cfg.Node.P2PHost) {
		go p2pSrv.ConnectTo(pr.Host)
	}

	// =========================================================================
	// Start Mining

	st.StartMining()

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug router started", "host", cfg.Web.DebugHost)

	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, handlers.DebugMux(build, log)); err != nil {
			log.Errorw("shutdown", "status", "debug router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Start RPC Service

	log.Infow("startup", "status", "initializing RPC API support")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	rpcMux := handlers.RPCMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		Evts:     evts,
	})

	rpcSrv := http.Server{
		Addr:         cfg.Web.RPCHost,
		Handler:      rpcMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Infow("startup", "status", "rpc router started", "host", rpcSrv.Addr)
		serverErrors <- rpcSrv.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		evts.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := rpcSrv.Shutdown(ctx); err != nil {
			rpcSrv.Close()
			return fmt.Errorf("could not stop rpc service gracefully: %w", err)
		}
	}

	return nil
}
