package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"xdao.co/abiparam/internal/config"
	"xdao.co/abiparam/rpc"
	"xdao.co/abiparam/storage"
	"xdao.co/abiparam/storage/localfs"
	"xdao.co/abiparam/storage/memcas"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, errOut io.Writer) int {
	cfg, code, ok := loadConfig(args, errOut)
	if !ok {
		return code
	}

	log, err := cfg.Logger()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	defer func() { _ = log.Sync() }()

	cas, err := openBackend(cfg)
	if err != nil {
		log.Error("open backend", zap.String("backend", cfg.Backend), zap.Error(err))
		return 1
	}

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		log.Error("listen", zap.String("addr", cfg.Listen), zap.Error(err))
		return 1
	}
	defer lis.Close()

	s := grpc.NewServer(rpc.ServerOptions(log, cfg.MaxMsgBytes)...)
	rpc.RegisterResolverServer(s, &rpc.Server{CAS: cas})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("abiparamd listening",
			zap.String("addr", lis.Addr().String()),
			zap.String("backend", cfg.Backend),
		)
		return s.Serve(lis)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		s.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("serve", zap.Error(err))
		return 1
	}
	return 0
}

// loadConfig applies flags over the config file, which is applied over
// config.Default. Only flags set explicitly override the file.
func loadConfig(args []string, errOut io.Writer) (config.Config, int, bool) {
	fs := flag.NewFlagSet("abiparamd", flag.ContinueOnError)
	fs.SetOutput(errOut)
	cfgPath := fs.String("config", "", "JSON config file")
	listen := fs.String("listen", config.DefaultListen, "listen address")
	backend := fs.String("backend", config.DefaultBackend, "CAS backend: memory or localfs")
	storeDir := fs.String("store-dir", "", "localfs store directory")
	logLevel := fs.String("log-level", config.DefaultLogLevel, "log level")
	maxMsg := fs.Int("max-msg-bytes", config.DefaultMaxMsgBytes, "max gRPC message size")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, 2, false
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.LoadFile(*cfgPath); err != nil {
			fmt.Fprintln(errOut, err)
			return config.Config{}, 2, false
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			cfg.Listen = *listen
		case "backend":
			cfg.Backend = *backend
		case "store-dir":
			cfg.StoreDir = *storeDir
		case "log-level":
			cfg.LogLevel = *logLevel
		case "max-msg-bytes":
			cfg.MaxMsgBytes = *maxMsg
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(errOut, err)
		return config.Config{}, 2, false
	}
	return cfg, 0, true
}

func openBackend(cfg config.Config) (storage.CAS, error) {
	switch cfg.Backend {
	case "memory":
		return memcas.New(), nil
	case "localfs":
		return localfs.New(cfg.StoreDir)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
