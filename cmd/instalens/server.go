package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/instalens/instalens/internal/instalens"
	"github.com/instalens/instalens/internal/instalens/conf"
	httpservice "github.com/instalens/instalens/internal/instalens/http"
	"github.com/instalens/instalens/pkg/util"
)

var (
	serverAddr      string
	serverWorkDir   string
	serverWatchDir  string
	serverOwner     string
	serverStopwords string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the HTTP and MCP analysis service",
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVarP(&serverAddr, "addr", "a", "", "listen address (default 127.0.0.1:5030)")
	serverCmd.Flags().StringVarP(&serverWorkDir, "work-dir", "w", "", "working directory for cache files")
	serverCmd.Flags().StringVar(&serverWatchDir, "watch-dir", "", "auto-ingest new export archives from this directory")
	serverCmd.Flags().StringVar(&serverOwner, "owner", "", "account holder name for watched exports")
	serverCmd.Flags().StringVar(&serverStopwords, "stopwords", "", "comma-separated extra stopwords for word analysis")
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := conf.Load(configFile)
	if err != nil {
		return err
	}
	if serverAddr != "" {
		cfg.HTTPAddr = serverAddr
	}
	if serverWorkDir != "" {
		cfg.WorkDir = serverWorkDir
	}
	if serverWatchDir != "" {
		cfg.Watch.Enabled = true
		cfg.Watch.Dir = serverWatchDir
	}
	if serverOwner != "" {
		cfg.Watch.Owner = serverOwner
	}
	if serverStopwords != "" {
		cfg.Analysis.ExtraStopwords = append(cfg.Analysis.ExtraStopwords, util.Str2List(serverStopwords, ",")...)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	app, err := instalens.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	app.Start()

	svc := httpservice.NewService(cfg.HTTPAddr, app)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("shutting down")
		svc.Stop()
	}()

	log.Info().Msg("service available at " + util.ComposeLANURL(cfg.HTTPAddr))
	if err := svc.ListenAndServe(); err != nil {
		log.Debug().Err(err).Msg("server stopped")
	}
	return nil
}
