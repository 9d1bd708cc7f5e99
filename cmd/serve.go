package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/philippgille/chromem-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hristov111/companion/pkg/companionserver"
	"github.com/hristov111/companion/pkg/flags"
	"github.com/hristov111/companion/pkg/memory"
	"github.com/hristov111/companion/pkg/sessions"
)

const defaultAIEndpoint = "https://api.openai.com/v1"

type ServerFlags struct {
	DBFlags     *flags.PostgresFlags
	CacheFlags  *flags.CacheFlags
	AIFlags     *flags.AIFlags
	MemoryFlags *flags.MemoryFlags
	ListenAddr  string
	MetricsAddr string
}

func NewServerFlags() *ServerFlags {
	return &ServerFlags{
		DBFlags:     flags.NewPostgresDatabaseFlags(),
		CacheFlags:  flags.NewCacheFlags(),
		AIFlags:     flags.NewAIFlags(),
		MemoryFlags: flags.NewMemoryFlags(),
		ListenAddr:  ":8080",
		MetricsAddr: ":2112",
	}
}

func (f *ServerFlags) BindFlags(fs *pflag.FlagSet) {
	f.DBFlags.BindFlags(fs)
	f.CacheFlags.BindFlags(fs)
	f.AIFlags.BindFlags(fs)
	f.MemoryFlags.BindFlags(fs)
	fs.StringVar(&f.ListenAddr, "listen", f.ListenAddr, "The address to serve the API on (default :8080)")
	fs.StringVar(&f.MetricsAddr, "listen-metrics", f.MetricsAddr, "The address to serve prometheus metrics on (default :2112)")
}

func init() {
	f := NewServerFlags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the companion chat API",
		Run: func(cmd *cobra.Command, args []string) {
			dbc, err := f.DBFlags.GetDBClient()
			if err != nil {
				log.WithError(err).Fatal("could not connect to db")
			}
			if err := dbc.UpdateSchema(); err != nil {
				log.WithError(err).Fatal("could not migrate schema")
			}

			cacheClient, err := f.CacheFlags.GetCacheClient()
			if err != nil {
				log.WithError(err).Fatal("could not connect to the session cache")
			}

			vectors, err := f.MemoryFlags.GetVectorDB()
			if err != nil {
				log.WithError(err).Fatal("could not open the memory index")
			}

			endpoint := f.AIFlags.Endpoint
			if endpoint == "" {
				endpoint = defaultAIEndpoint
			}
			embed := chromem.NewEmbeddingFuncOpenAICompat(
				endpoint, os.Getenv("OPENAI_API_KEY"), f.MemoryFlags.EmbeddingModel, nil)

			server := companionserver.NewServer(
				f.ListenAddr,
				sessions.New(dbc, cacheClient),
				memory.New(dbc, vectors, embed),
				f.AIFlags.GetLLMClient(),
				cacheClient,
			)

			// Serve our metrics endpoint for prometheus to scrape
			go func() {
				http.Handle("/metrics", promhttp.Handler())
				err := http.ListenAndServe(f.MetricsAddr, nil) // #nosec G114
				if err != nil {
					panic(err)
				}
			}()

			go server.Serve()

			sigChannel := make(chan os.Signal, 1)
			signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigChannel
			log.Infof("Received shutdown signal: %v", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.WithError(err).Error("error shutting down server")
			}
		},
	}

	f.BindFlags(cmd.Flags())
	rootCmd.AddCommand(cmd)
}
