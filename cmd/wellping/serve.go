package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	wellping "github.com/wellping/wellping-sub000"
	"github.com/wellping/wellping-sub000/internal/logging"
	httpadapter "github.com/wellping/wellping-sub000/pkg/adapters/http"
	"github.com/wellping/wellping-sub000/pkg/adapters/memory"
	redisadapter "github.com/wellping/wellping-sub000/pkg/adapters/redis"
	"github.com/wellping/wellping-sub000/pkg/adapters/studyfile"
	"github.com/wellping/wellping-sub000/pkg/observability"
	"github.com/wellping/wellping-sub000/pkg/ports"
	"github.com/wellping/wellping-sub000/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the survey engine over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		studyPath, _ := cmd.Flags().GetString("study")
		addr, _ := cmd.Flags().GetString("addr")
		redisURL, _ := cmd.Flags().GetString("redis")
		level, _ := cmd.Flags().GetString("log-level")
		logger := logging.New(logging.ParseLevel(level))

		graph, err := studyfile.Load(studyPath)
		if err != nil {
			return err
		}

		var (
			sessions ports.SessionStore
			answers  ports.AnswerStore
			queue    ports.FollowupQueue
			locks    *session.Manager
		)
		if redisURL != "" {
			opts, err := backend.ParseURL(redisURL)
			if err != nil {
				return fmt.Errorf("parsing redis url: %w", err)
			}
			client := backend.NewClient(opts)
			sessions = redisadapter.NewStore(client)
			answers = redisadapter.NewLedger(client)
			queue = redisadapter.NewQueue(client, graph.StreamName)
			locks = session.NewManager(
				session.WithLocker(redisadapter.NewLocker(client, "wellping:")),
				session.WithLogger(logger),
			)
		} else {
			sessions = memory.NewStore()
			answers = memory.NewLedger()
			queue = memory.NewQueue()
			locks = session.NewManager(session.WithLogger(logger))
		}

		registry := prometheus.NewRegistry()
		metrics := observability.NewMetrics(registry)

		engine := wellping.New(graph, sessions, answers,
			wellping.WithLogger(logger),
			wellping.WithFollowupQueue(queue),
			wellping.WithHooks(metrics.Hooks()),
		)

		r := chi.NewRouter()
		r.Mount("/", httpadapter.NewHandler(engine,
			httpadapter.WithLogger(logger),
			httpadapter.WithLockManager(locks),
		))
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

		logger.Info("serving survey engine",
			"addr", addr,
			"stream", graph.StreamName,
			"questions", len(graph.Questions),
		)
		return http.ListenAndServe(addr, r)
	},
}

func init() {
	serveCmd.Flags().String("study", "study.yaml", "Path to the study file")
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().String("redis", "", "Redis URL for durable persistence (empty = in-memory)")
	rootCmd.AddCommand(serveCmd)
}
