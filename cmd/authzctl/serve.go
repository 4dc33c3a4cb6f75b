package main

import (
	"net"
	"net/http"
	"time"

	log "github.com/golang/glog"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/DalavanCloud/subversion/authz"
	"github.com/DalavanCloud/subversion/internal/audit"
	"github.com/DalavanCloud/subversion/internal/reload"
	"github.com/DalavanCloud/subversion/internal/rpcserver"
	"github.com/DalavanCloud/subversion/internal/rules"
)

var (
	serveRulesFile  string
	serveGroupsFile string
	serveHTTPAddr   string
	serveGRPCAddr   string
	serveRedisAddr  string
	serveAuditKey   string
	serveAnonymous  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the authorization engine over HTTP and gRPC",
	Long: `serve watches a rules document for changes and answers access
queries over a JWT-protected HTTP endpoint, while also exposing the
standard gRPC health service for process liveness probes.`,
	Args:         cobra.NoArgs,
	RunE:         runServe,
	SilenceUsage: true,
}

func init() {
	serveCmd.Flags().StringVar(&serveRulesFile, "rules", "", "Path to the authz rules document")
	serveCmd.Flags().StringVar(&serveGroupsFile, "groups", "", "Path to a separate [groups] document")
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", ":8080", "HTTP listen address for the query endpoint")
	serveCmd.Flags().StringVar(&serveGRPCAddr, "grpc", ":8081", "gRPC listen address for the health service")
	serveCmd.Flags().StringVar(&serveRedisAddr, "redis", "", "Redis address for the decision audit stream (empty disables it)")
	serveCmd.Flags().StringVar(&serveAuditKey, "audit-stream", "authz:decisions", "Redis stream name for the audit sink")
	serveCmd.Flags().BoolVar(&serveAnonymous, "allow-anonymous", false, "Allow unauthenticated queries")
	serveCmd.MarkFlagRequired("rules")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	loadFn := func() (*authz.Authz, error) {
		cfg, err := rules.LoadFile(serveRulesFile)
		if err != nil {
			return nil, err
		}
		var groupsCfg authz.Config
		if serveGroupsFile != "" {
			g, err := rules.LoadFile(serveGroupsFile)
			if err != nil {
				return nil, err
			}
			groupsCfg = g
		}
		return authz.Load(cfg, groupsCfg, serveRulesFile)
	}

	watcher, err := reload.NewWatcher(serveRulesFile, serveGroupsFile, loadFn)
	if err != nil {
		return err
	}
	watcher.Start()
	defer watcher.Stop()

	sink := buildAuditSink()

	authr := rpcserver.NewAuthenticator()
	authr.AllowAnonymous = serveAnonymous
	handler := rpcserver.NewHandler(authr, watcher.Current, sink)

	httpSrv := &http.Server{Addr: serveHTTPAddr, Handler: http.HandlerFunc(handler.ServeHTTP)}
	go func() {
		log.Infof("authzctl: serving queries on %s", serveHTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("authzctl: http server stopped: %v", err)
		}
	}()

	lis, err := net.Listen("tcp", serveGRPCAddr)
	if err != nil {
		return err
	}
	grpcSrv := grpc.NewServer()
	rpcserver.RegisterHealth(grpcSrv)

	log.Infof("authzctl: serving grpc health on %s", serveGRPCAddr)
	return grpcSrv.Serve(lis)
}

func buildAuditSink() audit.Sink {
	if serveRedisAddr == "" {
		return audit.NoopSink{}
	}
	client := redis.NewClient(&redis.Options{Addr: serveRedisAddr, DialTimeout: 5 * time.Second})
	return audit.NewRedisSink(client, serveAuditKey)
}
