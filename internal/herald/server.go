package herald

import (
	"context"
	"fmt"
	"log"

	"github.com/kiosk404/herald/internal/herald/config"
	"github.com/kiosk404/herald/internal/herald/handler/middleware"
	"github.com/kiosk404/herald/internal/herald/service/llm"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/helper"
	"github.com/kiosk404/herald/internal/herald/service/mcp"
	"github.com/kiosk404/herald/internal/herald/service/orchestrator"
	"github.com/kiosk404/herald/internal/herald/service/preferences"
	"github.com/kiosk404/herald/internal/herald/service/sessions"
	"github.com/kiosk404/herald/internal/herald/service/speech"
	"github.com/kiosk404/herald/internal/herald/service/tools"
	"github.com/kiosk404/herald/internal/herald/service/tools/cache"
	"github.com/kiosk404/herald/internal/herald/service/workspace"
	genericapiserver "github.com/kiosk404/herald/internal/pkg/server"
	"github.com/kiosk404/herald/pkg/http/shutdown"
	"github.com/kiosk404/herald/pkg/http/shutdown/posixsignal"
	"github.com/kiosk404/herald/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

type apiServer struct {
	cfg              *config.Config
	gs               *shutdown.GracefulShutdown
	gRPCAPIServer    *genericapiserver.GRPCAPIServer
	genericAPIServer *genericapiserver.GenericAPIServer

	llmModule          *llm.Module
	workspaceModule    *workspace.Module
	toolsModule        *tools.Module
	mcpModule          *mcp.Module
	sessionsModule     *sessions.Module
	preferencesModule  *preferences.Module
	speechModule       *speech.Module
	orchestratorModule *orchestrator.Module
}

type preparedAPIServer struct {
	*apiServer
}

// ExtraConfig defines extra configuration for the API server.
type ExtraConfig struct {
	Enabled    bool
	Addr       string
	MaxMsgSize int
}

type completedExtraConfig struct {
	*ExtraConfig
}

func (c *ExtraConfig) complete() *completedExtraConfig {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:11788"
	}

	return &completedExtraConfig{c}
}

// New creates a grpcAPIServer instance, or nil when gRPC is disabled.
func (c *completedExtraConfig) New() (*genericapiserver.GRPCAPIServer, error) {
	if !c.Enabled {
		return nil, nil
	}
	opts := []grpc.ServerOption{grpc.MaxRecvMsgSize(c.MaxMsgSize)}
	grpcServer := grpc.NewServer(opts...)

	reflection.Register(grpcServer)

	return genericapiserver.NewGRPCAPIServer(grpcServer, c.Addr), nil
}

func createAPIServer(cfg *config.Config) (*apiServer, error) {
	gs := shutdown.New()
	gs.AddShutdownManager(posixsignal.NewPosixSignalManager())

	genericConfig, err := buildGenericConfig(cfg)
	if err != nil {
		return nil, err
	}

	extraConfig, err := buildExtraConfig(cfg)
	if err != nil {
		return nil, err
	}

	genericServer, err := genericConfig.Complete().New()
	if err != nil {
		return nil, err
	}
	extraServer, err := extraConfig.complete().New()
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	server := &apiServer{
		cfg:              cfg,
		gs:               gs,
		genericAPIServer: genericServer,
		gRPCAPIServer:    extraServer,
	}
	if err := server.initModules(ctx); err != nil {
		server.closeModules()
		return nil, err
	}

	return server, nil
}

// initModules builds the service modules in dependency order.
func (s *apiServer) initModules(ctx context.Context) error {
	cfg := s.cfg
	var err error

	llmCfg := &llm.Config{ModelOptions: cfg.ModelOptions}
	if s.llmModule, err = llmCfg.Complete().New(ctx); err != nil {
		return fmt.Errorf("failed to initialize LLM module: %w", err)
	}
	chatModel, err := s.llmModule.DefaultChatModel(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve default chat model: %w", err)
	}
	logger.Info("[Herald] LLM module initialized successfully")

	wsCfg := &workspace.Config{
		StoreType:  cfg.StoreOptions.WorkspaceStore,
		BoltDBPath: cfg.StoreOptions.WorkspaceDBPath,
		SeedFile:   cfg.StoreOptions.WorkspaceSeed,
	}
	if s.workspaceModule, err = wsCfg.Complete().New(ctx); err != nil {
		return fmt.Errorf("failed to create Workspace module: %w", err)
	}

	to := cfg.ToolsOptions
	toolsCfg := &tools.Config{
		CacheBackend:    to.CacheBackend,
		CacheTTL:        to.CacheTTL,
		CacheMaxEntries: to.CacheMaxEntries,
		Redis: cache.RedisConfig{
			Addr:      to.RedisAddr,
			Password:  helper.ResolveEnvValue(to.RedisPassword),
			DB:        to.RedisDB,
			KeyPrefix: to.RedisKeyPrefix,
		},
		CacheWriteTools: to.CacheWriteTools,
		Uncached:        to.Uncached,
		ExecTimeout:     to.ExecTimeout,
		StrictParams:    to.StrictParams,
		SearchEndpoint:  to.SearchEndpoint,
		CrawlTimeout:    to.CrawlTimeout,
		MaxPageChars:    to.MaxPageChars,
	}
	s.toolsModule, err = toolsCfg.Complete().New(ctx, tools.Dependencies{
		Workspace: s.workspaceModule.Repo,
		ChatModel: chatModel,
	})
	if err != nil {
		return fmt.Errorf("failed to create Tools module: %w", err)
	}
	logger.Info("[Herald] Tools module initialized (%d tools)", s.toolsModule.Registry.Len())

	mcpCfg := &mcp.Config{ConfigFile: cfg.MCPOptions.ConfigFile}
	if s.mcpModule, err = mcpCfg.Complete().New(ctx, s.toolsModule.Registry); err != nil {
		return fmt.Errorf("failed to create MCP module: %w", err)
	}

	sessCfg := &sessions.Config{
		StoreType:  cfg.StoreOptions.SessionStore,
		BoltDBPath: cfg.StoreOptions.SessionDBPath,
	}
	if s.sessionsModule, err = sessCfg.Complete().New(ctx); err != nil {
		return fmt.Errorf("failed to create Sessions module: %w", err)
	}

	prefsCfg := &preferences.Config{
		StoreType:  cfg.StoreOptions.PreferencesStore,
		SQLitePath: cfg.StoreOptions.PreferencesDBPath,
	}
	if s.preferencesModule, err = prefsCfg.Complete().New(ctx); err != nil {
		return fmt.Errorf("failed to create Preferences module: %w", err)
	}

	so := cfg.SpeechOptions
	speechCfg := &speech.Config{
		Provider: so.Provider,
		APIKey:   so.APIKey,
		BaseURL:  so.BaseURL,
		STTModel: so.STTModel,
		TTSModel: so.TTSModel,
		Voice:    so.Voice,
		Timeout:  so.Timeout,
	}
	if s.speechModule, err = speechCfg.Complete().New(ctx); err != nil {
		return fmt.Errorf("failed to create Speech module: %w", err)
	}

	oo := cfg.OrchestratorOptions
	orchCfg := &orchestrator.ModuleConfig{
		HistoryLimit:      oo.HistoryLimit,
		AutoCreateSession: oo.AutoCreateSession,
		SelectTimeout:     oo.SelectTimeout,
		GenerateTimeout:   oo.GenerateTimeout,
		StoreTimeout:      oo.StoreTimeout,
	}
	s.orchestratorModule, err = orchCfg.Complete().New(ctx, orchestrator.Dependencies{
		ChatModel:   chatModel,
		Tools:       s.toolsModule.Executor,
		Catalog:     s.toolsModule.Registry,
		Preferences: s.preferencesModule.Service,
		Sessions:    s.sessionsModule.Service,
	})
	if err != nil {
		return fmt.Errorf("failed to create Orchestrator module: %w", err)
	}
	logger.Info("[Herald] Orchestrator module initialized successfully")

	return nil
}

func (s *apiServer) PrepareRun() preparedAPIServer {
	gw := s.cfg.GatewayOptions
	initRouter(s.genericAPIServer.Engine, &routerDeps{
		pipeline:       s.orchestratorModule.Pipeline,
		catalog:        s.toolsModule.Registry,
		sessions:       s.sessionsModule.Service,
		preferences:    s.preferencesModule.Service,
		speech:         s.speechModule.Provider,
		mcp:            s.mcpModule,
		maxUploadBytes: s.cfg.SpeechOptions.MaxUploadBytes,
		authConfig: &middleware.AuthConfig{
			Enabled:    gw.AuthEnabled,
			Token:      gw.Token,
			AllowLocal: gw.AllowLocal,
		},
		defaultUser: gw.DefaultUser,
	})

	s.gs.AddShutdownCallback(shutdown.Func(func(string) error {
		if s.gRPCAPIServer != nil {
			s.gRPCAPIServer.Stop()
		}
		s.genericAPIServer.Close()
		s.closeModules()
		return nil
	}))
	return preparedAPIServer{s}
}

// closeModules releases modules in reverse construction order. The
// orchestrator goes first so pending session writes land before the
// stores close.
func (s *apiServer) closeModules() {
	var closers []moduleCloser
	if s.orchestratorModule != nil {
		closers = append(closers, moduleCloser{"orchestrator", s.orchestratorModule.Close})
	}
	if s.preferencesModule != nil {
		closers = append(closers, moduleCloser{"preferences", s.preferencesModule.Close})
	}
	if s.sessionsModule != nil {
		closers = append(closers, moduleCloser{"sessions", s.sessionsModule.Close})
	}
	if s.mcpModule != nil {
		closers = append(closers, moduleCloser{"mcp", s.mcpModule.Close})
	}
	if s.toolsModule != nil {
		closers = append(closers, moduleCloser{"tools", s.toolsModule.Close})
	}
	if s.workspaceModule != nil {
		closers = append(closers, moduleCloser{"workspace", s.workspaceModule.Close})
	}
	for _, c := range closers {
		if err := c.close(); err != nil {
			logger.Warn("[Herald] close %s module: %v", c.name, err)
		}
	}
}

type moduleCloser struct {
	name  string
	close func() error
}

func (s preparedAPIServer) Run() error {
	if s.gRPCAPIServer != nil {
		go s.gRPCAPIServer.Run()
	}

	// start shutdown managers
	if err := s.gs.Start(); err != nil {
		log.Fatalf("start shutdown manager failed: %s", err.Error())
	}

	return s.genericAPIServer.Run()
}

func buildGenericConfig(cfg *config.Config) (genericConfig *genericapiserver.Config, lastErr error) {
	genericConfig = genericapiserver.NewConfig()
	if lastErr = cfg.ApplyTo(genericConfig); lastErr != nil {
		return
	}

	return
}

func buildExtraConfig(cfg *config.Config) (*ExtraConfig, error) {
	return &ExtraConfig{
		Enabled:    cfg.GRPCOptions.Enabled,
		Addr:       fmt.Sprintf("%s:%d", cfg.GRPCOptions.BindAddress, cfg.GRPCOptions.BindPort),
		MaxMsgSize: cfg.GRPCOptions.MaxMsgSize,
	}, nil
}
