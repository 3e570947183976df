package mcp

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kiosk404/herald/pkg/logger"
)

// Manager owns every configured MCP server connection.
type Manager interface {
	// Initialize connects to all servers concurrently. It fails only when
	// every configured server fails.
	Initialize(ctx context.Context) error
	// RemoteTools returns the tools of all connected servers, in server order.
	RemoteTools() []RemoteTool
	Reconnect(ctx context.Context, serverName string) error
	ServerNames() []string
	ServerStatus(serverName string) ServerStatus
	Close() error
}

var _ Manager = (*managerImpl)(nil)

type managerImpl struct {
	mu      sync.RWMutex
	servers map[string]*Server
	order   []string
}

func newManager(cfg *MCPConfig) *managerImpl {
	m := &managerImpl{
		servers: make(map[string]*Server, len(cfg.MCPServers)),
		order:   make([]string, 0, len(cfg.MCPServers)),
	}
	for name, srvCfg := range cfg.MCPServers {
		m.servers[name] = NewServer(name, srvCfg)
		m.order = append(m.order, name)
	}
	sort.Strings(m.order)
	return m
}

func (m *managerImpl) Initialize(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.servers) == 0 {
		logger.Info("[MCP] no MCP servers configured, skipping initialization")
		return nil
	}
	logger.Info("[MCP] initializing %d MCP servers...", len(m.servers))

	var (
		wg     sync.WaitGroup
		errMu  sync.Mutex
		failed int
	)
	for _, srv := range m.servers {
		wg.Add(1)
		go func(s *Server) {
			defer wg.Done()
			if err := s.Connect(ctx); err != nil {
				errMu.Lock()
				failed++
				errMu.Unlock()
				logger.Warn("[MCP] server %q failed to connect: %v", s.Name(), err)
			}
		}(srv)
	}
	wg.Wait()

	connected := len(m.servers) - failed
	logger.Info("[MCP] initialization complete: %d/%d servers connected", connected, len(m.servers))
	if connected == 0 {
		return fmt.Errorf("[MCP] all servers failed to connect (%d errors)", failed)
	}
	return nil
}

func (m *managerImpl) RemoteTools() []RemoteTool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []RemoteTool
	for _, name := range m.order {
		srv := m.servers[name]
		if srv.Status() == ServerStatusConnected {
			all = append(all, srv.Tools()...)
		}
	}
	return all
}

func (m *managerImpl) Reconnect(ctx context.Context, serverName string) error {
	m.mu.RLock()
	srv, ok := m.servers[serverName]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("[MCP] server %q not found", serverName)
	}
	return srv.Reconnect(ctx)
}

func (m *managerImpl) ServerNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

func (m *managerImpl) ServerStatus(serverName string) ServerStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	srv, ok := m.servers[serverName]
	if !ok {
		return ServerStatusDisconnected
	}
	return srv.Status()
}

func (m *managerImpl) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, srv := range m.servers {
		srv.Close()
	}
	logger.Info("[MCP] all servers closed")
	return nil
}
