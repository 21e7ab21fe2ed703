package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrServer 导出服务监听和关闭的错误
var ErrServer = errs.Class("http server")

const defaultShutdownTimeout = 5 * time.Second

type Config struct {
	Address         string        `help:"监听地址" default:"0.0.0.0:8989"`
	Endpoint        string        `help:"访问地址" default:"http://localhost:8989"`
	ReadTimeout     time.Duration `help:"读取请求头超时" default:"30s"`
	ShutdownTimeout time.Duration `help:"关闭时等待进行中导出的时间" default:"5s"`
}

// Server 把导出器挂到 gin 上，提供下载接口
type Server struct {
	*gin.Engine
	logger *zap.Logger
	config Config

	mu       sync.Mutex
	httpSrv  *http.Server
	listener net.Listener
}

// NewServer engine 为nil时创建默认engine
func NewServer(engine *gin.Engine, logger *zap.Logger, conf Config) *Server {
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		Engine: engine,
		logger: logger,
		config: conf,
	}
	s.routes()
	return s
}

// Addr 实际监听的地址，Start 之前为nil
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start 监听并阻塞到 ctx 取消，取消后等待进行中的导出完成
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return ErrServer.Wrap(err)
	}
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadTimeout,
	}
	s.mu.Lock()
	s.httpSrv, s.listener = srv, ln
	s.mu.Unlock()

	s.logger.Info("http server listening",
		zap.Stringer("address", ln.Addr()),
		zap.String("endpoint", s.config.Endpoint))

	ctx, cancel := context.WithCancel(ctx)
	var group errgroup.Group
	group.Go(func() error {
		<-ctx.Done()
		return s.Stop(context.Background())
	})
	group.Go(func() error {
		defer cancel()
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return ErrServer.Wrap(err)
		}
		return nil
	})
	return group.Wait()
}

// Stop 可重复调用，未启动时直接返回
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpSrv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("http server forced to shutdown", zap.Error(err))
		return ErrServer.Wrap(err)
	}
	s.logger.Info("http server stopped")
	return nil
}
