package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/Additional-Code/geosstore/internal/config"
	"github.com/Additional-Code/geosstore/internal/database"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

const probeInterval = 15 * time.Second

// Module exposes the gRPC server and lifecycle hooks to Fx.
var Module = fx.Module("grpc_server",
	fx.Provide(NewServer),
	fx.Invoke(Run),
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewServer builds a gRPC server with logging interceptors and the standard
// health service. Health follows the database: SERVING while it answers a
// ping, NOT_SERVING otherwise.
func NewServer(lc fx.Lifecycle, conns *database.Connections, logger *zap.Logger) *grpc.Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(unaryInterceptor(logger)),
		grpc.ChainStreamInterceptor(streamInterceptor(logger)),
	)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(server, hs)

	probe := newHealthProbe(hs, conns, probeInterval, logger)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			probe.check(ctx)
			probe.start()
			return nil
		},
		OnStop: func(context.Context) error {
			probe.stop()
			hs.Shutdown()
			return nil
		},
	})

	return server
}

// unaryInterceptor logs each call and converts application errors into gRPC
// status errors carrying the matching code. Causes are logged, never returned.
func unaryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		err = toStatus(err)
		logCall(logger, "grpc unary call finished", info.FullMethod, time.Since(start), err)
		return resp, err
	}
}

func streamInterceptor(logger *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := toStatus(handler(srv, ss))
		logCall(logger, "grpc stream call finished", info.FullMethod, time.Since(start), err)
		return err
	}
}

func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var appErr *errorbank.AppError
	if errors.As(err, &appErr) {
		return status.Error(appErr.GRPCCode(), appErr.Message())
	}
	return status.Error(errorbank.From(err).GRPCCode(), "internal error")
}

func logCall(logger *zap.Logger, msg, method string, d time.Duration, err error) {
	fields := []zap.Field{zap.String("method", method), zap.Duration("duration", d)}
	if err != nil {
		fields = append(fields, zap.String("code", status.Code(err).String()), zap.Error(err))
		logger.Warn(msg, fields...)
		return
	}
	logger.Info(msg, fields...)
}

// healthProbe re-checks the database on an interval and mirrors the result
// into the health service.
type healthProbe struct {
	hs       *health.Server
	db       Pinger
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	serving bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func newHealthProbe(hs *health.Server, db Pinger, interval time.Duration, logger *zap.Logger) *healthProbe {
	return &healthProbe{hs: hs, db: db, interval: interval, logger: logger}
}

func (p *healthProbe) check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := p.db.Ping(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	serving := err == nil
	if serving == p.serving {
		return
	}
	p.serving = serving
	if serving {
		p.logger.Info("grpc health: database reachable")
		p.hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		return
	}
	p.logger.Warn("grpc health: database unavailable", zap.Error(err))
	p.hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
}

func (p *healthProbe) start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.check(ctx)
			}
		}
	}()
}

func (p *healthProbe) stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

// Run binds the gRPC server to the configured host/port and manages lifecycle.
func Run(lc fx.Lifecycle, cfg config.Config, server *grpc.Server, logger *zap.Logger) {
	if !cfg.GRPC.Enabled {
		logger.Info("gRPC server disabled")
		return
	}
	addr := fmt.Sprintf("%s:%d", cfg.GRPC.Host, cfg.GRPC.Port)
	var listener net.Listener

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen grpc: %w", err)
			}
			listener = ln
			logger.Info("starting gRPC server", zap.String("addr", addr))
			go func() {
				if err := server.Serve(listener); err != nil {
					logger.Fatal("grpc server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping gRPC server")
			stopped := make(chan struct{})
			go func() {
				server.GracefulStop()
				close(stopped)
			}()

			select {
			case <-ctx.Done():
				server.Stop()
				return ctx.Err()
			case <-stopped:
				if listener != nil {
					_ = listener.Close()
				}
				return nil
			}
		},
	})
}
