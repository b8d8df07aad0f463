// Package health поднимает gRPC-сервер со стандартным протоколом
// grpc.health.v1 для проверок оркестратора.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName — имя сервиса в ответах health-проверки.
const ServiceName = "helpcenter"

// Server отвечает SERVING, пока работает HTTP API.
type Server struct {
	grpcServer *grpc.Server
	health     *grpchealth.Server
	listener   net.Listener
	log        *slog.Logger
}

// New открывает TCP-листенер на addr.
func New(addr string, log *slog.Logger) (*Server, error) {
	const op = "health.New"

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return NewWithListener(lis, log), nil
}

// NewWithListener создаёт сервер поверх готового листенера.
func NewWithListener(lis net.Listener, log *slog.Logger) *Server {
	grpcServer := grpc.NewServer()
	h := grpchealth.NewServer()
	healthpb.RegisterHealthServer(grpcServer, h)

	s := &Server{
		grpcServer: grpcServer,
		health:     h,
		listener:   lis,
		log:        log,
	}
	s.SetServing(false)
	return s
}

// SetServing переключает статус для общего ("") и именованного сервиса.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Run обслуживает запросы до отмены ctx.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info("gRPC health listening", slog.String("address", s.listener.Addr().String()))
		errCh <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.SetServing(false)
		s.grpcServer.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
