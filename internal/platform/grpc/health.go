// Package grpc provides gRPC health helpers shared by Lorekeep services.
//
// Services expose the standard grpc.health.v1 service on a dedicated listener so
// orchestrators can probe readiness without touching the HTTP API surface.
package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// NewHealthServer returns a gRPC server with the standard health service
// registered and reporting SERVING.
func NewHealthServer() *gogrpc.Server {
	server := gogrpc.NewServer()
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	return server
}

// ServeHealth serves the health endpoint on lis until ctx is cancelled.
func ServeHealth(ctx context.Context, lis net.Listener) error {
	if lis == nil {
		return fmt.Errorf("health listener is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	server := NewHealthServer()
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		server.GracefulStop()
		<-errCh
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve health: %w", err)
		}
		return nil
	}
}

// WaitForHealth blocks until the gRPC health check reports SERVING or the context ends.
func WaitForHealth(ctx context.Context, conn *gogrpc.ClientConn, service string, logf func(string, ...any)) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	healthClient := grpc_health_v1.NewHealthClient(conn)
	backoff := 200 * time.Millisecond
	for {
		callCtx, cancel := context.WithTimeout(ctx, time.Second)
		response, err := healthClient.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
		cancel()
		if err == nil && response.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING {
			if logf != nil {
				logf("gRPC health check is SERVING")
			}
			return nil
		}
		if logf != nil {
			if err != nil {
				logf("waiting for gRPC health: %v", err)
			} else {
				logf("waiting for gRPC health: status %s", response.GetStatus().String())
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for gRPC health: %w", ctx.Err())
		case <-time.After(backoff):
		}

		if backoff < time.Second {
			backoff *= 2
			if backoff > time.Second {
				backoff = time.Second
			}
		}
	}
}
