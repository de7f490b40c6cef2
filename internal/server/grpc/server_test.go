package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/Additional-Code/tableside/pkg/errorbank"
)

func TestToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{name: "locked", err: errorbank.OrderLocked("locked"), code: codes.PermissionDenied},
		{name: "missing item", err: errorbank.ItemNotFound("x"), code: codes.NotFound},
		{name: "stale version", err: errorbank.Conflict("stale"), code: codes.Aborted},
		{name: "plain error", err: errors.New("boom"), code: codes.Internal},
		{name: "already status", err: status.Error(codes.PermissionDenied, "no"), code: codes.PermissionDenied},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, ok := status.FromError(toStatus(tc.err))
			require.True(t, ok)
			assert.Equal(t, tc.code, st.Code())
		})
	}
	assert.NoError(t, toStatus(nil))
}

func TestHealthStartsNotServing(t *testing.T) {
	hs := NewHealth()
	server := NewServer(zap.NewNop(), hs)
	defer server.Stop()

	resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	info := server.GetServiceInfo()
	assert.Contains(t, info, "grpc.health.v1.Health")
}
