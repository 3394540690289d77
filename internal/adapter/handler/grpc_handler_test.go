package handler

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rl1809/pedidos-client/internal/core/domain"
	"github.com/rl1809/pedidos-client/internal/core/service"
	"github.com/rl1809/pedidos-client/internal/logger"
)

func newTestClient(t *testing.T) *sessionClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	srv := grpc.NewServer()
	RegisterSessionServiceServer(srv, NewGRPCHandler(newTestRegistry(), logger.Discard()))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial bufconn: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &sessionClient{cc: conn}
}

func TestGRPC_Dispatch(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	created, err := client.Create(ctx)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.View.Screen != domain.ScreenLogin {
		t.Errorf("expected login, got %s", created.View.Screen)
	}

	reply, err := client.Dispatch(ctx, created.SessionID, service.Action{Type: service.ActionLogin, Argument: "cliente-1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if reply.View.Screen != domain.ScreenRestaurantList || reply.View.CustomerName != "Maria" {
		t.Errorf("unexpected view: %+v", reply.View)
	}

	got, err := client.Get(ctx, created.SessionID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(got.View.Restaurants) != 1 {
		t.Errorf("expected 1 restaurant, got %d", len(got.View.Restaurants))
	}
}

func TestGRPC_StatusCodes(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	created, err := client.Create(ctx)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	tests := []struct {
		name      string
		sessionID string
		action    service.Action
		code      codes.Code
	}{
		{"unknown session", "nope", service.Action{Type: service.ActionRefresh}, codes.NotFound},
		{"validation", created.SessionID, service.Action{Type: service.ActionLogin}, codes.InvalidArgument},
		{"invalid transition", created.SessionID, service.Action{Type: service.ActionSubmit}, codes.FailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Dispatch(ctx, tt.sessionID, tt.action)
			if got := status.Code(err); got != tt.code {
				t.Errorf("expected %s, got %s (%v)", tt.code, got, err)
			}
		})
	}
}

// sessionClient calls the SessionService the way a remote JSON client does.
type sessionClient struct {
	cc grpc.ClientConnInterface
}

func (c *sessionClient) Create(ctx context.Context) (*SessionReply, error) {
	out := new(SessionReply)
	if err := c.cc.Invoke(ctx, createMethod, &SessionRequest{}, out, grpc.CallContentSubtype(JSONCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sessionClient) Get(ctx context.Context, sessionID string) (*SessionReply, error) {
	out := new(SessionReply)
	if err := c.cc.Invoke(ctx, getMethod, &SessionRequest{SessionID: sessionID}, out, grpc.CallContentSubtype(JSONCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sessionClient) Dispatch(ctx context.Context, sessionID string, action service.Action) (*SessionReply, error) {
	out := new(SessionReply)
	in := &DispatchRequest{SessionID: sessionID, Action: action}
	if err := c.cc.Invoke(ctx, dispatchMethod, in, out, grpc.CallContentSubtype(JSONCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}
