package handler

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"

	"github.com/rl1809/pedidos-client/internal/core/domain"
	"github.com/rl1809/pedidos-client/internal/core/service"
	"github.com/rl1809/pedidos-client/internal/logger"
)

const (
	SessionServiceName = "pedidos.v1.SessionService"

	createMethod   = "/" + SessionServiceName + "/Create"
	getMethod      = "/" + SessionServiceName + "/Get"
	dispatchMethod = "/" + SessionServiceName + "/Dispatch"
)

// jsonCodec carries the session messages as JSON. Clients select it with
// grpc.CallContentSubtype(JSONCodecName).
type jsonCodec struct{}

const JSONCodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return JSONCodecName }

type SessionRequest struct {
	SessionID string `json:"sessionId"`
}

type DispatchRequest struct {
	SessionID string         `json:"sessionId"`
	Action    service.Action `json:"action"`
}

type SessionReply struct {
	SessionID string       `json:"sessionId"`
	View      service.View `json:"view"`
}

type SessionServiceServer interface {
	Create(context.Context, *SessionRequest) (*SessionReply, error)
	Get(context.Context, *SessionRequest) (*SessionReply, error)
	Dispatch(context.Context, *DispatchRequest) (*SessionReply, error)
}

type GRPCHandler struct {
	sessions *service.SessionRegistry
	log      *logger.Logger
}

var _ SessionServiceServer = (*GRPCHandler)(nil)

func NewGRPCHandler(sessions *service.SessionRegistry, log *logger.Logger) *GRPCHandler {
	return &GRPCHandler{sessions: sessions, log: log}
}

func RegisterSessionServiceServer(s grpc.ServiceRegistrar, srv SessionServiceServer) {
	s.RegisterService(&SessionServiceDesc, srv)
}

func (h *GRPCHandler) Create(ctx context.Context, req *SessionRequest) (*SessionReply, error) {
	nav := h.sessions.Create()
	return &SessionReply{SessionID: nav.SessionID(), View: nav.View()}, nil
}

func (h *GRPCHandler) Get(ctx context.Context, req *SessionRequest) (*SessionReply, error) {
	nav, err := h.sessions.Get(req.SessionID)
	if err != nil {
		return nil, h.toStatus(req.SessionID, err)
	}
	return &SessionReply{SessionID: req.SessionID, View: nav.View()}, nil
}

func (h *GRPCHandler) Dispatch(ctx context.Context, req *DispatchRequest) (*SessionReply, error) {
	view, err := h.sessions.Dispatch(ctx, req.SessionID, req.Action)
	if err != nil {
		return nil, h.toStatus(req.SessionID, err)
	}
	return &SessionReply{SessionID: req.SessionID, View: view}, nil
}

func (h *GRPCHandler) toStatus(sessionID string, err error) error {
	_, code := classify(err)
	if code == codes.Internal {
		h.log.Error("grpc_session_failed", sessionID, "unexpected session error", err)
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return status.Error(code, validation.Message)
	}
	return status.Error(code, err.Error())
}

func createHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SessionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServiceServer).Create(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: createMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionServiceServer).Create(ctx, req.(*SessionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SessionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServiceServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionServiceServer).Get(ctx, req.(*SessionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func dispatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DispatchRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServiceServer).Dispatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: dispatchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionServiceServer).Dispatch(ctx, req.(*DispatchRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var SessionServiceDesc = grpc.ServiceDesc{
	ServiceName: SessionServiceName,
	HandlerType: (*SessionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Create", Handler: createHandler},
		{MethodName: "Get", Handler: getHandler},
		{MethodName: "Dispatch", Handler: dispatchHandler},
	},
	Streams: []grpc.StreamDesc{},
}
