package rulesrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "goban.Rules"

// RulesServer is the gRPC face of the current game. Requests and replies
// are plain structs so no generated code is needed on either side.
type RulesServer interface {
	State(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CheckMove(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PlayMove(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Undo(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv RulesServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unary(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RulesServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(RulesServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*RulesServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("State", RulesServer.State),
		unary("CheckMove", RulesServer.CheckMove),
		unary("PlayMove", RulesServer.PlayMove),
		unary("Undo", RulesServer.Undo),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "goban/rules.proto",
}

func FullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

func RegisterRulesServer(s grpc.ServiceRegistrar, srv RulesServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls the rules service over an existing connection.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) call(ctx context.Context, method string, in map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, FullMethod(method), req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) State(ctx context.Context) (*structpb.Struct, error) {
	return c.call(ctx, "State", nil)
}

func (c *Client) CheckMove(ctx context.Context, color, coordinates string) (*structpb.Struct, error) {
	return c.call(ctx, "CheckMove", map[string]any{"color": color, "coordinates": coordinates})
}

func (c *Client) PlayMove(ctx context.Context, color, coordinates string) (*structpb.Struct, error) {
	return c.call(ctx, "PlayMove", map[string]any{"color": color, "coordinates": coordinates})
}

func (c *Client) Undo(ctx context.Context) (*structpb.Struct, error) {
	return c.call(ctx, "Undo", nil)
}
