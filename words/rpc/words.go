// Package rpc carries the Words normalizer over gRPC. Messages are plain Go
// structs encoded with a JSON codec registered under CodecName.
package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName = "words.Words"

	normMethod      = "/words.Words/Norm"
	normBatchMethod = "/words.Words/NormBatch"
	pingMethod      = "/words.Words/Ping"
)

type Empty struct{}

type NormRequest struct {
	Phrase string `json:"phrase"`
}

type NormReply struct {
	Words []string `json:"words"`
}

type NormBatchRequest struct {
	Phrases []string `json:"phrases"`
}

type NormBatchReply struct {
	Documents [][]string `json:"documents"`
}

type WordsServer interface {
	Ping(context.Context, *Empty) (*Empty, error)
	Norm(context.Context, *NormRequest) (*NormReply, error)
	NormBatch(context.Context, *NormBatchRequest) (*NormBatchReply, error)
}

func RegisterWordsServer(s grpc.ServiceRegistrar, srv WordsServer) {
	s.RegisterService(&wordsServiceDesc, srv)
}

var wordsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WordsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: pingHandler},
		{MethodName: "Norm", Handler: normHandler},
		{MethodName: "NormBatch", Handler: normBatchHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "words/rpc",
}

func pingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WordsServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: pingMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(WordsServer).Ping(ctx, req.(*Empty))
	})
}

func normHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(NormRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WordsServer).Norm(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: normMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(WordsServer).Norm(ctx, req.(*NormRequest))
	})
}

func normBatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(NormBatchRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WordsServer).NormBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: normBatchMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(WordsServer).NormBatch(ctx, req.(*NormBatchRequest))
	})
}

// WordsClient is the caller side of the Words service.
type WordsClient struct {
	cc grpc.ClientConnInterface
}

func NewWordsClient(cc grpc.ClientConnInterface) *WordsClient {
	return &WordsClient{cc: cc}
}

func (c *WordsClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, pingMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *WordsClient) Norm(ctx context.Context, in *NormRequest, opts ...grpc.CallOption) (*NormReply, error) {
	out := new(NormReply)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, normMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *WordsClient) NormBatch(ctx context.Context, in *NormBatchRequest, opts ...grpc.CallOption) (*NormBatchReply, error) {
	out := new(NormBatchReply)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, normBatchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
