package rpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnaryLogger logs one line per call: method, status code and latency.
// Rejected input logs at Warn and server faults at Error.
func UnaryLogger(log *zap.Logger) grpc.UnaryServerInterceptor {
	if log == nil {
		log = zap.NewNop()
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		st := status.Convert(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", st.Code().String()),
			zap.Duration("elapsed", time.Since(start)),
		}
		switch {
		case err == nil:
			log.Info("rpc", fields...)
		case isServerFault(st.Code()):
			log.Error("rpc", append(fields, zap.String("error", st.Message()))...)
		default:
			log.Warn("rpc", append(fields, zap.String("error", st.Message()))...)
		}
		return resp, err
	}
}

// ServerOptions returns the options the daemon builds its server with.
func ServerOptions(log *zap.Logger, maxMsgBytes int) []grpc.ServerOption {
	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryLogger(log))}
	if maxMsgBytes > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(maxMsgBytes), grpc.MaxSendMsgSize(maxMsgBytes))
	}
	return opts
}

func isServerFault(c codes.Code) bool {
	switch c {
	case codes.Internal, codes.DataLoss, codes.Unknown:
		return true
	}
	return false
}
