package stream

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"time"

	"dex-parser-sol/internal/config"
	"dex-parser-sol/pkg/logger"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
)

// GrpcStreamManager 维护到 yellowstone gRPC 的区块订阅流。
// 单个 supervisor goroutine 负责整个连接生命周期：建流、应用层心跳、
// 接收推送；任何一环失败都回到循环起点重新建流，底层 ClientConn 复用。
type GrpcStreamManager struct {
	conf      config.Config
	conn      *grpc.ClientConn
	client    pb.GeyserClient
	blockChan chan *pb.SubscribeUpdateBlock

	ctx    context.Context
	cancel context.CancelFunc
}

func NewGrpcStreamManager(c config.Config, blockChan chan *pb.SubscribeUpdateBlock) (*GrpcStreamManager, error) {
	g := c.Grpc

	dialCtx, dialCancel := context.WithTimeout(context.Background(), time.Duration(g.ConnectTimeoutSec)*time.Second)
	defer dialCancel()

	conn, err := grpc.DialContext(
		dialCtx,
		g.Endpoint,
		grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{InsecureSkipVerify: true})),
		grpc.WithInitialWindowSize(int32(g.InitialWindowSize)),
		grpc.WithInitialConnWindowSize(int32(g.InitialConnWindowSize)),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallSendMsgSize(g.MaxCallSendMsgSize),
			grpc.MaxCallRecvMsgSize(g.MaxCallRecvMsgSize),
		),
		grpc.WithBlock(),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                time.Duration(g.KeepalivePingIntervalSec) * time.Second,
			Timeout:             time.Duration(g.KeepalivePingTimeoutSec) * time.Second,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", g.Endpoint, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &GrpcStreamManager{
		conf:      c,
		conn:      conn,
		client:    pb.NewGeyserClient(conn),
		blockChan: blockChan,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

func (m *GrpcStreamManager) Start() {
	go m.supervise()
}

func (m *GrpcStreamManager) Stop() {
	m.cancel()
	_ = m.conn.Close()
}

// supervise 串行驱动"建流 → 收块"的循环，失败按次数退避后重试。
func (m *GrpcStreamManager) supervise() {
	interval := time.Duration(m.conf.Grpc.ReconnectIntervalSec) * time.Second
	attempt := 0

	for {
		if m.ctx.Err() != nil {
			return
		}
		if attempt > 0 {
			wait := interval
			if attempt > 3 {
				wait = interval * 2
			}
			logger.Warnf("stream down, retrying in %v (attempt %d)", wait, attempt)
			select {
			case <-m.ctx.Done():
				return
			case <-time.After(wait):
			}
		}
		attempt++

		err := m.runStream()
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Warnf("stream terminated: %v", err)
	}
}

func (m *GrpcStreamManager) subscribeRequest() *pb.SubscribeRequest {
	confirmed := pb.CommitmentLevel_CONFIRMED
	yes, no := true, false
	return &pb.SubscribeRequest{
		Blocks: map[string]*pb.SubscribeRequestFilterBlocks{
			"blocks": {
				IncludeTransactions: &yes,
				IncludeAccounts:     &no,
				IncludeEntries:      &no,
			},
		},
		Commitment: &confirmed,
	}
}

// runStream 建立一条订阅流并持续收块，返回时流已失效。
func (m *GrpcStreamManager) runStream() error {
	g := m.conf.Grpc

	streamCtx, streamCancel := context.WithCancel(m.ctx)
	defer streamCancel()

	authCtx := metadata.AppendToOutgoingContext(streamCtx, "x-token", g.XToken)
	stream, err := m.client.Subscribe(authCtx)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	sendTimeout := time.Duration(g.SendTimeoutSec) * time.Second
	if err := streamSend(streamCtx, stream, m.subscribeRequest(), sendTimeout); err != nil {
		return fmt.Errorf("send subscribe request: %w", err)
	}
	logger.Infof("grpc stream established, endpoint=%s", g.Endpoint)

	// 应用层心跳；失败只记日志，断流由 Recv 端发现
	go func() {
		ticker := time.NewTicker(time.Duration(g.StreamPingIntervalSec) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-streamCtx.Done():
				return
			case <-ticker.C:
				ping := &pb.SubscribeRequest{Ping: &pb.SubscribeRequestPing{Id: 1}}
				if err := streamSend(streamCtx, stream, ping, sendTimeout); err != nil {
					logger.Warnf("stream ping failed: %v", err)
				}
			}
		}
	}()

	return m.recvBlocks(streamCtx, stream)
}

// recvBlocks 收块直到出错或超过 block 静默窗口。
func (m *GrpcStreamManager) recvBlocks(ctx context.Context, stream pb.Geyser_SubscribeClient) error {
	silenceLimit := time.Duration(m.conf.Grpc.BlockRecvTimeoutSec) * time.Second
	lastBlock := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if time.Since(lastBlock) > silenceLimit {
			return fmt.Errorf("no block received for %v", silenceLimit)
		}

		update, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errors.New("stream closed by server")
			}
			return fmt.Errorf("recv: %w", err)
		}

		u, ok := update.GetUpdateOneof().(*pb.SubscribeUpdate_Block)
		if !ok {
			continue // pong 等非区块更新
		}

		now := time.Now()
		lastBlock = now
		logger.Debugf("block slot=%d, latency=%dms",
			u.Block.Slot, now.UnixMilli()-u.Block.BlockTime.GetTimestamp()*1000)

		select {
		case m.blockChan <- u.Block:
		default:
			logger.Warnf("block chan full, discard block at slot %d", u.Block.Slot)
		}
	}
}

// streamSend 带超时的 Send；gRPC 流的 Send 本身不接受 context。
func streamSend(ctx context.Context, stream pb.Geyser_SubscribeClient, req *pb.SubscribeRequest, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() { done <- stream.Send(req) }()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("send timeout after %v", timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
