package main

import (
	"flag"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"dex-parser-sol/internal/config"
	"dex-parser-sol/internal/stream"
	"dex-parser-sol/internal/svc"
	"dex-parser-sol/pkg/logger"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/zeromicro/go-zero/core/conf"
	zerosvc "github.com/zeromicro/go-zero/core/service"
)

var configFile = flag.String("f", "etc/indexer.yaml", "the config file")

func main() {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
	}()

	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c)

	if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
		panic(err)
	}
	defer logger.Sync()

	serviceContext, err := svc.NewServiceContext(c)
	if err != nil {
		panic(err)
	}
	defer serviceContext.Close()

	blockChan := make(chan *pb.SubscribeUpdateBlock, 200)
	defer close(blockChan)

	streamService, err := stream.NewGrpcStreamManager(c, blockChan)
	if err != nil {
		panic(err)
	}

	var slotChecker *stream.SlotChecker
	sg := zerosvc.NewServiceGroup()
	if c.RpcEndpoint != "" {
		slotChecker = stream.NewSlotChecker(c.RpcEndpoint)
		sg.Add(slotChecker)
	}
	sg.Add(streamService)
	sg.Add(stream.NewBlockProcessor(serviceContext, blockChan, slotChecker))

	logger.Infof("Starting dex parser stream service")

	// 启动服务
	sg.Start()

	// 等待退出信号
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Infof("Shutting down services...")
	sg.Stop()
}
