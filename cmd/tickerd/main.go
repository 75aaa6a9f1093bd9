package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"

	"market-ticker-go/internal/container"
	"market-ticker-go/ticker"
)

func main() {
	cfgPath := flag.String("config", "configs/tickerd.yaml", "配置文件路径，留空则使用默认配置")
	check := flag.Bool("check", false, "仅校验配置与行情列表后退出")
	flag.Parse()

	c, err := container.New(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if err := c.Build(); err != nil {
		if errors.Is(err, ticker.ErrInitialization) {
			log.Fatalf("行情列表初始化失败: %v", err)
		}
		log.Fatalf("构建失败: %v", err)
	}
	if *check {
		fmt.Println("config ok")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.Start(ctx); err != nil {
		log.Fatalf("启动失败: %v", err)
	}
	lg := c.Logger()

	// 非 systemd 环境下 NOTIFY_SOCKET 为空，SdNotify 返回 false
	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		lg.Warn("sd_notify ready failed", zap.Error(err))
	} else if sent {
		lg.Info("notified systemd ready")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	lg.Info("shutdown signal received", zap.String("signal", sig.String()))

	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	cancel()
	if err := c.Stop(); err != nil {
		os.Exit(1)
	}
}
