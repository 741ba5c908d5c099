package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/florarie-simona/internal/app"
	"github.com/florarie-simona/internal/config"
	"github.com/florarie-simona/internal/constants"
	"github.com/florarie-simona/internal/logger"
	"github.com/florarie-simona/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiDim       = "\033[2m"
	ansiGreen     = "\033[32m"
	ansiBrightMag = "\033[95m"
)

func main() {
	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.Session.SecretKey) {
			stdLog.Fatalf("会话密钥过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
	} else if isWeakSecret(cfg.Session.SecretKey) {
		stdLog.Printf("警告: 会话密钥过弱或仍为默认值，建议在生产环境中更换")
	}

	// 仅数据库存储模式需要初始化数据库
	if strings.EqualFold(strings.TrimSpace(cfg.Shop.Storage), constants.ShopStorageDatabase) {
		if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
			MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
			MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
			ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
			ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
		}); err != nil {
			stdLog.Fatalf("数据库初始化失败: %v", err)
		}
		if err := models.AutoMigrate(); err != nil {
			stdLog.Fatalf("数据库迁移失败: %v", err)
		}
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiBrightMag + "╔══════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiBrightMag + "║       🌷 Florărie Simona shop API        ║" + ansiReset)
	fmt.Println(ansiBrightMag + "╚══════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "cart · wishlist · checkout" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
