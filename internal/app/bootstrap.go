package app

import (
	"errors"

	"github.com/florarie-simona/internal/config"
	"github.com/florarie-simona/internal/provider"
	"github.com/florarie-simona/internal/router"
	"github.com/florarie-simona/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	return buildRunner(cfg, mode, provider.NewContainer(cfg))
}

func buildRunner(cfg *config.Config, mode string, container *provider.Container) (*Runner, error) {
	var services []Service

	// 店铺引擎相关：通知分发与会话回收先于 HTTP 启动、晚于 HTTP 停止
	if mode == ModeAll || mode == ModeAPI {
		services = append(services, container.Dispatcher, container.SessionManager)

		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	// 过期记录清理不依赖队列，存储支持时即注册
	if purgeService, ok := worker.NewPurgeService(container); ok {
		services = append(services, purgeService)
	}

	// 初始化 Worker 服务：all 模式下队列未启用时跳过
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode, "services", runner.Names())
	return RunWithOptions(runner, opts)
}
