package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"expensetracker/api"
	"expensetracker/cache"
	"expensetracker/config"
	"expensetracker/database"
	"expensetracker/events"
	"expensetracker/logger"
	"expensetracker/router"
	"expensetracker/scheduler"
	"expensetracker/service"

	"go.uber.org/zap"
)

// @title 支出记录 API
// @version 1.0
// @description 消费记录写入、预算提醒、CSV 导入导出、周期支出和月度报表
// @host localhost:8080
// @BasePath /

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println("expensetracker v1.0.0")
		return
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logger.Fatal("load config failed", zap.Error(err))
	}
	if err := logger.Init(cfg.Log.Env); err != nil {
		logger.Fatal("init logger failed", zap.Error(err))
	}
	defer logger.Sync()

	// 命令行参数覆盖端口配置
	if port != "" {
		cfg.Server.Port = strings.TrimPrefix(port, ":")
		logger.Info("port overridden by flag", zap.String("port", cfg.Server.Port))
	}
	cfg.PrintConfig()

	if err := run(cfg); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn("close store failed", zap.Error(err))
		}
	}()

	categories := service.NewCategoryService(st)
	if err := categories.SeedDefaults(ctx); err != nil {
		return err
	}

	var opts []service.PipelineOption
	if cfg.AMQP.URL != "" {
		pub, err := events.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.RoutingKey)
		if err != nil {
			return err
		}
		defer pub.Close()
		opts = append(opts, service.WithEvents(pub))
	}

	// reportCache 保持 nil 接口，避免 typed nil
	var reportCache service.ReportCache
	if cfg.Cache.Enabled {
		mc, err := cache.NewMemcache(cfg.Cache.Hosts, cfg.Cache.TTLSeconds)
		if err != nil {
			return err
		}
		reportCache = mc
		opts = append(opts, service.WithCache(mc))
	}

	pipeline := service.NewPipeline(st, service.NewHTTPWebhook(cfg.Webhook.Timeout), opts...)
	expenseIO := service.NewExpenseIO(pipeline, st)
	engine := service.NewRecurringEngine(st, pipeline)
	reporter := service.NewReporter(st, reportCache, time.Now)
	mailer := service.NewReportMailer(service.NewMailer(cfg.Email), service.FromAddress(cfg.Email))
	broadcaster := service.NewBroadcaster(st, reporter, mailer, cfg.Scheduler.ReportPeriod, time.Now)

	policy, err := service.ParseBatchPolicy(cfg.Recurring.OnError, service.AbortOnError)
	if err != nil {
		return err
	}

	if cfg.Scheduler.Enabled {
		sched, err := scheduler.New(cfg.Scheduler, broadcaster, engine, policy)
		if err != nil {
			return err
		}
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
		logger.Info("scheduler started", zap.Int("jobs", sched.Entries()), zap.String("timezone", cfg.Scheduler.Timezone))
	}

	r := router.SetupRouter(cfg, router.Handlers{
		Users:      api.NewUserHandler(cfg, service.NewUserService(st)),
		Expenses:   api.NewExpenseHandler(cfg, pipeline, expenseIO),
		Exports:    api.NewExportHandler(cfg, expenseIO),
		Reports:    api.NewReportHandler(cfg, reporter, broadcaster),
		Recurring:  api.NewRecurringHandler(cfg, engine, policy),
		Categories: api.NewCategoryHandler(cfg, categories),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("swagger", cfg.Server.BaseURL+"/swagger/index.html"),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
