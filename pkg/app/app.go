// Package app 提供应用程序的初始化和配置功能.
package app

import (
	contextPkg "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pixelvault/pixelvault/pkg/api"
	"github.com/pixelvault/pixelvault/pkg/cache"
	"github.com/pixelvault/pixelvault/pkg/configs"
	"github.com/pixelvault/pixelvault/pkg/context"
	"github.com/pixelvault/pixelvault/pkg/internal/jobs"
	"github.com/pixelvault/pixelvault/pkg/internal/storage"
	"github.com/pixelvault/pixelvault/pkg/internal/worker"
	"github.com/pixelvault/pixelvault/pkg/log"
	"github.com/pixelvault/pixelvault/pkg/metrics"
	"github.com/pixelvault/pixelvault/pkg/middleware"
	"github.com/pixelvault/pixelvault/pkg/scheduler"
	"github.com/pixelvault/pixelvault/pkg/tracing"
)

type App struct {
	Engine *gin.Engine

	config  *configs.AppConfig
	ctx     contextPkg.Context
	manager *storage.Manager
	worker  *worker.Worker
	sched   *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	engine := gin.New()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()
	if !config.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化追踪
	if err := tracing.InitTracer(config.Tracing); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(contextPkg.Background())
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	// 所有后台组件共享带存储客户端的根 context
	appCtx := context.WithStorageManager(contextPkg.Background(), manager)

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.RoleMiddleware(),
		middleware.StorageMiddleware(manager),
	)

	// GET/HEAD 响应短 TTL 缓存, 失败时自动降级为直通
	if kvc := manager.GetKVClient(); kvc != nil {
		engine.Use(middleware.CacheMiddleware(middleware.DefaultCacheConfig(cache.NewCache(kvc.KVStore))))
	}

	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error initializing scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterCronJobs(sched, manager); err != nil {
		fmt.Printf("Error registering cron jobs: %v\n", err)
		os.Exit(1)
	}

	engine.Use(middleware.SchedulerMiddleware(sched))

	w, err := worker.New(appCtx)
	if err != nil {
		fmt.Printf("Error initializing worker: %v\n", err)
		os.Exit(1)
	}

	api.RegisterGroup(engine)

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	return &App{
		Engine:  engine,
		config:  config,
		ctx:     appCtx,
		manager: manager,
		worker:  w,
		sched:   sched,
	}
}

// Run 同时运行 HTTP API、任务 worker 与定时任务, 直到收到退出信号.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(a.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
	}

	a.sched.Start()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		return a.worker.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := contextPkg.WithTimeout(contextPkg.Background(), 15*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	a.shutdown()

	return err
}

// shutdown 依次停掉调度器、worker 与存储客户端.
func (a *App) shutdown() {
	l := log.Logger()

	if e := a.sched.Shutdown(); e != nil {
		l.Error().Err(e).Msg("scheduler shutdown failed")
	}

	if e := a.worker.Close(); e != nil {
		l.Error().Err(e).Msg("worker close failed")
	}

	if e := a.manager.Close(); e != nil {
		l.Error().Err(e).Msg("storage close failed")
	}
}
