// Package worker 运行衍生任务消费者.
// 基于 watermill Router, 按媒体大类订阅任务主题,
// 重试耗尽的消息进入死信主题等待人工处理.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	wmiddleware "github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/pixelvault/pixelvault/pkg/configs"
	ctxPkg "github.com/pixelvault/pixelvault/pkg/context"
	"github.com/pixelvault/pixelvault/pkg/internal/service"
	"github.com/pixelvault/pixelvault/pkg/internal/storage/mq"
	nlog "github.com/pixelvault/pixelvault/pkg/log"
	"github.com/pixelvault/pixelvault/pkg/metrics"
	"github.com/pixelvault/pixelvault/pkg/queue"
)

// Worker 衍生任务消费者.
type Worker struct {
	router   *message.Router
	mqClient *mq.Client

	media   *service.MediaService
	hashing *service.HashingService

	taskTimeout time.Duration
	maxRetries  int
}

// New 构建 Worker 并注册全部任务处理器.
// appCtx 必须携带 storage.Manager.
func New(appCtx context.Context) (*Worker, error) {
	mqClient := ctxPkg.GetMQClient(appCtx)
	if mqClient == nil {
		return nil, fmt.Errorf("mq client not in context")
	}

	logger := mq.NewLoggerAdapter(nlog.Logger())

	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	mediaCfg := configs.GetConfig().Media

	w := &Worker{
		router:      router,
		mqClient:    mqClient,
		media:       service.NewMediaService(appCtx),
		hashing:     service.NewHashingService(appCtx),
		taskTimeout: mediaCfg.TaskTimeout,
		maxRetries:  mediaCfg.TaskMaxRetries,
	}

	poison, err := wmiddleware.PoisonQueue(mqClient.Publisher(), queue.TopicTaskDead)
	if err != nil {
		return nil, fmt.Errorf("create poison queue: %w", err)
	}

	retry := wmiddleware.Retry{
		MaxRetries:      w.maxRetries,
		InitialInterval: time.Second,
		Multiplier:      2,
		MaxInterval:     time.Minute,
		Logger:          logger,
	}

	// poison 在最外层, panic 恢复后的错误与重试耗尽的消息都进死信
	router.AddMiddleware(
		poison,
		wmiddleware.Recoverer,
		retry.Middleware,
		wmiddleware.Timeout(w.taskTimeout),
		wmiddleware.CorrelationID,
	)

	router.AddNoPublisherHandler(
		"image_tasks",
		queue.TopicTaskImage,
		mqClient.Subscriber(),
		w.handleImageTask(appCtx),
	)

	router.AddNoPublisherHandler(
		"video_tasks",
		queue.TopicTaskVideo,
		mqClient.Subscriber(),
		w.handleVideoTask(appCtx),
	)

	router.AddNoPublisherHandler(
		"hash_tasks",
		queue.TopicTaskHash,
		mqClient.Subscriber(),
		w.handleHashTask(appCtx),
	)

	router.AddNoPublisherHandler(
		"dead_letters",
		queue.TopicTaskDead,
		mqClient.Subscriber(),
		handleDeadLetter,
	)

	return w, nil
}

// Run 阻塞运行消费者, ctx 取消时优雅退出.
func (w *Worker) Run(ctx context.Context) error {
	nlog.Logger().Info().
		Dur("task_timeout", w.taskTimeout).
		Int("max_retries", w.maxRetries).
		Msg("task worker starting")

	return w.router.Run(ctx)
}

// Close 停止 Router.
func (w *Worker) Close() error {
	return w.router.Close()
}

// handleImageTask 处理图片衍生任务, 各任务互相独立.
func (w *Worker) handleImageTask(appCtx context.Context) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		env, err := queue.ParseTask(msg)
		if err != nil {
			return fmt.Errorf("parse image task: %w", err)
		}

		task := env.Payload

		nlog.Logger().Debug().
			Uint("item", task.MediaItemID).
			Str("kind", task.Kind.String()).
			Msg("image task received")

		start := time.Now()
		err = w.media.ProcessImageTask(mergeContext(appCtx, msg), task)
		observeTask(task.Kind, start, err)

		return err
	}
}

// handleVideoTask 处理视频衍生任务, 成功后续发链条中的下一步.
func (w *Worker) handleVideoTask(appCtx context.Context) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		env, err := queue.ParseTask(msg)
		if err != nil {
			return fmt.Errorf("parse video task: %w", err)
		}

		task := env.Payload

		nlog.Logger().Debug().
			Uint("item", task.MediaItemID).
			Str("kind", task.Kind.String()).
			Int("remaining", len(task.Chain)).
			Msg("video task received")

		start := time.Now()
		err = w.media.ProcessVideoTask(mergeContext(appCtx, msg), task)
		observeTask(task.Kind, start, err)

		if err != nil {
			return err
		}

		// 当前步骤已提交, 续发下一步
		if err := queue.SubmitNext(w.mqClient.Publisher(), task,
			queue.WithProducer(configs.AppName)); err != nil {
			return fmt.Errorf("submit next chain step: %w", err)
		}

		return nil
	}
}

// handleHashTask 处理哈希计算任务.
func (w *Worker) handleHashTask(appCtx context.Context) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		env, err := queue.ParseHashTask(msg)
		if err != nil {
			return fmt.Errorf("parse hash task: %w", err)
		}

		return w.hashing.ComputeHash(mergeContext(appCtx, msg), env.Payload)
	}
}

// handleDeadLetter 消费死信主题, 记录快照供人工排查. 始终 Ack 避免死信循环.
func handleDeadLetter(msg *message.Message) error {
	snapshot := queue.DeadTaskPayload{
		SourceTopic: msg.Metadata.Get(wmiddleware.PoisonedTopicKey),
		MessageID:   msg.UUID,
		Error:       msg.Metadata.Get(wmiddleware.ReasonForPoisonedKey),
		Raw:         msg.Payload,
	}

	metrics.DeadLetterCounter.WithLabelValues(snapshot.SourceTopic).Inc()

	nlog.Logger().Error().
		Str("source_topic", snapshot.SourceTopic).
		Str("message_id", snapshot.MessageID).
		Str("reason", snapshot.Error).
		Int("payload_bytes", len(snapshot.Raw)).
		Msg("task moved to dead letter topic")

	return nil
}

// observeTask 记录任务处理时长与结果.
func observeTask(kind queue.TaskKind, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	metrics.TaskCounter.WithLabelValues(kind.String(), outcome).Inc()
	metrics.TaskDuration.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())
}

// mergeContext 以应用上下文为基底, 保留消息上下文的取消语义.
func mergeContext(appCtx context.Context, msg *message.Message) context.Context {
	msgCtx := msg.Context()

	ctx, cancel := context.WithCancel(appCtx)

	go func() {
		select {
		case <-msgCtx.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx
}
