package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobDerivativeBackfill = "media.derivative_backfill"
	JobStaleDraftCleanup  = "media.stale_draft_cleanup"
)

// Cron 表达式常量（可选，但推荐一并集中管理）.
const (
	CronDerivativeBackfill = "*/15 * * * *"
	CronStaleDraftCleanup  = "0 4 * * *"
)
