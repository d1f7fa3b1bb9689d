package bootstrap

import (
	"marketlens/internal/workers"
	analysisworker "marketlens/internal/workers/analysis"
)

// MustInitBackground registers the background workers
func (c *Container) MustInitBackground() {
	c.Background.WorkerScheduler = workers.NewScheduler().WithStopTimeout(c.Config.Batch.Timeout)

	var publisher analysisworker.Publisher
	if c.Adapters.KafkaProducer != nil {
		publisher = c.Adapters.KafkaProducer
	}

	batch := analysisworker.NewBatchWorker(analysisworker.Config{
		Symbols:      c.Config.Batch.Symbols,
		Interval:     c.Config.Batch.Interval,
		Timeout:      c.Config.Batch.Timeout,
		Enabled:      true,
		ReportsTopic: c.Config.Kafka.ReportsTopic,
		SummaryTopic: c.Config.Kafka.SummaryTopic,
	}, c.Services.Batch, c.Repos.MacroRegime, c.Redis, publisher)

	c.Background.WorkerScheduler.RegisterWorker(batch)
	c.Application.HealthHandler.WithWorkers(c.Background.WorkerScheduler)

	c.Log.Infow("Workers registered",
		"symbols", len(c.Config.Batch.Symbols),
		"interval", c.Config.Batch.Interval,
	)
}
