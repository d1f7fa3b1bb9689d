package kafka

// Topic definitions for Kafka event streaming
const (
	// TopicReports carries one analysis report per message, keyed by symbol
	TopicReports = "analysis.reports"

	// TopicBatchSummaries carries one summary per completed batch, keyed by batch ID
	TopicBatchSummaries = "analysis.batches"
)

// Header names set on every message
const (
	HeaderEventType = "event_type"
	HeaderBatchID   = "batch_id"
)
