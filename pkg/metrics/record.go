package metrics

// Pipeline.

// RecordBuildProcessed counts a finished build by its status.
func RecordBuildProcessed(status string) {
	globalManager.buildsProcessed.WithLabelValues(status).Inc()
}

// RecordBuildDuplicate counts a build request rejected as a duplicate.
func RecordBuildDuplicate() {
	globalManager.buildsDuplicate.Inc()
}

// RecordBuildLatency records a build's latency in milliseconds.
func RecordBuildLatency(latencyMs float64) {
	globalManager.buildLatency.Observe(latencyMs)
}

// RecordFieldResolution counts how a field was decided.
func RecordFieldResolution(field, method string) {
	globalManager.fieldResolutions.WithLabelValues(field, method).Inc()
}

// RecordDegradedField counts a field that fell back to a degraded value.
func RecordDegradedField(field string) {
	globalManager.degradedFields.WithLabelValues(field).Inc()
}

// Reasoning service.

// RecordReasoningCall counts a reasoning call by outcome.
func RecordReasoningCall(outcome string) {
	globalManager.reasoningCalls.WithLabelValues(outcome).Inc()
}

// RecordReasoningLatency records a reasoning call latency in milliseconds.
func RecordReasoningLatency(latencyMs float64) {
	globalManager.reasoningLatency.Observe(latencyMs)
}

// RecordReasoningRetry counts a retried reasoning call.
func RecordReasoningRetry() {
	globalManager.reasoningRetries.Inc()
}

// RecordCompatibilityScore observes a computed compatibility score.
func RecordCompatibilityScore(score float64) {
	globalManager.compatibilityScores.Observe(score)
}

// Signal store.

// RecordStoreUpsert counts a successful upsert.
func RecordStoreUpsert() {
	globalManager.storeUpserts.Inc()
}

// RecordStoreError counts a store failure for an operation.
func RecordStoreError(operation string) {
	globalManager.storeErrors.WithLabelValues(operation).Inc()
}

// UpdateStoreRecords sets the number of stored records.
func UpdateStoreRecords(count int) {
	globalManager.storeRecords.Set(float64(count))
}

// RecordStoreUpsertLatency records upsert latency in milliseconds.
func RecordStoreUpsertLatency(latencyMs float64) {
	globalManager.storeUpsertLatency.Observe(latencyMs)
}

// RecordStoreQueryLatency records read latency in milliseconds.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// Queue.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the rejected enqueue counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records enqueue latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Workers.

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActive.Set(float64(count))
}

// UpdateWorkerMessagesPerSecond sets the pool throughput.
func UpdateWorkerMessagesPerSecond(rate float64) {
	globalManager.workerMessagesPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Errors.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System.

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}
