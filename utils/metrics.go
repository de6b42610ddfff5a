package utils

import (
	"sync"
	"time"
)

// Metrics содержит метрики приложения
type Metrics struct {
	mu sync.RWMutex

	// Метрики операций
	TotalOperations  int64
	FailedOperations int64
	OperationCounts  map[string]int64
	LastOperation    time.Time

	// Метрики сверки балансов
	BalanceMismatches  int64
	LastReconciliation time.Time
	CheckedAccounts    int64

	// Метрики ошибок
	ErrorCount    int64
	LastErrorTime time.Time
	ErrorTypes    map[string]int64
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics возвращает экземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			OperationCounts: make(map[string]int64),
			ErrorTypes:      make(map[string]int64),
		}
	})
	return metrics
}

// RecordOperation записывает метрики операции
func (m *Metrics) RecordOperation(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalOperations++
	m.OperationCounts[operation]++
	m.LastOperation = time.Now()

	if err != nil {
		m.FailedOperations++
		m.recordErrorLocked(err)
	}
}

// RecordBalanceMismatch записывает обнаруженное расхождение баланса
func (m *Metrics) RecordBalanceMismatch() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BalanceMismatches++
}

// RecordReconciliation записывает результат прогона сверки балансов
func (m *Metrics) RecordReconciliation(checkedAccounts int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastReconciliation = time.Now()
	m.CheckedAccounts += int64(checkedAccounts)
}

// RecordError записывает метрики ошибки
func (m *Metrics) RecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recordErrorLocked(err)
}

func (m *Metrics) recordErrorLocked(err error) {
	m.ErrorCount++
	m.LastErrorTime = time.Now()

	errorType := "unknown"
	if err != nil {
		errorType = err.Error()
	}
	m.ErrorTypes[errorType]++
}

// GetMetricsSnapshot возвращает снимок текущих метрик
func (m *Metrics) GetMetricsSnapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	operations := make(map[string]int64, len(m.OperationCounts))
	for op, count := range m.OperationCounts {
		operations[op] = count
	}

	return map[string]interface{}{
		"total_operations":    m.TotalOperations,
		"failed_operations":   m.FailedOperations,
		"operations":          operations,
		"balance_mismatches":  m.BalanceMismatches,
		"checked_accounts":    m.CheckedAccounts,
		"last_reconciliation": m.LastReconciliation,
		"error_count":         m.ErrorCount,
		"last_error_time":     m.LastErrorTime,
	}
}

// ResetMetrics сбрасывает все метрики
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalOperations = 0
	m.FailedOperations = 0
	m.OperationCounts = make(map[string]int64)
	m.LastOperation = time.Time{}
	m.BalanceMismatches = 0
	m.LastReconciliation = time.Time{}
	m.CheckedAccounts = 0
	m.ErrorCount = 0
	m.LastErrorTime = time.Time{}
	m.ErrorTypes = make(map[string]int64)
}
