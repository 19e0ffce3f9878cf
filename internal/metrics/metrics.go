// Package metrics содержит доменные коллекторы Prometheus сервиса.
// HTTP-метрики собирает отдельное middleware, здесь только предметные.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LogsTotal считает записи дневника по типу действия.
	LogsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ember_logs_total",
		Help: "Total journal entries recorded, by action.",
	}, []string{"action"})

	// LogsDeletedTotal считает удалённые записи.
	LogsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ember_logs_deleted_total",
		Help: "Total journal entries deleted.",
	})

	// SafetyScore отражает текущее значение счётчика безопасности.
	SafetyScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ember_safety_score",
		Help: "Current safety score.",
	})

	// CreatureBrightness отражает текущую яркость питомца.
	CreatureBrightness = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ember_creature_brightness",
		Help: "Current creature brightness.",
	})

	// CreatureSize отражает текущий размер питомца.
	CreatureSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ember_creature_size",
		Help: "Current creature size.",
	})

	// StoreWriteFailures считает неудачные записи в хранилище по классу ошибки.
	StoreWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ember_store_write_failures_total",
		Help: "Total failed store writes, by error kind.",
	}, []string{"kind"})
)
