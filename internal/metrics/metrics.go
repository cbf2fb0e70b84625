package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	quizGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studyquiz_generations_total",
			Help: "Quiz generations by terminal status",
		},
		[]string{"status"},
	)

	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studyquiz_generation_duration_seconds",
			Help:    "Time from enqueue to terminal write",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 180},
		},
		[]string{"status"},
	)

	generationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "studyquiz_generation_queue_depth",
			Help: "Generation jobs waiting for a worker",
		},
	)

	attemptsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studyquiz_attempts_submitted_total",
			Help: "Scored quiz attempts",
		},
	)

	filesUploaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studyquiz_files_uploaded_total",
			Help: "Uploaded files by extraction outcome",
		},
		[]string{"processed"},
	)
)

func ObserveGeneration(status string, elapsed time.Duration) {
	quizGenerations.WithLabelValues(status).Inc()
	generationDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

func SetQueueDepth(n int) {
	generationQueueDepth.Set(float64(n))
}

func AttemptSubmitted() {
	attemptsSubmitted.Inc()
}

func FileUploaded(processed bool) {
	filesUploaded.WithLabelValues(strconv.FormatBool(processed)).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
