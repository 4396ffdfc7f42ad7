package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	documentUploadsTotal   atomic.Uint64
	documentDownloadsTotal atomic.Uint64
	documentDeletesTotal   atomic.Uint64
	accessDeniedTotal      atomic.Uint64

	storageFailures = newLabeledCounter("op", "put", "get", "delete")

	documentUploadBytes = newHistogram([]float64{1 << 10, 16 << 10, 128 << 10, 512 << 10, 1 << 20, 2 << 20, 5 << 20, 10 << 20})
	storageDuration     = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

// ObserveDocumentUpload counts a stored document and records its size in bytes.
func ObserveDocumentUpload(size int) {
	documentUploadsTotal.Add(1)
	if size < 0 {
		size = 0
	}
	documentUploadBytes.Observe(float64(size))
}

// IncDocumentDownload increments the downloaded documents counter.
func IncDocumentDownload() {
	documentDownloadsTotal.Add(1)
}

// IncDocumentDelete increments the deleted documents counter.
func IncDocumentDelete() {
	documentDeletesTotal.Add(1)
}

// IncAccessDenied increments the denied document reads counter.
func IncAccessDenied() {
	accessDeniedTotal.Add(1)
}

// IncStorageFailure increments the failure counter for a storage operation.
func IncStorageFailure(op string) {
	storageFailures.Inc(op)
}

// ObserveStorageDurationMs records a backend call duration in milliseconds.
func ObserveStorageDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	storageDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "document_uploads_total", "Total documents stored", documentUploadsTotal.Load())
	writeCounter(&buf, "document_downloads_total", "Total documents read", documentDownloadsTotal.Load())
	writeCounter(&buf, "document_deletes_total", "Total documents deleted", documentDeletesTotal.Load())
	writeCounter(&buf, "document_access_denied_total", "Total document reads refused by ownership checks", accessDeniedTotal.Load())
	writeLabeledCounter(&buf, "storage_failures_total", "Total failed storage backend calls", storageFailures)
	writeHistogram(&buf, "document_upload_bytes", "Stored document size in bytes", documentUploadBytes.Snapshot())
	writeHistogram(&buf, "storage_duration_ms", "Storage backend call duration in milliseconds", storageDuration.Snapshot())
	return buf.String()
}

type labeledCounter struct {
	label  string
	order  []string
	values map[string]*atomic.Uint64
	other  atomic.Uint64
}

func newLabeledCounter(label string, values ...string) *labeledCounter {
	c := &labeledCounter{label: label, order: values, values: make(map[string]*atomic.Uint64, len(values))}
	for _, v := range values {
		c.values[v] = new(atomic.Uint64)
	}
	return c
}

func (c *labeledCounter) Inc(value string) {
	if counter, ok := c.values[value]; ok {
		counter.Add(1)
		return
	}
	c.other.Add(1)
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help string, c *labeledCounter) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	for _, v := range c.order {
		fmt.Fprintf(buf, "%s{%s=\"%s\"} %d\n", name, c.label, v, c.values[v].Load())
	}
	fmt.Fprintf(buf, "%s{%s=\"other\"} %d\n", name, c.label, c.other.Load())
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
