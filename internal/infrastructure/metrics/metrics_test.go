package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Conte777/SaveVideoBot/internal/domain/download/entities"
)

func TestMetrics_RecordRequest(t *testing.T) {
	m := GetDefaultMetrics()
	counter := m.RequestsTotal.WithLabelValues("youtube", "delivered")
	before := testutil.ToFloat64(counter)

	m.RecordRequest(entities.PlatformYouTube, entities.OutcomeDelivered)
	m.RecordRequest(entities.PlatformYouTube, entities.OutcomeDelivered)

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestMetrics_RecordDelivered(t *testing.T) {
	m := GetDefaultMetrics()
	counter := m.DeliveredBytes.WithLabelValues("instagram")
	before := testutil.ToFloat64(counter)

	m.RecordDelivered(entities.PlatformInstagram, 2048)
	m.RecordDelivered(entities.PlatformInstagram, 0)

	assert.Equal(t, before+2048, testutil.ToFloat64(counter))
}

func TestMetrics_ActiveDownloads(t *testing.T) {
	m := GetDefaultMetrics()
	before := testutil.ToFloat64(m.ActiveDownloads)

	m.IncActiveDownloads()
	m.IncActiveDownloads()
	assert.Equal(t, before+2, testutil.ToFloat64(m.ActiveDownloads))

	m.DecActiveDownloads()
	m.DecActiveDownloads()
	assert.Equal(t, before, testutil.ToFloat64(m.ActiveDownloads))
}

func TestMetrics_RecordDownload(t *testing.T) {
	m := GetDefaultMetrics()
	before := testutil.CollectAndCount(m.DownloadDuration)

	m.RecordDownload(entities.Platform("test-platform"), 1500*time.Millisecond)

	assert.Equal(t, before+1, testutil.CollectAndCount(m.DownloadDuration))
}

func TestGetDefaultMetrics_Singleton(t *testing.T) {
	assert.Same(t, GetDefaultMetrics(), GetDefaultMetrics())
}
