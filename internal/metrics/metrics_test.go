package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	counter := httpRequestsTotal.WithLabelValues("GET", "/list", "200")
	before := testutil.ToFloat64(counter)

	RecordHTTPRequest("GET", "/list", http.StatusOK, 15*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordTransfers(t *testing.T) {
	up := testutil.ToFloat64(bytesUploaded)
	down := testutil.ToFloat64(bytesDownloaded)

	RecordUpload(100)
	RecordDownload(40)

	assert.Equal(t, up+100, testutil.ToFloat64(bytesUploaded))
	assert.Equal(t, down+40, testutil.ToFloat64(bytesDownloaded))
}

func TestRecordRejectedPath(t *testing.T) {
	before := testutil.ToFloat64(rejectedPaths.WithLabelValues("download"))

	RecordRejectedPath("download")

	assert.Equal(t, before+1, testutil.ToFloat64(rejectedPaths.WithLabelValues("download")))
}

func TestHandler(t *testing.T) {
	RecordRejectedPath("list")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "homevault_rejected_paths_total")
}
