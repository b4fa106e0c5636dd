package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	// Reset metrics
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/api/v1/quotes", "200", 0.042)

	// Verify counter incremented
	counter := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/quotes", "200"))
	if counter != 1.0 {
		t.Errorf("Expected counter to be 1.0, got %f", counter)
	}
}

func TestRecordContentAdd(t *testing.T) {
	ContentAddsTotal.Reset()

	RecordContentAdd("quotes", "ok")
	RecordContentAdd("quotes", "ok")
	RecordContentAdd("videos", "error")

	ok := testutil.ToFloat64(ContentAddsTotal.WithLabelValues("quotes", "ok"))
	if ok != 2.0 {
		t.Errorf("Expected quotes ok counter to be 2.0, got %f", ok)
	}

	failed := testutil.ToFloat64(ContentAddsTotal.WithLabelValues("videos", "error"))
	if failed != 1.0 {
		t.Errorf("Expected videos error counter to be 1.0, got %f", failed)
	}
}

func TestRecordOTPVerification(t *testing.T) {
	OTPVerificationsTotal.Reset()

	RecordOTPVerification("verified")
	RecordOTPVerification("invalid")
	RecordOTPVerification("invalid")

	verified := testutil.ToFloat64(OTPVerificationsTotal.WithLabelValues("verified"))
	if verified != 1.0 {
		t.Errorf("Expected verified counter to be 1.0, got %f", verified)
	}

	invalid := testutil.ToFloat64(OTPVerificationsTotal.WithLabelValues("invalid"))
	if invalid != 2.0 {
		t.Errorf("Expected invalid counter to be 2.0, got %f", invalid)
	}
}

func TestUpdateLibrarySize(t *testing.T) {
	UpdateLibrarySize("quotes", 7)

	size := testutil.ToFloat64(ContentLibrarySize.WithLabelValues("quotes"))
	if size != 7.0 {
		t.Errorf("Expected library size to be 7.0, got %f", size)
	}
}
