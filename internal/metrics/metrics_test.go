package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/article":            "/article",
		"/article/12":         "/article/{id}",
		"/article/12/comment": "/article/{id}/comment",
		"/comment/3/":         "/comment/{id}/",
	}
	for in, want := range tests {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIncAuthRejection(t *testing.T) {
	before := testutil.ToFloat64(AuthRejections.WithLabelValues("forbidden"))
	IncAuthRejection("forbidden")
	if got := testutil.ToFloat64(AuthRejections.WithLabelValues("forbidden")); got != before+1 {
		t.Errorf("forbidden rejections: got %v, want %v", got, before+1)
	}
}

func TestAddSessionsPurged_IgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(SessionsPurged)
	AddSessionsPurged(0)
	AddSessionsPurged(2)
	if got := testutil.ToFloat64(SessionsPurged); got != before+2 {
		t.Errorf("purged: got %v, want %v", got, before+2)
	}
}
