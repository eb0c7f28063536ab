package render

import (
	"testing"
	"time"
)

// chromedp.FullScreenshot returns JPEG bytes for any quality below 100 and
// PNG only at exactly 100. Every consumer of a capture assumes PNG: the
// output path carries a .png extension and the vision call declares
// image/png. Pin the quality so a tweak cannot silently change the format.
func TestScreenshotQualityStaysPNG(t *testing.T) {
	if screenshotQuality != 100 {
		t.Fatalf("screenshotQuality = %d; must be 100, anything lower makes chromedp emit JPEG", screenshotQuality)
	}
}

func TestWithTimeout(t *testing.T) {
	r := New()
	if r.timeout != DefaultTimeout {
		t.Errorf("default timeout = %v, want %v", r.timeout, DefaultTimeout)
	}

	custom := r.WithTimeout(5 * time.Second)
	if custom.timeout != 5*time.Second {
		t.Errorf("custom timeout = %v, want 5s", custom.timeout)
	}
	if r.timeout != DefaultTimeout {
		t.Error("WithTimeout mutated the original renderer")
	}
}
