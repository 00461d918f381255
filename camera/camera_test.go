package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Should be centered on the arena
	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected camera at (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(1280, 720)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanClampsToWalls(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float32
		wantX  float32
		wantY  float32
	}{
		{"left", -2000, 0, 640, 720},
		{"right", 2000, 0, 1920, 720},
		{"up", 0, -2000, 1280, 360},
		{"inside", 100, -50, 1380, 670},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(1280, 720, 2560, 1440)
			cam.Pan(tt.dx, tt.dy)
			if cam.X != tt.wantX || cam.Y != tt.wantY {
				t.Errorf("got (%f, %f), want (%f, %f)", cam.X, cam.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestSmallArenaStaysCentered(t *testing.T) {
	cam := New(1280, 720, 640, 360)

	if cam.MinZoom != 1 {
		t.Errorf("expected MinZoom capped at 1, got %f", cam.MinZoom)
	}
	cam.Pan(500, 500)
	if cam.X != 320 || cam.Y != 180 {
		t.Errorf("expected arena centered at (320, 180), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Whole arena fits at min(1280/2560, 720/1440) = 0.5
	if cam.MinZoom != 0.5 {
		t.Errorf("expected MinZoom 0.5, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1)
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}

	cam.SetZoom(100.0)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestMinZoomFitsWholeArena(t *testing.T) {
	cam := New(800, 600, 1600, 800)

	// min(800/1600, 600/800) = 0.5
	if math.Abs(float64(cam.MinZoom-0.5)) > 0.001 {
		t.Errorf("expected MinZoom 0.5, got %f", cam.MinZoom)
	}

	cam.SetZoom(cam.MinZoom)
	visibleW := cam.ViewportW / cam.Zoom
	if math.Abs(float64(visibleW-cam.ArenaW)) > 0.01 {
		t.Errorf("at min zoom, visible width %f should equal arena width %f", visibleW, cam.ArenaW)
	}
}

func TestSetArenaRecentres(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.Pan(2000, 2000)

	cam.SetArena(1280, 720)
	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("expected (640, 360) after shrinking arena, got (%f, %f)", cam.X, cam.Y)
	}

	cam.SetArena(0, 100)
	if cam.ArenaW != 1280 {
		t.Errorf("non-positive arena should be ignored, got width %f", cam.ArenaW)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Visible range: (640, 360) to (1920, 1080)
	if !cam.IsVisible(1280, 720, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(2400, 1300, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(600, 720, 100) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.X = 500
	cam.Y = 500
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected position (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
