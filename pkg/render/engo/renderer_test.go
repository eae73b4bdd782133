package engo

import (
	"math"
	"testing"

	"github.com/opd-ai/go-rope/pkg/engine"
)

func TestSegmentTransform(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		thickness      float64
		pos            [2]float64
		length         float64
		angle          float64
	}{
		{"right", 10, 10, 40, 10, 4, [2]float64{10, 8}, 30, 0},
		{"down", 10, 10, 10, 30, 2, [2]float64{11, 10}, 20, 90},
		{"left", 40, 10, 10, 10, 2, [2]float64{40, 11}, 30, 180},
		{"diagonal", 0, 0, 3, 4, 0, [2]float64{0, 0}, 5, 53.13010235},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, length, angle := SegmentTransform(tt.x0, tt.y0, tt.x1, tt.y1, tt.thickness)

			if math.Abs(float64(pos.X)-tt.pos[0]) > 1e-4 || math.Abs(float64(pos.Y)-tt.pos[1]) > 1e-4 {
				t.Errorf("position = (%v, %v), expected %v", pos.X, pos.Y, tt.pos)
			}
			if math.Abs(float64(length)-tt.length) > 1e-4 {
				t.Errorf("length = %v, expected %v", length, tt.length)
			}
			if math.Abs(float64(angle)-tt.angle) > 1e-3 {
				t.Errorf("angle = %v, expected %v", angle, tt.angle)
			}
		})
	}
}

func TestPixelRadius(t *testing.T) {
	// At 90 degrees the half height of the view at distance d is d
	got := PixelRadius(1, 2, 90, 600)
	if math.Abs(got-150) > 1e-9 {
		t.Errorf("PixelRadius() = %v, expected 150", got)
	}

	if far := PixelRadius(1, 4, 90, 600); math.Abs(far-got/2) > 1e-9 {
		t.Errorf("doubling the distance gave %v, expected %v", far, got/2)
	}

	if zero := PixelRadius(1, 0, 90, 600); zero != 0 {
		t.Errorf("PixelRadius() at the eye = %v, expected 0", zero)
	}
}

func TestSegmentColor(t *testing.T) {
	rest := segmentColor(1)
	if rest != ColorSegment {
		t.Errorf("segmentColor(1) = %v, expected %v", rest, ColorSegment)
	}

	over := segmentColor(engine.StretchWarning + 1)
	if over.R != ColorSegment.R || over.G != 0 || over.B != 0 {
		t.Errorf("segmentColor(overstretched) = %v, expected pure red channel", over)
	}

	slack := segmentColor(0.5)
	if slack != ColorSegment {
		t.Errorf("segmentColor(0.5) = %v, expected the rest color", slack)
	}
}
