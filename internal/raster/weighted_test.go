package raster

import (
	"errors"
	"image"
	"testing"
)

func TestWeightedCombine_WholeRaster(t *testing.T) {
	dst, _ := New(2, 2, 3)
	src, _ := New(2, 2, 3)
	dst.Fill(100, 200, 10)
	src.Fill(50, 100, 0)

	if err := WeightedCombine(dst, 1.0, src, 0.5, 0); err != nil {
		t.Fatalf("WeightedCombine: %v", err)
	}

	want := []byte{125, 250, 10}
	for y := range 2 {
		for x := range 2 {
			got := dst.Pixel(x, y)
			for c := range 3 {
				if got[c] != want[c] {
					t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
				}
			}
		}
	}
}

func TestWeightedCombine_Saturates(t *testing.T) {
	tests := []struct {
		name string
		d, s byte
		dw   float64
		sw   float64
		bias float64
		want byte
	}{
		{"overflow", 200, 200, 1, 1, 0, 255},
		{"underflow", 10, 0, 1, 0, -50, 0},
		{"rounds half up", 1, 0, 0.5, 0, 0, 1},
		{"bias", 10, 0, 1, 0, 5, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst, _ := New(1, 1, 1)
			src, _ := New(1, 1, 1)
			dst.Data()[0] = tt.d
			src.Data()[0] = tt.s

			if err := WeightedCombine(dst, tt.dw, src, tt.sw, tt.bias); err != nil {
				t.Fatalf("WeightedCombine: %v", err)
			}
			if got := dst.Data()[0]; got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWeightedCombine_Region(t *testing.T) {
	dst, _ := New(4, 4, 3)
	src, _ := New(2, 2, 3)
	dst.Fill(10, 10, 10)
	src.Fill(20, 20, 20)

	dst.SetRegion(image.Rect(1, 2, 3, 4))
	if err := WeightedCombine(dst, 1.0, src, 1.0, 0); err != nil {
		t.Fatalf("WeightedCombine: %v", err)
	}
	dst.ClearRegion()

	for y := range 4 {
		for x := range 4 {
			want := byte(10)
			if x >= 1 && x < 3 && y >= 2 {
				want = 30
			}
			if got := dst.Pixel(x, y)[0]; got != want {
				t.Errorf("pixel (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestWeightedCombine_SourceRegionOffset(t *testing.T) {
	dst, _ := New(2, 1, 1)
	src, _ := New(4, 1, 1)
	copy(src.Data(), []byte{1, 2, 3, 4})

	src.SetRegion(image.Rect(2, 0, 4, 1))
	if err := WeightedCombine(dst, 0, src, 1, 0); err != nil {
		t.Fatalf("WeightedCombine: %v", err)
	}
	if d := dst.Data(); d[0] != 3 || d[1] != 4 {
		t.Errorf("dst = %v, want [3 4]", d)
	}
}

func TestWeightedCombine_ChannelMismatch(t *testing.T) {
	dst, _ := New(1, 1, 4)
	src, _ := New(1, 1, 3)
	dst.Fill(10, 10, 10, 77)
	src.Fill(5, 5, 5)

	if err := WeightedCombine(dst, 1, src, 1, 0); err != nil {
		t.Fatalf("WeightedCombine: %v", err)
	}
	got := dst.Pixel(0, 0)
	if got[0] != 15 || got[3] != 77 {
		t.Errorf("pixel = %v, want color 15 and alpha untouched 77", got)
	}
}

func TestWeightedCombine_SizeMismatch(t *testing.T) {
	dst, _ := New(4, 4, 3)
	src, _ := New(2, 2, 3)

	err := WeightedCombine(dst, 1, src, 1, 0)
	if !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("error = %v, want ErrSizeMismatch", err)
	}
}
