package service

import (
	"context"
	"image/color"
	"testing"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageEnhancer_Process(t *testing.T) {
	t.Parallel()

	grey := color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	payload := pngDataURI(t, fillImage(8, 8, grey))

	tests := []struct {
		name  string
		kind  string
		check func(t *testing.T, got color.NRGBA)
	}{
		{
			name: "brightness",
			kind: ProcessingBrightness,
			check: func(t *testing.T, got color.NRGBA) {
				assert.Equal(t, color.NRGBA{R: 110, G: 110, B: 110, A: 255}, got)
			},
		},
		{
			name: "enhance keeps flat image",
			kind: ProcessingEnhance,
			check: func(t *testing.T, got color.NRGBA) {
				assert.Equal(t, grey, got)
			},
		},
		{
			name: "unknown type passes through",
			kind: "sepia",
			check: func(t *testing.T, got color.NRGBA) {
				assert.Equal(t, grey, got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &recordingStore{}
			out, err := NewImageEnhancer(&config.PipelineConfig{}, store).Process(context.Background(), "req", payload, tt.kind)
			require.NoError(t, err)

			img := decodeDataURI(t, out)
			assert.Equal(t, 8, img.Bounds().Dx())
			tt.check(t, img.NRGBAAt(4, 4))

			require.Len(t, store.jobs, 1)
			assert.Equal(t, model.JobStatusCompleted, store.jobs[0].Status)
			assert.Equal(t, tt.kind, store.jobs[0].ProcessingType)
			assert.Nil(t, store.jobs[0].ErrorMessage)
		})
	}
}

func TestImageEnhancer_RejectsNonPNG(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	_, err := NewImageEnhancer(&config.PipelineConfig{}, store).Process(context.Background(), "req", jpegDataURI(t, fillImage(4, 4, red)), ProcessingEnhance)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	require.Len(t, store.jobs, 1)
	assert.Equal(t, model.JobStatusFailed, store.jobs[0].Status)
	require.NotNil(t, store.jobs[0].ErrorMessage)
}

func TestBrightness_ScalesChannels(t *testing.T) {
	t.Parallel()

	img := fillImage(3, 1, color.NRGBA{R: 0, G: 50, B: 240, A: 128})
	got := brightness(img, brightnessFactor).NRGBAAt(1, 0)

	assert.Equal(t, uint8(0), got.R)
	assert.Equal(t, uint8(55), got.G)
	assert.Equal(t, uint8(255), got.B)
	assert.Equal(t, uint8(128), got.A)
}

func TestSharpness_AmplifiesDetail(t *testing.T) {
	t.Parallel()

	grey := color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	img := fillImage(5, 5, grey)
	img.SetNRGBA(2, 2, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

	out := sharpness(img, sharpnessFactor)

	assert.Greater(t, out.NRGBAAt(2, 2).R, uint8(200))
	assert.Less(t, out.NRGBAAt(1, 2).R, uint8(100))
	assert.Equal(t, grey, out.NRGBAAt(0, 0))
	assert.Equal(t, grey, out.NRGBAAt(4, 2))
	// 源图不被修改
	assert.Equal(t, uint8(200), img.NRGBAAt(2, 2).R)
}

func TestBlendChannel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint8(110), blendChannel(0, 100, 1.1))
	assert.Equal(t, uint8(255), blendChannel(0, 250, 1.1))
	assert.Equal(t, uint8(0), blendChannel(200, 10, 1.5))
	assert.Equal(t, uint8(100), blendChannel(100, 100, 1.5))
}
