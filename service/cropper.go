package service

import (
	"fmt"
	"image"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/disintegration/imaging"
)

// CropResult 裁剪结果
type CropResult struct {
	Region model.BoundingRegion
	Image  *image.NRGBA
	// Found 掩码中是否存在前景
	Found bool
	// Suppressed 被置为透明的像素数量
	Suppressed int
}

// Cropper 按最大前景连通区域裁剪并抹除背景
type Cropper struct {
	padding       int
	maskProcessor *MaskProcessor
}

func NewCropper(cfg *config.CropperConfig) *Cropper {
	return &Cropper{
		padding:       cfg.Padding,
		maskProcessor: NewMaskProcessor(),
	}
}

// Crop 计算外接矩形（含边距并裁剪到图像范围内），输出背景透明的子图。
// 掩码无前景时返回整幅原图，不做透明化。
func (c *Cropper) Crop(img *image.NRGBA, mask *ForegroundMask) (*CropResult, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if mask.Width != width || mask.Height != height {
		return nil, &ProcessingError{
			Op:  "cropper",
			Err: fmt.Errorf("mask %dx%d does not match image %dx%d", mask.Width, mask.Height, width, height),
		}
	}

	full := model.BoundingRegion{Left: 0, Top: 0, Width: width, Height: height}
	if mask.Count() == 0 {
		return &CropResult{Region: full, Image: imaging.Clone(img)}, nil
	}

	maskMat, err := maskToMat(mask)
	if err != nil {
		return nil, &ProcessingError{Op: "cropper", Err: err}
	}
	defer maskMat.Close()

	largestMat, rect, ok := c.maskProcessor.KeepLargest(&maskMat)
	defer largestMat.Close()
	if !ok {
		return &CropResult{Region: full, Image: imaging.Clone(img)}, nil
	}

	kept, err := matToMask(&largestMat, width, height)
	if err != nil {
		return nil, &ProcessingError{Op: "cropper", Err: err}
	}

	rect = c.pad(rect, width, height)
	if rect.Empty() {
		return nil, &ProcessingError{Op: "cropper", Err: ErrEmptyRegion}
	}

	cropped := imaging.Crop(img, rect.Add(bounds.Min))
	suppressed := 0
	for y := 0; y < rect.Dy(); y++ {
		row := y * cropped.Stride
		for x := 0; x < rect.Dx(); x++ {
			if !kept.At(rect.Min.X+x, rect.Min.Y+y) {
				cropped.Pix[row+x*4+3] = 0
				suppressed++
			}
		}
	}

	return &CropResult{
		Region: model.BoundingRegion{
			Left:   rect.Min.X,
			Top:    rect.Min.Y,
			Width:  rect.Dx(),
			Height: rect.Dy(),
		},
		Image:      cropped,
		Found:      true,
		Suppressed: suppressed,
	}, nil
}

// pad 四周扩展固定边距并限制在图像范围内
func (c *Cropper) pad(rect image.Rectangle, width, height int) image.Rectangle {
	rect.Min.X = max(0, rect.Min.X-c.padding)
	rect.Min.Y = max(0, rect.Min.Y-c.padding)
	rect.Max.X = min(width, rect.Max.X+c.padding)
	rect.Max.Y = min(height, rect.Max.Y+c.padding)
	return rect
}
