package service

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// ForegroundMask 前景掩码，true 表示保留
type ForegroundMask struct {
	Width  int
	Height int
	Pix    []bool
}

func NewForegroundMask(width, height int) *ForegroundMask {
	return &ForegroundMask{
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}
}

func (m *ForegroundMask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

func (m *ForegroundMask) Set(x, y int, fg bool) {
	m.Pix[y*m.Width+x] = fg
}

// Count 前景像素数量
func (m *ForegroundMask) Count() int {
	n := 0
	for _, fg := range m.Pix {
		if fg {
			n++
		}
	}
	return n
}

// MaskProcessor 负责掩码的形态学处理与连通区域筛选
type MaskProcessor struct{}

func NewMaskProcessor() *MaskProcessor {
	return &MaskProcessor{}
}

// MorphologyOptimize 先闭运算填补小孔，再开运算去除噪点
func (mp *MaskProcessor) MorphologyOptimize(mask *gocv.Mat, kernelSize int) gocv.Mat {
	if kernelSize <= 1 {
		return mask.Clone()
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: kernelSize, Y: kernelSize})
	defer kernel.Close()

	closed := gocv.NewMat()
	gocv.MorphologyEx(*mask, &closed, gocv.MorphClose, kernel)

	opened := gocv.NewMat()
	gocv.MorphologyEx(closed, &opened, gocv.MorphOpen, kernel)
	closed.Close()

	return opened
}

// KeepLargest 保留像素数最多的外轮廓连通区域，返回新掩码及其外接矩形；
// 像素数相同时取外接矩形更大者。掩码为空时 ok 为 false。
func (mp *MaskProcessor) KeepLargest(mask *gocv.Mat) (gocv.Mat, image.Rectangle, bool) {
	contours := gocv.FindContours(*mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return gocv.NewMat(), image.Rectangle{}, false
	}

	scratch := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), mask.Rows(), mask.Cols(), gocv.MatTypeCV8U)
	defer scratch.Close()

	maxIndex := 0
	maxPixels := -1
	var maxRect image.Rectangle
	for i := 0; i < contours.Size(); i++ {
		rect := gocv.BoundingRect(contours.At(i))
		pixels := componentPixels(&scratch, mask, contours, i, rect)
		if pixels > maxPixels || (pixels == maxPixels && rectArea(rect) > rectArea(maxRect)) {
			maxPixels = pixels
			maxIndex = i
			maxRect = rect
		}
	}

	filled := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), mask.Rows(), mask.Cols(), gocv.MatTypeCV8U)
	defer filled.Close()
	gocv.DrawContours(&filled, contours, maxIndex, fillColor, -1)

	// 填充会抹掉衣物内部的孔洞，与原掩码求交还原
	largest := gocv.NewMat()
	gocv.BitwiseAnd(filled, *mask, &largest)

	return largest, maxRect, true
}

var fillColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// componentPixels 统计第 i 个轮廓内属于原掩码的像素数，只在外接矩形内计算。
// scratch 须为全零，返回前恢复。
func componentPixels(scratch, mask *gocv.Mat, contours gocv.PointsVector, i int, rect image.Rectangle) int {
	gocv.DrawContours(scratch, contours, i, fillColor, -1)

	region := scratch.Region(rect)
	defer region.Close()
	maskRegion := mask.Region(rect)
	defer maskRegion.Close()

	inside := gocv.NewMat()
	defer inside.Close()
	gocv.BitwiseAnd(region, maskRegion, &inside)
	n := gocv.CountNonZero(inside)

	region.SetTo(gocv.NewScalar(0, 0, 0, 0))
	return n
}

// maskToMat 将布尔掩码转换为 CV_8U 单通道 Mat（255 为前景）
func maskToMat(mask *ForegroundMask) (gocv.Mat, error) {
	buf := make([]byte, len(mask.Pix))
	for i, fg := range mask.Pix {
		if fg {
			buf[i] = 255
		}
	}

	view, err := gocv.NewMatFromBytes(mask.Height, mask.Width, gocv.MatTypeCV8U, buf)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("mask to mat: %w", err)
	}
	defer view.Close()

	return view.Clone(), nil
}

// matToMask 将 CV_8U 单通道 Mat 读回布尔掩码
func matToMask(m *gocv.Mat, width, height int) (*ForegroundMask, error) {
	if m.Rows() != height || m.Cols() != width {
		return nil, fmt.Errorf("mask size %dx%d, want %dx%d", m.Cols(), m.Rows(), width, height)
	}

	data := m.ToBytes()
	if len(data) != width*height {
		return nil, fmt.Errorf("mask has %d bytes, want %d", len(data), width*height)
	}

	mask := NewForegroundMask(width, height)
	for i, v := range data {
		mask.Pix[i] = v > 127
	}
	return mask, nil
}

func rectArea(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}
