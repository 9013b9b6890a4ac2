package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
)

const iconSize = 16

var (
	iconBackground = color.NRGBA{R: 0x20, G: 0x24, B: 0x2B, A: 0xFF}
	iconInk        = color.NRGBA{R: 0xFF, G: 0xD6, B: 0x00, A: 0xFF}
	iconTip        = color.NRGBA{R: 0xFF, G: 0x3B, B: 0x30, A: 0xFF}
)

// drawIcon 16x16 圆角深色底，一道从左下到右上的荧光笔迹
func drawIcon() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			if !insideRounded(x, y, 3) {
				continue
			}
			c := iconBackground
			// 到对角线 x+y=15 的距离
			d := math.Abs(float64(x+y-(iconSize-1))) / math.Sqrt2
			switch {
			case d < 1.6 && x >= 11:
				c = iconTip
			case d < 1.6 && x >= 3:
				c = iconInk
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func insideRounded(x, y, r int) bool {
	cx, cy := x, y
	if x < r {
		cx = r
	} else if x > iconSize-1-r {
		cx = iconSize - 1 - r
	}
	if y < r {
		cy = r
	} else if y > iconSize-1-r {
		cy = iconSize - 1 - r
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// encodeICO 单图 32 位 ICO：目录、BITMAPINFOHEADER、自下而上的 BGRA 像素和 AND 掩码
func encodeICO(img *image.NRGBA) []byte {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	maskStride := ((w + 31) / 32) * 4
	pixelBytes := w * h * 4
	imageBytes := 40 + pixelBytes + maskStride*h

	var buf bytes.Buffer
	le := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }

	// ICONDIR
	le(uint16(0))
	le(uint16(1))
	le(uint16(1))
	// ICONDIRENTRY
	buf.WriteByte(byte(w))
	buf.WriteByte(byte(h))
	buf.WriteByte(0)
	buf.WriteByte(0)
	le(uint16(1))
	le(uint16(32))
	le(uint32(imageBytes))
	le(uint32(6 + 16))
	// BITMAPINFOHEADER，高度包含掩码所以加倍
	le(uint32(40))
	le(int32(w))
	le(int32(h * 2))
	le(uint16(1))
	le(uint16(32))
	le(uint32(0))
	le(uint32(pixelBytes))
	le(int32(0))
	le(int32(0))
	le(uint32(0))
	le(uint32(0))

	for y := h - 1; y >= 0; y-- {
		for x := 0; x < w; x++ {
			c := img.NRGBAAt(x, y)
			buf.Write([]byte{c.B, c.G, c.R, c.A})
		}
	}
	// 透明度已在 alpha 通道中，掩码全零
	buf.Write(make([]byte, maskStride*h))
	return buf.Bytes()
}
