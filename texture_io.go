package cpurender

import (
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/bmp" // register BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// TextureFromImage converts img into an owned texture. Images that report
// themselves opaque become RGB textures; everything else keeps alpha.
func TextureFromImage(img image.Image) (*Texture, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidDimensions
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		xdraw.Draw(nrgba, nrgba.Bounds(), img, b.Min, xdraw.Src)
	}

	hasAlpha := true
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		hasAlpha = false
	}

	stride := channelStride(hasAlpha)
	buf := make([]float64, w*h*stride)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			k := (y*w + x) * stride
			buf[k+0] = float64(row[x*4+0]) / 255.0
			buf[k+1] = float64(row[x*4+1]) / 255.0
			buf[k+2] = float64(row[x*4+2]) / 255.0
			if hasAlpha {
				buf[k+3] = float64(row[x*4+3]) / 255.0
			}
		}
	}
	return newOwnedTexture(w, h, hasAlpha, buf), nil
}

// LoadTexture decodes an image file into an owned texture.
// Supported formats: PNG, JPEG, GIF, BMP, TIFF, WebP.
func LoadTexture(path string) (*Texture, error) {
	img, err := imgio.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("cpurender: load texture: %w", err)
	}
	return TextureFromImage(img)
}
