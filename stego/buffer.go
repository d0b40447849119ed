package stego

import (
	"image"

	"pixelcloak/chaos"

	"golang.org/x/image/draw"
)

// PixelBuffer holds width*height*4 bytes in R, G, B, A order,
// non-premultiplied: premultiplied alpha would not survive a save/load
// round trip with its LSBs intact.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

func FromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &PixelBuffer{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

// ToImage wraps the buffer for encoding; no bytes are copied.
func (p *PixelBuffer) ToImage() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.Pix,
		Stride: p.Width * 4,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
}

// Capacity is the number of embeddable bits, one per color channel.
func (p *PixelBuffer) Capacity() int {
	return p.Width * p.Height * 3
}

func (p *PixelBuffer) Clone() *PixelBuffer {
	out := &PixelBuffer{Width: p.Width, Height: p.Height, Pix: make([]byte, len(p.Pix))}
	copy(out.Pix, p.Pix)
	return out
}

func (p *PixelBuffer) valid() bool {
	return p.Width > 0 && p.Height > 0 && len(p.Pix) == p.Width*p.Height*4
}

func (p *PixelBuffer) offset(loc chaos.Location) int {
	return (loc.Y*p.Width+loc.X)*4 + loc.Channel
}

func (p *PixelBuffer) lsb(loc chaos.Location) byte {
	return p.Pix[p.offset(loc)] & 1
}

func (p *PixelBuffer) setLSB(loc chaos.Location, bit byte) {
	i := p.offset(loc)
	p.Pix[i] = p.Pix[i]&0xFE | bit&1
}
