package software

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// captionPad is the margin around the caption in pixels.
const captionPad = 4

// drawCaption draws the caption over a translucent backdrop in the
// top-left corner of the target.
func (d *Device) drawCaption() {
	if d.caption == "" || d.target == nil {
		return
	}
	face := basicfont.Face7x13
	img := d.target.Color
	width := font.MeasureString(face, d.caption).Ceil()
	m := face.Metrics()
	height := (m.Ascent + m.Descent).Ceil()

	box := image.Rect(0, 0, width+2*captionPad, height+2*captionPad).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(color.NRGBA{A: 160}), image.Point{}, draw.Over)

	dr := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(captionPad, captionPad+m.Ascent.Ceil()),
	}
	dr.DrawString(d.caption)
}
