package view

import (
	"github.com/gdamore/tcell/v2"
)

// ramp orders glyphs from dimmest to brightest.
var ramp = []rune(".:-=+*#%@")

var (
	frontColor = [3]float32{255, 120, 80}
	backColor  = [3]float32{60, 170, 255}
)

// Glyph returns the glyph used to draw a surface with the given shade.
func Glyph(shade float32) rune {
	i := int(shade * float32(len(ramp)))
	if i < 0 {
		i = 0
	} else if i >= len(ramp) {
		i = len(ramp) - 1
	}
	return ramp[i]
}

// Style returns the terminal style of a cell. Front faces are drawn in warm
// colors and back faces in cool ones.
func Style(cell *Cell) tcell.Style {
	if !cell.Set {
		return tcell.StyleDefault
	}
	c := frontColor
	if cell.Back {
		c = backColor
	}
	s := 0.25 + 0.75*cell.Shade
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(
		int32(c[0]*s), int32(c[1]*s), int32(c[2]*s),
	))
}

// Blit copies the frame onto the top-left corner of screen. Cells outside
// the screen are dropped. Show is not called.
func (f *Frame) Blit(screen tcell.Screen) {
	w, h := screen.Size()
	for y := 0; y < f.Height && y < h; y++ {
		for x := 0; x < f.Width && x < w; x++ {
			cell := f.At(x, y)
			r := ' '
			if cell.Set {
				r = Glyph(cell.Shade)
			}
			screen.SetContent(x, y, r, nil, Style(cell))
		}
	}
}

// DrawText writes s to screen starting at (x, y), clipped to the screen.
func DrawText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	w, h := screen.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range s {
		if x >= w {
			return
		} else if x >= 0 {
			screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}
