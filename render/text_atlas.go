package render

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const atlasSize = 512

type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

type TextItem struct {
	Text     string
	Position [2]float32 // pixels, top-left
	Scale    float32
	Color    [4]float32
}

type Glyph struct {
	UVMin [2]float32
	UVMax [2]float32
	Size  [2]float32
	Off   [2]float32
	Adv   float32
}

// TextAtlas rasterizes printable ASCII of the Go Mono font into one alpha
// texture.
type TextAtlas struct {
	Image  *image.Alpha
	Glyphs map[rune]Glyph

	ascent     float32
	lineHeight float32
}

func NewTextAtlas(fontSize float64) (*TextAtlas, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	defer face.Close()

	atlas := image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize))
	glyphs := make(map[rune]Glyph)

	x, y := 2, 2
	rowHeight := 0
	for r := rune(32); r < 127; r++ {
		bounds, mask, maskp, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w, h := bounds.Dx(), bounds.Dy()

		if x+w >= atlasSize {
			x = 2
			y += rowHeight + 4
			rowHeight = 0
		}
		if y+h >= atlasSize {
			return nil, fmt.Errorf("font size %.0f does not fit a %dpx atlas", fontSize, atlasSize)
		}

		draw.Draw(atlas, image.Rect(x, y, x+w, y+h), mask, maskp, draw.Src)

		glyphs[r] = Glyph{
			UVMin: [2]float32{float32(x) / atlasSize, float32(y) / atlasSize},
			UVMax: [2]float32{float32(x+w) / atlasSize, float32(y+h) / atlasSize},
			Size:  [2]float32{float32(w), float32(h)},
			Off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			Adv:   float32(adv) / 64,
		}

		x += w + 4
		rowHeight = max(rowHeight, h)
	}

	metrics := face.Metrics()
	return &TextAtlas{
		Image:      atlas,
		Glyphs:     glyphs,
		ascent:     float32(metrics.Ascent.Ceil()),
		lineHeight: float32(metrics.Height.Ceil()),
	}, nil
}

func (a *TextAtlas) LineHeight(scale float32) float32 {
	return a.lineHeight * scale
}

// BuildVertices lays out items as two triangles per visible glyph, in clip
// space of a screenW x screenH viewport.
func (a *TextAtlas) BuildVertices(items []TextItem, screenW, screenH int) []TextVertex {
	if screenW <= 0 || screenH <= 0 {
		return nil
	}
	sw := float32(screenW)
	sh := float32(screenH)

	vertices := make([]TextVertex, 0, 6*64)
	for _, item := range items {
		startX := item.Position[0]
		posX := startX
		posY := item.Position[1] + a.ascent*item.Scale

		for _, r := range item.Text {
			if r == '\n' {
				posX = startX
				posY += a.lineHeight * item.Scale
				continue
			}
			g, ok := a.Glyphs[r]
			if !ok {
				continue
			}
			if g.Size[0] > 0 && g.Size[1] > 0 {
				x0 := (posX+g.Off[0]*item.Scale)/sw*2 - 1
				y0 := 1 - (posY+g.Off[1]*item.Scale)/sh*2
				x1 := (posX+(g.Off[0]+g.Size[0])*item.Scale)/sw*2 - 1
				y1 := 1 - (posY+(g.Off[1]+g.Size[1])*item.Scale)/sh*2

				vertices = append(vertices,
					TextVertex{Pos: [2]float32{x0, y0}, UV: g.UVMin, Color: item.Color},
					TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.UVMax[0], g.UVMin[1]}, Color: item.Color},
					TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.UVMin[0], g.UVMax[1]}, Color: item.Color},
					TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.UVMax[0], g.UVMin[1]}, Color: item.Color},
					TextVertex{Pos: [2]float32{x1, y1}, UV: g.UVMax, Color: item.Color},
					TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.UVMin[0], g.UVMax[1]}, Color: item.Color},
				)
			}
			posX += g.Adv * item.Scale
		}
	}
	return vertices
}

// Measure returns the width of the widest line and the total height.
func (a *TextAtlas) Measure(text string, scale float32) (float32, float32) {
	maxW, currentW := float32(0), float32(0)
	lines := 1
	for _, r := range text {
		if r == '\n' {
			maxW = max(maxW, currentW)
			currentW = 0
			lines++
			continue
		}
		if g, ok := a.Glyphs[r]; ok {
			currentW += g.Adv * scale
		}
	}
	return max(maxW, currentW), a.lineHeight * scale * float32(lines)
}
