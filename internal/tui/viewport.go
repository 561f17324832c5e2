package tui

import (
	"fmt"
	"image"
	"strings"

	"asset-previewer/internal/postprocess"
	"asset-previewer/internal/raster"
	"asset-previewer/internal/scene"

	"github.com/charmbracelet/lipgloss"
)

// halfBlock draws two vertically stacked pixels in one cell: foreground is
// the top pixel, background the bottom one.
const halfBlock = "▀"

// renderViewport rasterizes the scene for a cols×rows cell area.
func renderViewport(rt *scene.Runtime, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	img := raster.Render(rt.Scene, rt.Snapshot(), raster.Options{
		Width:        cols,
		Height:       rows * 2,
		Supersample:  1,
		FlatTextures: true,
	})
	img = postprocess.Contrast(img, rt.Scene.Material.Contrast)
	return halfBlocks(img)
}

// halfBlocks converts an image with an even height into terminal rows.
func halfBlocks(img *image.NRGBA) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y+1 < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.NRGBAAt(x, y)
			bot := img.NRGBAAt(x, y+1)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", top.R, top.G, top.B))).
				Background(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", bot.R, bot.G, bot.B))).
				Render(halfBlock))
		}
	}
	return sb.String()
}
