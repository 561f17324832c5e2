package raster

import (
	"image"
	"image/color"
	"testing"

	"asset-previewer/internal/mathutil"
	"asset-previewer/internal/preset"
	"asset-previewer/internal/scene"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = colorful.Color{R: 1}
	blue = colorful.Color{B: 1}
)

// quad is a side×side square in the XY plane at depth z, facing +Z.
func quad(side float32, z float32, c colorful.Color) scene.Mesh {
	h := side / 2
	return scene.Mesh{
		Verts:     [][3]float32{{-h, -h, z}, {h, -h, z}, {h, h, z}, {-h, h, z}},
		UVs:       [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
		BaseColor: c,
		Alpha:     1,
	}
}

func testScene(meshes ...scene.Mesh) *scene.Scene {
	sc := &scene.Scene{
		Sun:        scene.DefaultSun(),
		Material:   scene.DefaultMaterial(),
		Background: scene.Background{Default: scene.DefaultBackground},
	}
	if len(meshes) > 0 {
		sc.Model = &scene.Model{Meshes: meshes, Transform: scene.IdentityTransform()}
	}
	return sc
}

func rgba(img *image.NRGBA, x, y int) [4]uint8 {
	c := img.NRGBAAt(x, y)
	return [4]uint8{c.R, c.G, c.B, c.A}
}

func bgRGBA() [4]uint8 {
	r, g, b := scene.DefaultBackground.RGB255()
	return [4]uint8{r, g, b, 255}
}

func TestRenderEmptySceneIsBackground(t *testing.T) {
	img := Render(testScene(), scene.DefaultCamera(), Options{Width: 8, Height: 6})
	require.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, bgRGBA(), rgba(img, x, y))
		}
	}
}

func TestRenderSupersampleSize(t *testing.T) {
	img := Render(testScene(), scene.DefaultCamera(), Options{Width: 10, Height: 5, Supersample: 3})
	assert.Equal(t, image.Rect(0, 0, 30, 15), img.Bounds())

	img = Render(testScene(), scene.DefaultCamera(), Options{})
	assert.True(t, img.Bounds().Empty())
}

func TestRenderQuadCoversCenter(t *testing.T) {
	// frustum 200 over 100px: the 50-unit quad spans 25px around the center
	img := Render(testScene(quad(50, 0, red)), scene.DefaultCamera(), Options{Width: 100, Height: 100})

	center := rgba(img, 50, 50)
	assert.NotEqual(t, bgRGBA(), center)
	assert.Greater(t, center[0], center[2], "red quad")
	assert.Equal(t, uint8(255), center[3])

	assert.Equal(t, bgRGBA(), rgba(img, 5, 5))
	assert.Equal(t, bgRGBA(), rgba(img, 50, 80))
}

func TestRenderDepthOrder(t *testing.T) {
	sc := testScene(quad(50, 0, blue), quad(50, 10, red))
	img := Render(sc, scene.DefaultCamera(), Options{Width: 64, Height: 64})
	c := rgba(img, 32, 32)
	assert.Greater(t, c[0], c[2], "the nearer red quad wins")

	// submission order does not matter
	sc = testScene(quad(50, 10, red), quad(50, 0, blue))
	img = Render(sc, scene.DefaultCamera(), Options{Width: 64, Height: 64})
	c = rgba(img, 32, 32)
	assert.Greater(t, c[0], c[2])
}

func TestRenderTranslucentBlends(t *testing.T) {
	m := quad(50, 0, colorful.Color{R: 1, G: 1, B: 1})
	m.Alpha = 0.5
	img := Render(testScene(m), scene.DefaultCamera(), Options{Width: 64, Height: 64})
	c := rgba(img, 32, 32)
	bg := bgRGBA()
	assert.Greater(t, c[0], bg[0])
	assert.Less(t, c[0], uint8(255))
}

func TestRenderTexture(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			tex.SetNRGBA(x, y, color.NRGBA{G: 255, A: 255})
		}
	}
	m := quad(50, 0, red)
	m.Texture = tex

	img := Render(testScene(m), scene.DefaultCamera(), Options{Width: 64, Height: 64})
	c := rgba(img, 32, 32)
	assert.Greater(t, c[1], c[0], "texture overrides base color")

	flat := Render(testScene(m), scene.DefaultCamera(), Options{Width: 64, Height: 64, FlatTextures: true})
	assert.Equal(t, c, rgba(flat, 32, 32), "uniform texture averages to itself")
}

func TestRenderHueOverrideOnlyUntextured(t *testing.T) {
	sc := testScene(quad(50, 0, red))
	sc.Material.OverrideHue = true
	sc.Material.Hue = 240
	img := Render(sc, scene.DefaultCamera(), Options{Width: 64, Height: 64})
	c := rgba(img, 32, 32)
	assert.Greater(t, c[2], c[0])
}

func TestRenderGrid(t *testing.T) {
	sc := testScene()
	sc.Grid = &preset.Grid{
		Name:            "g",
		Size:            100,
		Divisions:       10,
		CenterLineColor: red,
		GridLineColor:   blue,
	}
	cam := scene.DefaultCamera()
	cam.Position = mgl64.Vec3{0, 100, 0}
	cam.Orientation = mathutil.LookRotation(cam.Position, mgl64.Vec3{}, mathutil.Up)

	img := Render(sc, cam, Options{Width: 101, Height: 101})
	found := false
	for y := 48; y <= 52; y++ {
		if rgba(img, 50, y) == [4]uint8{255, 0, 0, 255} {
			found = true
		}
	}
	assert.True(t, found, "center line crosses the middle")

	sc.Background.Custom = true
	sc.Background.Color = colorful.Color{R: 1, G: 1, B: 1}
	img = Render(sc, cam, Options{Width: 101, Height: 101})
	assert.Equal(t, [4]uint8{255, 255, 255, 255}, rgba(img, 50, 50), "custom background hides the grid")
}

func TestProjectorOrthographic(t *testing.T) {
	cam := scene.DefaultCamera()
	p := NewProjector(cam, 200, 100)

	x, y, _, ok := p.Project(mgl64.Vec3{})
	require.True(t, ok)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)

	// frustum height 200 → 0.5px per unit vertically, y grows downward
	_, y, _, _ = p.Project(mgl64.Vec3{0, 100, 0})
	assert.InDelta(t, 0, y, 1e-9)

	_, _, near, _ := p.Project(mgl64.Vec3{0, 0, 10})
	_, _, far, _ := p.Project(mgl64.Vec3{0, 0, -10})
	assert.Greater(t, near, far)

	_, _, _, ok = p.Project(mgl64.Vec3{0, 0, -5000})
	assert.False(t, ok)
}

func TestProjectorZoomAndPerspective(t *testing.T) {
	cam := scene.DefaultCamera()
	cam.Zoom = 2
	p := NewProjector(cam, 100, 100)
	_, y, _, _ := p.Project(mgl64.Vec3{0, 50, 0})
	assert.InDelta(t, 0, y, 1e-9)

	cam = scene.DefaultCamera()
	cam.Projection = scene.Perspective
	cam.Near, cam.Far = 0.1, 1000
	p = NewProjector(cam, 100, 100)
	_, _, _, ok := p.Project(mgl64.Vec3{0, 0, 200})
	assert.False(t, ok, "behind the camera")
	_, _, nd, ok := p.Project(mgl64.Vec3{0, 0, 50})
	require.True(t, ok)
	_, _, fd, _ := p.Project(mgl64.Vec3{0, 0, -50})
	assert.Greater(t, nd, fd)
}

func TestSampleTexture(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	tex.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	tex.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})

	r, _, b, a := SampleTexture(tex, 0, 0)
	assert.Equal(t, [3]uint8{255, 0, 255}, [3]uint8{r, b, a})

	r, _, b, _ = SampleTexture(tex, 0.5, 0)
	assert.InDelta(t, 128, int(r), 1)
	assert.InDelta(t, 128, int(b), 1)

	r2, _, _, _ := SampleTexture(tex, 1.0, 0)
	r3, _, _, _ := SampleTexture(tex, 0, 0)
	assert.Equal(t, r3, r2, "wraps")

	r, g, b, a := SampleTexture(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 0.3, 0.3)
	assert.Zero(t, int(r)+int(g)+int(b)+int(a))
}

func TestComputeShadeDoubleSided(t *testing.T) {
	lc := NewLightConfig(scene.DefaultSun(), scene.DefaultMaterial(), mgl64.Vec3{0, 0, -1})
	n := mgl64.Vec3{0, 0, 1}
	assert.InDelta(t, lc.ComputeShade(n), lc.ComputeShade(n.Mul(-1)), 1e-12)

	dark := NewLightConfig(scene.Sun{Azimuth: 45, Elevation: 35, Intensity: 0}, scene.DefaultMaterial(), mgl64.Vec3{0, 0, -1})
	assert.Less(t, dark.ComputeShade(n), lc.ComputeShade(n))
}

func TestACESTonemap(t *testing.T) {
	assert.Zero(t, ACESTonemap(0))
	assert.Less(t, ACESTonemap(1), 1.0)
	assert.Greater(t, ACESTonemap(2), ACESTonemap(1))
}
