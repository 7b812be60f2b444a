// Package layout turns a container size and a resolution preset into the
// pixel sizes the dashboard renders: the live stream, the detection gallery
// and the scroll regions around them.
package layout

import (
	"math"

	"github.com/zanzhit/camera_dashboard/internal/domain/models"
)

const (
	FrameWidth  = 854
	FrameHeight = 480

	AspectRatio = 16.0 / 9.0

	// ChromeOffset is the vertical space reserved for toolbars and the
	// detection strip below the stream.
	ChromeOffset    = 280
	MinStreamHeight = 300

	minScrollHeight = 200
	minImageHeight  = 60
	maxImageHeight  = 120
	minFontSize     = 8
	minPadding      = 2
	minGridHeight   = 60
	maxGridHeight   = 120

	scrollScale  = 0.4
	imageScale   = 0.08
	fontScale    = 0.006
	paddingScale = 0.002
	gridMaxScale = 0.15

	streamShare = 2.0 / 3.0
)

// Auto is the preset value that sizes the stream from the container.
const Auto = "auto"

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type StreamSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// FullWidth is set when the stream stretches across the container.
	FullWidth bool `json:"fullWidth"`
}

type ResponsiveSize struct {
	ScrollHeight float64 `json:"scrollHeight"`
	ImageHeight  float64 `json:"imageHeight"`
	FontSize     float64 `json:"fontSize"`
	Padding      float64 `json:"padding"`
}

type GridItemSize struct {
	MinHeight float64 `json:"minHeight"`
	MaxHeight float64 `json:"maxHeight"`
}

var presets = []models.ResolutionPreset{
	{Label: "Auto", Value: Auto, Width: 0, Height: 0},
	{Label: "1920x1080 (Full HD)", Value: "1920x1080", Width: 1920, Height: 1080},
	{Label: "1366x768 (HD)", Value: "1366x768", Width: 1366, Height: 768},
	{Label: "1280x720 (HD)", Value: "1280x720", Width: 1280, Height: 720},
	{Label: "1024x768 (XGA)", Value: "1024x768", Width: 1024, Height: 768},
	{Label: "800x600 (SVGA)", Value: "800x600", Width: 800, Height: 600},
}

// Presets returns a copy of the built-in resolution presets, Auto first.
func Presets() []models.ResolutionPreset {
	out := make([]models.ResolutionPreset, len(presets))
	copy(out, presets)

	return out
}

func Preset(value string) (models.ResolutionPreset, bool) {
	for _, p := range presets {
		if p.Value == value {
			return p, true
		}
	}

	return models.ResolutionPreset{}, false
}

// Stream computes the displayed stream size.
//
// Auto keeps the full container width and gives the stream whatever height
// is left after the chrome, never less than MinStreamHeight. A fixed preset
// takes at most two thirds of the container width, never more than the
// preset's own width, and a 16:9 height for that share. Unknown presets
// behave like a preset as wide as the container.
func Stream(resolution string, container Size) StreamSize {
	if resolution == Auto {
		return StreamSize{
			Width:     container.Width,
			Height:    math.Max(MinStreamHeight, container.Height-ChromeOffset),
			FullWidth: true,
		}
	}

	share := container.Width * streamShare

	presetWidth := container.Width
	if p, ok := Preset(resolution); ok && p.Width > 0 {
		presetWidth = float64(p.Width)
	}

	height := math.Min(container.Height-ChromeOffset, share/AspectRatio)

	return StreamSize{
		Width:  math.Max(0, math.Min(share, presetWidth)),
		Height: math.Max(0, height),
	}
}

func ScrollAreaHeight(container Size) float64 {
	return math.Max(minScrollHeight, (container.Height-100)/2)
}

func ImageHeight(container Size) float64 {
	return math.Max(minImageHeight, math.Min(maxImageHeight, container.Width/8))
}

func Responsive(container Size) ResponsiveSize {
	return ResponsiveSize{
		ScrollHeight: math.Max(minScrollHeight, container.Height*scrollScale-80),
		ImageHeight:  math.Max(minImageHeight, container.Height*imageScale),
		FontSize:     math.Max(minFontSize, container.Width*fontScale),
		Padding:      math.Max(minPadding, container.Width*paddingScale),
	}
}

func GridItemHeight(container Size) GridItemSize {
	return GridItemSize{
		MinHeight: math.Max(minGridHeight, container.Height*imageScale),
		MaxHeight: math.Max(maxGridHeight, container.Height*gridMaxScale),
	}
}

// Container resolves the size the layout is computed against: the observed
// container under Auto, the preset's own size otherwise. Unknown presets
// keep the observed size.
func Container(resolution string, observed Size) Size {
	if resolution == Auto {
		return observed
	}

	p, ok := Preset(resolution)
	if !ok {
		return observed
	}

	return Size{Width: float64(p.Width), Height: float64(p.Height)}
}

// Layout bundles every computed size for one container.
type Layout struct {
	Resolution string         `json:"resolution"`
	Container  Size           `json:"container"`
	Stream     StreamSize     `json:"stream"`
	ScrollArea float64        `json:"scrollAreaHeight"`
	Image      float64        `json:"imageHeight"`
	Responsive ResponsiveSize `json:"responsive"`
	GridItem   GridItemSize   `json:"gridItem"`
}

func Compute(resolution string, observed Size) Layout {
	if resolution == "" {
		resolution = Auto
	}

	c := Container(resolution, observed)

	return Layout{
		Resolution: resolution,
		Container:  c,
		Stream:     Stream(resolution, c),
		ScrollArea: ScrollAreaHeight(c),
		Image:      ImageHeight(c),
		Responsive: Responsive(c),
		GridItem:   GridItemHeight(c),
	}
}
