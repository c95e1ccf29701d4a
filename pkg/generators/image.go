package generators

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/arthur-debert/sprout/pkg/config"
	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/logging"
	"github.com/arthur-debert/sprout/pkg/substitute"
	"github.com/arthur-debert/sprout/pkg/types"
)

// Supported image formats. Extension detection and the format attribute
// both normalize to these.
const (
	formatPNG  = "png"
	formatJPEG = "jpeg"
	formatGIF  = "gif"
	formatBMP  = "bmp"
)

// maxDimension bounds either axis of a generated image.
const maxDimension = 10000

// Attribute scanners work on raw strings so a config can arrive either as
// serialized child elements or as loose attributes in file content.
var (
	widthAttr      = regexp.MustCompile(`width\s*=\s*["']?([^"'\s]+)["']?`)
	heightAttr     = regexp.MustCompile(`height\s*=\s*["']?([^"'\s]+)["']?`)
	backgroundAttr = regexp.MustCompile(`background\s*=\s*["']?([^"'\s]+)["']?`)
	formatAttr     = regexp.MustCompile(`format\s*=\s*["']?([^"'\s]+)["']?`)
)

// imageSpec is one image's resolved configuration.
type imageSpec struct {
	width      int
	height     int
	background string
	format     string
}

type imageGenerator struct {
	defaults config.ImageConfig
}

// NewImage returns the solid-color placeholder image generator. cfg
// supplies the dimensions and background used when a node configures
// none of its own.
func NewImage(cfg config.ImageConfig) Generator {
	return &imageGenerator{defaults: cfg}
}

func (g *imageGenerator) Noun() string { return "image" }

func (g *imageGenerator) Generate(node *types.SchemaNode, path string, vars map[string]string) error {
	spec := g.resolveSpec(node, vars)

	bg, ok := parseHexColor(spec.background)
	if !ok {
		bg = color.RGBA{R: 204, G: 204, B: 204, A: 255}
	}

	img := image.NewRGBA(image.Rect(0, 0, spec.width, spec.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	var buf bytes.Buffer
	var err error
	switch spec.format {
	case formatJPEG:
		err = jpeg.Encode(&buf, img, nil)
	case formatGIF:
		err = gif.Encode(&buf, img, nil)
	case formatBMP:
		err = bmp.Encode(&buf, img)
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrGenerate, "failed to encode %s image", spec.format)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, errors.ErrGenerate, "failed to write image file")
	}

	logger := logging.GetLogger("generators")
	logger.Debug().
		Str("path", path).
		Int("width", spec.width).
		Int("height", spec.height).
		Str("format", spec.format).
		Msg("generated image")
	return nil
}

// resolveSpec layers the config sources: package defaults, then the file
// extension, then attributes from the generator config, then attributes
// from file content. Later sources win.
func (g *imageGenerator) resolveSpec(node *types.SchemaNode, vars map[string]string) imageSpec {
	spec := imageSpec{
		width:      g.defaults.DefaultWidth,
		height:     g.defaults.DefaultHeight,
		background: g.defaults.DefaultColor,
		format:     formatPNG,
	}

	switch strings.ToLower(filepath.Ext(node.Name)) {
	case ".jpg", ".jpeg":
		spec.format = formatJPEG
	case ".gif":
		spec.format = formatGIF
	case ".bmp":
		spec.format = formatBMP
	}

	if node.GenerateConfig != "" {
		spec = applyImageAttrs(node.GenerateConfig, vars, spec)
	}
	if node.Content != "" {
		spec = applyImageAttrs(node.Content, vars, spec)
	}
	return spec
}

// applyImageAttrs overrides spec fields found in input. Width, height,
// and background values go through variable substitution; format values
// are taken literally.
func applyImageAttrs(input string, vars map[string]string, spec imageSpec) imageSpec {
	if m := widthAttr.FindStringSubmatch(input); m != nil {
		if n, ok := parseDimension(m[1], vars); ok {
			spec.width = n
		}
	}
	if m := heightAttr.FindStringSubmatch(input); m != nil {
		if n, ok := parseDimension(m[1], vars); ok {
			spec.height = n
		}
	}
	if m := backgroundAttr.FindStringSubmatch(input); m != nil {
		spec.background = strings.TrimSpace(substitute.Substitute(m[1], vars))
	}
	if m := formatAttr.FindStringSubmatch(input); m != nil {
		switch strings.ToLower(m[1]) {
		case "jpeg", "jpg":
			spec.format = formatJPEG
		case "png":
			spec.format = formatPNG
		case "gif":
			spec.format = formatGIF
		case "bmp":
			spec.format = formatBMP
		}
	}
	return spec
}

// parseDimension substitutes and parses a width or height value, clamped
// to 1..maxDimension. Unparseable or negative values report false so the
// previous value stands.
func parseDimension(raw string, vars map[string]string) (int, bool) {
	v := strings.TrimSpace(substitute.Substitute(raw, vars))
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	if n < 1 {
		return 1, true
	}
	if n > maxDimension {
		return maxDimension, true
	}
	return n, true
}

// parseHexColor reads a #RGB or #RRGGBB color, leading # optional.
func parseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimLeft(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{
		R: uint8(n >> 16),
		G: uint8(n >> 8),
		B: uint8(n),
		A: 255,
	}, true
}
