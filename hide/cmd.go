package hide

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pixelcloak/stego"

	"github.com/alecthomas/kong"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

type CLICmd struct {
	Image       string `arg:"" help:"Image to hide the message in" type:"existingfile"`
	Key         string `help:"Secret key selecting the hiding locations" required:""`
	Message     string `help:"Message text" xor:"msg"`
	MessageFile string `help:"Read the message from this file" xor:"msg" type:"existingfile"`
	Out         string `help:"Destination file. Defaults next to the source image"`
	Format      string `help:"Output format. Lossy formats would destroy the hidden bits" enum:"png,bmp,tiff" default:"png"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if (c.Message == "") == (c.MessageFile == "") {
		return fmt.Errorf("exactly one of --message and --message-file must be given")
	}

	if c.Out == "" {
		ext := filepath.Ext(c.Image)
		c.Out = fmt.Sprintf("%s.cloaked.%s", strings.TrimSuffix(c.Image, ext), c.Format)
	}
	return nil
}

func (c *CLICmd) Run() error {
	msg := c.Message
	if c.MessageFile != "" {
		raw, err := os.ReadFile(c.MessageFile)
		if err != nil {
			return fmt.Errorf("could not read message file %q: %w", c.MessageFile, err)
		}
		msg = string(raw)
	}

	logger := slog.Default().With("file", c.Image)

	imgFile, err := os.Open(c.Image)
	if err != nil {
		return fmt.Errorf("could not open image %q: %w", c.Image, err)
	}
	img, imgType, err := image.Decode(imgFile)
	if closeErr := imgFile.Close(); closeErr != nil {
		logger.Error("could not close image", "error", closeErr)
	}
	if err != nil {
		return fmt.Errorf("could not decode image %q: %w", c.Image, err)
	}

	buf := stego.FromImage(img)
	logger.Info("hiding", "format", imgType, "width", buf.Width, "height", buf.Height,
		"capacity", buf.Capacity())

	out, err := stego.Encode(buf, msg, c.Key)
	if err != nil {
		return fmt.Errorf("could not hide message in %q: %w", c.Image, err)
	}

	if err = save(out.ToImage(), c.Format, c.Out); err != nil {
		return err
	}
	logger.Info("saved", "dest", c.Out)
	return nil
}

func save(img image.Image, outType, destPath string) (err error) {
	destDir, destName := filepath.Split(destPath)
	if destDir == "" {
		destDir = "."
	}

	outFile, err := os.CreateTemp(destDir, destName)
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename {
			if defErr := os.Rename(outFile.Name(), destPath); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		}
	}()

	switch outType {
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err = enc.Encode(outFile, img); err != nil {
			return fmt.Errorf("could not encode PNG destination %q: %w", destName, err)
		}
	case "bmp":
		if err = bmp.Encode(outFile, img); err != nil {
			return fmt.Errorf("could not encode BMP destination %q: %w", destName, err)
		}
	case "tiff":
		// nil options: uncompressed, which keeps the write lossless.
		if err = tiff.Encode(outFile, img, nil); err != nil {
			return fmt.Errorf("could not encode TIFF destination %q: %w", destName, err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", outType)
	}

	canRename = true
	return err
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
