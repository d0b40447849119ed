package capacity

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"pixelcloak/bitcodec"
	"pixelcloak/parallel"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

type CLICmd struct {
	File struct {
		Images []string `arg:"" help:"Images to measure" type:"existingfile"`
	} `cmd:"" help:"Measure the given images"`

	Dir struct {
		Scan string `help:"Folder to scan" default:"."`
	} `cmd:"" help:"Measure every image in a folder"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if kctx.Selected().Name != "dir" {
		return nil
	}

	scanDir, err := filepath.Abs(c.Dir.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Dir.Scan, err)
	}
	c.Dir.Scan = scanDir

	return nil
}

func (c *CLICmd) Run(subCmd string, worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	switch subCmd {
	case "file":
		return c.runFiles()
	case "dir":
		return c.runDir(worker, wait)
	}
	return fmt.Errorf("unsupported operation %q", subCmd)
}

func (c *CLICmd) runFiles() error {
	var errCount int
	for _, name := range c.File.Images {
		if !measure(name) {
			errCount++
		}
	}

	if errCount > 0 {
		return fmt.Errorf("error reading %d files", errCount)
	}
	return nil
}

func (c *CLICmd) runDir(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	files, err := os.ReadDir(c.Dir.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Dir.Scan, err)
	}

	var okCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		worker(func(fileName string) func() {
			return func() {
				if measure(filepath.Join(c.Dir.Scan, fileName)) {
					okCount.Add(1)
				} else {
					errCount.Add(1)
				}
			}
		}(file.Name()))
	}

	wait(true)

	measured, errs := okCount.Load(), errCount.Load()
	slog.Info("stats", "measured", measured, "errors", errs, "total", measured+errs)

	if errs > 0 {
		return fmt.Errorf("error reading %d files", errs)
	}
	return nil
}

func measure(name string) bool {
	logger := slog.Default().With("file", name)

	imgFile, err := os.Open(name)
	if err != nil {
		logger.Error("could not open image", "error", err)
		return false
	}

	imgConf, imgType, err := image.DecodeConfig(imgFile)
	if closeErr := imgFile.Close(); closeErr != nil {
		logger.Error("could not close image", "error", closeErr)
	}
	if err != nil {
		logger.Error("could not read image", "error", err)
		return false
	}

	bits := imgConf.Width * imgConf.Height * 3
	chars := (bits - bitcodec.HeaderBits) / bitcodec.UnitBits
	if chars < 0 {
		chars = 0
	}
	logger.Info("capacity", "format", imgType, "width", imgConf.Width,
		"height", imgConf.Height, "bits", bits, "characters", chars)
	return true
}
