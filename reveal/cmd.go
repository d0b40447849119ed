package reveal

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"pixelcloak/parallel"
	"pixelcloak/stego"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

type CLICmd struct {
	Key string `help:"Secret key used when the message was hidden" required:""`

	File struct {
		Image string `arg:"" help:"Image to inspect" type:"existingfile"`
		Out   string `help:"Write the message to this file instead of stdout"`
	} `cmd:"" help:"Recover the hidden message from one image"`

	Dir struct {
		Scan string `help:"Folder to scan" default:"."`
	} `cmd:"" help:"Try the key against every image in a folder"`
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
		return c.runFile()
	case "dir":
		return c.runDir(worker, wait)
	}
	return fmt.Errorf("unsupported operation %q", subCmd)
}

func (c *CLICmd) runFile() error {
	msg, err := extract(c.File.Image, c.Key)
	if err != nil {
		return err
	}

	if c.File.Out != "" {
		if err = os.WriteFile(c.File.Out, []byte(msg), 0o644); err != nil {
			return fmt.Errorf("could not write message file %q: %w", c.File.Out, err)
		}
		slog.Info("message written", "file", c.File.Out)
		return nil
	}

	fmt.Println(msg)
	return nil
}

func (c *CLICmd) runDir(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	files, err := os.ReadDir(c.Dir.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Dir.Scan, err)
	}

	var foundCount, missCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		worker(func(fileName string) func() {
			return func() {
				filePath := filepath.Join(c.Dir.Scan, fileName)
				logger := slog.Default().With("file", filePath)

				msg, err := extract(filePath, c.Key)
				switch {
				case err == nil:
					foundCount.Add(1)
					logger.Info("message found", "message", msg)
				case errors.Is(err, stego.ErrNoMessage):
					// Routine outcome for images that carry nothing
					// under this key.
					missCount.Add(1)
					logger.Info("no message")
				default:
					errCount.Add(1)
					logger.Error("could not inspect image", "error", err)
				}
			}
		}(file.Name()))
	}

	wait(true)

	found, missed, errCnt := foundCount.Load(), missCount.Load(), errCount.Load()
	slog.Info("stats", "found", found, "without", missed, "errors", errCnt, "total",
		found+missed+errCnt)

	if errCnt > 0 {
		return fmt.Errorf("error processing %d files", errCnt)
	}
	return nil
}

func extract(name, key string) (string, error) {
	imgFile, err := os.Open(name)
	if err != nil {
		return "", fmt.Errorf("could not open image %q: %w", name, err)
	}
	img, _, err := image.Decode(imgFile)
	if closeErr := imgFile.Close(); closeErr != nil {
		slog.Error("could not close image", "file", name, "error", closeErr)
	}
	if err != nil {
		return "", fmt.Errorf("could not decode image %q: %w", name, err)
	}

	msg, err := stego.Decode(stego.FromImage(img), key)
	if err != nil {
		return "", fmt.Errorf("could not recover message from %q: %w", name, err)
	}
	return msg, nil
}
