package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"webclone/internal/di"
	"webclone/internal/domain/entity"
	"webclone/internal/infrastructure/env"
	"webclone/internal/infrastructure/preview"
)

func main() {
	var (
		outDir    = flag.String("out", "clone-output", "directory for the captured and generated files")
		noLazy    = flag.Bool("no-lazy", false, "skip the lazy-load scroll pass")
		maxWait   = flag.Duration("wait", entity.DefaultMaxWaitTime, "navigation timeout")
		apiKey    = flag.String("api-key", "", "OpenAI API key (defaults to OPENAI_API_KEY)")
		skipClone = flag.Bool("skip-clone", false, "capture only, do not call the model")
		timeout   = flag.Duration("timeout", 10*time.Minute, "overall deadline")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <url>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	container, err := di.NewContainer(di.ConfigFromEnv(env.NewEnvService()))
	if err != nil {
		log.Fatalf("init failed: %v", err)
	}
	defer container.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	req := entity.NewCaptureRequest(flag.Arg(0))
	req.WaitForLazyLoad = !*noLazy
	req.MaxWaitTime = *maxWait

	if err := run(ctx, container, req, *outDir, *apiKey, *skipClone); err != nil {
		container.Logger.Error("clone failed", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("files written to %s\n", *outDir)
}

func run(ctx context.Context, c *di.Container, req entity.CaptureRequest, outDir, apiKey string, skipClone bool) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	captured, err := c.Capture.Capture(ctx, req)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	if err := writeCapture(outDir, captured); err != nil {
		return err
	}
	if skipClone {
		return nil
	}

	clone, err := c.Synthesizer.Synthesize(ctx, entity.SynthesisRequest{
		Layout:     captured.Layout,
		Screenshot: captured.Screenshot,
		APIKey:     apiKey,
	})
	if err != nil {
		return fmt.Errorf("generate clone: %w", err)
	}

	doc, err := preview.Document(clone.HTML, clone.CSS)
	if err != nil {
		return fmt.Errorf("build preview: %w", err)
	}

	return writeFiles(outDir, map[string][]byte{
		"clone.body.html": []byte(clone.HTML),
		"clone.css":       []byte(clone.CSS),
		"clone.html":      []byte(doc),
		"clone.raw.txt":   []byte(clone.Raw),
	})
}

// writeCapture stores the captured page next to its stylesheets, so the
// rewritten ./style{i}.css links in page.html resolve.
func writeCapture(dir string, captured *entity.CaptureResult) error {
	shot, err := base64.StdEncoding.DecodeString(captured.Screenshot)
	if err != nil {
		return fmt.Errorf("decode screenshot: %w", err)
	}
	layout, err := json.MarshalIndent(captured.Layout, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	files := map[string][]byte{
		"page.html":          []byte(captured.HTML),
		"styles.css":         []byte(captured.CSS),
		"layout.json":        layout,
		screenshotName(shot): shot,
	}
	for _, sheet := range captured.Stylesheets {
		files[filepath.Base(sheet.LocalName)] = []byte(sheet.CSS)
	}
	return writeFiles(dir, files)
}

func screenshotName(data []byte) string {
	if http.DetectContentType(data) == "image/jpeg" {
		return "screenshot.jpg"
	}
	return "screenshot.png"
}

func writeFiles(dir string, files map[string][]byte) error {
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
