package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/justsurfingit/jobx/internal/models"
)

// ChromedpRenderer prints the CV page to an A4 PDF with headless Chrome.
type ChromedpRenderer struct {
	chromePath string
	// uploadDir is where /uploads/* files live on disk, so the photo can be embedded.
	uploadDir string
	timeout   time.Duration
}

func NewChromedpRenderer(chromePath, uploadDir string) *ChromedpRenderer {
	return &ChromedpRenderer{chromePath: chromePath, uploadDir: uploadDir, timeout: 60 * time.Second}
}

func (r *ChromedpRenderer) Render(ctx context.Context, cv *models.CV) ([]byte, string, error) {
	html, err := renderHTML(cv, r.photoURL(cv.PhotoPath))
	if err != nil {
		return nil, "", err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()
	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()
	runCtx, cancelRun := context.WithTimeout(cctx, r.timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "cv-")
	if err != nil {
		return nil, "", err
	}
	defer os.RemoveAll(tmpDir)
	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
		return nil, "", err
	}

	var pdfBuf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 in inches
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, "", err
	}
	return pdfBuf, ".pdf", nil
}

func (r *ChromedpRenderer) photoURL(public string) string {
	if public == "" || r.uploadDir == "" {
		return ""
	}
	abs, err := filepath.Abs(filepath.Join(r.uploadDir, filepath.Base(strings.TrimPrefix(public, "/uploads/"))))
	if err != nil {
		return ""
	}
	return "file://" + filepath.ToSlash(abs)
}
