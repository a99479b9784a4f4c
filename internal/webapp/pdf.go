package webapp

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/joelkehle/solution-navigator/internal/assessment"
)

// ReportPDFRenderer turns a finished assessment into a printable PDF.
type ReportPDFRenderer interface {
	Render(ctx context.Context, result assessment.AssessmentResult) ([]byte, error)
}

type ChromiumPDFRenderer struct {
	webDir     string
	chromePath string
	styleOnce  sync.Once
	styleCSS   string
	styleErr   error
}

func NewChromiumPDFRenderer(webDir string) *ChromiumPDFRenderer {
	return &ChromiumPDFRenderer{
		webDir:     webDir,
		chromePath: detectChromePath(),
	}
}

func (r *ChromiumPDFRenderer) Render(ctx context.Context, result assessment.AssessmentResult) ([]byte, error) {
	htmlDoc, err := r.buildHTML(result)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;padding-right:8px;">` +
				`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.45).
				WithMarginRight(0.45).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return pdf, nil
}

func (r *ChromiumPDFRenderer) buildHTML(result assessment.AssessmentResult) (string, error) {
	contentHTML, err := renderReportHTML(result.ReportMarkdown)
	if err != nil {
		return "", err
	}
	styleCSS, err := r.loadStyleCSS()
	if err != nil {
		return "", err
	}
	badge := "<span class='report-badge'>EU AI Act: " + html.EscapeString(result.EUAIActClassification) + "</span>"
	return "<!doctype html><html><head><meta charset='utf-8'><title>Solution Assessment Report</title>" +
		"<style>" + styleCSS + "\n" +
		"html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;} " +
		"body{background:#fff !important;padding:0.6rem;} .pdf-wrap{max-width:1000px;margin:0 auto;} " +
		".report-viewer{background:#fff !important;border:0 !important;} " +
		".report-badge{background:#e0e7ff !important;color:#312e81 !important;border:1px solid #a5b4fc !important;} " +
		".report-html table{width:100% !important;border-collapse:collapse !important;border:1px solid #a8a29e !important;font-size:0.8rem !important;} " +
		".report-html th,.report-html td{border:1px solid #a8a29e !important;padding:0.35rem 0.45rem !important;text-align:left !important;vertical-align:top !important;} " +
		".report-html thead th{background:#f1f5f9 !important;font-weight:700 !important;} " +
		"@media print{ @page{size:auto;margin:12mm;} body{background:#fff !important;padding:0;} .pdf-wrap{max-width:none;} .report-viewer{box-shadow:none !important;} }" +
		"</style></head><body>" +
		"<div class='pdf-wrap'><section class='report-viewer'><div class='report-badges'>" + badge + "</div>" +
		"<div class='report-html'>" + contentHTML + "</div></section></div>" +
		"</body></html>", nil
}

func (r *ChromiumPDFRenderer) loadStyleCSS() (string, error) {
	r.styleOnce.Do(func() {
		b, err := os.ReadFile(filepath.Join(r.webDir, "style.css"))
		if err != nil {
			r.styleErr = fmt.Errorf("read style.css: %w", err)
			return
		}
		r.styleCSS = string(b)
	})
	return r.styleCSS, r.styleErr
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
