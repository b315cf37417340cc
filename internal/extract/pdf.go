package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"litsearch/internal/util"

	"github.com/ledongthuc/pdf"
)

// Extractor downloads a PDF and pulls its plain text.
type Extractor struct {
	httpc    *http.Client
	minChars int
}

func New(timeout time.Duration, minChars int) *Extractor {
	return &Extractor{
		httpc:    &http.Client{Timeout: timeout},
		minChars: minChars,
	}
}

// FromURL fetches the PDF at url and returns its sanitized text. Text
// shorter than the configured minimum comes back as ErrTextTooShort so the
// caller can fall back to the paper's abstract.
func (e *Extractor) FromURL(ctx context.Context, url string) (text string, err error) {
	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("extract pdf %s: %v", url, r)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build pdf request: %w", err)
	}
	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch pdf %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch pdf %s: unexpected status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read pdf body: %w", err)
	}

	r, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", url, err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text %s: %w", url, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text %s: %w", url, err)
	}

	text = util.SanitizeText(buf.String())
	if text == "" {
		return "", fmt.Errorf("pdf %s: %w", url, util.ErrNoExtractableText)
	}
	if utf8.RuneCountInString(text) < e.minChars {
		return "", fmt.Errorf("pdf %s (%d chars): %w", url, utf8.RuneCountInString(text), util.ErrTextTooShort)
	}
	return text, nil
}

// Fallback is the stand-in body used when extraction fails or yields too
// little text.
func Fallback(title, summary string) string {
	return title + "\n\n" + summary
}
