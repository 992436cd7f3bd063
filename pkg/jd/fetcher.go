// Package jd retrieves job descriptions, the input the external ranker scores
// content against. A job description can come from a local file or a URL.
package jd

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const fetchTimeout = 30 * time.Second

// Fetch retrieves a job description from a file path or URL.
func Fetch(input string) (text string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	text, err = FetchWithContext(ctx, input)
	return text, err
}

// FetchWithContext retrieves a job description with caller-controlled
// cancellation.
func FetchWithContext(ctx context.Context, input string) (text string, err error) {
	if isURL(input) {
		text, err = fetchURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch job description from URL: %s", input)
			return text, err
		}
		return text, err
	}

	text, err = fetchFile(input)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch job description from file: %s", input)
		return text, err
	}

	return text, err
}

func isURL(input string) (ok bool) {
	parsed, err := url.Parse(input)
	ok = err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https")
	return ok
}

func fetchFile(path string) (text string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return text, err
	}

	text = string(data)
	if strings.TrimSpace(text) == "" {
		err = errors.New("file is empty")
		return text, err
	}

	return text, err
}

func fetchURL(ctx context.Context, urlStr string) (text string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return text, err
	}

	req.Header.Set("User-Agent", "resume-allocator/1.0")

	client := &http.Client{
		Timeout: fetchTimeout,
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return text, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return text, err
	}

	var body []byte
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return text, err
	}

	text = stripHTML(string(body))
	if text == "" {
		err = errors.New("fetched content is empty after processing")
		return text, err
	}

	return text, err
}

// stripHTML reduces an HTML page to plain text. Deliberately simple: posting
// pages are text-heavy and the ranker tolerates leftover boilerplate.
func stripHTML(html string) (text string) {
	text = html

	// Remove script and style elements with their content
	text = dropElement(text, "script")
	text = dropElement(text, "style")

	// Strip remaining tags
	var result strings.Builder
	inTag := false
	for _, char := range text {
		switch {
		case char == '<':
			inTag = true
		case char == '>':
			inTag = false
		case !inTag:
			result.WriteRune(char)
		}
	}

	text = strings.TrimSpace(result.String())
	return text
}

// dropElement removes every occurrence of an HTML element and its content.
func dropElement(html, tag string) (result string) {
	result = html
	openTag := "<" + tag
	closeTag := "</" + tag + ">"

	for {
		start := strings.Index(result, openTag)
		if start == -1 {
			break
		}

		end := strings.Index(result[start:], closeTag)
		if end == -1 {
			break
		}

		end += start + len(closeTag)
		result = result[:start] + result[end:]
	}

	return result
}
