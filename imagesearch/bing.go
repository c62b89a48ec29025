package imagesearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

const maxPageBytes = 8 << 20

// murlPattern matches result metadata when the markup cannot be walked as
// anchors, e.g. when the page is returned HTML-escaped inside a script.
var murlPattern = regexp.MustCompile(`"murl":"(.*?)"`)

func (r *Resolver) searchURL(query string, first, count int, opts FetchOptions) (string, error) {
	u, err := url.Parse(r.cfg.SearchURL)
	if err != nil {
		return "", fmt.Errorf("parse search url: %w", err)
	}
	adult := "moderate"
	if opts.AdultFilterOff {
		adult = "off"
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("first", strconv.Itoa(first))
	q.Set("count", strconv.Itoa(count))
	q.Set("adlt", adult)
	q.Set("qft", ResolveFilter(opts.Filter))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (r *Resolver) searchPage(ctx context.Context, query string, first, count int, opts FetchOptions) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	pageURL, err := r.searchURL(query, first, count, opts)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &searchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &searchError{Status: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, &searchError{Err: fmt.Errorf("read page: %w", err)}
	}
	return parseLinks(body)
}

// parseLinks extracts full-size image URLs from a results page, in page order.
func parseLinks(body []byte) ([]string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse image search page: %w", err)
	}

	var links []string
	doc.Find("a.iusc").Each(func(_ int, s *goquery.Selection) {
		raw, ok := s.Attr("m")
		if !ok {
			return
		}
		var meta struct {
			MURL string `json:"murl"`
		}
		if err := json.Unmarshal([]byte(raw), &meta); err != nil || meta.MURL == "" {
			return
		}
		links = append(links, meta.MURL)
	})
	if len(links) > 0 {
		return links, nil
	}

	unescaped := html.UnescapeString(string(body))
	for _, m := range murlPattern.FindAllStringSubmatch(unescaped, -1) {
		links = append(links, m[1])
	}
	return links, nil
}
