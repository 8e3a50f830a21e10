package reports

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var linkPattern = regexp.MustCompile(`https?://[^\s"']+`)

// ExtractLinks returns the http(s) tokens in text, up to the next whitespace or quote.
func ExtractLinks(text string) []string {
	return linkPattern.FindAllString(text, -1)
}

// DefaultOEmbedEndpoints maps video hosts to their oEmbed discovery endpoints.
var DefaultOEmbedEndpoints = map[string]string{
	"youtube.com":      "https://www.youtube.com/oembed",
	"www.youtube.com":  "https://www.youtube.com/oembed",
	"m.youtube.com":    "https://www.youtube.com/oembed",
	"youtu.be":         "https://www.youtube.com/oembed",
	"vimeo.com":        "https://vimeo.com/api/oembed.json",
	"www.vimeo.com":    "https://vimeo.com/api/oembed.json",
	"player.vimeo.com": "https://vimeo.com/api/oembed.json",
}

// LinkChecker probes links one at a time. Video hosting links are checked
// through oEmbed, since those hosts answer 200 even for removed videos.
type LinkChecker struct {
	Client          *http.Client
	Timeout         time.Duration
	OEmbedEndpoints map[string]string
}

func NewLinkChecker(timeout time.Duration) *LinkChecker {
	return &LinkChecker{
		Client:          &http.Client{},
		Timeout:         timeout,
		OEmbedEndpoints: DefaultOEmbedEndpoints,
	}
}

// Check probes a single link. Checks are not cancelled when ctx is;
// each one is bounded by Timeout only.
func (lc *LinkChecker) Check(ctx context.Context, link string) LinkResult {
	res := LinkResult{URL: link}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lc.Timeout)
	defer cancel()

	if endpoint, ok := lc.oembedEndpoint(link); ok {
		q := url.Values{"url": {link}, "format": {"json"}}
		code, err := lc.do(ctx, http.MethodGet, endpoint+"?"+q.Encode())
		return fill(res, code, err)
	}

	code, err := lc.do(ctx, http.MethodHead, link)
	if err != nil || !success(code) {
		code, err = lc.do(ctx, http.MethodGet, link)
	}
	return fill(res, code, err)
}

// CheckAll walks sources in order and checks each distinct link once.
func (lc *LinkChecker) CheckAll(ctx context.Context, sources []LinkSource) DeadLinkReport {
	report := DeadLinkReport{AllChecked: []LinkResult{}, Broken: []LinkResult{}}
	seen := make(map[string]LinkResult)

	for _, src := range sources {
		for _, link := range ExtractLinks(src.Text) {
			res, ok := seen[link]
			if !ok {
				res = lc.Check(ctx, link)
				seen[link] = res
			}
			res.Source = src.Source
			report.AllChecked = append(report.AllChecked, res)
			if !res.OK {
				report.Broken = append(report.Broken, res)
			}
		}
	}
	return report
}

func (lc *LinkChecker) oembedEndpoint(link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	endpoint, ok := lc.OEmbedEndpoints[strings.ToLower(u.Hostname())]
	return endpoint, ok
}

func (lc *LinkChecker) do(ctx context.Context, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "seneca-linkcheck/1.0")

	client := lc.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, nil
}

func fill(res LinkResult, code int, err error) LinkResult {
	if err != nil {
		res.Status = fmt.Sprintf("error: %v", err)
		return res
	}
	res.StatusCode = code
	res.Status = strconv.Itoa(code)
	res.OK = success(code)
	return res
}

func success(code int) bool {
	return code >= 200 && code < 300
}
