package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang-upper-limit-tracker/internal/tracker/config"
	"golang-upper-limit-tracker/internal/tracker/dto"
	"golang-upper-limit-tracker/pkg/logger"
	"golang-upper-limit-tracker/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
)

// NewsSearchRepository finds recent headlines for a company and extracts
// article bodies for prompt enrichment.
type NewsSearchRepository interface {
	// FetchNews returns up to the configured number of headline candidates.
	FetchNews(ctx context.Context, companyName string) ([]dto.NewsCandidate, error)
	// FetchArticleContent extracts the readable text of an article page.
	FetchArticleContent(ctx context.Context, articleURL string) (string, error)
}

// pressLabelSuffix is boilerplate Naver appends to selected publisher names.
const pressLabelSuffix = "언론사 선정"

type naverNewsSearchRepository struct {
	cfg        *config.Config
	logger     *logger.Logger
	client     *http.Client
	feedParser *gofeed.Parser
}

// NewNaverNewsSearchRepository creates a NewsSearchRepository backed by the
// Naver news search page with a Google News RSS fallback.
func NewNaverNewsSearchRepository(cfg *config.Config, log *logger.Logger) NewsSearchRepository {
	return &naverNewsSearchRepository{
		cfg:        cfg,
		logger:     log,
		client:     &http.Client{Timeout: cfg.News.Timeout},
		feedParser: gofeed.NewParser(),
	}
}

func (r *naverNewsSearchRepository) FetchNews(ctx context.Context, companyName string) ([]dto.NewsCandidate, error) {
	query := r.buildQuery(companyName)

	candidates, err := r.searchHTML(ctx, query)
	if err != nil {
		r.logger.Warn("news search page failed, falling back to RSS",
			logger.ErrorField(err), logger.StringField("query", query))
		candidates = nil
	}
	if len(candidates) > 0 {
		return candidates, nil
	}

	return r.searchRSS(ctx, query)
}

func (r *naverNewsSearchRepository) buildQuery(companyName string) string {
	keyword := r.cfg.News.Keyword
	if keyword == "" {
		keyword = "급등"
	}
	return companyName + " " + keyword
}

func (r *naverNewsSearchRepository) maxResults() int {
	if r.cfg.News.MaxResults > 0 {
		return r.cfg.News.MaxResults
	}
	return 3
}

func (r *naverNewsSearchRepository) searchHTML(ctx context.Context, query string) ([]dto.NewsCandidate, error) {
	params := url.Values{}
	params.Set("where", "news")
	params.Set("query", query)
	searchURL := r.cfg.News.SearchURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create news search request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.Crawler.UserAgent)
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news search page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch news search page, status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news search page: %w", err)
	}

	max := r.maxResults()
	candidates := []dto.NewsCandidate{}
	doc.Find("a.news_tit").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.AttrOr("title", ""))
		if title == "" {
			title = strings.TrimSpace(sel.Text())
		}
		link := strings.TrimSpace(sel.AttrOr("href", ""))
		if title == "" && link == "" {
			return true
		}

		publisher := sel.Closest("div.news_area").Find("a.info.press").First().Text()
		publisher = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(publisher), pressLabelSuffix))

		candidates = append(candidates, dto.NewsCandidate{
			Title:     utils.CleanToValidUTF8(title),
			URL:       link,
			Publisher: publisher,
		})
		return len(candidates) < max
	})

	return candidates, nil
}

func (r *naverNewsSearchRepository) searchRSS(ctx context.Context, query string) ([]dto.NewsCandidate, error) {
	feedURL := fmt.Sprintf("%s/search?q=%s&hl=ko&gl=KR&ceid=KR:ko",
		r.cfg.News.RSSBaseURL, url.QueryEscape(query))

	feed, err := r.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news RSS feed: %w", err)
	}

	max := r.maxResults()
	candidates := []dto.NewsCandidate{}
	for _, item := range feed.Items {
		if len(candidates) >= max {
			break
		}
		if item.Title == "" && item.Link == "" {
			continue
		}
		candidates = append(candidates, dto.NewsCandidate{
			Title:       utils.CleanToValidUTF8(item.Title),
			URL:         item.Link,
			PublishedAt: item.PublishedParsed,
		})
	}

	return candidates, nil
}

func (r *naverNewsSearchRepository) FetchArticleContent(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create article request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.Crawler.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read article body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to extract article content: %w", err)
	}

	contentDoc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse extracted content: %w", err)
	}

	content := strings.Join(strings.Fields(contentDoc.Text()), " ")
	return utils.CleanToValidUTF8(content), nil
}
