package repository

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"golang-upper-limit-tracker/internal/tracker/config"
	"golang-upper-limit-tracker/internal/tracker/dto"
	"golang-upper-limit-tracker/pkg/decoder"
	"golang-upper-limit-tracker/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickmn/go-cache"
)

// MoversRepository retrieves the day's ranked upper-limit movers.
type MoversRepository interface {
	FetchTopMovers(ctx context.Context) ([]dto.MoverRow, error)
}

var symbolPattern = regexp.MustCompile(`code=(\d{6})`)

type naverMoversRepository struct {
	cfg           *config.Config
	logger        *logger.Logger
	decoder       *decoder.EUCKRDecoder
	client        *http.Client
	inmemoryCache *cache.Cache
}

// NewNaverMoversRepository creates a MoversRepository backed by the Naver
// Finance ranked movers listing.
func NewNaverMoversRepository(cfg *config.Config, log *logger.Logger, dec *decoder.EUCKRDecoder) MoversRepository {
	return &naverMoversRepository{
		cfg:           cfg,
		logger:        log,
		decoder:       dec,
		client:        &http.Client{Timeout: cfg.Crawler.Timeout},
		inmemoryCache: cache.New(cfg.Crawler.CacheTTL, 2*cfg.Crawler.CacheTTL),
	}
}

func (r *naverMoversRepository) FetchTopMovers(ctx context.Context) ([]dto.MoverRow, error) {
	if cached, ok := r.inmemoryCache.Get(r.cfg.Crawler.MoversURL); ok {
		return cached.([]dto.MoverRow), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.Crawler.MoversURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create movers request: %w", err)
	}
	// The listing rejects requests with a default client identity.
	req.Header.Set("User-Agent", r.cfg.Crawler.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movers page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch movers page, status code: %d", resp.StatusCode)
	}

	// The page is served in EUC-KR. Decode before parsing: goquery must see
	// UTF-8 cell text, not raw legacy bytes.
	doc, err := goquery.NewDocumentFromReader(r.decoder.Reader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse movers page: %w", err)
	}

	rows := r.parseRows(doc)
	r.inmemoryCache.Set(r.cfg.Crawler.MoversURL, rows, cache.DefaultExpiration)
	return rows, nil
}

func (r *naverMoversRepository) parseRows(doc *goquery.Document) []dto.MoverRow {
	minRate := r.cfg.Crawler.MinChangeRate
	if minRate <= 0 {
		minRate = 20.0
	}
	rows := []dto.MoverRow{}

	doc.Find("table.type_2 tr").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find("a[href*='code=']").First()
		name := strings.TrimSpace(link.Text())
		if name == "" {
			// Header, separator and ad rows share the same table.
			return
		}

		symbol := ""
		if href, ok := link.Attr("href"); ok {
			if m := symbolPattern.FindStringSubmatch(href); len(m) == 2 {
				symbol = m[1]
			}
		}

		var (
			price    int64
			rate     float64
			hasPrice bool
			hasRate  bool
		)
		// Rank and streak counters precede the name cell under the same
		// class; the quote starts in the cell after the name.
		link.Closest("td").NextAllFiltered("td.number").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			text := collapseWhitespace(cell.Text())
			if !hasPrice {
				if v, err := parsePrice(text); err == nil {
					price = v
					hasPrice = true
				}
				return true
			}
			if strings.HasSuffix(text, "%") {
				if v, err := parseChangeRate(text); err == nil {
					rate = v
					hasRate = true
				}
				return false
			}
			return true
		})

		if !hasPrice || !hasRate || price <= 0 {
			r.logger.Debug("skipping unparsable mover row", logger.StringField("name", name))
			return
		}
		if rate < minRate {
			return
		}

		rows = append(rows, dto.MoverRow{
			Symbol:     symbol,
			Name:       name,
			Price:      price,
			ChangeRate: rate,
		})
	})

	return rows
}

func parsePrice(s string) (int64, error) {
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseInt(s, 10, 64)
}

func parseChangeRate(s string) (float64, error) {
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "+")
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
