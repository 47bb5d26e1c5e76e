package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang-upper-limit-tracker/internal/tracker/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newsSearchHTML = `<html><body>
<div class="news_area">
  <div class="info_group"><a class="info press">한국경제 언론사 선정</a></div>
  <a class="news_tit" href="https://news.example.com/a1" title="동일철강 상한가 직행">동일철강 상한가 직행</a>
</div>
<div class="news_area">
  <div class="info_group"><a class="info press">연합뉴스</a></div>
  <a class="news_tit" href="https://news.example.com/a2" title="철강주 동반 급등">철강주 동반 급등</a>
</div>
<div class="news_area">
  <div class="info_group"><a class="info press">매일경제</a></div>
  <a class="news_tit" href="https://news.example.com/a3" title="원자재 가격 상승 수혜">원자재 가격 상승 수혜</a>
</div>
<div class="news_area">
  <div class="info_group"><a class="info press">전자신문</a></div>
  <a class="news_tit" href="https://news.example.com/a4" title="네번째 기사">네번째 기사</a>
</div>
</body></html>`

const newsRSSFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>검색 결과</title>
<item><title>동일철강 급등 배경은</title><link>https://rss.example.com/1</link><pubDate>Mon, 31 Aug 2026 07:00:00 GMT</pubDate></item>
<item><title>철강 섹터 강세 지속</title><link>https://rss.example.com/2</link><pubDate>Mon, 31 Aug 2026 06:00:00 GMT</pubDate></item>
</channel></rss>`

func newNewsTestConfig(searchURL, rssBaseURL string) *config.Config {
	return &config.Config{
		Crawler: config.Crawler{UserAgent: "test-agent"},
		News: config.News{
			SearchURL:  searchURL,
			RSSBaseURL: rssBaseURL,
			Keyword:    "급등",
			MaxResults: 3,
			Timeout:    5 * time.Second,
		},
	}
}

func TestFetchNews_ParsesHeadlines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "news", r.URL.Query().Get("where"))
		assert.Equal(t, "동일철강 급등", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(newsSearchHTML))
	}))
	defer server.Close()

	repo := NewNaverNewsSearchRepository(newNewsTestConfig(server.URL, ""), newTestLogger(t))

	candidates, err := repo.FetchNews(context.Background(), "동일철강")
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	assert.Equal(t, "동일철강 상한가 직행", candidates[0].Title)
	assert.Equal(t, "https://news.example.com/a1", candidates[0].URL)
	assert.Equal(t, "한국경제", candidates[0].Publisher)
	assert.Equal(t, "연합뉴스", candidates[1].Publisher)
}

func TestFetchNews_FallsBackToRSS(t *testing.T) {
	searchServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer searchServer.Close()

	rssServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "동일철강 급등", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(newsRSSFeed))
	}))
	defer rssServer.Close()

	repo := NewNaverNewsSearchRepository(newNewsTestConfig(searchServer.URL, rssServer.URL), newTestLogger(t))

	candidates, err := repo.FetchNews(context.Background(), "동일철강")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "동일철강 급등 배경은", candidates[0].Title)
	assert.Equal(t, "https://rss.example.com/1", candidates[0].URL)
	require.NotNil(t, candidates[0].PublishedAt)
}

func TestFetchNews_EmptyPageFallsBackToRSS(t *testing.T) {
	searchServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>검색 결과가 없습니다</body></html>"))
	}))
	defer searchServer.Close()

	rssServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(newsRSSFeed))
	}))
	defer rssServer.Close()

	repo := NewNaverNewsSearchRepository(newNewsTestConfig(searchServer.URL, rssServer.URL), newTestLogger(t))

	candidates, err := repo.FetchNews(context.Background(), "동일철강")
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestFetchArticleContent_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	repo := NewNaverNewsSearchRepository(newNewsTestConfig("", ""), newTestLogger(t))

	_, err := repo.FetchArticleContent(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status code: 404")
}
