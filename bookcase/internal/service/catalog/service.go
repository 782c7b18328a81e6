package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookcase/bookcase/config"
	"github.com/Astemirdum/bookcase/bookcase/internal/errs"
	"github.com/Astemirdum/bookcase/bookcase/internal/model"
	"github.com/Astemirdum/bookcase/pkg/breaker"
	"github.com/Astemirdum/bookcase/pkg/metrics"
)

const (
	searchFields = "key,title,author_name,first_publish_year,isbn,number_of_pages_median,subject,cover_i"
	maxSubjects  = 5
	unknownTitle = "Unknown Title"
)

type Service struct {
	log    *zap.Logger
	client *http.Client
	cb     *breaker.Breaker
	cfg    config.Catalog
}

func NewService(log *zap.Logger, cfg config.Catalog) *Service {
	return &Service{
		log:    log.Named("catalog"),
		client: &http.Client{Timeout: cfg.Timeout},
		cb:     breaker.New(cfg.Breaker),
		cfg:    cfg,
	}
}

type searchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []doc `json:"docs"`
}

type doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear *int     `json:"first_publish_year"`
	ISBN             []string `json:"isbn"`
	Pages            *int     `json:"number_of_pages_median"`
	Subject          []string `json:"subject"`
	CoverID          *int     `json:"cover_i"`
}

// Search queries Open Library once. Nothing is cached or retried; while the
// breaker is open the upstream is not called at all.
func (s *Service) Search(ctx context.Context, query string) (model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.SearchResult{}, errs.ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(s.cfg.Limit))
	params.Set("fields", searchFields)
	u := strings.TrimRight(s.cfg.BaseURL, "/") + "/search.json?" + params.Encode()

	var sr searchResponse
	err := s.cb.Call(func() error {
		return s.fetch(ctx, u, query, &sr)
	})
	if errors.Is(err, breaker.ErrOpen) {
		metrics.ObserveCatalog(metrics.CatalogBreakerOpen)
		return model.SearchResult{}, errs.ErrCatalogUnavailable
	}
	if err != nil {
		return model.SearchResult{}, err
	}
	metrics.ObserveCatalog(metrics.CatalogOK)

	books := make([]model.CatalogBook, 0, len(sr.Docs))
	for _, d := range sr.Docs {
		books = append(books, s.normalize(d))
	}
	return model.SearchResult{Books: books, Total: sr.NumFound}, nil
}

// fetch performs the one upstream request. Every error it returns counts
// against the breaker.
func (s *Service) fetch(ctx context.Context, u, query string, sr *searchResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return errors.Wrap(err, "new request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.ObserveCatalog(metrics.CatalogUnavailable)
		s.log.Warn("search request", zap.String("query", query), zap.Error(err))
		return errs.ErrCatalogUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveCatalog(metrics.CatalogBadStatus)
		s.log.Warn("search status", zap.String("query", query), zap.Int("status", resp.StatusCode))
		return errs.ErrCatalogUnavailable
	}

	if err := json.NewDecoder(resp.Body).Decode(sr); err != nil {
		metrics.ObserveCatalog(metrics.CatalogDecodeError)
		return fmt.Errorf("decode search response: %w", err)
	}
	return nil
}

func (s *Service) normalize(d doc) model.CatalogBook {
	b := model.CatalogBook{
		OpenLibraryID:    strings.TrimPrefix(d.Key, "/works/"),
		Title:            d.Title,
		Authors:          d.AuthorName,
		FirstPublishYear: d.FirstPublishYear,
		Pages:            d.Pages,
		Subjects:         d.Subject,
		CoverID:          d.CoverID,
	}
	if b.Title == "" {
		b.Title = unknownTitle
	}
	if b.Authors == nil {
		b.Authors = []string{}
	}
	if len(b.Subjects) > maxSubjects {
		b.Subjects = b.Subjects[:maxSubjects]
	}
	if b.Subjects == nil {
		b.Subjects = []string{}
	}
	if len(d.ISBN) > 0 {
		isbn := d.ISBN[0]
		b.ISBN = &isbn
	}
	if d.CoverID != nil {
		cover := fmt.Sprintf("%s/b/id/%d-M.jpg", strings.TrimRight(s.cfg.CoversURL, "/"), *d.CoverID)
		b.CoverURL = &cover
	}
	return b
}
