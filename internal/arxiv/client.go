package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"litsearch/internal/models"
)

// Client queries the arXiv Atom API for candidate papers.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
	Links     []atomLink   `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// Search runs a relevance-ranked query joining all keywords with AND and
// returns up to maxResults papers.
func (c *Client) Search(ctx context.Context, kws []string, maxResults int) ([]models.Paper, error) {
	terms := make([]string, 0, len(kws))
	for _, kw := range kws {
		terms = append(terms, "all:"+kw)
	}
	q := url.Values{}
	q.Set("search_query", strings.Join(terms, " AND "))
	q.Set("start", "0")
	q.Set("max_results", strconv.Itoa(maxResults))
	q.Set("sortBy", "relevance")
	q.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build arxiv request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv query: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv query: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read arxiv response: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse arxiv feed: %w", err)
	}

	papers := make([]models.Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		id := articleID(e.ID)
		if id == "" {
			continue
		}
		p := models.Paper{
			ArxivID: id,
			Title:   collapse(e.Title),
			Summary: collapse(e.Summary),
			PDFURL:  pdfURL(e),
		}
		for _, a := range e.Authors {
			p.Authors = append(p.Authors, a.Name)
		}
		if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
			p.Published = t
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// articleID is the last path segment of the entry id URL, which keeps the
// version suffix (e.g. 1706.03762v7).
func articleID(entryID string) string {
	trimmed := strings.TrimRight(entryID, "/")
	i := strings.LastIndex(trimmed, "/")
	if i < 0 {
		return trimmed
	}
	return trimmed[i+1:]
}

func pdfURL(e atomEntry) string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	return strings.Replace(e.ID, "/abs/", "/pdf/", 1)
}

// collapse folds internal newlines and runs of spaces into single spaces;
// arXiv wraps titles and abstracts at a fixed column.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
