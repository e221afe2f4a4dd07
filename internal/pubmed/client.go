// Package pubmed queries the NCBI E-utilities for an author's recent articles
// and extracts the countries named in their affiliations.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultRetMax  = 5
)

// Result summarises what PubMed knows about an author on a topic.
type Result struct {
	Found     bool
	Count     int
	Countries []string
}

// Client talks to esearch and efetch.
type Client struct {
	baseURL string
	client  *http.Client
	retMax  int
}

// NewClient builds a client; an empty baseURL uses the public NCBI endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		retMax:  DefaultRetMax,
	}
}

type esearchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search looks up up to five articles by author and topic and collects affiliation countries.
// A search with no hits is a successful, not-found result.
func (c *Client) Search(ctx context.Context, author, topic string) (*Result, error) {
	ids, err := c.searchIDs(ctx, author, topic)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &Result{Countries: []string{}}, nil
	}

	affiliations, err := c.fetchAffiliations(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &Result{
		Found:     true,
		Count:     len(ids),
		Countries: ExtractCountries(affiliations),
	}, nil
}

func (c *Client) searchIDs(ctx context.Context, author, topic string) ([]string, error) {
	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("term", fmt.Sprintf("%s[Author] AND %s", author, topic))
	q.Set("retmode", "json")
	q.Set("retmax", strconv.Itoa(c.retMax))

	resp, err := c.get(ctx, "/esearch.fcgi", q)
	if err != nil {
		return nil, fmt.Errorf("esearch: %w", err)
	}
	defer resp.Body.Close()

	var parsed esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode esearch response: %w", err)
	}
	return parsed.Result.IDList, nil
}

func (c *Client) fetchAffiliations(ctx context.Context, ids []string) ([]string, error) {
	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("id", strings.Join(ids, ","))
	q.Set("retmode", "xml")

	resp, err := c.get(ctx, "/efetch.fcgi", q)
	if err != nil {
		return nil, fmt.Errorf("efetch: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse efetch document: %w", err)
	}

	var out []string
	doc.Find("Affiliation").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "geomed/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("pubmed returned %s", resp.Status)
	}
	return resp, nil
}

// countryTerms maps lowercase, punctuation-free mentions to a display name.
var countryTerms = map[string]string{
	"united states":  "United States",
	"usa":            "United States",
	"u s a":          "United States",
	"china":          "China",
	"united kingdom": "United Kingdom",
	"uk":             "United Kingdom",
	"england":        "England",
	"scotland":       "Scotland",
	"wales":          "Wales",
	"germany":        "Germany",
	"france":         "France",
	"japan":          "Japan",
	"canada":         "Canada",
	"australia":      "Australia",
	"india":          "India",
	"italy":          "Italy",
	"spain":          "Spain",
	"brazil":         "Brazil",
	"netherlands":    "Netherlands",
	"switzerland":    "Switzerland",
	"sweden":         "Sweden",
	"south korea":    "South Korea",
	"korea":          "South Korea",
	"singapore":      "Singapore",
	"israel":         "Israel",
}

// ExtractCountries returns the distinct countries mentioned across affiliations, sorted.
// Terms match on word boundaries, so "uk" does not match inside "Duke".
func ExtractCountries(affiliations []string) []string {
	seen := make(map[string]struct{})
	for _, a := range affiliations {
		text := " " + normalize(a) + " "
		for term, country := range countryTerms {
			if strings.Contains(text, " "+term+" ") {
				seen[country] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func normalize(s string) string {
	b := make([]rune, 0, len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b = append(b, r)
		} else {
			b = append(b, ' ')
		}
	}
	return strings.Join(strings.Fields(string(b)), " ")
}
