// Package goes looks up the newest animated GOES-18 GeoColor loop of the
// Pacific Southwest sector from NOAA's public directory listing.
package goes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"sync"
	"time"
)

const maxListingBytes = 4 << 20

var (
	loopRe = regexp.MustCompile(`href="([^"]+GEOCOLOR[^"]+600x600\.gif)"`)

	ErrNoLoop = errors.New("no GEOCOLOR 600x600 loop in listing")
)

type Loop struct {
	Url       string    `json:"url"`
	FetchedAt time.Time `json:"fetchedAt"`
}

type Client struct {
	listingUrl string
	http       *http.Client
	logger     *slog.Logger
}

func New(listingUrl string) *Client {
	return &Client{
		listingUrl: listingUrl,
		http:       &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default().With("module", "goes"),
	}
}

// Latest fetches the listing and resolves the last loop link against it.
// The listing is sorted by name, so the last link is the newest.
func (c *Client) Latest(ctx context.Context) (string, error) {
	c.logger.Debug("fetching GOES listing...", slog.String("url", c.listingUrl))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.listingUrl, nil)
	if err != nil {
		return "", fmt.Errorf("error creating GOES request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("error getting GOES listing: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GOES listing returned %s", res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxListingBytes))
	if err != nil {
		return "", fmt.Errorf("error reading GOES listing: %w", err)
	}

	return resolveLatest(c.listingUrl, body)
}

func resolveLatest(base string, listing []byte) (string, error) {
	matches := loopRe.FindAllSubmatch(listing, -1)
	if len(matches) == 0 {
		return "", ErrNoLoop
	}
	href := string(matches[len(matches)-1][1])

	baseUrl, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid listing url %q: %w", base, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid loop link %q: %w", href, err)
	}
	return baseUrl.ResolveReference(ref).String(), nil
}

// Cache keeps the last loop found so handlers never wait on NOAA.
type Cache struct {
	mu   sync.RWMutex
	loop Loop
}

func (c *Cache) Set(l Loop) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loop = l
}

func (c *Cache) Get() (Loop, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loop, c.loop.Url != ""
}
