// Package storehost это клиент admin API платформы магазинов
// (Shopify-совместимая схема, токен в X-Shopify-Access-Token).
package storehost

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"

	"storepilot/internal/domain/entity"
	"storepilot/internal/infrastructure/apiclient"
)

const (
	ProviderName = "storehost"

	defaultAPIVersion = "2024-10"
	defaultTrialDays  = 14
	hoursPerDay       = 24
)

type shop struct {
	Name        string     `json:"name"`
	Domain      string     `json:"domain"`
	CreatedAt   time.Time  `json:"created_at"`
	TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`
}

type shopEnvelope struct {
	Shop shop `json:"shop"`
}

type variant struct {
	Price string `json:"price"`
}

type product struct {
	Title       string    `json:"title"`
	ProductType string    `json:"product_type"`
	Variants    []variant `json:"variants"`
}

type createShop struct {
	Shop struct {
		Name      string    `json:"name"`
		TrialDays int       `json:"trial_days"`
		Products  []product `json:"products"`
	} `json:"shop"`
}

type Client struct {
	client    *resty.Client
	token     string
	prefix    string
	trialDays int
	now       func() time.Time
}

type Options struct {
	ShopURL        string
	AccessToken    string
	APIVersion     string
	TrialDays      int
	Timeout        time.Duration
	LogFieldMaxLen int
}

func New(opts Options) *Client {
	return &Client{
		client: apiclient.New(apiclient.Options{
			Provider:       ProviderName,
			BaseURL:        strings.TrimRight(opts.ShopURL, "/"),
			Timeout:        opts.Timeout,
			Auth:           &apiclient.Auth{Key: opts.AccessToken, Header: "X-Shopify-Access-Token"},
			LogFieldMaxLen: opts.LogFieldMaxLen,
		}),
		token:     opts.AccessToken,
		prefix:    "/admin/api/" + lo.CoalesceOrEmpty(opts.APIVersion, defaultAPIVersion),
		trialDays: lo.CoalesceOrEmpty(opts.TrialDays, defaultTrialDays),
		now:       time.Now,
	}
}

func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

func (c *Client) Provider() string { return ProviderName }

func (c *Client) Configured() bool { return c.token != "" }

// FindStore returns ok=false when the platform has no store with this name.
func (c *Client) FindStore(ctx context.Context, name string) (entity.StoreRecord, bool, error) {
	var out shopEnvelope

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get(c.prefix + "/shops/" + url.PathEscape(name) + ".json")
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return entity.StoreRecord{}, false, nil
	}

	if err := apiclient.Classify(ProviderName, resp, err); err != nil {
		return entity.StoreRecord{}, false, err //nolint:wrapcheck
	}

	return c.record(out.Shop, name), true, nil
}

func (c *Client) CreateStore(ctx context.Context, name string, products []entity.Product) (entity.StoreRecord, error) {
	var body createShop

	body.Shop.Name = name
	body.Shop.TrialDays = c.trialDays
	body.Shop.Products = lo.Map(products, func(p entity.Product, _ int) product {
		return product{
			Title:       p.Name,
			ProductType: p.Category,
			Variants:    []variant{{Price: strconv.FormatFloat(p.Price, 'f', 2, 64)}},
		}
	})

	var out shopEnvelope

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post(c.prefix + "/shops.json")
	if err := apiclient.Classify(ProviderName, resp, err); err != nil {
		return entity.StoreRecord{}, err //nolint:wrapcheck
	}

	return c.record(out.Shop, name), nil
}

func (c *Client) record(s shop, name string) entity.StoreRecord {
	rec := entity.StoreRecord{
		Name:      lo.CoalesceOrEmpty(s.Name, name),
		Domain:    s.Domain,
		CreatedAt: s.CreatedAt,
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = c.now().UTC()
	}

	if rec.Domain == "" {
		rec.Domain = rec.Name + ".myshopify.com"
	}

	if s.TrialEndsAt != nil {
		rec.TrialExpiresAt = s.TrialEndsAt.UTC()
	} else {
		rec.TrialExpiresAt = rec.CreatedAt.Add(time.Duration(c.trialDays) * hoursPerDay * time.Hour)
	}

	return rec
}

func (c *Client) Verify(ctx context.Context) error {
	resp, err := c.client.R().SetContext(ctx).Get(c.prefix + "/shop.json")

	return apiclient.Classify(ProviderName, resp, err) //nolint:wrapcheck
}
