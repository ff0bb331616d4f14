// Package suppliers ходит в HTTP-каталог поставщиков.
package suppliers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/infrastructure/apiclient"
)

const ProviderName = "suppliers"

type searchResponse struct {
	Suppliers []struct {
		ID string `json:"id"`
	} `json:"suppliers"`
}

type Directory struct {
	client *resty.Client
	key    string
}

type Options struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	LogFieldMaxLen int
}

func NewDirectory(opts Options) *Directory {
	return &Directory{
		client: apiclient.New(apiclient.Options{
			Provider:       ProviderName,
			BaseURL:        strings.TrimRight(opts.BaseURL, "/"),
			Timeout:        opts.Timeout,
			Auth:           &apiclient.Auth{Key: opts.APIKey, Header: "Authorization", Scheme: "Bearer "},
			LogFieldMaxLen: opts.LogFieldMaxLen,
		}),
		key: opts.APIKey,
	}
}

func (d *Directory) Provider() string { return ProviderName }

func (d *Directory) Configured() bool { return d.key != "" }

// Search lists supplier IDs that carry the product.
func (d *Directory) Search(ctx context.Context, product entity.Product) ([]string, error) {
	var out searchResponse

	resp, err := d.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"q": product.Name, "category": product.Category}).
		SetResult(&out).
		Get("/v1/suppliers")
	if err := apiclient.Classify(ProviderName, resp, err); err != nil {
		return nil, err //nolint:wrapcheck
	}

	ids := make([]string, 0, len(out.Suppliers))

	for _, s := range out.Suppliers {
		if s.ID != "" {
			ids = append(ids, s.ID)
		}
	}

	if len(ids) == 0 {
		return nil, domain.NewNoResultsError("no suppliers for " + product.Name)
	}

	return ids, nil
}

func (d *Directory) Profile(ctx context.Context, supplierID string) (entity.SupplierProfile, error) {
	var out entity.SupplierProfile

	resp, err := d.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/suppliers/" + url.PathEscape(supplierID))
	if err := apiclient.Classify(ProviderName, resp, err); err != nil {
		return entity.SupplierProfile{}, err //nolint:wrapcheck
	}

	if out.ID == "" {
		out.ID = supplierID
	}

	if out.Rating < 0 || out.Rating > 5 {
		return entity.SupplierProfile{}, apiclient.Malformed(ProviderName,
			fmt.Errorf("rating %.2f out of range for %s", out.Rating, supplierID))
	}

	return out, nil
}

func (d *Directory) Verify(ctx context.Context) error {
	resp, err := d.client.R().
		SetContext(ctx).
		SetQueryParam("limit", "1").
		Get("/v1/suppliers")

	return apiclient.Classify(ProviderName, resp, err) //nolint:wrapcheck
}
