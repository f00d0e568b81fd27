// Package recipeclient is a Go client for the recipe service REST API.
package recipeclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to one recipe service instance.
type Client struct {
	rc *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.rc.SetAuthToken(token) }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.rc.SetTimeout(d) }
}

// WithRetries retries transport failures and 5xx responses.
func WithRetries(n int) Option {
	return func(c *Client) {
		c.rc.SetRetryCount(n).
			SetRetryWaitTime(100 * time.Millisecond).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= 500
			})
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}
	c := &Client{rc: resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second).
		SetError(&APIError{})}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do sends req and maps non-2xx responses onto *APIError.
func do(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("recipe service request: %w", err)
	}
	if !resp.IsError() {
		return nil
	}
	apiErr, ok := resp.Error().(*APIError)
	if !ok || apiErr == nil {
		apiErr = &APIError{Kind: resp.Status(), Details: resp.String()}
	}
	apiErr.StatusCode = resp.StatusCode()
	return apiErr
}

func (c *Client) List(ctx context.Context, opts ListOptions) (*Page, error) {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("search", opts.Search)
	set("difficulty", opts.Difficulty)
	set("ingredient", opts.Ingredient)
	set("startingLetter", opts.StartingLetter)
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(opts.PageSize))
	}

	var out Page
	err := do(c.rc.R().SetContext(ctx).SetQueryParamsFromValues(q).SetResult(&out).Get("/recipes"))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Recipe, error) {
	var out Recipe
	err := do(c.rc.R().SetContext(ctx).SetPathParam("id", id).SetResult(&out).Get("/recipes/{id}"))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, r NewRecipe) (*Recipe, error) {
	var out Recipe
	err := do(c.rc.R().SetContext(ctx).SetBody(r).SetResult(&out).Post("/recipes"))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, u RecipeUpdate) (*Recipe, error) {
	var out Recipe
	err := do(c.rc.R().SetContext(ctx).SetPathParam("id", id).SetBody(u).SetResult(&out).Put("/recipes/{id}"))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return do(c.rc.R().SetContext(ctx).SetPathParam("id", id).Delete("/recipes/{id}"))
}

func (c *Client) ShoppingList(ctx context.Context, ids []string) (*ShoppingList, error) {
	var out ShoppingList
	body := map[string][]string{"recipeIds": ids}
	err := do(c.rc.R().SetContext(ctx).SetBody(body).SetResult(&out).Post("/shopping-list"))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := do(c.rc.R().SetContext(ctx).SetResult(&out).Get("/health")); err != nil {
		return nil, err
	}
	return &out, nil
}
