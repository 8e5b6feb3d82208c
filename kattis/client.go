package kattis

import (
	"bytes"
	"context"
	"net/http/cookiejar"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"

	"github.com/RussellDash332/autokattis/lib/configutil"
	"github.com/RussellDash332/autokattis/lib/retry"
	"github.com/RussellDash332/autokattis/lib/telemetry"
)

var tracer = otel.Tracer("autokattis.kattis")

const defaultWorkers = 6

// Options configures a session against one site origin.
type Options struct {
	// BaseURL is the endpoint root, e.g. https://open.kattis.com; an
	// institutional variant rebinds it.
	BaseURL  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Workers is the concurrent page-fetch batch size (default 6).
	Workers int `json:"workers"`
	// Retry bounds transport-failure retries (default retry.DefaultPolicy).
	Retry retry.Policy `json:"retry"`
	// SkipDatabase leaves the id database empty; capabilities that resolve
	// languages or countries will then reject every lookup.
	SkipDatabase bool `json:"skip_database"`
}

// ReadOptions loads session options from a kattis.json5 found in the working
// directory or any directory above it, merging a .local override when one
// sits next to it.
func ReadOptions() (Options, error) {
	return configutil.ReadRecursively[Options]("kattis.json5")
}

// Client owns an authenticated session: cookies, the canonical username, the
// retained landing page and the id database. The auth state is read-only
// after New returns, so concurrent page fetches need no locking.
type Client struct {
	BaseURL  *url.URL
	Http     *resty.Client
	Username string

	db       *Database
	homepage *goquery.Document
	workers  int
	retry    retry.Policy
	cache    callCache
}

// New logs in, derives the canonical username, retains the landing page and
// builds the id database. Every failure before that point is fatal.
func New(ctx context.Context, opts Options) (*Client, error) {
	ctx, span := tracer.Start(ctx, "client:New")
	defer span.End()

	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	httpc := resty.New()
	httpc.SetBaseURL(opts.BaseURL)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpc.SetCookieJar(jar)
	httpc.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpc.GetClient().Transport)
	httpc.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	httpc.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseURL.Hostname()))
	httpc.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(httpc, "kattis/http")

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	policy := opts.Retry
	if policy.MaxAttempts == 0 {
		policy = retry.DefaultPolicy()
	}

	c := &Client{
		BaseURL: baseURL,
		Http:    httpc,
		workers: workers,
		retry:   policy,
		cache:   newCallCache(),
	}

	username, homepage, err := c.login(ctx, opts.Username, opts.Password)
	if err != nil {
		return nil, err
	}
	c.Username = username
	c.homepage = homepage

	if opts.SkipDatabase {
		c.db = emptyDatabase()
		return c, nil
	}
	c.db, err = buildDatabase(ctx, c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Homepage returns the landing page retained at login time; endpoints that
// embed "near me" data read it instead of re-fetching.
func (c *Client) Homepage() *goquery.Document {
	return c.homepage
}

// DB returns the session's immutable id database.
func (c *Client) DB() *Database {
	return c.db
}

// Workers returns the concurrent page-fetch batch size.
func (c *Client) Workers() int {
	return c.workers
}

// Abs resolves a (possibly relative) href against the endpoint root.
func (c *Client) Abs(href string) string {
	u, err := c.BaseURL.Parse(href)
	if err != nil {
		return href
	}
	return u.String()
}

// Doc fetches a page and parses it, retrying transport failures within the
// client's retry budget. The parsed document may be empty (missing tables
// read as zero rows); only an exhausted retry budget or ctx cancellation
// surfaces an error.
func (c *Client) Doc(ctx context.Context, path string, params url.Values) (*goquery.Document, error) {
	var body []byte
	err := retry.Do(ctx, c.retry, func() error {
		req := c.Http.R().SetContext(ctx)
		if params != nil {
			req.SetQueryParamsFromValues(params)
		}
		res, err := req.Get(path)
		if err != nil {
			return err
		}
		body = res.Body()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// Raw fetches a URL and returns the response body, with HTTP status attached.
func (c *Client) Raw(ctx context.Context, href string) ([]byte, int, error) {
	var body []byte
	var status int
	err := retry.Do(ctx, c.retry, func() error {
		res, err := c.Http.R().SetContext(ctx).Get(href)
		if err != nil {
			return err
		}
		body = res.Body()
		status = res.StatusCode()
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return body, status, nil
}
