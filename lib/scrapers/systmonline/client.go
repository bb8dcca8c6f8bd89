package systmonline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"systmonline-cli/lib/restyutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/systmonline")

// LoginError carries the portal's own rejection message, scraped from
// the error element on the login response.
type LoginError struct {
	Message string
}

func (e *LoginError) Error() string {
	return e.Message
}

// ErrStatusUnknown reports a login response that carried neither the
// error element nor the authenticated landing page. The portal signals
// success through page location rather than status codes, so anything
// else is ambiguous.
var ErrStatusUnknown = errors.New("login status unknown, check the response")

// Client owns one authenticated session against the portal. Every
// operation replaces `page` with the response it retrieved; hidden form
// state is always extracted from `page`, never from anything older.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	page *goquery.Document
}

type ClientOptions struct {
	BaseUrl string
	// Output may be nil, exchange dumps are then skipped.
	Output restyutil.InstrumentOutput
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	restyutil.InstrumentClient(client, "scrapers/systmonline/http", opts.Output)

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}
	return c, nil
}

// Login authenticates the session. The sentinel cookie is how the
// portal verifies cookie support before it allows a login at all.
// Outcomes are three-way: the portal's own error message, success, or
// ErrStatusUnknown when the response matched neither signal.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	if username == "" || password == "" {
		err := fmt.Errorf("username and password are both required")
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetCookie(&http.Cookie{Name: "CookieTest", Value: "CookieTest"}).
		SetFormData(map[string]string{
			"Username": username,
			"Password": password,
			"Login":    "",
		}).
		Post("/2/Login")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse login response html")
		return err
	}
	c.page = doc

	return classifyLogin(doc, finalUrl(res))
}

// the error element wins over the final location: the portal sometimes
// renders errors on pages whose url looks authenticated
func classifyLogin(doc *goquery.Document, location string) error {
	errorText := doc.Find("span#errorText")
	if errorText.Length() > 0 {
		return &LoginError{Message: strings.TrimSpace(errorText.Text())}
	}
	if strings.Contains(location, "MainMenu") {
		return nil
	}
	return ErrStatusUnknown
}

// finalUrl is the url of the page the client ended up on after
// redirects, which is how the portal signals a successful login.
func finalUrl(res *resty.Response) string {
	raw := res.RawResponse
	if raw != nil && raw.Request != nil && raw.Request.URL != nil {
		return raw.Request.URL.String()
	}
	return res.Request.URL
}
