package automacorp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"automacorp-client/internal/domain/model"
	"automacorp-client/internal/ports"
)

// Client talks to the Automacorp room API. It implements ports.RoomService.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// Options carries the transport settings. InsecureHost, when it matches the
// BaseURL host, accepts that host's untrusted certificate; this is a
// development-deployment relaxation, off by default.
type Options struct {
	BaseURL      string // ends in /api
	Username     string
	Password     string
	Timeout      time.Duration
	InsecureHost string
}

func NewClient(opts Options, logger *zap.Logger) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	// No retries: the sync layer reports failures through state instead.
	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetBasicAuth(opts.Username, opts.Password).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if opts.InsecureHost != "" && hostOf(opts.BaseURL) == opts.InsecureHost {
		logger.Warn("accepting untrusted certificate", zap.String("host", opts.InsecureHost))
		httpClient.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	return &Client{http: httpClient, logger: logger}
}

func hostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func (c *Client) FindAll(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&rooms).
		Get("/rooms")
	if err := c.check(resp, err, "list rooms"); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *Client) FindByID(ctx context.Context, id int64) (*model.Room, error) {
	var room model.Room
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&room).
		Get(fmt.Sprintf("/rooms/%d", id))
	if err := c.check(resp, err, "get room"); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) Create(ctx context.Context, cmd model.RoomCommand) (*model.Room, error) {
	var room model.Room
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(cmd).
		SetResult(&room).
		Post("/rooms")
	if err := c.check(resp, err, "create room"); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) Update(ctx context.Context, id int64, cmd model.RoomCommand) (*model.Room, error) {
	var room model.Room
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(cmd).
		SetResult(&room).
		Put(fmt.Sprintf("/rooms/%d", id))
	if err := c.check(resp, err, "update room"); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/rooms/%d", id))
	return c.check(resp, err, "delete room")
}

func (c *Client) FindWindowsByRoomID(ctx context.Context, roomID int64) ([]model.Window, error) {
	var windows []model.Window
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&windows).
		Get(fmt.Sprintf("/rooms/%d/windows", roomID))
	if err := c.check(resp, err, "list windows"); err != nil {
		return nil, err
	}
	return windows, nil
}

func (c *Client) UpdateWindowStatus(ctx context.Context, windowID int64, cmd model.WindowCommand) (*model.Window, error) {
	var window model.Window
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(cmd).
		SetResult(&window).
		Put(fmt.Sprintf("/windows/%d", windowID))
	if err := c.check(resp, err, "update window"); err != nil {
		return nil, err
	}
	return &window, nil
}

// check maps a resty outcome onto the ports error kinds: no response at all
// is Unreachable, a 2xx with an undecodable body is Decode, 404 is NotFound
// and every other non-2xx is Rejected with the server's message.
func (c *Client) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		if resp == nil || resp.StatusCode() == 0 {
			c.logger.Error("request failed", zap.String("op", op), zap.Error(err))
			return ports.Unreachable(err)
		}
		c.logger.Error("cannot decode response", zap.String("op", op), zap.Error(err))
		return ports.Decode(err)
	}
	if resp.StatusCode() == 404 {
		c.logger.Debug("entity not found", zap.String("op", op))
		return ports.NotFound()
	}
	if !resp.IsSuccess() {
		message := strings.TrimSpace(string(resp.Body()))
		c.logger.Error("request rejected",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode()),
			zap.String("message", message),
		)
		return ports.Rejected(resp.StatusCode(), message)
	}
	return nil
}
