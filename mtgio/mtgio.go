package mtgio

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// Operation labels used for metrics.
const (
	OperationCardByID    = "card_by_id"
	OperationCardsByName = "cards_by_name"
	OperationCardsByPage = "cards_by_page"
)

// Outcome labels used for metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics counts API requests by operation and outcome. The metrics package
// provides a Prometheus implementation.
type Metrics interface {
	IncAPIRequests(operation, outcome string)
}

type nopMetrics struct{}

func (nopMetrics) IncAPIRequests(operation, outcome string) {}

// MTGClient is the typed client for the card catalog. It fetches through the
// low-level Client, deserializes JSON bodies and converts the empty-result
// body into not-found errors.
type MTGClient struct {
	client  *Client
	logger  log.Logger
	metrics Metrics
}

// MTGClientOption passed to NewMTGClient to change the default instance.
type MTGClientOption func(c *MTGClient)

// NewMTGClient creates a typed card catalog client.
func NewMTGClient(opts ...MTGClientOption) *MTGClient {
	c := &MTGClient{
		client:  NewClient(),
		logger:  log.NewNopLogger(),
		metrics: nopMetrics{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithClient sets the low-level client, e.g. one with a custom endpoint.
func WithClient(client *Client) MTGClientOption {
	return func(c *MTGClient) {
		c.client = client
	}
}

// WithLogger sets the logger for the MTGClient as an option.
func WithLogger(l log.Logger) MTGClientOption {
	return func(c *MTGClient) {
		c.logger = l
	}
}

// WithMetrics sets the metrics backend for the MTGClient as an option.
func WithMetrics(m Metrics) MTGClientOption {
	return func(c *MTGClient) {
		c.metrics = m
	}
}

// CardByID fetches a single card by its numerical id. The empty-result body
// yields ErrNoCardFound.
func (c *MTGClient) CardByID(ctx context.Context, id string) (SingleCard, error) {
	level.Debug(c.logger).Log("msg", "fetching card", "id", id)

	resp, err := c.client.GetCardByID(ctx, id)
	if err != nil {
		c.metrics.IncAPIRequests(OperationCardByID, OutcomeError)
		return SingleCard{}, fmt.Errorf("api: %w", err)
	}

	body, err := c.readBody(resp)
	if err != nil {
		c.metrics.IncAPIRequests(OperationCardByID, OutcomeError)
		return SingleCard{}, err
	}

	if string(body) == EmptyBody {
		c.metrics.IncAPIRequests(OperationCardByID, OutcomeNotFound)
		return SingleCard{}, ErrNoCardFound
	}

	result, err := ParseSingleCard(body)
	if err != nil {
		c.metrics.IncAPIRequests(OperationCardByID, OutcomeError)
		return SingleCard{}, err
	}

	c.metrics.IncAPIRequests(OperationCardByID, OutcomeSuccess)
	return result, nil
}

// CardsByName fetches cards matching an exact name. Zero matches yield a
// NoSuchNameError carrying the name searched for.
func (c *MTGClient) CardsByName(ctx context.Context, name string) (CardList, error) {
	level.Debug(c.logger).Log("msg", "searching cards", "name", name)

	resp, err := c.client.GetCardsByName(ctx, name)
	if err != nil {
		c.metrics.IncAPIRequests(OperationCardsByName, OutcomeError)
		return CardList{}, fmt.Errorf("api: %w", err)
	}

	body, err := c.readBody(resp)
	if err != nil {
		c.metrics.IncAPIRequests(OperationCardsByName, OutcomeError)
		return CardList{}, err
	}

	if string(body) == EmptyBody {
		c.metrics.IncAPIRequests(OperationCardsByName, OutcomeNotFound)
		return CardList{}, &NoSuchNameError{Name: name}
	}

	result, err := ParseCardList(body)
	if err != nil {
		c.metrics.IncAPIRequests(OperationCardsByName, OutcomeError)
		return CardList{}, err
	}

	c.metrics.IncAPIRequests(OperationCardsByName, OutcomeSuccess)
	return result, nil
}

// CardsByPage fetches one page of the card listing.
func (c *MTGClient) CardsByPage(ctx context.Context, page uint64) (CardList, error) {
	list, _, err := c.CardsByPageWithHeader(ctx, page)
	return list, err
}

// CardsByPageWithHeader fetches one page of the card listing together with
// the pagination and rate-limit header snapshot.
func (c *MTGClient) CardsByPageWithHeader(ctx context.Context, page uint64) (CardList, PageHeader, error) {
	level.Debug(c.logger).Log("msg", "fetching card page", "page", page)

	resp, err := c.client.GetCardsByPage(ctx, fmt.Sprintf("%d", page))
	if err != nil {
		c.metrics.IncAPIRequests(OperationCardsByPage, OutcomeError)
		return CardList{}, PageHeader{}, fmt.Errorf("api: %w", err)
	}

	header, err := PageHeaderFrom(resp)
	if err != nil {
		c.metrics.IncAPIRequests(OperationCardsByPage, OutcomeError)
		return CardList{}, PageHeader{}, err
	}

	body, err := c.readBody(resp)
	if err != nil {
		c.metrics.IncAPIRequests(OperationCardsByPage, OutcomeError)
		return CardList{}, PageHeader{}, err
	}

	if string(body) == EmptyBody {
		c.metrics.IncAPIRequests(OperationCardsByPage, OutcomeNotFound)
		return CardList{}, PageHeader{}, ErrNoCardFound
	}

	result, err := ParseCardList(body)
	if err != nil {
		c.metrics.IncAPIRequests(OperationCardsByPage, OutcomeError)
		return CardList{}, PageHeader{}, err
	}

	c.metrics.IncAPIRequests(OperationCardsByPage, OutcomeSuccess)
	return result, header, nil
}

func (c *MTGClient) readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("failed to read response body: %v", err)}
	}
	return body, nil
}
