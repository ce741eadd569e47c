package reststore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/idilsaglam/phonebook/internal/model"
)

// REST client for a person collection. Thin by design: no retries, no
// caching; every failure propagates to the caller unchanged.

// DefaultTimeout bounds each request to the store.
const DefaultTimeout = 10 * time.Second

// Client talks to a person collection at a fixed base URL,
// e.g. "http://localhost:3001/api/persons".
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// errorBody is the structured failure payload the store sends on 4xx.
type errorBody struct {
	Error string `json:"error"`
}

// ListAll fetches every person in the collection.
func (c *Client) ListAll(ctx context.Context) ([]model.Person, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, &TransportError{Op: "list", Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "list", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: "list", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	var persons []model.Person
	if err := json.NewDecoder(resp.Body).Decode(&persons); err != nil {
		return nil, &TransportError{Op: "list", Err: err}
	}
	return persons, nil
}

// Create posts a draft; the store assigns the id. A rejected input comes
// back as a ValidationError carrying the server's message.
func (c *Client) Create(ctx context.Context, d model.Draft) (model.Person, error) {
	body, err := json.Marshal(d)
	if err != nil {
		return model.Person{}, &TransportError{Op: "create", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return model.Person{}, &TransportError{Op: "create", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Person{}, &TransportError{Op: "create", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var created model.Person
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			return model.Person{}, &TransportError{Op: "create", Err: err}
		}
		return created, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err != nil || eb.Error == "" {
			eb.Error = fmt.Sprintf("create rejected with status %d", resp.StatusCode)
		}
		return model.Person{}, &ValidationError{Message: eb.Error}
	default:
		return model.Person{}, &TransportError{Op: "create", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
}

// Replace PUTs a full person under its id and returns the raw status for
// the caller to inspect. A 404 arrives as a normal response here, not as
// an error; only network-level failure sets err.
func (c *Client) Replace(ctx context.Context, id string, p model.Person) (int, model.Person, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return 0, model.Person{}, &TransportError{Op: "replace", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/"+id, bytes.NewReader(body))
	if err != nil {
		return 0, model.Person{}, &TransportError{Op: "replace", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, model.Person{}, &TransportError{Op: "replace", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var updated model.Person
		if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
			return resp.StatusCode, model.Person{}, &TransportError{Op: "replace", Err: err}
		}
		return resp.StatusCode, updated, nil
	}
	return resp.StatusCode, model.Person{}, nil
}

// Delete removes the person with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/"+id, nil)
	if err != nil {
		return &TransportError{Op: "delete", Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "delete", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return &NotFoundError{ID: id}
	default:
		return &TransportError{Op: "delete", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
}
