package client

// http_client.go = talks to the recipehub HTTP API on behalf of the CLI.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Page mirrors the paginated list envelope of the API.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type TagResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type IngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               int64                `json:"id"`
	Tags             []TagResponse        `json:"tags"`
	Author           UserResponse         `json:"author"`
	Ingredients      []IngredientResponse `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
}

type RecipeShortResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// RecipeToggleResponse is the answer to a favorite or shopping cart add.
type RecipeToggleResponse struct {
	RecipeShortResponse
	IsFavorited      bool `json:"is_favorited"`
	IsInShoppingCart bool `json:"is_in_shopping_cart"`
}

type AuthorResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// RecipeFilter holds the query parameters of the recipe list.
type RecipeFilter struct {
	Page             int
	Limit            int
	Author           string
	Tags             []string
	IsFavorited      bool
	IsInShoppingCart bool
}

func (f RecipeFilter) values() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Author != "" {
		q.Set("author", f.Author)
	}
	for _, t := range f.Tags {
		q.Add("tags", t)
	}
	if f.IsFavorited {
		q.Set("is_favorited", "1")
	}
	if f.IsInShoppingCart {
		q.Set("is_in_shopping_cart", "1")
	}
	return q
}

// APIError is a non-2xx answer of the API.
type APIError struct {
	StatusCode int
	Message    string            `json:"error"`
	Fields     map[string]string `json:"fields"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s (HTTP %d): %s", msg, e.StatusCode, strings.Join(parts, "; "))
}

// defines the HTTP client structure and methods
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// set token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) Me() (*UserResponse, error) {
	var result UserResponse
	if err := c.do(http.MethodGet, "/api/users/me", nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Recipes

func (c *HTTPClient) ListRecipes(filter RecipeFilter) (*Page[RecipeResponse], error) {
	path := "/api/recipes"
	if q := filter.values().Encode(); q != "" {
		path += "?" + q
	}
	var result Page[RecipeResponse]
	if err := c.do(http.MethodGet, path, nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetRecipe(id int64) (*RecipeResponse, error) {
	var result RecipeResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d", id), nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) AddFavorite(id int64) (*RecipeToggleResponse, error) {
	return c.addMembership(id, "favorite")
}

func (c *HTTPClient) RemoveFavorite(id int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/recipes/%d/favorite", id), nil, http.StatusNoContent, nil)
}

func (c *HTTPClient) AddToCart(id int64) (*RecipeToggleResponse, error) {
	return c.addMembership(id, "shopping_cart")
}

func (c *HTTPClient) RemoveFromCart(id int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/recipes/%d/shopping_cart", id), nil, http.StatusNoContent, nil)
}

func (c *HTTPClient) addMembership(id int64, relation string) (*RecipeToggleResponse, error) {
	var result RecipeToggleResponse
	if err := c.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/%s", id, relation), nil, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadShoppingList returns the rendered shopping list and the file name suggested by the server.
func (c *HTTPClient) DownloadShoppingList(format string) ([]byte, string, error) {
	path := "/api/recipes/download_shopping_cart"
	if format != "" {
		path += "?format=" + url.QueryEscape(format)
	}
	resp, err := c.send(http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", decodeError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	filename := "shopping_list.txt"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return data, filename, nil
}

// Subscriptions

func (c *HTTPClient) ListSubscriptions(page, recipesLimit int) (*Page[AuthorResponse], error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if recipesLimit > 0 {
		q.Set("recipes_limit", strconv.Itoa(recipesLimit))
	}
	path := "/api/users/subscriptions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var result Page[AuthorResponse]
	if err := c.do(http.MethodGet, path, nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Subscribe(authorID string, recipesLimit int) (*AuthorResponse, error) {
	path := "/api/users/" + url.PathEscape(authorID) + "/subscribe"
	if recipesLimit > 0 {
		path += "?recipes_limit=" + strconv.Itoa(recipesLimit)
	}
	var result AuthorResponse
	if err := c.do(http.MethodPost, path, nil, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Unsubscribe(authorID string) error {
	return c.do(http.MethodDelete, "/api/users/"+url.PathEscape(authorID)+"/subscribe", nil, http.StatusNoContent, nil)
}

// do sends the request and decodes a JSON answer into out when the status is want.
func (c *HTTPClient) do(method, path string, body any, want int, out any) error {
	resp, err := c.send(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) send(method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.httpClient.Do(req)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	// the body may be empty or not JSON; the status alone is still reported
	_ = json.NewDecoder(resp.Body).Decode(apiErr)
	apiErr.StatusCode = resp.StatusCode
	return apiErr
}
