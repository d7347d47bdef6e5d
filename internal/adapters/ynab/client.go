// Package ynab is a small client for the parts of the YNAB REST API the
// reconciler needs: resolving budgets and accounts by name, reading account
// balances and transactions, and creating or deleting transactions.
//
// Amounts cross this boundary as decimals. The milliunit wire format never
// leaks out of the package.
package ynab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
)

const (
	DefaultBaseURL         = "https://api.ynab.com/v1"
	DefaultTimeout         = 30 * time.Second
	DefaultRequestsPerHour = 200

	listingTTL = 5 * time.Minute
	dateLayout = "2006-01-02"
)

// Config holds client configuration
type Config struct {
	Token           string
	BaseURL         string
	Timeout         time.Duration
	RequestsPerHour int // <= 0 disables pacing
}

// Client talks to the YNAB API
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	listings   *cache.Cache
	logger     *slog.Logger
}

// NewClient creates a new YNAB client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = cfg.Timeout

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerHour > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Hour/time.Duration(cfg.RequestsPerHour)), cfg.RequestsPerHour)
	}

	return &Client{
		token:      cfg.Token,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		listings:   cache.New(listingTTL, 2*listingTTL),
		logger:     logger.With("system", "ynab"),
	}
}

// ListBudgets returns all budgets visible to the token
func (c *Client) ListBudgets(ctx context.Context) ([]Budget, error) {
	const key = "budgets"
	if cached, ok := c.listings.Get(key); ok {
		return cached.([]Budget), nil
	}

	var env budgetsEnvelope
	if err := c.do(ctx, http.MethodGet, "/budgets", nil, &env); err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	budgets := make([]Budget, 0, len(env.Data.Budgets))
	for _, b := range env.Data.Budgets {
		budgets = append(budgets, Budget{ID: b.ID, Name: b.Name})
	}
	c.listings.Set(key, budgets, cache.DefaultExpiration)
	return budgets, nil
}

// ListAccounts returns the non-deleted accounts of a budget, closed ones included
func (c *Client) ListAccounts(ctx context.Context, budgetID string) ([]Account, error) {
	key := "accounts:" + budgetID
	if cached, ok := c.listings.Get(key); ok {
		return cached.([]Account), nil
	}

	var env accountsEnvelope
	path := "/budgets/" + url.PathEscape(budgetID) + "/accounts"
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]Account, 0, len(env.Data.Accounts))
	for _, a := range env.Data.Accounts {
		if a.Deleted {
			continue
		}
		accounts = append(accounts, a.toAccount())
	}
	c.listings.Set(key, accounts, cache.DefaultExpiration)
	return accounts, nil
}

// FindBudgetID resolves a budget by display name, case-insensitively.
// The first budget with a matching name wins.
func (c *Client) FindBudgetID(ctx context.Context, name string) (string, error) {
	budgets, err := c.ListBudgets(ctx)
	if err != nil {
		return "", err
	}
	for _, b := range budgets {
		if strings.EqualFold(b.Name, name) {
			return b.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrBudgetNotFound, name)
}

// FindAccountID resolves an account within a budget by display name
func (c *Client) FindAccountID(ctx context.Context, budgetID, name string) (string, error) {
	accounts, err := c.ListAccounts(ctx, budgetID)
	if err != nil {
		return "", err
	}
	for _, a := range accounts {
		if strings.EqualFold(a.Name, name) {
			return a.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrAccountNotFound, name)
}

// GetAccount fetches current balances for one account. Never cached.
func (c *Client) GetAccount(ctx context.Context, budgetID, accountID string) (*Account, error) {
	var env accountEnvelope
	path := "/budgets/" + url.PathEscape(budgetID) + "/accounts/" + url.PathEscape(accountID)
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	account := env.Data.Account.toAccount()
	return &account, nil
}

// GetTransactions fetches an account's transactions, optionally only those
// on or after since. Deleted transactions are dropped.
func (c *Client) GetTransactions(ctx context.Context, budgetID, accountID string, since *time.Time) ([]transactions.LedgerTransaction, error) {
	path := "/budgets/" + url.PathEscape(budgetID) + "/accounts/" + url.PathEscape(accountID) + "/transactions"
	if since != nil {
		path += "?since_date=" + since.Format(dateLayout)
	}

	var env transactionsEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	txns := make([]transactions.LedgerTransaction, 0, len(env.Data.Transactions))
	for _, t := range env.Data.Transactions {
		if t.Deleted {
			continue
		}
		tx, err := t.toLedger()
		if err != nil {
			return nil, err
		}
		txns = append(txns, tx)
	}

	c.logger.Debug("fetched transactions",
		slog.String("account_id", accountID),
		slog.Int("count", len(txns)))
	return txns, nil
}

// CreateTransaction creates one transaction and returns its ID
func (c *Client) CreateTransaction(ctx context.Context, budgetID string, tx NewTransaction) (string, error) {
	body := saveTransactionRequest{
		Transaction: saveTransactionDTO{
			AccountID: tx.AccountID,
			Date:      tx.Date.Format(dateLayout),
			Amount:    ToMilliunits(tx.Amount),
			PayeeName: tx.PayeeName,
			Memo:      tx.Memo,
			Cleared:   tx.Cleared,
			Approved:  tx.Approved,
		},
	}

	var env saveTransactionEnvelope
	path := "/budgets/" + url.PathEscape(budgetID) + "/transactions"
	if err := c.do(ctx, http.MethodPost, path, body, &env); err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	if env.Data.Transaction.ID != "" {
		return env.Data.Transaction.ID, nil
	}
	if len(env.Data.TransactionIDs) > 0 {
		return env.Data.TransactionIDs[0], nil
	}
	return "", nil
}

// DeleteTransaction deletes one transaction by ID
func (c *Client) DeleteTransaction(ctx context.Context, budgetID, transactionID string) error {
	path := "/budgets/" + url.PathEscape(budgetID) + "/transactions/" + url.PathEscape(transactionID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	return nil
}

// do performs one request. Any non-2xx status becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env errorEnvelope
		if err := json.Unmarshal(body, &env); err == nil {
			apiErr.ID = env.Error.ID
			apiErr.Name = env.Error.Name
			apiErr.Detail = env.Error.Detail
		}
		return apiErr
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (t transactionDTO) toLedger() (transactions.LedgerTransaction, error) {
	date, err := time.Parse(dateLayout, t.Date)
	if err != nil {
		return transactions.LedgerTransaction{}, fmt.Errorf("transaction %s has invalid date %q: %w", t.ID, t.Date, err)
	}

	tx := transactions.LedgerTransaction{
		ID:      t.ID,
		Date:    date,
		Amount:  FromMilliunits(t.Amount),
		Cleared: transactions.ParseClearingStatus(t.Cleared),
	}
	if t.PayeeName != nil {
		tx.Payee = *t.PayeeName
	}
	if t.Memo != nil {
		tx.Memo = *t.Memo
	}
	return tx, nil
}
