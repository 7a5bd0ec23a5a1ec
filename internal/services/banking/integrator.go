// Package banking is the simulated bank-connector layer. It mimics the
// integration surface of the major Indian banks — authentication, realtime
// transaction feeds, account lookups, alert registration — without any real
// network I/O, so investigators can exercise the full workflow against
// generated data.
package banking

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"finsentry/internal/models"
	"finsentry/internal/synthetic"
)

// AuthMethod is how a bank authenticates API clients.
type AuthMethod string

const (
	AuthOAuth       AuthMethod = "oauth2"
	AuthAPIKey      AuthMethod = "api_key"
	AuthCertificate AuthMethod = "certificate"
)

// Connection describes one bank integration.
type Connection struct {
	Code               string     `json:"code"`
	Name               string     `json:"name"`
	AuthMethod         AuthMethod `json:"auth_method"`
	RateLimit          int        `json:"rate_limit"` // requests per minute
	SupportedEndpoints []string   `json:"endpoints"`
}

// AuthResult is a simulated authentication outcome.
type AuthResult struct {
	Authenticated bool       `json:"authenticated"`
	Token         string     `json:"token,omitempty"`
	ExpiresAt     time.Time  `json:"expires_at,omitempty"`
	Method        AuthMethod `json:"method"`
}

// AccountDetails is a simulated account lookup.
type AccountDetails struct {
	BankCode      string    `json:"bank_code"`
	AccountNumber string    `json:"account_number"`
	HolderName    string    `json:"holder_name"`
	AccountType   string    `json:"account_type"`
	Balance       float64   `json:"balance"`
	OpenedAt      time.Time `json:"opened_at"`
	KYCVerified   bool      `json:"kyc_verified"`
}

// AlertRule registers a fraud alert with a bank.
type AlertRule struct {
	Name      string  `json:"name"`
	MinAmount float64 `json:"min_amount"`
	Location  string  `json:"location,omitempty"`
}

// Integrator holds the bank registry and per-bank alert rules.
type Integrator struct {
	mu          sync.RWMutex
	connections map[string]Connection
	alertRules  map[string][]AlertRule
}

// NewIntegrator builds the fixed registry of supported banks.
func NewIntegrator() *Integrator {
	i := &Integrator{
		connections: make(map[string]Connection),
		alertRules:  make(map[string][]AlertRule),
	}
	standard := []string{"transactions", "accounts", "alerts"}
	for _, c := range []Connection{
		{Code: "SBI", Name: "State Bank of India", AuthMethod: AuthOAuth, RateLimit: 1000, SupportedEndpoints: standard},
		{Code: "HDFC", Name: "HDFC Bank", AuthMethod: AuthAPIKey, RateLimit: 800, SupportedEndpoints: standard},
		{Code: "ICICI", Name: "ICICI Bank", AuthMethod: AuthOAuth, RateLimit: 1200, SupportedEndpoints: standard},
		{Code: "AXIS", Name: "Axis Bank", AuthMethod: AuthAPIKey, RateLimit: 600, SupportedEndpoints: standard},
		{Code: "PNB", Name: "Punjab National Bank", AuthMethod: AuthCertificate, RateLimit: 500, SupportedEndpoints: standard},
	} {
		i.connections[c.Code] = c
	}
	return i
}

// Connections returns the bank registry.
func (i *Integrator) Connections() map[string]Connection {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make(map[string]Connection, len(i.connections))
	for k, v := range i.connections {
		out[k] = v
	}
	return out
}

func (i *Integrator) connection(code string) (Connection, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	c, ok := i.connections[code]
	if !ok {
		return Connection{}, fmt.Errorf("unknown bank code %q", code)
	}
	return c, nil
}

// Authenticate simulates the bank's auth handshake and returns a session
// token.
func (i *Integrator) Authenticate(ctx context.Context, code string) (AuthResult, error) {
	c, err := i.connection(code)
	if err != nil {
		return AuthResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return AuthResult{}, err
	}

	ttl := time.Hour
	if c.AuthMethod == AuthCertificate {
		ttl = 12 * time.Hour
	}
	return AuthResult{
		Authenticated: true,
		Token:         uuid.NewString(),
		ExpiresAt:     time.Now().Add(ttl),
		Method:        c.AuthMethod,
	}, nil
}

// RealtimeTransactions returns a simulated feed of recent transactions for
// one bank, optionally filtered by a minimum amount.
func (i *Integrator) RealtimeTransactions(ctx context.Context, code string, since time.Time, minAmount float64) ([]models.Transaction, error) {
	c, err := i.connection(code)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Deterministic per bank and window so repeated polls within the
	// same hour agree.
	seed := int64(stableSeed(c.Code)) + since.Truncate(time.Hour).Unix()
	batch := synthetic.Generate(synthetic.Options{
		Count:         40 + c.RateLimit/50,
		Seed:          seed,
		Customers:     25,
		Start:         since,
		SpanDays:      1,
		HighRiskShare: 0.05,
	})

	out := batch[:0]
	for _, tx := range batch {
		if tx.Amount >= minAmount && !tx.Timestamp.Before(since) {
			tx.TransactionID = c.Code + "_" + tx.TransactionID
			out = append(out, tx)
		}
	}
	log.Printf("banking: %s feed returned %d transactions since %s", c.Code, len(out), since.Format(time.RFC3339))
	return out, nil
}

// Account simulates an account-detail lookup during an investigation.
func (i *Integrator) Account(ctx context.Context, code, accountNumber string) (AccountDetails, error) {
	c, err := i.connection(code)
	if err != nil {
		return AccountDetails{}, err
	}
	if err := ctx.Err(); err != nil {
		return AccountDetails{}, err
	}

	seed := stableSeed(c.Code + accountNumber)
	return AccountDetails{
		BankCode:      c.Code,
		AccountNumber: accountNumber,
		HolderName:    fmt.Sprintf("Account Holder %04d", seed%10000),
		AccountType:   []string{"savings", "current", "salary"}[seed%3],
		Balance:       float64(seed%5000000) / 100,
		OpenedAt:      time.Date(2015+int(seed%9), time.Month(seed%12+1), int(seed%28)+1, 0, 0, 0, 0, time.UTC),
		KYCVerified:   seed%7 != 0,
	}, nil
}

// RegisterAlertRules stores fraud alert rules for one bank.
func (i *Integrator) RegisterAlertRules(code string, rules []AlertRule) error {
	if _, err := i.connection(code); err != nil {
		return err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.alertRules[code] = append(i.alertRules[code], rules...)
	return nil
}

// AlertRules returns the rules registered for one bank.
func (i *Integrator) AlertRules(code string) []AlertRule {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]AlertRule(nil), i.alertRules[code]...)
}

func stableSeed(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
