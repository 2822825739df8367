package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Account describes one Google account the server may act on behalf of.
// The email doubles as the user_id argument of every tool.
type Account struct {
	Email       string `json:"email"`
	AccountType string `json:"account_type"`
	ExtraInfo   string `json:"extra_info"`
}

// Describe returns a short human-readable label for the account, used in
// tool argument descriptions so the host model knows which user_id values
// are valid.
func (a Account) Describe() string {
	parts := []string{a.Email}
	var extra []string
	if a.AccountType != "" {
		extra = append(extra, a.AccountType)
	}
	if a.ExtraInfo != "" {
		extra = append(extra, a.ExtraInfo)
	}
	if len(extra) > 0 {
		parts = append(parts, "("+strings.Join(extra, ", ")+")")
	}
	return strings.Join(parts, " ")
}

// Registry holds the set of configured accounts.
type Registry struct {
	Accounts []Account `json:"accounts"`
}

// LoadRegistry reads the account registry from the given path.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts file %s: %w", path, err)
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse accounts file %s: %w", path, err)
	}

	for i, a := range reg.Accounts {
		if a.Email == "" {
			return nil, fmt.Errorf("accounts file %s: account %d has no email", path, i)
		}
	}

	return &reg, nil
}

// Lookup returns the account with the given email, or nil if it is not
// configured.
func (r *Registry) Lookup(email string) *Account {
	for i := range r.Accounts {
		if strings.EqualFold(r.Accounts[i].Email, email) {
			return &r.Accounts[i]
		}
	}
	return nil
}

// Emails returns the configured account emails in registry order.
func (r *Registry) Emails() []string {
	emails := make([]string, 0, len(r.Accounts))
	for _, a := range r.Accounts {
		emails = append(emails, a.Email)
	}
	return emails
}

// DescribeAll returns the labels of all configured accounts, suitable for
// embedding in a tool argument description.
func (r *Registry) DescribeAll() string {
	if len(r.Accounts) == 0 {
		return "no accounts configured"
	}
	labels := make([]string, 0, len(r.Accounts))
	for _, a := range r.Accounts {
		labels = append(labels, a.Describe())
	}
	return strings.Join(labels, "; ")
}
