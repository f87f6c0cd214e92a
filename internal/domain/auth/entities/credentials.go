package entities

import (
	"encoding/json"
	"fmt"
)

// Credentials identify an account to log into
type Credentials struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Cookie    string `json:"cookie"`
	UserAgent string `json:"user_agent"`
	XBC       string `json:"x_bc"`
	AuthUID   string `json:"auth_uid"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Active    *bool  `json:"active,omitempty"`
}

// HasID reports whether the credentials already name a platform account id
func (c Credentials) HasID() bool {
	return c.ID > 0
}

// Enabled reports whether the account should be logged in; a missing flag means enabled
func (c Credentials) Enabled() bool {
	return c.Active == nil || *c.Active
}

// legacyKeys maps old auth document keys to their current names
var legacyKeys = map[string]string{
	"auth_id":   "id",
	"auth_uid_": "auth_uid",
}

// ParseCredentials decodes an auth document, upgrading legacy keys
func ParseCredentials(data []byte) (Credentials, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Credentials{}, fmt.Errorf("decode auth document: %w", err)
	}

	// some exports nest the document under "auth"
	if nested, ok := raw["auth"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(nested, &inner); err == nil {
			raw = inner
		}
	}

	for legacy, current := range legacyKeys {
		value, ok := raw[legacy]
		if !ok {
			continue
		}
		if _, exists := raw[current]; !exists {
			raw[current] = value
		}
		delete(raw, legacy)
	}

	// ids are exported both as numbers and as strings
	if id, ok := raw["id"]; ok && len(id) > 1 && id[0] == '"' {
		if unquoted := id[1 : len(id)-1]; len(unquoted) > 0 {
			raw["id"] = unquoted
		} else {
			delete(raw, "id")
		}
	}

	upgraded, err := json.Marshal(raw)
	if err != nil {
		return Credentials{}, fmt.Errorf("encode auth document: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(upgraded, &creds); err != nil {
		return Credentials{}, fmt.Errorf("decode credentials: %w", err)
	}
	return creds, nil
}

// ParseCredentialsList decodes a JSON array of auth documents
func ParseCredentialsList(data []byte) ([]Credentials, error) {
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode auth list: %w", err)
	}

	list := make([]Credentials, 0, len(docs))
	for i, doc := range docs {
		creds, err := ParseCredentials(doc)
		if err != nil {
			return nil, fmt.Errorf("auth document %d: %w", i, err)
		}
		list = append(list, creds)
	}
	return list, nil
}
