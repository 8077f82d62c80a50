package model

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
)

// Token is the OAuth2 token set kept in the session cookie. ExpiryDate is
// milliseconds since the Unix epoch, 0 when unknown.
type Token struct {
	AccessToken  string `json:"access_token" masq:"secret"`
	RefreshToken string `json:"refresh_token,omitempty" masq:"secret"`
	ExpiryDate   int64  `json:"expiry_date,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Scope        string `json:"scope,omitempty"`
	IDToken      string `json:"id_token,omitempty" masq:"secret"`
}

// NewToken converts an oauth2 token into the session representation.
func NewToken(t *oauth2.Token) *Token {
	token := &Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if !t.Expiry.IsZero() {
		token.ExpiryDate = t.Expiry.UnixMilli()
	}
	if scope, ok := t.Extra("scope").(string); ok {
		token.Scope = scope
	}
	if idToken, ok := t.Extra("id_token").(string); ok {
		token.IDToken = idToken
	}
	return token
}

// OAuth2 converts the session token back to an oauth2 token.
func (t *Token) OAuth2() *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if t.ExpiryDate > 0 {
		token.Expiry = time.UnixMilli(t.ExpiryDate)
	}
	return token
}

// Expired reports whether the expiry date has passed at now. A token without
// expiry date never expires from the session's point of view.
func (t *Token) Expired(now time.Time) bool {
	return t.ExpiryDate > 0 && now.UnixMilli() > t.ExpiryDate
}

// Encode serializes the token as an URL-escaped JSON cookie value.
func (t *Token) Encode() (string, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal token")
	}
	return url.QueryEscape(string(raw)), nil
}

// DecodeToken parses a cookie value produced by Token.Encode.
func DecodeToken(value string) (*Token, error) {
	raw, err := url.QueryUnescape(value)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unescape token cookie")
	}

	var token Token
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal token cookie")
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, goerr.New("token cookie has no credentials")
	}

	return &token, nil
}
