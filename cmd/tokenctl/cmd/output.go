package cmd

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"go.pilab.hu/tokenstore/domain"
)

type accessTokenView struct {
	Value        string     `yaml:"value"`
	TokenType    string     `yaml:"token_type,omitempty"`
	Expiration   *time.Time `yaml:"expiration,omitempty"`
	Expired      bool       `yaml:"expired"`
	Scope        []string   `yaml:"scope,omitempty"`
	RefreshToken string     `yaml:"refresh_token,omitempty"`
}

type refreshTokenView struct {
	Value      string     `yaml:"value"`
	Expiration *time.Time `yaml:"expiration,omitempty"`
	Expired    bool       `yaml:"expired"`
}

type authenticationView struct {
	ClientID    string   `yaml:"client_id"`
	Username    string   `yaml:"username,omitempty"`
	ClientOnly  bool     `yaml:"client_only"`
	Scope       []string `yaml:"scope,omitempty"`
	GrantType   string   `yaml:"grant_type,omitempty"`
	Authorities []string `yaml:"authorities,omitempty"`
}

func expiration(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func newAccessTokenView(t *domain.AccessToken, now time.Time) accessTokenView {
	return accessTokenView{
		Value:        t.Value,
		TokenType:    t.TokenType,
		Expiration:   expiration(t.Expiration),
		Expired:      t.IsExpired(now),
		Scope:        t.Scope,
		RefreshToken: t.RefreshTokenValue(),
	}
}

func newRefreshTokenView(t *domain.RefreshToken, now time.Time) refreshTokenView {
	return refreshTokenView{
		Value:      t.Value,
		Expiration: expiration(t.Expiration),
		Expired:    t.IsExpired(now),
	}
}

func newAuthenticationView(a *domain.Authentication) authenticationView {
	v := authenticationView{
		ClientID:   a.ClientID(),
		Username:   a.Username(),
		ClientOnly: a.IsClientOnly(),
		Scope:      a.Request.Scope,
		GrantType:  a.Request.GrantType,
	}
	if a.User != nil {
		v.Authorities = a.User.Authorities
	}
	return v
}

func printYAML(out io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	_, err = out.Write(data)
	return err
}
