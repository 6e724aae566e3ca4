package domain

// OAuth2Request is the client side of an authentication: the authorization
// request as approved.
type OAuth2Request struct {
	ClientID          string            `json:"client_id"                    bson:"client_id"`
	Scope             []string          `json:"scope,omitempty"              bson:"scope,omitempty"`
	ResourceIDs       []string          `json:"resource_ids,omitempty"       bson:"resource_ids,omitempty"`
	GrantType         string            `json:"grant_type,omitempty"         bson:"grant_type,omitempty"`
	RedirectURI       string            `json:"redirect_uri,omitempty"       bson:"redirect_uri,omitempty"`
	Approved          bool              `json:"approved"                     bson:"approved"`
	Authorities       []string          `json:"authorities,omitempty"        bson:"authorities,omitempty"`
	RequestParameters map[string]string `json:"request_parameters,omitempty" bson:"request_parameters,omitempty"`
}

// UserAuthentication is the end-user principal of an authentication.
type UserAuthentication struct {
	Name          string            `json:"name"                  bson:"name"`
	Authorities   []string          `json:"authorities,omitempty" bson:"authorities,omitempty"`
	Details       map[string]string `json:"details,omitempty"     bson:"details,omitempty"`
	Authenticated bool              `json:"authenticated"         bson:"authenticated"`
}

// Authentication is the authorization context a token was issued for.
// User is nil for client-only grants such as client_credentials.
type Authentication struct {
	Request OAuth2Request       `json:"request"        bson:"request"`
	User    *UserAuthentication `json:"user,omitempty" bson:"user,omitempty"`
}

// IsClientOnly reports whether there is no end-user principal.
func (a *Authentication) IsClientOnly() bool {
	return a.User == nil
}

// ClientID returns the OAuth client identifier.
func (a *Authentication) ClientID() string {
	return a.Request.ClientID
}

// Name returns the user name, or the client id for client-only grants.
func (a *Authentication) Name() string {
	if a.IsClientOnly() {
		return a.Request.ClientID
	}
	return a.User.Name
}

// Username returns the user name, or "" for client-only grants.
func (a *Authentication) Username() string {
	if a.IsClientOnly() {
		return ""
	}
	return a.User.Name
}
