package tokenstore

import (
	"context"
	"crypto"
	"fmt"
	"maps"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"go.pilab.hu/tokenstore/codec"
	"go.pilab.hu/tokenstore/domain"
	serrors "go.pilab.hu/tokenstore/errors"
	"go.pilab.hu/tokenstore/internal/metrics"
	"go.pilab.hu/tokenstore/log"
)

const tracerName = "go.pilab.hu/tokenstore"

// Token kinds, as used in log fields and metric labels.
const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// Store implements TokenStore on top of an access and a refresh token
// repository.
//
// Token values are never persisted as keys: records are addressed by the
// TokenHasher key of the value. Access tokens are also indexed by the
// fingerprint of their authentication, so GetAccessToken can hand out the
// token already issued for an equivalent authentication.
//
// StoreAccessToken deletes the previous record before saving the new one.
// Each repository call is its own transaction, so concurrent readers can
// observe a miss in between.
type Store struct {
	access  AccessTokenRepository
	refresh RefreshTokenRepository

	keyGen  AuthenticationKeyGenerator
	hasher  TokenHasher
	codec   codec.Codec
	logger  log.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

var _ TokenStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithAuthenticationKeyGenerator replaces the default fingerprint function.
func WithAuthenticationKeyGenerator(g AuthenticationKeyGenerator) Option {
	return func(s *Store) {
		if g != nil {
			s.keyGen = g
		}
	}
}

// WithTokenHasher sets how token values are turned into record ids.
func WithTokenHasher(h TokenHasher) Option {
	return func(s *Store) { s.hasher = h }
}

// WithCodec sets the codec for the token and authentication blobs.
func WithCodec(c codec.Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics registers the store counters with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Store) { s.metrics = metrics.New(reg) }
}

// WithTracerProvider sets the provider spans are created from. The default
// is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Store) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// New creates a Store. Without options it uses the default authentication
// key generator, SHA-256 token keys and the JSON codec.
func New(access AccessTokenRepository, refresh RefreshTokenRepository, opts ...Option) *Store {
	s := &Store{
		access:  access,
		refresh: refresh,
		keyGen:  DefaultAuthenticationKeyGenerator{},
		hasher:  MustTokenHasher(crypto.SHA256),
		codec:   codec.JSON,
		logger:  log.NewNopLogger(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Access Token Operations

// GetAccessToken returns the token stored under the fingerprint of auth.
//
// When the authentication stored with the token no longer yields the same
// fingerprint, the record is moved: it is deleted and the token is stored
// again under auth. The token is returned in both cases.
func (s *Store) GetAccessToken(ctx context.Context, auth *domain.Authentication) (*domain.AccessToken, bool) {
	const op = "GetAccessToken"
	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	if auth == nil {
		return nil, false
	}

	key := s.keyGen.ExtractKey(auth)
	fields := map[string]interface{}{"authentication_id": key, "client_id": auth.ClientID()}
	span.SetAttributes(attribute.String("tokenstore.client_id", auth.ClientID()))

	rec, err := s.access.FindByAuthenticationID(ctx, key)
	if err != nil {
		s.lookupFailed(ctx, span, op, err, fields)
		return nil, false
	}

	token, err := s.decodeAccessToken(rec)
	if err != nil {
		s.healAccess(ctx, op, rec.TokenID, err)
		return nil, false
	}

	if storedKey, ok := s.storedFingerprint(rec); !ok || storedKey != key {
		s.metrics.Reconciled()
		span.AddEvent("reconcile")
		s.logger.Info(ctx, "Access token authentication changed, storing it again", with(fields, map[string]interface{}{
			"token_id":                 rec.TokenID,
			"stored_authentication_id": storedKey,
		}))

		if _, err := s.access.DeleteByTokenID(ctx, rec.TokenID); err != nil {
			s.storageFailed(ctx, span, op, err, fields)
		}
		// failures are logged by StoreAccessToken; the token is still valid
		_ = s.StoreAccessToken(ctx, token, auth)
	}

	return token, true
}

// StoreAccessToken stores token for auth. A record with the same token
// value is removed first.
func (s *Store) StoreAccessToken(ctx context.Context, token *domain.AccessToken, auth *domain.Authentication) error {
	const op = "StoreAccessToken"
	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	if token == nil || token.Value == "" {
		failSpan(span, ErrTokenRequired)
		return ErrTokenRequired
	}
	if auth == nil {
		failSpan(span, ErrAuthenticationRequired)
		return ErrAuthenticationRequired
	}
	if auth.ClientID() == "" {
		failSpan(span, ErrClientIDRequired)
		return ErrClientIDRequired
	}

	tokenBlob, err := s.codec.Marshal(token)
	if err != nil {
		failSpan(span, err)
		return fmt.Errorf("encode access token: %w", err)
	}
	authBlob, err := s.codec.Marshal(auth)
	if err != nil {
		failSpan(span, err)
		return fmt.Errorf("encode authentication: %w", err)
	}

	rec := &domain.AccessTokenRecord{
		TokenRecord: domain.TokenRecord{
			TokenID:        s.hasher.Key(token.Value),
			Token:          tokenBlob,
			Authentication: authBlob,
		},
		AuthenticationID: s.keyGen.ExtractKey(auth),
		Username:         auth.Username(),
		ClientID:         auth.ClientID(),
		RefreshTokenID:   s.hasher.Key(token.RefreshTokenValue()),
	}
	fields := map[string]interface{}{"token_id": rec.TokenID, "client_id": rec.ClientID}

	if _, err := s.access.DeleteByTokenID(ctx, rec.TokenID); err != nil {
		s.storageFailed(ctx, span, op, err, fields)
		return serrors.Unavailable("tokenstore."+op, err)
	}
	if err := s.access.Save(ctx, rec); err != nil {
		s.storageFailed(ctx, span, op, err, fields)
		return serrors.Unavailable("tokenstore."+op, err)
	}

	s.logger.Debug(ctx, "Access token stored", fields)
	return nil
}

// ReadAccessToken returns the access token with the given value.
func (s *Store) ReadAccessToken(ctx context.Context, tokenValue string) (*domain.AccessToken, bool) {
	const op = "ReadAccessToken"
	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	rec, ok := s.findAccessRecord(ctx, span, op, tokenValue)
	if !ok {
		return nil, false
	}

	token, err := s.decodeAccessToken(rec)
	if err != nil {
		s.healAccess(ctx, op, rec.TokenID, err)
		return nil, false
	}
	return token, true
}

// RemoveAccessToken removes the access token with the given value. Removing
// an absent token is not an error.
func (s *Store) RemoveAccessToken(ctx context.Context, tokenValue string) error {
	const op = "RemoveAccessToken"
	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	if tokenValue == "" {
		return nil
	}

	tokenID := s.hasher.Key(tokenValue)
	if _, err := s.access.DeleteByTokenID(ctx, tokenID); err != nil {
		s.storageFailed(ctx, span, op, err, map[string]interface{}{"token_id": tokenID})
		return serrors.Unavailable("tokenstore."+op, err)
	}
	return nil
}

// ReadAuthentication returns the authentication the access token with the
// given value was stored for.
func (s *Store) ReadAuthentication(ctx context.Context, tokenValue string) (*domain.Authentication, bool) {
	const op = "ReadAuthentication"
	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	rec, ok := s.findAccessRecord(ctx, span, op, tokenValue)
	if !ok {
		return nil, false
	}

	auth, err := s.decodeAuthentication(rec.Authentication)
	if err != nil {
		s.healAccess(ctx, op, rec.TokenID, err)
		return nil, false
	}
	return auth, true
}

// ReadAuthenticationForToken is ReadAuthentication for a token handle.
func (s *Store) ReadAuthenticationForToken(ctx context.Context, token *domain.AccessToken) (*domain.Authentication, bool) {
	if token == nil {
		return nil, false
	}
	return s.ReadAuthentication(ctx, token.Value)
}

// Refresh Token Operations

// StoreRefreshToken stores token for auth, replacing a record with the same
// token value.
func (s *Store) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken, auth *domain.Authentication) error {
	const op = "StoreRefreshToken"
	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	if token == nil || token.Value == "" {
		failSpan(span, ErrTokenRequired)
		return ErrTokenRequired
	}
	if auth == nil {
		failSpan(span, ErrAuthenticationRequired)
		return ErrAuthenticationRequired
	}
	if auth.ClientID() == "" {
		failSpan(span, ErrClientIDRequired)
		return ErrClientIDRequired
	}

	tokenBlob, err := s.codec.Marshal(token)
	if err != nil {
		failSpan(span, err)
		return fmt.Errorf("encode refresh token: %w", err)
	}
	authBlob, err := s.codec.Marshal(auth)
	if err != nil {
		failSpan(span, err)
		return fmt.Errorf("encode authentication: %w", err)
	}

	rec := &domain.RefreshTokenRecord{
		TokenRecord: domain.TokenRecord{
			TokenID:        s.hasher.Key(token.Value),
			Token:          tokenBlob,
			Authentication: authBlob,
		},
	}
	if err := s.refresh.Save(ctx, rec); err != nil {
		s.storageFailed(ctx, span, op, err, map[string]interface{}{"token_id": rec.TokenID})
		return serrors.Unavailable("tokenstore."+op, err)
	}

	s.logger.Debug(ctx, "Refresh token stored", map[string]interface{}{"token_id": rec.TokenID, "client_id": auth.ClientID()})
	return nil
}

// ReadRefreshToken returns the refresh token with the given value.
func (s *Store) ReadRefreshToken(ctx context.Context, tokenValue string) (*domain.RefreshToken, bool) {
	const op = "ReadRefreshToken"
	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	rec, ok := s.findRefreshRecord(ctx, span, op, tokenValue)
	if !ok {
		return nil, false
	}

	token, err := s.decodeRefreshToken(rec)
	if err != nil {
		s.healRefresh(ctx, op, rec.TokenID, err)
		return nil, false
	}
	return token, true
}

// RemoveRefreshToken removes the refresh token with the given value. Access
// tokens issued with it are left alone, see
// RemoveAccessTokenUsingRefreshToken.
func (s *Store) RemoveRefreshToken(ctx context.Context, tokenValue string) error {
	const op = "RemoveRefreshToken"
	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	if tokenValue == "" {
		return nil
	}

	tokenID := s.hasher.Key(tokenValue)
	if _, err := s.refresh.DeleteByTokenID(ctx, tokenID); err != nil {
		s.storageFailed(ctx, span, op, err, map[string]interface{}{"token_id": tokenID})
		return serrors.Unavailable("tokenstore."+op, err)
	}
	return nil
}

// ReadAuthenticationForRefreshToken returns the authentication the refresh
// token with the given value was stored for.
func (s *Store) ReadAuthenticationForRefreshToken(ctx context.Context, tokenValue string) (*domain.Authentication, bool) {
	const op = "ReadAuthenticationForRefreshToken"
	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	rec, ok := s.findRefreshRecord(ctx, span, op, tokenValue)
	if !ok {
		return nil, false
	}

	auth, err := s.decodeAuthentication(rec.Authentication)
	if err != nil {
		s.healRefresh(ctx, op, rec.TokenID, err)
		return nil, false
	}
	return auth, true
}

// RemoveAccessTokenUsingRefreshToken removes every access token that was
// stored with the given refresh token.
func (s *Store) RemoveAccessTokenUsingRefreshToken(ctx context.Context, refreshTokenValue string) error {
	const op = "RemoveAccessTokenUsingRefreshToken"
	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	if refreshTokenValue == "" {
		return nil
	}

	refreshTokenID := s.hasher.Key(refreshTokenValue)
	fields := map[string]interface{}{"refresh_token_id": refreshTokenID}

	n, err := s.access.DeleteByRefreshTokenID(ctx, refreshTokenID)
	if err != nil {
		s.storageFailed(ctx, span, op, err, fields)
		return serrors.Unavailable("tokenstore."+op, err)
	}

	span.SetAttributes(attribute.Int64("tokenstore.removed", n))
	s.logger.Debug(ctx, "Access tokens removed by refresh token", with(fields, map[string]interface{}{"removed": n}))
	return nil
}

// Bulk Queries

// FindTokensByClientID returns the access tokens issued to clientID.
func (s *Store) FindTokensByClientID(ctx context.Context, clientID string) []*domain.AccessToken {
	const op = "FindTokensByClientID"
	ctx, span := s.startSpan(ctx, op, attribute.String("tokenstore.client_id", clientID))
	defer span.End()

	fields := map[string]interface{}{"client_id": clientID}
	records, err := s.access.FindByClientID(ctx, clientID)
	if err != nil {
		s.storageFailed(ctx, span, op, err, fields)
		return []*domain.AccessToken{}
	}
	if len(records) == 0 {
		s.logger.Debug(ctx, "No access tokens for client", fields)
	}

	return s.decodeAccessTokens(ctx, op, records)
}

// FindTokensByClientIDAndUserName returns the access tokens issued to
// clientID on behalf of userName. Client-only tokens have no user name and
// are never matched.
func (s *Store) FindTokensByClientIDAndUserName(ctx context.Context, clientID, userName string) []*domain.AccessToken {
	const op = "FindTokensByClientIDAndUserName"
	ctx, span := s.startSpan(ctx, op, attribute.String("tokenstore.client_id", clientID))
	defer span.End()

	fields := map[string]interface{}{"client_id": clientID, "username": userName}
	records, err := s.access.FindByUsernameAndClientID(ctx, userName, clientID)
	if err != nil {
		s.storageFailed(ctx, span, op, err, fields)
		return []*domain.AccessToken{}
	}
	if len(records) == 0 {
		s.logger.Debug(ctx, "No access tokens for user", fields)
	}

	return s.decodeAccessTokens(ctx, op, records)
}

// FindTokensByRefreshToken returns the access tokens stored with the given
// refresh token.
func (s *Store) FindTokensByRefreshToken(ctx context.Context, refreshTokenValue string) []*domain.AccessToken {
	const op = "FindTokensByRefreshToken"
	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	if refreshTokenValue == "" {
		return []*domain.AccessToken{}
	}

	refreshTokenID := s.hasher.Key(refreshTokenValue)
	records, err := s.access.FindByRefreshTokenID(ctx, refreshTokenID)
	if err != nil {
		s.storageFailed(ctx, span, op, err, map[string]interface{}{"refresh_token_id": refreshTokenID})
		return []*domain.AccessToken{}
	}

	return s.decodeAccessTokens(ctx, op, records)
}

// FindAllAccessTokens returns every stored access token.
func (s *Store) FindAllAccessTokens(ctx context.Context) []*domain.AccessToken {
	const op = "FindAllAccessTokens"
	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	records, err := s.access.FindAll(ctx)
	if err != nil {
		s.storageFailed(ctx, span, op, err, nil)
		return []*domain.AccessToken{}
	}

	return s.decodeAccessTokens(ctx, op, records)
}

// FindAllRefreshTokens returns every stored refresh token.
func (s *Store) FindAllRefreshTokens(ctx context.Context) []*domain.RefreshToken {
	const op = "FindAllRefreshTokens"
	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	records, err := s.refresh.FindAll(ctx)
	if err != nil {
		s.storageFailed(ctx, span, op, err, nil)
		return []*domain.RefreshToken{}
	}

	tokens := make([]*domain.RefreshToken, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		token, err := s.decodeRefreshToken(rec)
		if err != nil {
			s.healRefresh(ctx, op, rec.TokenID, err)
			continue
		}
		if _, dup := seen[token.Value]; dup {
			continue
		}
		seen[token.Value] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}

// helpers

func (s *Store) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "tokenstore."+op, trace.WithAttributes(attrs...))
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// with returns a copy of base extended with extra.
func with(base, extra map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(extra))
	maps.Copy(out, base)
	maps.Copy(out, extra)
	return out
}

func (s *Store) storageFailed(ctx context.Context, span trace.Span, op string, err error, fields map[string]interface{}) {
	s.metrics.StorageFailed(op)
	failSpan(span, err)
	s.logger.Error(ctx, "Token storage failure", err, with(fields, map[string]interface{}{"op": op}))
}

// lookupFailed handles a failed single-record lookup. Not found is routine.
func (s *Store) lookupFailed(ctx context.Context, span trace.Span, op string, err error, fields map[string]interface{}) {
	if serrors.IsNotFound(err) {
		s.logger.Debug(ctx, "Token not found", with(fields, map[string]interface{}{"op": op}))
		return
	}
	s.storageFailed(ctx, span, op, err, fields)
}

func (s *Store) findAccessRecord(ctx context.Context, span trace.Span, op, tokenValue string) (*domain.AccessTokenRecord, bool) {
	if tokenValue == "" {
		return nil, false
	}

	tokenID := s.hasher.Key(tokenValue)
	rec, err := s.access.FindByTokenID(ctx, tokenID)
	switch {
	case err == nil:
		return rec, true
	case serrors.IsCorrupt(err):
		s.healAccess(ctx, op, tokenID, err)
	default:
		s.lookupFailed(ctx, span, op, err, map[string]interface{}{"token_id": tokenID, "kind": kindAccess})
	}
	return nil, false
}

func (s *Store) findRefreshRecord(ctx context.Context, span trace.Span, op, tokenValue string) (*domain.RefreshTokenRecord, bool) {
	if tokenValue == "" {
		return nil, false
	}

	tokenID := s.hasher.Key(tokenValue)
	rec, err := s.refresh.FindByTokenID(ctx, tokenID)
	switch {
	case err == nil:
		return rec, true
	case serrors.IsCorrupt(err):
		s.healRefresh(ctx, op, tokenID, err)
	default:
		s.lookupFailed(ctx, span, op, err, map[string]interface{}{"token_id": tokenID, "kind": kindRefresh})
	}
	return nil, false
}

// healAccess deletes an access token record that could not be decoded.
func (s *Store) healAccess(ctx context.Context, op, tokenID string, cause error) {
	s.metrics.SelfHealed(kindAccess)
	fields := map[string]interface{}{"op": op, "token_id": tokenID, "kind": kindAccess}
	s.logger.Warn(ctx, "Removing unreadable token record", with(fields, map[string]interface{}{"cause": cause.Error()}))

	if _, err := s.access.DeleteByTokenID(ctx, tokenID); err != nil {
		s.metrics.StorageFailed(op)
		s.logger.Error(ctx, "Failed to remove unreadable token record", err, fields)
	}
}

// healRefresh deletes a refresh token record that could not be decoded.
func (s *Store) healRefresh(ctx context.Context, op, tokenID string, cause error) {
	s.metrics.SelfHealed(kindRefresh)
	fields := map[string]interface{}{"op": op, "token_id": tokenID, "kind": kindRefresh}
	s.logger.Warn(ctx, "Removing unreadable token record", with(fields, map[string]interface{}{"cause": cause.Error()}))

	if _, err := s.refresh.DeleteByTokenID(ctx, tokenID); err != nil {
		s.metrics.StorageFailed(op)
		s.logger.Error(ctx, "Failed to remove unreadable token record", err, fields)
	}
}

func (s *Store) decodeAccessTokens(ctx context.Context, op string, records []*domain.AccessTokenRecord) []*domain.AccessToken {
	tokens := make([]*domain.AccessToken, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		token, err := s.decodeAccessToken(rec)
		if err != nil {
			s.healAccess(ctx, op, rec.TokenID, err)
			continue
		}
		if _, dup := seen[token.Value]; dup {
			continue
		}
		seen[token.Value] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}

func (s *Store) decodeAccessToken(rec *domain.AccessTokenRecord) (*domain.AccessToken, error) {
	var token domain.AccessToken
	if err := s.codec.Unmarshal(rec.Token, &token); err != nil {
		return nil, serrors.Corrupt("decode access token", err)
	}
	if token.Value == "" {
		return nil, serrors.New(serrors.KindCorrupt, "decode access token", "empty token value")
	}
	return &token, nil
}

func (s *Store) decodeRefreshToken(rec *domain.RefreshTokenRecord) (*domain.RefreshToken, error) {
	var token domain.RefreshToken
	if err := s.codec.Unmarshal(rec.Token, &token); err != nil {
		return nil, serrors.Corrupt("decode refresh token", err)
	}
	if token.Value == "" {
		return nil, serrors.New(serrors.KindCorrupt, "decode refresh token", "empty token value")
	}
	return &token, nil
}

func (s *Store) decodeAuthentication(blob []byte) (*domain.Authentication, error) {
	var auth domain.Authentication
	if err := s.codec.Unmarshal(blob, &auth); err != nil {
		return nil, serrors.Corrupt("decode authentication", err)
	}
	if auth.ClientID() == "" {
		return nil, serrors.New(serrors.KindCorrupt, "decode authentication", "missing client id")
	}
	return &auth, nil
}

// storedFingerprint re-derives the fingerprint from the authentication
// stored in rec. It reports false when that blob cannot be decoded.
func (s *Store) storedFingerprint(rec *domain.AccessTokenRecord) (string, bool) {
	auth, err := s.decodeAuthentication(rec.Authentication)
	if err != nil {
		return "", false
	}
	return s.keyGen.ExtractKey(auth), true
}
