package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"go.pilab.hu/tokenstore/domain"
)

// EnsureTokenIndexes creates the secondary indexes the token queries rely
// on. It is idempotent.
func EnsureTokenIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(AccessTokensCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: domain.FieldAuthenticationID, Value: 1}}},
		{Keys: bson.D{{Key: domain.FieldClientID, Value: 1}, {Key: domain.FieldUsername, Value: 1}}},
		{Keys: bson.D{{Key: domain.FieldRefreshTokenID, Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create access token indexes: %w", err)
	}
	return nil
}
