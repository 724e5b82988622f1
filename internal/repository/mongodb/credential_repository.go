package mongodb

import (
	"context"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type CredentialRepository struct {
	coll *mongo.Collection
}

var _ repository.CredentialRepositoryInterface = (*CredentialRepository)(nil)

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{coll: db.Collection(credentialsCollection)}
}

func (r *CredentialRepository) Create(ctx context.Context, cred *model.Credential) error {
	if cred.ID == "" {
		cred.ID = model.NewID()
	}
	stamp(&cred.CreatedAt, &cred.UpdatedAt)
	_, err := r.coll.InsertOne(ctx, cred)
	return translateError(err)
}

func (r *CredentialRepository) FindByLogin(ctx context.Context, login string) (*model.Credential, error) {
	return r.findOne(ctx, bson.M{"login": login})
}

func (r *CredentialRepository) FindByAccessToken(ctx context.Context, token string) (*model.Credential, error) {
	return r.findOne(ctx, bson.M{"accessToken": token})
}

func (r *CredentialRepository) UpdateAccessToken(ctx context.Context, id, token string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"accessToken": token, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CredentialRepository) findOne(ctx context.Context, filter bson.M) (*model.Credential, error) {
	var cred model.Credential
	if err := r.coll.FindOne(ctx, filter).Decode(&cred); err != nil {
		return nil, translateError(err)
	}
	return &cred, nil
}
