package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/WooodHead/blog-be-next/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrDuplicateUser        = errors.New("email or username already taken")
	ErrRecoveryCodeNotFound = errors.New("recovery code not found")
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection("users")}
}

// EnsureIndexes creates the unique indexes that back registration's
// email/username uniqueness checks at the store level.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}

// SetTOTPSecret overwrites the stored shared secret. Re-enrollment
// invalidates any prior enrollment; the enabled flag is left untouched.
func (r *UserRepository) SetTOTPSecret(ctx context.Context, id string, secret string) (models.User, error) {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"totpSecret": secret, "updatedAt": time.Now()},
	})
}

func (r *UserRepository) EnableTOTP(ctx context.Context, id string) (models.User, error) {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"totpEnabled": true, "updatedAt": time.Now()},
	})
}

// SetRecoveryCodes replaces the whole backup-code set.
func (r *UserRepository) SetRecoveryCodes(ctx context.Context, id string, codes []string) (models.User, error) {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"recoveryCodes": codes, "updatedAt": time.Now()},
	})
}

// ConsumeRecoveryCode removes the code from the user's set in a single
// conditional update, so a code can be redeemed at most once even under
// concurrent requests. Returns ErrRecoveryCodeNotFound when the code is
// absent (already spent or never issued).
func (r *UserRepository) ConsumeRecoveryCode(ctx context.Context, id string, code string) (models.User, error) {
	user, err := r.updateOne(ctx,
		bson.M{"_id": id, "recoveryCodes": code},
		bson.M{
			"$pull": bson.M{"recoveryCodes": code},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.User{}, ErrRecoveryCodeNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) updateOne(ctx context.Context, filter bson.M, update bson.M) (models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
