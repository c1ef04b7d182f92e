package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/hospital-api/internal/models"
)

const UsersCollection = "users"

// UserRepository stores users in MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(UsersCollection)}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %s: %w", id.Hex(), err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) Find(ctx context.Context, filter UserFilter) ([]models.User, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.FirstName != "" {
		query["firstName"] = filter.FirstName
	}
	if filter.LastName != "" {
		query["lastName"] = filter.LastName
	}
	if filter.Department != "" {
		query["doctorDepartment"] = filter.Department
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpdateProfile sets the identity fields of user id and returns the updated
// document. Reference lists are left untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, p models.Profile) (*models.User, error) {
	update := bson.M{"$set": bson.M{
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"email":     p.Email,
		"phone":     p.Phone,
		"nic":       p.NIC,
		"dob":       p.DOB,
		"gender":    p.Gender,
		"updatedAt": time.Now().UTC(),
	}}
	user, err := r.findOneAndUpdate(ctx, id, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

// LinkCaregiver appends caregiverID to the patient's caregivers and patientID
// to the caregiver's patients and ongoingAssignments. Each document is
// updated in a single write, so concurrent links never overwrite each other.
func (r *UserRepository) LinkCaregiver(ctx context.Context, patientID, caregiverID primitive.ObjectID) (*models.User, *models.User, error) {
	now := time.Now().UTC()
	patient, err := r.findOneAndUpdate(ctx, patientID, bson.M{
		"$push": bson.M{"caregivers": caregiverID},
		"$set":  bson.M{"updatedAt": now},
	})
	if err != nil {
		return nil, nil, err
	}
	caregiver, err := r.findOneAndUpdate(ctx, caregiverID, bson.A{
		bson.M{"$set": bson.M{
			"patients":           appendID("patients", patientID),
			"ongoingAssignments": appendID("ongoingAssignments", patientID),
			"updatedAt":          now,
		}},
		availabilityStage,
	})
	if err != nil {
		return nil, nil, err
	}
	return patient, caregiver, nil
}

// UnlinkCaregiver pulls every occurrence of the pair from both documents.
func (r *UserRepository) UnlinkCaregiver(ctx context.Context, patientID, caregiverID primitive.ObjectID) (*models.User, *models.User, error) {
	now := time.Now().UTC()
	patient, err := r.findOneAndUpdate(ctx, patientID, bson.M{
		"$pull": bson.M{"caregivers": caregiverID},
		"$set":  bson.M{"updatedAt": now},
	})
	if err != nil {
		return nil, nil, err
	}
	caregiver, err := r.findOneAndUpdate(ctx, caregiverID, bson.A{
		bson.M{"$set": bson.M{
			"patients":           withoutID("patients", patientID),
			"ongoingAssignments": withoutID("ongoingAssignments", patientID),
			"updatedAt":          now,
		}},
		availabilityStage,
	})
	if err != nil {
		return nil, nil, err
	}
	return patient, caregiver, nil
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update interface{}) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update user %s: %w", id.Hex(), err)
	}
	return &user, nil
}

// availabilityStage recomputes caregiverAvailability from the updated
// ongoingAssignments inside the same write.
var availabilityStage = bson.M{"$set": bson.M{
	"caregiverAvailability": bson.M{"$eq": bson.A{bson.M{"$size": "$ongoingAssignments"}, 0}},
}}

func appendID(field string, id primitive.ObjectID) bson.M {
	return bson.M{"$concatArrays": bson.A{
		bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}},
		bson.A{id},
	}}
}

func withoutID(field string, id primitive.ObjectID) bson.M {
	return bson.M{"$filter": bson.M{
		"input": bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}},
		"cond":  bson.M{"$ne": bson.A{"$$this", id}},
	}}
}
