package repository

import (
	"context"
	"errors"
	"time"

	"authcore/internal/authz/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository persists role definitions and principals. Role reads far
// outnumber writes; writes go through a version compare-and-swap because a
// lost update on a role's permission set is a security bug, not a nuisance.
type MongoRepository struct {
	Roles      *mongo.Collection
	Principals *mongo.Collection
	Client     *mongo.Client
}

func NewMongoRepository(db *mongo.Database, rolesCollection, principalsCollection string) *MongoRepository {
	return &MongoRepository{
		Roles:      db.Collection(rolesCollection),
		Principals: db.Collection(principalsCollection),
		Client:     db.Client(),
	}
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	// 1. Role slug must be unique
	idxRoleSlug := mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_role_slug"),
	}
	// 2. Status for listing filters
	idxRoleStatus := mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}},
		Options: options.Index().SetName("idx_role_status"),
	}
	_, err := r.Roles.Indexes().CreateMany(ctx, []mongo.IndexModel{idxRoleSlug, idxRoleStatus})
	if err != nil {
		return err
	}

	// 3. Multikey index over assigned role slugs for assignment counts
	idxPrincipalRoles := mongo.IndexModel{
		Keys:    bson.D{{Key: "roles", Value: 1}},
		Options: options.Index().SetName("idx_principal_roles"),
	}
	_, err = r.Principals.Indexes().CreateMany(ctx, []mongo.IndexModel{idxPrincipalRoles})
	return err
}

func (r *MongoRepository) CreateRole(ctx context.Context, role *model.RoleDefinition) error {
	now := time.Now().UTC()
	if role.CreatedAt.IsZero() {
		role.CreatedAt = now
	}
	role.UpdatedAt = now
	if role.Version == 0 {
		role.Version = 1
	}

	_, err := r.Roles.InsertOne(ctx, role)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *MongoRepository) GetRoleBySlug(ctx context.Context, slug string) (*model.RoleDefinition, error) {
	var role model.RoleDefinition
	err := r.Roles.FindOne(ctx, bson.M{"slug": slug}).Decode(&role)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *MongoRepository) FindRoles(ctx context.Context, filter model.RoleFilter) ([]*model.RoleDefinition, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.IsDefault != nil {
		query["is_default"] = *filter.IsDefault
	}
	if len(filter.Slugs) > 0 {
		query["slug"] = bson.M{"$in": filter.Slugs}
	}

	cursor, err := r.Roles.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "slug", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []*model.RoleDefinition
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *MongoRepository) FindActiveRolesBySlugs(ctx context.Context, slugs []string) ([]*model.RoleDefinition, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	return r.FindRoles(ctx, model.RoleFilter{
		Status: model.RoleStatusActive,
		Slugs:  slugs,
	})
}

// UpdateRole replaces the mutable fields only when the stored version still
// matches role.Version, and bumps the version in the same write.
func (r *MongoRepository) UpdateRole(ctx context.Context, role *model.RoleDefinition) error {
	res, err := r.Roles.UpdateOne(ctx,
		bson.M{"slug": role.Slug, "version": role.Version},
		bson.M{
			"$set": bson.M{
				"name":        role.Name,
				"status":      role.Status,
				"permissions": role.Permissions,
				"updated_at":  time.Now().UTC(),
				"updated_by":  role.UpdatedBy,
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing role from a stale version
		count, countErr := r.Roles.CountDocuments(ctx, bson.M{"slug": role.Slug})
		if countErr != nil {
			return countErr
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	role.Version++
	return nil
}

func (r *MongoRepository) DeleteRole(ctx context.Context, slug string) error {
	res, err := r.Roles.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) GetPrincipal(ctx context.Context, id string) (*model.Principal, error) {
	var p model.Principal
	err := r.Principals.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepository) CountRoleAssignments(ctx context.Context, slug string) (int64, error) {
	return r.Principals.CountDocuments(ctx, bson.M{"roles": slug})
}

func (r *MongoRepository) AssignRole(ctx context.Context, principalID, slug, updatedBy string) error {
	return r.updatePrincipal(ctx, principalID, bson.M{
		"$addToSet": bson.M{"roles": slug},
		"$set":      r.touch(updatedBy),
	})
}

func (r *MongoRepository) RevokeRole(ctx context.Context, principalID, slug, updatedBy string) error {
	return r.updatePrincipal(ctx, principalID, bson.M{
		"$pull": bson.M{"roles": slug},
		"$set":  r.touch(updatedBy),
	})
}

func (r *MongoRepository) SetOverride(ctx context.Context, principalID, module string, grant any, updatedBy string) error {
	set := r.touch(updatedBy)
	set["overrides."+module] = grant
	return r.updatePrincipal(ctx, principalID, bson.M{"$set": set})
}

func (r *MongoRepository) ClearOverride(ctx context.Context, principalID, module, updatedBy string) error {
	return r.updatePrincipal(ctx, principalID, bson.M{
		"$unset": bson.M{"overrides." + module: ""},
		"$set":   r.touch(updatedBy),
	})
}

func (r *MongoRepository) SetPrincipalActive(ctx context.Context, principalID string, active bool, updatedBy string) error {
	set := r.touch(updatedBy)
	set["is_active"] = active
	return r.updatePrincipal(ctx, principalID, bson.M{"$set": set})
}

func (r *MongoRepository) updatePrincipal(ctx context.Context, id string, update bson.M) error {
	res, err := r.Principals.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) touch(updatedBy string) bson.M {
	return bson.M{
		"updated_at": time.Now().UTC(),
		"updated_by": updatedBy,
	}
}
