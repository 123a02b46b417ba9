package repository

import (
	"context"
	"errors"

	"authcore/internal/authz/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAuditRepository persists the audit chain. The collection is
// physically append-only: the unique sequence index arbitrates concurrent
// appends and the update/delete methods refuse unconditionally.
type MongoAuditRepository struct {
	Collection *mongo.Collection
}

func NewMongoAuditRepository(db *mongo.Database, collectionName string) *MongoAuditRepository {
	return &MongoAuditRepository{
		Collection: db.Collection(collectionName),
	}
}

func (r *MongoAuditRepository) EnsureAuditIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// The sequence index is what makes concurrent appends safe: two
		// racing writers cannot both claim the same position.
		{
			Keys:    bson.D{{Key: "sequence", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_sequence"),
		},
		// Actor query: actor_id + timestamp
		{
			Keys: bson.D{
				{Key: "actor_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_actor_query"),
		},
		// Entity query: entity_type + entity_id + timestamp
		{
			Keys: bson.D{
				{Key: "entity_type", Value: 1},
				{Key: "entity_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_entity_query"),
		},
		// Timestamp for time-range queries
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_timestamp"),
		},
	}

	_, err := r.Collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *MongoAuditRepository) InsertRecord(ctx context.Context, rec *model.AuditRecord) error {
	_, err := r.Collection.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *MongoAuditRepository) Tail(ctx context.Context) (*model.AuditRecord, error) {
	var rec model.AuditRecord
	err := r.Collection.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "sequence", Value: -1}}),
	).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *MongoAuditRepository) ScanSequence(ctx context.Context, fn func(*model.AuditRecord) error) error {
	cursor, err := r.Collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}}),
	)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var rec model.AuditRecord
		if err := cursor.Decode(&rec); err != nil {
			return err
		}
		if err := fn(&rec); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func (r *MongoAuditRepository) FindRecords(ctx context.Context, req model.GetAuditRecordsReq) ([]*model.AuditRecord, int64, error) {
	filter := bson.M{}
	if req.ActorID != "" {
		filter["actor_id"] = req.ActorID
	}
	if req.Action != "" {
		filter["action"] = req.Action
	}
	if req.EntityType != "" {
		filter["entity_type"] = req.EntityType
	}
	if req.EntityID != "" {
		filter["entity_id"] = req.EntityID
	}
	if req.TenantID != "" {
		filter["tenant_id"] = req.TenantID
	}
	if req.StartTime != nil || req.EndTime != nil {
		timeFilter := bson.M{}
		if req.StartTime != nil {
			timeFilter["$gte"] = *req.StartTime
		}
		if req.EndTime != nil {
			timeFilter["$lte"] = *req.EndTime
		}
		filter["timestamp"] = timeFilter
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "sequence", Value: -1}}).
		SetSkip((req.Page - 1) * req.Size).
		SetLimit(req.Size)

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var records []*model.AuditRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// UpdateRecord always fails. The ledger is tamper-evident only because no
// code path can rewrite a stored record.
func (r *MongoAuditRepository) UpdateRecord(ctx context.Context, id string, fields map[string]any) error {
	return ErrAppendOnly
}

// DeleteRecord always fails, same invariant as UpdateRecord.
func (r *MongoAuditRepository) DeleteRecord(ctx context.Context, id string) error {
	return ErrAppendOnly
}
