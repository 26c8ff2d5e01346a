package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoCollection is the collection MongoStore writes to.
const MongoCollection = "user_activation_reset_tokens"

type entryDocument struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	TokenA      string    `bson:"token_a"`
	TokenB      string    `bson:"token_b"`
	Fingerprint string    `bson:"fingerprint"`
	Event       string    `bson:"event"`
	Used        bool      `bson:"used"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toDocument(e *Entry) entryDocument {
	return entryDocument{
		ID:          e.ID.String(),
		UserID:      e.UserID.String(),
		TokenA:      e.TokenA,
		TokenB:      e.TokenB,
		Fingerprint: e.Fingerprint,
		Event:       string(e.Event),
		Used:        e.Used,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (d entryDocument) entry() (Entry, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return Entry{}, fmt.Errorf("parse entry id: %w", err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return Entry{}, fmt.Errorf("parse entry user id: %w", err)
	}
	return Entry{
		ID:          id,
		UserID:      userID,
		TokenA:      d.TokenA,
		TokenB:      d.TokenB,
		Fingerprint: d.Fingerprint,
		Event:       Event(d.Event),
		Used:        d.Used,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// MongoStore keeps entries in a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoStore creates a store on db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(MongoCollection), now: time.Now}
}

// EnsureIndexes creates the lookup indexes used by InvalidatePrior and Consume.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "event", Value: 1}, {Key: "used", Value: 1}}},
		{Keys: bson.D{{Key: "fingerprint", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create ledger indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Record(ctx context.Context, e *Entry) error {
	if err := prepare(e, s.now().UTC()); err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, toDocument(e)); err != nil {
		return fmt.Errorf("record ledger entry: %w", err)
	}
	return nil
}

func (s *MongoStore) InvalidatePrior(ctx context.Context, userID uuid.UUID, event Event) (int64, error) {
	if !event.Valid() {
		return 0, ErrInvalidEvent
	}

	res, err := s.coll.UpdateMany(ctx,
		bson.D{{Key: "user_id", Value: userID.String()}, {Key: "event", Value: string(event)}, {Key: "used", Value: false}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "used", Value: true}, {Key: "updated_at", Value: s.now().UTC()}}}},
	)
	if err != nil {
		return 0, fmt.Errorf("invalidate ledger entries: %w", err)
	}
	return res.ModifiedCount, nil
}

// Consume uses a single-document update whose filter includes used=false,
// which MongoDB evaluates atomically with the write.
func (s *MongoStore) Consume(ctx context.Context, userID uuid.UUID, fingerprint string, event Event) error {
	if !event.Valid() {
		return ErrInvalidEvent
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.D{
			{Key: "user_id", Value: userID.String()},
			{Key: "fingerprint", Value: fingerprint},
			{Key: "event", Value: string(event)},
			{Key: "used", Value: false},
		},
		bson.D{{Key: "$set", Value: bson.D{{Key: "used", Value: true}, {Key: "updated_at", Value: s.now().UTC()}}}},
	)
	if err != nil {
		return fmt.Errorf("consume ledger entry: %w", err)
	}
	if res.ModifiedCount == 0 {
		return ErrAlreadyUsed
	}
	return nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	cur, err := s.coll.Find(ctx,
		bson.D{{Key: "user_id", Value: userID.String()}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}

	var docs []entryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}

	out := make([]Entry, 0, len(docs))
	for _, d := range docs {
		e, err := d.entry()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
