package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordRepository keeps each record as a BSON document so that patches
// behave exactly like a mongo $set.
type RecordRepository[T any, P domain.Record[T]] struct {
	storage  *Storage
	name     string
	ordering domain.Ordering
}

func NewRecordRepository[T any, P domain.Record[T]](s *Storage, name string) *RecordRepository[T, P] {
	return &RecordRepository[T, P]{
		storage:  s,
		name:     name,
		ordering: domain.CollectionOrdering[name],
	}
}

func (r *RecordRepository[T, P]) Create(ctx context.Context, record *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.storage.mu.Lock()
	defer r.storage.mu.Unlock()

	meta := P(record).Metadata()
	if meta.ID.IsZero() {
		meta.ID = primitive.NewObjectID()
	}
	now := r.storage.timestamp()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	raw, err := bson.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to create %s record: %w", r.name, err)
	}

	docs, ok := r.storage.collections[r.name]
	if !ok {
		docs = make(map[primitive.ObjectID]bson.Raw)
		r.storage.collections[r.name] = docs
	}
	if _, exists := docs[meta.ID]; exists {
		return fmt.Errorf("failed to create %s record: duplicate id %s", r.name, meta.ID.Hex())
	}
	docs[meta.ID] = raw

	return nil
}

func (r *RecordRepository[T, P]) ListByOwner(ctx context.Context, owner string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.storage.mu.RLock()
	var owned []bson.Raw
	for _, raw := range r.storage.collections[r.name] {
		if ownerOf(raw) == owner {
			owned = append(owned, raw)
		}
	}
	r.storage.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		if r.ordering.Field != "" {
			c := compare(owned[i].Lookup(r.ordering.Field), owned[j].Lookup(r.ordering.Field))
			if r.ordering.Descending {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return compare(owned[i].Lookup("_id"), owned[j].Lookup("_id")) < 0
	})

	records := make([]T, 0, len(owned))
	for _, raw := range owned {
		var record T
		if err := bson.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", r.name, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func (r *RecordRepository[T, P]) GetByID(ctx context.Context, owner, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.storage.mu.RLock()
	defer r.storage.mu.RUnlock()

	raw, _, err := r.find(owner, id)
	if err != nil {
		return nil, err
	}

	var record T
	if err := bson.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to get %s record: %w", r.name, err)
	}

	return &record, nil
}

func (r *RecordRepository[T, P]) UpdateByID(ctx context.Context, owner, id string, patch any) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set, err := store.PatchDocument(patch)
	if err != nil {
		return nil, err
	}

	r.storage.mu.Lock()
	defer r.storage.mu.Unlock()

	raw, oid, err := r.find(owner, id)
	if err != nil {
		return nil, err
	}

	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to update %s record: %w", r.name, err)
	}
	set["updatedAt"] = r.storage.timestamp()
	doc = applySet(doc, set)

	updated, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s record: %w", r.name, err)
	}

	var record T
	if err := bson.Unmarshal(updated, &record); err != nil {
		return nil, fmt.Errorf("failed to update %s record: %w", r.name, err)
	}
	r.storage.collections[r.name][oid] = updated

	return &record, nil
}

func (r *RecordRepository[T, P]) DeleteByID(ctx context.Context, owner, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.storage.mu.Lock()
	defer r.storage.mu.Unlock()

	_, oid, err := r.find(owner, id)
	if err != nil {
		return err
	}
	delete(r.storage.collections[r.name], oid)

	return nil
}

// find must be called with the storage lock held.
func (r *RecordRepository[T, P]) find(owner, id string) (bson.Raw, primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, oid, domain.ErrNotFound
	}

	raw, ok := r.storage.collections[r.name][oid]
	if !ok || ownerOf(raw) != owner {
		return nil, oid, domain.ErrNotFound
	}

	return raw, oid, nil
}

func ownerOf(raw bson.Raw) string {
	owner, _ := raw.Lookup("userId").StringValueOK()
	return owner
}

// applySet replaces existing top-level fields in place and appends new ones.
func applySet(doc bson.D, set bson.M) bson.D {
	seen := make(map[string]bool, len(set))
	for i, e := range doc {
		if v, ok := set[e.Key]; ok {
			doc[i].Value = v
			seen[e.Key] = true
		}
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: set[k]})
	}

	return doc
}

// compare orders the value types records are listed by. Missing values sort
// first, as they do in mongo.
func compare(a, b bson.RawValue) int {
	if a.Type != b.Type {
		switch {
		case a.Type == 0 || a.Type == bsontype.Null:
			return -1
		case b.Type == 0 || b.Type == bsontype.Null:
			return 1
		}
		af, aok := number(a)
		bf, bok := number(b)
		if aok && bok {
			return compareFloat(af, bf)
		}
		return int(a.Type) - int(b.Type)
	}

	switch a.Type {
	case bsontype.String:
		return compareString(a.StringValue(), b.StringValue())
	case bsontype.DateTime:
		return compareInt(a.DateTime(), b.DateTime())
	case bsontype.ObjectID:
		ao, bo := a.ObjectID(), b.ObjectID()
		return bytes.Compare(ao[:], bo[:])
	case bsontype.Double, bsontype.Int32, bsontype.Int64:
		af, _ := number(a)
		bf, _ := number(b)
		return compareFloat(af, bf)
	}

	return bytes.Compare(a.Value, b.Value)
}

func number(v bson.RawValue) (float64, bool) {
	switch v.Type {
	case bsontype.Double:
		return v.Double(), true
	case bsontype.Int32:
		return float64(v.Int32()), true
	case bsontype.Int64:
		return float64(v.Int64()), true
	}
	return 0, false
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
