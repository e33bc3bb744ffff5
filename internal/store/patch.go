// Package store holds what the mongo and memory stores share.
package store

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Fields a patch may never touch.
var protectedFields = []string{"_id", "userId", "createdAt", "updatedAt"}

// PatchDocument turns a typed patch (pointer fields with omitempty) into a
// $set document.
func PatchDocument(patch any) (bson.M, error) {
	doc := bson.M{}
	switch p := patch.(type) {
	case nil:
	case bson.M:
		for k, v := range p {
			doc[k] = v
		}
	case map[string]any:
		for k, v := range p {
			doc[k] = v
		}
	default:
		raw, err := bson.Marshal(patch)
		if err != nil {
			return nil, fmt.Errorf("failed to encode patch: %w", err)
		}
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode patch: %w", err)
		}
	}

	for _, key := range protectedFields {
		delete(doc, key)
	}

	return doc, nil
}
