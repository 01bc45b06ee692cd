// Package mongostore adapts MongoDB to the docstore port. Documents are
// stored flat: the collection name is the last collection segment of the
// path ("posts", "comments"), _id is the full document path, and the parent
// document path is kept in a scoping field. That makes collection-group
// queries a plain find and keeps key ordering a sort on _id.
package mongostore

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
)

const parentField = "_parent"

type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// docRef resolves a document path to its physical collection, _id and
// parent scope. "posts/p1/comments/c1" lives in collection "comments" with
// _id "posts/p1/comments/c1" and parent "posts/p1".
func docRef(path string) (coll, id, parent string) {
	segs := strings.Split(path, "/")
	coll = segs[len(segs)-2]
	id = path
	parent = strings.Join(segs[:len(segs)-2], "/")
	return coll, id, parent
}

func (s *Store) Get(ctx context.Context, path string) (docstore.Document, error) {
	coll, id, _ := docRef(path)
	var raw bson.M
	err := s.db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return docstore.Document{}, docstore.ErrNotFound
	}
	if err != nil {
		return docstore.Document{}, err
	}
	return rawDoc(path, raw), nil
}

func (s *Store) Create(ctx context.Context, path string, data map[string]any) error {
	return s.create(ctx, path, data)
}

func (s *Store) create(ctx context.Context, path string, data map[string]any) error {
	coll, id, parent := docRef(path)
	doc := toStored(data)
	doc["_id"] = id
	doc[parentField] = parent
	_, err := s.db.Collection(coll).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return docstore.ErrAlreadyExists
	}
	return err
}

func (s *Store) Set(ctx context.Context, path string, data map[string]any) error {
	coll, id, parent := docRef(path)
	doc := toStored(data)
	doc["_id"] = id
	doc[parentField] = parent
	_, err := s.db.Collection(coll).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *Store) Update(ctx context.Context, path string, updates []docstore.Update) error {
	coll, id, _ := docRef(path)
	res, err := s.db.Collection(coll).UpdateOne(ctx, bson.M{"_id": id}, toUpdateDoc(updates))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	coll, id, _ := docRef(path)
	_, err := s.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *Store) DeleteBatch(ctx context.Context, paths []string) error {
	byColl := make(map[string][]string)
	for _, p := range paths {
		coll, id, _ := docRef(p)
		byColl[coll] = append(byColl[coll], id)
	}
	for coll, ids := range byColl {
		if _, err := s.db.Collection(coll).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
			return err
		}
	}
	return nil
}

// RunTransaction wraps fn in a session transaction. Business errors
// returned by fn abort the transaction and pass through to the caller.
func (s *Store) RunTransaction(ctx context.Context, fn func(tx docstore.Tx) error) error {
	sess, err := s.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(&tx{s: s, ctx: sc})
	})
	return err
}

type tx struct {
	s   *Store
	ctx mongo.SessionContext
}

func (x *tx) Get(path string) (docstore.Document, error) { return x.s.Get(x.ctx, path) }
func (x *tx) Create(path string, data map[string]any) error {
	return x.s.create(x.ctx, path, data)
}
func (x *tx) Set(path string, data map[string]any) error { return x.s.Set(x.ctx, path, data) }
func (x *tx) Update(path string, updates []docstore.Update) error {
	return x.s.Update(x.ctx, path, updates)
}
func (x *tx) Delete(path string) error { return x.s.Delete(x.ctx, path) }

func (s *Store) Query(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	segs := strings.Split(q.Path, "/")
	coll := segs[len(segs)-1]

	filter := bson.M{}
	if !q.Group {
		filter[parentField] = strings.Join(segs[:len(segs)-1], "/")
	}
	for _, f := range q.Filters {
		switch f.Op {
		case "==", "array-contains":
			// Mongo equality matches array membership natively.
			filter[f.Field] = f.Value
		case "<":
			filter[f.Field] = bson.M{"$lt": f.Value}
		case "<=":
			filter[f.Field] = bson.M{"$lte": f.Value}
		case ">":
			filter[f.Field] = bson.M{"$gt": f.Value}
		case ">=":
			filter[f.Field] = bson.M{"$gte": f.Value}
		}
	}

	findOptions := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		findOptions.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	} else {
		findOptions.SetSort(bson.D{{Key: "_id", Value: 1}})
		if q.StartAfter != "" {
			cursor := q.StartAfter
			if !q.Group {
				cursor = q.Path + "/" + q.StartAfter
			}
			filter["_id"] = bson.M{"$gt": cursor}
		}
	}
	if q.Limit > 0 {
		findOptions.SetLimit(int64(q.Limit))
	}

	cur, err := s.db.Collection(coll).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []docstore.Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		path, _ := raw["_id"].(string)
		out = append(out, rawDoc(path, raw))
	}
	return out, cur.Err()
}

func rawDoc(path string, raw bson.M) docstore.Document {
	data := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "_id" || k == parentField {
			continue
		}
		data[k] = normalize(v)
	}
	segs := strings.Split(path, "/")
	return docstore.Document{Path: path, ID: segs[len(segs)-1], Data: data}
}

// normalize converts BSON decode types to the plain Go types the port
// promises (time.Time, int64, []any, map[string]any).
func normalize(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case int32:
		return int64(t)
	}
	return v
}

func toUpdateDoc(updates []docstore.Update) bson.M {
	set := bson.M{}
	inc := bson.M{}
	addToSet := bson.M{}
	pull := bson.M{}
	currentDate := bson.M{}
	unset := bson.M{}
	for _, u := range updates {
		switch v := u.Value.(type) {
		case docstore.IncrementValue:
			inc[u.Field] = v.N
		case docstore.ArrayUnionValue:
			addToSet[u.Field] = bson.M{"$each": v.Elems}
		case docstore.ArrayRemoveValue:
			pull[u.Field] = bson.M{"$in": v.Elems}
		case docstore.ServerTimestampValue:
			currentDate[u.Field] = true
		case docstore.DeleteFieldValue:
			unset[u.Field] = ""
		default:
			set[u.Field] = v
		}
	}
	doc := bson.M{}
	for op, fields := range map[string]bson.M{
		"$set": set, "$inc": inc, "$addToSet": addToSet,
		"$pull": pull, "$currentDate": currentDate, "$unset": unset,
	} {
		if len(fields) > 0 {
			doc[op] = fields
		}
	}
	return doc
}

func toStored(data map[string]any) bson.M {
	doc := bson.M{}
	for k, v := range data {
		if _, ok := v.(docstore.ServerTimestampValue); ok {
			doc[k] = time.Now().UTC()
			continue
		}
		doc[k] = v
	}
	return doc
}
