package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campusreg/internal/registry"
	"campusreg/pkg/errors"
	"campusreg/pkg/logger"
	"campusreg/pkg/ordmap"
)

const (
	studentsCollection = "students"
	coursesCollection  = "courses"
)

func NewMongo(ctx context.Context, cfg MongoConfig, log logger.Logger) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(cfg.URL).
		SetTimeout(cfg.Timeout)

	if cfg.Auth.Username != "" {
		opts = opts.SetAuth(options.Credential{
			Username: cfg.Auth.Username,
			Password: cfg.Auth.Password,
		})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.WrapFail(err, "connect to mongo db")
	}

	return &Mongo{
		db:  client.Database(cfg.Database),
		log: log.With("mongo_storage"),
	}, nil
}

// Mongo keeps the snapshot in two collections. A save replaces their
// contents wholesale, matching the file backend's whole-file overwrite.
type Mongo struct {
	db  *mongo.Database
	log logger.Logger
}

type studentDoc struct {
	Key string `bson:"_id"`

	registry.Student `bson:",inline"`
}

type courseDoc struct {
	Key string `bson:"_id"`

	registry.Course `bson:",inline"`
}

func (m *Mongo) Save(ctx context.Context, snap registry.Snapshot) error {
	var students []any
	if snap.Students != nil {
		snap.Students.Range(func(id string, s registry.Student) bool {
			students = append(students, studentDoc{Key: id, Student: s})
			return true
		})
	}

	var courses []any
	if snap.Courses != nil {
		snap.Courses.Range(func(code string, c registry.Course) bool {
			courses = append(courses, courseDoc{Key: code, Course: c})
			return true
		})
	}

	err := m.replaceAll(ctx, studentsCollection, students)
	if err != nil {
		return errors.WrapFail(err, "store students")
	}

	err = m.replaceAll(ctx, coursesCollection, courses)
	if err != nil {
		return errors.WrapFail(err, "store courses")
	}

	m.log.Infof("wrote snapshot to database %s", m.db.Name())
	return nil
}

func (m *Mongo) Load(ctx context.Context) (registry.Snapshot, error) {
	snap := registry.Snapshot{
		Students: ordmap.New[registry.Student](),
		Courses:  ordmap.New[registry.Course](),
	}

	var studentDocs []studentDoc
	err := m.readAll(ctx, studentsCollection, &studentDocs)
	if err != nil {
		return registry.Snapshot{}, errors.WrapFail(err, "read students")
	}
	for _, doc := range studentDocs {
		snap.Students.Set(doc.Key, doc.Student)
	}

	var courseDocs []courseDoc
	err = m.readAll(ctx, coursesCollection, &courseDocs)
	if err != nil {
		return registry.Snapshot{}, errors.WrapFail(err, "read courses")
	}
	for _, doc := range courseDocs {
		snap.Courses.Set(doc.Key, doc.Course)
	}

	m.log.Infof("read snapshot from database %s", m.db.Name())
	return snap, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	err := m.db.Client().Disconnect(ctx)
	return errors.WrapFail(err, "close mongo db connection")
}

func (m *Mongo) replaceAll(ctx context.Context, collection string, docs []any) error {
	coll := m.db.Collection(collection)

	_, err := coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return errors.WrapFailf(err, "clear collection %s", collection)
	}

	if len(docs) == 0 {
		return nil
	}

	_, err = coll.InsertMany(ctx, docs)
	return errors.WrapFailf(err, "fill collection %s", collection)
}

func (m *Mongo) readAll(ctx context.Context, collection string, out any) error {
	cur, err := m.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return errors.WrapFailf(err, "find in collection %s", collection)
	}

	// All drains and closes the cursor
	return errors.WrapFailf(cur.All(ctx, out), "decode documents from %s", collection)
}
