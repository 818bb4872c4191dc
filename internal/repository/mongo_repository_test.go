package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"taskboard/internal/model"
)

const (
	tasksNS = "taskManagementDB.tasks"
	usersNS = "taskManagementDB.users"
)

func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestMongoTaskRepository_Create(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("returns the generated object id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := NewMongoTaskRepository(mt.DB).Create(context.Background(), &model.Task{
			Category: "todo",
			Fields:   map[string]any{"title": "A"},
		})
		require.NoError(mt, err)
		_, err = primitive.ObjectIDFromHex(id)
		assert.NoError(mt, err)
	})
}

func TestMongoTaskRepository_List(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("decodes documents in store order", func(mt *mtest.T) {
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, tasksNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: a}, {Key: "title", Value: "A"}, {Key: "position", Value: int32(0)}},
			bson.D{{Key: "_id", Value: b}, {Key: "title", Value: "B"}, {Key: "position", Value: int64(3)}, {Key: "category", Value: ""}},
		))

		tasks, err := NewMongoTaskRepository(mt.DB).List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, tasks, 2)
		assert.Equal(mt, a.Hex(), tasks[0].ID)
		assert.Equal(mt, 0, tasks[0].Position)
		assert.Equal(mt, b.Hex(), tasks[1].ID)
		assert.Equal(mt, 3, tasks[1].Position)
		assert.Contains(mt, tasks[1].Document(), model.FieldCategory)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		assert.Equal(mt, int64(1), evt.Command.Lookup("sort", "position").AsInt64())
	})
}

func TestMongoTaskRepository_FindByID(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		_, err := NewMongoTaskRepository(mt.DB).FindByID(context.Background(), "not-an-object-id")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("missing document is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, tasksNS, mtest.FirstBatch))

		_, err := NewMongoTaskRepository(mt.DB).FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoTaskRepository_Update(t *testing.T) {
	mt := newMockMongo(t)
	id := primitive.NewObjectID()

	mt.Run("sets only the patched keys", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := NewMongoTaskRepository(mt.DB).Update(context.Background(), id.Hex(), model.Patch{"category": "done"})
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
		set := evt.Command.Lookup("updates", "0", "u", "$set").Document()
		assert.Equal(mt, "done", set.Lookup("category").StringValue())
		elems, err := set.Elements()
		require.NoError(mt, err)
		assert.Len(mt, elems, 1)
	})

	mt.Run("unmatched id is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := NewMongoTaskRepository(mt.DB).Update(context.Background(), id.Hex(), model.Patch{"category": "done"})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("empty patch checks existence without writing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, tasksNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id}, {Key: "position", Value: int32(1)}},
		))

		require.NoError(mt, NewMongoTaskRepository(mt.DB).Update(context.Background(), id.Hex(), model.Patch{}))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		err := NewMongoTaskRepository(mt.DB).Update(context.Background(), "zzz", model.Patch{"category": "done"})
		assert.ErrorIs(mt, err, ErrNotFound)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestMongoTaskRepository_Delete(t *testing.T) {
	mt := newMockMongo(t)
	id := primitive.NewObjectID()

	mt.Run("removes the document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, NewMongoTaskRepository(mt.DB).Delete(context.Background(), id.Hex()))
	})

	mt.Run("nothing deleted is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		err := NewMongoTaskRepository(mt.DB).Delete(context.Background(), id.Hex())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		err := NewMongoTaskRepository(mt.DB).Delete(context.Background(), "zzz")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoUserRepository(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("duplicate email maps to ErrDuplicateKey", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: taskManagementDB.users index: email_unique",
		}))

		_, err := NewMongoUserRepository(mt.DB).Create(context.Background(), &model.User{Email: "a@example.com"})
		assert.ErrorIs(mt, err, ErrDuplicateKey)
	})

	mt.Run("finds by email", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id}, {Key: "email", Value: "a@example.com"}, {Key: "name", Value: "Ann"}},
		))

		user, err := NewMongoUserRepository(mt.DB).FindByEmail(context.Background(), "a@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), user.ID)
		assert.Equal(mt, "Ann", user.Fields["name"])
	})

	mt.Run("unknown email is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		_, err := NewMongoUserRepository(mt.DB).FindByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("creates the email and position indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		require.NoError(mt, EnsureMongoIndexes(context.Background(), mt.DB))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "createIndexes", evt.CommandName)
		index := evt.Command.Lookup("indexes", "0").Document()
		assert.True(mt, index.Lookup("unique").Boolean())
	})
}
