package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"goban_rules/internal/adapters"
	"goban_rules/internal/domain/game"
	errs "goban_rules/internal/errors"
)

const archiveCollection = "games"

type ArchiveMongoStorage struct {
	mongo     *adapters.AdapterMongo
	log       *zap.SugaredLogger
	pageLimit int
}

func NewArchiveMongoStorage(mongoAdapter *adapters.AdapterMongo, pageLimit int, log *zap.SugaredLogger) *ArchiveMongoStorage {
	return &ArchiveMongoStorage{
		mongo:     mongoAdapter,
		log:       log,
		pageLimit: pageLimitOrDefault(pageLimit),
	}
}

func (a *ArchiveMongoStorage) ArchiveRecord(ctx context.Context, rec game.Record) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := a.mongo.Database.Collection(archiveCollection)
	opts := options.Replace().SetUpsert(true)
	_, err := collection.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, opts)
	if err != nil {
		a.log.Errorf("failed to archive game %s: %v", rec.ID, err)
		return fmt.Errorf("%w: archiving game: %v", errs.ErrInternal, err)
	}

	a.log.Infof("game %s archived with %d moves", rec.ID, len(rec.Moves))
	return nil
}

func (a *ArchiveMongoStorage) GetArchivedRecord(ctx context.Context, id string) (game.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec game.Record
	err := a.mongo.Database.Collection(archiveCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return game.Record{}, errs.ErrRecordNotFound
	}
	if err != nil {
		a.log.Errorf("failed to load archived game %s: %v", id, err)
		return game.Record{}, fmt.Errorf("%w: loading archived game: %v", errs.ErrInternal, err)
	}
	return rec, nil
}

// ListArchived returns one page of finished games, newest first. Pages
// start at 1.
func (a *ArchiveMongoStorage) ListArchived(ctx context.Context, pageNum int) ([]game.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	skip, size := pageWindow(pageNum, a.pageLimit)
	opts := options.Find().
		SetSort(bson.D{{Key: "ended_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(size))

	cursor, err := a.mongo.Database.Collection(archiveCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		a.log.Errorf("failed to list archived games: %v", err)
		return nil, fmt.Errorf("%w: listing archive: %v", errs.ErrInternal, err)
	}
	defer cursor.Close(ctx)

	records := make([]game.Record, 0, size)
	if err := cursor.All(ctx, &records); err != nil {
		a.log.Errorf("failed to decode archived games: %v", err)
		return nil, fmt.Errorf("%w: listing archive: %v", errs.ErrInternal, err)
	}
	return records, nil
}
