package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyCommunity/pkg/database"
	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/PancyStudios/PancyCommunity/pkg/metrics"
	"github.com/PancyStudios/PancyCommunity/pkg/models"
	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
)

// StoredConfigCollection holds one document per stored name
const StoredConfigCollection = "stored_config"

// MongoStore keeps each value as a document in the stored_config collection.
// Writes made while the database is offline are queued by the DataManager.
type MongoStore struct {
	dm *database.DataManager[models.StoredDocument]
}

// NewMongoStore creates a store over db
func NewMongoStore(db *database.Database) *MongoStore {
	dm := database.NewDataManager[models.StoredDocument](StoredConfigCollection, db,
		database.DataManagerOptions{MaxCacheSize: 16})
	dm.PrimeCache()
	return &MongoStore{dm: dm}
}

// ClearCache drops the cached documents so the next Load reads the database
func (s *MongoStore) ClearCache() {
	s.dm.ClearCache()
}

// Load implements Store
func (s *MongoStore) Load(ctx context.Context, name string, v any) error {
	start := time.Now()
	defer metrics.ObserveStore(BackendMongo, "load", start)

	doc, err := s.dm.Get(ctx, bson.M{"_id": name})
	if err != nil {
		if !errors.Is(err, database.ErrNotConnected) {
			logger.Warn(fmt.Sprintf("Store load '%s' falló, se ignora: %v", name, err), "Store")
		}
		metrics.StoreFailure(BackendMongo, "load")
		return nil
	}
	if doc == nil || doc.Data == "" {
		return nil
	}

	if err := json.Unmarshal([]byte(doc.Data), v); err != nil {
		logger.Warn(fmt.Sprintf("Documento '%s' inválido, se usará el valor por defecto: %v", name, err), "Store")
	}
	return nil
}

// Save implements Store
func (s *MongoStore) Save(ctx context.Context, name string, v any) error {
	start := time.Now()
	defer metrics.ObserveStore(BackendMongo, "save", start)

	data, err := encode(name, v)
	if err != nil {
		return err
	}

	_, err = s.dm.Set(ctx, bson.M{"_id": name}, bson.M{
		"data":       string(data),
		"updated_at": time.Now().Unix(),
	})
	if err != nil {
		// already queued for retry by the DataManager
		logger.Warn(fmt.Sprintf("Store save '%s' falló, se reintentará: %v", name, err), "Store")
		metrics.StoreFailure(BackendMongo, "save")
	}
	return nil
}
