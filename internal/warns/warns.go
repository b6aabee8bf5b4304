// Package warns records moderation warns per guild member and persists them
// under the "warns" store name.
package warns

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/PancyStudios/PancyCommunity/pkg/models"
	"github.com/PancyStudios/PancyCommunity/pkg/store"
	"github.com/google/uuid"
)

// ErrNotFound is returned when the warn to remove does not exist
var ErrNotFound = errors.New("warn not found")

// Service owns the warns data. Every mutation holds the lock until the save
// returns, so two concurrent unwarns never both remove from the same snapshot.
// A mutation builds the next map on a copy and commits it only once saved.
type Service struct {
	store store.Store
	now   func() time.Time
	data  models.WarnsData
	mu    sync.Mutex
}

// NewService creates an empty service
func NewService(s store.Store) *Service {
	return &Service{
		store: s,
		now:   time.Now,
		data:  make(models.WarnsData),
	}
}

// Load replaces the in-memory warns with the stored ones
func (s *Service) Load(ctx context.Context) error {
	data := make(models.WarnsData)
	if err := s.store.Load(ctx, store.NameWarns, &data); err != nil {
		return fmt.Errorf("load warns: %w", err)
	}
	// a stored null decodes to a nil map
	if data == nil {
		data = make(models.WarnsData)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()

	logger.Info(fmt.Sprintf("Warns cargados de %d servidores", len(data)), "Warns")
	return nil
}

// Add appends a warn to userID and returns it
func (s *Service) Add(ctx context.Context, guildID, userID, reason, moderatorID string) (models.Warn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := models.Warn{
		ID:        uuid.NewString()[:8],
		Reason:    reason,
		Moderator: moderatorID,
		Timestamp: s.now().Unix(),
	}

	current := s.data[guildID][userID]
	list := make([]models.Warn, len(current), len(current)+1)
	copy(list, current)
	list = append(list, w)

	if err := s.commit(ctx, s.withUser(guildID, userID, list)); err != nil {
		return models.Warn{}, err
	}
	return w, nil
}

// List returns the warns of userID, oldest first
func (s *Service) List(guildID, userID string) []models.Warn {
	s.mu.Lock()
	defer s.mu.Unlock()

	warns := s.data[guildID][userID]
	out := make([]models.Warn, len(warns))
	copy(out, warns)
	return out
}

// RemoveByID removes the warn with the given ID
func (s *Service) RemoveByID(ctx context.Context, guildID, userID, id string) (models.Warn, error) {
	return s.remove(ctx, guildID, userID, func(warns []models.Warn) int {
		for i, w := range warns {
			if w.ID == id {
				return i
			}
		}
		return -1
	})
}

// RemoveAt removes the warn at the 1-based position shown by List
func (s *Service) RemoveAt(ctx context.Context, guildID, userID string, position int) (models.Warn, error) {
	return s.remove(ctx, guildID, userID, func(warns []models.Warn) int {
		if position < 1 || position > len(warns) {
			return -1
		}
		return position - 1
	})
}

func (s *Service) remove(ctx context.Context, guildID, userID string, index func([]models.Warn) int) (models.Warn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	warns := s.data[guildID][userID]
	i := index(warns)
	if i < 0 {
		return models.Warn{}, ErrNotFound
	}
	removed := warns[i]

	rest := make([]models.Warn, 0, len(warns)-1)
	rest = append(rest, warns[:i]...)
	rest = append(rest, warns[i+1:]...)

	if err := s.commit(ctx, s.withUser(guildID, userID, rest)); err != nil {
		return models.Warn{}, err
	}
	return removed, nil
}

// Clear removes every warn of userID and returns how many there were
func (s *Service) Clear(ctx context.Context, guildID, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.data[guildID][userID])
	if n == 0 {
		return 0, nil
	}
	if err := s.commit(ctx, s.withUser(guildID, userID, nil)); err != nil {
		return 0, err
	}
	return n, nil
}

// withUser returns a copy of the data where userID has list. Users without warns
// and guilds without users are dropped. Called with mu held.
func (s *Service) withUser(guildID, userID string, list []models.Warn) models.WarnsData {
	next := make(models.WarnsData, len(s.data)+1)
	for g, users := range s.data {
		next[g] = users
	}

	guild := make(models.GuildWarns, len(s.data[guildID])+1)
	for u, l := range s.data[guildID] {
		guild[u] = l
	}
	if len(list) == 0 {
		delete(guild, userID)
	} else {
		guild[userID] = list
	}

	if len(guild) == 0 {
		delete(next, guildID)
	} else {
		next[guildID] = guild
	}
	return next
}

// commit persists next and makes it current. Called with mu held.
func (s *Service) commit(ctx context.Context, next models.WarnsData) error {
	if err := s.store.Save(ctx, store.NameWarns, next); err != nil {
		return fmt.Errorf("save warns: %w", err)
	}
	s.data = next
	return nil
}
