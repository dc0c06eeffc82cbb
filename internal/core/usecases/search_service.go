package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	stringmetrics "github.com/adrg/strutil/metrics"

	"github.com/mutcampus/roomfinder/internal/core/domain"
	"github.com/mutcampus/roomfinder/internal/core/ports"
	"github.com/mutcampus/roomfinder/internal/pkg/metrics"
)

// RoomSearchService answers substring and fuzzy queries over the room
// directory. The room collection is fixed at construction and never mutated,
// so the service is safe for concurrent reads without locking.
type RoomSearchService struct {
	rooms     []domain.Room
	limit     int
	threshold int
	cache     ports.CacheService
}

// NewRoomSearchService creates a search service over an already-loaded,
// name-sorted room collection.
func NewRoomSearchService(rooms []domain.Room, fuzzyLimit, fuzzyThreshold int, cache ports.CacheService) *RoomSearchService {
	if fuzzyLimit <= 0 {
		fuzzyLimit = 5
	}
	return &RoomSearchService{
		rooms:     rooms,
		limit:     fuzzyLimit,
		threshold: fuzzyThreshold,
		cache:     cache,
	}
}

// All returns a defensive copy of the full room directory in loaded order.
func (s *RoomSearchService) All() []domain.Room {
	out := make([]domain.Room, len(s.rooms))
	copy(out, s.rooms)
	return out
}

// Search returns rooms matching the query by case-insensitive substring or by
// fuzzy name similarity, deduplicated by name and sorted ascending by
// case-insensitive name. An empty query returns the whole directory.
func (s *RoomSearchService) Search(ctx context.Context, query string) []domain.Room {
	if query == "" {
		metrics.SearchQueries.WithLabelValues("browse").Inc()
		return s.All()
	}
	metrics.SearchQueries.WithLabelValues("query").Inc()

	cacheKey := "rooms:search:" + strings.ToLower(query)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var rooms []domain.Room
			if err := json.Unmarshal(data, &rooms); err == nil {
				metrics.CacheHits.WithLabelValues("search").Inc()
				return rooms
			}
		}
		metrics.CacheMisses.WithLabelValues("search").Inc()
	}

	lowered := strings.ToLower(query)
	matched := make(map[string]domain.Room)
	for _, room := range s.rooms {
		if strings.Contains(strings.ToLower(room.Name), lowered) {
			matched[room.Name] = room
		}
	}
	for _, cand := range s.fuzzyCandidates(query) {
		matched[cand.room.Name] = cand.room
	}

	results := make([]domain.Room, 0, len(matched))
	for _, room := range matched {
		results = append(results, room)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
	})

	// Cache for 2 minutes
	if s.cache != nil {
		if data, err := json.Marshal(results); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 120)
		}
	}

	return results
}

// Suggestions returns up to limit room names ranked by fuzzy similarity to
// the query, best match first. Unlike Search, the order is relevance, not
// alphabetical, since these feed a "did you mean" hint list.
func (s *RoomSearchService) Suggestions(ctx context.Context, query string) []string {
	if query == "" {
		return nil
	}

	cacheKey := "rooms:suggest:" + strings.ToLower(query)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var names []string
			if err := json.Unmarshal(data, &names); err == nil {
				metrics.CacheHits.WithLabelValues("suggestions").Inc()
				return names
			}
		}
		metrics.CacheMisses.WithLabelValues("suggestions").Inc()
	}

	candidates := s.fuzzyCandidates(query)
	names := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		names = append(names, cand.room.Name)
	}

	if s.cache != nil {
		if data, err := json.Marshal(names); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 120)
		}
	}

	return names
}

type fuzzyCandidate struct {
	room  domain.Room
	score float64
}

// fuzzyCandidates scores every room name against the query on a 0-100
// normalized Levenshtein scale and returns the top matches at or above the
// threshold, best first. Ties break alphabetically so the ranking is
// deterministic for a fixed room set.
func (s *RoomSearchService) fuzzyCandidates(query string) []fuzzyCandidate {
	lev := stringmetrics.NewLevenshtein()
	lev.CaseSensitive = false

	candidates := make([]fuzzyCandidate, 0, len(s.rooms))
	for _, room := range s.rooms {
		score := strutil.Similarity(room.Name, query, lev) * 100
		if score >= float64(s.threshold) {
			candidates = append(candidates, fuzzyCandidate{room: room, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return strings.ToLower(candidates[i].room.Name) < strings.ToLower(candidates[j].room.Name)
	})

	if len(candidates) > s.limit {
		candidates = candidates[:s.limit]
	}
	return candidates
}

// CacheKeyPrefix is the namespace used for search-related cache entries.
// Dataset refreshes invalidate everything under it.
const CacheKeyPrefix = "rooms:"

// InvalidateSearchCaches drops all cached search and suggestion results.
func InvalidateSearchCaches(ctx context.Context, cache ports.CacheService) error {
	if cache == nil {
		return nil
	}
	if err := cache.DeleteByPrefix(ctx, CacheKeyPrefix); err != nil {
		return fmt.Errorf("invalidate search caches: %w", err)
	}
	return nil
}
