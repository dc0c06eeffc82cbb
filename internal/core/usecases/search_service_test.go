package usecases_test

import (
	"context"
	"testing"

	"github.com/mutcampus/roomfinder/internal/core/domain"
	"github.com/mutcampus/roomfinder/internal/core/usecases"
)

func testRooms() []domain.Room {
	return []domain.Room{
		{Name: "Lab 1", Building: "Science Block", Floor: "1"},
		{Name: "Lab 2", Building: "Science Block", Floor: "1"},
		{Name: "Lecture Hall A", Building: "Main"},
		{Name: "Library", Building: "Main", Coordinate: &domain.GeoPoint{Lat: -0.75, Lon: 37.15}},
	}
}

func TestRoomSearchService_EmptyQueryReturnsAll(t *testing.T) {
	svc := usecases.NewRoomSearchService(testRooms(), 5, 60, nil)

	results := svc.Search(context.Background(), "")
	if len(results) != 4 {
		t.Fatalf("expected 4 rooms, got %d", len(results))
	}
	if results[0].Name != "Lab 1" || results[3].Name != "Library" {
		t.Errorf("unexpected order: %v", results)
	}

	// The returned slice must be a copy
	results[0].Name = "mutated"
	again := svc.Search(context.Background(), "")
	if again[0].Name != "Lab 1" {
		t.Error("Search returned an aliased slice")
	}
}

func TestRoomSearchService_SubstringMatch(t *testing.T) {
	svc := usecases.NewRoomSearchService(testRooms(), 5, 60, nil)

	results := svc.Search(context.Background(), "lib")
	if len(results) != 1 {
		t.Fatalf("expected 1 room, got %d: %v", len(results), results)
	}
	if results[0].Name != "Library" {
		t.Errorf("expected Library, got %s", results[0].Name)
	}
}

func TestRoomSearchService_NoDuplicates(t *testing.T) {
	// "Lab 1" matches both the substring set and the fuzzy set.
	svc := usecases.NewRoomSearchService(testRooms(), 5, 60, nil)

	results := svc.Search(context.Background(), "Lab 1")
	seen := make(map[string]int)
	for _, r := range results {
		seen[r.Name]++
	}
	for name, count := range seen {
		if count > 1 {
			t.Errorf("room %q returned %d times", name, count)
		}
	}
	if seen["Lab 1"] != 1 {
		t.Errorf("expected Lab 1 in results, got %v", results)
	}
}

func TestRoomSearchService_UnionSortedByName(t *testing.T) {
	svc := usecases.NewRoomSearchService(testRooms(), 5, 60, nil)

	results := svc.Search(context.Background(), "lab")
	if len(results) < 2 {
		t.Fatalf("expected at least the two labs, got %v", results)
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Name > results[i].Name {
			t.Errorf("results not sorted: %q before %q", results[i-1].Name, results[i].Name)
		}
	}
}

func TestRoomSearchService_Suggestions(t *testing.T) {
	svc := usecases.NewRoomSearchService(testRooms(), 5, 60, nil)

	names := svc.Suggestions(context.Background(), "Libary")
	if len(names) == 0 {
		t.Fatal("expected a suggestion for a near-miss query")
	}
	if names[0] != "Library" {
		t.Errorf("expected Library as best match, got %q", names[0])
	}
}

func TestRoomSearchService_SuggestionsEmptyQuery(t *testing.T) {
	svc := usecases.NewRoomSearchService(testRooms(), 5, 60, nil)

	if names := svc.Suggestions(context.Background(), ""); len(names) != 0 {
		t.Errorf("expected no suggestions for empty query, got %v", names)
	}
}

func TestRoomSearchService_SuggestionsRespectLimit(t *testing.T) {
	rooms := []domain.Room{
		{Name: "Room 101"}, {Name: "Room 102"}, {Name: "Room 103"},
		{Name: "Room 104"}, {Name: "Room 105"}, {Name: "Room 106"},
	}
	svc := usecases.NewRoomSearchService(rooms, 3, 60, nil)

	names := svc.Suggestions(context.Background(), "Room 10")
	if len(names) > 3 {
		t.Errorf("expected at most 3 suggestions, got %d: %v", len(names), names)
	}
}

func TestRoomSearchService_ThresholdFiltersUnrelated(t *testing.T) {
	svc := usecases.NewRoomSearchService(testRooms(), 5, 60, nil)

	names := svc.Suggestions(context.Background(), "zzzzzzzz")
	if len(names) != 0 {
		t.Errorf("expected no suggestions for an unrelated query, got %v", names)
	}
}
