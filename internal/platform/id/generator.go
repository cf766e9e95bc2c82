package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates ticket identifiers.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues random (v4) UUIDs.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return value.String(), nil
}

// Valid reports whether value is a UUID as issued by UUIDGenerator.
func Valid(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

// Sequence hands out fixed ids in order; used where a deterministic id is required.
type Sequence struct {
	IDs  []string
	next int
}

func (s *Sequence) NewID() (string, error) {
	if s.next >= len(s.IDs) {
		return "", fmt.Errorf("id sequence exhausted after %d ids", len(s.IDs))
	}
	value := s.IDs[s.next]
	s.next++
	return value, nil
}
