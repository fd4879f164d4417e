package ecs_test

import "github.com/plus3/densecs/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current int
	Max     int
}

type Name struct {
	Value string
}

// Tag types
type Player struct{}
type Enemy struct{}
type Dead struct{}

// Numbered tags so tests can address tag bits by position.
type Tag0 struct{}
type Tag1 struct{}
type Tag2 struct{}
type Tag3 struct{}
type Tag4 struct{}
type Tag5 struct{}
type Tag6 struct{}
type Tag7 struct{}

const (
	testMaxComponents = 8
	testMaxTags       = 16
)

func newTestRegistry() *ecs.SignatureRegistry {
	registry := ecs.NewSignatureRegistry(testMaxComponents, testMaxTags)
	ecs.MustRegisterComponent[Position](registry)
	ecs.MustRegisterComponent[Velocity](registry)
	ecs.MustRegisterComponent[Health](registry)
	ecs.MustRegisterComponent[Name](registry)

	ecs.MustRegisterTag[Tag0](registry)
	ecs.MustRegisterTag[Tag1](registry)
	ecs.MustRegisterTag[Tag2](registry)
	ecs.MustRegisterTag[Tag3](registry)
	ecs.MustRegisterTag[Tag4](registry)
	ecs.MustRegisterTag[Tag5](registry)
	ecs.MustRegisterTag[Tag6](registry)
	ecs.MustRegisterTag[Tag7](registry)
	ecs.MustRegisterTag[Player](registry)
	ecs.MustRegisterTag[Enemy](registry)
	ecs.MustRegisterTag[Dead](registry)
	return registry
}

func newTestManager(capacity int, opts ...ecs.Option) *ecs.EntityManager {
	return ecs.NewEntityManager(newTestRegistry(), capacity, opts...)
}

// spawn creates n entities and fails the test on error.
func spawn(tb interface {
	Helper()
	Fatalf(string, ...any)
}, m *ecs.EntityManager, n int) []ecs.EntityId {
	tb.Helper()
	ids := make([]ecs.EntityId, 0, n)
	for i := 0; i < n; i++ {
		id, err := m.CreateEntity()
		if err != nil {
			tb.Fatalf("create entity %d: %v", i, err)
		}
		ids = append(ids, id)
	}
	return ids
}
