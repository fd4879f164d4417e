package main

import (
	"fmt"
	"math/rand"
	"reflect"

	"github.com/plus3/densecs/ecs"
	"github.com/rs/zerolog"
)

// Workload is the synthetic world a stress run drives: generated component
// and tag types registered with one manager, plus the systems that mutate it.
type Workload struct {
	Registry   *ecs.SignatureRegistry
	Manager    *ecs.EntityManager
	Components []reflect.Type
	Tags       []reflect.Type

	rng *rand.Rand
}

// generatedTypes builds count distinct struct types named by prefix. Types
// with different field names are distinct, so each gets its own bit.
func generatedTypes(prefix string, count int, field reflect.Type) []reflect.Type {
	types := make([]reflect.Type, count)
	for i := range types {
		types[i] = reflect.StructOf([]reflect.StructField{{
			Name: fmt.Sprintf("%s%d", prefix, i),
			Type: field,
		}})
	}
	return types
}

func NewWorkload(cfg Config, logger zerolog.Logger) (*Workload, error) {
	registry := ecs.NewSignatureRegistry(cfg.Components, cfg.Tags)

	components := generatedTypes("C", cfg.Components, reflect.TypeFor[float32]())
	for _, t := range components {
		if _, err := registry.RegisterComponentType(t); err != nil {
			return nil, err
		}
	}
	tags := generatedTypes("T", cfg.Tags, reflect.TypeFor[struct{}]())
	for _, t := range tags {
		if _, err := registry.RegisterTagType(t); err != nil {
			return nil, err
		}
	}

	opts := []ecs.Option{ecs.WithLogger(logger)}
	if cfg.FixedCapacity {
		opts = append(opts, ecs.WithFixedCapacity())
	}

	return &Workload{
		Registry:   registry,
		Manager:    ecs.NewEntityManager(registry, cfg.Capacity, opts...),
		Components: components,
		Tags:       tags,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Populate creates n entities with 1 to 5 random components and, half the
// time, one random tag.
func (w *Workload) Populate(n int) error {
	for i := 0; i < n; i++ {
		id, err := w.Manager.CreateEntity()
		if err != nil {
			return err
		}
		if err := w.randomize(id); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workload) randomize(id ecs.EntityId) error {
	numComponents := w.rng.Intn(5) + 1
	for j := 0; j < numComponents; j++ {
		if err := w.Manager.AddComponent(id, w.randomComponent()); err != nil {
			return err
		}
	}
	if len(w.Tags) > 0 && w.rng.Intn(2) == 0 {
		return w.Manager.AddTag(id, w.randomTag())
	}
	return nil
}

func (w *Workload) randomComponent() reflect.Type {
	return w.Components[w.rng.Intn(len(w.Components))]
}

func (w *Workload) randomTag() reflect.Type {
	return w.Tags[w.rng.Intn(len(w.Tags))]
}

func (w *Workload) randomEntity() (ecs.EntityId, bool) {
	n := w.Manager.Len()
	if n == 0 {
		return 0, false
	}
	return ecs.EntityId(w.rng.Intn(n)), true
}

// Systems returns the stress systems in run order.
func (w *Workload) Systems(churn float64) []ecs.System {
	return []ecs.System{
		&ChurnSystem{workload: w, rate: churn},
		&MembershipSystem{workload: w, rate: churn},
		NewQuerySystem(w),
	}
}

// ChurnSystem queues destroys and creates for a fraction of live entities
// each frame. All changes go through the frame's commands.
type ChurnSystem struct {
	workload *Workload
	rate     float64

	Created   int64
	Destroyed int64
}

func (s *ChurnSystem) Execute(frame *ecs.UpdateFrame) {
	w := s.workload
	n := int(float64(frame.Manager.Len()) * s.rate)
	for i := 0; i < n; i++ {
		if id, ok := w.randomEntity(); ok {
			frame.Commands.Destroy(id)
			s.Destroyed++
		}
		frame.Commands.Create(func(id ecs.EntityId) {
			if err := w.randomize(id); err != nil {
				frame.Manager.Logger().Debug().Err(err).Msg("randomize created entity")
			}
		})
		s.Created++
	}
}

// MembershipSystem toggles random component and tag bits.
type MembershipSystem struct {
	workload *Workload
	rate     float64

	Toggles int64
}

func (s *MembershipSystem) Execute(frame *ecs.UpdateFrame) {
	w := s.workload
	n := int(float64(frame.Manager.Len()) * s.rate)
	for i := 0; i < n; i++ {
		id, ok := w.randomEntity()
		if !ok {
			return
		}

		s.Toggles++
		if len(w.Tags) > 0 && w.rng.Intn(2) == 0 {
			tag := w.randomTag()
			if has, _ := frame.Manager.HasTag(id, tag); has {
				frame.Commands.RemoveTag(id, tag)
			} else {
				frame.Commands.AddTag(id, tag)
			}
			continue
		}

		component := w.randomComponent()
		if has, _ := frame.Manager.HasComponent(id, component); has {
			frame.Commands.RemoveComponent(id, component)
		} else {
			frame.Commands.AddComponent(id, component)
		}
	}
}

// QuerySystem evaluates a fixed set of filters every frame.
type QuerySystem struct {
	filters []*ecs.Filter

	Matched int64
	Errors  int64
}

func NewQuerySystem(w *Workload) *QuerySystem {
	s := &QuerySystem{}

	first := ecs.NewFilter(w.Registry).WithComponent(w.Components[0])
	s.filters = append(s.filters, first)

	if len(w.Components) > 1 {
		pair := ecs.NewFilter(w.Registry).
			WithComponent(w.Components[0]).
			WithComponent(w.Components[1])
		s.filters = append(s.filters, pair)
	}
	if len(w.Tags) > 0 {
		untagged := ecs.NewFilter(w.Registry).
			WithComponent(w.Components[len(w.Components)-1]).
			WithoutTag(w.Tags[0])
		s.filters = append(s.filters, untagged)
	}
	return s
}

func (s *QuerySystem) Execute(frame *ecs.UpdateFrame) {
	for _, f := range s.filters {
		n, err := frame.Manager.CountMatching(f)
		if err != nil {
			s.Errors++
			continue
		}
		s.Matched += int64(n)
	}
}
