package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/field"
	"github.com/san-kum/attractor/internal/maps"
	"github.com/san-kum/attractor/internal/sweep"
)

// Registry names the map families, sweep waves and ceiling modes the CLI
// exposes.
type Registry struct {
	maps     map[string]dynamo.Kind
	ceilings map[string]field.CeilingMode
}

func NewRegistry() *Registry {
	r := &Registry{
		maps:     make(map[string]dynamo.Kind),
		ceilings: make(map[string]field.CeilingMode),
	}

	r.maps["clifford"] = dynamo.Clifford
	r.maps["ikeda"] = dynamo.IkedaLike

	r.ceilings["per_frame"] = field.PerFrame
	r.ceilings["fixed"] = field.Fixed

	return r
}

func (r *Registry) GetKind(name string) (dynamo.Kind, error) {
	if k, ok := r.maps[name]; ok {
		return k, nil
	}
	return dynamo.ParseKind(name)
}

func (r *Registry) GetMap(name string, p dynamo.Params) (dynamo.Map, error) {
	k, err := r.GetKind(name)
	if err != nil {
		return nil, err
	}
	return maps.New(k, p)
}

func (r *Registry) GetWave(name string) (sweep.Wave, error) {
	return sweep.LookupWave(name)
}

func (r *Registry) GetCeiling(name string) (field.CeilingMode, error) {
	m, ok := r.ceilings[name]
	if !ok {
		return "", fmt.Errorf("unknown ceiling mode: %s", name)
	}
	return m, nil
}

func (r *Registry) ListMaps() []string {
	return sortedKeys(r.maps)
}

func (r *Registry) ListWaves() []string {
	return sweep.WaveNames()
}

func (r *Registry) ListCeilings() []string {
	return sortedKeys(r.ceilings)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
