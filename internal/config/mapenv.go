package config

import (
	"sort"

	"github.com/bitrise-io/go-utils/v2/env"
)

// MapEnv is an in-memory env.Repository. It lets callers configure the runner
// without touching the process environment.
type MapEnv map[string]string

var _ env.Repository = MapEnv{}

// List returns KEY=VALUE pairs sorted by key.
func (m MapEnv) List() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+m[k])
	}
	return out
}

func (m MapEnv) Unset(key string) error {
	delete(m, key)
	return nil
}

func (m MapEnv) Get(key string) string {
	return m[key]
}

func (m MapEnv) Set(key, value string) error {
	m[key] = value
	return nil
}
