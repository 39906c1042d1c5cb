package vars

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// GeneratorFunc produces a fresh value for one placeholder occurrence.
type GeneratorFunc func() string

// Registry maps the reserved dynamic placeholder names to their
// generators.
type Registry struct {
	funcs map[string]GeneratorFunc
}

func NewRegistry() *Registry {
	r := &Registry{
		funcs: make(map[string]GeneratorFunc),
	}
	r.registerDefaults()
	return r
}

func (r *Registry) registerDefaults() {
	r.funcs["$uuid"] = genUUID
	r.funcs["$timestamp"] = genTimestamp
	r.funcs["$randomInt"] = genRandomInt
}

func (r *Registry) Lookup(name string) (GeneratorFunc, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

func genUUID() string {
	return uuid.New().String()
}

func genTimestamp() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

// genRandomInt derives a small integer from sub-second clock bits. The
// range is [0, 1000); the distribution is not a contract.
func genRandomInt() string {
	return strconv.Itoa(time.Now().Nanosecond() % 1000)
}
