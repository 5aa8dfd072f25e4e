package tags

import (
	"fmt"
	"sort"
	"sync"

	"github.com/npillmayer/mathtags/config"
)

// Constructor creates a tags engine.
type Constructor func() *Tags

// DefaultVariant is the name under which the default variant is registered.
const DefaultVariant = "default"

// The registry of tags variants is global to the process. It is configuration,
// not runtime data: entries persist until changed or ResetRegistry is called.
var registry = struct {
	sync.RWMutex
	variants map[string]Constructor
}{
	variants: builtinVariants(),
}

func builtinVariants() map[string]Constructor {
	return map[string]Constructor{
		DefaultVariant: NewAmsTags,
		"none":         NewNoTags,
		"all":          NewAllTags,
		"AMS":          NewAmsTags,
	}
}

// ResetRegistry restores the built-in variants, dropping all others.
func ResetRegistry() {
	registry.Lock()
	defer registry.Unlock()
	registry.variants = builtinVariants()
}

// Add registers a variant under name, replacing an existing one.
// A nil constructor is ignored.
func Add(name string, c Constructor) {
	if c == nil {
		tracer().Errorf("tags: ignoring nil constructor for variant %q", name)
		return
	}
	registry.Lock()
	defer registry.Unlock()
	registry.variants[name] = c
}

// Create creates an engine of the variant registered under name. For unknown
// names, the default variant is created.
func Create(name string) *Tags {
	t, err := CreateStrict(name)
	if err != nil {
		tracer().Infof("tags: %v, using default", err)
		return GetDefault()
	}
	return t
}

// CreateStrict is like Create, but returns ErrUnknownTagsVariant for
// unknown names.
func CreateStrict(name string) (*Tags, error) {
	registry.RLock()
	c, ok := registry.variants[name]
	registry.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTagsVariant, name)
	}
	return c(), nil
}

// SetDefault makes the variant registered under name the default. It returns
// ErrUnknownTagsVariant and leaves the default unchanged if name is unknown.
func SetDefault(name string) error {
	registry.Lock()
	defer registry.Unlock()
	c, ok := registry.variants[name]
	if !ok {
		return fmt.Errorf("%w: cannot make %q the default", ErrUnknownTagsVariant, name)
	}
	registry.variants[DefaultVariant] = c
	return nil
}

// GetDefault creates an engine of the default variant.
func GetDefault() *Tags {
	registry.RLock()
	c := registry.variants[DefaultVariant]
	registry.RUnlock()
	return c()
}

// Variants returns the names of all registered variants, sorted.
func Variants() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.variants))
	for name := range registry.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromOptions creates an engine of the variant named by option "tags" and
// configures it with opts.
func FromOptions(opts *config.Options) (*Tags, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	t, err := CreateStrict(opts.Tags)
	if err != nil {
		return nil, err
	}
	conf := t.Configuration()
	conf.Options = opts
	return t.Configure(conf), nil
}
