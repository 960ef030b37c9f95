package identity

import (
	"fmt"
	"strings"

	"github.com/f1muse/f1-etl-go/log"
	"github.com/f1muse/f1-etl-go/pkg/model"
)

// Resolver maps provider driver/team mnemonics to canonical identifiers.
// Resolution never fails: unmapped mnemonics get a synthesized identifier
// and a warning. The synthesis is deterministic, which keeps upserts of
// re-runs idempotent.
type Resolver struct {
	mapping map[string]string // mnemonic (upper) -> canonical id
	aliases map[string]string // synthesized id -> canonical id override
	logger  *log.Logger
}

type Option func(r *Resolver)

// WithMapping sets the identity map loaded from the database.
func WithMapping(mapping map[string]string) Option {
	return func(r *Resolver) {
		for k, v := range mapping {
			r.mapping[strings.ToUpper(k)] = v
		}
	}
}

// WithAliases sets overrides for synthesized ids whose canonical form
// differs (e.g. carlos_sainz -> carlos_sainz_jr).
func WithAliases(aliases map[string]string) Option {
	return func(r *Resolver) {
		r.aliases = aliases
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		mapping: make(map[string]string),
		aliases: make(map[string]string),
		logger:  log.Default().Named("identity"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the canonical id for a driver entry.
func (r *Resolver) Resolve(d model.DriverInfo) string {
	abbrev := strings.ToUpper(d.Abbreviation)
	if id, ok := r.mapping[abbrev]; ok {
		return id
	}

	if d.FirstName != "" && d.LastName != "" {
		id := r.applyAlias(synthesize(d.FirstName, d.LastName))
		r.logger.Warn("driver not in identity map, synthesized id",
			log.String("abbrev", abbrev),
			log.String("driverId", id))
		return id
	}
	if abbrev != "" {
		r.logger.Warn("could not resolve driver, using mnemonic",
			log.String("abbrev", abbrev))
		return strings.ToLower(abbrev)
	}
	r.logger.Warn("driver has no usable identity, using provider key",
		log.String("key", d.Key))
	return fmt.Sprintf("driver_%s", strings.ToLower(d.Key))
}

func (r *Resolver) applyAlias(id string) string {
	if canonical, ok := r.aliases[id]; ok {
		return canonical
	}
	return id
}

func synthesize(first, last string) string {
	norm := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		return strings.ReplaceAll(s, " ", "_")
	}
	return fmt.Sprintf("%s_%s", norm(first), norm(last))
}
