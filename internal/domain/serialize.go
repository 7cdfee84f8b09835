package domain

import "strings"

// Dict is the plain keyed form of a record, ready for JSON or YAML encoding
type Dict map[string]any

// Suppressed relationship paths per record type. A path is relative to the
// record declaring it and is never expanded when serialization starts from,
// or passes through, that record.
var (
	heroSerializeRules      = []string{"hero_powers.hero", "hero_powers.power.hero"}
	powerSerializeRules     = []string{"hero_powers"}
	heroPowerSerializeRules = []string{"hero.hero_powers", "power.hero_powers"}
)

// serializable is implemented by every record type
type serializable interface {
	columns() Dict
	relations() []relation
	serializeRules() []string
}

// relation is one loaded relationship of a record. Exactly one of one and
// many is meaningful, selected by isMany.
type relation struct {
	name   string
	isMany bool
	one    serializable
	many   []serializable
}

// ToDict serializes the hero with its edges and each edge's power
func (h *Hero) ToDict() Dict {
	return toDict(h)
}

// ToDict serializes the power's columns. With includeHeroPowers the loaded
// edges are added under hero_powers, each serialized as HeroPower.ToDict does.
func (p *Power) ToDict(includeHeroPowers bool) Dict {
	d := toDict(p)
	if includeHeroPowers {
		edges := make([]Dict, 0, len(p.HeroPowers))
		for _, hp := range p.HeroPowers {
			edges = append(edges, hp.ToDict())
		}
		d["hero_powers"] = edges
	}
	return d
}

// ToDict serializes the edge with its hero and power
func (hp *HeroPower) ToDict() Dict {
	return toDict(hp)
}

func toDict(root serializable) Dict {
	w := &walker{}
	return w.walk(root, "")
}

type walker struct {
	rules []string
	stack []serializable
}

// walk serializes s, reached by path. Rules declared by s are added relative
// to path and stay in force while its relations are expanded.
func (w *walker) walk(s serializable, path string) Dict {
	nRules := len(w.rules)
	for _, rule := range s.serializeRules() {
		w.rules = append(w.rules, joinPath(path, rule))
	}
	w.stack = append(w.stack, s)
	defer func() {
		w.rules = w.rules[:nRules]
		w.stack = w.stack[:len(w.stack)-1]
	}()

	out := s.columns()
	for _, rel := range s.relations() {
		relPath := joinPath(path, rel.name)
		if w.suppressed(relPath) {
			continue
		}
		if rel.isMany {
			if rel.many == nil {
				continue
			}
			items := make([]Dict, 0, len(rel.many))
			for _, child := range rel.many {
				if w.onStack(child) {
					continue
				}
				items = append(items, w.walk(child, relPath))
			}
			out[rel.name] = items
			continue
		}
		if rel.one == nil || w.onStack(rel.one) {
			continue
		}
		out[rel.name] = w.walk(rel.one, relPath)
	}
	return out
}

func (w *walker) suppressed(path string) bool {
	for _, rule := range w.rules {
		if path == rule || strings.HasPrefix(path, rule+".") {
			return true
		}
	}
	return false
}

// onStack reports whether s is already being serialized further up the walk
func (w *walker) onStack(s serializable) bool {
	for _, a := range w.stack {
		if a == s {
			return true
		}
	}
	return false
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func (h *Hero) columns() Dict {
	return Dict{"id": h.ID, "name": h.Name, "super_name": h.SuperName}
}

func (h *Hero) relations() []relation {
	return []relation{manyRelation("hero_powers", h.HeroPowers)}
}

func (h *Hero) serializeRules() []string { return heroSerializeRules }

func (p *Power) columns() Dict {
	return Dict{"id": p.ID, "name": p.Name, "description": p.Description}
}

func (p *Power) relations() []relation {
	return []relation{manyRelation("hero_powers", p.HeroPowers)}
}

func (p *Power) serializeRules() []string { return powerSerializeRules }

func (hp *HeroPower) columns() Dict {
	return Dict{
		"id":       hp.ID,
		"strength": string(hp.Strength),
		"hero_id":  hp.HeroID,
		"power_id": hp.PowerID,
	}
}

func (hp *HeroPower) relations() []relation {
	rels := make([]relation, 0, 2)
	if hp.Hero != nil {
		rels = append(rels, relation{name: "hero", one: hp.Hero})
	}
	if hp.Power != nil {
		rels = append(rels, relation{name: "power", one: hp.Power})
	}
	return rels
}

func (hp *HeroPower) serializeRules() []string { return heroPowerSerializeRules }

func manyRelation(name string, edges []*HeroPower) relation {
	rel := relation{name: name, isMany: true}
	if edges == nil {
		return rel
	}
	rel.many = make([]serializable, len(edges))
	for i, hp := range edges {
		rel.many[i] = hp
	}
	return rel
}
