package domain

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGraph wires heroes and powers with one edge per pair, in both directions
func buildGraph(heroes, powers int) ([]*Hero, []*Power) {
	hs := make([]*Hero, heroes)
	for i := range hs {
		hs[i] = &Hero{ID: int64(i + 1), Name: fmt.Sprintf("hero-%d", i+1), SuperName: "super", HeroPowers: []*HeroPower{}}
	}
	ps := make([]*Power, powers)
	for i := range ps {
		ps[i] = &Power{ID: int64(i + 1), Name: fmt.Sprintf("power-%d", i+1), Description: "a long enough description", HeroPowers: []*HeroPower{}}
	}

	var id int64
	for _, h := range hs {
		for _, p := range ps {
			id++
			hp := &HeroPower{ID: id, Strength: StrengthAverage}
			h.AddHeroPower(hp)
			p.AddHeroPower(hp)
		}
	}
	return hs, ps
}

func TestHeroToDict(t *testing.T) {
	hero := &Hero{ID: 1, Name: "Kamala Khan", SuperName: "Ms. Marvel"}
	power := &Power{ID: 2, Name: "elasticity", Description: "Can stretch the body into extreme lengths."}
	hp := &HeroPower{ID: 3, Strength: StrengthAverage}
	hero.AddHeroPower(hp)
	power.AddHeroPower(hp)

	got := hero.ToDict()

	want := Dict{
		"id":         int64(1),
		"name":       "Kamala Khan",
		"super_name": "Ms. Marvel",
		"hero_powers": []Dict{{
			"id":       int64(3),
			"strength": "Average",
			"hero_id":  int64(1),
			"power_id": int64(2),
			"power": Dict{
				"id":          int64(2),
				"name":        "elasticity",
				"description": "Can stretch the body into extreme lengths.",
			},
		}},
	}
	assert.Equal(t, want, got)

	t.Run("unloaded edges are omitted", func(t *testing.T) {
		d := NewHero("a", "b").ToDict()
		assert.NotContains(t, d, "hero_powers")
	})

	t.Run("loaded empty edges serialize as empty list", func(t *testing.T) {
		h := &Hero{ID: 1, HeroPowers: []*HeroPower{}}
		assert.Equal(t, []Dict{}, h.ToDict()["hero_powers"])
	})
}

func TestPowerToDict(t *testing.T) {
	hs, ps := buildGraph(2, 1)
	power := ps[0]

	t.Run("without hero powers", func(t *testing.T) {
		d := power.ToDict(false)
		assert.Equal(t, Dict{"id": int64(1), "name": "power-1", "description": "a long enough description"}, d)
	})

	t.Run("with hero powers", func(t *testing.T) {
		d := power.ToDict(true)
		edges, ok := d["hero_powers"].([]Dict)
		require.True(t, ok)
		require.Len(t, edges, 2)

		for i, edge := range edges {
			assert.Equal(t, power.HeroPowers[i].ID, edge["id"])
			hero, ok := edge["hero"].(Dict)
			require.True(t, ok)
			assert.Equal(t, hs[i].ID, hero["id"])
			assert.NotContains(t, hero, "hero_powers")

			p, ok := edge["power"].(Dict)
			require.True(t, ok)
			assert.NotContains(t, p, "hero_powers")
		}
	})

	t.Run("with hero powers but none loaded", func(t *testing.T) {
		p := &Power{ID: 5, Description: "a long enough description"}
		assert.Equal(t, []Dict{}, p.ToDict(true)["hero_powers"])
	})
}

func TestHeroPowerToDict(t *testing.T) {
	_, ps := buildGraph(1, 1)
	hp := ps[0].HeroPowers[0]

	d := hp.ToDict()
	assert.Equal(t, "Average", d["strength"])

	hero := d["hero"].(Dict)
	power := d["power"].(Dict)
	assert.Equal(t, Dict{"id": int64(1), "name": "hero-1", "super_name": "super"}, hero)
	assert.Equal(t, Dict{"id": int64(1), "name": "power-1", "description": "a long enough description"}, power)

	t.Run("unloaded endpoints are omitted", func(t *testing.T) {
		d := (&HeroPower{ID: 1, Strength: StrengthWeak, HeroID: 1, PowerID: 1}).ToDict()
		assert.NotContains(t, d, "hero")
		assert.NotContains(t, d, "power")
	})
}

func TestToDictTerminatesOnDenseGraphs(t *testing.T) {
	hs, ps := buildGraph(25, 25)

	for _, h := range hs {
		d := h.ToDict()
		edges := d["hero_powers"].([]Dict)
		require.Len(t, edges, 25)
		for _, e := range edges {
			assert.NotContains(t, e, "hero")
			assert.NotContains(t, e["power"].(Dict), "hero_powers")
		}
	}

	for _, p := range ps {
		edges := p.ToDict(true)["hero_powers"].([]Dict)
		require.Len(t, edges, 25)
	}

	_, err := json.Marshal(hs[0].ToDict())
	require.NoError(t, err)
}

func TestToDictCycleGuard(t *testing.T) {
	// a rule set that allows back-references still terminates
	hs, _ := buildGraph(2, 2)
	saved := heroSerializeRules
	heroSerializeRules = nil
	savedEdge := heroPowerSerializeRules
	heroPowerSerializeRules = nil
	savedPower := powerSerializeRules
	powerSerializeRules = nil
	t.Cleanup(func() {
		heroSerializeRules = saved
		heroPowerSerializeRules = savedEdge
		powerSerializeRules = savedPower
	})

	d := hs[0].ToDict()
	edges := d["hero_powers"].([]Dict)
	require.Len(t, edges, 2)
	for _, e := range edges {
		// the root hero is on the stack and is not expanded again
		assert.NotContains(t, e, "hero")
		power := e["power"].(Dict)
		// the power's other edges are expanded, but never the current one
		assert.Len(t, power["hero_powers"], 1)
	}
}
