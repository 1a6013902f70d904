package layout

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// cnf wraps a gini.Gini instance with the small set of Tseitin gadgets the
// tile-grid encoder needs: at-least-one, at-most-one, implication, and
// auxiliary AND/OR literals. gini itself only exposes raw clause addition
// (Add/z.LitNull-terminated), so every higher-level gate the spec's
// Boolean model needs is built here once and reused.
type cnf struct {
	g          *gini.Gini
	clauses    int
	auxCounter int
}

func newCNF() *cnf {
	return &cnf{g: gini.New()}
}

// lit allocates a fresh Boolean variable.
func (c *cnf) lit() z.Lit {
	return c.g.Lit()
}

// clause adds a single disjunctive clause.
func (c *cnf) clause(lits ...z.Lit) {
	for _, l := range lits {
		c.g.Add(l)
	}
	c.g.Add(z.LitNull)
	c.clauses++
}

// unit forces lit to true.
func (c *cnf) unit(lit z.Lit) {
	c.clause(lit)
}

// implies adds a => b.
func (c *cnf) implies(a, b z.Lit) {
	c.clause(a.Not(), b)
}

// impliesAll adds a => (b1 AND b2 AND ...).
func (c *cnf) impliesAll(a z.Lit, bs ...z.Lit) {
	for _, b := range bs {
		c.implies(a, b)
	}
}

// atLeastOne adds the constraint that at least one of lits holds.
func (c *cnf) atLeastOne(lits []z.Lit) {
	if len(lits) == 0 {
		// At least one of nothing cannot hold: post a contradiction.
		r := c.lit()
		c.unit(r)
		c.unit(r.Not())
		return
	}
	c.clause(lits...)
}

// atMostOne adds pairwise mutual exclusion over lits (quadratic, fine for
// the small groups the encoder uses: 4 type vars, 4 direction vars, and a
// handful of anchors/edge-owners per cell).
func (c *cnf) atMostOne(lits []z.Lit) {
	for i := 0; i < len(lits); i++ {
		for j := i + 1; j < len(lits); j++ {
			c.clause(lits[i].Not(), lits[j].Not())
		}
	}
}

// exactlyOne combines atLeastOne and atMostOne.
func (c *cnf) exactlyOne(lits []z.Lit) {
	c.atLeastOne(lits)
	c.atMostOne(lits)
}

// iff adds a <=> b.
func (c *cnf) iff(a, b z.Lit) {
	c.clause(a.Not(), b)
	c.clause(a, b.Not())
}

// and2 returns a fresh literal equivalent to (a AND b).
func (c *cnf) and2(a, b z.Lit) z.Lit {
	r := c.lit()
	c.clause(r.Not(), a)
	c.clause(r.Not(), b)
	c.clause(r, a.Not(), b.Not())
	return r
}

// orN returns a fresh literal equivalent to OR(lits...).
func (c *cnf) orN(lits []z.Lit) z.Lit {
	r := c.lit()
	// OR(lits) => r: each disjunct alone implies r.
	for _, l := range lits {
		c.clause(l.Not(), r)
	}
	// r => OR(lits).
	full := make([]z.Lit, 0, len(lits)+1)
	full = append(full, r.Not())
	full = append(full, lits...)
	c.clause(full...)
	return r
}
