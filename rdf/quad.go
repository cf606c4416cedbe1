package rdf

// Triple is a (subject, predicate, object) statement. Subject and predicate
// are IRIs or blank nodes; object may additionally be a literal.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// Quad is a Triple scoped to a named graph. The zero Term denotes the
// default graph.
type Quad struct {
	Triple
	Graph Term
}

// Equal reports structural equality between two quads.
func (q Quad) Equal(o Quad) bool {
	return q.Subject == o.Subject && q.Predicate == o.Predicate &&
		q.Object == o.Object && q.Graph == o.Graph
}

// String renders the quad in N-Quads syntax, including the trailing period.
func (q Quad) String() string {
	s := q.Subject.String() + " " + q.Predicate.String() + " " + q.Object.String()
	if !q.Graph.IsZero() {
		s += " " + q.Graph.String()
	}
	return s + " ."
}

// NewQuad builds a Quad in the default graph.
func NewQuad(s, p, o Term) Quad {
	return Quad{Triple: Triple{Subject: s, Predicate: p, Object: o}}
}

// NewQuadIn builds a Quad in an explicit named graph.
func NewQuadIn(s, p, o, graph Term) Quad {
	return Quad{Triple: Triple{Subject: s, Predicate: p, Object: o}, Graph: graph}
}
