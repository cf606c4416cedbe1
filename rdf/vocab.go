package rdf

import "errors"

// ErrUnknownPrefix is returned by the mini SPARQL parser on an unresolvable
// prefixed name or a malformed triple pattern.
var ErrUnknownPrefix = errors.New("sparql: unknown prefix or malformed term")

// ErrReasonerFailure is returned by the reasoner adapters when a rule fails
// to compile, encoding or the reasoner process fails, or a timeout expires.
var ErrReasonerFailure = errors.New("reasoner failure")

// Vocabulary IRIs shared by the template store, reasoner, planner, and
// dispatcher — the fixed predicates the ontology-driven components agree
// on (§6.3).
const (
	NSKGC = "https://kgcl.dev/ns#"

	PredRDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	TypeExecutionTemplate = NSKGC + "ExecutionTemplate"

	PredTemplateVersion = NSKGC + "templateVersion"
	PredSparqlTemplate  = NSKGC + "sparqlTemplate"

	PredVerb     = NSKGC + "verb"
	PredTemplate = NSKGC + "template"
	PredPriority = NSKGC + "priority"

	PredShouldFire        = NSKGC + "shouldFire"
	PredRecommendedAction = NSKGC + "recommendedAction"
)

// KGC builds an IRI term in the kgc: namespace.
func KGC(local string) Term { return IRI(NSKGC + local) }
