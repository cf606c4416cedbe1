package reasoner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/seanchatmangpt/kgcl/rdf"
	"github.com/seanchatmangpt/kgcl/store"
)

// wireQuad is the canonical JSON shape exchanged with an external reasoner
// process: one object per line on stdin, one per line on stdout.
type wireQuad struct {
	Subject   string `json:"s"`
	Predicate string `json:"p"`
	Object    string `json:"o"`
}

// Subprocess delegates reasoning to an external binary for rule sets
// expressed in a foreign reasoner's native syntax. The binary receives the
// current graph as newline-delimited JSON quads on stdin and the rule set
// as a JSON array, and must emit newline-delimited JSON quads (new triples
// only) on stdout.
type Subprocess struct {
	Command string
	Args    []string
}

// NewSubprocess builds a Subprocess adapter for the given external binary.
func NewSubprocess(command string, args ...string) *Subprocess {
	return &Subprocess{Command: command, Args: args}
}

func (s *Subprocess) Reason(ctx context.Context, view store.View, rules []Rule, timeout time.Duration) ([]rdf.Quad, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, s.Command, s.Args...)

	var stdin bytes.Buffer
	enc := json.NewEncoder(&stdin)
	for _, q := range view.All() {
		if err := enc.Encode(wireQuad{Subject: q.Subject.Value, Predicate: q.Predicate.Value, Object: q.Object.Value}); err != nil {
			return nil, fmt.Errorf("%w: encoding graph: %v", rdf.ErrReasonerFailure, err)
		}
	}
	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding rules: %v", rdf.ErrReasonerFailure, err)
	}
	stdin.WriteString("---RULES---\n")
	stdin.Write(rulesJSON)
	stdin.WriteString("\n")
	cmd.Stdin = &stdin

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		if runCtx.Err() != nil {
			return nil, fmt.Errorf("%w: reasoner process timed out after %s", rdf.ErrReasonerFailure, timeout)
		}
		return nil, fmt.Errorf("%w: reasoner process exited: %v", rdf.ErrReasonerFailure, err)
	}

	dec := json.NewDecoder(&stdout)
	var out []rdf.Quad
	for dec.More() {
		var wq wireQuad
		if err := dec.Decode(&wq); err != nil {
			// Malformed output from an external binary is dropped, not fatal:
			// §4.8 requires sanitizing parsed output, not trusting it wholesale.
			break
		}
		out = append(out, rdf.NewQuad(rdf.IRI(wq.Subject), rdf.IRI(wq.Predicate), rdf.IRI(wq.Object)))
	}
	return sanitize(out), nil
}

var _ Reasoner = (*Subprocess)(nil)
var _ Reasoner = (*InProcess)(nil)
