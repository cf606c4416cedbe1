package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/seanchatmangpt/kgcl/delta"
	"github.com/seanchatmangpt/kgcl/rdf"
)

// quadDTO is the CLI's JSON wire shape for a quad: simpler than N-Quads
// text, and round-trips through encoding/json without a custom parser.
type quadDTO struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
	ObjectLit bool   `json:"objectLiteral,omitempty"`
	Datatype  string `json:"datatype,omitempty"`
	Lang      string `json:"lang,omitempty"`
	Graph     string `json:"graph,omitempty"`
}

func (d quadDTO) toQuad() rdf.Quad {
	obj := rdf.IRI(d.Object)
	switch {
	case d.Lang != "":
		obj = rdf.LangLiteral(d.Object, d.Lang)
	case d.ObjectLit:
		obj = rdf.Literal(d.Object, d.Datatype)
	}
	q := rdf.NewQuad(rdf.IRI(d.Subject), rdf.IRI(d.Predicate), obj)
	if d.Graph != "" {
		q.Graph = rdf.IRI(d.Graph)
	}
	return q
}

type deltaDTO struct {
	Additions []quadDTO `json:"additions"`
	Removals  []quadDTO `json:"removals"`
}

func (d deltaDTO) toQuads() (additions, removals []rdf.Quad) {
	for _, a := range d.Additions {
		additions = append(additions, a.toQuad())
	}
	for _, r := range d.Removals {
		removals = append(removals, r.toQuad())
	}
	return additions, removals
}

var applyActor string
var applyFile string

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "apply a quad delta to the graph and print the receipt",
	Long: `apply reads a JSON-encoded delta (additions/removals, from --file
or stdin) and runs it through the kernel's transactional apply algorithm,
printing the resulting receipt as JSON.`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applyFile, "file", "", "delta file (JSON); defaults to stdin")
	applyCmd.Flags().StringVar(&applyActor, "actor", "cli", "actor recorded on the receipt")
	RootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := newLogger(cfg)

	var r io.Reader = os.Stdin
	if applyFile != "" {
		f, err := os.Open(applyFile)
		if err != nil {
			os.Exit(ExitValidationError)
			return err
		}
		defer f.Close()
		r = f
	}

	var dto deltaDTO
	if err := json.NewDecoder(r).Decode(&dto); err != nil {
		logger.WithError(err).Error("failed to decode delta")
		os.Exit(ExitValidationError)
		return err
	}
	additions, removals := dto.toQuads()

	qd, err := delta.New(additions, removals, cfg.BatchCeiling)
	if err != nil {
		logger.WithError(err).Error("delta rejected")
		os.Exit(ExitValidationError)
		return err
	}

	e, closeEngine, err := buildEngine(cfg)
	if err != nil {
		logger.WithError(err).Error("failed to build engine")
		os.Exit(ExitInternalFailure)
		return err
	}
	defer closeEngine()

	receipt := e.Apply(qd, applyActor)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(receipt); err != nil {
		return err
	}

	if !receipt.Committed {
		fmt.Fprintln(os.Stderr, "apply rejected:", receipt.Error)
		os.Exit(ExitHookRejection)
	}
	return nil
}
