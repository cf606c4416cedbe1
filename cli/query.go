package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/seanchatmangpt/kgcl/rdf"
	"github.com/seanchatmangpt/kgcl/store"
)

var (
	querySubject   string
	queryPredicate string
	queryObject    string
	queryGraph     string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "match quads against a subject/predicate/object/graph pattern",
	Long: `query runs a pattern match against the current graph. Each of
--subject/--predicate/--object/--graph narrows the match when set; an
unset field matches anything. Results print as N-Quads lines.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&querySubject, "subject", "", "subject IRI to match")
	queryCmd.Flags().StringVar(&queryPredicate, "predicate", "", "predicate IRI to match")
	queryCmd.Flags().StringVar(&queryObject, "object", "", "object IRI to match (literals are not supported as a filter)")
	queryCmd.Flags().StringVar(&queryGraph, "graph", "", "named graph to match")
	RootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := newLogger(cfg)

	e, closeEngine, err := buildEngine(cfg)
	if err != nil {
		logger.WithError(err).Error("failed to build engine")
		os.Exit(ExitInternalFailure)
		return err
	}
	defer closeEngine()

	pattern := store.Pattern{}
	if querySubject != "" {
		t := rdf.IRI(querySubject)
		pattern.Subject = &t
	}
	if queryPredicate != "" {
		t := rdf.IRI(queryPredicate)
		pattern.Predicate = &t
	}
	if queryObject != "" {
		t := rdf.IRI(queryObject)
		pattern.Object = &t
	}
	if queryGraph != "" {
		t := rdf.IRI(queryGraph)
		pattern.Graph = &t
	}

	matches := e.Store().Match(pattern)
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}
	for _, q := range matches {
		os.Stdout.WriteString(q.String() + "\n")
	}
	return nil
}

var jsonOutput bool

func init() {
	queryCmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON instead of N-Quads")
}
