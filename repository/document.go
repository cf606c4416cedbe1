package repository

import (
	"context"
	"fmt"

	"github.com/seanchatmangpt/kgcl/db/bolt"
)

const (
	bucketSpecs = "specifications"
	bucketCases = "cases"
	bucketMarks = "markings"
)

// markingKey joins a case id and place URI into a single bbolt key, since
// bbolt buckets are flat key-value stores with no compound-key support.
func markingKey(caseID, placeURI string) string {
	return caseID + "\x1e" + placeURI
}

// Document is a bbolt-backed Repository: specifications, cases, and
// markings each live in their own bucket as JSON documents, so state
// survives process restarts without a separate database server.
type Document struct {
	db *bolt.DB
}

// OpenDocument opens (creating if necessary) a bbolt-backed repository at
// path.
func OpenDocument(path string) (*Document, error) {
	db, err := bolt.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document repository: %w", err)
	}
	for _, bucket := range []string{bucketSpecs, bucketCases, bucketMarks} {
		if err := db.CreateBucket(bucket); err != nil {
			return nil, err
		}
	}
	return &Document{db: db}, nil
}

func (d *Document) SaveSpecification(_ context.Context, spec Specification) error {
	return d.db.PutJSON(bucketSpecs, spec.URI, spec)
}

func (d *Document) GetSpecification(_ context.Context, uri string) (Specification, error) {
	var spec Specification
	if err := d.db.GetJSON(bucketSpecs, uri, &spec); err != nil {
		return Specification{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return spec, nil
}

func (d *Document) ListSpecifications(_ context.Context) ([]Specification, error) {
	var out []Specification
	err := d.db.ForEachJSON(bucketSpecs, func(_ string, value interface{}) error {
		out = append(out, *value.(*Specification))
		return nil
	}, func() interface{} { return &Specification{} })
	return out, err
}

func (d *Document) DeleteSpecification(_ context.Context, uri string) error {
	return d.db.Delete(bucketSpecs, uri)
}

func (d *Document) SaveCase(_ context.Context, c Case) error {
	return d.db.PutJSON(bucketCases, c.ID, c)
}

func (d *Document) GetCase(_ context.Context, id string) (Case, error) {
	var c Case
	if err := d.db.GetJSON(bucketCases, id, &c); err != nil {
		return Case{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return c, nil
}

func (d *Document) ListCases(_ context.Context, filter CaseFilter) ([]Case, error) {
	var out []Case
	err := d.db.ForEachJSON(bucketCases, func(_ string, value interface{}) error {
		c := *value.(*Case)
		if filter.Status == "" || c.Status == filter.Status {
			out = append(out, c)
		}
		return nil
	}, func() interface{} { return &Case{} })
	return out, err
}

func (d *Document) DeleteCase(_ context.Context, id string) error {
	return d.db.Delete(bucketCases, id)
}

func (d *Document) SaveMarking(_ context.Context, m Marking) error {
	return d.db.PutJSON(bucketMarks, markingKey(m.CaseID, m.PlaceURI), m)
}

func (d *Document) GetMarking(_ context.Context, caseID, placeURI string) (Marking, error) {
	var m Marking
	if err := d.db.GetJSON(bucketMarks, markingKey(caseID, placeURI), &m); err != nil {
		return Marking{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return m, nil
}

func (d *Document) ListMarkings(_ context.Context, caseID string) ([]Marking, error) {
	var out []Marking
	err := d.db.ForEachJSON(bucketMarks, func(_ string, value interface{}) error {
		m := *value.(*Marking)
		if m.CaseID == caseID {
			out = append(out, m)
		}
		return nil
	}, func() interface{} { return &Marking{} })
	return out, err
}

func (d *Document) DeleteMarking(_ context.Context, caseID, placeURI string) error {
	return d.db.Delete(bucketMarks, markingKey(caseID, placeURI))
}

func (d *Document) Close() error {
	return d.db.Close()
}

var _ Repository = (*Document)(nil)
