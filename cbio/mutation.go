package cbio

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord is returned (wrapped) by response validation when a
// mutation record is missing required fields.
var ErrInvalidRecord = errors.New("invalid mutation record")

// Mutation is a single mutation call for one sample.
type Mutation struct {
	Gene            string
	EntrezGeneID    int
	SampleID        string
	MutationType    string
	ProteinChange   string
	Chromosome      string
	StartPosition   int
	EndPosition     int
	ReferenceAllele string
	VariantAllele   string

	// Read counts are optional in the API.
	TumorAltCount *int
	TumorRefCount *int
}

// AltCount returns the tumor alternate allele count, or 0 if it is missing.
func (m Mutation) AltCount() int {
	if m.TumorAltCount == nil {
		return 0
	}
	return *m.TumorAltCount
}

// RefCount returns the tumor reference allele count, or 0 if it is missing.
func (m Mutation) RefCount() int {
	if m.TumorRefCount == nil {
		return 0
	}
	return *m.TumorRefCount
}

// apiGene is the nested gene object of a DETAILED projection.
type apiGene struct {
	EntrezGeneID int    `json:"entrezGeneId"`
	HugoSymbol   string `json:"hugoGeneSymbol"`
}

// apiMutation is the JSON shape of a mutation returned by
// GET /molecular-profiles/{id}/mutations.
type apiMutation struct {
	Gene            *apiGene `json:"gene"`
	EntrezGeneID    int      `json:"entrezGeneId"`
	SampleID        string   `json:"sampleId"`
	MutationType    string   `json:"mutationType"`
	ProteinChange   string   `json:"proteinChange"`
	Chr             string   `json:"chr"`
	StartPosition   int      `json:"startPosition"`
	EndPosition     int      `json:"endPosition"`
	ReferenceAllele string   `json:"referenceAllele"`
	VariantAllele   string   `json:"variantAllele"`
	TumorAltCount   *int     `json:"tumorAltCount"`
	TumorRefCount   *int     `json:"tumorRefCount"`
}

// toMutation maps an API record to a Mutation. A record without gene
// information gets the gene "N/A".
//
// When strict is true, records without a mutation type or with negative read
// counts are rejected.
func (am apiMutation) toMutation(strict bool) (Mutation, error) {
	m := Mutation{
		Gene:            "N/A",
		EntrezGeneID:    am.EntrezGeneID,
		SampleID:        am.SampleID,
		MutationType:    am.MutationType,
		ProteinChange:   am.ProteinChange,
		Chromosome:      am.Chr,
		StartPosition:   am.StartPosition,
		EndPosition:     am.EndPosition,
		ReferenceAllele: am.ReferenceAllele,
		VariantAllele:   am.VariantAllele,
		TumorAltCount:   am.TumorAltCount,
		TumorRefCount:   am.TumorRefCount,
	}
	if am.Gene != nil && len(am.Gene.HugoSymbol) > 0 {
		m.Gene = am.Gene.HugoSymbol
		if m.EntrezGeneID == 0 {
			m.EntrezGeneID = am.Gene.EntrezGeneID
		}
	}
	if !strict {
		return m, nil
	}

	switch {
	case len(m.MutationType) == 0:
		return Mutation{}, fmt.Errorf("%w: sample '%s' has no mutation type",
			ErrInvalidRecord, m.SampleID)
	case m.TumorAltCount != nil && *m.TumorAltCount < 0:
		return Mutation{}, fmt.Errorf("%w: negative tumor alt count %d",
			ErrInvalidRecord, *m.TumorAltCount)
	case m.TumorRefCount != nil && *m.TumorRefCount < 0:
		return Mutation{}, fmt.Errorf("%w: negative tumor ref count %d",
			ErrInvalidRecord, *m.TumorRefCount)
	}
	return m, nil
}
