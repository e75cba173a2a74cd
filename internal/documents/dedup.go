package documents

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/domeohq/doors-backend/pkg/enums"
	"github.com/domeohq/doors-backend/pkg/logger"
)

// Match phases reported alongside a resolved duplicate.
const (
	MatchPhaseStrict = "strict"
	MatchPhaseFuzzy  = "fuzzy"
)

// Orders keep a wider fuzzy window than child documents. Checkout retries
// against the root document arrive further apart than double-clicks on a
// quote or invoice button.
const orderFuzzyLimit = 20

// Resolver runs the two-phase duplicate search over persisted documents.
type Resolver struct {
	comparator *Comparator
	tolerance  decimal.Decimal
	fuzzyLimit int
	logg       *logger.Logger
}

// NewResolver builds a resolver with the configured tolerance and fuzzy limit.
func NewResolver(comparator *Comparator, tolerance decimal.Decimal, fuzzyLimit int, logg *logger.Logger) *Resolver {
	if fuzzyLimit <= 0 {
		fuzzyLimit = 10
	}
	return &Resolver{
		comparator: comparator,
		tolerance:  tolerance,
		fuzzyLimit: fuzzyLimit,
		logg:       logg,
	}
}

// lookup carries the scope of one duplicate search.
type lookup struct {
	docType     enums.DocumentType
	parent      *uuid.UUID
	session     *string
	clientID    *uuid.UUID
	normalized  []CanonicalItem
	totalAmount decimal.Decimal
}

// Find returns the most recent persisted document whose content matches, plus
// the phase that matched, or nil when creation should proceed.
func (r *Resolver) Find(ctx context.Context, repo Repository, docType enums.DocumentType, parent *uuid.UUID, session *string, clientID *uuid.UUID, normalized []CanonicalItem, totalAmount decimal.Decimal) (*Candidate, string, error) {
	scope := lookup{
		docType:     docType,
		parent:      parent,
		session:     session,
		clientID:    clientID,
		normalized:  normalized,
		totalAmount: totalAmount,
	}
	if docType == enums.DocumentTypeOrder {
		// Orders are the hierarchy root; their parent scope is always null.
		scope.parent = nil
		return r.findOrder(ctx, repo, scope)
	}
	return r.findChild(ctx, repo, scope)
}

func (r *Resolver) findOrder(ctx context.Context, repo Repository, scope lookup) (*Candidate, string, error) {
	min := scope.totalAmount.Sub(r.tolerance)
	max := scope.totalAmount.Add(r.tolerance)

	// Phase 1: session-scoped lookup, the common idempotent-retry case.
	if scope.session != nil && *scope.session != "" {
		candidates, err := repo.FindCandidates(ctx, CandidateQuery{
			Type:          scope.docType,
			ClientID:      scope.clientID,
			FilterParent:  true,
			Session:       scope.session,
			FilterSession: true,
			TotalMin:      &min,
			TotalMax:      &max,
			Limit:         1,
		})
		if err != nil {
			return nil, "", err
		}
		if match := r.firstMatch(ctx, candidates, scope.normalized); match != nil {
			return match, MatchPhaseStrict, nil
		}
	}

	// Phase 2: content search across the client's recent orders, regardless
	// of session.
	candidates, err := repo.FindCandidates(ctx, CandidateQuery{
		Type:         scope.docType,
		ClientID:     scope.clientID,
		FilterParent: true,
		TotalMin:     &min,
		TotalMax:     &max,
		Limit:        orderFuzzyLimit,
	})
	if err != nil {
		return nil, "", err
	}
	if match := r.firstMatch(ctx, candidates, scope.normalized); match != nil {
		return match, MatchPhaseFuzzy, nil
	}
	return nil, "", nil
}

func (r *Resolver) findChild(ctx context.Context, repo Repository, scope lookup) (*Candidate, string, error) {
	strict := CandidateQuery{
		Type:          scope.docType,
		Parent:        scope.parent,
		FilterParent:  true,
		Session:       scope.session,
		FilterSession: true,
		Limit:         1,
	}
	if scope.docType == enums.DocumentTypeSupplierOrder {
		// Supplier orders have no client scope and tolerate total drift even
		// in the strict phase.
		min := scope.totalAmount.Sub(r.tolerance)
		max := scope.totalAmount.Add(r.tolerance)
		strict.TotalMin = &min
		strict.TotalMax = &max
	} else {
		strict.ClientID = scope.clientID
		total := scope.totalAmount
		strict.TotalExact = &total
	}

	candidates, err := repo.FindCandidates(ctx, strict)
	if err != nil {
		return nil, "", err
	}
	if match := r.firstMatch(ctx, candidates, scope.normalized); match != nil {
		return match, MatchPhaseStrict, nil
	}

	min := scope.totalAmount.Sub(r.tolerance)
	max := scope.totalAmount.Add(r.tolerance)
	fuzzy := CandidateQuery{
		Type:         scope.docType,
		Parent:       scope.parent,
		FilterParent: true,
		TotalMin:     &min,
		TotalMax:     &max,
		Limit:        r.fuzzyLimit,
	}
	if scope.docType != enums.DocumentTypeSupplierOrder {
		fuzzy.ClientID = scope.clientID
	}

	candidates, err = repo.FindCandidates(ctx, fuzzy)
	if err != nil {
		return nil, "", err
	}
	if match := r.firstMatch(ctx, candidates, scope.normalized); match != nil {
		return match, MatchPhaseFuzzy, nil
	}
	return nil, "", nil
}

func (r *Resolver) firstMatch(ctx context.Context, candidates []Candidate, normalized []CanonicalItem) *Candidate {
	for i := range candidates {
		if r.comparator.EqualContent(ctx, normalized, candidates[i].CartData) {
			return &candidates[i]
		}
	}
	return nil
}
