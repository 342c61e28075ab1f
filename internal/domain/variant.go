package domain

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// VariantID is either a temporary editor id (draft) or a stable stored id (persisted).
type VariantID struct {
	value string
	draft bool
}

func DraftID(tempID string) VariantID {
	return VariantID{value: tempID, draft: true}
}

func PersistedID(id string) VariantID {
	if id == "" {
		return DraftID("")
	}
	return VariantID{value: id}
}

func (v VariantID) IsDraft() bool  { return v.draft }
func (v VariantID) String() string { return v.value }

// VariantDraft is a variant as submitted by the product editor.
type VariantDraft struct {
	ID          VariantID
	DisplayKey  string
	Price       *float64
	IsFreeTrial bool
}

type variantDraftJSON struct {
	ID          string   `json:"id,omitempty"`
	TempID      string   `json:"tempId,omitempty"`
	DisplayKey  string   `json:"displayKey"`
	Price       *float64 `json:"price,omitempty"`
	IsFreeTrial bool     `json:"isFreeTrial"`
}

func (v VariantDraft) MarshalJSON() ([]byte, error) {
	out := variantDraftJSON{DisplayKey: v.DisplayKey, Price: v.Price, IsFreeTrial: v.IsFreeTrial}
	if v.ID.IsDraft() {
		out.TempID = v.ID.String()
	} else {
		out.ID = v.ID.String()
	}
	return json.Marshal(out)
}

func (v *VariantDraft) UnmarshalJSON(data []byte) error {
	var in variantDraftJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.ID != "" {
		v.ID = PersistedID(in.ID)
	} else {
		v.ID = DraftID(in.TempID)
	}
	v.DisplayKey = in.DisplayKey
	v.Price = in.Price
	v.IsFreeTrial = in.IsFreeTrial
	if v.IsFreeTrial {
		v.Price = nil
	}
	return nil
}

// SetFreeTrial toggles the free-trial flag. A free trial never carries a price.
func (v *VariantDraft) SetFreeTrial(on bool) {
	v.IsFreeTrial = on
	if on {
		v.Price = nil
	}
}

// SetPrice is ignored while the variant is a free trial.
func (v *VariantDraft) SetPrice(price *float64) {
	if v.IsFreeTrial {
		v.Price = nil
		return
	}
	v.Price = price
}

// ProductDraft is the editor payload for a product (or a mobile-data provider and its plans).
type ProductDraft struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Kind     ProductKind    `json:"kind"`
	Variants []VariantDraft `json:"variants"`
	// Default reference, by position or by id. DefaultIndex wins when both are set.
	DefaultIndex     *int   `json:"defaultIndex,omitempty"`
	DefaultVariantID string `json:"defaultVariantId,omitempty"`
	DefaultTempID    string `json:"defaultTempId,omitempty"`
}

// DefaultPosition resolves the default reference to a position in Variants, or -1.
func (d ProductDraft) DefaultPosition() int {
	if d.DefaultIndex != nil {
		if *d.DefaultIndex >= 0 && *d.DefaultIndex < len(d.Variants) {
			return *d.DefaultIndex
		}
		return -1
	}
	var ref VariantID
	switch {
	case d.DefaultVariantID != "":
		ref = PersistedID(d.DefaultVariantID)
	case d.DefaultTempID != "":
		ref = DraftID(d.DefaultTempID)
	default:
		return -1
	}
	for i, v := range d.Variants {
		if v.ID == ref {
			return i
		}
	}
	return -1
}

// IDGenerator issues stable identifiers during reconciliation.
type IDGenerator interface {
	ProductID() string
	VariantID(parentID string, position int) string
}

// SequenceIDGenerator builds variant ids as <parent>-<millis>-<position>.
// The millisecond component never repeats within one generator.
type SequenceIDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewSequenceIDGenerator(now func() time.Time) *SequenceIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &SequenceIDGenerator{now: now}
}

func (g *SequenceIDGenerator) ProductID() string {
	return uuid.NewString()
}

func (g *SequenceIDGenerator) VariantID(parentID string, position int) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.now().UnixMilli()
	if ts <= g.last {
		ts = g.last + 1
	}
	g.last = ts
	return fmt.Sprintf("%s-%d-%d", parentID, ts, position)
}

// ValidateDraft rejects drafts with unlabeled variants or unusable prices.
func ValidateDraft(d ProductDraft) error {
	verr := &ValidationError{}
	if strings.TrimSpace(d.Name) == "" {
		verr.Add("name", "is required")
	}
	if d.Kind != "" && !d.Kind.Valid() {
		verr.Add("kind", fmt.Sprintf("unknown product kind %q", d.Kind))
	}
	seen := make(map[string]bool, len(d.Variants))
	for i, v := range d.Variants {
		field := fmt.Sprintf("variants[%d]", i)
		if strings.TrimSpace(v.DisplayKey) == "" {
			verr.Add(field+".displayKey", "is required")
		}
		if !v.IsFreeTrial {
			switch {
			case v.Price == nil:
				verr.Add(field+".price", "is required")
			case math.IsNaN(*v.Price) || math.IsInf(*v.Price, 0):
				verr.Add(field+".price", "must be a number")
			case *v.Price < 0:
				verr.Add(field+".price", "must not be negative")
			}
		}
		if !v.ID.IsDraft() {
			if seen[v.ID.String()] {
				verr.Add(field+".id", "is duplicated")
			}
			seen[v.ID.String()] = true
		}
	}
	return verr.OrNil()
}

// Reconcile turns an editor draft into a product whose identifiers are all stable.
// Persisted variant ids are never rewritten. The default pointer follows the
// submitted position of the default variant, falling back to the first variant.
func Reconcile(prev *Product, draft ProductDraft, gen IDGenerator) (Product, error) {
	if err := ValidateDraft(draft); err != nil {
		return Product{}, err
	}

	parentID := draft.ID
	if prev != nil && prev.ID != "" {
		parentID = prev.ID
	}
	if parentID == "" {
		parentID = gen.ProductID()
	}

	defaultPos := draft.DefaultPosition()

	taken := make(map[string]bool, len(draft.Variants))
	for _, v := range draft.Variants {
		if !v.ID.IsDraft() {
			taken[v.ID.String()] = true
		}
	}

	variants := make([]Variant, len(draft.Variants))
	for i, v := range draft.Variants {
		id := v.ID.String()
		if v.ID.IsDraft() {
			var err error
			if id, err = freshVariantID(gen, parentID, i, taken); err != nil {
				return Product{}, err
			}
			taken[id] = true
		}
		variants[i] = Variant{
			ID:          id,
			DisplayKey:  strings.TrimSpace(v.DisplayKey),
			Price:       v.Price,
			IsFreeTrial: v.IsFreeTrial,
		}
		if v.IsFreeTrial {
			variants[i].Price = nil
		}
	}

	product := Product{
		ID:       parentID,
		Name:     strings.TrimSpace(draft.Name),
		Kind:     draft.Kind,
		Variants: variants,
	}
	if product.Kind == "" {
		product.Kind = ProductKindDigital
		if prev != nil && prev.Kind != "" {
			product.Kind = prev.Kind
		}
	}
	if prev != nil {
		product.CreatedAt = prev.CreatedAt
	}

	switch {
	case defaultPos >= 0:
		product.DefaultVariantID = variants[defaultPos].ID
	case prev != nil && !draft.hasDefaultRef():
		product.DefaultVariantID = prev.DefaultVariantID
	}
	if _, ok := product.FindVariant(product.DefaultVariantID); !ok {
		product.DefaultVariantID = ""
		if len(variants) > 0 {
			product.DefaultVariantID = variants[0].ID
		}
	}

	return product, nil
}

// maxIDAttempts bounds retries against a generator that keeps returning taken ids.
const maxIDAttempts = 16

func freshVariantID(gen IDGenerator, parentID string, position int, taken map[string]bool) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if id := gen.VariantID(parentID, position); id != "" && !taken[id] {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: variant %d of %s after %d attempts", ErrIDExhausted, position, parentID, maxIDAttempts)
}

func (d ProductDraft) hasDefaultRef() bool {
	return d.DefaultIndex != nil || d.DefaultVariantID != "" || d.DefaultTempID != ""
}
