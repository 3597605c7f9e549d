package license

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oss-clearing/licsum/internal/utils"
)

// Reserved display texts. NoLicenseFound must exist as a category in every
// project database; the excluded-extension label is display-only and never
// bound to an expression.
const (
	NoLicenseFound         = "No license found"
	ExcludedExtensionLabel = "No license found - excluded file extension"
)

var (
	// ErrNotFound is returned by Store lookups that come up empty.
	ErrNotFound = errors.New("not found")

	// ErrEscalationAbandoned means the operator declined to categorize an
	// unknown expression. The import as a whole must abort on it.
	ErrEscalationAbandoned = errors.New("operator abandoned license categorization")

	// ErrMissingReservedCategory means the project database has no
	// "No license found" category. That is a configuration error, not a
	// per-record failure, so resolution cannot even start.
	ErrMissingReservedCategory = fmt.Errorf("reserved category %q missing from project database", NoLicenseFound)
)

// Category is a named grouping for report purposes.
type Category struct {
	ID   int64
	Name string
}

// Store is the persistence handle the resolver works against. During an
// import it is backed by a single transaction, so bindings written here are
// visible to later lookups but vanish if the import aborts.
type Store interface {
	Categories(ctx context.Context) ([]Category, error)
	CategoryByName(ctx context.Context, name string) (Category, error)
	CreateCategory(ctx context.Context, name string) (Category, error)

	// Binding returns the category bound to an exact normalized expression.
	Binding(ctx context.Context, expression string) (Category, error)
	BindExpression(ctx context.Context, expression string, categoryID int64) error

	// Conversion returns the replacement display text for an expression.
	Conversion(ctx context.Context, expression string) (string, error)
	AddConversion(ctx context.Context, oldText, newText string) error
}

// DecisionAction is what the operator chose to do with an unknown expression.
type DecisionAction int

const (
	// BindExisting attaches the expression to Decision.Category.
	BindExisting DecisionAction = iota
	// CreateAndBind creates Decision.NewCategoryName and attaches to it.
	CreateAndBind
	// AddConversion records Decision.NewDisplayText as the display
	// replacement, then asks again for a binding choice.
	AddConversion
)

// Decision is one operator answer during escalation.
type Decision struct {
	Action          DecisionAction
	Category        Category
	NewCategoryName string
	NewDisplayText  string
}

// Decider supplies operator decisions for expressions with no binding.
// Implementations block until the operator answers; returning an error
// (typically ErrEscalationAbandoned) aborts the import.
type Decider interface {
	Decide(ctx context.Context, expression, display string, categories []Category) (Decision, error)
}

// Resolution is the resolver's answer for one expression on one file.
type Resolution struct {
	// Expression is the normalized categorization key; empty for files with
	// no license expression.
	Expression string
	Display    string
	Category   Category
	// Excluded marks the ignore-extension bucket: no binding exists or will
	// ever be created for these.
	Excluded bool
}

// Resolver maps normalized expressions to categories, escalating unknown
// ones through the Decider exactly once per distinct expression.
type Resolver struct {
	store      Store
	decider    Decider
	ignoreExts map[string]bool
	noLicense  Category
}

// NewResolver fails with ErrMissingReservedCategory if the store has no
// "No license found" category.
func NewResolver(ctx context.Context, store Store, decider Decider, ignoreExts []string) (*Resolver, error) {
	reserved, err := store.CategoryByName(ctx, NoLicenseFound)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrMissingReservedCategory
	}
	if err != nil {
		return nil, err
	}

	exts := make(map[string]bool, len(ignoreExts))
	for _, e := range ignoreExts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}

	return &Resolver{
		store:      store,
		decider:    decider,
		ignoreExts: exts,
		noLicense:  reserved,
	}, nil
}

// Resolve maps one normalized expression to a category. fileExt is the
// file's extension including the leading dot (may be empty).
//
// Resolution order: excluded-extension bucket, reserved no-license category,
// existing binding, operator escalation. A binding created by escalation is
// persisted through the store before Resolve returns, so the same expression
// never prompts twice within or across imports of the same project.
func (r *Resolver) Resolve(ctx context.Context, normalized, fileExt string) (Resolution, error) {
	if normalized == NoLicense {
		if r.ignoreExts[strings.ToLower(fileExt)] {
			return Resolution{
				Display:  ExcludedExtensionLabel,
				Category: r.noLicense,
				Excluded: true,
			}, nil
		}
		return Resolution{
			Display:  NoLicenseFound,
			Category: r.noLicense,
		}, nil
	}

	cat, err := r.store.Binding(ctx, normalized)
	if err == nil {
		display, derr := r.display(ctx, normalized)
		if derr != nil {
			return Resolution{}, derr
		}
		return Resolution{Expression: normalized, Display: display, Category: cat}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Resolution{}, err
	}

	return r.escalate(ctx, normalized)
}

// escalate loops on operator decisions until the expression is bound. An
// AddConversion answer records the display substitution and re-asks for a
// binding choice on the unchanged normalized key.
func (r *Resolver) escalate(ctx context.Context, normalized string) (Resolution, error) {
	for {
		display, err := r.display(ctx, normalized)
		if err != nil {
			return Resolution{}, err
		}

		cats, err := r.store.Categories(ctx)
		if err != nil {
			return Resolution{}, err
		}

		decision, err := r.decider.Decide(ctx, normalized, display, cats)
		if err != nil {
			return Resolution{}, err
		}

		switch decision.Action {
		case BindExisting:
			if err := r.store.BindExpression(ctx, normalized, decision.Category.ID); err != nil {
				return Resolution{}, err
			}
			utils.Log.Infof("bound %q to category %q", normalized, decision.Category.Name)
			return Resolution{Expression: normalized, Display: display, Category: decision.Category}, nil

		case CreateAndBind:
			cat, err := r.store.CreateCategory(ctx, decision.NewCategoryName)
			if err != nil {
				return Resolution{}, err
			}
			if err := r.store.BindExpression(ctx, normalized, cat.ID); err != nil {
				return Resolution{}, err
			}
			utils.Log.Infof("created category %q and bound %q to it", cat.Name, normalized)
			return Resolution{Expression: normalized, Display: display, Category: cat}, nil

		case AddConversion:
			if err := r.store.AddConversion(ctx, normalized, decision.NewDisplayText); err != nil {
				return Resolution{}, err
			}

		default:
			return Resolution{}, fmt.Errorf("unknown decision action %d", decision.Action)
		}
	}
}

// display applies the conversion table to an expression; with no conversion
// on record, the expression is its own display text.
func (r *Resolver) display(ctx context.Context, normalized string) (string, error) {
	text, err := r.store.Conversion(ctx, normalized)
	if errors.Is(err, ErrNotFound) {
		return normalized, nil
	}
	if err != nil {
		return "", err
	}
	return text, nil
}
