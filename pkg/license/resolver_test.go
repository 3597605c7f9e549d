package license

import (
	"context"
	"errors"
	"testing"
)

// memStore is an in-memory Store for resolver tests.
type memStore struct {
	nextID      int64
	categories  []Category
	bindings    map[string]int64
	conversions map[string]string
}

func newMemStore(categoryNames ...string) *memStore {
	s := &memStore{
		bindings:    map[string]int64{},
		conversions: map[string]string{},
	}
	for _, name := range categoryNames {
		s.nextID++
		s.categories = append(s.categories, Category{ID: s.nextID, Name: name})
	}
	return s
}

func (s *memStore) Categories(ctx context.Context) ([]Category, error) {
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

func (s *memStore) CategoryByName(ctx context.Context, name string) (Category, error) {
	for _, c := range s.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return Category{}, ErrNotFound
}

func (s *memStore) CreateCategory(ctx context.Context, name string) (Category, error) {
	s.nextID++
	c := Category{ID: s.nextID, Name: name}
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *memStore) Binding(ctx context.Context, expression string) (Category, error) {
	id, ok := s.bindings[expression]
	if !ok {
		return Category{}, ErrNotFound
	}
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, ErrNotFound
}

func (s *memStore) BindExpression(ctx context.Context, expression string, categoryID int64) error {
	s.bindings[expression] = categoryID
	return nil
}

func (s *memStore) Conversion(ctx context.Context, expression string) (string, error) {
	text, ok := s.conversions[expression]
	if !ok {
		return "", ErrNotFound
	}
	return text, nil
}

func (s *memStore) AddConversion(ctx context.Context, oldText, newText string) error {
	s.conversions[oldText] = newText
	return nil
}

// scriptedDecider replays a fixed list of decisions and records what it was
// asked about.
type scriptedDecider struct {
	decisions []Decision
	asked     []string
	displays  []string
}

func (d *scriptedDecider) Decide(ctx context.Context, expression, display string, categories []Category) (Decision, error) {
	d.asked = append(d.asked, expression)
	d.displays = append(d.displays, display)
	if len(d.decisions) == 0 {
		return Decision{}, ErrEscalationAbandoned
	}
	dec := d.decisions[0]
	d.decisions = d.decisions[1:]
	return dec, nil
}

func TestResolveMissingReservedCategory(t *testing.T) {
	store := newMemStore("Permissive")
	if _, err := NewResolver(context.Background(), store, &scriptedDecider{}, nil); !errors.Is(err, ErrMissingReservedCategory) {
		t.Fatalf("expected ErrMissingReservedCategory, got %v", err)
	}
}

func TestResolveNoLicense(t *testing.T) {
	store := newMemStore(NoLicenseFound, "Permissive")
	decider := &scriptedDecider{}
	r, err := NewResolver(context.Background(), store, decider, []string{".png"})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	res, err := r.Resolve(context.Background(), NoLicense, ".c")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Display != NoLicenseFound || res.Category.Name != NoLicenseFound || res.Excluded {
		t.Fatalf("got %#v", res)
	}
	if len(decider.asked) != 0 {
		t.Fatalf("no-license files must not escalate, asked %v", decider.asked)
	}
}

func TestResolveIgnoredExtension(t *testing.T) {
	store := newMemStore(NoLicenseFound)
	decider := &scriptedDecider{}
	// extensions are matched case-insensitively and get a leading dot added
	r, err := NewResolver(context.Background(), store, decider, []string{"PNG", ".gif"})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	for _, ext := range []string{".png", ".PNG", ".gif"} {
		res, err := r.Resolve(context.Background(), NoLicense, ext)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", ext, err)
		}
		if !res.Excluded || res.Display != ExcludedExtensionLabel {
			t.Fatalf("Resolve(%s) = %#v", ext, res)
		}
	}
	if len(decider.asked) != 0 {
		t.Fatalf("excluded files must not escalate, asked %v", decider.asked)
	}
	if len(store.bindings) != 0 {
		t.Fatalf("excluded files must not create bindings: %v", store.bindings)
	}
	// an expression on an ignored-extension file still resolves normally
	store.bindings["MIT"] = 1
	res, err := r.Resolve(context.Background(), "MIT", ".png")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Excluded {
		t.Fatal("expression-carrying file must not be excluded")
	}
}

func TestResolveExistingBinding(t *testing.T) {
	store := newMemStore(NoLicenseFound, "Permissive")
	store.bindings["MIT"] = 2
	store.conversions["MIT"] = "MIT License"
	decider := &scriptedDecider{}
	r, err := NewResolver(context.Background(), store, decider, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	res, err := r.Resolve(context.Background(), "MIT", ".c")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Category.Name != "Permissive" {
		t.Fatalf("expected Permissive, got %q", res.Category.Name)
	}
	if res.Display != "MIT License" {
		t.Fatalf("expected converted display, got %q", res.Display)
	}
	if res.Expression != "MIT" {
		t.Fatalf("expression must stay the pre-conversion key, got %q", res.Expression)
	}
	if len(decider.asked) != 0 {
		t.Fatalf("bound expression must not escalate, asked %v", decider.asked)
	}
}

func TestResolveEscalateBindExisting(t *testing.T) {
	store := newMemStore(NoLicenseFound, "Copyleft")
	decider := &scriptedDecider{decisions: []Decision{
		{Action: BindExisting, Category: Category{ID: 2, Name: "Copyleft"}},
	}}
	r, err := NewResolver(context.Background(), store, decider, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	res, err := r.Resolve(context.Background(), "AGPL-3.0", ".c")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Category.Name != "Copyleft" {
		t.Fatalf("got %#v", res)
	}
	if store.bindings["AGPL-3.0"] != 2 {
		t.Fatalf("binding not persisted: %v", store.bindings)
	}

	// second resolve hits the binding, no second prompt
	if _, err := r.Resolve(context.Background(), "AGPL-3.0", ".h"); err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if len(decider.asked) != 1 {
		t.Fatalf("expected exactly one escalation, got %v", decider.asked)
	}
}

func TestResolveEscalateCreateAndBind(t *testing.T) {
	store := newMemStore(NoLicenseFound)
	decider := &scriptedDecider{decisions: []Decision{
		{Action: CreateAndBind, NewCategoryName: "Weird"},
	}}
	r, err := NewResolver(context.Background(), store, decider, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	res, err := r.Resolve(context.Background(), "WTFPL", ".c")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Category.Name != "Weird" {
		t.Fatalf("got %#v", res)
	}
	if _, err := store.CategoryByName(context.Background(), "Weird"); err != nil {
		t.Fatalf("category not created: %v", err)
	}
	if store.bindings["WTFPL"] != res.Category.ID {
		t.Fatalf("binding not persisted: %v", store.bindings)
	}
}

func TestResolveEscalateAddConversionThenBind(t *testing.T) {
	store := newMemStore(NoLicenseFound, "Permissive")
	decider := &scriptedDecider{decisions: []Decision{
		{Action: AddConversion, NewDisplayText: "MIT License"},
		{Action: BindExisting, Category: Category{ID: 2, Name: "Permissive"}},
	}}
	r, err := NewResolver(context.Background(), store, decider, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	res, err := r.Resolve(context.Background(), "MIT-style", ".c")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Display != "MIT License" {
		t.Fatalf("expected converted display after AddConversion, got %q", res.Display)
	}
	if store.conversions["MIT-style"] != "MIT License" {
		t.Fatalf("conversion not persisted: %v", store.conversions)
	}
	// the second prompt must already show the converted text
	if len(decider.displays) != 2 || decider.displays[1] != "MIT License" {
		t.Fatalf("displays seen by decider: %v", decider.displays)
	}
	// binding is keyed on the pre-conversion expression
	if store.bindings["MIT-style"] != 2 {
		t.Fatalf("binding keyed wrong: %v", store.bindings)
	}
}

func TestResolveAbandoned(t *testing.T) {
	store := newMemStore(NoLicenseFound)
	r, err := NewResolver(context.Background(), store, &scriptedDecider{}, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	if _, err := r.Resolve(context.Background(), "Mystery-1.0", ".c"); !errors.Is(err, ErrEscalationAbandoned) {
		t.Fatalf("expected ErrEscalationAbandoned, got %v", err)
	}
	if len(store.bindings) != 0 {
		t.Fatalf("abandoned escalation must leave no binding: %v", store.bindings)
	}
}
