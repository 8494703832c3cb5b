// Package lookml models the semantic entities (explores and dimensions) that
// the validator runs queries against. Loading these trees from a live LookML
// project is an external concern; this package owns the data, the mutation
// the validator performs on it while attributing errors, and LoadProject, a
// minimal decoder for a flat JSON project description.
package lookml

// Reference is an immutable handle to either an Explore or a Dimension,
// carrying a mutable error list and "queried" flag that the validator updates
// as results come back. Only one goroutine (the poller) ever mutates a given
// Reference, so no internal locking is required.
type Reference interface {
	// ModelName is the LookML model this reference belongs to.
	ModelName() string
	// Name is the dimension name for a Dimension, or the explore name for an Explore.
	Name() string
	// ExploreName is the explore this reference belongs to. For an Explore
	// reference this is the same as Name().
	ExploreName() string
	// URL is the LookML IDE URL for this reference, if known.
	URL() string
	// Queried reports whether this reference has received a terminal result.
	Queried() bool
	// SetQueried marks the reference as having received a terminal result.
	SetQueried(bool)
	// Errors returns the SqlErrors attributed to this reference so far.
	Errors() []SqlError
	// AddError appends a SqlError to this reference.
	AddError(SqlError)
	// Kind discriminates the underlying type for reporting, "explore" or "dimension".
	Kind() string
}

// Dimension is a single named column of an Explore, the finest unit the
// validator can attribute an error to.
type Dimension struct {
	Model       string
	Explore     string
	DimName     string
	DimURL      string
	queried     bool
	errors      []SqlError
}

func NewDimension(model, explore, name, url string) *Dimension {
	return &Dimension{Model: model, Explore: explore, DimName: name, DimURL: url}
}

func (d *Dimension) ModelName() string    { return d.Model }
func (d *Dimension) Name() string         { return d.DimName }
func (d *Dimension) ExploreName() string  { return d.Explore }
func (d *Dimension) URL() string          { return d.DimURL }
func (d *Dimension) Queried() bool        { return d.queried }
func (d *Dimension) SetQueried(q bool)    { d.queried = q }
func (d *Dimension) Errors() []SqlError   { return d.errors }
func (d *Dimension) AddError(e SqlError)  { d.errors = append(d.errors, e) }
func (d *Dimension) Kind() string         { return "dimension" }

// Explore is a named semantic view over a model, composed of dimensions. It
// is also itself a Reference: a coarse-grained attribution target used when
// fail-fast mode reports an error without localizing it to a dimension.
type Explore struct {
	Model      string
	ExpName    string
	ExpURL     string
	Dimensions []*Dimension
	queried    bool
	errors     []SqlError
}

func NewExplore(model, name string, dimensions []*Dimension) *Explore {
	return &Explore{Model: model, ExpName: name, Dimensions: dimensions}
}

func (e *Explore) ModelName() string    { return e.Model }
func (e *Explore) Name() string         { return e.ExpName }
func (e *Explore) ExploreName() string  { return e.ExpName }
func (e *Explore) URL() string          { return e.ExpURL }
func (e *Explore) Queried() bool        { return e.queried }
func (e *Explore) SetQueried(q bool)    { e.queried = q }
func (e *Explore) Errors() []SqlError   { return e.errors }
func (e *Explore) AddError(err SqlError) { e.errors = append(e.errors, err) }
func (e *Explore) Kind() string         { return "explore" }

// DimensionNames returns the ordered names of this explore's dimensions,
// the field list sent to the analytics API when building a Query.
func (e *Explore) DimensionNames() []string {
	names := make([]string, len(e.Dimensions))
	for i, d := range e.Dimensions {
		names[i] = d.DimName
	}
	return names
}

var (
	_ Reference = (*Dimension)(nil)
	_ Reference = (*Explore)(nil)
)
