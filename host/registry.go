package host

import (
	"context"
	stdErrors "errors"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/fornjot/modelhost/domain/errors"
)

// Registry is the ordered collection of models a Loader produced.
// It is not modified after Load returns.
type Registry struct {
	models []*Model
}

// Models returns the loaded models in load order.
func (r *Registry) Models() []*Model {
	out := make([]*Model, len(r.models))
	copy(out, r.models)
	return out
}

// Len returns the number of loaded models.
func (r *Registry) Len() int {
	return len(r.models)
}

// List returns the Metadata of every model in load order.
func (r *Registry) List(ctx context.Context) ([]entities.Metadata, error) {
	out := make([]entities.Metadata, 0, len(r.models))
	for _, m := range r.models {
		meta, err := m.Metadata(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, meta)
	}
	return out, nil
}

// Find returns the first model whose Metadata name equals name exactly.
// Only on_load is called while searching.
func (r *Registry) Find(ctx context.Context, name string) (*Model, error) {
	for _, m := range r.models {
		meta, err := m.Metadata(ctx)
		if err != nil {
			return nil, err
		}
		if meta.Name == name {
			return m, nil
		}
	}
	return nil, &errors.NotFoundError{Name: name}
}

// Close closes every model and releases their handles.
func (r *Registry) Close(ctx context.Context) error {
	errs := make([]error, 0, len(r.models))
	for _, m := range r.models {
		errs = append(errs, m.Close(ctx))
	}
	return stdErrors.Join(errs...)
}
