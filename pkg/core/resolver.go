package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blackcoderx/ferrapi/pkg/logging"
	"github.com/blackcoderx/ferrapi/pkg/render"
	"github.com/blackcoderx/ferrapi/pkg/storage"
)

// ErrMissingURL is returned at execution time when no URL is available from any source.
var ErrMissingURL = errors.New("no URL to request")

// Resolver turns an Input into a finalized request and runs it.
type Resolver struct {
	store     *storage.Store
	selector  NamespaceSelector
	confirmer Confirmer
	transport Transport
}

// NewResolver wires a resolver. selector and confirmer may be nil when the caller never
// sets Input.Interactive or always sets Input.Force.
func NewResolver(store *storage.Store, selector NamespaceSelector, confirmer Confirmer, transport Transport) *Resolver {
	return &Resolver{
		store:     store,
		selector:  selector,
		confirmer: confirmer,
		transport: transport,
	}
}

// Resolve applies the decision policy in order: namespace creation, namespace deletion,
// single deletion, then load/merge/save/execute.
func (r *Resolver) Resolve(ctx context.Context, in Input) (*Result, error) {
	method := in.Method
	if method == "" {
		method = storage.MethodGet
	}

	switch {
	case in.CreateNamespace != "":
		if err := r.store.CreateNamespace(in.CreateNamespace); err != nil {
			return nil, err
		}
		logging.Info("Resolver", "created namespace %s", in.CreateNamespace)
		return &Result{Action: ActionCreateNamespace, Namespace: in.CreateNamespace}, nil

	case in.DeleteAll != "":
		return r.deleteNamespace(ctx, in)

	case in.Delete != "":
		if err := r.store.Delete(in.Delete, method); err != nil {
			return nil, err
		}
		logging.Info("Resolver", "deleted %s %s", method, in.Delete)
		return &Result{Action: ActionDelete, Namespace: in.Delete, Method: method}, nil
	}

	target := in.Target
	if in.Interactive {
		if r.selector == nil {
			return nil, fmt.Errorf("interactive selection is not available")
		}
		selected, err := r.selector.Run(ctx)
		if err != nil {
			return nil, err
		}
		target = selected
	}

	overrides := in.Overrides
	if isURL(target) {
		if overrides.URL == nil {
			url := target
			overrides.URL = &url
		}
		target = ""
	}

	result := &Result{Action: ActionExecute, Namespace: target, Method: method}

	desc, loaded, err := r.load(target, method)
	if err != nil {
		return nil, err
	}
	result.Loaded = loaded
	desc.Method = method
	applyOverrides(desc, overrides)
	result.Descriptor = desc

	if in.Save {
		if target == "" {
			logging.Warn("Resolver", "--save is ignored because TARGET is not specified")
		} else if err := r.save(target, method, desc, result); err != nil {
			return nil, err
		}
	}

	if in.DryRun {
		result.Action = ActionDryRun
		return result, nil
	}

	executed := storage.ApplyEnvironment(desc, in.Environment)
	if strings.TrimSpace(executed.URL) == "" {
		return result, ErrMissingURL
	}

	if in.Auth != nil {
		header, err := in.Auth.Authorization(ctx)
		if err != nil {
			return result, err
		}
		executed.SetHeader("Authorization", header)
	}

	resp, err := r.transport.Do(ctx, executed)
	if err != nil {
		return result, err
	}
	result.Response = resp
	return result, nil
}

func (r *Resolver) deleteNamespace(ctx context.Context, in Input) (*Result, error) {
	result := &Result{Action: ActionDeleteNamespace, Namespace: in.DeleteAll}

	if !in.Force && r.confirmer != nil {
		ok, err := r.confirmer.Confirm(ctx, fmt.Sprintf("Delete namespace %s and everything beneath it?", in.DeleteAll))
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Action = ActionCancelled
			return result, nil
		}
	}

	if err := r.store.DeleteNamespace(in.DeleteAll); err != nil {
		return nil, err
	}
	logging.Info("Resolver", "deleted namespace %s", in.DeleteAll)
	return result, nil
}

// load returns the saved descriptor for target, or a fresh one when target is empty or
// has nothing saved for method.
func (r *Resolver) load(target string, method storage.Method) (*storage.RequestDescriptor, bool, error) {
	if target == "" {
		return &storage.RequestDescriptor{Method: method}, false, nil
	}

	desc, err := r.store.Load(target, method)
	if err != nil {
		if errors.Is(err, storage.ErrConfigNotFound) {
			logging.Debug("Resolver", "no saved %s config under %s, building from flags", method, target)
			return &storage.RequestDescriptor{Method: method}, false, nil
		}
		return nil, false, err
	}
	logging.Debug("Resolver", "loaded %s config from %s", method, target)
	return desc, true, nil
}

func (r *Resolver) save(target string, method storage.Method, desc *storage.RequestDescriptor, result *Result) error {
	// Nothing to diff against when the file is missing or unreadable.
	previous, err := r.store.ReadRaw(target, method)
	if err != nil {
		previous = nil
	}

	path, err := r.store.Save(target, method, desc)
	if err != nil {
		return err
	}
	result.SavedPath = path

	if previous != nil {
		current, err := r.store.ReadRaw(target, method)
		if err != nil {
			return err
		}
		diff, err := render.UnifiedDiff(path, string(previous), string(current))
		if err != nil {
			logging.Warn("Resolver", "could not diff %s: %v", path, err)
		}
		result.Diff = diff
	}
	return nil
}

func applyOverrides(d *storage.RequestDescriptor, o Overrides) {
	if o.URL != nil {
		d.URL = *o.URL
	}
	for key, value := range o.Headers {
		d.SetHeader(key, value)
	}
	if o.Body != nil {
		d.Body = *o.Body
	}
	if o.Timeout != nil {
		d.Timeout = *o.Timeout
	}
}

func isURL(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
